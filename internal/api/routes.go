package api

import (
	"net/http"

	"github.com/docflow/docflow/internal/config"
	"github.com/docflow/docflow/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) {
	routes.Register(
		mux,
		domain.Jobs.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
	)
}
