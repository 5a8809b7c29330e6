// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/docflow/docflow/internal/config"
	"github.com/docflow/docflow/internal/infrastructure"
	"github.com/docflow/docflow/pkg/middleware"
	"github.com/docflow/docflow/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// Domain systems that run background work are registered with the lifecycle
// coordinator before the module is returned.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	if err := domain.Jobs.Start(runtime.Lifecycle); err != nil {
		return nil, fmt.Errorf("jobs start failed: %w", err)
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
