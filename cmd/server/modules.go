package main

import (
	"encoding/json"
	"net/http"

	"github.com/docflow/docflow/internal/api"
	"github.com/docflow/docflow/internal/config"
	"github.com/docflow/docflow/internal/infrastructure"
	"github.com/docflow/docflow/pkg/module"
)

type Modules struct {
	API *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{
		API: apiModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
}

func buildRouter(infra *infrastructure.Infrastructure, cfg *config.Config) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"service": "docflow",
			"version": cfg.Version,
			"status":  "running",
			"endpoints": map[string]string{
				"upload":  "POST " + cfg.API.BasePath + "/documents/upload",
				"status":  "GET " + cfg.API.BasePath + "/documents/{id}/status",
				"results": "GET " + cfg.API.BasePath + "/documents/{id}/results",
				"cancel":  "DELETE " + cfg.API.BasePath + "/documents/{id}",
				"list":    "GET " + cfg.API.BasePath + "/documents",
			},
		})
	})

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	return router
}
