package api

import (
	"github.com/docflow/docflow/internal/config"
	"github.com/docflow/docflow/internal/infrastructure"
	"github.com/docflow/docflow/internal/jobs"
	"github.com/docflow/docflow/internal/pipeline"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	JobOptions jobs.Options
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Agent:     cfg.Agent,
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		JobOptions: jobs.Options{
			MaxConcurrent:     int64(cfg.Jobs.MaxConcurrent),
			AllowedExtensions: cfg.Jobs.AllowedExtensions,
			ProcessingTimeout: cfg.Jobs.ProcessingTimeoutDuration(),
			Thresholds: pipeline.Thresholds{
				High: cfg.Pipeline.HighThreshold,
				Low:  cfg.Pipeline.LowThreshold,
			},
		},
	}
}
