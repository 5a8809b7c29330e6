package api

import (
	"github.com/docflow/docflow/internal/jobs"
	"github.com/docflow/docflow/internal/pipeline"
	"github.com/docflow/docflow/internal/snapshots"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Jobs jobs.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	delegate := pipeline.NewAgentDelegate(runtime.Agent)
	snapshotStore := snapshots.New(runtime.Database.Connection(), runtime.Logger)

	jobsSystem := jobs.New(
		delegate,
		runtime.Storage,
		snapshotStore,
		runtime.Logger,
		runtime.JobOptions,
	)

	return &Domain{
		Jobs: jobsSystem,
	}
}
