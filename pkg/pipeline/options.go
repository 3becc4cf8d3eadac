package pipeline

import (
	"log/slog"

	"github.com/askiada/go-docpipeline/pkg/pipeline/model"
)

type RunnerOption func(r *SimpleRunner)

// RunnerLogger sets the logger used to trace step dispatch.
func RunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *SimpleRunner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// RunnerHooks plugs observers, such as measure or drawer, into the runner.
func RunnerHooks(hooks ...model.RunnerHook) RunnerOption {
	return func(r *SimpleRunner) {
		r.hooks = append(r.hooks, hooks...)
	}
}
