package executor

import (
	"context"
	"time"

	"github.com/imamik/sdprov/internal/metrics"
)

// Instrumented wraps an Executor and records run counts and durations.
type Instrumented struct {
	Executor
}

// WithMetrics wraps e so every run is recorded.
func WithMetrics(e Executor) *Instrumented {
	return &Instrumented{Executor: e}
}

// Run delegates to the wrapped executor.
func (i *Instrumented) Run(ctx context.Context, tag Tag, extraVars map[string]any, inventory string) (Result, error) {
	start := time.Now()
	result, err := i.Executor.Run(ctx, tag, extraVars, inventory)
	metrics.RecordExecutorRun(string(tag), metrics.ResultLabel(err), time.Since(start).Seconds())
	return result, err
}
