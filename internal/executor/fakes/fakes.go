// Package fakes provides a scripted Executor for tests.
package fakes

import (
	"context"
	"maps"
	"sync"

	"github.com/imamik/sdprov/internal/executor"
)

// Call is one recorded executor invocation.
type Call struct {
	Tag       executor.Tag
	Vars      map[string]any
	Inventory string
}

type response struct {
	result executor.Result
	err    error
}

// Executor replays queued responses per tag. A tag with nothing queued
// succeeds with an empty result. A queued result carrying a nonzero exit
// code fails the way the real executor does.
type Executor struct {
	mu        sync.Mutex
	responses map[executor.Tag][]response
	calls     []Call
}

// NewExecutor returns an empty fake.
func NewExecutor() *Executor {
	return &Executor{responses: map[executor.Tag][]response{}}
}

// On queues a response for tag.
func (f *Executor) On(tag executor.Tag, result executor.Result, err error) *Executor {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[tag] = append(f.responses[tag], response{result: result, err: err})
	return f
}

// Run implements executor.Executor.
func (f *Executor) Run(ctx context.Context, tag executor.Tag, extraVars map[string]any, inventory string) (executor.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, Call{Tag: tag, Vars: maps.Clone(extraVars), Inventory: inventory})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	queue := f.responses[tag]
	if len(queue) == 0 {
		return executor.Result{}, nil
	}
	next := queue[0]
	f.responses[tag] = queue[1:]
	if next.err == nil {
		return next.result, next.result.Err(tag)
	}
	return next.result, next.err
}

// Calls returns every recorded invocation in order.
func (f *Executor) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsFor returns the recorded invocations of tag.
func (f *Executor) CallsFor(tag executor.Tag) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Call
	for _, c := range f.calls {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// Tags returns the tag of every recorded invocation in order.
func (f *Executor) Tags() []executor.Tag {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]executor.Tag, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.Tag)
	}
	return out
}
