package crudy_test

import (
	"context"
	"sync"

	"github.com/broady/crudy"
)

const baseURL = "https://api.example.com/users"

type hookEvent struct {
	Hook    string
	Verb    string
	Payload any
	Result  any
	Err     error
}

// hookRecorder records every hook invocation in order.
type hookRecorder struct {
	mu        sync.Mutex
	events    []hookEvent
	beforeErr error
}

func (r *hookRecorder) hooks() crudy.Hooks {
	return crudy.Hooks{
		Before: func(ctx context.Context, verb string, payload any) error {
			r.add(hookEvent{Hook: "before", Verb: verb, Payload: payload})
			return r.beforeErr
		},
		OnSuccess: func(ctx context.Context, verb string, result any) {
			r.add(hookEvent{Hook: "success", Verb: verb, Result: result})
		},
		OnError: func(ctx context.Context, verb string, err error) {
			r.add(hookEvent{Hook: "error", Verb: verb, Err: err})
		},
	}
}

func (r *hookRecorder) add(e hookEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *hookRecorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.events))
	for i, e := range r.events {
		names[i] = e.Hook
	}
	return names
}

func (r *hookRecorder) last() hookEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return hookEvent{}
	}
	return r.events[len(r.events)-1]
}

func (r *hookRecorder) count(hook string) int {
	n := 0
	for _, name := range r.names() {
		if name == hook {
			n++
		}
	}
	return n
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
