package crudy

import "context"

// Hooks are optional lifecycle callbacks run by every dispatch.
//
// Before runs first, with the HTTP verb and the request payload (nil for
// bodyless calls). A non-nil error from Before aborts the call: it is returned
// to the caller unchanged and no other hook runs.
//
// Once Before has passed, exactly one of OnSuccess or OnError runs.
// OnError is a notification only; it cannot suppress or replace the error.
//
// Panics raised by hooks are not recovered.
type Hooks struct {
	Before    func(ctx context.Context, verb string, payload any) error
	OnSuccess func(ctx context.Context, verb string, result any)
	OnError   func(ctx context.Context, verb string, err error)
}

func (h Hooks) before(ctx context.Context, verb string, payload any) error {
	if h.Before == nil {
		return nil
	}
	return h.Before(ctx, verb, payload)
}

func (h Hooks) onSuccess(ctx context.Context, verb string, result any) {
	if h.OnSuccess != nil {
		h.OnSuccess(ctx, verb, result)
	}
}

func (h Hooks) onError(ctx context.Context, verb string, err error) {
	if h.OnError != nil {
		h.OnError(ctx, verb, err)
	}
}

// ChainHooks combines several hook sets into one.
// Before callbacks run in order and stop at the first error.
// OnSuccess and OnError callbacks all run, in order.
func ChainHooks(hooks ...Hooks) Hooks {
	switch len(hooks) {
	case 0:
		return Hooks{}
	case 1:
		return hooks[0]
	}

	var out Hooks
	var befores []func(context.Context, string, any) error
	var successes []func(context.Context, string, any)
	var failures []func(context.Context, string, error)
	for _, h := range hooks {
		if h.Before != nil {
			befores = append(befores, h.Before)
		}
		if h.OnSuccess != nil {
			successes = append(successes, h.OnSuccess)
		}
		if h.OnError != nil {
			failures = append(failures, h.OnError)
		}
	}

	if len(befores) > 0 {
		out.Before = func(ctx context.Context, verb string, payload any) error {
			for _, fn := range befores {
				if err := fn(ctx, verb, payload); err != nil {
					return err
				}
			}
			return nil
		}
	}
	if len(successes) > 0 {
		out.OnSuccess = func(ctx context.Context, verb string, result any) {
			for _, fn := range successes {
				fn(ctx, verb, result)
			}
		}
	}
	if len(failures) > 0 {
		out.OnError = func(ctx context.Context, verb string, err error) {
			for _, fn := range failures {
				fn(ctx, verb, err)
			}
		}
	}
	return out
}
