package pipeline

import (
	"context"
	"time"
)

// RetryPolicy bounds the per-model retry loop. Delay before retry i (0-based)
// is BaseDelay * 2^i, capped at MaxDelay when MaxDelay > 0.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryPolicy mirrors the service defaults: 5 attempts, 1s base.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 5, BaseDelay: time.Second}
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 5
	}
	if p.BaseDelay < 0 {
		p.BaseDelay = 0
	}
	return p
}

// Delay returns the backoff before retry number i (0-based).
func (p RetryPolicy) Delay(i int) time.Duration {
	d := p.BaseDelay
	for ; i > 0; i-- {
		d *= 2
		if p.MaxDelay > 0 && d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// AttemptFunc performs one upstream call against model.
type AttemptFunc func(ctx context.Context, model string) (string, error)

// Result is the first successful answer.
type Result struct {
	Text     string
	Model    string
	Attempts int
}

// Runner walks an ordered list of candidate models, retrying each one with
// exponential backoff while the upstream reports overload.
type Runner struct {
	policy    RetryPolicy
	retryable func(error) bool
	pub       EventPublisher
	sleep     func(context.Context, time.Duration) error
}

// Option customises a Runner.
type Option func(*Runner)

// WithPublisher installs an event publisher. nil restores the no-op default.
func WithPublisher(p EventPublisher) Option {
	return func(r *Runner) {
		if p == nil {
			p = noopPublisher{}
		}
		r.pub = p
	}
}

// WithSleep replaces the backoff wait; tests use it to skip real delays.
func WithSleep(fn func(context.Context, time.Duration) error) Option {
	return func(r *Runner) {
		if fn != nil {
			r.sleep = fn
		}
	}
}

// NewRunner builds a Runner. retryable classifies overload errors; nil means
// nothing is retried.
func NewRunner(policy RetryPolicy, retryable func(error) bool, opts ...Option) *Runner {
	if retryable == nil {
		retryable = func(error) bool { return false }
	}
	r := &Runner{
		policy:    policy.withDefaults(),
		retryable: retryable,
		pub:       noopPublisher{},
		sleep:     sleepCtx,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Policy returns the effective retry policy.
func (r *Runner) Policy() RetryPolicy { return r.policy }

// Run tries models strictly in order. A non-retryable error aborts the whole
// run as an upstream error; a model that stays overloaded for every attempt
// hands over to the next one. When no model is left the terminal
// all-overloaded error is returned. Nothing is remembered between calls.
func (r *Runner) Run(ctx context.Context, models []string, attempt AttemptFunc) (Result, error) {
	if len(models) == 0 {
		return Result{}, ErrNoModels
	}
	total := 0
	var last error
	for mi, model := range models {
		if mi > 0 {
			r.pub.Publish(Event{Name: EventFallback, Model: model, Fields: map[string]any{"from": models[mi-1]}})
		}
		for i := 0; i < r.policy.MaxAttempts; i++ {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
			total++
			r.pub.Publish(Event{Name: EventAttempt, Model: model, Fields: map[string]any{"attempt": i + 1}})
			text, err := attempt(ctx, model)
			if err == nil {
				r.pub.Publish(Event{Name: EventSuccess, Model: model, Fields: map[string]any{"attempts": total}})
				return Result{Text: text, Model: model, Attempts: total}, nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Result{}, ctxErr
			}
			if !r.retryable(err) {
				r.pub.Publish(Event{Name: EventAbort, Model: model, Fields: map[string]any{"error": err.Error()}})
				return Result{}, ErrUpstream(model, err)
			}
			last = err
			if i == r.policy.MaxAttempts-1 {
				break
			}
			d := r.policy.Delay(i)
			r.pub.Publish(Event{Name: EventRetry, Model: model, Fields: map[string]any{"attempt": i + 1, "delay_ms": d.Milliseconds()}})
			if err := r.sleep(ctx, d); err != nil {
				return Result{}, err
			}
		}
	}
	r.pub.Publish(Event{Name: EventExhausted, Fields: map[string]any{"models": len(models), "attempts": total}})
	return Result{}, ErrAllOverloaded(models, last)
}

// RunWithFallback runs attempt over models with the default policy.
func RunWithFallback(ctx context.Context, models []string, retryable func(error) bool, attempt AttemptFunc) (Result, error) {
	return NewRunner(DefaultRetryPolicy(), retryable).Run(ctx, models, attempt)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
