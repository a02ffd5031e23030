package pipeline

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

var errOverload = errors.New("overloaded")

func isOverload(err error) bool { return errors.Is(err, errOverload) }

// recordSleep captures requested delays without waiting.
type recordSleep struct{ delays []time.Duration }

func (s *recordSleep) sleep(ctx context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return ctx.Err()
}

func newTestRunner(pub EventPublisher, s *recordSleep) *Runner {
	return NewRunner(RetryPolicy{MaxAttempts: 5, BaseDelay: time.Second}, isOverload, WithPublisher(pub), WithSleep(s.sleep))
}

func TestRun_FirstModelSucceeds(t *testing.T) {
	var calls []string
	s := &recordSleep{}
	res, err := newTestRunner(nil, s).Run(context.Background(), []string{"a", "b"}, func(_ context.Context, m string) (string, error) {
		calls = append(calls, m)
		return "ok", nil
	})
	if err != nil { t.Fatalf("run: %v", err) }
	if res.Text != "ok" || res.Model != "a" || res.Attempts != 1 { t.Fatalf("unexpected result: %+v", res) }
	if !reflect.DeepEqual(calls, []string{"a"}) { t.Fatalf("calls=%v", calls) }
	if len(s.delays) != 0 { t.Fatalf("unexpected sleeps: %v", s.delays) }
}

func TestRun_FallsBackAfterExhaustingRetries(t *testing.T) {
	var calls []string
	s := &recordSleep{}
	res, err := newTestRunner(nil, s).Run(context.Background(), []string{"a", "b", "c"}, func(_ context.Context, m string) (string, error) {
		calls = append(calls, m)
		if m == "a" {
			return "", errOverload
		}
		return "from " + m, nil
	})
	if err != nil { t.Fatalf("run: %v", err) }
	if res.Model != "b" || res.Text != "from b" || res.Attempts != 6 { t.Fatalf("unexpected result: %+v", res) }
	want := []string{"a", "a", "a", "a", "a", "b"}
	if !reflect.DeepEqual(calls, want) { t.Fatalf("calls=%v want %v", calls, want) }
	wantDelays := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second}
	if !reflect.DeepEqual(s.delays, wantDelays) { t.Fatalf("delays=%v want %v", s.delays, wantDelays) }
}

func TestRun_RecoversWithinRetries(t *testing.T) {
	n := 0
	s := &recordSleep{}
	res, err := newTestRunner(nil, s).Run(context.Background(), []string{"a", "b"}, func(_ context.Context, m string) (string, error) {
		n++
		if n < 3 {
			return "", errOverload
		}
		return "ok", nil
	})
	if err != nil { t.Fatalf("run: %v", err) }
	if res.Model != "a" || res.Attempts != 3 { t.Fatalf("unexpected result: %+v", res) }
	if len(s.delays) != 2 { t.Fatalf("expected 2 sleeps, got %v", s.delays) }
}

func TestRun_NonRetryableAbortsImmediately(t *testing.T) {
	var calls []string
	bad := errors.New("invalid argument")
	_, err := newTestRunner(nil, &recordSleep{}).Run(context.Background(), []string{"a", "b"}, func(_ context.Context, m string) (string, error) {
		calls = append(calls, m)
		return "", bad
	})
	if !IsUpstream(err) { t.Fatalf("expected upstream error, got %v", err) }
	if !errors.Is(err, bad) { t.Fatalf("upstream detail lost: %v", err) }
	if m, ok := UpstreamModel(err); !ok || m != "a" { t.Fatalf("model=%q ok=%v", m, ok) }
	if !reflect.DeepEqual(calls, []string{"a"}) { t.Fatalf("calls=%v", calls) }
}

func TestRun_AllOverloaded(t *testing.T) {
	var calls []string
	_, err := newTestRunner(nil, &recordSleep{}).Run(context.Background(), []string{"a", "b"}, func(_ context.Context, m string) (string, error) {
		calls = append(calls, m)
		return "", errOverload
	})
	if !IsAllOverloaded(err) { t.Fatalf("expected all-overloaded, got %v", err) }
	if IsUpstream(err) { t.Fatalf("all-overloaded must not be upstream") }
	if len(calls) != 10 { t.Fatalf("expected 10 calls, got %d", len(calls)) }
	for _, m := range calls {
		if m != "a" && m != "b" { t.Fatalf("called model outside the list: %s", m) }
	}
}

func TestRun_NoModels(t *testing.T) {
	_, err := newTestRunner(nil, &recordSleep{}).Run(context.Background(), nil, func(context.Context, string) (string, error) {
		t.Fatalf("attempt must not be called")
		return "", nil
	})
	if !errors.Is(err, ErrNoModels) { t.Fatalf("expected ErrNoModels, got %v", err) }
}

func TestRun_CancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	r := NewRunner(RetryPolicy{MaxAttempts: 5, BaseDelay: time.Hour}, isOverload)
	done := make(chan error, 1)
	go func() {
		_, err := r.Run(ctx, []string{"a"}, func(context.Context, string) (string, error) {
			calls++
			return "", errOverload
		})
		done <- err
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) { t.Fatalf("expected context.Canceled, got %v", err) }
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not observe cancellation")
	}
	if calls != 1 { t.Fatalf("expected 1 call before cancel, got %d", calls) }
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestRunner(nil, &recordSleep{}).Run(ctx, []string{"a"}, func(context.Context, string) (string, error) {
		t.Fatalf("attempt must not be called")
		return "", nil
	})
	if !errors.Is(err, context.Canceled) { t.Fatalf("expected context.Canceled, got %v", err) }
}

func TestRun_EachCallRestartsList(t *testing.T) {
	r := newTestRunner(nil, &recordSleep{})
	for i := 0; i < 2; i++ {
		var first string
		_, _ = r.Run(context.Background(), []string{"a", "b"}, func(_ context.Context, m string) (string, error) {
			if first == "" {
				first = m
			}
			if m == "a" {
				return "", errOverload
			}
			return "ok", nil
		})
		if first != "a" { t.Fatalf("call %d started at %q", i, first) }
	}
}

func TestRun_PublishesEvents(t *testing.T) {
	pub := NewMemoryPublisher()
	_, _ = newTestRunner(pub, &recordSleep{}).Run(context.Background(), []string{"a", "b"}, func(_ context.Context, m string) (string, error) {
		if m == "a" {
			return "", errOverload
		}
		return "ok", nil
	})
	names := pub.Names()
	count := map[string]int{}
	for _, n := range names {
		count[n]++
	}
	if count[EventAttempt] != 6 || count[EventRetry] != 4 || count[EventFallback] != 1 || count[EventSuccess] != 1 {
		t.Fatalf("unexpected events: %v", names)
	}
	if names[len(names)-1] != EventSuccess { t.Fatalf("last event=%s", names[len(names)-1]) }
}

func TestRetryPolicy_DelayCapped(t *testing.T) {
	p := RetryPolicy{BaseDelay: time.Second, MaxDelay: 3 * time.Second}
	got := []time.Duration{p.Delay(0), p.Delay(1), p.Delay(2), p.Delay(10)}
	want := []time.Duration{time.Second, 2 * time.Second, 3 * time.Second, 3 * time.Second}
	if !reflect.DeepEqual(got, want) { t.Fatalf("delays=%v want %v", got, want) }
}

func TestMultiPublisher_SkipsNil(t *testing.T) {
	a, b := NewMemoryPublisher(), NewMemoryPublisher()
	MultiPublisher{a, nil, b}.Publish(Event{Name: "x"})
	if len(a.Events()) != 1 || len(b.Events()) != 1 { t.Fatalf("fan-out failed") }
}
