package dispatch

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"chatlist-server/internal/domain/model"
	"chatlist-server/internal/infrastructure/logger"
	"chatlist-server/internal/utils/platformerrors"
)

type stubAdapter struct {
	complete func(ctx context.Context, req Request) (*Completion, error)
}

func (a stubAdapter) Complete(ctx context.Context, req Request) (*Completion, error) {
	return a.complete(ctx, req)
}

// stubFactory maps model display names to canned adapter behavior.
type stubFactory struct {
	adapters map[string]Adapter
}

func (f stubFactory) AdapterFor(m model.Model) (Adapter, error) {
	a, ok := f.adapters[m.DisplayName]
	if !ok {
		return nil, fmt.Errorf("no adapter for %s", m.DisplayName)
	}
	return a, nil
}

func okAdapter(text string, tokens int) Adapter {
	return stubAdapter{complete: func(ctx context.Context, req Request) (*Completion, error) {
		return &Completion{Text: text, TokensUsed: tokens}, nil
	}}
}

func failAdapter(kind ErrorKind, msg string) Adapter {
	return stubAdapter{complete: func(ctx context.Context, req Request) (*Completion, error) {
		return nil, &OutcomeError{Kind: kind, Message: msg}
	}}
}

func slowAdapter(delay time.Duration) Adapter {
	return stubAdapter{complete: func(ctx context.Context, req Request) (*Completion, error) {
		select {
		case <-time.After(delay):
			return &Completion{Text: "slow answer", TokensUsed: 1}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}}
}

func testModels(names ...string) []model.Model {
	models := make([]model.Model, len(names))
	for i, n := range names {
		models[i] = model.Model{ID: uint(i + 1), DisplayName: n, RemoteName: n, Kind: model.ProviderCustom}
	}
	return models
}

func newTestDispatcher(factory AdapterFactory, requestTimeout, overallTimeout time.Duration) *Dispatcher {
	return NewDispatcher(factory, 5, requestTimeout, overallTimeout, logger.GetLogger())
}

func collect(t *testing.T, ch <-chan Outcome) []Outcome {
	t.Helper()
	var outcomes []Outcome
	deadline := time.After(5 * time.Second)
	for {
		select {
		case o, ok := <-ch:
			if !ok {
				return outcomes
			}
			outcomes = append(outcomes, o)
		case <-deadline:
			t.Fatalf("timed out waiting for outcome channel to close, got %d outcomes", len(outcomes))
		}
	}
}

func TestDispatchYieldsOneOutcomePerModel(t *testing.T) {
	factory := stubFactory{adapters: map[string]Adapter{
		"a": okAdapter("answer a", 10),
		"b": failAdapter(ErrKindRateLimited, "429 from upstream"),
		"c": okAdapter("answer c", 20),
	}}
	d := newTestDispatcher(factory, time.Second, 5*time.Second)

	ch, err := d.Dispatch(context.Background(), "hello", testModels("a", "b", "c"), Options{})
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	outcomes := collect(t, ch)

	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}
	byName := make(map[string]Outcome)
	for _, o := range outcomes {
		byName[o.Model.DisplayName] = o
	}
	if !byName["a"].OK() || byName["a"].Text != "answer a" {
		t.Errorf("model a: expected success with text, got %+v", byName["a"])
	}
	if byName["b"].OK() || byName["b"].Err.Kind != ErrKindRateLimited {
		t.Errorf("model b: expected rate_limited failure, got %+v", byName["b"])
	}
	if !byName["c"].OK() || byName["c"].TokensUsed != 20 {
		t.Errorf("model c: expected success with 20 tokens, got %+v", byName["c"])
	}
}

func TestDispatchYieldsInArrivalOrder(t *testing.T) {
	// Submission order is slowest first; delivery must follow completion,
	// not submission.
	factory := stubFactory{adapters: map[string]Adapter{
		"tortoise": slowAdapter(300 * time.Millisecond),
		"steady":   slowAdapter(100 * time.Millisecond),
		"hare":     okAdapter("first past the post", 1),
	}}
	d := newTestDispatcher(factory, 5*time.Second, 10*time.Second)

	ch, err := d.Dispatch(context.Background(), "hello", testModels("tortoise", "steady", "hare"), Options{})
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	outcomes := collect(t, ch)
	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}

	got := make([]string, len(outcomes))
	for i, o := range outcomes {
		if !o.OK() {
			t.Fatalf("model %s failed unexpectedly: %+v", o.Model.DisplayName, o)
		}
		got[i] = o.Model.DisplayName
	}
	want := []string{"hare", "steady", "tortoise"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("arrival order = %v, want %v", got, want)
		}
	}
}

func TestDispatchEmptyPromptRejected(t *testing.T) {
	d := newTestDispatcher(stubFactory{}, time.Second, time.Second)
	_, err := d.Dispatch(context.Background(), "   ", testModels("a"), Options{})
	if err == nil {
		t.Fatal("expected validation error for blank prompt")
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Errorf("expected VALIDATION error type, got %v", err)
	}
}

func TestDispatchEmptyModelListClosesImmediately(t *testing.T) {
	d := newTestDispatcher(stubFactory{}, time.Second, time.Second)
	ch, err := d.Dispatch(context.Background(), "hello", nil, Options{})
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if outcomes := collect(t, ch); len(outcomes) != 0 {
		t.Errorf("expected no outcomes for empty model list, got %d", len(outcomes))
	}
}

func TestDispatchPerRequestTimeoutIsolated(t *testing.T) {
	factory := stubFactory{adapters: map[string]Adapter{
		"fast": okAdapter("quick", 5),
		"slow": slowAdapter(2 * time.Second),
	}}
	d := newTestDispatcher(factory, 50*time.Millisecond, 5*time.Second)

	ch, err := d.Dispatch(context.Background(), "hello", testModels("fast", "slow"), Options{})
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	outcomes := collect(t, ch)
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}

	byName := make(map[string]Outcome)
	for _, o := range outcomes {
		byName[o.Model.DisplayName] = o
	}
	if !byName["fast"].OK() {
		t.Errorf("fast model should succeed despite slow peer: %+v", byName["fast"])
	}
	slow := byName["slow"]
	if slow.OK() || slow.Err.Kind != ErrKindTimeout {
		t.Errorf("slow model should report timeout, got %+v", slow)
	}
}

func TestDispatchOverallTimeoutSynthesizesPending(t *testing.T) {
	factory := stubFactory{adapters: map[string]Adapter{
		"fast": okAdapter("quick", 5),
		"slow": slowAdapter(5 * time.Second),
	}}
	d := newTestDispatcher(factory, time.Minute, 100*time.Millisecond)

	ch, err := d.Dispatch(context.Background(), "hello", testModels("fast", "slow"), Options{})
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	outcomes := collect(t, ch)
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes after overall timeout, got %d", len(outcomes))
	}
	byName := make(map[string]Outcome)
	for _, o := range outcomes {
		byName[o.Model.DisplayName] = o
	}
	if !byName["fast"].OK() {
		t.Errorf("fast model should have finished before the deadline: %+v", byName["fast"])
	}
	slow := byName["slow"]
	if slow.OK() || slow.Err.Kind != ErrKindTimeout {
		t.Errorf("slow model should be a synthesized timeout, got %+v", slow)
	}
}

func TestDispatchCancellationSynthesizesPending(t *testing.T) {
	factory := stubFactory{adapters: map[string]Adapter{
		"slow-1": slowAdapter(5 * time.Second),
		"slow-2": slowAdapter(5 * time.Second),
	}}
	d := newTestDispatcher(factory, time.Minute, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := d.Dispatch(ctx, "hello", testModels("slow-1", "slow-2"), Options{})
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	cancel()

	outcomes := collect(t, ch)
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes after cancellation, got %d", len(outcomes))
	}
	for _, o := range outcomes {
		if o.OK() || o.Err.Kind != ErrKindCancelled {
			t.Errorf("expected cancelled outcome, got %+v", o)
		}
	}
}

func TestDispatchDuplicateModelIDsReportedSeparately(t *testing.T) {
	factory := stubFactory{adapters: map[string]Adapter{
		"twin": okAdapter("same model twice", 3),
	}}
	d := newTestDispatcher(factory, time.Second, 5*time.Second)

	models := testModels("twin", "twin")
	models[1].ID = models[0].ID
	ch, err := d.Dispatch(context.Background(), "hello", models, Options{})
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if outcomes := collect(t, ch); len(outcomes) != 2 {
		t.Errorf("duplicate targets must each yield an outcome, got %d", len(outcomes))
	}
}

func TestDispatchFactoryErrorBecomesOutcome(t *testing.T) {
	d := newTestDispatcher(stubFactory{adapters: map[string]Adapter{}}, time.Second, 5*time.Second)

	ch, err := d.Dispatch(context.Background(), "hello", testModels("unknown"), Options{})
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	outcomes := collect(t, ch)
	if len(outcomes) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(outcomes))
	}
	if outcomes[0].OK() {
		t.Fatalf("expected failure outcome for missing adapter, got %+v", outcomes[0])
	}
}

func TestClassifyErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"outcome error passthrough", &OutcomeError{Kind: ErrKindAuth, Message: "bad key"}, ErrKindAuth},
		{"wrapped outcome error", fmt.Errorf("call failed: %w", &OutcomeError{Kind: ErrKindPaymentRequired, Message: "402"}), ErrKindPaymentRequired},
		{"deadline", context.DeadlineExceeded, ErrKindTimeout},
		{"cancel", context.Canceled, ErrKindCancelled},
		{"plain error", errors.New("connection refused"), ErrKindNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyErr(tt.err); got.Kind != tt.want {
				t.Errorf("classifyErr(%v) kind = %s, want %s", tt.err, got.Kind, tt.want)
			}
		})
	}
}
