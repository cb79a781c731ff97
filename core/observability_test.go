package core

import (
	"context"
	"sync"
	"testing"
)

type recordingMetrics struct {
	mu         sync.Mutex
	counters   map[string]int64
	histograms map[string]int
	tags       map[string]map[string]string
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		counters:   map[string]int64{},
		histograms: map[string]int{},
		tags:       map[string]map[string]string{},
	}
}

func (m *recordingMetrics) IncCounter(_ context.Context, name string, value int64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name] += value
	m.tags[name] = tags
}

func (m *recordingMetrics) ObserveHistogram(_ context.Context, name string, _ float64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.histograms[name]++
	m.tags[name] = tags
}

func (m *recordingMetrics) counter(name string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[name]
}

func (m *recordingMetrics) tagsFor(name string) map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tags[name]
}

func TestObserveOperation_EmitsCounterAndHistogram(t *testing.T) {
	ctx := context.Background()
	metrics := newRecordingMetrics()
	service := newTestService(t, allowedDomainEnv(), fullProvider(), loginSuccessClient(), WithMetricsRecorder(metrics))

	if err := service.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, err := service.Authenticate(ctx); err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	if got := metrics.counter("hupuh5.authenticate.total"); got != 1 {
		t.Fatalf("expected one authenticate counter tick, got %d", got)
	}
	tags := metrics.tagsFor("hupuh5.authenticate.total")
	if tags["operation"] != "authenticate" || tags["status"] != "success" {
		t.Fatalf("unexpected counter tags %#v", tags)
	}
	if metrics.histograms["hupuh5.authenticate.duration_ms"] != 1 {
		t.Fatalf("expected a duration observation, got %#v", metrics.histograms)
	}
}

func TestObserveOperation_TagsFailures(t *testing.T) {
	ctx := context.Background()
	metrics := newRecordingMetrics()
	requestClient := &fakeRequestClient{
		respond: func(BackendRequest) (NormalizedResponse, error) {
			return NormalizedResponse{Success: false, Code: 500, Message: "denied"}, nil
		},
	}
	service := newTestService(t, allowedDomainEnv(), fullProvider(), requestClient, WithMetricsRecorder(metrics))
	if err := service.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, err := service.Authenticate(ctx); err == nil {
		t.Fatalf("expected authenticate failure")
	}

	tags := metrics.tagsFor("hupuh5.authenticate.total")
	if tags["status"] != "failure" {
		t.Fatalf("expected failure status tag, got %#v", tags)
	}
}

func TestFlattenFields_DeterministicOrder(t *testing.T) {
	args := flattenFields(map[string]any{"zeta": 1, "alpha": 2, "mid": 3})
	if len(args) != 6 {
		t.Fatalf("expected 6 flattened args, got %d", len(args))
	}
	keys := []string{args[0].(string), args[2].(string), args[4].(string)}
	if keys[0] != "alpha" || keys[1] != "mid" || keys[2] != "zeta" {
		t.Fatalf("expected sorted keys, got %v", keys)
	}

	if flattenFields(nil) != nil {
		t.Fatalf("expected nil for empty fields")
	}
}

func TestNormalizeOperation(t *testing.T) {
	cases := map[string]string{
		"Confirm Role": "confirm_role",
		"get-balance":  "get_balance",
		"  Purchase  ": "purchase",
		"authenticate": "authenticate",
		"REPORT ROLE ": "report_role",
	}
	for input, want := range cases {
		if got := normalizeOperation(input); got != want {
			t.Fatalf("normalizeOperation(%q) = %q, want %q", input, got, want)
		}
	}
}
