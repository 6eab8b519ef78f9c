package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/park285/grandtalk-server-go/internal/llm"
)

func TestStoreRecordsMetrics(t *testing.T) {
	store := NewStore()
	store.RecordSuccess(120*time.Millisecond, llm.Usage{InputTokens: 2, OutputTokens: 3, ReasoningTokens: 1})
	store.RecordError(50 * time.Millisecond)

	usage := store.UsageTotals()
	if usage.InputTokens != 2 || usage.OutputTokens != 3 || usage.ReasoningTokens != 1 {
		t.Fatalf("unexpected usage totals: %+v", usage)
	}

	snapshot := store.Snapshot()
	if snapshot["total_calls"] != 2 {
		t.Fatalf("expected total_calls 2, got %v", snapshot["total_calls"])
	}
	if snapshot["total_errors"] != 1 {
		t.Fatalf("expected total_errors 1, got %v", snapshot["total_errors"])
	}
	if got := testutil.ToFloat64(store.callsVec.WithLabelValues("error")); got != 1 {
		t.Fatalf("expected 1 error in prometheus counter, got %v", got)
	}
}

func TestStoreRecordsOutcomes(t *testing.T) {
	store := NewStore()
	store.RecordOutcome(OutcomeOK)
	store.RecordOutcome(OutcomeOK)
	store.RecordOutcome(OutcomeFallbackParse)
	store.RecordOutcome("unknown")

	snapshot := store.Snapshot()
	if snapshot["translations_ok"] != 2 {
		t.Fatalf("expected 2 ok outcomes, got %v", snapshot["translations_ok"])
	}
	if snapshot["translations_fallback_parse"] != 1 {
		t.Fatalf("expected 1 parse fallback, got %v", snapshot["translations_fallback_parse"])
	}
	if got := testutil.ToFloat64(store.outcomeVec.WithLabelValues(OutcomeOK)); got != 2 {
		t.Fatalf("unexpected prometheus ok count: %v", got)
	}
}

func TestStoresUseSeparateRegistries(t *testing.T) {
	a := NewStore()
	b := NewStore()
	if a.Registry() == b.Registry() {
		t.Fatalf("expected independent registries")
	}
}
