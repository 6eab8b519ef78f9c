package usage

import (
	"testing"
	"time"

	"github.com/park285/grandtalk-server-go/internal/llm"
)

func TestDailyUsageTotals(t *testing.T) {
	row := DailyUsage{InputTokens: 2, OutputTokens: 3}
	if row.TotalTokens() != 5 {
		t.Fatalf("unexpected total tokens")
	}
}

func TestToDailyUsageCopiesCounters(t *testing.T) {
	date := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	got := toDailyUsage(TokenUsage{ID: 9, UsageDate: date, InputTokens: 1, OutputTokens: 2, ReasoningTokens: 3, RequestCount: 4, Version: 7})
	if !got.UsageDate.Equal(date) || got.InputTokens != 1 || got.OutputTokens != 2 || got.ReasoningTokens != 3 || got.RequestCount != 4 {
		t.Fatalf("unexpected daily usage: %+v", got)
	}
}

func TestDeltaFromAndAdd(t *testing.T) {
	d := DeltaFrom(llm.Usage{InputTokens: 7, OutputTokens: 3, ReasoningTokens: 1})
	if d.Requests != 1 || d.InputTokens != 7 {
		t.Fatalf("unexpected delta: %+v", d)
	}
	d.Add(Delta{InputTokens: 1, OutputTokens: 2, Requests: 1})
	if d.InputTokens != 8 || d.OutputTokens != 5 || d.ReasoningTokens != 1 || d.Requests != 2 {
		t.Fatalf("unexpected sum: %+v", d)
	}
	if d.Empty() || !(Delta{}).Empty() {
		t.Fatalf("unexpected Empty result")
	}
}
