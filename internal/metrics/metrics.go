package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/park285/grandtalk-server-go/internal/llm"
)

// Store 는 모델 호출과 번역 결과 통계를 저장한다.
// 누적값은 atomic 카운터로 유지하고 같은 값을 Prometheus 레지스트리에도 내보낸다.
type Store struct {
	totalCalls           int64
	totalErrors          int64
	totalInputTokens     int64
	totalOutputTokens    int64
	totalReasoningTokens int64
	totalDurationMs      int64

	outcomeOK        int64
	outcomeTransport int64
	outcomeParse     int64
	outcomeShape     int64
	outcomeGuard     int64

	registry     *prometheus.Registry
	callsVec     *prometheus.CounterVec
	tokensVec    *prometheus.CounterVec
	durationHist prometheus.Histogram
	outcomeVec   *prometheus.CounterVec
}

// NewStore 는 통계 저장소를 생성한다. 레지스트리는 인스턴스마다 따로 만든다.
func NewStore() *Store {
	s := &Store{
		registry: prometheus.NewRegistry(),
		callsVec: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "grandtalk",
			Name:      "llm_calls_total",
			Help:      "Gemini 호출 횟수",
		}, []string{"result"}),
		tokensVec: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "grandtalk",
			Name:      "llm_tokens_total",
			Help:      "Gemini 토큰 사용량",
		}, []string{"kind"}),
		durationHist: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "grandtalk",
			Name:      "llm_call_duration_seconds",
			Help:      "Gemini 호출 지연 시간",
			Buckets:   prometheus.DefBuckets,
		}),
		outcomeVec: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "grandtalk",
			Name:      "translations_total",
			Help:      "번역 결과 종류별 횟수",
		}, []string{"outcome"}),
	}
	s.registry.MustRegister(s.callsVec, s.tokensVec, s.durationHist, s.outcomeVec)
	return s
}

// Registry 는 /metrics 에서 노출할 레지스트리를 반환한다.
func (s *Store) Registry() *prometheus.Registry {
	return s.registry
}

// RecordSuccess 는 성공 호출 통계를 기록한다.
func (s *Store) RecordSuccess(duration time.Duration, usage llm.Usage) {
	atomic.AddInt64(&s.totalCalls, 1)
	atomic.AddInt64(&s.totalInputTokens, int64(usage.InputTokens))
	atomic.AddInt64(&s.totalOutputTokens, int64(usage.OutputTokens))
	atomic.AddInt64(&s.totalReasoningTokens, int64(usage.ReasoningTokens))
	atomic.AddInt64(&s.totalDurationMs, duration.Milliseconds())

	s.callsVec.WithLabelValues("success").Inc()
	s.tokensVec.WithLabelValues("input").Add(float64(usage.InputTokens))
	s.tokensVec.WithLabelValues("output").Add(float64(usage.OutputTokens))
	s.tokensVec.WithLabelValues("reasoning").Add(float64(usage.ReasoningTokens))
	s.durationHist.Observe(duration.Seconds())
}

// RecordError 는 실패 호출 통계를 기록한다.
func (s *Store) RecordError(duration time.Duration) {
	atomic.AddInt64(&s.totalCalls, 1)
	atomic.AddInt64(&s.totalErrors, 1)
	atomic.AddInt64(&s.totalDurationMs, duration.Milliseconds())

	s.callsVec.WithLabelValues("error").Inc()
	s.durationHist.Observe(duration.Seconds())
}

// 번역 결과 종류
const (
	OutcomeOK                = "ok"
	OutcomeFallbackTransport = "fallback_transport"
	OutcomeFallbackParse     = "fallback_parse"
	OutcomeFallbackShape     = "fallback_shape"
	OutcomeFallbackGuard     = "fallback_guard"
)

// RecordOutcome 는 번역 한 건의 결과 종류를 기록한다. 알 수 없는 값은 무시한다.
func (s *Store) RecordOutcome(outcome string) {
	var counter *int64
	switch outcome {
	case OutcomeOK:
		counter = &s.outcomeOK
	case OutcomeFallbackTransport:
		counter = &s.outcomeTransport
	case OutcomeFallbackParse:
		counter = &s.outcomeParse
	case OutcomeFallbackShape:
		counter = &s.outcomeShape
	case OutcomeFallbackGuard:
		counter = &s.outcomeGuard
	default:
		return
	}
	atomic.AddInt64(counter, 1)
	s.outcomeVec.WithLabelValues(outcome).Inc()
}

// UsageTotals 는 누적 사용량을 반환한다.
func (s *Store) UsageTotals() llm.Usage {
	input := atomic.LoadInt64(&s.totalInputTokens)
	output := atomic.LoadInt64(&s.totalOutputTokens)
	reasoning := atomic.LoadInt64(&s.totalReasoningTokens)
	return llm.Usage{
		InputTokens:     int(input),
		OutputTokens:    int(output),
		TotalTokens:     int(input + output),
		ReasoningTokens: int(reasoning),
	}
}

// Snapshot 는 통계 스냅샷을 반환한다.
func (s *Store) Snapshot() map[string]float64 {
	totalCalls := atomic.LoadInt64(&s.totalCalls)
	totalErrors := atomic.LoadInt64(&s.totalErrors)
	input := atomic.LoadInt64(&s.totalInputTokens)
	output := atomic.LoadInt64(&s.totalOutputTokens)
	reasoning := atomic.LoadInt64(&s.totalReasoningTokens)
	durationMs := atomic.LoadInt64(&s.totalDurationMs)

	avgDuration := 0.0
	if totalCalls > 0 {
		avgDuration = float64(durationMs) / float64(totalCalls)
	}

	return map[string]float64{
		"total_calls":                     float64(totalCalls),
		"total_errors":                    float64(totalErrors),
		"total_input_tokens":              float64(input),
		"total_output_tokens":             float64(output),
		"total_reasoning_tokens":          float64(reasoning),
		"total_tokens":                    float64(input + output),
		"total_duration_ms":               float64(durationMs),
		"avg_duration_ms":                 avgDuration,
		"translations_ok":                 float64(atomic.LoadInt64(&s.outcomeOK)),
		"translations_fallback_transport": float64(atomic.LoadInt64(&s.outcomeTransport)),
		"translations_fallback_parse":     float64(atomic.LoadInt64(&s.outcomeParse)),
		"translations_fallback_shape":     float64(atomic.LoadInt64(&s.outcomeShape)),
		"translations_fallback_guard":     float64(atomic.LoadInt64(&s.outcomeGuard)),
	}
}
