package translation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/park285/grandtalk-server-go/internal/gemini"
	"github.com/park285/grandtalk-server-go/internal/llm"
	"github.com/park285/grandtalk-server-go/internal/metrics"
	"github.com/park285/grandtalk-server-go/internal/prompt"
	"github.com/park285/grandtalk-server-go/internal/textnorm"
)

var (
	// ErrEmptyInput 는 정규화 후 입력이 비어 있을 때 반환된다. 모델은 호출하지 않는다.
	ErrEmptyInput = errors.New("empty input")
	// ErrNotConfigured 는 모델 자격 증명이 없을 때 반환된다.
	ErrNotConfigured = errors.New("translator not configured")
)

// Outcome 은 번역 한 건이 어떻게 끝났는지를 나타낸다.
type Outcome string

const (
	OutcomeOK                Outcome = metrics.OutcomeOK
	OutcomeFallbackTransport Outcome = metrics.OutcomeFallbackTransport
	OutcomeFallbackParse     Outcome = metrics.OutcomeFallbackParse
	OutcomeFallbackShape     Outcome = metrics.OutcomeFallbackShape
	OutcomeFallbackGuard     Outcome = metrics.OutcomeFallbackGuard
)

// InputGuard 는 프롬프트에 넣기 전에 입력을 검사한다.
type InputGuard interface {
	EnsureSafe(input string) error
}

// IsFallback 은 고정 결과가 반환됐는지 여부다.
func (o Outcome) IsFallback() bool {
	return o != OutcomeOK
}

// Result 는 번역 결과와 진단 정보다. Variants 는 항상 3개다.
type Result struct {
	Variants []Variant
	Outcome  Outcome
	Reason   string
	Model    string
	Usage    llm.Usage
	// ThoughtParts 는 모델이 답과 별도로 돌려준 사고 파트 수다.
	ThoughtParts int
}

// Translator 는 한국어 댓글을 세 가지 영어 문체로 번역한다.
// 모델 실패는 호출자에게 오류로 드러나지 않고 고정 결과로 대체된다.
type Translator struct {
	generator gemini.Generator
	guard     InputGuard
	prompts   *prompt.Bundle
	logger    *slog.Logger
	metrics   *metrics.Store
}

// NewTranslator 는 번역기를 생성한다. generator 가 nil 이면 Configured 가 false 다.
// inputGuard 가 nil 이면 입력 검사를 하지 않는다.
func NewTranslator(
	generator gemini.Generator,
	inputGuard InputGuard,
	prompts *prompt.Bundle,
	logger *slog.Logger,
	metricsStore *metrics.Store,
) *Translator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Translator{
		generator: generator,
		guard:     inputGuard,
		prompts:   prompts,
		logger:    logger,
		metrics:   metricsStore,
	}
}

// Configured 는 모델 호출에 필요한 자격 증명이 있는지 반환한다.
func (t *Translator) Configured() bool {
	return t != nil && t.generator != nil && t.generator.Configured()
}

// Translate 는 세 가지 번역을 반환한다.
func (t *Translator) Translate(ctx context.Context, koreanText string) ([]Variant, error) {
	result, err := t.TranslateDetailed(ctx, koreanText)
	if err != nil {
		return nil, err
	}
	return result.Variants, nil
}

// TranslateDetailed 는 Translate 와 같지만 결과 종류와 사용량을 함께 반환한다.
func (t *Translator) TranslateDetailed(ctx context.Context, koreanText string) (Result, error) {
	normalized := textnorm.Normalize(koreanText)
	if textnorm.IsBlank(normalized) {
		return Result{}, ErrEmptyInput
	}
	if !t.Configured() {
		return Result{}, ErrNotConfigured
	}

	profile := textnorm.Inspect(normalized)
	if t.guard != nil {
		if guardErr := t.guard.EnsureSafe(normalized); guardErr != nil {
			result := Result{Variants: Fallback(), Outcome: OutcomeFallbackGuard, Reason: guardErr.Error()}
			t.record(result, profile, 0)
			return result, nil
		}
	}

	// 프롬프트에는 앞뒤 공백만 걷어 낸 원문을 그대로 넣는다. 정규화 결과는 판정에만 쓴다.
	promptText, err := t.prompts.Render(promptTranslate, fieldUser, map[string]string{
		keyKoreanText: strings.TrimSpace(koreanText),
	})
	if err != nil {
		return Result{}, fmt.Errorf("render translate prompt: %w", err)
	}

	start := time.Now()
	generated, genErr := t.generator.Generate(ctx, gemini.Request{
		Prompt:           promptText,
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema,
	})

	result := Result{Model: generated.Model, Usage: generated.Usage, ThoughtParts: generated.ThoughtParts}
	if genErr != nil {
		result.Variants = Fallback()
		result.Outcome = OutcomeFallbackTransport
		result.Reason = genErr.Error()
	} else {
		result.Variants, result.Outcome, result.Reason = interpret(generated.Text)
	}

	t.record(result, profile, time.Since(start))
	return result, nil
}

func interpret(raw string) ([]Variant, Outcome, string) {
	switch parsed := Parse(raw).(type) {
	case Parsed:
		if len(parsed.Texts) < VariantCount {
			return Fallback(), OutcomeFallbackShape, fmt.Sprintf("got %d translations", len(parsed.Texts))
		}
		return fromTexts(parsed.Texts), OutcomeOK, ""
	case ParseFailed:
		return Fallback(), OutcomeFallbackParse, parsed.Reason
	default:
		return Fallback(), OutcomeFallbackParse, "unknown parse result"
	}
}

func (t *Translator) record(result Result, profile textnorm.Profile, elapsed time.Duration) {
	if t.metrics != nil {
		t.metrics.RecordOutcome(string(result.Outcome))
	}

	attrs := []any{
		"outcome", string(result.Outcome),
		"model", result.Model,
		"input_runes", profile.Runes,
		"input_jamo", profile.Jamo,
		"input_has_emoji", profile.HasEmoji,
		"input_tokens", result.Usage.InputTokens,
		"output_tokens", result.Usage.OutputTokens,
		"thought_parts", result.ThoughtParts,
		"elapsed_ms", elapsed.Milliseconds(),
	}
	if result.Outcome.IsFallback() {
		t.logger.Warn("translation_fallback", append(attrs, "reason", result.Reason)...)
		return
	}
	t.logger.Info("translation_completed", attrs...)
}
