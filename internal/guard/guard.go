// Package guard 는 번역 프롬프트에 끼워 넣을 사용자 입력에서 프롬프트 탈취 시도를 찾아낸다.
package guard

import (
	"errors"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/park285/grandtalk-server-go/internal/cache"
	"github.com/park285/grandtalk-server-go/internal/config"
)

// PromptGuard: 입력 문자열을 규칙 묶음으로 평가하는 검사기입니다.
type PromptGuard struct {
	enabled   bool
	threshold float64
	logger    *slog.Logger
	packs     []compiledPack
	cache     *cache.TTLCache[string, Evaluation]
	group     singleflight.Group
}

// NewGuard: 입력 검사기를 생성합니다.
// RulepacksDir 에서 규칙을 찾지 못하면 내장 규칙을 사용합니다.
func NewGuard(cfg *config.Config, logger *slog.Logger) (*PromptGuard, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	g := &PromptGuard{
		enabled:   cfg.Guard.Enabled,
		threshold: cfg.Guard.Threshold,
		logger:    logger,
		cache: cache.NewTTLCache[string, Evaluation](
			cfg.Guard.CacheMaxSize,
			time.Duration(cfg.Guard.CacheTTLSeconds)*time.Second,
		),
	}
	if !g.enabled {
		return g, nil
	}

	g.packs = loadRulepacks(rulepackSource(cfg.Guard.RulepacksDir, logger), logger)
	if len(g.packs) == 0 {
		return nil, errors.New("no usable guard rulepacks")
	}
	logger.Info("guard_ready", "packs", len(g.packs), "threshold", g.effectiveThreshold())
	return g, nil
}

func rulepackSource(dir string, logger *slog.Logger) fs.FS {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return builtinRulepacks()
	}
	custom := os.DirFS(dir)
	if len(findRulepackFiles(custom)) == 0 {
		logger.Warn("rulepacks_not_found", "dir", dir)
		return builtinRulepacks()
	}
	return custom
}

// Evaluate: 입력 문자열을 평가합니다. 같은 입력은 캐시된 결과를 돌려줍니다.
func (g *PromptGuard) Evaluate(input string) Evaluation {
	if g == nil || !g.enabled {
		return Evaluation{Threshold: math.Inf(1)}
	}

	normalized := normalizeForMatch(input)
	if cached, ok := g.cache.Get(normalized); ok {
		return cached
	}

	value, _, _ := g.group.Do(normalized, func() (any, error) {
		result := g.evaluate(normalized)
		g.cache.Set(normalized, result)
		return result, nil
	})
	if evaluation, ok := value.(Evaluation); ok {
		return evaluation
	}
	return Evaluation{Threshold: g.effectiveThreshold()}
}

// EnsureSafe: 위험 입력이면 *BlockedError 를 반환합니다.
func (g *PromptGuard) EnsureSafe(input string) error {
	evaluation := g.Evaluate(input)
	if !evaluation.Malicious() {
		return nil
	}
	g.logger.Warn("guard_blocked",
		"score", evaluation.Score,
		"threshold", evaluation.Threshold,
		"rules", evaluation.HitIDs(),
		"input", trimForLog(input),
	)
	return &BlockedError{Score: evaluation.Score, Threshold: evaluation.Threshold, Rules: evaluation.HitIDs()}
}

// Enabled: 검사가 켜져 있는지 반환합니다.
func (g *PromptGuard) Enabled() bool {
	return g != nil && g.enabled
}

func (g *PromptGuard) effectiveThreshold() float64 {
	if g.threshold > 0 {
		return g.threshold
	}
	maxThreshold := 0.0
	for _, pack := range g.packs {
		maxThreshold = math.Max(maxThreshold, pack.Threshold)
	}
	if maxThreshold > 0 {
		return maxThreshold
	}
	return defaultThreshold
}

func (g *PromptGuard) evaluate(normalized string) Evaluation {
	threshold := g.effectiveThreshold()

	if containsSuspiciousBase64(normalized) {
		return Evaluation{
			Score:     threshold,
			Hits:      []Match{{ID: "base64_payload", Weight: threshold}},
			Threshold: threshold,
		}
	}

	total := 0.0
	var hits []Match
	for _, pack := range g.packs {
		score, packHits := pack.score(normalized)
		total += score
		hits = append(hits, packHits...)
	}
	return Evaluation{Score: total, Hits: hits, Threshold: threshold}
}

func trimForLog(value string) string {
	runes := []rune(strings.TrimSpace(value))
	if len(runes) <= 50 {
		return string(runes)
	}
	return string(runes[:50])
}
