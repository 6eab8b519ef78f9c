package guard

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"regexp"
	"strings"

	"github.com/cloudflare/ahocorasick"
	"gopkg.in/yaml.v3"
)

//go:embed rulepacks/*.yml
var builtinFS embed.FS

const defaultThreshold = 0.85

type rawRulepack struct {
	Version   int       `yaml:"version"`
	Threshold float64   `yaml:"threshold"`
	Rules     []rawRule `yaml:"rules"`
}

type rawRule struct {
	ID      string   `yaml:"id"`
	Type    string   `yaml:"type"`
	Pattern string   `yaml:"pattern"`
	Phrases []string `yaml:"phrases"`
	Weight  float64  `yaml:"weight"`
}

type regexRule struct {
	ID      string
	Pattern *regexp.Regexp
	Weight  float64
}

type phraseRule struct {
	ID     string
	Weight float64
}

type compiledPack struct {
	Name          string
	Threshold     float64
	RegexRules    []regexRule
	PhraseMatcher *ahocorasick.Matcher
	Phrases       []string
	PhraseRules   []phraseRule
}

// builtinRulepacks 는 바이너리에 포함된 기본 규칙 디렉터리다.
func builtinRulepacks() fs.FS {
	sub, err := fs.Sub(builtinFS, "rulepacks")
	if err != nil {
		panic(fmt.Sprintf("builtin rulepacks: %v", err))
	}
	return sub
}

// loadRulepacks 는 fsys 최상위의 *.yml, *.yaml 파일을 읽어 컴파일한다.
// 읽거나 컴파일하지 못한 파일은 경고만 남기고 건너뛴다.
func loadRulepacks(fsys fs.FS, logger *slog.Logger) []compiledPack {
	paths := findRulepackFiles(fsys)
	if len(paths) == 0 {
		return nil
	}

	packs := make([]compiledPack, 0, len(paths))
	for _, name := range paths {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			logger.Warn("rulepack_read_failed", "path", name, "err", err)
			continue
		}

		var raw rawRulepack
		if err := yaml.Unmarshal(data, &raw); err != nil {
			logger.Warn("rulepack_parse_failed", "path", name, "err", err)
			continue
		}

		pack, err := compileRulepack(raw, logger)
		if err != nil {
			logger.Warn("rulepack_compile_failed", "path", name, "err", err)
			continue
		}
		pack.Name = strings.TrimSuffix(name, path.Ext(name))
		packs = append(packs, pack)
	}
	return packs
}

func findRulepackFiles(fsys fs.FS) []string {
	var files []string
	for _, pattern := range []string{"*.yml", "*.yaml"} {
		matches, err := fs.Glob(fsys, pattern)
		if err != nil {
			continue
		}
		files = append(files, matches...)
	}
	return files
}

func compileRulepack(raw rawRulepack, logger *slog.Logger) (compiledPack, error) {
	if raw.Version == 0 {
		raw.Version = 1
	}
	if raw.Version != 1 {
		return compiledPack{}, fmt.Errorf("unsupported rulepack version: %d", raw.Version)
	}
	if raw.Threshold == 0 {
		raw.Threshold = defaultThreshold
	}

	pack := compiledPack{Threshold: raw.Threshold}
	for _, rule := range raw.Rules {
		switch strings.ToLower(strings.TrimSpace(rule.Type)) {
		case "regex":
			if rule.ID == "" || rule.Pattern == "" {
				return compiledPack{}, fmt.Errorf("invalid regex rule %q", rule.ID)
			}
			pattern, err := regexp.Compile("(?i)" + rule.Pattern)
			if err != nil {
				logger.Warn("rulepack_regex_invalid", "rule_id", rule.ID, "err", err)
				continue
			}
			pack.RegexRules = append(pack.RegexRules, regexRule{ID: rule.ID, Pattern: pattern, Weight: rule.Weight})
		case "phrases":
			if rule.ID == "" || len(rule.Phrases) == 0 {
				return compiledPack{}, fmt.Errorf("invalid phrases rule %q", rule.ID)
			}
			for _, phrase := range rule.Phrases {
				pack.Phrases = append(pack.Phrases, strings.ToLower(phrase))
				pack.PhraseRules = append(pack.PhraseRules, phraseRule{ID: rule.ID, Weight: rule.Weight})
			}
		default:
			return compiledPack{}, fmt.Errorf("unknown rule type: %s", rule.Type)
		}
	}

	if len(pack.Phrases) > 0 {
		patterns := make([][]byte, 0, len(pack.Phrases))
		for _, phrase := range pack.Phrases {
			patterns = append(patterns, []byte(phrase))
		}
		pack.PhraseMatcher = ahocorasick.NewMatcher(patterns)
	}
	return pack, nil
}

// score 는 정규화된 텍스트에 대해 규칙 가중치를 합산한다.
// 같은 phrases 규칙은 여러 문구가 맞아도 한 번만 더한다.
func (p compiledPack) score(text string) (float64, []Match) {
	total := 0.0
	var hits []Match

	for _, rule := range p.RegexRules {
		if rule.Pattern.MatchString(text) {
			total += rule.Weight
			hits = append(hits, Match{ID: rule.ID, Weight: rule.Weight})
		}
	}

	if p.PhraseMatcher == nil {
		return total, hits
	}
	seen := make(map[string]bool)
	for _, index := range p.PhraseMatcher.MatchThreadSafe([]byte(strings.ToLower(text))) {
		if index < 0 || index >= len(p.PhraseRules) {
			continue
		}
		rule := p.PhraseRules[index]
		if rule.Weight <= 0 || seen[rule.ID] {
			continue
		}
		seen[rule.ID] = true
		total += rule.Weight
		hits = append(hits, Match{ID: rule.ID, Weight: rule.Weight})
	}
	return total, hits
}
