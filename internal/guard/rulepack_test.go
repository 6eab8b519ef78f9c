package guard

import (
	"testing"
	"testing/fstest"

	"github.com/park285/grandtalk-server-go/internal/logging"
)

func TestCompileRulepack(t *testing.T) {
	raw := rawRulepack{
		Threshold: 0.5,
		Rules: []rawRule{
			{ID: "r1", Type: "regex", Pattern: "evil", Weight: 0.6},
			{ID: "r2", Type: "phrases", Phrases: []string{"Bad", "worse"}, Weight: 0.2},
			{ID: "r3", Type: "regex", Pattern: "(", Weight: 0.9},
		},
	}

	pack, err := compileRulepack(raw, logging.Discard())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pack.RegexRules) != 1 {
		t.Fatalf("expected invalid regex to be skipped, got %d rules", len(pack.RegexRules))
	}
	if pack.PhraseMatcher == nil || len(pack.Phrases) != 2 || pack.Phrases[0] != "bad" {
		t.Fatalf("expected lower-cased phrase matcher, got %v", pack.Phrases)
	}

	score, hits := pack.score("EVIL and bad and worse")
	if score != 0.8 || len(hits) != 2 {
		t.Fatalf("unexpected score %v hits %+v", score, hits)
	}
}

func TestCompileRulepackRejectsBadRules(t *testing.T) {
	tests := []rawRulepack{
		{Rules: []rawRule{{ID: "x", Type: "glob", Pattern: "*"}}},
		{Rules: []rawRule{{Type: "regex", Pattern: "a"}}},
		{Rules: []rawRule{{ID: "p", Type: "phrases"}}},
		{Version: 2},
	}
	for i, raw := range tests {
		if _, err := compileRulepack(raw, logging.Discard()); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}

func TestLoadRulepacks(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yml":      {Data: []byte("rules:\n  - id: r1\n    type: regex\n    pattern: evil\n    weight: 0.6\n")},
		"b.yaml":     {Data: []byte("rules:\n  - id: r2\n    type: nope\n")},
		"c.yml":      {Data: []byte(":\n  - [")},
		"readme.txt": {Data: []byte("ignored")},
	}

	packs := loadRulepacks(fsys, logging.Discard())
	if len(packs) != 1 {
		t.Fatalf("expected 1 pack, got %d", len(packs))
	}
	if packs[0].Name != "a" || packs[0].Threshold != defaultThreshold {
		t.Fatalf("unexpected pack: %+v", packs[0])
	}
}

func TestBuiltinRulepacksCompile(t *testing.T) {
	packs := loadRulepacks(builtinRulepacks(), logging.Discard())
	if len(packs) == 0 {
		t.Fatalf("expected builtin rulepacks")
	}
	for _, pack := range packs {
		if len(pack.RegexRules) == 0 || pack.PhraseMatcher == nil {
			t.Fatalf("builtin pack %s is incomplete", pack.Name)
		}
	}
}
