package translation

import "testing"

func TestStripFences(t *testing.T) {
	tests := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}```":       `{"a":1}`,
		"  {\"a\":1}  ":           `{"a":1}`,
		"":                        "",
	}
	for in, want := range tests {
		if got := StripFences(in); got != want {
			t.Errorf("StripFences(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParse(t *testing.T) {
	parsed, ok := Parse(`{"translations":[{"style":"Friendly","text":"Hi"},{"style":"Warm","text":"Hello"}],"note":"x"}`).(Parsed)
	if !ok {
		t.Fatalf("expected Parsed result")
	}
	if len(parsed.Texts) != 2 || parsed.Texts[0] != "Hi" || parsed.Texts[1] != "Hello" {
		t.Fatalf("unexpected texts: %+v", parsed.Texts)
	}

	failed, ok := Parse("not json").(ParseFailed)
	if !ok || failed.Reason == "" {
		t.Fatalf("expected ParseFailed with reason, got %+v", failed)
	}

	if _, ok := Parse("```json\n```").(ParseFailed); !ok {
		t.Fatalf("expected ParseFailed for empty fenced body")
	}
}
