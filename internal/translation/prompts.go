package translation

import (
	"embed"

	"github.com/park285/grandtalk-server-go/internal/prompt"
)

//go:embed prompts/*.yml
var promptFS embed.FS

const (
	promptTranslate = "translate"
	fieldUser       = "user"
	keyKoreanText   = "korean_text"
)

// LoadPrompts 는 내장된 번역 프롬프트를 로드하고 치환 자리를 확인한다.
func LoadPrompts() (*prompt.Bundle, error) {
	bundle, err := prompt.LoadBundle(promptFS, "prompts", "translation")
	if err != nil {
		return nil, err
	}
	if err := bundle.Require(promptTranslate, fieldUser, keyKoreanText); err != nil {
		return nil, err
	}
	return bundle, nil
}
