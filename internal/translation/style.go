package translation

import (
	"fmt"
	"strings"
)

// Style 은 번역 문체다. 결과는 항상 Friendly, Warm, Fun 순서다.
type Style int

const (
	Friendly Style = iota
	Warm
	Fun
)

// Styles 는 결과 순서대로 나열한 문체 목록이다.
var Styles = [...]Style{Friendly, Warm, Fun}

// VariantCount 는 완성된 번역 결과의 항목 수다.
const VariantCount = len(Styles)

// Label 은 화면에 보여줄 한국어 라벨을 반환한다.
func (s Style) Label() string {
	switch s {
	case Friendly:
		return "친근한"
	case Warm:
		return "따뜻한"
	case Fun:
		return "재미있는"
	default:
		return ""
	}
}

func (s Style) String() string {
	switch s {
	case Friendly:
		return "friendly"
	case Warm:
		return "warm"
	case Fun:
		return "fun"
	default:
		return fmt.Sprintf("style(%d)", int(s))
	}
}

// MarshalText 는 JSON 에서 소문자 이름으로 직렬화한다.
func (s Style) MarshalText() ([]byte, error) {
	if s < Friendly || s > Fun {
		return nil, fmt.Errorf("unknown style: %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText 는 대소문자를 구분하지 않고 문체 이름을 해석한다.
func (s *Style) UnmarshalText(text []byte) error {
	parsed, err := ParseStyle(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStyle 은 문체 이름을 Style 로 변환한다.
func ParseStyle(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "friendly":
		return Friendly, nil
	case "warm":
		return Warm, nil
	case "fun":
		return Fun, nil
	default:
		return 0, fmt.Errorf("unknown style: %q", name)
	}
}

// Variant 는 한 가지 문체의 영어 번역이다.
type Variant struct {
	Style Style  `json:"style"`
	Text  string `json:"text"`
}

var fallbackTexts = [VariantCount]string{
	"Hey! Great job! 😊",
	"I'm so proud of you! ❤️",
	"That's awesome! 🎉",
}

// Fallback 은 모델 호출이나 해석이 실패했을 때 쓰는 고정 결과를 새 슬라이스로 반환한다.
func Fallback() []Variant {
	return fromTexts(fallbackTexts[:])
}

// fromTexts 는 앞의 세 항목을 순서대로 Friendly, Warm, Fun 에 배정한다.
func fromTexts(texts []string) []Variant {
	variants := make([]Variant, VariantCount)
	for i, style := range Styles {
		variants[i] = Variant{Style: style, Text: texts[i]}
	}
	return variants
}
