// Package textnorm 은 사용자가 입력한 한글 댓글을 모델에 보내기 전에 정리한다.
package textnorm

import (
	"strings"
	"unicode"

	"github.com/forPelevin/gomoji"
	"github.com/ymw0407/jamo/pkg/jamo"
	"golang.org/x/text/unicode/norm"
)

// jamoTable: 한글 자모 범위를 통합한 테이블
var jamoTable = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x1100, Hi: 0x11FF, Stride: 1}, // Hangul Jamo
		{Lo: 0x3130, Hi: 0x318F, Stride: 1}, // Hangul Compatibility Jamo
		{Lo: 0xA960, Hi: 0xA97F, Stride: 1}, // Hangul Jamo Extended-A
		{Lo: 0xD7B0, Hi: 0xD7FF, Stride: 1}, // Hangul Jamo Extended-B
	},
}

var hangulTable = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0xAC00, Hi: 0xD7A3, Stride: 1}, // 가-힣
	},
}

// Normalize: 입력을 NFC 로 정규화하고 제어 문자를 제거한 뒤
// 풀어 쓴 자모 시퀀스를 완성형으로 조합합니다.
// 앞뒤 공백은 유지합니다. 공백 판정은 호출자가 IsBlank 로 합니다.
func Normalize(text string) string {
	if isASCIIOnly(text) {
		return stripControlChars(text)
	}
	nfc := norm.NFC.String(text)
	return composeJamoSequences(stripControlChars(nfc))
}

// IsBlank: 공백 문자만 있거나 비어 있으면 true 입니다.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

// Profile: 입력 텍스트의 구성 요약입니다. 로그 속성으로 사용합니다.
type Profile struct {
	Runes    int  `json:"runes"`
	Hangul   int  `json:"hangul"`
	Jamo     int  `json:"jamo"`
	HasEmoji bool `json:"has_emoji"`
}

// Inspect: 텍스트 구성을 요약합니다.
func Inspect(text string) Profile {
	var p Profile
	for _, r := range text {
		p.Runes++
		switch {
		case unicode.Is(hangulTable, r):
			p.Hangul++
		case unicode.Is(jamoTable, r):
			p.Jamo++
		}
	}
	if p.Runes > 0 && !isASCIIOnly(text) {
		p.HasEmoji = gomoji.ContainsEmoji(text)
	}
	return p
}

func isASCIIOnly(text string) bool {
	for i := 0; i < len(text); i++ {
		if text[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// stripControlChars: 개행과 탭은 남기고 나머지 제어/서식 문자를 제거합니다.
func stripControlChars(text string) string {
	hasControl := false
	for _, r := range text {
		if isStrippable(r) {
			hasControl = true
			break
		}
	}
	if !hasControl {
		return text
	}

	var builder strings.Builder
	builder.Grow(len(text))
	for _, r := range text {
		if isStrippable(r) {
			continue
		}
		builder.WriteRune(r)
	}
	return builder.String()
}

func isStrippable(r rune) bool {
	if r == '\n' || r == '\t' {
		return false
	}
	// ZWJ 는 이모지 시퀀스 일부이므로 남깁니다.
	if r == '\u200d' {
		return false
	}
	return unicode.Is(unicode.Cf, r) || unicode.Is(unicode.Cc, r)
}

// composeJamoSequences: 자음+모음으로 시작하는 연속 자모 시퀀스만 완성형으로 조합합니다.
// "ㅋㅋ", "ㅠㅠ" 같은 감정 표현은 그대로 둡니다.
func composeJamoSequences(text string) string {
	var result strings.Builder
	var run []rune
	result.Grow(len(text))

	flush := func() {
		if len(run) == 0 {
			return
		}
		segment := string(run)
		run = run[:0]
		if !startsSyllable(segment) {
			result.WriteString(segment)
			return
		}
		composed, err := jamo.ComposeHangeul(segment)
		if err != nil || len(composed) == 0 || composed[0] == "" {
			result.WriteString(segment)
			return
		}
		result.WriteString(composed[0])
	}

	for _, r := range text {
		if unicode.Is(jamoTable, r) {
			run = append(run, r)
			continue
		}
		flush()
		result.WriteRune(r)
	}
	flush()

	return result.String()
}

func startsSyllable(segment string) bool {
	runes := []rune(segment)
	if len(runes) < 2 {
		return false
	}
	return isConsonant(runes[0]) && isVowel(runes[1])
}

// 호환 자모 기준: ㄱ(0x3131)-ㅎ(0x314E) 자음, ㅏ(0x314F)-ㅣ(0x3163) 모음
func isConsonant(r rune) bool {
	return (r >= 0x3131 && r <= 0x314E) || (r >= 0x1100 && r <= 0x1112)
}

func isVowel(r rune) bool {
	return (r >= 0x314F && r <= 0x3163) || (r >= 0x1161 && r <= 0x1175)
}
