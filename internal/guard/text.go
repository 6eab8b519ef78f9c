package guard

import (
	"encoding/base64"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mtibben/confusables"
	"golang.org/x/text/unicode/norm"

	"github.com/park285/grandtalk-server-go/internal/textnorm"
)

// minBase64Run 보다 짧은 base64 문자 연속은 검사하지 않는다.
const minBase64Run = 20

// normalizeForMatch 는 규칙 매칭용 문자열을 만든다.
// 번역 입력과 같은 정규화(제어 문자 제거, 자모 조합)를 거친 뒤
// 한글과 ASCII 가 아닌 문자만 NFKC, homoglyph skeleton 순으로 바꾼다.
// ASCII 에 skeleton 을 적용하면 "m" 이 "rn" 이 되므로 건드리지 않는다.
func normalizeForMatch(text string) string {
	normalized := textnorm.Normalize(text)
	if isASCIIOnly(normalized) {
		return normalized
	}

	var result strings.Builder
	result.Grow(len(normalized))
	for _, r := range normalized {
		if r <= unicode.MaxASCII || unicode.Is(unicode.Hangul, r) {
			result.WriteRune(r)
			continue
		}
		folded := norm.NFKC.String(string(r))
		if isASCIIOnly(folded) {
			result.WriteString(folded)
			continue
		}
		result.WriteString(confusables.Skeleton(folded))
	}
	return result.String()
}

func isASCIIOnly(text string) bool {
	for i := 0; i < len(text); i++ {
		if text[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}

func isBase64Char(c byte) bool {
	return (c >= 'A' && c <= 'Z') ||
		(c >= 'a' && c <= 'z') ||
		(c >= '0' && c <= '9') ||
		c == '+' || c == '/' || c == '-' || c == '_'
}

// containsSuspiciousBase64 는 디코딩했을 때 읽을 수 있는 문장이 나오는 base64 구간이 있는지 본다.
func containsSuspiciousBase64(input string) bool {
	for i := 0; i < len(input); {
		if !isBase64Char(input[i]) {
			i++
			continue
		}
		start := i
		for i < len(input) && isBase64Char(input[i]) {
			i++
		}
		for pad := 0; i < len(input) && input[i] == '=' && pad < 2; pad++ {
			i++
		}
		if i-start < minBase64Run {
			continue
		}
		if decoded, ok := decodeBase64(input[start:i]); ok && isReadableText(decoded) {
			return true
		}
	}
	return false
}

// decodeBase64 는 URL-safe 문자와 누락된 패딩을 허용한다.
func decodeBase64(s string) ([]byte, bool) {
	s = strings.TrimRight(s, "=")
	s = strings.NewReplacer("-", "+", "_", "/").Replace(s)
	decoded, err := base64.RawStdEncoding.DecodeString(s)
	if err != nil {
		return nil, false
	}
	return decoded, true
}

// isReadableText 는 유효한 UTF-8 이고 90% 넘게 출력 가능한 문자인지 확인한다.
func isReadableText(data []byte) bool {
	if len(data) == 0 || !utf8.Valid(data) {
		return false
	}
	total, printable := 0, 0
	for _, r := range string(data) {
		total++
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			printable++
		}
	}
	return printable*100 > total*90
}
