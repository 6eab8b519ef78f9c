package translation

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/mitchellh/mapstructure"
)

// ParseResult 는 모델 응답 해석 결과다. Parsed 또는 ParseFailed 중 하나다.
type ParseResult interface {
	isParseResult()
}

// Parsed 는 translations 배열을 읽어낸 결과다. 항목 수 검사는 호출자가 한다.
type Parsed struct {
	Texts []string
}

// ParseFailed 는 응답이 기대한 JSON 모양이 아닐 때의 결과다.
type ParseFailed struct {
	Reason string
}

func (Parsed) isParseResult()      {}
func (ParseFailed) isParseResult() {}

type responsePayload struct {
	Translations []responseItem `mapstructure:"translations"`
}

// style 은 읽기만 하고 버린다. 문체는 위치로 정한다.
type responseItem struct {
	Text string `mapstructure:"text"`
}

// StripFences 는 ```json, ``` 마커와 앞뒤 공백을 제거한다.
func StripFences(raw string) string {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}

// Parse 는 모델 응답 원문을 해석한다. 일부만 맞는 응답은 복구하지 않는다.
func Parse(raw string) ParseResult {
	body := StripFences(raw)
	if body == "" {
		return ParseFailed{Reason: "empty response"}
	}

	var generic map[string]any
	if err := json.Unmarshal([]byte(body), &generic); err != nil {
		return ParseFailed{Reason: fmt.Sprintf("invalid json: %v", err)}
	}

	var payload responsePayload
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     &payload,
		ErrorUnset: true,
	})
	if err != nil {
		return ParseFailed{Reason: fmt.Sprintf("new decoder: %v", err)}
	}
	if err := decoder.Decode(generic); err != nil {
		return ParseFailed{Reason: fmt.Sprintf("unexpected shape: %v", err)}
	}

	// 앞의 VariantCount 개만 쓰이므로 그 뒤 항목의 내용은 검사하지 않는다.
	texts := make([]string, 0, len(payload.Translations))
	for i, item := range payload.Translations {
		if i < VariantCount && strings.TrimSpace(item.Text) == "" {
			return ParseFailed{Reason: fmt.Sprintf("translation %d has empty text", i)}
		}
		texts = append(texts, item.Text)
	}
	return Parsed{Texts: texts}
}
