package translation

// responseSchema 는 모델에 요구하는 JSON 응답 모양이다.
// 모델이 따르지 않아도 Parse 가 같은 규칙으로 다시 검사한다.
var responseSchema = requiredObjectSchema(map[string]any{
	"translations": map[string]any{
		"type":     "array",
		"minItems": VariantCount,
		"items": requiredObjectSchema(map[string]any{
			"style": stringSchema(),
			"text":  stringSchema(),
		}, []string{"text"}),
	},
}, []string{"translations"})

func stringSchema() map[string]any {
	return map[string]any{"type": "string"}
}

func requiredObjectSchema(properties map[string]any, required []string) map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}
