package llm

// Usage: 토큰 사용량 정보를 담습니다.
type Usage struct {
	InputTokens     int `json:"input_tokens"`
	OutputTokens    int `json:"output_tokens"`
	TotalTokens     int `json:"total_tokens"`
	ReasoningTokens int `json:"reasoning_tokens"`
	CachedTokens    int `json:"cached_tokens"`
}

// CacheHitRatio: 캐시 적중률을 계산합니다 (0.0 ~ 1.0).
// InputTokens가 0이면 0을 반환합니다.
func (u Usage) CacheHitRatio() float64 {
	if u.InputTokens == 0 {
		return 0
	}
	return float64(u.CachedTokens) / float64(u.InputTokens)
}

// Add: 두 사용량을 합산합니다.
func (u Usage) Add(other Usage) Usage {
	return Usage{
		InputTokens:     u.InputTokens + other.InputTokens,
		OutputTokens:    u.OutputTokens + other.OutputTokens,
		TotalTokens:     u.TotalTokens + other.TotalTokens,
		ReasoningTokens: u.ReasoningTokens + other.ReasoningTokens,
		CachedTokens:    u.CachedTokens + other.CachedTokens,
	}
}

// GenerateResult: 모델 응답 원문과 사용량을 담습니다.
// ThoughtParts 는 응답에서 제외된 사고(thought) 파트 수입니다.
type GenerateResult struct {
	Text         string
	Model        string
	Usage        Usage
	ThoughtParts int
}
