package gemini

import (
	"context"

	"github.com/park285/grandtalk-server-go/internal/llm"
)

// Generator 는 프롬프트 한 건을 모델에 보내고 원문 응답을 받는 인터페이스다.
// 테스트에서 mock 구현을 주입할 수 있도록 한다.
type Generator interface {
	// Generate 프롬프트 1건 요청
	Generate(ctx context.Context, req Request) (llm.GenerateResult, error)

	// Configured 자격 증명 보유 여부
	Configured() bool
}

var _ Generator = (*Client)(nil)
