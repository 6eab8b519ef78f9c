package usage

import (
	"context"
	"time"

	"github.com/park285/grandtalk-server-go/internal/llm"
)

// Delta 는 하루치 사용량에 더할 증분이다.
type Delta struct {
	InputTokens     int64
	OutputTokens    int64
	ReasoningTokens int64
	Requests        int64
}

// DeltaFrom 은 번역 1회의 토큰 사용량을 증분으로 바꾼다.
func DeltaFrom(u llm.Usage) Delta {
	return Delta{
		InputTokens:     int64(u.InputTokens),
		OutputTokens:    int64(u.OutputTokens),
		ReasoningTokens: int64(u.ReasoningTokens),
		Requests:        1,
	}
}

// Add 는 other 를 더한다.
func (d *Delta) Add(other Delta) {
	d.InputTokens += other.InputTokens
	d.OutputTokens += other.OutputTokens
	d.ReasoningTokens += other.ReasoningTokens
	d.Requests += other.Requests
}

// Empty 는 저장할 내용이 없는지 여부다.
func (d Delta) Empty() bool {
	return d.Requests <= 0 && d.InputTokens <= 0 && d.OutputTokens <= 0
}

// Store: 사용량 저장소 인터페이스입니다. 날짜가 zero 면 오늘입니다.
type Store interface {
	RecordUsage(ctx context.Context, usageDate time.Time, delta Delta) error
	GetDailyUsage(ctx context.Context, usageDate time.Time) (*DailyUsage, error)
	GetRecentUsage(ctx context.Context, days int) ([]DailyUsage, error)
	GetTotalUsage(ctx context.Context, days int) (DailyUsage, error)
	Close()
}

var _ Store = (*Repository)(nil)
