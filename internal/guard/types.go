package guard

import (
	"errors"
	"fmt"
)

// ErrBlocked 는 입력이 검사에서 차단됐을 때 errors.Is 로 확인할 수 있는 값이다.
var ErrBlocked = errors.New("input blocked by prompt guard")

// Match: 매칭된 규칙 정보를 담습니다.
type Match struct {
	ID     string  `json:"id"`
	Weight float64 `json:"weight"`
}

// Evaluation: 검사 결과를 담습니다.
type Evaluation struct {
	Score     float64 `json:"score"`
	Hits      []Match `json:"hits"`
	Threshold float64 `json:"threshold"`
}

// Malicious: 위험 여부를 반환합니다.
func (e Evaluation) Malicious() bool {
	return e.Score >= e.Threshold
}

// HitIDs: 로그에 남길 규칙 ID 목록입니다.
func (e Evaluation) HitIDs() []string {
	ids := make([]string, 0, len(e.Hits))
	for _, hit := range e.Hits {
		ids = append(ids, hit.ID)
	}
	return ids
}

// BlockedError: 차단된 입력 오류입니다.
type BlockedError struct {
	Score     float64
	Threshold float64
	Rules     []string
}

// Error: 오류 메시지를 반환합니다.
func (e *BlockedError) Error() string {
	return fmt.Sprintf("%s (score=%.2f, threshold=%.2f, rules=%v)", ErrBlocked, e.Score, e.Threshold, e.Rules)
}

// Unwrap: ErrBlocked 와 비교할 수 있게 합니다.
func (e *BlockedError) Unwrap() error {
	return ErrBlocked
}
