package history

import (
	"time"

	"github.com/google/uuid"
)

// Entry 는 사용자가 고른 번역 한 건의 기록이다.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Korean    string    `json:"korean"`
	English   string    `json:"english"`
}

// NewEntry 는 ID 와 시각을 채운 기록을 만든다.
func NewEntry(korean string, english string) Entry {
	return Entry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Korean:    korean,
		English:   english,
	}
}

// withDefaults 는 비어 있는 ID 와 시각을 채운다.
func (e Entry) withDefaults() Entry {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	return e
}
