package session

import (
	"context"
	"sync"

	"github.com/park285/grandtalk-server-go/internal/comment"
)

// clipboardBuffer 는 HTTP 세션용 클립보드다. 마지막 복사 내용과 안내를 응답에 실어 보낸다.
type clipboardBuffer struct {
	mu     sync.Mutex
	text   string
	notice *comment.Notice
}

func (b *clipboardBuffer) SetText(_ context.Context, text string) error {
	b.mu.Lock()
	b.text = text
	b.mu.Unlock()
	return nil
}

func (b *clipboardBuffer) Notify(_ context.Context, notice comment.Notice) {
	b.mu.Lock()
	copied := notice
	b.notice = &copied
	b.mu.Unlock()
}

// take 는 복사 내용과 아직 전달하지 않은 안내를 반환한다. 안내는 한 번만 전달된다.
func (b *clipboardBuffer) take() (string, *comment.Notice) {
	b.mu.Lock()
	defer b.mu.Unlock()
	notice := b.notice
	b.notice = nil
	return b.text, notice
}

func (b *clipboardBuffer) clear() {
	b.mu.Lock()
	b.text = ""
	b.notice = nil
	b.mu.Unlock()
}
