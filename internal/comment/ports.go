package comment

import (
	"context"

	"github.com/park285/grandtalk-server-go/internal/history"
	"github.com/park285/grandtalk-server-go/internal/translation"
)

// Translator 는 세션이 사용하는 번역 기능이다.
type Translator interface {
	Configured() bool
	Translate(ctx context.Context, koreanText string) ([]translation.Variant, error)
}

// Clipboard 는 선택한 번역을 클립보드에 쓴다.
type Clipboard interface {
	SetText(ctx context.Context, text string) error
}

// Notifier 는 사용자에게 짧은 안내를 띄운다.
type Notifier interface {
	Notify(ctx context.Context, notice Notice)
}

// HistoryWriter 는 고른 번역을 기록한다. 실패해도 세션 흐름에는 영향이 없다.
type HistoryWriter interface {
	Append(ctx context.Context, entry history.Entry) error
}

// Notice 는 사용자 안내 문구다.
type Notice struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// CopiedNotice 는 복사 완료 안내다.
var CopiedNotice = Notice{
	Title:   "복사 완료! 📋",
	Message: "클립보드에 복사되었습니다.\n손자 블로그에 붙여넣기 하세요!",
}

var _ Translator = (*translation.Translator)(nil)
var _ HistoryWriter = (*history.Store)(nil)
