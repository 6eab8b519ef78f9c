package comment

import (
	"errors"

	"github.com/park285/grandtalk-server-go/internal/translation"
)

var (
	// ErrEmptyInput 는 입력이 비어 있는데 번역을 요청했을 때 반환된다.
	ErrEmptyInput = translation.ErrEmptyInput
	// ErrNotConfigured 는 API 키가 없어 설정 화면으로 안내해야 할 때 반환된다.
	ErrNotConfigured = translation.ErrNotConfigured
	// ErrBusy 는 번역 진행 중에 다른 조작을 시도했을 때 반환된다.
	ErrBusy = errors.New("translation in progress")
	// ErrInvalidSelection 는 범위를 벗어난 번역을 골랐을 때 반환된다.
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrNoResult 는 번역 결과가 없는 상태에서 선택했을 때 반환된다.
	ErrNoResult = errors.New("no translation result")
)

// UserNotice 는 세션 오류를 사용자 안내 문구로 바꾼다. 알 수 없는 오류는 일반 실패 문구다.
func UserNotice(err error) Notice {
	switch {
	case errors.Is(err, ErrNotConfigured):
		return Notice{Title: "API 키 필요", Message: "Gemini API 키를 먼저 설정해주세요."}
	case errors.Is(err, ErrEmptyInput):
		return Notice{Title: "알림", Message: "먼저 한글 댓글을 입력해주세요"}
	case errors.Is(err, ErrBusy):
		return Notice{Title: "알림", Message: "번역 중입니다. 잠시만 기다려주세요"}
	case errors.Is(err, ErrInvalidSelection):
		return Notice{Title: "알림", Message: "번역을 다시 선택해주세요"}
	case errors.Is(err, ErrNoResult):
		return Notice{Title: "알림", Message: "먼저 번역을 해주세요"}
	default:
		return Notice{Title: "오류", Message: "번역에 실패했습니다"}
	}
}
