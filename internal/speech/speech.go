// Package speech 는 음성 입력 자리표시자다. 아직 인식기를 붙이지 않았다.
package speech

import (
	"context"
	"errors"
	"io"
)

// ErrSpeechUnavailable 는 음성 인식을 지원하지 않을 때 반환된다.
var ErrSpeechUnavailable = errors.New("speech recognition unavailable")

// Recognizer 는 한국어 음성을 텍스트로 바꾼다.
type Recognizer interface {
	Recognize(ctx context.Context, audio io.Reader, mimeType string) (string, error)
	Available() bool
}

// Unavailable 은 항상 ErrSpeechUnavailable 을 반환한다.
type Unavailable struct{}

// Recognize 는 입력을 읽지 않고 ErrSpeechUnavailable 을 반환한다.
func (Unavailable) Recognize(context.Context, io.Reader, string) (string, error) {
	return "", ErrSpeechUnavailable
}

// Available 은 false 다.
func (Unavailable) Available() bool { return false }

var _ Recognizer = Unavailable{}
