package shared

import (
	"log/slog"
	"net/http"

	"github.com/park285/grandtalk-server-go/internal/httperror"
)

// LogError: 요청 처리 실패를 로깅합니다.
// 사용자 입력으로 생기는 4xx 는 Info, 서버 쪽 문제는 Warn 입니다.
func LogError(logger *slog.Logger, domain string, err error) {
	if logger == nil || err == nil {
		return
	}
	apiErr := httperror.FromError(err)
	if apiErr != nil && apiErr.Status < http.StatusInternalServerError {
		logger.Info(domain+"_rejected", "code", string(apiErr.Code), "err", err)
		return
	}
	logger.Warn(domain+"_error", "err", err)
}
