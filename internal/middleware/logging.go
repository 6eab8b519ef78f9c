package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/park285/grandtalk-server-go/internal/logging"
)

// RequestLogger 는 HTTP 요청 로그 미들웨어다. 성공한 헬스/메트릭 요청은 남기지 않는다.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = logging.Discard()
	}

	return func(c *gin.Context) {
		startedAt := time.Now()
		method := c.Request.Method
		path := c.Request.URL.Path

		defer func() {
			status := c.Writer.Status()
			if status < http.StatusBadRequest && len(c.Errors) == 0 && isNoisyInfoPath(path) {
				return
			}

			fields := []any{
				"request_id", GetRequestID(c),
				"method", method,
				"path", path,
				"status", status,
				"latency", time.Since(startedAt),
				"bytes", c.Writer.Size(),
			}
			if route := c.FullPath(); route != "" && route != path {
				fields = append(fields, "route", route)
			}
			if sessionID := c.Param("id"); sessionID != "" {
				fields = append(fields, "session_id", sessionID)
			}
			if len(c.Errors) > 0 {
				fields = append(fields, "errors", c.Errors.String())
			}

			switch {
			case status >= http.StatusInternalServerError:
				logger.Error("http_request", fields...)
			case status >= http.StatusBadRequest:
				logger.Warn("http_request", fields...)
			default:
				logger.Info("http_request", fields...)
			}
		}()

		c.Next()
	}
}

func isNoisyInfoPath(path string) bool {
	switch path {
	case "/health", "/health/ready", "/health/models", "/metrics":
		return true
	default:
		return false
	}
}
