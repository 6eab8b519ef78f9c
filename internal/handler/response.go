package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/park285/grandtalk-server-go/internal/handler/shared"
)

// writeError: 에러 응답을 작성합니다 (shared.WriteError 위임).
func writeError(c *gin.Context, err error) {
	shared.WriteError(c, err)
}

// failRequest: 실패를 로깅하고 에러 응답을 작성합니다.
func failRequest(c *gin.Context, logger *slog.Logger, domain string, err error) {
	shared.LogError(logger, domain, err)
	shared.WriteError(c, err)
}

// bindJSON: 요청 본문을 JSON으로 파싱합니다 (shared.BindJSON 위임).
func bindJSON(c *gin.Context, out any) bool {
	return shared.BindJSON(c, out)
}

// bindJSONAllowEmpty: 빈 본문도 허용합니다 (shared.BindJSONAllowEmpty 위임).
func bindJSONAllowEmpty(c *gin.Context, out any) bool {
	return shared.BindJSONAllowEmpty(c, out)
}

func pathParam(c *gin.Context, name string) (string, bool) {
	return shared.PathParam(c, name)
}
