package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/park285/grandtalk-server-go/internal/config"
	"github.com/park285/grandtalk-server-go/internal/httperror"
)

// APIKeyAuth 는 /api 경로의 API 키 인증 미들웨어다. 키가 설정되지 않았으면 통과시킨다.
func APIKeyAuth(cfg *config.Config) gin.HandlerFunc {
	expected := ""
	if cfg != nil {
		expected = strings.TrimSpace(cfg.HTTPAuth.APIKey)
	}

	return func(c *gin.Context) {
		if expected == "" || c.Request.Method == http.MethodOptions || !isAPIPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		provided := extractAPIKey(c)
		if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			details := map[string]any{"path": c.Request.URL.Path}
			status, payload := httperror.Response(httperror.NewUnauthorized(details), GetRequestID(c))
			c.AbortWithStatusJSON(status, payload)
			return
		}

		c.Next()
	}
}

func extractAPIKey(c *gin.Context) string {
	if c == nil {
		return ""
	}

	if value := strings.TrimSpace(c.GetHeader("X-API-Key")); value != "" {
		return value
	}

	authValue := strings.TrimSpace(c.GetHeader("Authorization"))
	const bearer = "bearer "
	if len(authValue) > len(bearer) && strings.EqualFold(authValue[:len(bearer)], bearer) {
		return strings.TrimSpace(authValue[len(bearer):])
	}
	return ""
}

func isAPIPath(path string) bool {
	return strings.HasPrefix(path, "/api/")
}
