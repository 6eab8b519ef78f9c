package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/park285/grandtalk-server-go/internal/config"
)

func newRateLimitedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{HTTPRateLimit: config.HTTPRateLimitConfig{
		RequestsPerMinute: 1,
		CacheSize:         10,
		CacheTTLSeconds:   int(time.Minute.Seconds()),
	}}

	router := gin.New()
	router.Use(RateLimit(cfg))
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	router.POST("/api/translate", ok)
	router.POST("/api/sessions/:id/submit", ok)
	router.PUT("/api/sessions/:id/input", ok)
	return router
}

func serve(router *gin.Engine, method string, path string, remote string) int {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = remote
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp.Code
}

func TestRateLimit(t *testing.T) {
	router := newRateLimitedRouter()

	if code := serve(router, http.MethodPost, "/api/translate", "1.2.3.4:1234"); code != http.StatusOK {
		t.Fatalf("expected ok, got %d", code)
	}
	if code := serve(router, http.MethodPost, "/api/sessions/abc/submit", "1.2.3.4:1234"); code != http.StatusTooManyRequests {
		t.Fatalf("expected rate limit, got %d", code)
	}
	if code := serve(router, http.MethodPost, "/api/translate", "5.6.7.8:1234"); code != http.StatusOK {
		t.Fatalf("other client must not be limited, got %d", code)
	}
}

func TestRateLimitIgnoresCheapRoutes(t *testing.T) {
	router := newRateLimitedRouter()
	for i := 0; i < 3; i++ {
		if code := serve(router, http.MethodPut, "/api/sessions/abc/input", "1.2.3.4:1234"); code != http.StatusOK {
			t.Fatalf("input edits must not be limited, got %d", code)
		}
	}
}

func TestCallsModel(t *testing.T) {
	cases := map[string]bool{
		"/api/translate":         true,
		"/api/sessions/x/submit": true,
		"/api/sessions/x/select": false,
		"/api/history":           false,
		"/health":                false,
	}
	for path, want := range cases {
		if got := callsModel(path); got != want {
			t.Errorf("callsModel(%q) = %v, want %v", path, got, want)
		}
	}
}
