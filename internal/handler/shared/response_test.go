package shared

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/park285/grandtalk-server-go/internal/comment"
	"github.com/park285/grandtalk-server-go/internal/httperror"
	"github.com/park285/grandtalk-server-go/internal/middleware"
)

func TestWriteErrorUsesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())
	router.GET("/api/x", func(c *gin.Context) { WriteError(c, comment.ErrEmptyInput) })

	req := httptest.NewRequest(http.MethodGet, "/api/x", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-9")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	var payload httperror.ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.ErrorCode != string(httperror.ErrorCodeEmptyInput) || payload.RequestID == nil || *payload.RequestID != "req-9" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestPathParamMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: "  "}}

	if _, ok := PathParam(c, "id"); ok {
		t.Fatalf("expected missing param")
	}
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestLogErrorLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	LogError(logger, "comment", comment.ErrBusy)
	if !strings.Contains(buf.String(), "level=INFO") || !strings.Contains(buf.String(), "comment_rejected") {
		t.Fatalf("expected info rejection log, got %q", buf.String())
	}
	buf.Reset()
	LogError(logger, "comment", bytes.ErrTooLarge)
	if !strings.Contains(buf.String(), "level=WARN") || !strings.Contains(buf.String(), "comment_error") {
		t.Fatalf("expected warn error log, got %q", buf.String())
	}
}
