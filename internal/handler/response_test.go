package handler

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/park285/grandtalk-server-go/internal/comment"
)

func newBindContext(body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	if body == "" {
		c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	} else {
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	}
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestBindSelectRequest(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		ok    bool
		index int
	}{
		{name: "first variant", body: `{"index":0}`, ok: true, index: 0},
		{name: "last variant", body: `{"index":2}`, ok: true, index: 2},
		{name: "missing index", body: `{}`},
		{name: "negative index", body: `{"index":-1}`},
		{name: "not json", body: "세 번째"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, w := newBindContext(tc.body)
			var req SelectRequest
			got := bindJSON(c, &req)
			if got != tc.ok {
				t.Fatalf("bindJSON(%s) = %v, want %v", tc.body, got, tc.ok)
			}
			if !tc.ok {
				if w.Code != http.StatusUnprocessableEntity {
					t.Fatalf("expected 422, got %d", w.Code)
				}
				return
			}
			if req.Index == nil || *req.Index != tc.index {
				t.Fatalf("unexpected index: %v", req.Index)
			}
		})
	}
}

func TestBindInputRequestAcceptsEmptyText(t *testing.T) {
	c, _ := newBindContext(`{"text":""}`)
	var req InputRequest
	if !bindJSON(c, &req) {
		t.Fatalf("clearing the input must be accepted")
	}
	if req.Text == nil || *req.Text != "" {
		t.Fatalf("expected empty text, got %v", req.Text)
	}

	c, w := newBindContext(`{}`)
	if bindJSON(c, &InputRequest{}) {
		t.Fatalf("missing text field must be rejected")
	}
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
}

func TestBindCreateRequestAllowsEmptyBody(t *testing.T) {
	c, _ := newBindContext("")
	var req CreateRequest
	if !bindJSONAllowEmpty(c, &req) {
		t.Fatalf("expected empty create body to be accepted")
	}
	if req.Text != "" {
		t.Fatalf("unexpected text: %q", req.Text)
	}
}

func TestFailRequestMapsSessionErrors(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	c, w := newBindContext("")
	failRequest(c, logger, "comment", fmt.Errorf("submit: %w", comment.ErrBusy))

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error_code"] != "TRANSLATION_IN_PROGRESS" {
		t.Fatalf("unexpected error code: %v", body["error_code"])
	}
	if !strings.Contains(logs.String(), "comment_rejected") || !strings.Contains(logs.String(), "level=INFO") {
		t.Fatalf("client errors should be logged as rejected at info: %s", logs.String())
	}
}
