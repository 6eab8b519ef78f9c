package httperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/park285/grandtalk-server-go/internal/comment"
	"github.com/park285/grandtalk-server-go/internal/gemini"
	"github.com/park285/grandtalk-server-go/internal/session"
	"github.com/park285/grandtalk-server-go/internal/speech"
)

func TestFromErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		code   ErrorCode
		status int
	}{
		{comment.ErrNotConfigured, ErrorCodeConfigurationRequired, http.StatusConflict},
		{gemini.ErrMissingAPIKey, ErrorCodeConfigurationRequired, http.StatusConflict},
		{comment.ErrEmptyInput, ErrorCodeEmptyInput, http.StatusBadRequest},
		{comment.ErrBusy, ErrorCodeTranslationInProgress, http.StatusConflict},
		{comment.ErrInvalidSelection, ErrorCodeInvalidSelection, http.StatusBadRequest},
		{comment.ErrNoResult, ErrorCodeNoResult, http.StatusConflict},
		{session.ErrSessionNotFound, ErrorCodeSessionNotFound, http.StatusNotFound},
		{speech.ErrSpeechUnavailable, ErrorCodeSpeechUnavailable, http.StatusNotImplemented},
		{context.DeadlineExceeded, ErrorCodeLLMTimeout, http.StatusGatewayTimeout},
		{fmt.Errorf("translate: %w", comment.ErrBusy), ErrorCodeTranslationInProgress, http.StatusConflict},
	}
	for _, tc := range tests {
		apiErr := FromError(tc.err)
		if apiErr == nil || apiErr.Code != tc.code || apiErr.Status != tc.status {
			t.Fatalf("FromError(%v) = %+v, want %s/%d", tc.err, apiErr, tc.code, tc.status)
		}
	}
}

func TestConfigurationErrorPointsToSettings(t *testing.T) {
	apiErr := FromError(comment.ErrNotConfigured)
	if apiErr.Details["action"] != "settings" {
		t.Fatalf("expected settings action, got %+v", apiErr.Details)
	}
	notice, ok := apiErr.Details["notice"].(comment.Notice)
	if !ok || notice.Title != "API 키 필요" {
		t.Fatalf("unexpected notice: %+v", apiErr.Details["notice"])
	}
}

func TestEmptyInputNotice(t *testing.T) {
	apiErr := FromError(comment.ErrEmptyInput)
	notice := apiErr.Details["notice"].(comment.Notice)
	if notice.Message != "먼저 한글 댓글을 입력해주세요" {
		t.Fatalf("unexpected notice: %+v", notice)
	}
}

func TestResponseIncludesRequestID(t *testing.T) {
	status, payload := Response(NewMissingField("id"), "req-1")
	if status != 400 {
		t.Fatalf("unexpected status: %d", status)
	}
	if payload.RequestID == nil || *payload.RequestID != "req-1" {
		t.Fatalf("expected request id")
	}
}

func TestNewMissingField(t *testing.T) {
	err := NewMissingField("username")
	if err == nil {
		t.Fatalf("expected non-nil error")
	}
	if err.Status != http.StatusBadRequest {
		t.Fatalf("expected 400 status, got: %d", err.Status)
	}
	if err.Code != ErrorCodeMissingField {
		t.Fatalf("expected missing field error code")
	}
}

func TestNewInvalidInput(t *testing.T) {
	err := NewInvalidInput("must be positive")
	if err == nil {
		t.Fatalf("expected non-nil error")
	}
	if err.Status != http.StatusBadRequest {
		t.Fatalf("expected 400 status, got: %d", err.Status)
	}
}

func TestNewValidationError(t *testing.T) {
	originalErr := errors.New("field validation failed")
	err := NewValidationError(originalErr)
	if err == nil {
		t.Fatalf("expected non-nil error")
	}
	// NewValidationError 는 422 Unprocessable Entity 반환
	if err.Status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 status, got: %d", err.Status)
	}
}

func TestNewInternalError(t *testing.T) {
	err := NewInternalError("something went wrong")
	if err == nil {
		t.Fatalf("expected non-nil error")
	}
	if err.Status != http.StatusInternalServerError {
		t.Fatalf("expected 500 status, got: %d", err.Status)
	}
	if err.Code != ErrorCodeInternal {
		t.Fatalf("expected internal error code")
	}
}

func TestAPIErrorError(t *testing.T) {
	err := NewMissingField("test")
	msg := err.Error()
	if msg == "" {
		t.Fatalf("expected non-empty error message")
	}
}

func TestFromErrorNil(t *testing.T) {
	apiErr := FromError(nil)
	if apiErr != nil {
		t.Fatalf("expected nil for nil input")
	}
}

func TestFromErrorGeneric(t *testing.T) {
	genericErr := errors.New("some generic error")
	apiErr := FromError(genericErr)
	if apiErr == nil {
		t.Fatalf("expected non-nil error")
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Fatalf("expected 500 for generic error")
	}
}

func TestResponseWithEmptyRequestID(t *testing.T) {
	status, payload := Response(NewInternalError("test"), "")
	if status != 500 {
		t.Fatalf("unexpected status: %d", status)
	}
	if payload.RequestID != nil {
		t.Fatalf("expected nil request id for empty string")
	}
}
