package httperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/park285/grandtalk-server-go/internal/comment"
	"github.com/park285/grandtalk-server-go/internal/gemini"
	"github.com/park285/grandtalk-server-go/internal/history"
	"github.com/park285/grandtalk-server-go/internal/session"
	"github.com/park285/grandtalk-server-go/internal/speech"
)

// ErrorCode 는 API 오류 코드다.
type ErrorCode string

const (
	// ErrorCodeInternal 는 내부 오류 코드다.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrorCodeValidation 는 검증 오류 코드다.
	ErrorCodeValidation ErrorCode = "VALIDATION_ERROR"
	// ErrorCodeUnauthorized 는 인증 오류 코드다.
	ErrorCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrorCodeHTTPRateLimit 는 요청 제한 오류 코드다.
	ErrorCodeHTTPRateLimit ErrorCode = "HTTP_RATE_LIMIT"
	// ErrorCodeConfigurationRequired 는 API 키 설정이 필요할 때의 코드다.
	ErrorCodeConfigurationRequired ErrorCode = "CONFIGURATION_REQUIRED"
	// ErrorCodeEmptyInput 는 빈 댓글 번역 요청 코드다.
	ErrorCodeEmptyInput ErrorCode = "EMPTY_INPUT"
	// ErrorCodeTranslationInProgress 는 번역 중 재요청 코드다.
	ErrorCodeTranslationInProgress ErrorCode = "TRANSLATION_IN_PROGRESS"
	// ErrorCodeInvalidSelection 는 잘못된 번역 선택 코드다.
	ErrorCodeInvalidSelection ErrorCode = "INVALID_SELECTION"
	// ErrorCodeNoResult 는 번역 결과 없이 선택한 경우의 코드다.
	ErrorCodeNoResult ErrorCode = "NO_RESULT"
	// ErrorCodeLLMTimeout 는 LLM 타임아웃 코드다.
	ErrorCodeLLMTimeout ErrorCode = "LLM_TIMEOUT"
	// ErrorCodeSessionNotFound 는 세션 미존재 코드다.
	ErrorCodeSessionNotFound ErrorCode = "SESSION_NOT_FOUND"
	// ErrorCodeHistoryUnavailable 는 기록 저장소 오류 코드다.
	ErrorCodeHistoryUnavailable ErrorCode = "HISTORY_UNAVAILABLE"
	// ErrorCodeSpeechUnavailable 는 음성 입력 미지원 코드다.
	ErrorCodeSpeechUnavailable ErrorCode = "SPEECH_UNAVAILABLE"
	// ErrorCodeInvalidInput 는 입력 오류 코드다.
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrorCodeMissingField 는 필드 누락 코드다.
	ErrorCodeMissingField ErrorCode = "MISSING_FIELD"
)

// ErrorResponse 는 API 오류 응답 본문이다.
type ErrorResponse struct {
	ErrorCode string         `json:"error_code"`
	ErrorType string         `json:"error_type"`
	Message   string         `json:"message"`
	RequestID *string        `json:"request_id"`
	Details   map[string]any `json:"details"`
}

// Error 는 내부 표준 오류 타입이다.
type Error struct {
	Code    ErrorCode
	Status  int
	Type    string
	Message string
	Details map[string]any
}

// Error 는 오류 메시지를 반환한다.
func (e *Error) Error() string {
	return e.Message
}

// Response 는 오류를 HTTP 응답으로 변환한다.
func Response(err error, requestID string) (int, ErrorResponse) {
	apiErr := FromError(err)
	if apiErr == nil {
		apiErr = NewInternalError("unknown error")
	}

	var requestIDPtr *string
	if requestID != "" {
		requestIDPtr = &requestID
	}

	return apiErr.Status, ErrorResponse{
		ErrorCode: string(apiErr.Code),
		ErrorType: apiErr.Type,
		Message:   apiErr.Message,
		RequestID: requestIDPtr,
		Details:   apiErr.Details,
	}
}

// FromError 는 오류를 내부 오류 타입으로 변환한다.
// 댓글 세션 오류에는 화면에 그대로 띄울 안내 문구를 details.notice 로 붙인다.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, comment.ErrNotConfigured), errors.Is(err, gemini.ErrMissingAPIKey):
		return commentError(ErrorCodeConfigurationRequired, http.StatusConflict, "ConfigurationError",
			"Gemini API key is not configured", err, map[string]any{"action": "settings"})
	case errors.Is(err, comment.ErrEmptyInput):
		return commentError(ErrorCodeEmptyInput, http.StatusBadRequest, "EmptyInputError",
			"Korean comment text is empty", err, nil)
	case errors.Is(err, comment.ErrBusy):
		return commentError(ErrorCodeTranslationInProgress, http.StatusConflict, "TranslationInProgressError",
			"Translation already in progress", err, nil)
	case errors.Is(err, comment.ErrInvalidSelection):
		return commentError(ErrorCodeInvalidSelection, http.StatusBadRequest, "InvalidSelectionError",
			"Selected translation index is out of range", err, nil)
	case errors.Is(err, comment.ErrNoResult):
		return commentError(ErrorCodeNoResult, http.StatusConflict, "NoResultError",
			"No translation result to select from", err, nil)
	case errors.Is(err, session.ErrSessionNotFound):
		return NewSessionNotFound()
	case errors.Is(err, history.ErrStoreRequired):
		return NewHistoryUnavailable(err)
	case errors.Is(err, speech.ErrSpeechUnavailable):
		return NewSpeechUnavailable()
	case errors.Is(err, context.DeadlineExceeded):
		return NewLLMTimeoutError("LLM request timed out")
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return NewValidationError(err)
	}

	return NewInternalError(err.Error())
}

func commentError(code ErrorCode, status int, errType string, message string, err error, details map[string]any) *Error {
	notice := comment.UserNotice(err)
	if details == nil {
		details = make(map[string]any, 1)
	}
	details["notice"] = notice
	return &Error{
		Code:    code,
		Status:  status,
		Type:    errType,
		Message: message,
		Details: details,
	}
}

// NewInternalError 는 내부 오류를 생성한다.
func NewInternalError(message string) *Error {
	return &Error{
		Code:    ErrorCodeInternal,
		Status:  http.StatusInternalServerError,
		Type:    "InternalError",
		Message: message,
		Details: nil,
	}
}

// NewValidationError 는 검증 오류를 생성한다.
func NewValidationError(err error) *Error {
	return &Error{
		Code:    ErrorCodeValidation,
		Status:  http.StatusUnprocessableEntity,
		Type:    "ValidationError",
		Message: "Input validation failed",
		Details: validationDetails(err),
	}
}

// NewMissingField 는 누락 필드 오류를 생성한다.
func NewMissingField(field string) *Error {
	return &Error{
		Code:    ErrorCodeMissingField,
		Status:  http.StatusBadRequest,
		Type:    "MissingFieldError",
		Message: fmt.Sprintf("Field '%s' required", field),
		Details: map[string]any{"field": field},
	}
}

// NewInvalidInput 는 입력 오류를 생성한다.
func NewInvalidInput(message string) *Error {
	return &Error{
		Code:    ErrorCodeInvalidInput,
		Status:  http.StatusBadRequest,
		Type:    "InvalidInputError",
		Message: message,
		Details: nil,
	}
}

// NewUnauthorized 는 인증 오류를 생성한다.
func NewUnauthorized(details map[string]any) *Error {
	return &Error{
		Code:    ErrorCodeUnauthorized,
		Status:  http.StatusUnauthorized,
		Type:    "UnauthorizedError",
		Message: "Invalid API key",
		Details: details,
	}
}

// NewRateLimitExceeded 는 요청 제한 오류를 생성한다.
func NewRateLimitExceeded(details map[string]any) *Error {
	return &Error{
		Code:    ErrorCodeHTTPRateLimit,
		Status:  http.StatusTooManyRequests,
		Type:    "HTTPRateLimitExceededError",
		Message: "Rate limit exceeded",
		Details: details,
	}
}

// NewSessionNotFound 는 세션 미존재 오류를 생성한다.
func NewSessionNotFound() *Error {
	return &Error{
		Code:    ErrorCodeSessionNotFound,
		Status:  http.StatusNotFound,
		Type:    "SessionNotFoundError",
		Message: "Session not found or expired",
		Details: nil,
	}
}

// NewHistoryUnavailable 는 기록 저장소 오류를 생성한다.
func NewHistoryUnavailable(err error) *Error {
	return &Error{
		Code:    ErrorCodeHistoryUnavailable,
		Status:  http.StatusServiceUnavailable,
		Type:    "HistoryUnavailableError",
		Message: "History store unavailable",
		Details: map[string]any{"reason": err.Error()},
	}
}

// NewSpeechUnavailable 는 음성 입력 미지원 오류를 생성한다.
func NewSpeechUnavailable() *Error {
	return &Error{
		Code:    ErrorCodeSpeechUnavailable,
		Status:  http.StatusNotImplemented,
		Type:    "SpeechUnavailableError",
		Message: "Speech recognition is not available yet",
		Details: nil,
	}
}

// NewLLMTimeoutError 는 LLM 타임아웃 오류를 생성한다.
func NewLLMTimeoutError(message string) *Error {
	return &Error{
		Code:    ErrorCodeLLMTimeout,
		Status:  http.StatusGatewayTimeout,
		Type:    "LLMTimeoutError",
		Message: message,
		Details: nil,
	}
}

// FieldError 는 필드 오류 상세 정보다.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value"`
}

func validationDetails(err error) map[string]any {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make([]FieldError, 0, len(validationErrors))
		for _, validationErr := range validationErrors {
			fields = append(fields, FieldError{
				Field:   validationErr.Field(),
				Message: validationErr.Error(),
				Value:   validationErr.Value(),
			})
		}
		return map[string]any{"errors": fields}
	}

	return map[string]any{
		"errors": []FieldError{
			{
				Field:   "body",
				Message: err.Error(),
				Value:   nil,
			},
		},
	}
}
