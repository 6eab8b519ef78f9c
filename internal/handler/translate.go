package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/park285/grandtalk-server-go/internal/llm"
	"github.com/park285/grandtalk-server-go/internal/translation"
)

// TranslateRequest 는 단건 번역 요청 본문이다.
type TranslateRequest struct {
	Text string `json:"text" binding:"required"`
}

// TranslateResponse 는 단건 번역 응답이다. fallback 이면 고정 문구다.
type TranslateResponse struct {
	Variants []translation.Variant `json:"variants"`
	Outcome  string                `json:"outcome"`
	Fallback bool                  `json:"fallback"`
	Model    string                `json:"model,omitempty"`
	Usage    llm.Usage             `json:"usage"`
}

// TranslateHandler 는 세션 없이 한 번 번역하는 핸들러다.
type TranslateHandler struct {
	translator *translation.Translator
	logger     *slog.Logger
}

// NewTranslateHandler 는 번역 핸들러를 생성한다.
func NewTranslateHandler(translator *translation.Translator, logger *slog.Logger) *TranslateHandler {
	return &TranslateHandler{
		translator: translator,
		logger:     logger,
	}
}

// RegisterRoutes 는 번역 라우트를 등록한다.
func (h *TranslateHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/translate", h.handleTranslate)
}

func (h *TranslateHandler) handleTranslate(c *gin.Context) {
	var req TranslateRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.translator.TranslateDetailed(c.Request.Context(), req.Text)
	if err != nil {
		failRequest(c, h.logger, "translate", err)
		return
	}

	c.JSON(http.StatusOK, TranslateResponse{
		Variants: result.Variants,
		Outcome:  string(result.Outcome),
		Fallback: result.Outcome.IsFallback(),
		Model:    result.Model,
		Usage:    result.Usage,
	})
}
