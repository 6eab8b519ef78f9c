package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/park285/grandtalk-server-go/internal/speech"
)

// SpeechHandler 는 음성 입력 핸들러다. 인식기가 없으면 501 이다.
type SpeechHandler struct {
	recognizer speech.Recognizer
	logger     *slog.Logger
}

// NewSpeechHandler 는 음성 입력 핸들러를 생성한다.
func NewSpeechHandler(recognizer speech.Recognizer, logger *slog.Logger) *SpeechHandler {
	if recognizer == nil {
		recognizer = speech.Unavailable{}
	}
	return &SpeechHandler{recognizer: recognizer, logger: logger}
}

// RegisterRoutes 는 음성 입력 라우트를 등록한다.
func (h *SpeechHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/speech", h.handleRecognize)
}

func (h *SpeechHandler) handleRecognize(c *gin.Context) {
	text, err := h.recognizer.Recognize(c.Request.Context(), c.Request.Body, c.ContentType())
	if err != nil {
		failRequest(c, h.logger, "speech", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}
