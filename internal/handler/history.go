package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/park285/grandtalk-server-go/internal/history"
	"github.com/park285/grandtalk-server-go/internal/httperror"
)

const defaultHistoryLimit = 50

// HistoryReader 는 번역 기록 조회/삭제 기능이다.
type HistoryReader interface {
	List(ctx context.Context, limit int) ([]history.Entry, error)
	Clear(ctx context.Context) error
}

// HistoryResponse 는 기록 목록 응답이다.
type HistoryResponse struct {
	Entries []history.Entry `json:"entries"`
	Count   int             `json:"count"`
}

// HistoryHandler 는 번역 기록 핸들러다.
type HistoryHandler struct {
	store  HistoryReader
	logger *slog.Logger
}

// NewHistoryHandler 는 기록 핸들러를 생성한다.
func NewHistoryHandler(store HistoryReader, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{
		store:  store,
		logger: logger,
	}
}

// RegisterRoutes 는 기록 라우트를 등록한다.
func (h *HistoryHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/api/history")
	group.GET("", h.handleList)
	group.DELETE("", h.handleClear)
}

func (h *HistoryHandler) handleList(c *gin.Context) {
	limit, ok := parsePositiveQuery(c, "limit", defaultHistoryLimit)
	if !ok {
		return
	}
	entries, err := h.store.List(c.Request.Context(), limit)
	if err != nil {
		failRequest(c, h.logger, "history", err)
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	c.JSON(http.StatusOK, HistoryResponse{Entries: entries, Count: len(entries)})
}

func (h *HistoryHandler) handleClear(c *gin.Context) {
	if err := h.store.Clear(c.Request.Context()); err != nil {
		failRequest(c, h.logger, "history", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "history cleared"})
}

func parsePositiveQuery(c *gin.Context, name string, defaultValue int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue, true
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		writeError(c, httperror.NewInvalidInput(name+" must be a positive integer"))
		return 0, false
	}
	return parsed, true
}
