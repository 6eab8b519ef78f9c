package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/park285/grandtalk-server-go/internal/session"
)

// CreateRequest 는 세션 생성 요청 본문이다. 본문 없이 보내도 된다.
type CreateRequest struct {
	Text string `json:"text"`
}

// InputRequest 는 입력 변경 요청 본문이다. 빈 문자열도 허용한다.
type InputRequest struct {
	Text *string `json:"text" binding:"required"`
}

// SelectRequest 는 번역 선택 요청 본문이다.
type SelectRequest struct {
	Index *int `json:"index" binding:"required,min=0"`
}

// CommentHandler 는 댓글 작성 세션 HTTP 핸들러다.
type CommentHandler struct {
	manager *session.Manager
	logger  *slog.Logger
}

// NewCommentHandler 는 댓글 작성 핸들러를 생성한다.
func NewCommentHandler(manager *session.Manager, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{
		manager: manager,
		logger:  logger,
	}
}

// RegisterRoutes 는 세션 라우트를 등록한다.
func (h *CommentHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/api/sessions")
	group.POST("", h.handleCreate)
	group.GET("/:id", h.handleGet)
	group.DELETE("/:id", h.handleDelete)
	group.PUT("/:id/input", h.handleInput)
	group.POST("/:id/submit", h.handleSubmit)
	group.POST("/:id/select", h.handleSelect)
	group.POST("/:id/reset", h.handleReset)
}

func (h *CommentHandler) handleCreate(c *gin.Context) {
	var req CreateRequest
	if !bindJSONAllowEmpty(c, &req) {
		return
	}
	view := h.manager.Create()
	if req.Text != "" {
		var err error
		if view, err = h.manager.SetInput(view.ID, req.Text); err != nil {
			failRequest(c, h.logger, "comment", err)
			return
		}
	}
	c.JSON(http.StatusCreated, view)
}

func (h *CommentHandler) handleGet(c *gin.Context) {
	id, ok := pathParam(c, "id")
	if !ok {
		return
	}
	view, err := h.manager.Get(id)
	h.respond(c, view, err)
}

func (h *CommentHandler) handleDelete(c *gin.Context) {
	id, ok := pathParam(c, "id")
	if !ok {
		return
	}
	if err := h.manager.Delete(id); err != nil {
		failRequest(c, h.logger, "comment", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "session deleted", "id": id})
}

func (h *CommentHandler) handleInput(c *gin.Context) {
	id, ok := pathParam(c, "id")
	if !ok {
		return
	}
	var req InputRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.manager.SetInput(id, *req.Text)
	h.respond(c, view, err)
}

func (h *CommentHandler) handleSubmit(c *gin.Context) {
	id, ok := pathParam(c, "id")
	if !ok {
		return
	}
	view, err := h.manager.Submit(c.Request.Context(), id)
	h.respond(c, view, err)
}

func (h *CommentHandler) handleSelect(c *gin.Context) {
	id, ok := pathParam(c, "id")
	if !ok {
		return
	}
	var req SelectRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.manager.Select(c.Request.Context(), id, *req.Index)
	h.respond(c, view, err)
}

func (h *CommentHandler) handleReset(c *gin.Context) {
	id, ok := pathParam(c, "id")
	if !ok {
		return
	}
	view, err := h.manager.Reset(id)
	h.respond(c, view, err)
}

func (h *CommentHandler) respond(c *gin.Context, view session.View, err error) {
	if err != nil {
		failRequest(c, h.logger, "comment", err)
		return
	}
	c.JSON(http.StatusOK, view)
}
