package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/park285/grandtalk-server-go/internal/config"
	"github.com/park285/grandtalk-server-go/internal/httperror"
	"github.com/park285/grandtalk-server-go/internal/metrics"
	"github.com/park285/grandtalk-server-go/internal/usage"
)

// UsageResponse 는 사용량 응답이다.
type UsageResponse struct {
	InputTokens     int64  `json:"input_tokens"`
	OutputTokens    int64  `json:"output_tokens"`
	TotalTokens     int64  `json:"total_tokens"`
	ReasoningTokens int64  `json:"reasoning_tokens"`
	Model           string `json:"model"`
}

// DailyUsageResponse: 일자별 사용량 응답입니다.
type DailyUsageResponse struct {
	UsageDate       string `json:"usage_date"`
	InputTokens     int64  `json:"input_tokens"`
	OutputTokens    int64  `json:"output_tokens"`
	TotalTokens     int64  `json:"total_tokens"`
	ReasoningTokens int64  `json:"reasoning_tokens"`
	RequestCount    int64  `json:"request_count"`
	Model           string `json:"model"`
}

// UsageListResponse: 사용량 목록 응답입니다.
type UsageListResponse struct {
	Usages            []DailyUsageResponse `json:"usages"`
	TotalInputTokens  int64                `json:"total_input_tokens"`
	TotalOutputTokens int64                `json:"total_output_tokens"`
	TotalTokens       int64                `json:"total_tokens"`
	TotalRequestCount int64                `json:"total_request_count"`
	Model             string               `json:"model"`
}

// UsageHandler: 모델 사용량/메트릭 API 핸들러입니다.
// 저장소가 없으면(nil) 일자별 조회는 500 을 반환하고 프로세스 누적치만 제공합니다.
type UsageHandler struct {
	cfg     *config.Config
	repo    usage.Store
	metrics *metrics.Store
	logger  *slog.Logger
}

// NewUsageHandler: 사용량 핸들러를 생성합니다.
func NewUsageHandler(cfg *config.Config, repo usage.Store, metricsStore *metrics.Store, logger *slog.Logger) *UsageHandler {
	return &UsageHandler{
		cfg:     cfg,
		repo:    repo,
		metrics: metricsStore,
		logger:  logger,
	}
}

// RegisterRoutes: 사용량 라우트를 등록합니다.
func (h *UsageHandler) RegisterRoutes(router *gin.Engine) {
	llmGroup := router.Group("/api/llm")
	llmGroup.GET("/usage", h.handleProcessUsage)
	llmGroup.GET("/usage/total", h.handleTotal)
	llmGroup.GET("/metrics", h.handleMetrics)

	group := router.Group("/api/usage")
	group.GET("/daily", h.handleDaily)
	group.GET("/recent", h.handleRecent)
	group.GET("/total", h.handleTotal)
}

func (h *UsageHandler) handleProcessUsage(c *gin.Context) {
	totals := h.metrics.UsageTotals()
	c.JSON(http.StatusOK, UsageResponse{
		InputTokens:     int64(totals.InputTokens),
		OutputTokens:    int64(totals.OutputTokens),
		TotalTokens:     int64(totals.TotalTokens),
		ReasoningTokens: int64(totals.ReasoningTokens),
		Model:           h.model(),
	})
}

func (h *UsageHandler) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.metrics.Snapshot())
}

func (h *UsageHandler) handleDaily(c *gin.Context) {
	if !h.requireRepo(c) {
		return
	}
	usageRow, err := h.repo.GetDailyUsage(c.Request.Context(), time.Time{})
	if err != nil {
		failRequest(c, h.logger, "usage", err)
		return
	}

	c.JSON(http.StatusOK, h.buildDailyResponse(usageRow))
}

func (h *UsageHandler) handleRecent(c *gin.Context) {
	if !h.requireRepo(c) {
		return
	}
	days, ok := parseDays(c, 7)
	if !ok {
		return
	}

	usages, err := h.repo.GetRecentUsage(c.Request.Context(), days)
	if err != nil {
		failRequest(c, h.logger, "usage", err)
		return
	}

	c.JSON(http.StatusOK, h.buildUsageListResponse(usages))
}

func (h *UsageHandler) handleTotal(c *gin.Context) {
	if !h.requireRepo(c) {
		return
	}
	days, ok := parseDays(c, 30)
	if !ok {
		return
	}

	usageRow, err := h.repo.GetTotalUsage(c.Request.Context(), days)
	if err != nil {
		failRequest(c, h.logger, "usage", err)
		return
	}

	c.JSON(http.StatusOK, UsageResponse{
		InputTokens:     usageRow.InputTokens,
		OutputTokens:    usageRow.OutputTokens,
		TotalTokens:     usageRow.TotalTokens(),
		ReasoningTokens: usageRow.ReasoningTokens,
		Model:           h.model(),
	})
}

func (h *UsageHandler) requireRepo(c *gin.Context) bool {
	if h.repo == nil {
		writeError(c, httperror.NewInternalError("usage repository not configured"))
		return false
	}
	return true
}

func (h *UsageHandler) model() string {
	if h.cfg == nil {
		return ""
	}
	return h.cfg.Gemini.Model
}

func (h *UsageHandler) buildDailyResponse(usageRow *usage.DailyUsage) DailyUsageResponse {
	if usageRow == nil {
		return DailyUsageResponse{
			UsageDate: time.Now().Format("2006-01-02"),
			Model:     h.model(),
		}
	}
	return h.toDailyResponse(*usageRow)
}

func (h *UsageHandler) toDailyResponse(row usage.DailyUsage) DailyUsageResponse {
	return DailyUsageResponse{
		UsageDate:       row.UsageDate.Format("2006-01-02"),
		InputTokens:     row.InputTokens,
		OutputTokens:    row.OutputTokens,
		TotalTokens:     row.TotalTokens(),
		ReasoningTokens: row.ReasoningTokens,
		RequestCount:    row.RequestCount,
		Model:           h.model(),
	}
}

func (h *UsageHandler) buildUsageListResponse(usages []usage.DailyUsage) UsageListResponse {
	response := UsageListResponse{
		Usages: make([]DailyUsageResponse, 0, len(usages)),
		Model:  h.model(),
	}

	for _, row := range usages {
		response.Usages = append(response.Usages, h.toDailyResponse(row))
		response.TotalInputTokens += row.InputTokens
		response.TotalOutputTokens += row.OutputTokens
		response.TotalTokens += row.TotalTokens()
		response.TotalRequestCount += row.RequestCount
	}

	return response
}

func parseDays(c *gin.Context, defaultDays int) (int, bool) {
	return parsePositiveQuery(c, "days", defaultDays)
}
