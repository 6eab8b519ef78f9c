package handler

import (
	"log/slog"
	"strings"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/park285/grandtalk-server-go/internal/config"
	"github.com/park285/grandtalk-server-go/internal/health"
	"github.com/park285/grandtalk-server-go/internal/middleware"
)

// Handlers 는 라우터에 등록할 API 핸들러 묶음이다.
type Handlers struct {
	Comment   *CommentHandler
	Translate *TranslateHandler
	History   *HistoryHandler
	Usage     *UsageHandler
	Speech    *SpeechHandler
}

// NewRouter 는 HTTP 라우터를 구성한다.
func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	checker *health.Checker,
	registry *prometheus.Registry,
	handlers Handlers,
) *gin.Engine {
	setGinMode(cfg.Logging.Level)

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		gin.Recovery(),
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})),
		middleware.APIKeyAuth(cfg),
		middleware.RateLimit(cfg),
	)

	RegisterHealthRoutes(router, cfg, checker, registry)
	handlers.Comment.RegisterRoutes(router)
	handlers.Translate.RegisterRoutes(router)
	handlers.History.RegisterRoutes(router)
	handlers.Usage.RegisterRoutes(router)
	handlers.Speech.RegisterRoutes(router)

	return router
}

func setGinMode(level string) {
	if strings.EqualFold(strings.TrimSpace(level), "debug") {
		gin.SetMode(gin.DebugMode)
		return
	}
	gin.SetMode(gin.ReleaseMode)
}
