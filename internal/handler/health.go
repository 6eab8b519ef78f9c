package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/park285/grandtalk-server-go/internal/config"
	"github.com/park285/grandtalk-server-go/internal/health"
)

// ModelConfigResponse: 모델 설정 응답입니다.
type ModelConfigResponse struct {
	Model           string  `json:"model"`
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"max_output_tokens"`
	TimeoutSeconds  int     `json:"timeout_seconds"`
	Configured      bool    `json:"configured"`
	HTTP2Enabled    bool    `json:"http2_enabled"`
	TransportMode   string  `json:"transport_mode"`
}

// RegisterHealthRoutes: 상태 확인과 Prometheus 라우트를 등록합니다.
func RegisterHealthRoutes(router *gin.Engine, cfg *config.Config, checker *health.Checker, registry *prometheus.Registry) {
	router.GET("/health", func(c *gin.Context) {
		// Liveness: 외부 의존성(Valkey 등) 상태로 인해 다운 판정되지 않도록 shallow로 유지합니다.
		c.JSON(http.StatusOK, checker.Collect(c.Request.Context(), false))
	})

	router.GET("/health/ready", func(c *gin.Context) {
		payload := checker.Collect(c.Request.Context(), true)
		status := http.StatusOK
		if payload.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, payload)
	})

	router.GET("/health/models", func(c *gin.Context) {
		transportMode := "h1"
		if cfg.HTTP.HTTP2Enabled {
			transportMode = "h2c"
		}
		c.JSON(http.StatusOK, ModelConfigResponse{
			Model:           cfg.Gemini.Model,
			Temperature:     cfg.Gemini.Temperature,
			MaxOutputTokens: cfg.Gemini.MaxOutputTokens,
			TimeoutSeconds:  cfg.Gemini.TimeoutSeconds,
			Configured:      cfg.Gemini.Configured(),
			HTTP2Enabled:    cfg.HTTP.HTTP2Enabled,
			TransportMode:   transportMode,
		})
	})

	var metricsHandler http.Handler = promhttp.Handler()
	if registry != nil {
		metricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	}
	router.GET("/metrics", gin.WrapH(metricsHandler))
}
