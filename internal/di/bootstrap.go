//go:build !wireinject

package di

import (
	"fmt"

	"github.com/park285/grandtalk-server-go/internal/config"
	"github.com/park285/grandtalk-server-go/internal/gemini"
	"github.com/park285/grandtalk-server-go/internal/guard"
	"github.com/park285/grandtalk-server-go/internal/handler"
	"github.com/park285/grandtalk-server-go/internal/health"
	"github.com/park285/grandtalk-server-go/internal/history"
	"github.com/park285/grandtalk-server-go/internal/metrics"
	"github.com/park285/grandtalk-server-go/internal/server"
	"github.com/park285/grandtalk-server-go/internal/session"
	"github.com/park285/grandtalk-server-go/internal/translation"
	"github.com/park285/grandtalk-server-go/internal/usage"
)

// InitializeApp 은 애플리케이션 의존성을 초기화하고 App 인스턴스를 반환한다.
func InitializeApp() (*App, error) {
	cfg, err := config.ProvideConfig()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	telemetryProvider, err := ProvideTelemetry(cfg)
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}

	metricsStore := metrics.NewStore()

	usageRepository := usage.NewRepository(cfg, logger)
	usageRecorder := usage.NewRecorder(cfg, usageRepository, logger)

	geminiClient, err := gemini.NewClient(cfg, metricsStore, usageRecorder)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	injectionGuard, err := guard.NewGuard(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("guard: %w", err)
	}

	prompts, err := translation.LoadPrompts()
	if err != nil {
		return nil, fmt.Errorf("translation prompts: %w", err)
	}
	translator := translation.NewTranslator(geminiClient, injectionGuard, prompts, logger, metricsStore)

	historyStore, err := history.NewStore(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("history store: %w", err)
	}

	sessionManager := session.NewManager(cfg, translator, historyStore, logger)
	checker := health.NewChecker(cfg, historyStore, sessionManager)

	handlers := handler.Handlers{
		Comment:   handler.NewCommentHandler(sessionManager, logger),
		Translate: handler.NewTranslateHandler(translator, logger),
		History:   handler.NewHistoryHandler(historyStore, logger),
		Usage:     handler.NewUsageHandler(cfg, usageRepository, metricsStore, logger),
		Speech:    handler.NewSpeechHandler(ProvideRecognizer(), logger),
	}

	router := handler.NewRouter(cfg, logger, checker, ProvideRegistry(metricsStore), handlers)
	httpServer := server.NewHTTPServer(cfg, router)

	return NewApp(
		httpServer,
		logger,
		cfg,
		translator,
		sessionManager,
		historyStore,
		usageRepository,
		usageRecorder,
		telemetryProvider,
	), nil
}
