package di

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/park285/grandtalk-server-go/internal/config"
	"github.com/park285/grandtalk-server-go/internal/history"
	"github.com/park285/grandtalk-server-go/internal/session"
	"github.com/park285/grandtalk-server-go/internal/telemetry"
	"github.com/park285/grandtalk-server-go/internal/translation"
	"github.com/park285/grandtalk-server-go/internal/usage"
)

// App: 애플리케이션 구성 요소를 묶는다.
type App struct {
	Server          *http.Server
	Logger          *slog.Logger
	Config          *config.Config
	Translator      *translation.Translator
	Sessions        *session.Manager
	History         *history.Store
	UsageRepository *usage.Repository
	UsageRecorder   *usage.Recorder
	Telemetry       *telemetry.Provider
}

// NewApp: App 인스턴스를 생성합니다.
func NewApp(
	server *http.Server,
	logger *slog.Logger,
	cfg *config.Config,
	translator *translation.Translator,
	sessions *session.Manager,
	historyStore *history.Store,
	usageRepository *usage.Repository,
	usageRecorder *usage.Recorder,
	telemetryProvider *telemetry.Provider,
) *App {
	return &App{
		Server:          server,
		Logger:          logger,
		Config:          cfg,
		Translator:      translator,
		Sessions:        sessions,
		History:         historyStore,
		UsageRepository: usageRepository,
		UsageRecorder:   usageRecorder,
		Telemetry:       telemetryProvider,
	}
}

// Close: 앱 리소스를 정리합니다.
// 세션을 먼저 닫아 남은 기록 쓰기가 저장소 종료 전에 끝나도록 한다.
func (a *App) Close(ctx context.Context) {
	if a.Sessions != nil {
		a.Sessions.Close()
	}
	if a.History != nil {
		a.History.Close()
	}
	if a.UsageRecorder != nil {
		a.UsageRecorder.Close()
	}
	if a.UsageRepository != nil {
		a.UsageRepository.Close()
	}
	if a.Telemetry != nil {
		if err := a.Telemetry.Shutdown(ctx); err != nil && a.Logger != nil {
			a.Logger.Warn("telemetry_shutdown_failed", "err", err)
		}
	}
}
