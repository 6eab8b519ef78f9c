//go:build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/park285/grandtalk-server-go/internal/comment"
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

func InitializeApp() (*App, error) {
	wire.Build(
		config.ProvideConfig,
		ProvideLogger,
		ProvideTelemetry,
		metrics.NewStore,
		ProvideRegistry,
		usage.NewRepository,
		wire.Bind(new(usage.Store), new(*usage.Repository)),
		usage.NewRecorder,
		gemini.NewClient,
		wire.Bind(new(gemini.Generator), new(*gemini.Client)),
		guard.NewGuard,
		wire.Bind(new(translation.InputGuard), new(*guard.PromptGuard)),
		translation.LoadPrompts,
		translation.NewTranslator,
		wire.Bind(new(comment.Translator), new(*translation.Translator)),
		history.NewStore,
		wire.Bind(new(comment.HistoryWriter), new(*history.Store)),
		wire.Bind(new(handler.HistoryReader), new(*history.Store)),
		wire.Bind(new(health.HistoryProbe), new(*history.Store)),
		session.NewManager,
		wire.Bind(new(health.SessionCounter), new(*session.Manager)),
		health.NewChecker,
		ProvideRecognizer,
		handler.NewCommentHandler,
		handler.NewTranslateHandler,
		handler.NewHistoryHandler,
		handler.NewUsageHandler,
		handler.NewSpeechHandler,
		wire.Struct(new(handler.Handlers), "*"),
		handler.NewRouter,
		server.NewHTTPServer,
		NewApp,
	)
	return nil, nil
}
