package di

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/park285/grandtalk-server-go/internal/config"
	"github.com/park285/grandtalk-server-go/internal/server"
)

const shutdownTimeout = 10 * time.Second

// Run 은 HTTP 서버와 세션 정리 작업을 실행하고 SIGINT/SIGTERM 에서 정상 종료한다.
func Run(ctx context.Context, app *App) error {
	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		app.Close(closeCtx)
	}()

	config.LogEnvStatus(app.Config, app.Logger)
	app.Logger.Info(
		"http_server_start",
		"addr", app.Server.Addr,
		"http2", app.Config.HTTP.HTTP2Enabled,
		"history_backend", app.History.Backend(),
		"translator_configured", app.Translator.Configured(),
	)

	g, gctx := errgroup.WithContext(signalCtx)
	g.Go(func() error {
		if err := app.Sessions.Run(gctx); err != nil {
			app.Logger.Error("session_janitor_failed", "err", err)
			return fmt.Errorf("session janitor failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := server.Serve(gctx, app.Server, shutdownTimeout); err != nil {
			return fmt.Errorf("http server serve failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("run server failed: %w", err)
	}
	app.Logger.Info("http_server_stopped")
	return nil
}
