package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/park285/grandtalk-server-go/internal/config"
	"github.com/park285/grandtalk-server-go/internal/gemini"
	"github.com/park285/grandtalk-server-go/internal/guard"
	"github.com/park285/grandtalk-server-go/internal/logging"
	"github.com/park285/grandtalk-server-go/internal/metrics"
	"github.com/park285/grandtalk-server-go/internal/translation"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "grandtalk",
	Short:         "한글 댓글을 손자 블로그용 영어 댓글로 번역합니다",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "구조화 로그를 표준 출력에 함께 출력")
	rootCmd.AddCommand(serveCmd, translateCmd, writeCmd, historyCmd)
}

// Execute 는 루트 명령을 실행한다.
func Execute() error {
	return rootCmd.Execute()
}

// loadRuntime 은 CLI 명령이 공유하는 설정과 로거를 준비한다.
// verbose 가 아니면 로그를 버려 출력이 번역 결과만 남도록 한다.
func loadRuntime() (*config.Config, *slog.Logger, error) {
	cfg, err := config.ProvideConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if !verbose {
		return cfg, logging.Discard(), nil
	}
	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logger, nil
}

func newTranslator(cfg *config.Config, logger *slog.Logger) (*translation.Translator, error) {
	metricsStore := metrics.NewStore()
	client, err := gemini.NewClient(cfg, metricsStore, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	inputGuard, err := guard.NewGuard(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("guard: %w", err)
	}
	prompts, err := translation.LoadPrompts()
	if err != nil {
		return nil, fmt.Errorf("translation prompts: %w", err)
	}
	return translation.NewTranslator(client, inputGuard, prompts, logger, metricsStore), nil
}
