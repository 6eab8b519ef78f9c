package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/park285/grandtalk-server-go/internal/config"
)

// LogFileName: 파일 로깅 시 사용하는 파일 이름입니다.
const LogFileName = "grandtalk.log"

// NewLogger: 설정에 맞는 로거를 만들고 기본 로거로 등록합니다.
// LogDir 이 비어 있으면 표준 출력만 사용합니다.
func NewLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	return newLoggerTo(os.Stdout, cfg)
}

func newLoggerTo(stdout io.Writer, cfg config.LoggingConfig) (*slog.Logger, error) {
	level := ParseLevel(cfg.Level)
	logDir := strings.TrimSpace(cfg.LogDir)
	if logDir == "" {
		logger := newTintLogger(stdout, level, false)
		slog.SetDefault(logger)
		return logger, nil
	}

	if cfg.MaxSizeMB <= 0 || cfg.MaxBackups <= 0 || cfg.MaxAgeDays <= 0 {
		return nil, fmt.Errorf(
			"invalid log config: size=%d backups=%d age_days=%d",
			cfg.MaxSizeMB,
			cfg.MaxBackups,
			cfg.MaxAgeDays,
		)
	}

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir failed: %w", err)
	}

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, LogFileName),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}

	logger := newTintLogger(io.MultiWriter(stdout, rotator), level, true)
	slog.SetDefault(logger)
	logger.Info("file_logging_enabled", "path", rotator.Filename)
	return logger, nil
}

// Component: 컴포넌트 이름이 붙은 하위 로거를 반환합니다.
func Component(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With("component", name)
}

// Discard: 출력을 버리는 로거입니다. 테스트와 CLI 조용한 모드에서 사용합니다.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTintLogger(writer io.Writer, level slog.Level, noColor bool) *slog.Logger {
	return slog.New(tint.NewHandler(writer, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
		AddSource:  true,
		NoColor:    noColor,
	}))
}

// ParseLevel: 문자열 로그 레벨을 slog.Level 로 변환합니다. 알 수 없는 값은 info 입니다.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
