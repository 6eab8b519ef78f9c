package di

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/park285/grandtalk-server-go/internal/config"
	"github.com/park285/grandtalk-server-go/internal/logging"
	"github.com/park285/grandtalk-server-go/internal/metrics"
	"github.com/park285/grandtalk-server-go/internal/speech"
	"github.com/park285/grandtalk-server-go/internal/telemetry"
)

// ProvideLogger: 로거를 구성해 반환합니다.
func ProvideLogger(cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}

// ProvideTelemetry: 트레이싱 provider 를 초기화합니다. 비활성 설정이면 no-op 입니다.
func ProvideTelemetry(cfg *config.Config) (*telemetry.Provider, error) {
	provider, err := telemetry.NewProvider(context.Background(), cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}
	return provider, nil
}

// ProvideRegistry: /metrics 가 노출할 레지스트리입니다.
func ProvideRegistry(store *metrics.Store) *prometheus.Registry {
	return store.Registry()
}

// ProvideRecognizer: 음성 입력 인식기입니다. 현재 제공되는 엔진이 없다.
func ProvideRecognizer() speech.Recognizer {
	return speech.Unavailable{}
}
