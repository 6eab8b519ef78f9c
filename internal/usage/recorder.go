package usage

import (
	"context"
	"log/slog"
	"time"

	"github.com/park285/grandtalk-server-go/internal/config"
	"github.com/park285/grandtalk-server-go/internal/llm"
)

// Recorder 는 번역 요청별 토큰 사용량을 저장하거나 배치로 적재한다.
type Recorder struct {
	repo    Store
	batcher *batcher
	logger  *slog.Logger
}

// NewRecorder 는 설정에 따라 배치 사용 여부를 결정해 Recorder를 생성한다.
// 사용량 저장이 꺼져 있으면 아무 것도 기록하지 않는 Recorder 를 반환한다.
func NewRecorder(cfg *config.Config, repo Store, logger *slog.Logger) *Recorder {
	if cfg != nil && !cfg.Database.UsageEnabled {
		return &Recorder{logger: logger}
	}
	recorder := &Recorder{
		repo:   repo,
		logger: logger,
	}

	if cfg != nil && cfg.Database.UsageBatchEnabled && repo != nil {
		recorder.batcher = newBatcher(cfg.Database, repo, logger)
		recorder.batcher.start()
		if logger != nil {
			logger.Info(
				"usage_db_batch_enabled",
				"flush_interval_seconds", cfg.Database.UsageBatchFlushIntervalSeconds,
				"flush_timeout_seconds", cfg.Database.UsageBatchFlushTimeoutSeconds,
				"max_pending_requests", cfg.Database.UsageBatchMaxPendingRequests,
				"max_backoff_seconds", cfg.Database.UsageBatchMaxBackoffSeconds,
			)
		}
	}

	return recorder
}

// Record 는 1회 요청의 토큰 사용량을 기록한다. 실패는 로그만 남긴다.
func (r *Recorder) Record(ctx context.Context, u llm.Usage) {
	if r == nil || r.repo == nil {
		return
	}
	if u.InputTokens <= 0 && u.OutputTokens <= 0 {
		return
	}

	if r.batcher != nil {
		r.batcher.add(u)
		return
	}

	if err := r.repo.RecordUsage(ctx, time.Time{}, DeltaFrom(u)); err != nil && r.logger != nil {
		r.logger.Warn("usage_db_save_failed", "err", err)
	}
}

// BatchStats 는 배치 플러셔 통계를 반환한다. 배치가 꺼져 있으면 false 다.
func (r *Recorder) BatchStats() (BatchStats, bool) {
	if r == nil || r.batcher == nil {
		return BatchStats{}, false
	}
	return r.batcher.stats(), true
}

// Close 는 배치 플러셔를 중지하고 남은 사용량을 플러시한다.
func (r *Recorder) Close() {
	if r == nil || r.batcher == nil {
		return
	}
	r.batcher.stop()
}
