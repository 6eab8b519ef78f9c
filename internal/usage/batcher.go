package usage

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/park285/grandtalk-server-go/internal/config"
	"github.com/park285/grandtalk-server-go/internal/llm"
)

const defaultFlushTimeout = 5 * time.Second

// batcher 는 번역 요청의 토큰 사용량을 모아 주기적으로 DB에 플러시한다.
// 실패한 델타는 다시 큐에 넣고 지수 백오프로 재시도한다.
type batcher struct {
	repo                     Store
	logger                   *slog.Logger
	flushInterval            time.Duration
	flushTimeout             time.Duration
	maxPendingRequests       int
	maxBackoff               time.Duration
	errorLogMaxInterval      time.Duration
	mu                       sync.Mutex
	pending                  map[time.Time]*Delta
	pendingRequestsTotal     int
	wakeup                   chan struct{}
	stopCh                   chan struct{}
	doneCh                   chan struct{}
	consecutiveFlushFailures int
	nextFlushAllowedAt       time.Time
	lastErrorLoggedAt        time.Time
	flushSuccessTotal        int
	flushFailureTotal        int
	flushRequeuedTotal       int
	flushDroppedTotal        int
}

// BatchStats 는 배치 플러셔 누적 통계다.
type BatchStats struct {
	PendingRequests int `json:"pending_requests"`
	FlushSuccess    int `json:"flush_success"`
	FlushFailure    int `json:"flush_failure"`
	FlushRequeued   int `json:"flush_requeued"`
	FlushDropped    int `json:"flush_dropped"`
}

func newBatcher(cfg config.DatabaseConfig, repo Store, logger *slog.Logger) *batcher {
	interval := time.Duration(cfg.UsageBatchFlushIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = time.Second
	}
	maxBackoff := time.Duration(cfg.UsageBatchMaxBackoffSeconds) * time.Second
	if maxBackoff <= 0 {
		maxBackoff = interval
	}
	maxPending := cfg.UsageBatchMaxPendingRequests
	if maxPending <= 0 {
		maxPending = 1
	}
	flushTimeout := defaultFlushTimeout
	if cfg.UsageBatchFlushTimeoutSeconds > 0 {
		flushTimeout = time.Duration(cfg.UsageBatchFlushTimeoutSeconds) * time.Second
	}
	if flushTimeout <= 0 {
		flushTimeout = interval
	}
	return &batcher{
		repo:                repo,
		logger:              logger,
		flushInterval:       interval,
		flushTimeout:        flushTimeout,
		maxPendingRequests:  maxPending,
		maxBackoff:          maxBackoff,
		errorLogMaxInterval: time.Duration(cfg.UsageBatchErrorLogMaxIntervalSeconds) * time.Second,
		pending:             make(map[time.Time]*Delta),
		wakeup:              make(chan struct{}, 1),
		stopCh:              make(chan struct{}),
		doneCh:              make(chan struct{}),
	}
}

func (b *batcher) start() {
	go b.loop()
}

func (b *batcher) stop() {
	close(b.stopCh)
	<-b.doneCh
}

func (b *batcher) add(u llm.Usage) {
	if u.InputTokens <= 0 && u.OutputTokens <= 0 {
		return
	}

	targetDate := todayDate()
	b.mu.Lock()
	delta := b.pending[targetDate]
	if delta == nil {
		delta = &Delta{}
		b.pending[targetDate] = delta
	}
	delta.Add(DeltaFrom(u))
	b.pendingRequestsTotal++
	shouldFlush := b.pendingRequestsTotal >= b.maxPendingRequests
	b.mu.Unlock()

	if shouldFlush {
		b.signal()
	}
}

func (b *batcher) loop() {
	ticker := time.NewTicker(b.flushInterval)
	defer func() {
		ticker.Stop()
		close(b.doneCh)
	}()

	for {
		select {
		case <-ticker.C:
			b.flush(false)
		case <-b.wakeup:
			b.flush(false)
		case <-b.stopCh:
			b.flush(true)
			return
		}
	}
}

func (b *batcher) signal() {
	select {
	case b.wakeup <- struct{}{}:
	default:
	}
}

func (b *batcher) stats() BatchStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return BatchStats{
		PendingRequests: b.pendingRequestsTotal,
		FlushSuccess:    b.flushSuccessTotal,
		FlushFailure:    b.flushFailureTotal,
		FlushRequeued:   b.flushRequeuedTotal,
		FlushDropped:    b.flushDroppedTotal,
	}
}

func (b *batcher) flush(isShutdown bool) {
	if b.shouldSkipFlush(isShutdown) {
		return
	}

	snapshot := b.takeSnapshot()
	if len(snapshot) == 0 {
		return
	}

	hadFailure, firstErr := b.applySnapshot(snapshot, isShutdown)
	if hadFailure {
		b.registerFailure(firstErr)
		return
	}

	b.resetFailures()
}

func (b *batcher) shouldSkipFlush(isShutdown bool) bool {
	if isShutdown {
		return false
	}
	if b.nextFlushAllowedAt.IsZero() {
		return false
	}
	return time.Now().Before(b.nextFlushAllowedAt)
}

func (b *batcher) takeSnapshot() map[time.Time]Delta {
	snapshot := make(map[time.Time]Delta)
	b.mu.Lock()
	for date, delta := range b.pending {
		snapshot[date] = *delta
	}
	b.pending = make(map[time.Time]*Delta)
	b.pendingRequestsTotal = 0
	b.mu.Unlock()
	return snapshot
}

func (b *batcher) applySnapshot(snapshot map[time.Time]Delta, isShutdown bool) (bool, error) {
	hadFailure := false
	var firstErr error
	for date, delta := range snapshot {
		ctx := context.Background()
		cancel := func() {}
		if b.flushTimeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, b.flushTimeout)
		}
		err := b.repo.RecordUsage(ctx, date, delta)
		cancel()
		if err != nil {
			hadFailure = true
			if firstErr == nil {
				firstErr = err
			}
			if isShutdown {
				b.mu.Lock()
				b.flushFailureTotal++
				b.flushDroppedTotal++
				b.mu.Unlock()
				continue
			}
			b.requeue(date, delta)
			continue
		}
		b.mu.Lock()
		b.flushSuccessTotal++
		b.mu.Unlock()
	}
	return hadFailure, firstErr
}

func (b *batcher) requeue(date time.Time, delta Delta) {
	b.mu.Lock()
	existing := b.pending[date]
	if existing == nil {
		existing = &Delta{}
		b.pending[date] = existing
	}
	existing.Add(delta)
	b.pendingRequestsTotal += int(delta.Requests)
	b.flushFailureTotal++
	b.flushRequeuedTotal++
	b.mu.Unlock()
}

func (b *batcher) registerFailure(firstErr error) {
	b.consecutiveFlushFailures++
	backoff := b.computeBackoff()
	b.nextFlushAllowedAt = time.Now().Add(backoff)

	if b.shouldLogFailure() {
		b.lastErrorLoggedAt = time.Now()
		if b.logger != nil {
			b.logger.Warn(
				"usage_db_batch_flush_failed",
				"failures", b.consecutiveFlushFailures,
				"backoff", backoff,
				"pending_requests", b.stats().PendingRequests,
				"err", firstErr,
			)
		}
	}
}

func (b *batcher) computeBackoff() time.Duration {
	backoff := b.flushInterval * time.Duration(1<<max(0, b.consecutiveFlushFailures-1))
	if backoff > b.maxBackoff {
		backoff = b.maxBackoff
	}
	if backoff <= 0 {
		backoff = b.flushInterval
	}
	return backoff
}

func (b *batcher) resetFailures() {
	b.consecutiveFlushFailures = 0
	b.nextFlushAllowedAt = time.Time{}
}

func (b *batcher) shouldLogFailure() bool {
	if b.consecutiveFlushFailures <= 0 {
		return false
	}
	if isPowerOfTwo(b.consecutiveFlushFailures) {
		return true
	}
	if b.errorLogMaxInterval <= 0 {
		return false
	}
	return time.Since(b.lastErrorLoggedAt) >= b.errorLogMaxInterval
}

func isPowerOfTwo(value int) bool {
	return value > 0 && (value&(value-1)) == 0
}
