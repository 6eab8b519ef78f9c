package history

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/goccy/go-json"
	"github.com/valkey-io/valkey-go"

	"github.com/park285/grandtalk-server-go/internal/config"
)

// ErrStoreRequired 는 저장소가 필수인데 비활성화된 경우 반환된다.
var ErrStoreRequired = errors.New("history store required but disabled")

// listKey 는 번역 기록 리스트 키다. 최신 항목이 앞에 온다.
const listKey = "grandtalk:history"

type storeBackend int

const (
	storeBackendMemory storeBackend = iota
	storeBackendValkey
)

func (b storeBackend) String() string {
	if b == storeBackendValkey {
		return "valkey"
	}
	return "memory"
}

// Storage 는 번역 기록 저장소 인터페이스다.
type Storage interface {
	Append(ctx context.Context, entry Entry) error
	List(ctx context.Context, limit int) ([]Entry, error)
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
	Backend() string
	Close()
}

var _ Storage = (*Store)(nil)

// Store 는 Valkey 리스트 또는 메모리에 번역 기록을 저장한다.
type Store struct {
	client            valkey.Client
	backend           storeBackend
	maxEntries        int
	compressThreshold int
	logger            *slog.Logger

	mu      sync.RWMutex
	entries []Entry
}

// NewStore 는 설정에 맞는 기록 저장소를 생성한다.
// 비활성화된 경우 Required 가 아니면 메모리 저장소를 사용한다.
func NewStore(cfg *config.Config, logger *slog.Logger) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	storeCfg := cfg.HistoryStore

	if !storeCfg.Enabled {
		if storeCfg.Required {
			return nil, ErrStoreRequired
		}
		return NewMemoryStore(storeCfg.MaxEntries), nil
	}

	conn, err := parseStoreURL(storeCfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse history store url: %w", err)
	}

	var tlsConfig *tls.Config
	if conn.useTLS {
		host, _, splitErr := net.SplitHostPort(conn.addr)
		if splitErr != nil {
			return nil, fmt.Errorf("parse history store addr: %w", splitErr)
		}
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12, ServerName: host}
	}

	client, err := valkey.NewClient(valkey.ClientOption{
		TLSConfig:    tlsConfig,
		Username:     conn.username,
		Password:     conn.password,
		InitAddress:  []string{conn.addr},
		SelectDB:     conn.selectDB,
		DisableCache: storeCfg.DisableCache,
	})
	if err != nil {
		if storeCfg.Required {
			return nil, fmt.Errorf("connect to valkey: %w", err)
		}
		logger.Warn("history_store_fallback_memory", "addr", conn.addr, "err", err)
		return NewMemoryStore(storeCfg.MaxEntries), nil
	}

	return &Store{
		client:            client,
		backend:           storeBackendValkey,
		maxEntries:        storeCfg.MaxEntries,
		compressThreshold: storeCfg.CompressThresholdBytes,
		logger:            logger,
	}, nil
}

// Backend 는 사용 중인 저장소 종류를 반환한다.
func (s *Store) Backend() string {
	return s.backend.String()
}

// Close 는 Valkey 연결을 종료한다.
func (s *Store) Close() {
	if s == nil {
		return
	}
	if s.backend == storeBackendValkey && s.client != nil {
		s.client.Close()
	}
}

// Append 는 기록을 맨 앞에 추가하고 최대 개수를 넘는 오래된 기록을 잘라낸다.
func (s *Store) Append(ctx context.Context, entry Entry) error {
	entry = entry.withDefaults()
	if s.backend == storeBackendMemory {
		s.appendMemory(entry)
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}
	payload, err := encodePayload(data, s.compressThreshold)
	if err != nil {
		return fmt.Errorf("encode history entry: %w", err)
	}

	cmds := make([]valkey.Completed, 0, 2)
	cmds = append(cmds, s.client.B().Lpush().Key(listKey).Element(string(payload)).Build())
	if s.maxEntries > 0 {
		cmds = append(cmds, s.client.B().Ltrim().Key(listKey).Start(0).Stop(int64(s.maxEntries-1)).Build())
	}

	for i, result := range s.client.DoMulti(ctx, cmds...) {
		if err := result.Error(); err != nil {
			if i == 0 {
				return fmt.Errorf("append history: %w", err)
			}
			return fmt.Errorf("trim history: %w", err)
		}
	}
	return nil
}

// List 는 최신순으로 최대 limit 개를 반환한다. limit 이 0 이하이면 전부 반환한다.
// 해석할 수 없는 항목은 건너뛴다.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if s.backend == storeBackendMemory {
		return s.listMemory(limit), nil
	}

	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	cmd := s.client.B().Lrange().Key(listKey).Start(0).Stop(stop).Build()
	items, err := s.client.Do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		data, err := decodePayload([]byte(item))
		if err != nil {
			s.logger.Warn("history_entry_decode_failed", "err", err)
			continue
		}
		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			s.logger.Warn("history_entry_unmarshal_failed", "err", err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Clear 는 모든 기록을 삭제한다.
func (s *Store) Clear(ctx context.Context) error {
	if s.backend == storeBackendMemory {
		s.clearMemory()
		return nil
	}
	cmd := s.client.B().Del().Key(listKey).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// Count 는 저장된 기록 수를 반환한다.
func (s *Store) Count(ctx context.Context) (int, error) {
	if s.backend == storeBackendMemory {
		return s.countMemory(), nil
	}
	cmd := s.client.B().Llen().Key(listKey).Build()
	n, err := s.client.Do(ctx, cmd).AsInt64()
	if err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	return int(n), nil
}

// Ping 은 Valkey 연결을 확인한다. 메모리 저장소는 항상 성공한다.
func (s *Store) Ping(ctx context.Context) error {
	if s.backend == storeBackendMemory {
		return nil
	}
	cmd := s.client.B().Ping().Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping valkey: %w", err)
	}
	return nil
}
