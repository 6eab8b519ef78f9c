// Package session 은 HTTP 클라이언트마다 댓글 작성 세션을 하나씩 유지한다.
package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/park285/grandtalk-server-go/internal/cache"
	"github.com/park285/grandtalk-server-go/internal/comment"
	"github.com/park285/grandtalk-server-go/internal/config"
)

// ErrSessionNotFound 는 없거나 만료된 세션을 조회했을 때 반환된다.
var ErrSessionNotFound = errors.New("session not found")

const pruneInterval = time.Minute

// View 세션 응답
type View struct {
	comment.State
	Configured bool            `json:"configured"`
	CopiedText string          `json:"copied_text,omitempty"`
	Notice     *comment.Notice `json:"notice,omitempty"`
}

type slot struct {
	session   *comment.Session
	clipboard *clipboardBuffer
}

// Manager 세션 관리자. 마지막 사용 후 TTL 이 지나거나 개수 제한을 넘으면 세션을 닫는다.
type Manager struct {
	translator comment.Translator
	history    comment.HistoryWriter
	logger     *slog.Logger
	slots      *cache.TTLCache[string, *slot]
}

// NewManager 세션 관리자 생성. historyWriter 는 nil 이어도 된다.
func NewManager(
	cfg *config.Config,
	translator comment.Translator,
	historyWriter comment.HistoryWriter,
	logger *slog.Logger,
) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	maxSessions := 0
	ttl := time.Duration(0)
	if cfg != nil {
		maxSessions = cfg.Session.MaxSessions
		ttl = time.Duration(cfg.Session.SessionTTLMinutes) * time.Minute
	}

	m := &Manager{
		translator: translator,
		history:    historyWriter,
		logger:     logger,
	}
	m.slots = cache.NewTTLCache[string, *slot](maxSessions, ttl,
		cache.WithEvict(func(id string, s *slot, reason cache.EvictReason) {
			m.logger.Debug("session_closed", "session_id", id, "reason", string(reason))
			go s.session.Close()
		}),
	)
	return m
}

// Create 세션 생성
func (m *Manager) Create() View {
	id := uuid.NewString()
	buffer := &clipboardBuffer{}
	opts := []comment.Option{
		comment.WithID(id),
		comment.WithNotifier(buffer),
		comment.WithLogger(m.logger),
	}
	if m.history != nil {
		opts = append(opts, comment.WithHistory(m.history))
	}
	s := &slot{
		session:   comment.New(m.translator, buffer, opts...),
		clipboard: buffer,
	}
	m.slots.Set(id, s)
	m.logger.Debug("session_created", "session_id", id)
	return m.view(s)
}

// Get 세션 상태 조회
func (m *Manager) Get(id string) (View, error) {
	s, err := m.lookup(id)
	if err != nil {
		return View{}, err
	}
	return m.view(s), nil
}

// SetInput 입력 변경
func (m *Manager) SetInput(id string, text string) (View, error) {
	return m.apply(id, func(s *slot) error {
		_, err := s.session.SetInput(text)
		return err
	})
}

// Submit 번역 요청. 번역이 끝날 때까지 블록한다.
func (m *Manager) Submit(ctx context.Context, id string) (View, error) {
	return m.apply(id, func(s *slot) error {
		_, err := s.session.Submit(ctx)
		return err
	})
}

// Select 번역 선택 후 복사
func (m *Manager) Select(ctx context.Context, id string, index int) (View, error) {
	return m.apply(id, func(s *slot) error {
		_, err := s.session.Select(ctx, index)
		return err
	})
}

// Reset 세션 초기화
func (m *Manager) Reset(id string) (View, error) {
	return m.apply(id, func(s *slot) error {
		if _, err := s.session.Reset(); err != nil {
			return err
		}
		s.clipboard.clear()
		return nil
	})
}

// Delete 세션 삭제
func (m *Manager) Delete(id string) error {
	if !m.slots.Delete(id) {
		return ErrSessionNotFound
	}
	return nil
}

// Count 현재 세션 수
func (m *Manager) Count() int {
	return m.slots.Len()
}

// Run 만료 세션을 주기적으로 정리한다. ctx 가 끝나면 남은 세션을 모두 닫는다.
func (m *Manager) Run(ctx context.Context) error {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.Close()
			return nil
		case <-ticker.C:
			if n := m.slots.Prune(); n > 0 {
				m.logger.Debug("sessions_pruned", "count", n)
			}
		}
	}
}

// Close 모든 세션의 기록 저장이 끝날 때까지 기다린다.
func (m *Manager) Close() {
	for _, s := range m.slots.Values() {
		s.session.Close()
	}
}

func (m *Manager) apply(id string, fn func(*slot) error) (View, error) {
	s, err := m.lookup(id)
	if err != nil {
		return View{}, err
	}
	err = fn(s)
	return m.view(s), err
}

func (m *Manager) lookup(id string) (*slot, error) {
	s, ok := m.slots.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *Manager) view(s *slot) View {
	copied, notice := s.clipboard.take()
	return View{
		State:      s.session.Snapshot(),
		Configured: s.session.Configured(),
		CopiedText: copied,
		Notice:     notice,
	}
}
