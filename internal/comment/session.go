// Package comment 는 한글 댓글 입력부터 번역 선택, 복사까지의 화면 상태를 관리한다.
package comment

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/park285/grandtalk-server-go/internal/history"
	"github.com/park285/grandtalk-server-go/internal/textnorm"
	"github.com/park285/grandtalk-server-go/internal/translation"
)

const historyWriteTimeout = 5 * time.Second

// State 는 렌더링용 세션 스냅샷이다. 수정해도 세션에 영향이 없다.
type State struct {
	ID            string                `json:"id"`
	Input         string                `json:"input"`
	Phase         Phase                 `json:"phase"`
	Variants      []translation.Variant `json:"variants"`
	SelectedIndex *int                  `json:"selected_index,omitempty"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// Selected 는 선택된 번역을 반환한다.
func (s State) Selected() (translation.Variant, bool) {
	if s.SelectedIndex == nil || *s.SelectedIndex >= len(s.Variants) {
		return translation.Variant{}, false
	}
	return s.Variants[*s.SelectedIndex], true
}

// Option 은 세션 선택 구성 요소를 지정한다.
type Option func(*Session)

// WithID 는 세션 ID 를 지정한다.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// WithNotifier 는 안내 수신자를 지정한다.
func WithNotifier(n Notifier) Option {
	return func(s *Session) { s.notifier = n }
}

// WithHistory 는 번역 기록 저장소를 지정한다.
func WithHistory(h HistoryWriter) Option {
	return func(s *Session) { s.history = h }
}

// WithLogger 는 로거를 지정한다.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// Session 은 댓글 작성 화면 하나의 상태 기계다.
// 번역 호출 중에는 잠금을 잡지 않는다. Translating 단계 자체가 재진입을 막는다.
type Session struct {
	translator Translator
	clipboard  Clipboard
	notifier   Notifier
	history    HistoryWriter
	logger     *slog.Logger

	mu        sync.Mutex
	id        string
	input     string
	submitted string
	phase     Phase
	variants  []translation.Variant
	selected  int
	updatedAt time.Time
	closed    bool

	// pending.Add 는 mu 를 잡고 closed 가 false 일 때만 호출한다.
	pending sync.WaitGroup
}

// New 는 Idle 상태의 세션을 만든다.
func New(translator Translator, clipboard Clipboard, opts ...Option) *Session {
	s := &Session{
		translator: translator,
		clipboard:  clipboard,
		logger:     slog.Default(),
		phase:      PhaseIdle,
		selected:   -1,
		updatedAt:  time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session_id", s.id)
	return s
}

// ID 는 세션 ID 를 반환한다.
func (s *Session) ID() string {
	return s.id
}

// Configured 는 번역기가 준비됐는지 반환한다. 화면 진입 시 설정 안내 여부를 정한다.
func (s *Session) Configured() bool {
	return s.translator != nil && s.translator.Configured()
}

// Snapshot 은 현재 상태의 복사본을 반환한다.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() State {
	state := State{
		ID:        s.id,
		Input:     s.input,
		Phase:     s.phase,
		Variants:  append([]translation.Variant(nil), s.variants...),
		UpdatedAt: s.updatedAt,
	}
	if s.selected >= 0 {
		idx := s.selected
		state.SelectedIndex = &idx
	}
	return state
}

// SetInput 은 입력을 바꾼다. 결과 화면에서는 다음 번역 전까지 결과를 유지한다.
func (s *Session) SetInput(text string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseTranslating {
		return s.snapshotLocked(), ErrBusy
	}
	s.input = text
	if s.phase != PhaseResult {
		if isBlank(text) {
			s.transitionLocked(PhaseIdle)
		} else {
			s.transitionLocked(PhaseReady)
		}
	}
	s.touchLocked()
	return s.snapshotLocked(), nil
}

// Submit 은 현재 입력을 번역하고 결과 단계로 넘어간다. 번역이 끝날 때까지 블록한다.
// 요청 취소와 무관하게 번역 호출은 끝까지 진행된다.
func (s *Session) Submit(ctx context.Context) (State, error) {
	s.mu.Lock()
	if isBlank(s.input) {
		defer s.mu.Unlock()
		return s.snapshotLocked(), ErrEmptyInput
	}
	if !s.Configured() {
		defer s.mu.Unlock()
		return s.snapshotLocked(), ErrNotConfigured
	}
	if s.phase == PhaseTranslating {
		defer s.mu.Unlock()
		return s.snapshotLocked(), ErrBusy
	}

	text := s.input
	s.variants = nil
	s.selected = -1
	s.transitionLocked(PhaseTranslating)
	s.touchLocked()
	s.mu.Unlock()

	variants, err := s.translator.Translate(context.WithoutCancel(ctx), text)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.transitionLocked(PhaseReady)
		s.touchLocked()
		return s.snapshotLocked(), fmt.Errorf("translate: %w", err)
	}
	s.submitted = text
	s.variants = variants
	s.transitionLocked(PhaseResult)
	s.touchLocked()
	return s.snapshotLocked(), nil
}

// Select 는 i 번째 번역을 골라 클립보드에 복사하고 기록을 남긴다.
// 클립보드 쓰기에 실패하면 선택하지 않은 상태로 남는다.
func (s *Session) Select(ctx context.Context, index int) (State, error) {
	s.mu.Lock()
	if s.phase != PhaseResult {
		defer s.mu.Unlock()
		return s.snapshotLocked(), ErrNoResult
	}
	if index < 0 || index >= len(s.variants) {
		defer s.mu.Unlock()
		return s.snapshotLocked(), ErrInvalidSelection
	}

	chosen := s.variants[index]
	if err := s.clipboard.SetText(ctx, chosen.Text); err != nil {
		defer s.mu.Unlock()
		s.logger.Warn("comment_clipboard_failed", "index", index, "err", err)
		return s.snapshotLocked(), fmt.Errorf("copy to clipboard: %w", err)
	}
	s.selected = index
	s.touchLocked()
	korean := s.submitted
	state := s.snapshotLocked()
	record := s.history != nil && !s.closed
	if record {
		s.pending.Add(1)
	}
	s.mu.Unlock()

	s.logger.Info("comment_copied", "index", index, "style", chosen.Style.String())
	if s.notifier != nil {
		s.notifier.Notify(ctx, CopiedNotice)
	}
	if record {
		s.recordHistory(ctx, history.NewEntry(korean, chosen.Text))
	} else if s.history != nil {
		s.logger.Debug("comment_history_skipped_closed")
	}
	return state, nil
}

// Reset 은 입력과 결과를 비우고 Idle 로 돌아간다. 번역 중에는 거부한다.
func (s *Session) Reset() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseTranslating {
		return s.snapshotLocked(), ErrBusy
	}
	s.input = ""
	s.submitted = ""
	s.variants = nil
	s.selected = -1
	s.transitionLocked(PhaseIdle)
	s.touchLocked()
	return s.snapshotLocked(), nil
}

// Close 는 진행 중인 기록 저장이 끝날 때까지 기다린다.
// 닫힌 뒤의 선택은 복사만 하고 기록을 남기지 않는다.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.pending.Wait()
}

// recordHistory 는 호출 전에 pending.Add(1) 이 끝나 있어야 한다.
func (s *Session) recordHistory(ctx context.Context, entry history.Entry) {
	go func() {
		defer s.pending.Done()
		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), historyWriteTimeout)
		defer cancel()
		if err := s.history.Append(writeCtx, entry); err != nil {
			s.logger.Warn("comment_history_append_failed", "entry_id", entry.ID, "err", err)
		}
	}()
}

func (s *Session) transitionLocked(next Phase) {
	if s.phase == next {
		return
	}
	s.logger.Debug("comment_phase_changed", "from", string(s.phase), "to", string(next))
	s.phase = next
}

func (s *Session) touchLocked() {
	s.updatedAt = time.Now()
}

func isBlank(text string) bool {
	return textnorm.IsBlank(textnorm.Normalize(text))
}
