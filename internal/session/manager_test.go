package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/park285/grandtalk-server-go/internal/comment"
	"github.com/park285/grandtalk-server-go/internal/config"
	"github.com/park285/grandtalk-server-go/internal/history"
	"github.com/park285/grandtalk-server-go/internal/logging"
	"github.com/park285/grandtalk-server-go/internal/translation"
)

type stubTranslator struct {
	configured bool
}

func (s stubTranslator) Configured() bool { return s.configured }

func (stubTranslator) Translate(context.Context, string) ([]translation.Variant, error) {
	return []translation.Variant{
		{Style: translation.Friendly, Text: "Nice work!"},
		{Style: translation.Warm, Text: "So proud of you."},
		{Style: translation.Fun, Text: "Woohoo!"},
	}, nil
}

func newTestManager(t *testing.T, maxSessions int, store *history.Store) *Manager {
	t.Helper()
	cfg := &config.Config{Session: config.SessionConfig{MaxSessions: maxSessions, SessionTTLMinutes: 5}}
	var writer comment.HistoryWriter
	if store != nil {
		writer = store
	}
	return NewManager(cfg, stubTranslator{configured: true}, writer, logging.Discard())
}

func TestManagerLifecycle(t *testing.T) {
	store := history.NewMemoryStore(10)
	m := newTestManager(t, 10, store)
	ctx := context.Background()

	view := m.Create()
	if view.ID == "" || view.Phase != comment.PhaseIdle || !view.Configured {
		t.Fatalf("unexpected new session: %+v", view)
	}
	if m.Count() != 1 {
		t.Fatalf("expected 1 session, got %d", m.Count())
	}

	if view, _ = m.SetInput(view.ID, "수고했어"); view.Phase != comment.PhaseReady {
		t.Fatalf("expected ready, got %s", view.Phase)
	}
	view, err := m.Submit(ctx, view.ID)
	if err != nil || view.Phase != comment.PhaseResult || len(view.Variants) != 3 {
		t.Fatalf("unexpected submit result: %+v (%v)", view, err)
	}

	view, err = m.Select(ctx, view.ID, 1)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if view.CopiedText != "So proud of you." {
		t.Fatalf("unexpected copied text: %q", view.CopiedText)
	}
	if view.Notice == nil || *view.Notice != comment.CopiedNotice {
		t.Fatalf("expected copied notice, got %+v", view.Notice)
	}

	again, err := m.Get(view.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if again.Notice != nil || again.CopiedText != "So proud of you." {
		t.Fatalf("notice must be delivered once, clipboard kept: %+v", again)
	}

	view, err = m.Reset(view.ID)
	if err != nil || view.Phase != comment.PhaseIdle || view.CopiedText != "" {
		t.Fatalf("unexpected reset: %+v (%v)", view, err)
	}

	m.Close()
	if count, _ := store.Count(ctx); count != 1 {
		t.Fatalf("expected one history entry, got %d", count)
	}

	if err := m.Delete(view.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := m.Get(view.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if err := m.Delete(view.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("second delete: expected ErrSessionNotFound, got %v", err)
	}
}

func TestManagerPropagatesSessionErrors(t *testing.T) {
	m := newTestManager(t, 10, nil)
	view := m.Create()

	view, err := m.Submit(context.Background(), view.ID)
	if !errors.Is(err, comment.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if view.Phase != comment.PhaseIdle {
		t.Fatalf("state must still be returned on error: %+v", view)
	}
	if _, err := m.Select(context.Background(), view.ID, 0); !errors.Is(err, comment.ErrNoResult) {
		t.Fatalf("expected ErrNoResult, got %v", err)
	}
}

func TestManagerNotConfigured(t *testing.T) {
	cfg := &config.Config{Session: config.SessionConfig{MaxSessions: 2, SessionTTLMinutes: 5}}
	m := NewManager(cfg, stubTranslator{configured: false}, nil, logging.Discard())
	view := m.Create()
	if view.Configured {
		t.Fatalf("expected unconfigured session")
	}
	_, _ = m.SetInput(view.ID, "고마워")
	if _, err := m.Submit(context.Background(), view.ID); !errors.Is(err, comment.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestManagerEvictsOldestSession(t *testing.T) {
	m := newTestManager(t, 2, nil)
	first := m.Create()
	m.Create()
	m.Create()

	if m.Count() != 2 {
		t.Fatalf("expected capacity 2, got %d", m.Count())
	}
	if _, err := m.Get(first.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected oldest session evicted, got %v", err)
	}
}

func TestManagerRunStopsOnCancel(t *testing.T) {
	m := newTestManager(t, 2, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not stop")
	}
}
