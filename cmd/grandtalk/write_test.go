package main

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/park285/grandtalk-server-go/internal/comment"
	"github.com/park285/grandtalk-server-go/internal/history"
	"github.com/park285/grandtalk-server-go/internal/logging"
	"github.com/park285/grandtalk-server-go/internal/translation"
)

type stubTranslator struct {
	configured bool
	inputs     []string
}

func (s *stubTranslator) Configured() bool { return s.configured }

func (s *stubTranslator) Translate(_ context.Context, koreanText string) ([]translation.Variant, error) {
	s.inputs = append(s.inputs, koreanText)
	return translation.Fallback(), nil
}

type recordingClipboard struct {
	mu    sync.Mutex
	texts []string
}

func (c *recordingClipboard) SetText(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.texts = append(c.texts, text)
	return nil
}

func TestRunWriteLoopSubmitAndSelect(t *testing.T) {
	translator := &stubTranslator{configured: true}
	clipboard := &recordingClipboard{}
	store := history.NewMemoryStore(10)
	var out bytes.Buffer

	session := comment.New(translator, clipboard,
		comment.WithNotifier(printNotifier{out: &out}),
		comment.WithHistory(store),
		comment.WithLogger(logging.Discard()),
	)

	input := strings.Join([]string{"오늘도", "수고했어", "/submit", "2", "/quit", "무시됨"}, "\n")
	if err := runWriteLoop(context.Background(), session, strings.NewReader(input), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	session.Close()

	if len(translator.inputs) != 1 || translator.inputs[0] != "오늘도\n수고했어" {
		t.Fatalf("expected multi-line input to be submitted once, got %q", translator.inputs)
	}
	if len(clipboard.texts) != 1 || clipboard.texts[0] != "I'm so proud of you! ❤️" {
		t.Fatalf("expected warm variant copied, got %q", clipboard.texts)
	}
	if !strings.Contains(out.String(), comment.CopiedNotice.Title) {
		t.Fatalf("expected copied notice in output: %s", out.String())
	}
	entries, err := store.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(entries) != 1 || entries[0].Korean != "오늘도\n수고했어" {
		t.Fatalf("expected one history entry, got %+v", entries)
	}
}

func TestRunWriteLoopStartsNewCommentAfterSubmit(t *testing.T) {
	translator := &stubTranslator{configured: true}
	clipboard := &recordingClipboard{}
	var out bytes.Buffer
	session := comment.New(translator, clipboard, comment.WithLogger(logging.Discard()))
	defer session.Close()

	input := strings.Join([]string{"생일 축하해", "/submit", "1", "잘 자", "/submit", "3"}, "\n")
	if err := runWriteLoop(context.Background(), session, strings.NewReader(input), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(translator.inputs) != 2 || translator.inputs[0] != "생일 축하해" || translator.inputs[1] != "잘 자" {
		t.Fatalf("expected two separate comments, got %q", translator.inputs)
	}
	if len(clipboard.texts) != 2 || clipboard.texts[1] != "That's awesome! 🎉" {
		t.Fatalf("unexpected copies: %q", clipboard.texts)
	}
}

func TestRunWriteLoopNumberBeforeResultIsText(t *testing.T) {
	translator := &stubTranslator{configured: true}
	clipboard := &recordingClipboard{}
	var out bytes.Buffer
	session := comment.New(translator, clipboard, comment.WithLogger(logging.Discard()))
	defer session.Close()

	if err := runWriteLoop(context.Background(), session, strings.NewReader("3\n"), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := session.Snapshot(); got.Input != "3" || got.Phase != comment.PhaseReady {
		t.Fatalf("expected number kept as comment text, got %+v", got)
	}
	if len(clipboard.texts) != 0 {
		t.Fatalf("nothing should be copied before a result exists")
	}
}

func TestRunWriteLoopNotices(t *testing.T) {
	translator := &stubTranslator{configured: false}
	var out bytes.Buffer
	session := comment.New(translator, &recordingClipboard{}, comment.WithLogger(logging.Discard()))
	defer session.Close()

	if err := runWriteLoop(context.Background(), session, strings.NewReader("/submit\n안녕\n/submit\n"), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "먼저 한글 댓글을 입력해주세요") {
		t.Fatalf("expected empty input notice: %s", text)
	}
	if !strings.Contains(text, "Gemini API 키를 먼저 설정해주세요.") {
		t.Fatalf("expected settings notice: %s", text)
	}
	if len(translator.inputs) != 0 {
		t.Fatalf("unconfigured translator must not be called")
	}
}
