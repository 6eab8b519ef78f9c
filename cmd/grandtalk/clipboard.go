package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/park285/grandtalk-server-go/internal/comment"
)

// terminalClipboard 는 OSC 52 제어 문자열로 터미널 클립보드에 쓴다.
// 터미널이 아니면 복사한 문장을 그대로 출력한다.
type terminalClipboard struct {
	out      io.Writer
	terminal bool
}

func newTerminalClipboard(out *os.File) *terminalClipboard {
	return &terminalClipboard{
		out:      out,
		terminal: isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd()),
	}
}

func (c *terminalClipboard) SetText(_ context.Context, text string) error {
	if !c.terminal {
		_, err := fmt.Fprintln(c.out, text)
		return err
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(text))
	if _, err := fmt.Fprintf(c.out, "\x1b]52;c;%s\a", encoded); err != nil {
		return fmt.Errorf("write osc52: %w", err)
	}
	return nil
}

// printNotifier 는 안내 문구를 한 줄로 출력한다.
type printNotifier struct {
	out io.Writer
}

func (n printNotifier) Notify(_ context.Context, notice comment.Notice) {
	fmt.Fprintf(n.out, "%s %s\n", notice.Title, notice.Message)
}

var (
	_ comment.Clipboard = (*terminalClipboard)(nil)
	_ comment.Notifier  = printNotifier{}
)
