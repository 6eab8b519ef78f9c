package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/park285/grandtalk-server-go/internal/comment"
	"github.com/park285/grandtalk-server-go/internal/history"
)

const writeHelp = `한글 댓글을 입력하세요. 여러 줄을 입력할 수 있습니다.
번역 뒤에 입력하는 줄은 새 댓글로 시작합니다.
  /submit   번역하기
  1, 2, 3   번역 선택 후 복사
  /show     현재 상태 보기
  /reset    처음부터 다시
  /quit     종료`

var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "대화형으로 댓글을 작성하고 번역을 골라 복사합니다",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		translator, err := newTranslator(cfg, logger)
		if err != nil {
			return err
		}
		historyStore, err := history.NewStore(cfg, logger)
		if err != nil {
			return fmt.Errorf("history store: %w", err)
		}
		defer historyStore.Close()

		out := cmd.OutOrStdout()
		session := comment.New(translator, newTerminalClipboard(os.Stdout),
			comment.WithNotifier(printNotifier{out: out}),
			comment.WithHistory(historyStore),
			comment.WithLogger(logger),
		)
		defer session.Close()

		if !session.Configured() {
			fmt.Fprintln(out, comment.UserNotice(comment.ErrNotConfigured).Message)
		}
		fmt.Fprintln(out, writeHelp)
		return runWriteLoop(cmd.Context(), session, cmd.InOrStdin(), out)
	},
}

// runWriteLoop 는 입력이 끝나거나 /quit 이 들어올 때까지 명령을 처리한다.
func runWriteLoop(ctx context.Context, session *comment.Session, in io.Reader, out io.Writer) error {
	var lines []string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		command := strings.TrimSpace(line)

		switch {
		case command == "/quit":
			return nil
		case command == "/show":
			printState(out, session.Snapshot())
		case command == "/reset":
			if _, err := session.Reset(); err != nil {
				printNotice(out, err)
				continue
			}
			lines = lines[:0]
			fmt.Fprintln(out, "초기화했습니다.")
		case command == "/submit":
			fmt.Fprintln(out, "번역 중...")
			state, err := session.Submit(ctx)
			if err != nil {
				printNotice(out, err)
				continue
			}
			// 다음에 입력하는 줄은 새 댓글로 시작한다.
			lines = lines[:0]
			printVariants(out, state.Variants)
			fmt.Fprintln(out, "마음에 드는 번역 번호를 입력하세요.")
		case isSelection(command, session.Snapshot().Phase):
			index, _ := strconv.Atoi(command)
			if _, err := session.Select(ctx, index-1); err != nil {
				printNotice(out, err)
			}
		default:
			lines = append(lines, line)
			if _, err := session.SetInput(strings.Join(lines, "\n")); err != nil {
				printNotice(out, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

// isSelection 은 결과 화면에서 숫자 한 개만 입력했는지 확인한다.
// 결과가 없을 때의 숫자는 댓글 본문으로 취급한다.
func isSelection(command string, phase comment.Phase) bool {
	if phase != comment.PhaseResult {
		return false
	}
	_, err := strconv.Atoi(command)
	return err == nil
}

func printState(w io.Writer, state comment.State) {
	fmt.Fprintf(w, "상태: %s\n", state.Phase)
	if state.Input != "" {
		fmt.Fprintf(w, "입력:\n%s\n", state.Input)
	}
	if len(state.Variants) > 0 {
		printVariants(w, state.Variants)
	}
	if selected, ok := state.Selected(); ok {
		fmt.Fprintf(w, "선택: %s\n", selected.Text)
	}
}

func printNotice(w io.Writer, err error) {
	notice := comment.UserNotice(err)
	if !isKnownNotice(err) {
		fmt.Fprintf(w, "%s: %s (%v)\n", notice.Title, notice.Message, err)
		return
	}
	fmt.Fprintf(w, "%s: %s\n", notice.Title, notice.Message)
}

func isKnownNotice(err error) bool {
	for _, known := range []error{
		comment.ErrEmptyInput,
		comment.ErrNotConfigured,
		comment.ErrBusy,
		comment.ErrInvalidSelection,
		comment.ErrNoResult,
	} {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}
