package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/park285/grandtalk-server-go/internal/comment"
	"github.com/park285/grandtalk-server-go/internal/translation"
)

var translateJSON bool

type translateOutput struct {
	Variants []translation.Variant `json:"variants"`
	Outcome  string                `json:"outcome"`
	Fallback bool                  `json:"fallback"`
	Model    string                `json:"model,omitempty"`
}

var translateCmd = &cobra.Command{
	Use:   "translate <한글 댓글>",
	Short: "한글 댓글을 세 가지 영어 문체로 번역합니다",
	Args:  cobra.MinimumNArgs(1),
	Example: `  grandtalk translate 수고했어
  grandtalk translate --json "오늘도 멋졌어"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		translator, err := newTranslator(cfg, logger)
		if err != nil {
			return err
		}

		result, err := translator.TranslateDetailed(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return noticeError(err)
		}
		if translateJSON {
			return writeJSON(cmd.OutOrStdout(), translateOutput{
				Variants: result.Variants,
				Outcome:  string(result.Outcome),
				Fallback: result.Outcome.IsFallback(),
				Model:    result.Model,
			})
		}
		printVariants(cmd.OutOrStdout(), result.Variants)
		if result.Outcome.IsFallback() {
			fmt.Fprintf(cmd.ErrOrStderr(), "(기본 문구로 대체됨: %s)\n", result.Outcome)
		}
		return nil
	},
}

func init() {
	translateCmd.Flags().BoolVar(&translateJSON, "json", false, "결과를 JSON 으로 출력")
}

func printVariants(w io.Writer, variants []translation.Variant) {
	for i, v := range variants {
		fmt.Fprintf(w, "%d. [%s] %s\n", i+1, v.Style.Label(), v.Text)
	}
}

func writeJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

// noticeError 는 사용자 안내 문구가 있는 오류를 그 문구로 바꾼다.
func noticeError(err error) error {
	switch {
	case errors.Is(err, comment.ErrNotConfigured), errors.Is(err, comment.ErrEmptyInput):
		return errors.New(comment.UserNotice(err).Message)
	default:
		return err
	}
}
