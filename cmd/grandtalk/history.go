package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/park285/grandtalk-server-go/internal/history"
)

var (
	historyLimit int
	historyClear bool
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "최근에 고른 번역 기록을 보여줍니다",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		store, err := history.NewStore(cfg, logger)
		if err != nil {
			return fmt.Errorf("history store: %w", err)
		}
		defer store.Close()

		out := cmd.OutOrStdout()
		if historyClear {
			if err := store.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear history: %w", err)
			}
			fmt.Fprintln(out, "기록을 모두 지웠습니다.")
			return nil
		}

		entries, err := store.List(cmd.Context(), historyLimit)
		if err != nil {
			return fmt.Errorf("list history: %w", err)
		}
		if historyJSON {
			return writeJSON(out, entries)
		}
		if len(entries) == 0 {
			fmt.Fprintln(out, "기록이 없습니다.")
			return nil
		}
		for _, entry := range entries {
			fmt.Fprintf(out, "[%s] %s\n  → %s\n", entry.Timestamp.Local().Format("2006-01-02 15:04"), entry.Korean, entry.English)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "최대 출력 개수")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "기록을 모두 삭제")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "결과를 JSON 으로 출력")
}
