package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/park285/grandtalk-server-go/internal/di"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "HTTP 서버를 실행합니다",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := di.InitializeApp()
		if err != nil {
			return fmt.Errorf("initialize app: %w", err)
		}
		return di.Run(cmd.Context(), app)
	},
}
