package main

import (
	"context"
	"log"
	"os"

	"github.com/park285/grandtalk-server-go/internal/di"
)

func main() {
	app, err := di.InitializeApp()
	if err != nil {
		log.Fatalf("failed to initialize app: %v", err)
	}

	if err := di.Run(context.Background(), app); err != nil {
		app.Logger.Error("http_server_failed", "err", err)
		os.Exit(1)
	}
}
