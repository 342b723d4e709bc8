// Command server runs the Career Copilot web console.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dharsanguruparan/CareerCopilot/internal/bootstrap"
	"github.com/dharsanguruparan/CareerCopilot/internal/config"
	"github.com/dharsanguruparan/CareerCopilot/internal/copilot"
	"github.com/dharsanguruparan/CareerCopilot/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stack, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer stack.Close()
	exports, err := stack.BackgroundExports(ctx)
	if err != nil {
		log.Fatalf("init exports: %v", err)
	}
	app := copilot.New(stack.Client, copilot.WithExporter(exports))
	srv, err := server.New(cfg, app, exports, stack.Signer, stack.Registry)
	if err != nil {
		log.Fatalf("init server: %v", err)
	}
	if err := srv.Run(ctx); err != nil {
		log.Printf("server stopped: %v", err)
		stack.Close()
		os.Exit(1)
	}
}
