// Command worker renders queued resume exports.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/dharsanguruparan/CareerCopilot/internal/bootstrap"
	"github.com/dharsanguruparan/CareerCopilot/internal/config"
	"github.com/dharsanguruparan/CareerCopilot/internal/worker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.RedisAddr == "" || cfg.DatabaseURL == "" {
		log.Fatalf("worker needs CAREERCOPILOT_REDIS_ADDR and CAREERCOPILOT_DATABASE_URL")
	}

	stack, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer stack.Close()

	server := asynq.NewServer(stack.RedisOpt(), asynq.Config{
		Concurrency: cfg.QueueConcurrency,
	})
	processor := worker.NewProcessor(stack.Exporter)
	mux := processor.Handler()

	go func() {
		<-ctx.Done()
		server.Shutdown()
	}()

	log.Printf("export worker started (concurrency %d)", cfg.QueueConcurrency)
	if err := server.Run(mux); err != nil {
		log.Printf("worker stopped: %v", err)
		stack.Close()
		os.Exit(1)
	}
}
