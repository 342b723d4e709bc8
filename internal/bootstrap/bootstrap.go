// Package bootstrap builds the dependency graph shared by the binaries from
// a Config.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dharsanguruparan/CareerCopilot/internal/client"
	"github.com/dharsanguruparan/CareerCopilot/internal/config"
	"github.com/dharsanguruparan/CareerCopilot/internal/database"
	"github.com/dharsanguruparan/CareerCopilot/internal/export"
	"github.com/dharsanguruparan/CareerCopilot/internal/processing"
	"github.com/dharsanguruparan/CareerCopilot/internal/queue"
	"github.com/dharsanguruparan/CareerCopilot/internal/repository"
	"github.com/dharsanguruparan/CareerCopilot/internal/s3storage"
	"github.com/dharsanguruparan/CareerCopilot/internal/signing"
	"github.com/dharsanguruparan/CareerCopilot/internal/storage"
)

// ErrQueueNeedsDatabase is returned when a queue is configured without a
// shared ledger for the worker to read.
var ErrQueueNeedsDatabase = errors.New("export queue requires CAREERCOPILOT_DATABASE_URL")

// Stack holds the long-lived dependencies.
type Stack struct {
	Config   *config.Config
	Registry *prometheus.Registry
	Client   *client.Client
	Exporter *export.Exporter
	Signer   *signing.Signer

	closers []func()
}

// Build connects the configured backends. Close releases them.
func Build(ctx context.Context, cfg *config.Config) (*Stack, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	s := &Stack{
		Config:   cfg,
		Registry: reg,
		Client:   client.New(cfg.APIBase, &http.Client{Timeout: cfg.HTTPTimeout}, client.NewMetrics(reg)),
		Signer:   signing.NewSigner(cfg.SigningSecret),
	}

	var ledger export.Ledger
	if cfg.DatabaseURL != "" {
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		s.closers = append(s.closers, pool.Close)
		if err := database.EnsureSchema(ctx, pool); err != nil {
			s.Close()
			return nil, err
		}
		ledger = repository.NewArtifactRepository(pool)
	} else {
		ledger = storage.NewMemoryStore()
	}

	var sink export.Sink
	if cfg.S3Endpoint != "" {
		store, err := s3storage.New(cfg)
		if err != nil {
			s.Close()
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			s.Close()
			return nil, err
		}
		sink = store
	} else {
		sink = export.FileSink{Dir: cfg.ExportDir}
	}

	renderer := export.ChromeRenderer{Timeout: cfg.RenderTimeout, ExecPath: cfg.ChromePath}
	s.Exporter = export.New(s.Client, renderer, sink, ledger)
	return s, nil
}

// InlineExports runs every export before Submit returns.
func (s *Stack) InlineExports() *export.Service {
	return export.NewService(s.Exporter, nil)
}

// BackgroundExports hands exports to the asynq queue when Redis is
// configured, otherwise to an in-process pool that lives until ctx ends.
func (s *Stack) BackgroundExports(ctx context.Context) (*export.Service, error) {
	if s.Config.RedisAddr == "" {
		pool := processing.New(s.Exporter, s.Config.ExportWorkers)
		pool.Start(ctx)
		return export.NewService(s.Exporter, pool.Dispatch), nil
	}
	if s.Config.DatabaseURL == "" {
		return nil, ErrQueueNeedsDatabase
	}
	qc := asynq.NewClient(s.RedisOpt())
	s.closers = append(s.closers, func() { _ = qc.Close() })
	log.Printf("exports queued on redis %s", s.Config.RedisAddr)
	return export.NewService(s.Exporter, queue.Dispatcher(qc)), nil
}

// RedisOpt is the asynq connection for the configured Redis.
func (s *Stack) RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     s.Config.RedisAddr,
		Password: s.Config.RedisPassword,
		DB:       s.Config.RedisDB,
	}
}

// Close releases connections in reverse order.
func (s *Stack) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}
