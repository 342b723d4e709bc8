package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/dharsanguruparan/CareerCopilot/internal/config"
	"github.com/dharsanguruparan/CareerCopilot/internal/export"
	"github.com/dharsanguruparan/CareerCopilot/internal/storage"
)

func TestBuildDefaultsToLocalBackends(t *testing.T) {
	cfg := &config.Config{
		APIBase:       "http://localhost:1",
		SigningSecret: []byte("s"),
		ExportDir:     t.TempDir(),
		ExportWorkers: 1,
	}
	s, err := Build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer s.Close()
	if _, ok := s.Exporter.Ledger().(*storage.MemoryStore); !ok {
		t.Fatalf("expected memory ledger, got %T", s.Exporter.Ledger())
	}
	if _, ok := s.Exporter.Sink().(export.FileSink); !ok {
		t.Fatalf("expected file sink, got %T", s.Exporter.Sink())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if _, err := s.BackgroundExports(ctx); err != nil {
		t.Fatalf("BackgroundExports: %v", err)
	}
}

func TestQueueNeedsDatabase(t *testing.T) {
	cfg := &config.Config{APIBase: "http://localhost:1", RedisAddr: "localhost:6379", ExportDir: t.TempDir()}
	s, err := Build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer s.Close()
	if _, err := s.BackgroundExports(context.Background()); !errors.Is(err, ErrQueueNeedsDatabase) {
		t.Fatalf("expected ErrQueueNeedsDatabase, got %v", err)
	}
}
