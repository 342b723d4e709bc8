package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"github.com/dharsanguruparan/CareerCopilot/internal/queue"
)

// Runner performs one export; *export.Exporter satisfies it.
type Runner interface {
	Run(ctx context.Context, artifactID string) error
}

// Processor is plugged into the asynq worker loop.
type Processor struct {
	runner Runner
}

// NewProcessor constructs a worker processor.
func NewProcessor(runner Runner) *Processor {
	return &Processor{runner: runner}
}

// Handler registers the export job handler.
func (p *Processor) Handler() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.ExportResumeTask, p.handleExport)
	return mux
}

func (p *Processor) handleExport(ctx context.Context, task *asynq.Task) error {
	var payload queue.ExportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %w: %w", err, asynq.SkipRetry)
	}
	if payload.ArtifactID == "" {
		return fmt.Errorf("missing artifact id: %w", asynq.SkipRetry)
	}
	if err := p.runner.Run(ctx, payload.ArtifactID); err != nil {
		return err
	}
	log.Printf("artifact %s exported", payload.ArtifactID)
	return nil
}
