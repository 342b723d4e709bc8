package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// ExportResumeTask is scheduled each time a resume PDF is requested.
	ExportResumeTask = "resume:export"
)

// ExportPayload names the prepared artifact; the worker loads the rest
// from the ledger.
type ExportPayload struct {
	ArtifactID string `json:"artifact_id"`
}

// NewExportTask builds the task for an artifact.
func NewExportTask(payload ExportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return asynq.NewTask(ExportResumeTask, data), nil
}

// EnqueueExport enqueues a resume export job.
func EnqueueExport(ctx context.Context, client *asynq.Client, payload ExportPayload) error {
	task, err := NewExportTask(payload)
	if err != nil {
		return err
	}
	if _, err := client.EnqueueContext(ctx, task, asynq.MaxRetry(3)); err != nil {
		return fmt.Errorf("enqueue export task: %w", err)
	}
	return nil
}

// Dispatcher returns an export dispatch function backed by client.
func Dispatcher(client *asynq.Client) func(ctx context.Context, artifactID string) error {
	return func(ctx context.Context, artifactID string) error {
		return EnqueueExport(ctx, client, ExportPayload{ArtifactID: artifactID})
	}
}
