// Package processing runs export jobs on a pool of goroutines when no
// queue is configured.
package processing

import (
	"context"
	"errors"
	"log"
)

// ErrQueueFull is returned by Submit when the buffer is exhausted.
var ErrQueueFull = errors.New("export queue full")

// Runner performs one export.
type Runner interface {
	Run(ctx context.Context, artifactID string) error
}

// Job is a prepared export waiting for a worker.
type Job struct {
	ArtifactID string
}

// Processor feeds Jobs from a buffered channel to a fixed set of workers.
type Processor struct {
	runner  Runner
	queue   chan Job
	workers int
}

// New builds a Processor with queue capacity tied to worker count.
func New(runner Runner, workers int) *Processor {
	if workers <= 0 {
		workers = 1
	}
	return &Processor{
		runner:  runner,
		queue:   make(chan Job, workers*4),
		workers: workers,
	}
}

// Start launches the workers. They exit when ctx is cancelled.
func (p *Processor) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		go p.worker(ctx)
	}
}

// Submit queues a job without blocking.
func (p *Processor) Submit(job Job) error {
	select {
	case p.queue <- job:
		return nil
	default:
		log.Printf("export queue full, dropping job for %s", job.ArtifactID)
		return ErrQueueFull
	}
}

// Dispatch adapts Submit to export.Dispatch.
func (p *Processor) Dispatch(_ context.Context, artifactID string) error {
	return p.Submit(Job{ArtifactID: artifactID})
}

func (p *Processor) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-p.queue:
			// The runner records failures on the artifact itself.
			_ = p.runner.Run(ctx, job.ArtifactID)
		}
	}
}
