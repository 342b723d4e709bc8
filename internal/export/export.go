// Package export turns generated resume pages into stored PDF artifacts.
// An export is prepared as a queued ledger record and then run, either
// inline, on the in-process pool or by the queue worker.
package export

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/dharsanguruparan/CareerCopilot/internal/model"
)

// ErrNotFound is returned by ledgers for unknown artifact ids.
var ErrNotFound = errors.New("artifact not found")

// Fetcher downloads the generated resume markup from its pre-signed URL.
type Fetcher interface {
	FetchMarkup(ctx context.Context, url string) (string, error)
}

// Renderer prints markup to PDF.
type Renderer interface {
	RenderPDF(ctx context.Context, markup string) ([]byte, error)
}

// Sink stores rendered PDFs and reports where they went.
type Sink interface {
	Put(ctx context.Context, key string, data []byte) (string, error)
}

// Ledger records artifacts and their lifecycle.
type Ledger interface {
	Create(ctx context.Context, artifact *model.Artifact) error
	Get(ctx context.Context, id string) (*model.Artifact, error)
	List(ctx context.Context) ([]model.Artifact, error)
	MarkRendering(ctx context.Context, id string) error
	MarkCompleted(ctx context.Context, id, location string) error
	MarkFailed(ctx context.Context, id, msg string) error
}

// Exporter runs the fetch, render and store steps of an export.
type Exporter struct {
	fetch  Fetcher
	render Renderer
	sink   Sink
	ledger Ledger
}

// New wires an Exporter.
func New(fetch Fetcher, render Renderer, sink Sink, ledger Ledger) *Exporter {
	return &Exporter{fetch: fetch, render: render, sink: sink, ledger: ledger}
}

// Ledger returns the ledger artifacts are recorded in.
func (e *Exporter) Ledger() Ledger { return e.ledger }

// Sink returns the sink PDFs are written to.
func (e *Exporter) Sink() Sink { return e.sink }

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Prepare records a queued artifact for the resume page at url.
func (e *Exporter) Prepare(ctx context.Context, resumeID, url string) (*model.Artifact, error) {
	id := uuid.NewString()
	name := unsafeName.ReplaceAllString(resumeID, "_")
	if name == "" {
		name = id
	}
	artifact := &model.Artifact{
		ID:        id,
		Kind:      model.ArtifactKindResume,
		SourceID:  resumeID,
		SourceURL: url,
		FileName:  fmt.Sprintf("resume-%s.pdf", name),
		ObjectKey: fmt.Sprintf("resumes/%s.pdf", id),
	}
	if err := e.ledger.Create(ctx, artifact); err != nil {
		return nil, fmt.Errorf("record artifact: %w", err)
	}
	return artifact, nil
}

// Run performs a prepared export. Failures are recorded on the artifact
// before they are returned.
func (e *Exporter) Run(ctx context.Context, id string) error {
	artifact, err := e.ledger.Get(ctx, id)
	if err != nil {
		return err
	}
	started := time.Now()
	failure := func(err error) error {
		log.Printf("export %s failed: %v", id, err)
		_ = e.ledger.MarkFailed(ctx, id, err.Error())
		return err
	}
	if err := e.ledger.MarkRendering(ctx, id); err != nil {
		return failure(err)
	}
	markup, err := e.fetch.FetchMarkup(ctx, artifact.SourceURL)
	if err != nil {
		return failure(fmt.Errorf("fetch resume: %w", err))
	}
	data, err := e.render.RenderPDF(ctx, markup)
	if err != nil {
		return failure(fmt.Errorf("render pdf: %w", err))
	}
	location, err := e.sink.Put(ctx, artifact.ObjectKey, data)
	if err != nil {
		return failure(fmt.Errorf("store pdf: %w", err))
	}
	if err := e.ledger.MarkCompleted(ctx, id, location); err != nil {
		return failure(err)
	}
	log.Printf("export %s completed (%d bytes in %s)", id, len(data), time.Since(started).Round(time.Millisecond))
	return nil
}
