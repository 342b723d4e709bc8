// Package storage contains the in-memory artifact ledger used when no
// database is configured.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dharsanguruparan/CareerCopilot/internal/export"
	"github.com/dharsanguruparan/CareerCopilot/internal/model"
)

// MemoryStore keeps artifacts in a map guarded by an RWMutex. Status polls
// from the console are reads, so they share the read lock.
type MemoryStore struct {
	mu        sync.RWMutex
	artifacts map[string]*model.Artifact
}

// NewMemoryStore constructs a MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		artifacts: make(map[string]*model.Artifact),
	}
}

// Create inserts a queued artifact.
func (m *MemoryStore) Create(_ context.Context, artifact *model.Artifact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.artifacts[artifact.ID]; exists {
		return fmt.Errorf("artifact %s already exists", artifact.ID)
	}
	now := time.Now().UTC()
	artifact.Status = model.ArtifactQueued
	artifact.CreatedAt = now
	artifact.UpdatedAt = now
	stored := *artifact
	m.artifacts[artifact.ID] = &stored
	return nil
}

// Get returns a copy of the artifact so callers cannot mutate the ledger.
func (m *MemoryStore) Get(_ context.Context, id string) (*model.Artifact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.artifacts[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, export.ErrNotFound)
	}
	copy := *rec
	return &copy, nil
}

// List returns every artifact, newest first.
func (m *MemoryStore) List(_ context.Context) ([]model.Artifact, error) {
	m.mu.RLock()
	out := make([]model.Artifact, 0, len(m.artifacts))
	for _, rec := range m.artifacts {
		out = append(out, *rec)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// MarkRendering moves the artifact into rendering.
func (m *MemoryStore) MarkRendering(_ context.Context, id string) error {
	return m.update(id, func(rec *model.Artifact) {
		rec.Status = model.ArtifactRendering
		rec.ErrorMessage = ""
	})
}

// MarkCompleted stores where the PDF ended up.
func (m *MemoryStore) MarkCompleted(_ context.Context, id, location string) error {
	return m.update(id, func(rec *model.Artifact) {
		rec.Status = model.ArtifactCompleted
		rec.Location = location
		rec.ErrorMessage = ""
	})
}

// MarkFailed records the failure message.
func (m *MemoryStore) MarkFailed(_ context.Context, id, msg string) error {
	return m.update(id, func(rec *model.Artifact) {
		rec.Status = model.ArtifactFailed
		rec.ErrorMessage = msg
	})
}

func (m *MemoryStore) update(id string, fn func(*model.Artifact)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.artifacts[id]
	if !ok {
		return fmt.Errorf("%s: %w", id, export.ErrNotFound)
	}
	fn(rec)
	rec.UpdatedAt = time.Now().UTC()
	return nil
}
