// Package documents keeps the set of files staged for verification, one
// per document type.
package documents

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dharsanguruparan/CareerCopilot/internal/model"
)

// ErrIndexOutOfRange is returned by Remove for an index outside the list.
var ErrIndexOutOfRange = errors.New("document index out of range")

// CanonicalTypes are the slots offered by the default upload form. The
// collection itself accepts any type.
var CanonicalTypes = []model.DocumentType{
	model.DocMarksheet10th,
	model.DocMarksheet12th,
	model.DocDegree,
}

// Collection is an ordered set of documents keyed by type.
type Collection struct {
	mu      sync.RWMutex
	records []model.DocumentRecord
}

// NewCollection returns an empty Collection.
func NewCollection() *Collection {
	return &Collection{}
}

// AddOrReplace stores file under docType. An existing record of the same
// type is replaced in place, keeping its position.
func (c *Collection) AddOrReplace(docType model.DocumentType, file model.UploadedFile) {
	file.DocumentType = docType
	rec := model.DocumentRecord{Type: docType, File: file}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.records {
		if c.records[i].Type == docType {
			c.records[i] = rec
			return
		}
	}
	c.records = append(c.records, rec)
}

// Remove deletes the record at index in the current ordering.
func (c *Collection) Remove(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.records) {
		return fmt.Errorf("remove %d of %d: %w", index, len(c.records), ErrIndexOutOfRange)
	}
	c.records = append(c.records[:index], c.records[index+1:]...)
	return nil
}

// List returns a copy of the records in order.
func (c *Collection) List() []model.DocumentRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.DocumentRecord, len(c.records))
	copy(out, c.records)
	return out
}

// Len returns the number of records.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Reset empties the collection.
func (c *Collection) Reset() {
	c.mu.Lock()
	c.records = nil
	c.mu.Unlock()
}
