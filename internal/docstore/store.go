// Package docstore is a small document-database abstraction: schemaless
// documents addressed by (collection, id), equality and prefix queries,
// creation-time ordering and atomic write batches.
package docstore

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when an addressed document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidWrite is returned for a malformed batch entry.
	ErrInvalidWrite = errors.New("invalid batch write")
)

// Document is the payload of a stored document. Values read back carry the
// backend's own encoding (e.g. time.Time may come back as an ISO string).
type Document map[string]any

// Snapshot is a document read from the store.
type Snapshot struct {
	ID        string
	Data      Document
	CreatedAt time.Time
}

type Operator string

const (
	OpEqual  Operator = "=="
	OpPrefix Operator = "prefix"
)

// Filter restricts a query on a top-level document field.
type Filter struct {
	Field string
	Op    Operator
	Value any
}

// Where matches documents whose field equals value.
func Where(field string, value any) Filter {
	return Filter{Field: field, Op: OpEqual, Value: value}
}

// HasPrefix matches documents whose string field starts with prefix.
func HasPrefix(field, prefix string) Filter {
	return Filter{Field: field, Op: OpPrefix, Value: prefix}
}

// Query selects documents of one collection. Results are ordered by
// creation time, oldest first unless Newest is set.
type Query struct {
	Filters []Filter
	Newest  bool
	Limit   int
	Offset  int
}

type WriteKind int

const (
	WriteSet WriteKind = iota
	WriteUpdate
	WriteDelete
)

// Write is one entry of an atomic batch.
type Write struct {
	Kind       WriteKind
	Collection string
	ID         string
	Data       Document
}

// SetWrite creates or replaces a document.
func SetWrite(collection, id string, doc Document) Write {
	return Write{Kind: WriteSet, Collection: collection, ID: id, Data: doc}
}

// UpdateWrite merges fields into an existing document.
func UpdateWrite(collection, id string, fields Document) Write {
	return Write{Kind: WriteUpdate, Collection: collection, ID: id, Data: fields}
}

// DeleteWrite removes a document.
func DeleteWrite(collection, id string) Write {
	return Write{Kind: WriteDelete, Collection: collection, ID: id}
}

// Store is implemented by every document backend.
type Store interface {
	// Set creates the document or replaces its payload.
	Set(ctx context.Context, collection, id string, doc Document) error
	// Get returns ErrNotFound when the document does not exist.
	Get(ctx context.Context, collection, id string) (*Snapshot, error)
	// Update merges top-level fields into an existing document and
	// returns ErrNotFound when it does not exist.
	Update(ctx context.Context, collection, id string, fields Document) error
	// Delete removes the document; deleting a missing document is not an error.
	Delete(ctx context.Context, collection, id string) error
	Find(ctx context.Context, collection string, q Query) ([]Snapshot, error)
	Count(ctx context.Context, collection string, filters ...Filter) (int64, error)
	// Commit applies all writes or none of them.
	Commit(ctx context.Context, writes ...Write) error
	// RunInTx runs fn in a transaction; store calls made with txCtx join it.
	// A document read with txCtx cannot be changed by another transaction
	// until fn returns: SQL backends lock the row, MongoDB retries fn on a
	// write conflict.
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
	Close(ctx context.Context) error
}

func validateWrite(w Write) error {
	if w.Collection == "" || w.ID == "" {
		return ErrInvalidWrite
	}
	switch w.Kind {
	case WriteSet, WriteUpdate, WriteDelete:
		return nil
	}
	return ErrInvalidWrite
}

// merge copies fields over a clone of doc.
func merge(doc Document, fields Document) Document {
	out := make(Document, len(doc)+len(fields))
	for k, v := range doc {
		out[k] = v
	}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// window applies offset/limit to an already ordered slice.
func window(snaps []Snapshot, offset, limit int) []Snapshot {
	if offset > 0 {
		if offset >= len(snaps) {
			return []Snapshot{}
		}
		snaps = snaps[offset:]
	}
	if limit > 0 && limit < len(snaps) {
		snaps = snaps[:limit]
	}
	return snaps
}
