// Package store is the document-store collaborator: named collections of
// schemaless documents with get, merge-set, append and ordered query.
package store

import (
	"context"
	"errors"
	"regexp"
)

// CreatedAtField is stamped by Add on every appended document.
const CreatedAtField = "createdAt"

var (
	ErrNotFound     = errors.New("document not found")
	ErrInvalidField = errors.New("invalid field name")

	fieldName = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

// Document is one stored record. Values are plain Go values: strings, numbers,
// bools, time.Time, []any and map[string]any.
type Document map[string]any

// Snapshot is a document read back together with its id.
type Snapshot struct {
	ID   string
	Data Document
}

// Query orders a collection read. An empty OrderBy keeps store order.
type Query struct {
	OrderBy    string
	Descending bool
	Limit      int
}

// DocumentStore is implemented by the memory, postgres and mongo backends.
type DocumentStore interface {
	// Get returns ErrNotFound when the document does not exist.
	Get(ctx context.Context, collection, id string) (Document, error)
	// Set writes data under id. With merge the given fields are combined
	// with the stored ones, otherwise the document is replaced.
	Set(ctx context.Context, collection, id string, data Document, merge bool) error
	// Add appends a new document with a generated id and a createdAt stamp.
	Add(ctx context.Context, collection string, data Document) (string, error)
	Query(ctx context.Context, collection string, q Query) ([]Snapshot, error)
	Close(ctx context.Context) error
}

// ValidField reports whether name may be used as an order-by field.
func ValidField(name string) bool {
	return fieldName.MatchString(name)
}

func (d Document) clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
