package store

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// ErrDocumentNotFound is returned by Driver.Merge when the document does not exist.
var ErrDocumentNotFound = errors.New("document not found")

type WriteOp int

const (
	WriteSet WriteOp = iota
	WriteDelete
)

// Write is one operation of an atomic batch.
type Write struct {
	Op         WriteOp
	Collection string
	ID         string
	Data       json.RawMessage
}

type Document struct {
	Collection string
	ID         string
	Data       json.RawMessage
	CreatedTs  int64
	UpdatedTs  int64
}

// Driver is a document database holding JSON documents in named collections.
type Driver interface {
	// Get returns nil without error when the document does not exist.
	Get(ctx context.Context, collection, id string) (*Document, error)
	// List returns the documents of a collection ordered by id.
	List(ctx context.Context, collection string) ([]*Document, error)
	// Set creates or replaces a document.
	Set(ctx context.Context, collection, id string, data json.RawMessage) error
	// Merge sets the given top-level fields of an existing document, a nil
	// value removes the field. Other fields are kept.
	Merge(ctx context.Context, collection, id string, fields map[string]any) error
	// Delete removes a document. Deleting a missing document is not an error.
	Delete(ctx context.Context, collection, id string) error
	// Batch applies all writes or none.
	Batch(ctx context.Context, writes []Write) error
	Ping(ctx context.Context) error
	Close() error
}

// MergeFields applies merge semantics to a JSON object. It is shared by the
// drivers that merge in process.
func MergeFields(data json.RawMessage, fields map[string]any) (json.RawMessage, error) {
	object := map[string]json.RawMessage{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &object); err != nil {
			return nil, errors.Wrap(err, "failed to decode document")
		}
	}
	for key, value := range fields {
		if value == nil {
			delete(object, key)
			continue
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to encode field %s", key)
		}
		object[key] = raw
	}
	return json.Marshal(object)
}
