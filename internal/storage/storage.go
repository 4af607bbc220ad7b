package storage // import "github.com/Davidnet/BookWise/internal/storage"

import (
	"context"
	"io"

	"github.com/pkg/errors"
)

var ErrObjectNotFound = errors.New("object not found")

// ObjectStore keeps binary objects under slash separated keys.
type ObjectStore interface {
	// Put stores the object and returns the URL it is served from. Writing
	// the same key again replaces the object and keeps the URL.
	Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	// Open returns the object, ErrObjectNotFound if there is none.
	Open(ctx context.Context, key string) (io.ReadSeekCloser, error)
}

// CoverKey is the object key of the cover image of a book.
func CoverKey(bookID string) string {
	return "covers/" + bookID + ".png"
}
