package store

import "context"

// RawDocument exposes the stored document for tests.
func RawDocument(ctx context.Context, s *Store, collection, id string) (*Document, error) {
	return s.driver.Get(ctx, collection, id)
}
