package store_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Davidnet/BookWise/internal/store"
)

func lower(s string) string {
	return strings.ToLower(s)
}

// rawFields reads the stored fields of a private book of alice.
func rawFields(t *testing.T, s *store.Store, id string) (map[string]json.RawMessage, error) {
	t.Helper()
	doc, err := store.RawDocument(context.Background(), s, store.UserBooksCollection("alice"), id)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(doc.Data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
