package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	v1 "github.com/Davidnet/BookWise/internal/api/v1"
	"github.com/Davidnet/BookWise/internal/library"
	"github.com/Davidnet/BookWise/internal/storage"
	"github.com/Davidnet/BookWise/internal/store"
	"github.com/Davidnet/BookWise/internal/store/db"
	"github.com/Davidnet/BookWise/internal/version"
)

func newTestHandler(t *testing.T) (http.Handler, *storage.LocalStorage) {
	t.Helper()
	dir := t.TempDir()
	d, err := db.NewDB(filepath.Join(dir, "server_test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	if err := d.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}
	s := store.NewStore(d)
	objects := storage.NewLocalStorage(dir, "http://localhost:8080")
	api := v1.NewHandler(s, library.NewController(s), nil, "secret", time.Hour)
	return setupHandler(s, objects, api), objects
}

func get(handler http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthcheckAndVersion(t *testing.T) {
	handler, _ := newTestHandler(t)

	if w := get(handler, "/healthcheck"); w.Code != http.StatusOK || w.Body.String() != "OK" {
		t.Errorf("unexpected healthcheck %d %q", w.Code, w.Body)
	}
	if w := get(handler, "/version"); w.Body.String() != version.GetCurrentVersion() {
		t.Errorf("unexpected version %q", w.Body)
	}
}

func TestServeObject(t *testing.T) {
	handler, objects := newTestHandler(t)

	payload := []byte("\x89PNG fake cover")
	url, err := objects.Put(context.Background(), storage.CoverKey("b1"), bytes.NewReader(payload), "image/png")
	if err != nil {
		t.Fatal(err)
	}
	if url != "http://localhost:8080/objects/covers/b1.png" {
		t.Errorf("unexpected object url %q", url)
	}

	w := get(handler, "/objects/covers/b1.png")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("unexpected content type %q", ct)
	}
	if !bytes.Equal(w.Body.Bytes(), payload) {
		t.Errorf("unexpected body %q", w.Body)
	}

	if w := get(handler, "/objects/covers/missing.png"); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing object, got %d", w.Code)
	}
}

func TestAPIRequiresAuthentication(t *testing.T) {
	handler, _ := newTestHandler(t)
	if w := get(handler, "/api/v1/books"); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}
