package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Davidnet/BookWise/internal/log"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// LocalStorage writes objects below Path and serves them from BaseURL.
type LocalStorage struct {
	// Path to the storage directory
	Path string
	// BaseURL the objects are served from, without trailing slash
	BaseURL string
}

func NewLocalStorage(dataDir, publicURL string) *LocalStorage {
	return &LocalStorage{
		Path:    filepath.Join(dataDir, "objects"),
		BaseURL: strings.TrimRight(publicURL, "/") + "/objects",
	}
}

func (s *LocalStorage) Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	filePath, err := s.filePath(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", errors.Wrap(err, "failed to create directories")
	}

	// Write to a temporary file first so readers never see a partial object.
	tmp, err := os.CreateTemp(filepath.Dir(filePath), ".upload-*")
	if err != nil {
		return "", errors.Wrap(err, "failed to create file")
	}
	defer os.Remove(tmp.Name())

	hash := sha256.New()
	if _, err := io.Copy(io.MultiWriter(tmp, hash), r); err != nil {
		tmp.Close()
		return "", errors.Wrap(err, "failed to write file")
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Wrap(err, "failed to close file")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), filePath); err != nil {
		return "", errors.Wrap(err, "failed to move file into place")
	}

	log.Debug("Stored object",
		zap.String("key", key),
		zap.String("content_type", contentType),
		zap.String("hash", hex.EncodeToString(hash.Sum(nil))))
	return s.BaseURL + "/" + key, nil
}

func (s *LocalStorage) Open(ctx context.Context, key string) (io.ReadSeekCloser, error) {
	filePath, err := s.filePath(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, errors.Wrap(err, "failed to open object")
	}
	return file, nil
}

// filePath maps a key to a path below the storage directory.
func (s *LocalStorage) filePath(key string) (string, error) {
	cleaned := path.Clean("/" + key)
	if key == "" || cleaned == "/" || cleaned != "/"+key {
		return "", errors.Errorf("invalid object key %q", key)
	}
	return filepath.Join(s.Path, filepath.FromSlash(strings.TrimPrefix(cleaned, "/"))), nil
}

var _ ObjectStore = (*LocalStorage)(nil)
