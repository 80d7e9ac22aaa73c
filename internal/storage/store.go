// Package storage persists listing images and coordinates batched,
// concurrent uploads with per-file progress observation.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ObjectStore writes a named object from a stream and returns its public URL.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader) (string, error)
}

// DiskStore is an ObjectStore backed by a local directory served as static
// files under a public base URL.
type DiskStore struct {
	root    string
	baseURL string
}

// NewDiskStore creates a DiskStore rooted at dir. The directory is created
// if it does not exist. baseURL is the public prefix objects are served
// under, without a trailing slash.
func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir %q: %w", dir, err)
	}
	return &DiskStore{
		root:    dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Put streams r into root/key and returns the object's public URL.
// A failed write leaves no partial file behind.
func (s *DiskStore) Put(ctx context.Context, key string, r io.Reader) (string, error) {
	key = sanitizeKey(key)
	if key == "" {
		return "", fmt.Errorf("empty object key")
	}

	path := filepath.Join(s.root, key)
	f, err := os.CreateTemp(s.root, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}

	if _, err := io.Copy(f, contextReader{ctx, r}); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write object %q: %w", key, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close object %q: %w", key, err)
	}
	if err := os.Rename(f.Name(), path); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("store object %q: %w", key, err)
	}

	return s.baseURL + "/" + url.PathEscape(key), nil
}

// sanitizeKey strips any path components from a storage key so objects can
// never escape the store root.
func sanitizeKey(key string) string {
	key = filepath.Base(strings.TrimSpace(key))
	if key == "." || key == string(filepath.Separator) {
		return ""
	}
	return key
}

// contextReader aborts an in-flight copy once ctx is canceled, so a failed
// sibling upload stops the rest of its batch promptly.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}
