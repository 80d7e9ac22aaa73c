package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/simp-lee/homemarket/internal/domain"
)

// memStore is an in-memory ObjectStore recording every Put.
type memStore struct {
	mu      sync.Mutex
	objects map[string]string
	puts    int

	failWhen func(key string) bool
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string]string)}
}

func (s *memStore) Put(_ context.Context, key string, r io.Reader) (string, error) {
	s.mu.Lock()
	s.puts++
	s.mu.Unlock()

	if s.failWhen != nil && s.failWhen(key) {
		return "", errors.New("store rejected object")
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.objects[key] = string(data)
	s.mu.Unlock()
	return "https://img.test/" + key, nil
}

func batchFiles(n int) []domain.ImageFile {
	files := make([]domain.ImageFile, n)
	for i := range files {
		name := fmt.Sprintf("photo-%d.jpg", i)
		content := fmt.Sprintf("content of %s", name)
		files[i] = domain.ImageFile{
			Name: name,
			Size: int64(len(content)),
			Open: func() (io.ReadCloser, error) {
				return io.NopCloser(strings.NewReader(content)), nil
			},
		}
	}
	return files
}

func TestUploadReturnsURLsInInputOrder(t *testing.T) {
	store := newMemStore()
	uploader := NewBatchUploader(store, func(ProgressEvent) {}, nil)

	files := batchFiles(4)
	urls, err := uploader.Upload(context.Background(), 7, files)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(urls) != 4 {
		t.Fatalf("expected 4 URLs, got %d", len(urls))
	}
	for i, url := range urls {
		wantPrefix := fmt.Sprintf("https://img.test/7-photo-%d.jpg-", i)
		if !strings.HasPrefix(url, wantPrefix) {
			t.Errorf("url %d: expected prefix %q, got %q", i, wantPrefix, url)
		}
	}
}

func TestUploadKeysAreCollisionFree(t *testing.T) {
	store := newMemStore()
	uploader := NewBatchUploader(store, func(ProgressEvent) {}, nil)

	// Two files with the same client name must still get distinct keys.
	files := batchFiles(2)
	files[1].Name = files[0].Name

	urls, err := uploader.Upload(context.Background(), 1, files)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if urls[0] == urls[1] {
		t.Errorf("expected distinct URLs for same-named files, got %q twice", urls[0])
	}
	if len(store.objects) != 2 {
		t.Errorf("expected 2 stored objects, got %d", len(store.objects))
	}
}

func TestUploadRejectsOversizedBatchBeforeTransfer(t *testing.T) {
	store := newMemStore()
	uploader := NewBatchUploader(store, func(ProgressEvent) {}, nil)

	_, err := uploader.Upload(context.Background(), 1, batchFiles(domain.MaxListingImages+1))
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !errors.Is(err, domain.ErrTooManyImages) {
		t.Errorf("expected ErrTooManyImages in chain, got %v", err)
	}
	if store.puts != 0 {
		t.Errorf("expected no transfers for oversized batch, got %d", store.puts)
	}
}

func TestUploadSingleFailureFailsWholeBatch(t *testing.T) {
	store := newMemStore()
	store.failWhen = func(key string) bool {
		return strings.Contains(key, "photo-2.jpg")
	}
	uploader := NewBatchUploader(store, func(ProgressEvent) {}, nil)

	urls, err := uploader.Upload(context.Background(), 1, batchFiles(4))
	if !domain.IsUploadFailed(err) {
		t.Fatalf("expected upload failure, got %v", err)
	}
	if urls != nil {
		t.Errorf("expected no partial URL list, got %v", urls)
	}
}

func TestUploadEmptyBatch(t *testing.T) {
	store := newMemStore()
	uploader := NewBatchUploader(store, func(ProgressEvent) {}, nil)

	urls, err := uploader.Upload(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(urls) != 0 {
		t.Errorf("expected empty URL list, got %v", urls)
	}
}

func TestUploadReportsProgress(t *testing.T) {
	store := newMemStore()

	var mu sync.Mutex
	var events []ProgressEvent
	uploader := NewBatchUploader(store, func(e ProgressEvent) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	}, nil)

	files := batchFiles(2)
	if _, err := uploader.Upload(context.Background(), 1, files); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	complete := make(map[int]ProgressEvent)
	running := make(map[int]bool)
	for _, e := range events {
		switch e.State {
		case StateRunning:
			running[e.Index] = true
		case StateComplete:
			complete[e.Index] = e
		default:
			t.Errorf("unknown progress state %q", e.State)
		}
	}

	for i, f := range files {
		if !running[i] {
			t.Errorf("file %d: no running progress observed", i)
		}
		done, ok := complete[i]
		if !ok {
			t.Errorf("file %d: no completion event", i)
			continue
		}
		if done.Written != f.Size || done.Total != f.Size {
			t.Errorf("file %d: completion reports %d/%d, want %d/%d",
				i, done.Written, done.Total, f.Size, f.Size)
		}
	}
}

func TestUploadOpenFailure(t *testing.T) {
	store := newMemStore()
	uploader := NewBatchUploader(store, func(ProgressEvent) {}, nil)

	files := batchFiles(2)
	files[1].Open = func() (io.ReadCloser, error) {
		return nil, errors.New("file vanished")
	}

	_, err := uploader.Upload(context.Background(), 1, files)
	if !domain.IsUploadFailed(err) {
		t.Fatalf("expected upload failure, got %v", err)
	}
}
