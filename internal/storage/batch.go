package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/simp-lee/homemarket/internal/domain"
)

// Upload progress states. Progress is an observability signal only; batch
// control flow never depends on it.
const (
	StateRunning  = "running"
	StateComplete = "complete"
)

// ProgressEvent reports the transfer state of a single file in a batch.
type ProgressEvent struct {
	Index   int    // position of the file in the batch
	Key     string // storage key being written
	Written int64  // bytes transferred so far
	Total   int64  // total bytes, as reported by the client
	State   string // StateRunning or StateComplete
}

// ProgressFunc observes upload progress. It may be called concurrently from
// every upload in a batch and must not block.
type ProgressFunc func(ProgressEvent)

// BatchUploader uploads a listing's images concurrently with all-or-nothing
// semantics: the result is either one URL per input file, in input order, or
// a single failure for the whole batch.
//
// Objects already written when a sibling upload fails are not deleted; the
// orphaned-image cleanup is a known gap inherited from the product's
// accepted failure policy.
type BatchUploader struct {
	store      ObjectStore
	onProgress ProgressFunc
	logger     *slog.Logger
}

// NewBatchUploader creates a BatchUploader over the given store. onProgress
// may be nil, in which case progress is logged at debug level.
func NewBatchUploader(store ObjectStore, onProgress ProgressFunc, logger *slog.Logger) *BatchUploader {
	if logger == nil {
		logger = slog.Default()
	}
	u := &BatchUploader{store: store, logger: logger}
	if onProgress != nil {
		u.onProgress = onProgress
	} else {
		u.onProgress = u.logProgress
	}
	return u
}

// Upload transfers every file concurrently and returns their public URLs in
// the same order as the input files (index 0 is the listing's cover image).
//
// Batches larger than domain.MaxListingImages are rejected before any
// transfer starts. If any single upload fails, the whole batch fails and no
// partial URL list is returned; the shared context is canceled so sibling
// transfers stop early.
func (u *BatchUploader) Upload(ctx context.Context, ownerID uint, files []domain.ImageFile) ([]string, error) {
	if len(files) > domain.MaxListingImages {
		return nil, domain.NewAppError(domain.CodeValidation,
			fmt.Sprintf("at most %d images are allowed", domain.MaxListingImages),
			domain.ErrTooManyImages)
	}

	urls := make([]string, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			url, err := u.uploadOne(ctx, ownerID, i, f)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, domain.NewAppError(domain.CodeUploadFailed, "image upload failed", err)
	}
	return urls, nil
}

// uploadOne streams a single file into the store under a collision-free key.
func (u *BatchUploader) uploadOne(ctx context.Context, ownerID uint, index int, f domain.ImageFile) (string, error) {
	key := fmt.Sprintf("%d-%s-%s", ownerID, f.Name, uuid.NewString())

	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open %q: %w", f.Name, err)
	}
	defer rc.Close()

	pr := &progressReader{
		r: rc,
		report: func(written int64) {
			u.onProgress(ProgressEvent{
				Index:   index,
				Key:     key,
				Written: written,
				Total:   f.Size,
				State:   StateRunning,
			})
		},
	}

	url, err := u.store.Put(ctx, key, pr)
	if err != nil {
		return "", fmt.Errorf("upload %q: %w", f.Name, err)
	}

	u.onProgress(ProgressEvent{
		Index:   index,
		Key:     key,
		Written: pr.written,
		Total:   f.Size,
		State:   StateComplete,
	})
	return url, nil
}

func (u *BatchUploader) logProgress(e ProgressEvent) {
	u.logger.Debug("image upload progress",
		slog.Int("index", e.Index),
		slog.String("key", e.Key),
		slog.Int64("written", e.Written),
		slog.Int64("total", e.Total),
		slog.String("state", e.State),
	)
}

// progressReader counts bytes as they pass through and reports after every
// read.
type progressReader struct {
	r       io.Reader
	written int64
	report  func(written int64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.written += int64(n)
		p.report(p.written)
	}
	return n, err
}
