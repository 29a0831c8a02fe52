// Package upload implements the chunked upload engine: it splits a payload of
// known size into contiguous chunks, dispatches the appends through a bounded
// worker pool, and finalizes the file with a single flush.
//
// Payloads at or below the single-upload threshold skip the pool and are sent
// as one append followed by one flush. Empty payloads create the file and stop
// there; the service rejects zero-length appends, so none is ever attempted.
package upload

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/streaming"

	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/dltypes"
	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/errors"
	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/internal/dfsapi"
	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/internal/pool"
	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/internal/validation"
)

// Uploader handles chunked file uploads through a path operations client.
type Uploader struct {
	client dfsapi.Client
}

// New creates a new Uploader instance.
func New(client dfsapi.Client) *Uploader {
	return &Uploader{
		client: client,
	}
}

// Config holds the resolved parameters of one upload.
type Config struct {
	// ChunkSize is the append size in bytes; zero derives it from the payload
	// size and the service's block budget
	ChunkSize int64

	// Concurrency is the maximum number of appends in flight
	Concurrency int

	// SingleUploadThreshold is the payload size at or below which the upload
	// is one append plus one flush, with no worker pool
	SingleUploadThreshold int64

	// ContentType is stored on the committed file at flush time
	ContentType string

	// Metadata, Permissions and Umask are applied when the file is created
	Metadata    map[string]string
	Permissions string
	Umask       string

	// Close emits a file-close event with the final flush
	Close bool

	// Progress, if set, receives the cumulative byte count after each chunk
	Progress dltypes.TransferProgressFunc
}

// Upload uploads size bytes read from body. The body must support concurrent
// range reads so chunks can be produced independently; a failed chunk leaves
// the remote file partially written, which is deliberate — the service holds
// only uncommitted data until the flush.
func (u *Uploader) Upload(
	ctx context.Context,
	path string,
	body io.ReaderAt,
	size int64,
	cfg *Config,
	startTime time.Time,
) (*dltypes.UploadResult, error) {
	threshold := cfg.SingleUploadThreshold
	if threshold <= 0 {
		threshold = dltypes.DefaultSingleUploadThreshold
	}

	// The whole plan is validated before the first network call.
	plan, err := validation.PlanTransfer(size, cfg.ChunkSize, cfg.Concurrency)
	if err != nil {
		return nil, err
	}

	createResp, err := u.client.Create(ctx, path, dfsapi.ResourceFile, &dfsapi.CreateOptions{
		Metadata:    cfg.Metadata,
		Permissions: cfg.Permissions,
		Umask:       cfg.Umask,
	})
	if err != nil {
		return nil, errors.NewPathError("create", path, err)
	}

	if size == 0 {
		return &dltypes.UploadResult{
			Path:         path,
			Size:         0,
			ChunkCount:   0,
			ETag:         createResp.ETag,
			LastModified: createResp.LastModified,
			Duration:     time.Since(startTime),
		}, nil
	}

	if size <= threshold {
		return u.uploadSingleShot(ctx, path, body, size, cfg, startTime)
	}
	return u.uploadChunked(ctx, path, body, plan, cfg, startTime)
}

// uploadSingleShot sends the whole payload as one append and one flush.
func (u *Uploader) uploadSingleShot(
	ctx context.Context,
	path string,
	body io.ReaderAt,
	size int64,
	cfg *Config,
	startTime time.Time,
) (*dltypes.UploadResult, error) {
	chunk := streaming.NopCloser(io.NewSectionReader(body, 0, size))
	if _, err := u.client.AppendData(ctx, path, 0, chunk, nil); err != nil {
		return nil, errors.NewPathError("appendData", path, err)
	}
	if cfg.Progress != nil {
		cfg.Progress(size)
	}

	flushResp, err := u.client.FlushData(ctx, path, size, &dfsapi.FlushDataOptions{
		Close:       cfg.Close,
		ContentType: cfg.ContentType,
	})
	if err != nil {
		return nil, errors.NewPathError("flushData", path, err)
	}

	return &dltypes.UploadResult{
		Path:         path,
		Size:         size,
		ChunkCount:   1,
		ETag:         flushResp.ETag,
		LastModified: flushResp.LastModified,
		Duration:     time.Since(startTime),
	}, nil
}

// uploadChunked partitions the payload into the planned chunks, appends them
// through the worker pool, then issues the final flush at the total size.
func (u *Uploader) uploadChunked(
	ctx context.Context,
	path string,
	body io.ReaderAt,
	plan validation.TransferPlan,
	cfg *Config,
	startTime time.Time,
) (*dltypes.UploadResult, error) {
	var transferred int64

	wp := pool.NewWorkPool(plan.Concurrency)
	for i := int64(0); i < plan.ChunkCount; i++ {
		offset := i * plan.ChunkSize
		length := plan.ChunkSize
		if offset+length > plan.TotalSize {
			// The final chunk absorbs the remainder.
			length = plan.TotalSize - offset
		}

		wp.Add(func(ctx context.Context) error {
			chunk := streaming.NopCloser(io.NewSectionReader(body, offset, length))
			if _, err := u.client.AppendData(ctx, path, offset, chunk, nil); err != nil {
				return errors.NewPathError("appendData", path, err)
			}
			// The cumulative count is read back from the atomic add, so
			// concurrent completions each observe a distinct, non-decreasing
			// total.
			total := atomic.AddInt64(&transferred, length)
			if cfg.Progress != nil {
				cfg.Progress(total)
			}
			return nil
		})
	}

	if err := wp.Run(ctx); err != nil {
		return nil, err
	}

	flushResp, err := u.client.FlushData(ctx, path, plan.TotalSize, &dfsapi.FlushDataOptions{
		Close:       cfg.Close,
		ContentType: cfg.ContentType,
	})
	if err != nil {
		return nil, errors.NewPathError("flushData", path, err)
	}

	return &dltypes.UploadResult{
		Path:         path,
		Size:         plan.TotalSize,
		ChunkCount:   plan.ChunkCount,
		ETag:         flushResp.ETag,
		LastModified: flushResp.LastModified,
		Duration:     time.Since(startTime),
	}, nil
}
