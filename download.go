// Package datalake provides the download operations.
package datalake

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/fs"

	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/dltypes"
	dlerrors "github.com/input-output-hk/catalyst-forge-libs/azure/datalake/errors"
	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/internal/dfsapi"
	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/internal/operations/download"
	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/internal/validation"
)

// DownloadStream performs a single read of the file at path, optionally
// restricted to a byte range, and returns the wire response for the caller to
// stream. The caller must close the returned body.
//
// For large files prefer DownloadFile or DownloadBuffer, which read in
// bounded-concurrency chunks.
//
// Example:
//
//	resp, err := client.DownloadStream(ctx, "raw/data.bin")
//	if err != nil {
//	    return err
//	}
//	defer resp.Body.Close()
//	_, err = io.Copy(dst, resp.Body)
func (c *Client) DownloadStream(
	ctx context.Context,
	path string,
	opts ...dltypes.DownloadOption,
) (*dltypes.DownloadStreamResponse, error) {
	if err := validation.ValidatePath(path); err != nil {
		return nil, err
	}

	config := &dltypes.DownloadOptionConfig{}
	for _, opt := range opts {
		opt(config)
	}

	var readOpts dfsapi.ReadOptions
	if config.Range != nil {
		if config.Range.Count > 0 {
			readOpts.Range = download.FormatRange(config.Range.Offset, config.Range.Count)
		} else {
			readOpts.Range = fmt.Sprintf("bytes=%d-", config.Range.Offset)
		}
	}

	resp, err := c.dfsClient.Read(ctx, path, &readOpts)
	if err != nil {
		return nil, dlerrors.NewPathError("downloadStream", path, err)
	}

	return &dltypes.DownloadStreamResponse{
		Body:          resp.Body,
		ContentLength: resp.ContentLength,
		ContentRange:  resp.ContentRange,
		ContentType:   resp.ContentType,
		ETag:          resp.ETag,
	}, nil
}

// DownloadBuffer downloads the file at path into buf using bounded-concurrency
// ranged reads. The buffer must be large enough to hold the requested range,
// or the whole file when no range is set.
//
// Returns:
//   - *DownloadResult: Contains the downloaded size, ETag, and duration
//   - error: Returns an error if validation fails, the buffer is too small,
//     or a chunk cannot be read
func (c *Client) DownloadBuffer(
	ctx context.Context,
	path string,
	buf []byte,
	opts ...dltypes.DownloadOption,
) (*dltypes.DownloadResult, error) {
	if err := validation.ValidatePath(path); err != nil {
		return nil, err
	}
	return c.download(ctx, "downloadBuffer", path, &sliceWriterAt{buf: buf}, opts)
}

// DownloadFile downloads the file at path to a local file, creating or
// truncating it, using bounded-concurrency ranged reads.
//
// Example:
//
//	result, err := client.DownloadFile(ctx, "docs/report.pdf", "/tmp/report.pdf",
//	    datalake.WithDownloadProgress(func(n int64) { fmt.Printf("\r%d bytes", n) }),
//	)
func (c *Client) DownloadFile(
	ctx context.Context,
	path, localPath string,
	opts ...dltypes.DownloadOption,
) (*dltypes.DownloadResult, error) {
	if err := validation.ValidatePath(path); err != nil {
		return nil, err
	}
	if localPath == "" {
		return nil, dlerrors.NewPathError("downloadFile", path, dlerrors.ErrInvalidInput).
			WithMessage("local path cannot be empty")
	}

	file, err := c.getFilesystem().Create(localPath)
	if err != nil {
		return nil, dlerrors.NewPathError("downloadFile", path, err)
	}
	defer file.Close()

	var writer io.WriterAt
	if wa, ok := file.(io.WriterAt); ok {
		writer = wa
	} else {
		writer = &seekWriterAt{f: file}
	}

	return c.download(ctx, "downloadFile", path, writer, opts)
}

// download resolves options against client-level defaults and runs the
// transfer engine.
func (c *Client) download(
	ctx context.Context,
	op, path string,
	writer io.WriterAt,
	opts []dltypes.DownloadOption,
) (*dltypes.DownloadResult, error) {
	config := &dltypes.DownloadOptionConfig{
		Concurrency: c.getClientConfig().Concurrency,
	}
	for _, opt := range opts {
		opt(config)
	}

	startTime := time.Now()

	downloader := download.New(c.dfsClient)
	result, err := downloader.Download(ctx, path, writer, &download.Config{
		ChunkSize:   config.ChunkSize,
		Concurrency: config.Concurrency,
		Range:       config.Range,
		Progress:    config.Progress,
	}, startTime)
	if err != nil {
		return nil, dlerrors.NewError(op, err).WithPath(path)
	}

	return result, nil
}

// sliceWriterAt adapts a byte slice to io.WriterAt, rejecting writes past the
// end of the slice.
type sliceWriterAt struct {
	buf []byte
}

func (w *sliceWriterAt) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > int64(len(w.buf)) {
		return 0, dlerrors.NewError("write", dlerrors.ErrInvalidInput).
			WithMessage("destination buffer too small for the download")
	}
	return copy(w.buf[off:], p), nil
}

// seekWriterAt adapts a seekable file handle to io.WriterAt by serializing
// seek-then-write pairs.
type seekWriterAt struct {
	mu sync.Mutex
	f  fs.File
}

func (w *seekWriterAt) WriteAt(p []byte, off int64) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.f.Seek(off, io.SeekStart); err != nil {
		return 0, err
	}
	return w.f.Write(p)
}
