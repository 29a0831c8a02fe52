// Package datalake provides the chunked upload operations.
package datalake

import (
	"bytes"
	"context"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/dltypes"
	dlerrors "github.com/input-output-hk/catalyst-forge-libs/azure/datalake/errors"
	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/internal/operations/upload"
	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/internal/validation"
)

const (
	// DefaultContentType is the default content type used when content type detection fails
	DefaultContentType = "application/octet-stream"
)

// UploadStream uploads the contents of a seekable stream to the file at path.
// The stream must be seekable so chunk ranges can be read independently; the
// payload size is taken from the distance between the current end of the
// stream and its start.
//
// The method creates the file, appends the payload in bounded-concurrency
// chunks, and commits it with a single flush. Payloads at or below the
// single-upload threshold (default 100MB) are sent as one append. A failed
// chunk aborts the upload and leaves the remote file uncommitted.
//
// Returns:
//   - *UploadResult: Contains the committed file's metadata including ETag,
//     chunk count, and duration
//   - error: Returns an error if validation fails or the upload cannot complete
//
// Errors:
//   - ErrInvalidInput: If path is invalid, the body is nil, or the resolved
//     chunking violates a service limit
//   - ErrFileTooLarge: If the payload exceeds the maximum file size
//   - Service errors wrapped in the module's Error type
//
// Example:
//
//	file, err := os.Open("data.bin")
//	if err != nil {
//	    return err
//	}
//	defer file.Close()
//
//	result, err := client.UploadStream(ctx, "raw/data.bin", file,
//	    datalake.WithUploadConcurrency(8),
//	    datalake.WithUploadProgress(func(n int64) { fmt.Printf("\r%d bytes", n) }),
//	)
func (c *Client) UploadStream(
	ctx context.Context,
	path string,
	body io.ReadSeeker,
	opts ...dltypes.UploadOption,
) (*dltypes.UploadResult, error) {
	if err := validation.ValidatePath(path); err != nil {
		return nil, err
	}
	if body == nil {
		return nil, dlerrors.NewPathError("uploadStream", path, dlerrors.ErrInvalidInput).
			WithMessage("body cannot be nil")
	}

	size, err := body.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, dlerrors.NewPathError("uploadStream", path, err).
			WithMessage("determining stream size")
	}
	if _, err := body.Seek(0, io.SeekStart); err != nil {
		return nil, dlerrors.NewPathError("uploadStream", path, err).
			WithMessage("rewinding stream")
	}

	reader, ok := body.(io.ReaderAt)
	if !ok {
		reader = &lockedReaderAt{rs: body}
	}

	return c.upload(ctx, "uploadStream", path, reader, size, opts)
}

// UploadBuffer uploads a byte slice to the file at path.
// This is a convenience method for payloads that already fit in memory.
func (c *Client) UploadBuffer(
	ctx context.Context,
	path string,
	data []byte,
	opts ...dltypes.UploadOption,
) (*dltypes.UploadResult, error) {
	if err := validation.ValidatePath(path); err != nil {
		return nil, err
	}
	return c.upload(ctx, "uploadBuffer", path, bytes.NewReader(data), int64(len(data)), opts)
}

// UploadFile uploads a file from the local filesystem to the file at path.
// The content type is detected from the file content when not set explicitly.
//
// Example:
//
//	result, err := client.UploadFile(ctx, "docs/report.pdf", "/tmp/report.pdf",
//	    datalake.WithMetadata(map[string]string{"author": "ops"}),
//	)
func (c *Client) UploadFile(
	ctx context.Context,
	path, localPath string,
	opts ...dltypes.UploadOption,
) (*dltypes.UploadResult, error) {
	if err := validation.ValidatePath(path); err != nil {
		return nil, err
	}
	if localPath == "" {
		return nil, dlerrors.NewPathError("uploadFile", path, dlerrors.ErrInvalidInput).
			WithMessage("local path cannot be empty")
	}

	filesystem := c.getFilesystem()
	info, err := filesystem.Stat(localPath)
	if err != nil {
		return nil, dlerrors.NewPathError("uploadFile", path, err)
	}
	if info.IsDir() {
		return nil, dlerrors.NewPathError("uploadFile", path, dlerrors.ErrInvalidInput).
			WithMessage("local path points to a directory, not a file")
	}

	file, err := filesystem.Open(localPath)
	if err != nil {
		return nil, dlerrors.NewPathError("uploadFile", path, err)
	}
	defer file.Close()

	return c.uploadNamed(ctx, "uploadFile", path, localPath, file, info.Size(), opts)
}

// upload resolves options against client-level defaults and runs the transfer
// engine, detecting the content type from the remote path's extension.
func (c *Client) upload(
	ctx context.Context,
	op, path string,
	body io.ReaderAt,
	size int64,
	opts []dltypes.UploadOption,
) (*dltypes.UploadResult, error) {
	return c.uploadNamed(ctx, op, path, path, body, size, opts)
}

// uploadNamed is upload with a separate name used for content type detection;
// local uploads sniff the source file, remote-only uploads fall back to the
// destination path's extension.
func (c *Client) uploadNamed(
	ctx context.Context,
	op, path, detectFrom string,
	body io.ReaderAt,
	size int64,
	opts []dltypes.UploadOption,
) (*dltypes.UploadResult, error) {
	clientCfg := c.getClientConfig()
	config := &dltypes.UploadOptionConfig{
		ChunkSize:   clientCfg.ChunkSize,
		Concurrency: clientCfg.Concurrency,
	}
	for _, opt := range opts {
		opt(config)
	}

	if config.ContentType == "" {
		config.ContentType = c.detectContentType(detectFrom)
	}

	startTime := time.Now()

	uploader := upload.New(c.dfsClient)
	result, err := uploader.Upload(ctx, path, body, size, &upload.Config{
		ChunkSize:             config.ChunkSize,
		Concurrency:           config.Concurrency,
		SingleUploadThreshold: config.SingleUploadThreshold,
		ContentType:           config.ContentType,
		Metadata:              config.Metadata,
		Permissions:           config.Permissions,
		Umask:                 config.Umask,
		Close:                 config.Close,
		Progress:              config.Progress,
	}, startTime)
	if err != nil {
		return nil, dlerrors.NewError(op, err).WithPath(path)
	}

	return result, nil
}

// detectContentType determines the content type using mimetype where possible,
// falling back to extension-based lookup when the path is not a local file.
func (c *Client) detectContentType(path string) string {
	filesystem := c.getFilesystem()

	// If the path points to an existing local file, prefer sniffing its content.
	info, err := filesystem.Stat(path)
	if err != nil || info.IsDir() {
		return c.detectContentTypeFromExtension(path)
	}

	file, err := filesystem.Open(path)
	if err != nil {
		return c.detectContentTypeFromExtension(path)
	}
	defer file.Close()

	// Read first 512 bytes for content detection
	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	if n > 0 {
		if mt := mimetype.Detect(buf[:n]); mt != nil {
			return mt.String()
		}
	}

	return c.detectContentTypeFromExtension(path)
}

// detectContentTypeFromExtension detects content type from the file extension.
func (c *Client) detectContentTypeFromExtension(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			return byExt
		}
	}

	return DefaultContentType
}

// lockedReaderAt adapts a plain ReadSeeker to ReaderAt by serializing
// seek-then-read pairs. Concurrent chunk producers lose parallel reads but
// keep correct offsets.
type lockedReaderAt struct {
	mu sync.Mutex
	rs io.ReadSeeker
}

func (l *lockedReaderAt) ReadAt(p []byte, off int64) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.rs.Seek(off, io.SeekStart); err != nil {
		return 0, err
	}
	return io.ReadFull(l.rs, p)
}
