// Package datalake provides functional options for configuring client behavior.
// These options follow the functional options pattern for clean, composable configuration.
package datalake

import (
	"net/http"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/fs"
	"go.opentelemetry.io/otel/trace"

	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/dltypes"
)

// WithMaxRetries sets the maximum number of retry attempts for failed requests.
// Default is 3 retries. Set to 0 to use the transport default.
func WithMaxRetries(maxRetries int) dltypes.Option {
	return func(c *dltypes.ClientConfig) {
		c.MaxRetries = maxRetries
	}
}

// WithTimeout sets the per-attempt timeout for individual service requests.
// Default is no timeout (0). Values should be positive durations.
func WithTimeout(timeout time.Duration) dltypes.Option {
	return func(c *dltypes.ClientConfig) {
		c.Timeout = timeout
	}
}

// WithConcurrency sets the default number of concurrent chunk transfers.
// This affects chunked uploads and downloads. Default is 5.
func WithConcurrency(concurrency int) dltypes.Option {
	return func(c *dltypes.ClientConfig) {
		if concurrency > 0 {
			c.Concurrency = concurrency
		}
	}
}

// WithChunkSize sets the default chunk size for uploads.
// When unset the chunk size is derived per transfer from the payload size.
func WithChunkSize(chunkSize int64) dltypes.Option {
	return func(c *dltypes.ClientConfig) {
		if chunkSize > 0 {
			c.ChunkSize = chunkSize
		}
	}
}

// WithCustomHTTPClient allows providing a custom HTTP client.
// This gives full control over HTTP behavior including timeouts, proxies, etc.
func WithCustomHTTPClient(client *http.Client) dltypes.Option {
	return func(c *dltypes.ClientConfig) {
		c.CustomHTTPClient = client
	}
}

// WithFilesystem sets a custom filesystem implementation for local file operations.
// This allows using in-memory filesystems for testing or virtual filesystems.
// If not specified, defaults to the OS filesystem.
func WithFilesystem(filesystem fs.Filesystem) dltypes.Option {
	return func(c *dltypes.ClientConfig) {
		c.Filesystem = filesystem
	}
}

// WithTracerProvider sets the tracer provider used to create per-operation spans.
// If not specified, the global OpenTelemetry tracer provider is used.
func WithTracerProvider(provider trace.TracerProvider) dltypes.Option {
	return func(c *dltypes.ClientConfig) {
		c.TracerProvider = provider
	}
}

// WithAPIVersion overrides the service API version sent with every request.
func WithAPIVersion(version string) dltypes.Option {
	return func(c *dltypes.ClientConfig) {
		c.APIVersion = version
	}
}

// WithBatchSize caps the number of paths changed per batch of a recursive
// access control operation. Values below 1 are rejected before any network call.
func WithBatchSize(batchSize int32) dltypes.AccessControlOption {
	return func(c *dltypes.AccessControlOptionConfig) {
		c.BatchSize = batchSize
		c.BatchSizeSet = true
	}
}

// WithMaxBatches caps the number of batches processed before the operation
// returns with a continuation token for the remaining work.
// Values below 1 are rejected before any network call.
func WithMaxBatches(maxBatches int32) dltypes.AccessControlOption {
	return func(c *dltypes.AccessControlOptionConfig) {
		c.MaxBatches = maxBatches
		c.MaxBatchesSet = true
	}
}

// WithContinuationToken resumes a previously interrupted recursive access
// control operation from the given token.
func WithContinuationToken(token string) dltypes.AccessControlOption {
	return func(c *dltypes.AccessControlOptionConfig) {
		c.ContinuationToken = token
	}
}

// WithContinueOnFailure asks the service to keep processing a batch after
// individual paths fail instead of aborting. Failed paths are reported in the
// counters and through the batch progress callback.
func WithContinueOnFailure(continueOnFailure bool) dltypes.AccessControlOption {
	return func(c *dltypes.AccessControlOptionConfig) {
		c.ContinueOnFailure = continueOnFailure
	}
}

// WithBatchProgress sets a callback invoked synchronously after each completed
// batch of a recursive access control operation.
func WithBatchProgress(fn dltypes.BatchProgressFunc) dltypes.AccessControlOption {
	return func(c *dltypes.AccessControlOptionConfig) {
		c.OnBatchProgress = fn
	}
}

// WithContentType sets the content type stored on the committed file.
func WithContentType(contentType string) dltypes.UploadOption {
	return func(c *dltypes.UploadOptionConfig) {
		c.ContentType = contentType
	}
}

// WithMetadata sets user-defined metadata applied when the file is created.
func WithMetadata(metadata map[string]string) dltypes.UploadOption {
	return func(c *dltypes.UploadOptionConfig) {
		if c.Metadata == nil {
			c.Metadata = make(map[string]string)
		}
		for k, v := range metadata {
			c.Metadata[k] = v
		}
	}
}

// WithPermissions sets the POSIX permission string applied when the file is created.
func WithPermissions(permissions string) dltypes.UploadOption {
	return func(c *dltypes.UploadOptionConfig) {
		c.Permissions = permissions
	}
}

// WithUmask sets the umask applied by the service when the file is created.
func WithUmask(umask string) dltypes.UploadOption {
	return func(c *dltypes.UploadOptionConfig) {
		c.Umask = umask
	}
}

// WithUploadClose emits a file-close event with the final flush.
func WithUploadClose(closeFile bool) dltypes.UploadOption {
	return func(c *dltypes.UploadOptionConfig) {
		c.Close = closeFile
	}
}

// WithUploadChunkSize sets the chunk size for this upload, overriding the
// client-level default. Zero derives the chunk size from the payload size;
// out-of-range values are rejected before any network call.
func WithUploadChunkSize(chunkSize int64) dltypes.UploadOption {
	return func(c *dltypes.UploadOptionConfig) {
		c.ChunkSize = chunkSize
	}
}

// WithUploadConcurrency sets the concurrency level for this upload, overriding
// the client-level default. Non-positive values are rejected before any
// network call.
func WithUploadConcurrency(concurrency int) dltypes.UploadOption {
	return func(c *dltypes.UploadOptionConfig) {
		c.Concurrency = concurrency
	}
}

// WithSingleUploadThreshold sets the payload size at or below which the upload
// is performed as a single append and flush, bypassing the worker pool.
// Default is 100MB.
func WithSingleUploadThreshold(threshold int64) dltypes.UploadOption {
	return func(c *dltypes.UploadOptionConfig) {
		if threshold > 0 {
			c.SingleUploadThreshold = threshold
		}
	}
}

// WithUploadProgress sets a callback receiving the cumulative byte count after
// each completed chunk of an upload.
func WithUploadProgress(fn dltypes.TransferProgressFunc) dltypes.UploadOption {
	return func(c *dltypes.UploadOptionConfig) {
		c.Progress = fn
	}
}

// WithDownloadChunkSize sets the ranged-read size for a chunked download.
// Default is 4MB.
func WithDownloadChunkSize(chunkSize int64) dltypes.DownloadOption {
	return func(c *dltypes.DownloadOptionConfig) {
		if chunkSize > 0 {
			c.ChunkSize = chunkSize
		}
	}
}

// WithDownloadConcurrency sets the concurrency level for a chunked download,
// overriding the client-level default.
func WithDownloadConcurrency(concurrency int) dltypes.DownloadOption {
	return func(c *dltypes.DownloadOptionConfig) {
		if concurrency > 0 {
			c.Concurrency = concurrency
		}
	}
}

// WithRange restricts a download to the given byte range. A zero count reads
// from the offset to the end of the file.
func WithRange(offset, count int64) dltypes.DownloadOption {
	return func(c *dltypes.DownloadOptionConfig) {
		c.Range = &dltypes.HTTPRange{Offset: offset, Count: count}
	}
}

// WithDownloadProgress sets a callback receiving the cumulative byte count
// after each completed chunk of a download.
func WithDownloadProgress(fn dltypes.TransferProgressFunc) dltypes.DownloadOption {
	return func(c *dltypes.DownloadOptionConfig) {
		c.Progress = fn
	}
}

// WithCreateMetadata sets user-defined metadata on a created path.
func WithCreateMetadata(metadata map[string]string) dltypes.CreateOption {
	return func(c *dltypes.CreateOptionConfig) {
		if c.Metadata == nil {
			c.Metadata = make(map[string]string)
		}
		for k, v := range metadata {
			c.Metadata[k] = v
		}
	}
}

// WithCreatePermissions sets the POSIX permission string on a created path.
func WithCreatePermissions(permissions string) dltypes.CreateOption {
	return func(c *dltypes.CreateOptionConfig) {
		c.Permissions = permissions
	}
}

// WithCreateUmask sets the umask applied by the service on a created path.
func WithCreateUmask(umask string) dltypes.CreateOption {
	return func(c *dltypes.CreateOptionConfig) {
		c.Umask = umask
	}
}
