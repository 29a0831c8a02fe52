// Package dfsapi defines the interface over the Data Lake Gen2 path REST
// operations to enable testing and mocking.
package dfsapi

import (
	"context"
	"io"
	"time"
)

// Resource kinds accepted by the Create operation.
const (
	// ResourceFile creates a file path
	ResourceFile = "file"

	// ResourceDirectory creates a directory path
	ResourceDirectory = "directory"
)

// Access control change modes accepted by SetAccessControlRecursive.
const (
	// ModeSet replaces the ACL on every path in the tree
	ModeSet = "set"

	// ModeModify merges the entries into each path's existing ACL
	ModeModify = "modify"

	// ModeRemove removes the named entries from each path's ACL
	ModeRemove = "remove"
)

// CreateOptions holds optional parameters for the Create operation.
type CreateOptions struct {
	// Metadata is user-defined metadata attached to the path
	Metadata map[string]string

	// Permissions is the POSIX permission string applied at creation
	Permissions string

	// Umask filters the default permissions applied by the service
	Umask string
}

// CreateResponse is the result of a Create operation.
type CreateResponse struct {
	ETag         string
	LastModified time.Time
}

// AppendDataOptions holds optional parameters for the AppendData operation.
type AppendDataOptions struct {
	// ContentMD5 is an optional transactional hash of the chunk body
	ContentMD5 []byte
}

// AppendDataResponse is the acknowledgement of an AppendData operation.
type AppendDataResponse struct {
	RequestID string
}

// FlushDataOptions holds optional parameters for the FlushData operation.
type FlushDataOptions struct {
	// Close emits a file-close event with the flush
	Close bool

	// ContentType sets the MIME type stored on the committed file
	ContentType string
}

// FlushDataResponse is the result of a FlushData operation.
type FlushDataResponse struct {
	ETag          string
	LastModified  time.Time
	ContentLength int64
}

// SetAccessControlRecursiveOptions holds optional parameters for the
// SetAccessControlRecursive operation.
type SetAccessControlRecursiveOptions struct {
	// MaxRecords caps the number of paths changed in this call
	MaxRecords *int32

	// Continuation resumes a prior recursive change
	Continuation *string

	// ForceFlag asks the service to keep processing after per-path failures
	ForceFlag *bool
}

// ACLFailedEntry describes one path the service failed to change.
type ACLFailedEntry struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	ErrorMessage string `json:"errorMessage"`
}

// SetAccessControlRecursiveResponse is the result of one recursive access
// control batch.
type SetAccessControlRecursiveResponse struct {
	// Continuation is the token for the remaining work; empty when the tree
	// has been fully processed
	Continuation string

	// DirectoriesSuccessful is the number of directories changed by this batch
	DirectoriesSuccessful int64

	// FilesSuccessful is the number of files changed by this batch
	FilesSuccessful int64

	// FailureCount is the number of paths this batch failed to change
	FailureCount int64

	// FailedEntries lists the failed paths
	FailedEntries []ACLFailedEntry
}

// ReadOptions holds optional parameters for the Read operation.
type ReadOptions struct {
	// Range restricts the read to a byte range in the form "bytes=start-end"
	Range string
}

// ReadResponse is the result of a Read operation. The caller owns Body and
// must close it.
type ReadResponse struct {
	Body          io.ReadCloser
	ContentLength int64
	ContentRange  string
	ContentType   string
	ETag          string
}

// DeleteOptions holds optional parameters for the Delete operation.
type DeleteOptions struct {
	// Recursive deletes a directory and everything beneath it
	Recursive bool
}

// DeleteResponse is the result of a Delete operation.
type DeleteResponse struct {
	RequestID string
}

// GetPropertiesResponse is the result of a GetProperties operation.
type GetPropertiesResponse struct {
	ContentLength int64
	ContentType   string
	ETag          string
	LastModified  time.Time
	ResourceType  string
	Metadata      map[string]string
}

// Client defines the Data Lake path operations used by this module. The engines
// sequence calls against this interface; wire serialization lives behind it.
type Client interface {
	// Create creates a file or directory path
	Create(ctx context.Context, path, resource string, options *CreateOptions) (CreateResponse, error)

	// AppendData uploads one chunk of data at the given position of an
	// uncommitted file
	AppendData(
		ctx context.Context,
		path string,
		position int64,
		body io.ReadSeekCloser,
		options *AppendDataOptions,
	) (AppendDataResponse, error)

	// FlushData commits previously appended data up to the given position
	FlushData(ctx context.Context, path string, position int64, options *FlushDataOptions) (FlushDataResponse, error)

	// SetAccessControlRecursive applies one batch of a recursive ACL change
	SetAccessControlRecursive(
		ctx context.Context,
		path, mode, acl string,
		options *SetAccessControlRecursiveOptions,
	) (SetAccessControlRecursiveResponse, error)

	// Read retrieves a file's content, optionally restricted to a byte range
	Read(ctx context.Context, path string, options *ReadOptions) (ReadResponse, error)

	// Delete removes a file or directory path
	Delete(ctx context.Context, path string, options *DeleteOptions) (DeleteResponse, error)

	// GetProperties retrieves metadata about a path without its content
	GetProperties(ctx context.Context, path string) (GetPropertiesResponse, error)
}
