// Package dltypes provides shared type definitions for the Data Lake module.
package dltypes

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/fs"
	"go.opentelemetry.io/otel/trace"
)

// Service-imposed transfer limits for Azure Data Lake Storage Gen2.
const (
	// MaxAppendBytes is the maximum number of bytes a single append call may carry
	MaxAppendBytes int64 = 4000 * 1024 * 1024

	// MaxBlocks is the maximum number of uncommitted appends a file may accumulate
	MaxBlocks int64 = 50000

	// MaxFileSize is the maximum size of a single uploaded file
	MaxFileSize int64 = MaxBlocks * MaxAppendBytes

	// DefaultChunkSize is the chunk size used for uploads when none is configured
	DefaultChunkSize int64 = 8 * 1024 * 1024

	// DefaultDownloadChunkSize is the chunk size used for chunked downloads
	DefaultDownloadChunkSize int64 = 4 * 1024 * 1024

	// DefaultSingleUploadThreshold is the payload size at or below which an upload
	// is performed as one append and one flush, with no worker pool
	DefaultSingleUploadThreshold int64 = 100 * 1024 * 1024

	// DefaultConcurrency is the default number of concurrent chunk transfers
	DefaultConcurrency = 5
)

// AccessControlType identifies the class of principal an access control entry applies to.
type AccessControlType string

// Access control entry classes defined by POSIX ACLs.
const (
	// ACLUser applies the entry to the owning user or a named user
	ACLUser AccessControlType = "user"

	// ACLGroup applies the entry to the owning group or a named group
	ACLGroup AccessControlType = "group"

	// ACLMask bounds the maximum permissions for named users and groups
	ACLMask AccessControlType = "mask"

	// ACLOther applies the entry to everyone else
	ACLOther AccessControlType = "other"
)

// AccessControlEntry is one POSIX-style ACL entry. Entries are ordered; a sequence
// of entries is serialized to a single comma-separated string before transmission.
type AccessControlEntry struct {
	// DefaultScope marks the entry as a default entry inherited by children
	DefaultScope bool

	// AccessControlType is the principal class the entry applies to
	AccessControlType AccessControlType

	// EntityID is the object ID of a named user or group; empty for the owning
	// user/group, mask, and other entries
	EntityID string

	// Permissions holds the rwx permission triplet, e.g. "r-x"
	Permissions string
}

// String serializes the entry in the wire form
// "[default:]<type>:[<id>]:<permissions>".
func (e AccessControlEntry) String() string {
	var b strings.Builder
	if e.DefaultScope {
		b.WriteString("default:")
	}
	b.WriteString(string(e.AccessControlType))
	b.WriteByte(':')
	b.WriteString(e.EntityID)
	b.WriteByte(':')
	b.WriteString(e.Permissions)
	return b.String()
}

// RemoveAccessControlEntry identifies an ACL entry to remove. It is the
// permission-less variant of AccessControlEntry.
type RemoveAccessControlEntry struct {
	// DefaultScope marks the entry as a default entry
	DefaultScope bool

	// AccessControlType is the principal class the entry applies to
	AccessControlType AccessControlType

	// EntityID is the object ID of a named user or group, if any
	EntityID string
}

// String serializes the entry in the wire form "[default:]<type>[:<id>]".
func (e RemoveAccessControlEntry) String() string {
	var b strings.Builder
	if e.DefaultScope {
		b.WriteString("default:")
	}
	b.WriteString(string(e.AccessControlType))
	if e.EntityID != "" {
		b.WriteByte(':')
		b.WriteString(e.EntityID)
	}
	return b.String()
}

// FormatAccessControlEntries serializes an ordered entry sequence to the
// comma-separated wire form.
func FormatAccessControlEntries(entries []AccessControlEntry) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.String()
	}
	return strings.Join(parts, ",")
}

// FormatRemoveAccessControlEntries serializes removal entries to the
// comma-separated wire form.
func FormatRemoveAccessControlEntries(entries []RemoveAccessControlEntry) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.String()
	}
	return strings.Join(parts, ",")
}

// ParseAccessControlEntries parses the comma-separated wire form back into an
// ordered entry sequence. It accepts the same grammar String produces.
func ParseAccessControlEntries(s string) ([]AccessControlEntry, error) {
	if s == "" {
		return nil, nil
	}
	raw := strings.Split(s, ",")
	entries := make([]AccessControlEntry, 0, len(raw))
	for _, item := range raw {
		entry, err := parseAccessControlEntry(item)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseAccessControlEntry(s string) (AccessControlEntry, error) {
	var entry AccessControlEntry
	fields := strings.Split(s, ":")
	if len(fields) == 4 {
		if fields[0] != "default" {
			return entry, fmt.Errorf("access control entry %q: expected default scope prefix", s)
		}
		entry.DefaultScope = true
		fields = fields[1:]
	}
	if len(fields) != 3 {
		return entry, fmt.Errorf("access control entry %q: expected type:id:permissions", s)
	}
	switch AccessControlType(fields[0]) {
	case ACLUser, ACLGroup, ACLMask, ACLOther:
		entry.AccessControlType = AccessControlType(fields[0])
	default:
		return entry, fmt.Errorf("access control entry %q: unknown type %q", s, fields[0])
	}
	entry.EntityID = fields[1]
	entry.Permissions = fields[2]
	if len(entry.Permissions) != 3 {
		return entry, fmt.Errorf("access control entry %q: permissions must be a rwx triplet", s)
	}
	return entry, nil
}

// AccessControlChangeCounters holds cumulative counts of paths changed by a
// recursive access control operation.
type AccessControlChangeCounters struct {
	// ChangedDirectoriesCount is the number of directories successfully changed
	ChangedDirectoriesCount int64

	// ChangedFilesCount is the number of files successfully changed
	ChangedFilesCount int64

	// FailedChangesCount is the number of paths the service could not change
	FailedChangesCount int64
}

// Add folds another set of counters into this one.
func (c *AccessControlChangeCounters) Add(other AccessControlChangeCounters) {
	c.ChangedDirectoriesCount += other.ChangedDirectoriesCount
	c.ChangedFilesCount += other.ChangedFilesCount
	c.FailedChangesCount += other.FailedChangesCount
}

// RecursiveChangeResult is the final outcome of a recursive access control change.
type RecursiveChangeResult struct {
	// Counters holds the aggregate counts over every processed batch
	Counters AccessControlChangeCounters

	// ContinuationToken is non-empty only when the operation stopped at the
	// configured batch cap with work remaining; resume by passing it back in
	ContinuationToken string
}

// AccessControlChangeFailure describes a single path the service failed to change
// within an otherwise successful batch.
type AccessControlChangeFailure struct {
	// Name is the path that failed
	Name string

	// IsDirectory reports whether the failed path is a directory
	IsDirectory bool

	// ErrorMessage is the service-reported reason
	ErrorMessage string
}

// BatchProgressEvent is delivered to the batch progress callback after each
// completed batch of a recursive access control change.
type BatchProgressEvent struct {
	// BatchFailures lists the per-path failures reported for this batch only
	BatchFailures []AccessControlChangeFailure

	// BatchCounters holds the counts for this batch only
	BatchCounters AccessControlChangeCounters

	// AggregateCounters holds the cumulative counts including this batch
	AggregateCounters AccessControlChangeCounters

	// ContinuationToken is the token the next batch will resume from; empty
	// when this was the final batch
	ContinuationToken string
}

// BatchProgressFunc receives a BatchProgressEvent after each completed batch.
// It is invoked synchronously, in batch order. A panic inside the callback
// aborts the batch loop.
type BatchProgressFunc func(event BatchProgressEvent)

// TransferProgressFunc receives the cumulative number of bytes transferred after
// each completed chunk. Invocations may arrive out of chunk order, but the
// cumulative count is monotonically non-decreasing.
type TransferProgressFunc func(bytesTransferred int64)

// HTTPRange identifies a contiguous byte range of a remote file.
type HTTPRange struct {
	// Offset is the first byte of the range
	Offset int64

	// Count is the number of bytes; zero means to the end of the file
	Count int64
}

// UploadResult contains the result of an upload operation.
type UploadResult struct {
	// Path is the file path that was uploaded
	Path string

	// Size is the number of bytes uploaded
	Size int64

	// ChunkCount is the number of append calls the payload was split into
	ChunkCount int64

	// ETag is the entity tag of the committed file
	ETag string

	// LastModified is the commit time reported by the service
	LastModified time.Time

	// Duration is how long the upload took
	Duration time.Duration
}

// DownloadStreamResponse is the raw result of a streaming download. The caller
// owns Body and must close it.
type DownloadStreamResponse struct {
	// Body streams the file content
	Body io.ReadCloser

	// ContentLength is the number of bytes in Body
	ContentLength int64

	// ContentRange echoes the requested byte range, if any
	ContentRange string

	// ContentType is the MIME type stored on the file
	ContentType string

	// ETag is the entity tag of the file
	ETag string
}

// DownloadResult contains the result of a download operation.
type DownloadResult struct {
	// Path is the file path that was downloaded
	Path string

	// Size is the number of bytes downloaded
	Size int64

	// ETag is the entity tag of the file
	ETag string

	// Duration is how long the download took
	Duration time.Duration
}

// PathProperties contains metadata about a file or directory.
type PathProperties struct {
	// ContentLength is the size of the file in bytes; zero for directories
	ContentLength int64

	// ContentType is the MIME type of the file
	ContentType string

	// ETag is the entity tag of the path
	ETag string

	// LastModified is when the path was last modified
	LastModified time.Time

	// IsDirectory reports whether the path is a directory
	IsDirectory bool

	// Metadata contains user-defined metadata
	Metadata map[string]string
}

// Configuration types for functional options

// ClientConfig holds configuration for the Data Lake client.
type ClientConfig struct {
	MaxRetries       int
	Timeout          time.Duration
	Concurrency      int
	ChunkSize        int64
	CustomHTTPClient *http.Client
	Filesystem       fs.Filesystem // Filesystem abstraction for local file operations
	TracerProvider   trace.TracerProvider
	APIVersion       string
}

// AccessControlOptionConfig holds configuration for recursive access control
// operations via functional options.
type AccessControlOptionConfig struct {
	// BatchSize caps the number of paths the service changes per batch; zero
	// leaves the batch size to the service. Negative or explicitly zero values
	// supplied by the caller are rejected before any network call.
	BatchSize int32

	// BatchSizeSet records that the caller supplied a batch size
	BatchSizeSet bool

	// MaxBatches caps the number of batches processed before returning with a
	// continuation token; zero means unbounded
	MaxBatches int32

	// MaxBatchesSet records that the caller supplied a batch cap
	MaxBatchesSet bool

	// ContinuationToken resumes a previously interrupted change
	ContinuationToken string

	// ContinueOnFailure asks the service to keep processing a batch after
	// individual entries fail
	ContinueOnFailure bool

	// OnBatchProgress is invoked after each completed batch
	OnBatchProgress BatchProgressFunc
}

// UploadOptionConfig holds configuration for upload operations via functional options.
type UploadOptionConfig struct {
	ChunkSize             int64
	Concurrency           int
	SingleUploadThreshold int64
	ContentType           string
	Metadata              map[string]string
	Permissions           string
	Umask                 string
	Close                 bool
	Progress              TransferProgressFunc
}

// DownloadOptionConfig holds configuration for download operations via functional options.
type DownloadOptionConfig struct {
	ChunkSize   int64
	Concurrency int
	Range       *HTTPRange
	Progress    TransferProgressFunc
}

// CreateOptionConfig holds configuration for path creation via functional options.
type CreateOptionConfig struct {
	Metadata    map[string]string
	Permissions string
	Umask       string
}

// Option is a functional option for configuring the Data Lake client.
type (
	Option func(*ClientConfig)
	// AccessControlOption is a functional option for recursive access control operations.
	AccessControlOption func(*AccessControlOptionConfig)
	// UploadOption is a functional option for upload operations.
	UploadOption func(*UploadOptionConfig)
	// DownloadOption is a functional option for download operations.
	DownloadOption func(*DownloadOptionConfig)
	// CreateOption is a functional option for path creation operations.
	CreateOption func(*CreateOptionConfig)
)
