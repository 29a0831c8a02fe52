// Package datalake provides client initialization and configuration.
//
// The Client provides a high-level interface for interacting with a single
// Azure Data Lake Storage Gen2 filesystem, supporting recursive access control
// changes, chunked uploads and downloads, and basic path management with
// configurable options for performance tuning and error handling.
package datalake

import (
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/input-output-hk/catalyst-forge-libs/fs"
	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"

	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/dltypes"
	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/errors"
	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/internal/dfsapi"
	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/internal/dfsclient"
	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/internal/instrument"
)

const (
	// moduleName and moduleVersion identify this module in the pipeline telemetry.
	moduleName    = "azure/datalake"
	moduleVersion = "v0.1.0"

	// storageScope is the OAuth scope requested for Azure Storage access.
	storageScope = "https://storage.azure.com/.default"
)

// Client represents a Data Lake client bound to one filesystem endpoint,
// e.g. https://account.dfs.core.windows.net/myfilesystem.
// It provides thread-safe access to path operations with built-in
// retry logic, concurrency control, and progress tracking.
type Client struct {
	// dfsClient is the underlying path operations client
	dfsClient dfsapi.Client

	// endpoint is the filesystem URL the client is bound to
	endpoint string

	// cfg holds the client-level defaults applied to operations
	cfg dltypes.ClientConfig

	// mu protects concurrent access to client configuration
	mu sync.RWMutex

	// fs is the filesystem abstraction for local file operations
	fs fs.Filesystem
}

// New creates a new Data Lake client bound to the given filesystem URL,
// authenticating every request with the provided token credential. A nil
// credential is accepted for endpoints that embed a SAS token in the URL.
//
// Example:
//
//	cred, err := azidentity.NewDefaultAzureCredential(nil)
//	if err != nil {
//	    return err
//	}
//	client, err := datalake.New(
//	    "https://myaccount.dfs.core.windows.net/myfilesystem",
//	    cred,
//	    datalake.WithMaxRetries(3),
//	)
func New(filesystemURL string, cred azcore.TokenCredential, opts ...dltypes.Option) (*Client, error) {
	if filesystemURL == "" {
		return nil, errors.NewError("client initialization", errors.ErrInvalidInput).
			WithMessage("filesystem URL cannot be empty")
	}

	clientCfg := &dltypes.ClientConfig{
		MaxRetries:  3,                          // Default retry count
		Timeout:     0,                          // No per-try timeout by default
		Concurrency: dltypes.DefaultConcurrency, // Default concurrency
		ChunkSize:   0,                          // Derived per transfer unless overridden
	}

	for _, opt := range opts {
		opt(clientCfg)
	}

	azOpts := &policy.ClientOptions{}
	if clientCfg.MaxRetries > 0 {
		azOpts.Retry.MaxRetries = int32(clientCfg.MaxRetries)
	}
	if clientCfg.Timeout > 0 {
		azOpts.Retry.TryTimeout = clientCfg.Timeout
	}
	if clientCfg.CustomHTTPClient != nil {
		azOpts.Transport = clientCfg.CustomHTTPClient
	}

	var perRetry []policy.Policy
	if cred != nil {
		perRetry = append(perRetry, runtime.NewBearerTokenPolicy(cred, []string{storageScope}, nil))
	}
	pl := runtime.NewPipeline(moduleName, moduleVersion, runtime.PipelineOptions{PerRetry: perRetry}, azOpts)

	wire := dfsclient.New(filesystemURL, pl, clientCfg.APIVersion)

	// Initialize filesystem - use provided one or default to OS filesystem
	var filesystem fs.Filesystem
	if clientCfg.Filesystem != nil {
		filesystem = clientCfg.Filesystem
	} else {
		// Default to OS filesystem rooted at /
		filesystem = billy.NewOSFS("/")
	}

	client := &Client{
		dfsClient: instrument.Wrap(wire, clientCfg.TracerProvider),
		endpoint:  wire.Endpoint(),
		cfg:       *clientCfg,
		fs:        filesystem,
	}

	return client, nil
}

// NewWithDefaultCredential creates a new Data Lake client using the default
// Azure credential chain (environment, workload identity, managed identity,
// Azure CLI).
func NewWithDefaultCredential(filesystemURL string, opts ...dltypes.Option) (*Client, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, errors.NewError("client initialization", err).
			WithMessage("loading default Azure credential")
	}
	return New(filesystemURL, cred, opts...)
}

// NewWithClient creates a new Data Lake client with a custom path operations
// implementation. This is primarily used for testing with mocked clients.
func NewWithClient(client dfsapi.Client) *Client {
	return &Client{
		dfsClient: client,
		cfg: dltypes.ClientConfig{
			Concurrency: dltypes.DefaultConcurrency,
		},
		fs: billy.NewOSFS("/"), // Default to OS filesystem
	}
}

// SetFilesystem sets the filesystem implementation for the client.
// This is useful for testing or when the filesystem needs to be changed after creation.
func (c *Client) SetFilesystem(filesystem fs.Filesystem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fs = filesystem
}

// Endpoint returns the filesystem URL the client is bound to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// getClientConfig returns a copy of the client-level configuration.
func (c *Client) getClientConfig() dltypes.ClientConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg
}

// getFilesystem returns the filesystem abstraction currently in use.
func (c *Client) getFilesystem() fs.Filesystem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fs
}

// Close releases any resources held by the client.
// Currently a no-op but included for future extensibility.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return nil
}
