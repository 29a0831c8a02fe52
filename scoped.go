// Package datalake provides path-scoped client wrappers.
package datalake

import (
	"context"
	"io"

	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/dltypes"
)

// DirectoryClient is a Client scoped to a single directory path. It fixes the
// resource kind and delegates every operation to the shared path operations,
// so it carries no state beyond the path itself.
type DirectoryClient struct {
	client *Client
	path   string
}

// NewDirectoryClient returns a client scoped to the directory at path.
// The path is validated when an operation is invoked.
func (c *Client) NewDirectoryClient(path string) *DirectoryClient {
	return &DirectoryClient{client: c, path: path}
}

// Path returns the directory path this client is scoped to.
func (d *DirectoryClient) Path() string {
	return d.path
}

// Create creates the directory.
func (d *DirectoryClient) Create(ctx context.Context, opts ...dltypes.CreateOption) error {
	return d.client.CreateDirectory(ctx, d.path, opts...)
}

// Delete removes the directory and everything beneath it.
func (d *DirectoryClient) Delete(ctx context.Context) error {
	return d.client.Delete(ctx, d.path, true)
}

// GetProperties retrieves the directory's metadata.
func (d *DirectoryClient) GetProperties(ctx context.Context) (*dltypes.PathProperties, error) {
	return d.client.GetProperties(ctx, d.path)
}

// SetAccessControlRecursive replaces the ACL on the directory and every path
// beneath it. See Client.SetAccessControlRecursive.
func (d *DirectoryClient) SetAccessControlRecursive(
	ctx context.Context,
	acl []dltypes.AccessControlEntry,
	opts ...dltypes.AccessControlOption,
) (*dltypes.RecursiveChangeResult, error) {
	return d.client.SetAccessControlRecursive(ctx, d.path, acl, opts...)
}

// UpdateAccessControlRecursive merges entries into the ACL of the directory
// and every path beneath it. See Client.UpdateAccessControlRecursive.
func (d *DirectoryClient) UpdateAccessControlRecursive(
	ctx context.Context,
	acl []dltypes.AccessControlEntry,
	opts ...dltypes.AccessControlOption,
) (*dltypes.RecursiveChangeResult, error) {
	return d.client.UpdateAccessControlRecursive(ctx, d.path, acl, opts...)
}

// RemoveAccessControlRecursive removes entries from the ACL of the directory
// and every path beneath it. See Client.RemoveAccessControlRecursive.
func (d *DirectoryClient) RemoveAccessControlRecursive(
	ctx context.Context,
	acl []dltypes.RemoveAccessControlEntry,
	opts ...dltypes.AccessControlOption,
) (*dltypes.RecursiveChangeResult, error) {
	return d.client.RemoveAccessControlRecursive(ctx, d.path, acl, opts...)
}

// FileClient is a Client scoped to a single file path.
type FileClient struct {
	client *Client
	path   string
}

// NewFileClient returns a client scoped to the file at path.
// The path is validated when an operation is invoked.
func (c *Client) NewFileClient(path string) *FileClient {
	return &FileClient{client: c, path: path}
}

// Path returns the file path this client is scoped to.
func (f *FileClient) Path() string {
	return f.path
}

// Create creates the file, empty.
func (f *FileClient) Create(ctx context.Context, opts ...dltypes.CreateOption) error {
	return f.client.CreateFile(ctx, f.path, opts...)
}

// Delete removes the file.
func (f *FileClient) Delete(ctx context.Context) error {
	return f.client.Delete(ctx, f.path, false)
}

// GetProperties retrieves the file's metadata.
func (f *FileClient) GetProperties(ctx context.Context) (*dltypes.PathProperties, error) {
	return f.client.GetProperties(ctx, f.path)
}

// UploadStream uploads a seekable stream to the file. See Client.UploadStream.
func (f *FileClient) UploadStream(
	ctx context.Context,
	body io.ReadSeeker,
	opts ...dltypes.UploadOption,
) (*dltypes.UploadResult, error) {
	return f.client.UploadStream(ctx, f.path, body, opts...)
}

// UploadBuffer uploads a byte slice to the file. See Client.UploadBuffer.
func (f *FileClient) UploadBuffer(
	ctx context.Context,
	data []byte,
	opts ...dltypes.UploadOption,
) (*dltypes.UploadResult, error) {
	return f.client.UploadBuffer(ctx, f.path, data, opts...)
}

// DownloadStream reads the file as a stream. See Client.DownloadStream.
func (f *FileClient) DownloadStream(
	ctx context.Context,
	opts ...dltypes.DownloadOption,
) (*dltypes.DownloadStreamResponse, error) {
	return f.client.DownloadStream(ctx, f.path, opts...)
}

// DownloadBuffer downloads the file into buf. See Client.DownloadBuffer.
func (f *FileClient) DownloadBuffer(
	ctx context.Context,
	buf []byte,
	opts ...dltypes.DownloadOption,
) (*dltypes.DownloadResult, error) {
	return f.client.DownloadBuffer(ctx, f.path, buf, opts...)
}
