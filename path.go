// Package datalake provides the path management operations.
package datalake

import (
	"context"
	"strings"

	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/dltypes"
	dlerrors "github.com/input-output-hk/catalyst-forge-libs/azure/datalake/errors"
	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/internal/dfsapi"
	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/internal/validation"
)

// CreateDirectory creates a directory at path. Parent directories are created
// implicitly by the service.
//
// Example:
//
//	err := client.CreateDirectory(ctx, "data/raw/2026-08",
//	    datalake.WithCreatePermissions("0755"),
//	)
func (c *Client) CreateDirectory(ctx context.Context, path string, opts ...dltypes.CreateOption) error {
	return c.createPath(ctx, "createDirectory", path, dfsapi.ResourceDirectory, opts)
}

// CreateFile creates an empty file at path. Uploads create their destination
// file themselves; this exists for callers that need the path before any data
// is written.
func (c *Client) CreateFile(ctx context.Context, path string, opts ...dltypes.CreateOption) error {
	return c.createPath(ctx, "createFile", path, dfsapi.ResourceFile, opts)
}

func (c *Client) createPath(
	ctx context.Context,
	op, path, resource string,
	opts []dltypes.CreateOption,
) error {
	if err := validation.ValidatePath(path); err != nil {
		return err
	}

	config := &dltypes.CreateOptionConfig{}
	for _, opt := range opts {
		opt(config)
	}

	_, err := c.dfsClient.Create(ctx, path, resource, &dfsapi.CreateOptions{
		Metadata:    config.Metadata,
		Permissions: config.Permissions,
		Umask:       config.Umask,
	})
	if err != nil {
		return dlerrors.NewPathError(op, path, err)
	}

	return nil
}

// Delete removes the file or directory at path. Deleting a non-empty
// directory requires recursive to be true.
//
// Example:
//
//	err := client.Delete(ctx, "data/tmp", true)
func (c *Client) Delete(ctx context.Context, path string, recursive bool) error {
	if err := validation.ValidatePath(path); err != nil {
		return err
	}

	_, err := c.dfsClient.Delete(ctx, path, &dfsapi.DeleteOptions{Recursive: recursive})
	if err != nil {
		return dlerrors.NewPathError("delete", path, err)
	}

	return nil
}

// GetProperties retrieves metadata about the file or directory at path without
// downloading any content.
//
// Returns:
//   - *PathProperties: Size, content type, ETag, modification time, resource
//     kind, and user metadata
//   - error: Returns an error if the path does not exist or cannot be read
func (c *Client) GetProperties(ctx context.Context, path string) (*dltypes.PathProperties, error) {
	if err := validation.ValidatePath(path); err != nil {
		return nil, err
	}

	resp, err := c.dfsClient.GetProperties(ctx, path)
	if err != nil {
		return nil, dlerrors.NewPathError("getProperties", path, err)
	}

	return &dltypes.PathProperties{
		ContentLength: resp.ContentLength,
		ContentType:   resp.ContentType,
		ETag:          resp.ETag,
		LastModified:  resp.LastModified,
		IsDirectory:   strings.EqualFold(resp.ResourceType, dfsapi.ResourceDirectory),
		Metadata:      resp.Metadata,
	}, nil
}
