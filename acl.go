// Package datalake provides the recursive access control operations.
package datalake

import (
	"context"

	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/dltypes"
	dlerrors "github.com/input-output-hk/catalyst-forge-libs/azure/datalake/errors"
	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/internal/dfsapi"
	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/internal/operations/aclrecursive"
	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/internal/validation"
)

// SetAccessControlRecursive replaces the access control list on the directory
// at path and every path beneath it. The change is applied in server-paced
// batches chained by a continuation token; counters are aggregated across
// batches and a progress callback can observe each batch as it completes.
//
// On a service failure partway through the tree, the returned error is a
// *errors.RecursiveChangeError carrying the continuation token as of the last
// successful batch; pass it back via WithContinuationToken to resume. Changes
// already applied are not rolled back.
//
// Returns:
//   - *RecursiveChangeResult: Aggregate counters and, when the operation
//     stopped at the configured batch cap, the token for the remaining work
//   - error: Returns an error if validation fails or a batch cannot be applied
//
// Example:
//
//	acl := []dltypes.AccessControlEntry{
//	    {AccessControlType: dltypes.ACLUser, Permissions: "rwx"},
//	    {AccessControlType: dltypes.ACLGroup, Permissions: "r-x"},
//	    {AccessControlType: dltypes.ACLOther, Permissions: "---"},
//	}
//	result, err := client.SetAccessControlRecursive(ctx, "data/raw", acl,
//	    datalake.WithBatchSize(2000),
//	    datalake.WithBatchProgress(func(ev dltypes.BatchProgressEvent) {
//	        log.Printf("changed %d so far", ev.AggregateCounters.ChangedFilesCount)
//	    }),
//	)
func (c *Client) SetAccessControlRecursive(
	ctx context.Context,
	path string,
	acl []dltypes.AccessControlEntry,
	opts ...dltypes.AccessControlOption,
) (*dltypes.RecursiveChangeResult, error) {
	return c.changeACLRecursive(
		ctx,
		"setAccessControlRecursive",
		path,
		dfsapi.ModeSet,
		dltypes.FormatAccessControlEntries(acl),
		len(acl),
		opts,
	)
}

// UpdateAccessControlRecursive merges the given entries into the existing
// access control list of the directory at path and every path beneath it.
// Batching, progress, and failure semantics match SetAccessControlRecursive.
func (c *Client) UpdateAccessControlRecursive(
	ctx context.Context,
	path string,
	acl []dltypes.AccessControlEntry,
	opts ...dltypes.AccessControlOption,
) (*dltypes.RecursiveChangeResult, error) {
	return c.changeACLRecursive(
		ctx,
		"updateAccessControlRecursive",
		path,
		dfsapi.ModeModify,
		dltypes.FormatAccessControlEntries(acl),
		len(acl),
		opts,
	)
}

// RemoveAccessControlRecursive removes the named entries from the access
// control list of the directory at path and every path beneath it. The entries
// carry no permissions, only the principal to remove. Batching, progress, and
// failure semantics match SetAccessControlRecursive.
func (c *Client) RemoveAccessControlRecursive(
	ctx context.Context,
	path string,
	acl []dltypes.RemoveAccessControlEntry,
	opts ...dltypes.AccessControlOption,
) (*dltypes.RecursiveChangeResult, error) {
	return c.changeACLRecursive(
		ctx,
		"removeAccessControlRecursive",
		path,
		dfsapi.ModeRemove,
		dltypes.FormatRemoveAccessControlEntries(acl),
		len(acl),
		opts,
	)
}

// changeACLRecursive validates the inputs and runs the batch loop for one
// recursive access control change. Validation failures never reach the wire.
func (c *Client) changeACLRecursive(
	ctx context.Context,
	op, path, mode, acl string,
	entryCount int,
	opts []dltypes.AccessControlOption,
) (*dltypes.RecursiveChangeResult, error) {
	if err := validation.ValidatePath(path); err != nil {
		return nil, err
	}
	if entryCount == 0 {
		return nil, dlerrors.NewPathError(op, path, dlerrors.ErrInvalidInput).
			WithMessage("access control list cannot be empty")
	}

	config := &dltypes.AccessControlOptionConfig{}
	for _, opt := range opts {
		opt(config)
	}
	if err := validation.ValidateBatchParams(
		config.BatchSize, config.BatchSizeSet,
		config.MaxBatches, config.MaxBatchesSet,
	); err != nil {
		return nil, err
	}

	propagator := aclrecursive.New(c.dfsClient)
	result, err := propagator.Change(ctx, path, mode, acl, &aclrecursive.Config{
		BatchSize:         config.BatchSize,
		MaxBatches:        config.MaxBatches,
		ContinuationToken: config.ContinuationToken,
		ContinueOnFailure: config.ContinueOnFailure,
		OnBatchProgress:   config.OnBatchProgress,
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
