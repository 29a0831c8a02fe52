// Package aclrecursive implements the recursive access control propagator: it
// walks an ACL change across a directory tree batch by batch, chained by the
// service's continuation token, and aggregates per-batch outcomes into a
// running total.
package aclrecursive

import (
	"context"

	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/dltypes"
	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/errors"
	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/internal/dfsapi"
)

// Propagator applies recursive access control changes through a path
// operations client.
type Propagator struct {
	client dfsapi.Client
}

// New creates a new Propagator instance.
func New(client dfsapi.Client) *Propagator {
	return &Propagator{
		client: client,
	}
}

// Config holds the parameters of one recursive change. Batch parameters are
// validated by the caller before the engine runs.
type Config struct {
	// BatchSize caps the paths changed per service call; zero leaves the
	// batch size to the service
	BatchSize int32

	// MaxBatches caps the number of batches before returning with a
	// continuation token; zero means run to completion
	MaxBatches int32

	// ContinuationToken resumes a previously interrupted change
	ContinuationToken string

	// ContinueOnFailure asks the service to keep processing after individual
	// entries fail instead of aborting the batch
	ContinueOnFailure bool

	// OnBatchProgress, if set, is invoked synchronously after each batch
	OnBatchProgress dltypes.BatchProgressFunc
}

// Change runs the batch loop for one recursive access control change. Each
// iteration issues one service call carrying the serialized ACL, the change
// mode, and the current continuation token, then folds the returned counters
// into the aggregate. The loop stops when the service returns an empty token
// or when MaxBatches batches have been processed; in the latter case the
// result carries the token for the remaining work.
//
// A service failure aborts the loop immediately. The returned error wraps the
// cause and carries the token as of the last successful batch so the caller
// can resume; progress already made server-side is not rolled back.
func (p *Propagator) Change(
	ctx context.Context,
	path, mode, acl string,
	cfg *Config,
) (*dltypes.RecursiveChangeResult, error) {
	result := &dltypes.RecursiveChangeResult{}
	token := cfg.ContinuationToken

	var batches int32
	for {
		options := &dfsapi.SetAccessControlRecursiveOptions{}
		if cfg.BatchSize > 0 {
			maxRecords := cfg.BatchSize
			options.MaxRecords = &maxRecords
		}
		if token != "" {
			continuation := token
			options.Continuation = &continuation
		}
		if cfg.ContinueOnFailure {
			force := true
			options.ForceFlag = &force
		}

		resp, err := p.client.SetAccessControlRecursive(ctx, path, mode, acl, options)
		if err != nil {
			return nil, errors.NewRecursiveChangeError(token, err)
		}

		batches++
		batch := dltypes.AccessControlChangeCounters{
			ChangedDirectoriesCount: resp.DirectoriesSuccessful,
			ChangedFilesCount:       resp.FilesSuccessful,
			FailedChangesCount:      resp.FailureCount,
		}
		result.Counters.Add(batch)
		token = resp.Continuation

		if cfg.OnBatchProgress != nil {
			cfg.OnBatchProgress(dltypes.BatchProgressEvent{
				BatchFailures:     convertFailures(resp.FailedEntries),
				BatchCounters:     batch,
				AggregateCounters: result.Counters,
				ContinuationToken: token,
			})
		}

		if token == "" {
			return result, nil
		}
		if cfg.MaxBatches > 0 && batches >= cfg.MaxBatches {
			result.ContinuationToken = token
			return result, nil
		}
	}
}

// convertFailures maps the wire failure entries to the public failure type.
func convertFailures(entries []dfsapi.ACLFailedEntry) []dltypes.AccessControlChangeFailure {
	if len(entries) == 0 {
		return nil
	}
	failures := make([]dltypes.AccessControlChangeFailure, len(entries))
	for i, entry := range entries {
		failures[i] = dltypes.AccessControlChangeFailure{
			Name:         entry.Name,
			IsDirectory:  entry.Type == "DIRECTORY",
			ErrorMessage: entry.ErrorMessage,
		}
	}
	return failures
}
