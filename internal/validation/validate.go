// Package validation provides centralized input validation logic.
// All parameters are validated before any network call so malformed requests
// never reach the service.
package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/dltypes"
	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/errors"
)

// ValidatePath validates a file or directory path within a filesystem.
// A path may carry at most one query string (a SAS token appended by the
// caller); more than one query separator is always a construction mistake.
func ValidatePath(path string) error {
	if path == "" {
		return errors.NewError("validatePath", errors.ErrInvalidInput).
			WithMessage("path cannot be empty")
	}
	if strings.Count(path, "?") > 1 {
		return errors.NewPathError("validatePath", path, errors.ErrInvalidInput).
			WithMessage("path cannot contain more than one query string separator")
	}
	for _, char := range path {
		if unicode.IsControl(char) {
			return errors.NewPathError("validatePath", path, errors.ErrInvalidInput).
				WithMessage("path cannot contain control characters")
		}
	}
	return nil
}

// ValidateBatchParams validates the batch parameters of a recursive access
// control change. A parameter the caller did not supply is not checked.
func ValidateBatchParams(batchSize int32, batchSizeSet bool, maxBatches int32, maxBatchesSet bool) error {
	if batchSizeSet && batchSize < 1 {
		return errors.NewError("validateBatchParams", errors.ErrInvalidInput).
			WithMessage(fmt.Sprintf("batch size must be at least 1, got %d", batchSize))
	}
	if maxBatchesSet && maxBatches < 1 {
		return errors.NewError("validateBatchParams", errors.ErrInvalidInput).
			WithMessage(fmt.Sprintf("max batches must be at least 1, got %d", maxBatches))
	}
	return nil
}

// TransferPlan describes how a payload is split into chunks. It is derived
// once per transfer and immutable thereafter.
type TransferPlan struct {
	// TotalSize is the payload size in bytes
	TotalSize int64

	// ChunkSize is the size of every chunk except possibly the last
	ChunkSize int64

	// ChunkCount is ceil(TotalSize / ChunkSize); zero for an empty payload
	ChunkCount int64

	// Concurrency is the maximum number of chunks in flight
	Concurrency int
}

// PlanTransfer validates transfer parameters against the service limits and
// derives the chunking plan. A zero chunkSize selects the larger of the
// default chunk size and the smallest chunk size that fits the payload within
// the service's block budget.
func PlanTransfer(totalSize, chunkSize int64, concurrency int) (TransferPlan, error) {
	if totalSize < 0 {
		return TransferPlan{}, errors.NewError("planTransfer", errors.ErrInvalidInput).
			WithMessage("size cannot be negative")
	}
	if totalSize > dltypes.MaxFileSize {
		return TransferPlan{}, errors.NewError("planTransfer", errors.ErrFileTooLarge).
			WithMessage(fmt.Sprintf("size %d exceeds the %d byte service maximum", totalSize, dltypes.MaxFileSize))
	}
	if concurrency <= 0 {
		return TransferPlan{}, errors.NewError("planTransfer", errors.ErrInvalidInput).
			WithMessage(fmt.Sprintf("concurrency must be positive, got %d", concurrency))
	}

	if chunkSize == 0 {
		chunkSize = dltypes.DefaultChunkSize
		if smallest := ceilDiv(totalSize, dltypes.MaxBlocks); smallest > chunkSize {
			chunkSize = smallest
		}
	}
	if chunkSize < 1 || chunkSize > dltypes.MaxAppendBytes {
		return TransferPlan{}, errors.NewError("planTransfer", errors.ErrInvalidInput).
			WithMessage(fmt.Sprintf("chunk size must be within [1, %d], got %d", dltypes.MaxAppendBytes, chunkSize))
	}

	chunkCount := ceilDiv(totalSize, chunkSize)
	if chunkCount > dltypes.MaxBlocks {
		return TransferPlan{}, errors.NewError("planTransfer", errors.ErrInvalidInput).
			WithMessage(fmt.Sprintf("size %d with chunk size %d needs %d chunks, above the %d block limit",
				totalSize, chunkSize, chunkCount, dltypes.MaxBlocks))
	}

	return TransferPlan{
		TotalSize:   totalSize,
		ChunkSize:   chunkSize,
		ChunkCount:  chunkCount,
		Concurrency: concurrency,
	}, nil
}

// ceilDiv returns ceil(a / b) for non-negative a and positive b.
func ceilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}
