// Package errors provides unit tests for the Data Lake error types.
package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Formatting(t *testing.T) {
	base := stderrors.New("boom")

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "operation only",
			err:  NewError("upload", base),
			want: "datalake.upload: boom",
		},
		{
			name: "with path",
			err:  NewPathError("delete", "data/raw", base),
			want: "datalake.delete path data/raw: boom",
		},
		{
			name: "with filesystem",
			err:  NewError("createDirectory", base).WithFilesystem("myfs"),
			want: "datalake.createDirectory filesystem myfs: boom",
		},
		{
			name: "with filesystem and path",
			err:  NewPathError("download", "data/file.bin", base).WithFilesystem("myfs"),
			want: "datalake.download myfs/data/file.bin: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	base := stderrors.New("boom")
	err := NewPathError("upload", "data/x", base)

	assert.ErrorIs(t, err, base)
	assert.Equal(t, base, stderrors.Unwrap(err))
}

func TestError_WithMessage(t *testing.T) {
	err := NewError("upload", ErrInvalidInput).WithMessage("body cannot be nil")

	assert.Contains(t, err.Error(), "body cannot be nil")
	assert.True(t, IsInvalidInput(err))
}

func TestRecursiveChangeError(t *testing.T) {
	base := stderrors.New("503 service busy")
	err := NewRecursiveChangeError("token-17", base)

	assert.Equal(t, "token-17", err.ContinuationToken)
	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), "recursive access control change failed")

	var rce *RecursiveChangeError
	wrapped := fmt.Errorf("operation failed: %w", err)
	require.ErrorAs(t, wrapped, &rce)
	assert.Equal(t, "token-17", rce.ContinuationToken)
}

func TestSentinelHelpers(t *testing.T) {
	tests := []struct {
		name  string
		check func(error) bool
		err   error
		want  bool
	}{
		{name: "invalid input direct", check: IsInvalidInput, err: ErrInvalidInput, want: true},
		{name: "invalid input wrapped", check: IsInvalidInput, err: NewError("op", ErrInvalidInput), want: true},
		{name: "invalid input mismatch", check: IsInvalidInput, err: ErrPathNotFound, want: false},
		{name: "path not found wrapped", check: IsPathNotFound, err: NewPathError("op", "p", ErrPathNotFound), want: true},
		{name: "already exists wrapped", check: IsPathAlreadyExists, err: NewError("op", ErrPathAlreadyExists), want: true},
		{name: "file too large wrapped", check: IsFileTooLarge, err: NewError("op", ErrFileTooLarge), want: true},
		{name: "access denied wrapped", check: IsAccessDenied, err: NewError("op", ErrAccessDenied), want: true},
		{name: "nil error", check: IsInvalidInput, err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(tt.err))
		})
	}
}
