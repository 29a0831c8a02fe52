// Package instrument provides unit tests for the tracing decorator.
package instrument

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/streaming"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/internal/dfsapi"
	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/internal/testutil"
)

func TestWrap_DelegatesEveryOperation(t *testing.T) {
	inner := &testutil.MockDFSClient{}
	client := Wrap(inner, nil)
	ctx := context.Background()

	_, err := client.Create(ctx, "p", dfsapi.ResourceFile, nil)
	require.NoError(t, err)
	_, err = client.AppendData(ctx, "p", 0, streaming.NopCloser(bytes.NewReader(nil)), nil)
	require.NoError(t, err)
	_, err = client.FlushData(ctx, "p", 0, nil)
	require.NoError(t, err)
	_, err = client.SetAccessControlRecursive(ctx, "p", dfsapi.ModeSet, "user::rwx", nil)
	require.NoError(t, err)
	_, err = client.Read(ctx, "p", nil)
	require.NoError(t, err)
	_, err = client.Delete(ctx, "p", nil)
	require.NoError(t, err)
	_, err = client.GetProperties(ctx, "p")
	require.NoError(t, err)

	assert.Equal(t, 7, inner.TotalCalls())
}

func TestWrap_PassesErrorsThrough(t *testing.T) {
	boom := errors.New("service unavailable")
	inner := &testutil.MockDFSClient{}
	inner.GetPropertiesFunc = func(ctx context.Context, path string) (dfsapi.GetPropertiesResponse, error) {
		return dfsapi.GetPropertiesResponse{}, boom
	}

	_, err := Wrap(inner, nil).GetProperties(context.Background(), "p")
	assert.ErrorIs(t, err, boom)
}
