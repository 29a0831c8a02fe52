// Package download provides unit tests for the chunked download engine.
package download

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/dltypes"
	dlerrors "github.com/input-output-hk/catalyst-forge-libs/azure/datalake/errors"
	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/internal/dfsapi"
	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/internal/testutil"
)

// remoteFile builds a mock that serves ranged reads over content and reports
// its length through GetProperties.
func remoteFile(t *testing.T, content []byte, etag string) *testutil.MockDFSClient {
	t.Helper()
	mock := &testutil.MockDFSClient{}
	mock.GetPropertiesFunc = func(ctx context.Context, path string) (dfsapi.GetPropertiesResponse, error) {
		return dfsapi.GetPropertiesResponse{
			ContentLength: int64(len(content)),
			ETag:          etag,
		}, nil
	}
	mock.ReadFunc = func(ctx context.Context, path string, options *dfsapi.ReadOptions) (dfsapi.ReadResponse, error) {
		start, end, err := parseRange(options.Range)
		require.NoError(t, err)
		require.LessOrEqual(t, end, int64(len(content))-1, "range %q beyond content", options.Range)
		section := content[start : end+1]
		return dfsapi.ReadResponse{
			Body:          io.NopCloser(bytes.NewReader(section)),
			ContentLength: int64(len(section)),
		}, nil
	}
	return mock
}

func parseRange(r string) (int64, int64, error) {
	spec, ok := strings.CutPrefix(r, "bytes=")
	if !ok {
		return 0, 0, fmt.Errorf("unexpected range %q", r)
	}
	startStr, endStr, ok := strings.Cut(spec, "-")
	if !ok {
		return 0, 0, fmt.Errorf("unexpected range %q", r)
	}
	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil {
		return 0, 0, err
	}
	end, err := strconv.ParseInt(endStr, 10, 64)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// writerAtBuffer is an in-memory io.WriterAt destination.
type writerAtBuffer struct {
	buf []byte
}

func (w *writerAtBuffer) WriteAt(p []byte, off int64) (int, error) {
	copy(w.buf[off:], p)
	return len(p), nil
}

func testContent(size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 239)
	}
	return data
}

func TestDownloader_Download_WholeFile(t *testing.T) {
	content := testContent(10 * 1024)
	mock := remoteFile(t, content, "etag-1")
	dst := &writerAtBuffer{buf: make([]byte, len(content))}

	result, err := New(mock).Download(context.Background(), "data/file.bin", dst, &Config{
		ChunkSize:   4 * 1024,
		Concurrency: 3,
	}, time.Now())
	require.NoError(t, err)

	// 10 KB in 4 KB chunks is three ranged reads.
	assert.Equal(t, 1, mock.GetPropertiesCalls())
	assert.Equal(t, 3, mock.ReadCalls())
	assert.Equal(t, int64(len(content)), result.Size)
	assert.Equal(t, "etag-1", result.ETag)
	assert.Equal(t, content, dst.buf)
}

func TestDownloader_Download_RangeWithCount(t *testing.T) {
	content := testContent(10 * 1024)
	mock := remoteFile(t, content, "etag-1")
	dst := &writerAtBuffer{buf: make([]byte, 3*1024)}

	result, err := New(mock).Download(context.Background(), "data/file.bin", dst, &Config{
		ChunkSize:   1024,
		Concurrency: 2,
		Range:       &dltypes.HTTPRange{Offset: 2048, Count: 3 * 1024},
	}, time.Now())
	require.NoError(t, err)

	// A pinned range needs no properties call.
	assert.Equal(t, 0, mock.GetPropertiesCalls())
	assert.Equal(t, 3, mock.ReadCalls())
	assert.Equal(t, int64(3*1024), result.Size)
	assert.Equal(t, content[2048:2048+3*1024], dst.buf)
}

func TestDownloader_Download_OpenEndedRange(t *testing.T) {
	content := testContent(5 * 1024)
	mock := remoteFile(t, content, "etag-1")
	dst := &writerAtBuffer{buf: make([]byte, 1024)}

	result, err := New(mock).Download(context.Background(), "data/file.bin", dst, &Config{
		ChunkSize:   4 * 1024,
		Concurrency: 2,
		Range:       &dltypes.HTTPRange{Offset: 4 * 1024},
	}, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 1, mock.GetPropertiesCalls())
	assert.Equal(t, int64(1024), result.Size)
	assert.Equal(t, content[4*1024:], dst.buf)
}

func TestDownloader_Download_EmptyFile(t *testing.T) {
	mock := remoteFile(t, nil, "etag-empty")
	dst := &writerAtBuffer{buf: nil}

	result, err := New(mock).Download(context.Background(), "data/empty.bin", dst, &Config{}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Size)
	assert.Equal(t, 0, mock.ReadCalls())
	assert.Equal(t, "etag-empty", result.ETag)
}

func TestDownloader_Download_OffsetBeyondFile(t *testing.T) {
	mock := remoteFile(t, testContent(100), "etag-1")
	dst := &writerAtBuffer{buf: make([]byte, 10)}

	_, err := New(mock).Download(context.Background(), "data/file.bin", dst, &Config{
		Range: &dltypes.HTTPRange{Offset: 200},
	}, time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, dlerrors.ErrInvalidRange)
	assert.Equal(t, 0, mock.ReadCalls())
}

func TestDownloader_Download_ProgressMonotoneAndComplete(t *testing.T) {
	content := testContent(10 * 1024)
	mock := remoteFile(t, content, "etag-1")
	dst := &writerAtBuffer{buf: make([]byte, len(content))}
	recorder := &testutil.ProgressRecorder{}

	_, err := New(mock).Download(context.Background(), "data/file.bin", dst, &Config{
		ChunkSize:   2 * 1024,
		Concurrency: 3,
		Progress:    recorder.Record,
	}, time.Now())
	require.NoError(t, err)

	assert.True(t, recorder.IsMonotonic())
	assert.Equal(t, int64(len(content)), recorder.Last())
	assert.Len(t, recorder.Values(), 5)
}

func TestDownloader_Download_ConcurrencyBound(t *testing.T) {
	const concurrency = 2

	content := testContent(16 * 1024)
	gauge := &testutil.ConcurrencyGauge{}

	inner := remoteFile(t, content, "etag-1")
	mock := &testutil.MockDFSClient{
		GetPropertiesFunc: inner.GetPropertiesFunc,
		ReadFunc: func(ctx context.Context, path string, options *dfsapi.ReadOptions) (dfsapi.ReadResponse, error) {
			gauge.Enter()
			defer gauge.Exit()
			time.Sleep(2 * time.Millisecond)
			return inner.ReadFunc(ctx, path, options)
		},
	}

	dst := &writerAtBuffer{buf: make([]byte, len(content))}
	_, err := New(mock).Download(context.Background(), "data/file.bin", dst, &Config{
		ChunkSize:   1024,
		Concurrency: concurrency,
	}, time.Now())
	require.NoError(t, err)
	assert.LessOrEqual(t, gauge.Max(), concurrency)
	assert.Equal(t, content, dst.buf)
}

func TestDownloader_Download_ReadFailureAborts(t *testing.T) {
	boom := errors.New("read timeout")
	mock := &testutil.MockDFSClient{}
	mock.GetPropertiesFunc = func(ctx context.Context, path string) (dfsapi.GetPropertiesResponse, error) {
		return dfsapi.GetPropertiesResponse{ContentLength: 8 * 1024}, nil
	}
	mock.ReadFunc = func(ctx context.Context, path string, options *dfsapi.ReadOptions) (dfsapi.ReadResponse, error) {
		return dfsapi.ReadResponse{}, boom
	}

	dst := &writerAtBuffer{buf: make([]byte, 8*1024)}
	_, err := New(mock).Download(context.Background(), "data/file.bin", dst, &Config{
		ChunkSize:   1024,
		Concurrency: 1,
	}, time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestFormatRange(t *testing.T) {
	assert.Equal(t, "bytes=0-1023", FormatRange(0, 1024))
	assert.Equal(t, "bytes=4096-4096", FormatRange(4096, 1))
}
