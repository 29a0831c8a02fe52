// Package dfsclient provides wire-level tests against a local HTTP server.
package dfsclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/streaming"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/internal/dfsapi"
)

// newTestClient starts a local server for handler and returns a Client bound
// to it through a plain pipeline.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	pl := runtime.NewPipeline("dfsclient.test", "v0.0.0", runtime.PipelineOptions{}, &policy.ClientOptions{
		Retry: policy.RetryOptions{MaxRetries: -1},
	})
	return New(server.URL+"/myfilesystem", pl, "")
}

func TestClient_Create(t *testing.T) {
	var seen *http.Request
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = r.Clone(context.Background())
		w.Header().Set("ETag", "etag-created")
		w.Header().Set("Last-Modified", "Mon, 03 Aug 2026 10:00:00 GMT")
		w.WriteHeader(http.StatusCreated)
	})

	resp, err := client.Create(context.Background(), "data/raw", dfsapi.ResourceDirectory, &dfsapi.CreateOptions{
		Metadata:    map[string]string{"owner": "ops"},
		Permissions: "0755",
		Umask:       "0022",
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, seen.Method)
	assert.Equal(t, "/myfilesystem/data/raw", seen.URL.Path)
	assert.Equal(t, "directory", seen.URL.Query().Get("resource"))
	assert.Equal(t, DefaultAPIVersion, seen.Header.Get("x-ms-version"))
	assert.Equal(t, "0755", seen.Header.Get("x-ms-permissions"))
	assert.Equal(t, "0022", seen.Header.Get("x-ms-umask"))
	assert.Equal(t, "owner="+base64.StdEncoding.EncodeToString([]byte("ops")), seen.Header.Get("x-ms-properties"))

	assert.Equal(t, "etag-created", resp.ETag)
	assert.Equal(t, time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC), resp.LastModified)
}

func TestClient_AppendData(t *testing.T) {
	var seen *http.Request
	var seenBody []byte
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = r.Clone(context.Background())
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		seenBody = body
		w.Header().Set("x-ms-request-id", "req-1")
		w.WriteHeader(http.StatusAccepted)
	})

	chunk := []byte("chunk payload")
	resp, err := client.AppendData(context.Background(), "data/file.bin", 4096,
		streaming.NopCloser(bytes.NewReader(chunk)), nil)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPatch, seen.Method)
	assert.Equal(t, "append", seen.URL.Query().Get("action"))
	assert.Equal(t, "4096", seen.URL.Query().Get("position"))
	assert.Equal(t, chunk, seenBody)
	assert.Equal(t, "req-1", resp.RequestID)
}

func TestClient_FlushData(t *testing.T) {
	var seen *http.Request
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = r.Clone(context.Background())
		w.Header().Set("ETag", "etag-flushed")
		w.WriteHeader(http.StatusOK)
	})

	resp, err := client.FlushData(context.Background(), "data/file.bin", 8192, &dfsapi.FlushDataOptions{
		Close:       true,
		ContentType: "application/json",
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPatch, seen.Method)
	assert.Equal(t, "flush", seen.URL.Query().Get("action"))
	assert.Equal(t, "8192", seen.URL.Query().Get("position"))
	assert.Equal(t, "true", seen.URL.Query().Get("close"))
	assert.Equal(t, "application/json", seen.Header.Get("x-ms-content-type"))
	assert.Equal(t, "etag-flushed", resp.ETag)
}

func TestClient_SetAccessControlRecursive(t *testing.T) {
	var seen *http.Request
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = r.Clone(context.Background())
		w.Header().Set("x-ms-continuation", "next-token")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"directoriesSuccessful": 3,
			"filesSuccessful":       15,
			"failureCount":          1,
			"failedEntries": []map[string]string{
				{"name": "data/locked.bin", "type": "FILE", "errorMessage": "access denied"},
			},
		})
	})

	maxRecords := int32(100)
	continuation := "prior-token"
	force := true
	resp, err := client.SetAccessControlRecursive(context.Background(), "data", "set",
		"user::rwx,group::r-x,other::---",
		&dfsapi.SetAccessControlRecursiveOptions{
			MaxRecords:   &maxRecords,
			Continuation: &continuation,
			ForceFlag:    &force,
		})
	require.NoError(t, err)

	assert.Equal(t, "setAccessControlRecursive", seen.URL.Query().Get("action"))
	assert.Equal(t, "set", seen.URL.Query().Get("mode"))
	assert.Equal(t, "100", seen.URL.Query().Get("maxRecords"))
	assert.Equal(t, "prior-token", seen.URL.Query().Get("continuation"))
	assert.Equal(t, "true", seen.URL.Query().Get("forceFlag"))
	assert.Equal(t, "user::rwx,group::r-x,other::---", seen.Header.Get("x-ms-acl"))

	assert.Equal(t, "next-token", resp.Continuation)
	assert.Equal(t, int64(3), resp.DirectoriesSuccessful)
	assert.Equal(t, int64(15), resp.FilesSuccessful)
	assert.Equal(t, int64(1), resp.FailureCount)
	require.Len(t, resp.FailedEntries, 1)
	assert.Equal(t, "data/locked.bin", resp.FailedEntries[0].Name)
	assert.Equal(t, "FILE", resp.FailedEntries[0].Type)
}

func TestClient_Read(t *testing.T) {
	content := []byte("ranged content")
	var seenRange string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seenRange = r.Header.Get("Range")
		w.Header().Set("Content-Range", "bytes 0-13/14")
		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set("ETag", "etag-read")
		w.WriteHeader(http.StatusPartialContent)
		_, _ = w.Write(content)
	})

	resp, err := client.Read(context.Background(), "data/file.txt", &dfsapi.ReadOptions{
		Range: "bytes=0-13",
	})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "bytes=0-13", seenRange)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, content, body)
	assert.Equal(t, "bytes 0-13/14", resp.ContentRange)
	assert.Equal(t, "etag-read", resp.ETag)
}

func TestClient_Delete(t *testing.T) {
	var seen *http.Request
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = r.Clone(context.Background())
		w.Header().Set("x-ms-request-id", "req-del")
		w.WriteHeader(http.StatusOK)
	})

	resp, err := client.Delete(context.Background(), "data/tmp", &dfsapi.DeleteOptions{Recursive: true})
	require.NoError(t, err)

	assert.Equal(t, http.MethodDelete, seen.Method)
	assert.Equal(t, "true", seen.URL.Query().Get("recursive"))
	assert.Equal(t, "req-del", resp.RequestID)
}

func TestClient_GetProperties(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.Header().Set("Content-Length", "2048")
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("ETag", "etag-props")
		w.Header().Set("x-ms-resource-type", "directory")
		w.Header().Set("x-ms-properties", "team="+base64.StdEncoding.EncodeToString([]byte("platform")))
		w.WriteHeader(http.StatusOK)
	})

	resp, err := client.GetProperties(context.Background(), "data/raw")
	require.NoError(t, err)

	assert.Equal(t, int64(2048), resp.ContentLength)
	assert.Equal(t, "text/csv", resp.ContentType)
	assert.Equal(t, "etag-props", resp.ETag)
	assert.Equal(t, "directory", resp.ResourceType)
	assert.Equal(t, "platform", resp.Metadata["team"])
}

func TestClient_UnexpectedStatusIsResponseError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	_, err := client.GetProperties(context.Background(), "data/missing")
	require.Error(t, err)

	var respErr *azcore.ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusNotFound, respErr.StatusCode)
}

func TestClient_SASQueryCarriedOver(t *testing.T) {
	var seen *http.Request
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = r.Clone(context.Background())
		w.WriteHeader(http.StatusOK)
	})

	_, err := client.GetProperties(context.Background(), "data/file.bin?sv=2023&sig=abc123")
	require.NoError(t, err)

	assert.Equal(t, "/myfilesystem/data/file.bin", seen.URL.Path)
	assert.Equal(t, "2023", seen.URL.Query().Get("sv"))
	assert.Equal(t, "abc123", seen.URL.Query().Get("sig"))
}

func TestEscapePath(t *testing.T) {
	assert.Equal(t, "data/report%202026.csv", escapePath("data/report 2026.csv"))
	assert.Equal(t, "data/raw", escapePath("/data/raw/"))
}

func TestEncodeDecodeProperties(t *testing.T) {
	metadata := map[string]string{"owner": "ops", "team": "platform"}

	encoded := encodeProperties(metadata)
	assert.Equal(t,
		"owner="+base64.StdEncoding.EncodeToString([]byte("ops"))+
			",team="+base64.StdEncoding.EncodeToString([]byte("platform")),
		encoded)

	decoded := decodeProperties(encoded)
	assert.Equal(t, metadata, decoded)

	assert.Nil(t, decodeProperties(""))
	assert.Nil(t, decodeProperties("not-a-pair"))
}
