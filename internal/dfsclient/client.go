// Package dfsclient implements the Data Lake Gen2 path REST operations on top
// of the azcore pipeline. Request construction follows the generated storage
// client conventions: action and parameters on the query string, service
// headers on the raw request, typed responses decoded from headers and JSON
// bodies.
package dfsclient

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"

	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/internal/dfsapi"
)

// DefaultAPIVersion is the service version sent with every request.
const DefaultAPIVersion = "2023-11-03"

const (
	headerVersion      = "x-ms-version"
	headerACL          = "x-ms-acl"
	headerContinuation = "x-ms-continuation"
	headerProperties   = "x-ms-properties"
	headerPermissions  = "x-ms-permissions"
	headerUmask        = "x-ms-umask"
	headerContentType  = "x-ms-content-type"
	headerResourceType = "x-ms-resource-type"
	headerRequestID    = "x-ms-request-id"
	headerContentMD5   = "Content-MD5"
)

// Client issues path operations against a single Data Lake filesystem endpoint,
// e.g. https://account.dfs.core.windows.net/myfilesystem.
type Client struct {
	endpoint   string
	pl         runtime.Pipeline
	apiVersion string
}

// New creates a Client bound to the given filesystem endpoint and pipeline.
// An empty apiVersion selects DefaultAPIVersion.
func New(endpoint string, pl runtime.Pipeline, apiVersion string) *Client {
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		pl:         pl,
		apiVersion: apiVersion,
	}
}

// Endpoint returns the filesystem endpoint this client is bound to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// newPathRequest builds a request for the given path, carrying over at most one
// query string embedded in the path (a SAS token, typically).
func (c *Client) newPathRequest(ctx context.Context, method, path string) (*policy.Request, error) {
	pathPart, queryPart, _ := strings.Cut(path, "?")
	req, err := runtime.NewRequest(ctx, method, runtime.JoinPaths(c.endpoint, escapePath(pathPart)))
	if err != nil {
		return nil, err
	}
	if queryPart != "" {
		embedded, err := url.ParseQuery(queryPart)
		if err != nil {
			return nil, err
		}
		q := req.Raw().URL.Query()
		for name, values := range embedded {
			for _, v := range values {
				q.Add(name, v)
			}
		}
		req.Raw().URL.RawQuery = q.Encode()
	}
	req.Raw().Header.Set(headerVersion, c.apiVersion)
	req.Raw().Header.Set("Accept", "application/json")
	return req, nil
}

// Create implements dfsapi.Client.
func (c *Client) Create(
	ctx context.Context,
	path, resource string,
	options *dfsapi.CreateOptions,
) (dfsapi.CreateResponse, error) {
	req, err := c.newPathRequest(ctx, http.MethodPut, path)
	if err != nil {
		return dfsapi.CreateResponse{}, err
	}
	q := req.Raw().URL.Query()
	q.Set("resource", resource)
	req.Raw().URL.RawQuery = q.Encode()

	if options != nil {
		if len(options.Metadata) > 0 {
			req.Raw().Header.Set(headerProperties, encodeProperties(options.Metadata))
		}
		if options.Permissions != "" {
			req.Raw().Header.Set(headerPermissions, options.Permissions)
		}
		if options.Umask != "" {
			req.Raw().Header.Set(headerUmask, options.Umask)
		}
	}

	resp, err := c.pl.Do(req)
	if err != nil {
		return dfsapi.CreateResponse{}, err
	}
	defer drain(resp)
	if !runtime.HasStatusCode(resp, http.StatusCreated) {
		return dfsapi.CreateResponse{}, runtime.NewResponseError(resp)
	}
	return dfsapi.CreateResponse{
		ETag:         resp.Header.Get("ETag"),
		LastModified: parseHTTPTime(resp.Header.Get("Last-Modified")),
	}, nil
}

// AppendData implements dfsapi.Client. The body must be seekable so the
// pipeline's retry policy can rewind it.
func (c *Client) AppendData(
	ctx context.Context,
	path string,
	position int64,
	body io.ReadSeekCloser,
	options *dfsapi.AppendDataOptions,
) (dfsapi.AppendDataResponse, error) {
	req, err := c.newPathRequest(ctx, http.MethodPatch, path)
	if err != nil {
		return dfsapi.AppendDataResponse{}, err
	}
	q := req.Raw().URL.Query()
	q.Set("action", "append")
	q.Set("position", strconv.FormatInt(position, 10))
	req.Raw().URL.RawQuery = q.Encode()

	if options != nil && len(options.ContentMD5) > 0 {
		req.Raw().Header.Set(headerContentMD5, base64.StdEncoding.EncodeToString(options.ContentMD5))
	}
	if err := req.SetBody(body, "application/octet-stream"); err != nil {
		return dfsapi.AppendDataResponse{}, err
	}

	resp, err := c.pl.Do(req)
	if err != nil {
		return dfsapi.AppendDataResponse{}, err
	}
	defer drain(resp)
	if !runtime.HasStatusCode(resp, http.StatusAccepted) {
		return dfsapi.AppendDataResponse{}, runtime.NewResponseError(resp)
	}
	return dfsapi.AppendDataResponse{
		RequestID: resp.Header.Get(headerRequestID),
	}, nil
}

// FlushData implements dfsapi.Client. The flush body is always empty; position
// carries the total committed length.
func (c *Client) FlushData(
	ctx context.Context,
	path string,
	position int64,
	options *dfsapi.FlushDataOptions,
) (dfsapi.FlushDataResponse, error) {
	req, err := c.newPathRequest(ctx, http.MethodPatch, path)
	if err != nil {
		return dfsapi.FlushDataResponse{}, err
	}
	q := req.Raw().URL.Query()
	q.Set("action", "flush")
	q.Set("position", strconv.FormatInt(position, 10))
	if options != nil && options.Close {
		q.Set("close", "true")
	}
	req.Raw().URL.RawQuery = q.Encode()
	req.Raw().Header.Set("Content-Length", "0")
	if options != nil && options.ContentType != "" {
		req.Raw().Header.Set(headerContentType, options.ContentType)
	}

	resp, err := c.pl.Do(req)
	if err != nil {
		return dfsapi.FlushDataResponse{}, err
	}
	defer drain(resp)
	if !runtime.HasStatusCode(resp, http.StatusOK) {
		return dfsapi.FlushDataResponse{}, runtime.NewResponseError(resp)
	}
	length, _ := strconv.ParseInt(resp.Header.Get("Content-Length"), 10, 64)
	return dfsapi.FlushDataResponse{
		ETag:          resp.Header.Get("ETag"),
		LastModified:  parseHTTPTime(resp.Header.Get("Last-Modified")),
		ContentLength: length,
	}, nil
}

// setAccessControlRecursiveResponseBody is the JSON body returned by one
// recursive ACL batch.
type setAccessControlRecursiveResponseBody struct {
	DirectoriesSuccessful int64                   `json:"directoriesSuccessful"`
	FilesSuccessful       int64                   `json:"filesSuccessful"`
	FailureCount          int64                   `json:"failureCount"`
	FailedEntries         []dfsapi.ACLFailedEntry `json:"failedEntries"`
}

// SetAccessControlRecursive implements dfsapi.Client. The continuation token
// for remaining work is returned in the x-ms-continuation header.
func (c *Client) SetAccessControlRecursive(
	ctx context.Context,
	path, mode, acl string,
	options *dfsapi.SetAccessControlRecursiveOptions,
) (dfsapi.SetAccessControlRecursiveResponse, error) {
	req, err := c.newPathRequest(ctx, http.MethodPatch, path)
	if err != nil {
		return dfsapi.SetAccessControlRecursiveResponse{}, err
	}
	q := req.Raw().URL.Query()
	q.Set("action", "setAccessControlRecursive")
	q.Set("mode", mode)
	if options != nil {
		if options.MaxRecords != nil {
			q.Set("maxRecords", strconv.FormatInt(int64(*options.MaxRecords), 10))
		}
		if options.Continuation != nil && *options.Continuation != "" {
			q.Set("continuation", *options.Continuation)
		}
		if options.ForceFlag != nil {
			q.Set("forceFlag", strconv.FormatBool(*options.ForceFlag))
		}
	}
	req.Raw().URL.RawQuery = q.Encode()
	req.Raw().Header.Set(headerACL, acl)

	resp, err := c.pl.Do(req)
	if err != nil {
		return dfsapi.SetAccessControlRecursiveResponse{}, err
	}
	if !runtime.HasStatusCode(resp, http.StatusOK) {
		return dfsapi.SetAccessControlRecursiveResponse{}, runtime.NewResponseError(resp)
	}
	var body setAccessControlRecursiveResponseBody
	if err := runtime.UnmarshalAsJSON(resp, &body); err != nil {
		return dfsapi.SetAccessControlRecursiveResponse{}, err
	}
	return dfsapi.SetAccessControlRecursiveResponse{
		Continuation:          resp.Header.Get(headerContinuation),
		DirectoriesSuccessful: body.DirectoriesSuccessful,
		FilesSuccessful:       body.FilesSuccessful,
		FailureCount:          body.FailureCount,
		FailedEntries:         body.FailedEntries,
	}, nil
}

// Read implements dfsapi.Client. The response body is returned open; the
// caller must close it.
func (c *Client) Read(
	ctx context.Context,
	path string,
	options *dfsapi.ReadOptions,
) (dfsapi.ReadResponse, error) {
	req, err := c.newPathRequest(ctx, http.MethodGet, path)
	if err != nil {
		return dfsapi.ReadResponse{}, err
	}
	if options != nil && options.Range != "" {
		req.Raw().Header.Set("Range", options.Range)
	}
	// The body is streamed to the caller, not buffered by the pipeline.
	runtime.SkipBodyDownload(req)

	resp, err := c.pl.Do(req)
	if err != nil {
		return dfsapi.ReadResponse{}, err
	}
	if !runtime.HasStatusCode(resp, http.StatusOK, http.StatusPartialContent) {
		return dfsapi.ReadResponse{}, runtime.NewResponseError(resp)
	}
	length, _ := strconv.ParseInt(resp.Header.Get("Content-Length"), 10, 64)
	return dfsapi.ReadResponse{
		Body:          resp.Body,
		ContentLength: length,
		ContentRange:  resp.Header.Get("Content-Range"),
		ContentType:   resp.Header.Get("Content-Type"),
		ETag:          resp.Header.Get("ETag"),
	}, nil
}

// Delete implements dfsapi.Client.
func (c *Client) Delete(
	ctx context.Context,
	path string,
	options *dfsapi.DeleteOptions,
) (dfsapi.DeleteResponse, error) {
	req, err := c.newPathRequest(ctx, http.MethodDelete, path)
	if err != nil {
		return dfsapi.DeleteResponse{}, err
	}
	if options != nil && options.Recursive {
		q := req.Raw().URL.Query()
		q.Set("recursive", "true")
		req.Raw().URL.RawQuery = q.Encode()
	}

	resp, err := c.pl.Do(req)
	if err != nil {
		return dfsapi.DeleteResponse{}, err
	}
	defer drain(resp)
	if !runtime.HasStatusCode(resp, http.StatusOK, http.StatusAccepted) {
		return dfsapi.DeleteResponse{}, runtime.NewResponseError(resp)
	}
	return dfsapi.DeleteResponse{
		RequestID: resp.Header.Get(headerRequestID),
	}, nil
}

// GetProperties implements dfsapi.Client.
func (c *Client) GetProperties(ctx context.Context, path string) (dfsapi.GetPropertiesResponse, error) {
	req, err := c.newPathRequest(ctx, http.MethodHead, path)
	if err != nil {
		return dfsapi.GetPropertiesResponse{}, err
	}

	resp, err := c.pl.Do(req)
	if err != nil {
		return dfsapi.GetPropertiesResponse{}, err
	}
	defer drain(resp)
	if !runtime.HasStatusCode(resp, http.StatusOK) {
		return dfsapi.GetPropertiesResponse{}, runtime.NewResponseError(resp)
	}
	length, _ := strconv.ParseInt(resp.Header.Get("Content-Length"), 10, 64)
	return dfsapi.GetPropertiesResponse{
		ContentLength: length,
		ContentType:   resp.Header.Get("Content-Type"),
		ETag:          resp.Header.Get("ETag"),
		LastModified:  parseHTTPTime(resp.Header.Get("Last-Modified")),
		ResourceType:  resp.Header.Get(headerResourceType),
		Metadata:      decodeProperties(resp.Header.Get(headerProperties)),
	}, nil
}

// Verify that Client implements the path operations interface.
var _ dfsapi.Client = (*Client)(nil)
