// Package testutil provides test utilities and mocks for Data Lake operations.
// This package is internal and should only be used for testing within the
// datalake module.
package testutil

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/internal/dfsapi"
)

// MockDFSClient is a mock implementation of the dfsapi.Client interface for
// testing. It allows customization of each path operation through function
// fields and counts every call so tests can assert on wire traffic.
type MockDFSClient struct {
	CreateFunc func(context.Context, string, string, *dfsapi.CreateOptions) (dfsapi.CreateResponse, error)
	AppendDataFunc func(
		context.Context,
		string,
		int64,
		io.ReadSeekCloser,
		*dfsapi.AppendDataOptions,
	) (dfsapi.AppendDataResponse, error)
	FlushDataFunc func(context.Context, string, int64, *dfsapi.FlushDataOptions) (dfsapi.FlushDataResponse, error)
	SetAccessControlRecursiveFunc func(
		context.Context,
		string,
		string,
		string,
		*dfsapi.SetAccessControlRecursiveOptions,
	) (dfsapi.SetAccessControlRecursiveResponse, error)
	ReadFunc          func(context.Context, string, *dfsapi.ReadOptions) (dfsapi.ReadResponse, error)
	DeleteFunc        func(context.Context, string, *dfsapi.DeleteOptions) (dfsapi.DeleteResponse, error)
	GetPropertiesFunc func(context.Context, string) (dfsapi.GetPropertiesResponse, error)

	createCalls        int64
	appendCalls        int64
	flushCalls         int64
	setACLCalls        int64
	readCalls          int64
	deleteCalls        int64
	getPropertiesCalls int64
}

// CreateCalls returns the number of Create invocations (safe for concurrent access).
func (m *MockDFSClient) CreateCalls() int { return int(atomic.LoadInt64(&m.createCalls)) }

// AppendCalls returns the number of AppendData invocations (safe for concurrent access).
func (m *MockDFSClient) AppendCalls() int { return int(atomic.LoadInt64(&m.appendCalls)) }

// FlushCalls returns the number of FlushData invocations (safe for concurrent access).
func (m *MockDFSClient) FlushCalls() int { return int(atomic.LoadInt64(&m.flushCalls)) }

// SetACLCalls returns the number of SetAccessControlRecursive invocations.
func (m *MockDFSClient) SetACLCalls() int { return int(atomic.LoadInt64(&m.setACLCalls)) }

// ReadCalls returns the number of Read invocations (safe for concurrent access).
func (m *MockDFSClient) ReadCalls() int { return int(atomic.LoadInt64(&m.readCalls)) }

// DeleteCalls returns the number of Delete invocations (safe for concurrent access).
func (m *MockDFSClient) DeleteCalls() int { return int(atomic.LoadInt64(&m.deleteCalls)) }

// GetPropertiesCalls returns the number of GetProperties invocations.
func (m *MockDFSClient) GetPropertiesCalls() int { return int(atomic.LoadInt64(&m.getPropertiesCalls)) }

// TotalCalls returns the number of invocations across every operation.
func (m *MockDFSClient) TotalCalls() int {
	return m.CreateCalls() + m.AppendCalls() + m.FlushCalls() + m.SetACLCalls() +
		m.ReadCalls() + m.DeleteCalls() + m.GetPropertiesCalls()
}

// Create mocks the path Create operation.
func (m *MockDFSClient) Create(
	ctx context.Context,
	path, resource string,
	options *dfsapi.CreateOptions,
) (dfsapi.CreateResponse, error) {
	atomic.AddInt64(&m.createCalls, 1)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, path, resource, options)
	}
	return dfsapi.CreateResponse{}, nil
}

// AppendData mocks the path AppendData operation.
func (m *MockDFSClient) AppendData(
	ctx context.Context,
	path string,
	position int64,
	body io.ReadSeekCloser,
	options *dfsapi.AppendDataOptions,
) (dfsapi.AppendDataResponse, error) {
	atomic.AddInt64(&m.appendCalls, 1)
	if m.AppendDataFunc != nil {
		return m.AppendDataFunc(ctx, path, position, body, options)
	}
	return dfsapi.AppendDataResponse{}, nil
}

// FlushData mocks the path FlushData operation.
func (m *MockDFSClient) FlushData(
	ctx context.Context,
	path string,
	position int64,
	options *dfsapi.FlushDataOptions,
) (dfsapi.FlushDataResponse, error) {
	atomic.AddInt64(&m.flushCalls, 1)
	if m.FlushDataFunc != nil {
		return m.FlushDataFunc(ctx, path, position, options)
	}
	return dfsapi.FlushDataResponse{}, nil
}

// SetAccessControlRecursive mocks one recursive access control batch.
func (m *MockDFSClient) SetAccessControlRecursive(
	ctx context.Context,
	path, mode, acl string,
	options *dfsapi.SetAccessControlRecursiveOptions,
) (dfsapi.SetAccessControlRecursiveResponse, error) {
	atomic.AddInt64(&m.setACLCalls, 1)
	if m.SetAccessControlRecursiveFunc != nil {
		return m.SetAccessControlRecursiveFunc(ctx, path, mode, acl, options)
	}
	return dfsapi.SetAccessControlRecursiveResponse{}, nil
}

// Read mocks the path Read operation.
func (m *MockDFSClient) Read(
	ctx context.Context,
	path string,
	options *dfsapi.ReadOptions,
) (dfsapi.ReadResponse, error) {
	atomic.AddInt64(&m.readCalls, 1)
	if m.ReadFunc != nil {
		return m.ReadFunc(ctx, path, options)
	}
	return dfsapi.ReadResponse{}, nil
}

// Delete mocks the path Delete operation.
func (m *MockDFSClient) Delete(
	ctx context.Context,
	path string,
	options *dfsapi.DeleteOptions,
) (dfsapi.DeleteResponse, error) {
	atomic.AddInt64(&m.deleteCalls, 1)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, path, options)
	}
	return dfsapi.DeleteResponse{}, nil
}

// GetProperties mocks the path GetProperties operation.
func (m *MockDFSClient) GetProperties(ctx context.Context, path string) (dfsapi.GetPropertiesResponse, error) {
	atomic.AddInt64(&m.getPropertiesCalls, 1)
	if m.GetPropertiesFunc != nil {
		return m.GetPropertiesFunc(ctx, path)
	}
	return dfsapi.GetPropertiesResponse{}, nil
}

// Ensure MockDFSClient implements the dfsapi.Client interface.
var _ dfsapi.Client = (*MockDFSClient)(nil)
