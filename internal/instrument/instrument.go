// Package instrument provides a tracing decorator around the path operations
// interface. Each remote call runs inside its own span; failures set the span
// status before the span is closed.
package instrument

import (
	"context"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/input-output-hk/catalyst-forge-libs/azure/datalake/internal/dfsapi"
)

const tracerName = "github.com/input-output-hk/catalyst-forge-libs/azure/datalake"

// Client decorates a dfsapi.Client with per-operation spans.
type Client struct {
	inner  dfsapi.Client
	tracer trace.Tracer
}

// Wrap decorates the given client. A nil provider falls back to the global
// tracer provider.
func Wrap(inner dfsapi.Client, provider trace.TracerProvider) *Client {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return &Client{
		inner:  inner,
		tracer: provider.Tracer(tracerName),
	}
}

// end closes the span, recording the error first if the operation failed.
func end(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Create implements dfsapi.Client.
func (c *Client) Create(
	ctx context.Context,
	path, resource string,
	options *dfsapi.CreateOptions,
) (dfsapi.CreateResponse, error) {
	ctx, span := c.tracer.Start(ctx, "datalake.Create")
	resp, err := c.inner.Create(ctx, path, resource, options)
	end(span, err)
	return resp, err
}

// AppendData implements dfsapi.Client.
func (c *Client) AppendData(
	ctx context.Context,
	path string,
	position int64,
	body io.ReadSeekCloser,
	options *dfsapi.AppendDataOptions,
) (dfsapi.AppendDataResponse, error) {
	ctx, span := c.tracer.Start(ctx, "datalake.AppendData")
	resp, err := c.inner.AppendData(ctx, path, position, body, options)
	end(span, err)
	return resp, err
}

// FlushData implements dfsapi.Client.
func (c *Client) FlushData(
	ctx context.Context,
	path string,
	position int64,
	options *dfsapi.FlushDataOptions,
) (dfsapi.FlushDataResponse, error) {
	ctx, span := c.tracer.Start(ctx, "datalake.FlushData")
	resp, err := c.inner.FlushData(ctx, path, position, options)
	end(span, err)
	return resp, err
}

// SetAccessControlRecursive implements dfsapi.Client.
func (c *Client) SetAccessControlRecursive(
	ctx context.Context,
	path, mode, acl string,
	options *dfsapi.SetAccessControlRecursiveOptions,
) (dfsapi.SetAccessControlRecursiveResponse, error) {
	ctx, span := c.tracer.Start(ctx, "datalake.SetAccessControlRecursive")
	resp, err := c.inner.SetAccessControlRecursive(ctx, path, mode, acl, options)
	end(span, err)
	return resp, err
}

// Read implements dfsapi.Client.
func (c *Client) Read(
	ctx context.Context,
	path string,
	options *dfsapi.ReadOptions,
) (dfsapi.ReadResponse, error) {
	ctx, span := c.tracer.Start(ctx, "datalake.Read")
	resp, err := c.inner.Read(ctx, path, options)
	end(span, err)
	return resp, err
}

// Delete implements dfsapi.Client.
func (c *Client) Delete(
	ctx context.Context,
	path string,
	options *dfsapi.DeleteOptions,
) (dfsapi.DeleteResponse, error) {
	ctx, span := c.tracer.Start(ctx, "datalake.Delete")
	resp, err := c.inner.Delete(ctx, path, options)
	end(span, err)
	return resp, err
}

// GetProperties implements dfsapi.Client.
func (c *Client) GetProperties(ctx context.Context, path string) (dfsapi.GetPropertiesResponse, error) {
	ctx, span := c.tracer.Start(ctx, "datalake.GetProperties")
	resp, err := c.inner.GetProperties(ctx, path)
	end(span, err)
	return resp, err
}

// Verify that Client implements the path operations interface.
var _ dfsapi.Client = (*Client)(nil)
