// Package admin implements the table-admin facade: thin
// request/response translation around one retrying call per logical
// operation.
package admin

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/janhicken/cloud-bigtable-client/internal/call"
	"github.com/janhicken/cloud-bigtable-client/internal/core/domain"
	"github.com/janhicken/cloud-bigtable-client/internal/metrics"
)

// AuditEntry describes one finished logical operation.
type AuditEntry struct {
	ID       uuid.UUID
	Method   string
	TableID  string
	Attempts int
	Outcome  string
	Duration time.Duration
}

// Client is the caller-facing table-admin client. Each method builds
// one retrying operation over the injected Service and returns either
// the resolved value (sync form) or the unresolved handle (Async
// form). The cache and auditor are optional.
type Client struct {
	service     Service
	opts        call.Options
	callTimeout time.Duration
	cache       Cache
	audit       Auditor
}

// NewClient builds a Client. opts.Transport is required.
func NewClient(service Service, opts call.Options) *Client {
	return &Client{service: service, opts: opts}
}

// WithCache attaches a read-result cache for GetTable and ListTables.
func (c *Client) WithCache(cache Cache) *Client {
	c.cache = cache
	return c
}

// WithAuditor attaches a best-effort operation audit log.
func (c *Client) WithAuditor(audit Auditor) *Client {
	c.audit = audit
	return c
}

// WithCallTimeout bounds each logical call across all its attempts;
// zero means no overall bound.
func (c *Client) WithCallTimeout(d time.Duration) *Client {
	c.callTimeout = d
	return c
}

// run starts one retrying operation and wires latency and audit
// reporting to its resolution.
func run[T any](c *Client, ctx context.Context, method, tableID string, invoke func(context.Context) (any, error)) *call.Future[T] {
	opts := c.opts
	if c.callTimeout > 0 {
		opts.Backoff.Deadline = time.Now().Add(c.callTimeout)
	}
	op := call.NewOperation[T](call.Request{Method: method, Invoke: invoke}, opts)
	start := time.Now()
	f := op.Start(ctx)
	f.Listen(func(_ T, err error) {
		elapsed := time.Since(start)
		metrics.CallLatency.WithLabelValues(method).Observe(elapsed.Seconds())
		if c.audit != nil {
			c.audit.Record(ctx, AuditEntry{
				ID:       uuid.New(),
				Method:   method,
				TableID:  tableID,
				Attempts: op.Attempts(),
				Outcome:  outcomeLabel(err),
				Duration: elapsed,
			})
		}
	})
	return f
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, call.ErrCancelled):
		return "cancelled"
	case call.IsExhausted(err):
		return "exhausted"
	default:
		return "failure"
	}
}

// resolvedFuture wraps an already-known value for cache hits.
func resolvedFuture[T any](v T) *call.Future[T] {
	f := call.NewFuture[T]()
	f.Resolve(v)
	return f
}

// CreateTableAsync creates a table.
func (c *Client) CreateTableAsync(ctx context.Context, req *CreateTableRequest) *call.Future[*domain.Table] {
	f := run[*domain.Table](c, ctx, "CreateTable", req.TableID, func(ctx context.Context) (any, error) {
		return c.service.CreateTable(ctx, req)
	})
	f.Listen(func(t *domain.Table, err error) {
		if err == nil && c.cache != nil {
			c.cache.PutTable(ctx, req.TableID, t)
			c.cache.DropTableNames(ctx)
		}
	})
	return f
}

// CreateTable is the synchronous form of CreateTableAsync.
func (c *Client) CreateTable(ctx context.Context, req *CreateTableRequest) (*domain.Table, error) {
	return c.CreateTableAsync(ctx, req).Get(ctx)
}

// GetTableAsync fetches a table description, consulting the cache
// first when one is attached.
func (c *Client) GetTableAsync(ctx context.Context, tableID string) *call.Future[*domain.Table] {
	if c.cache != nil {
		if t, ok := c.cache.GetTable(ctx, tableID); ok {
			metrics.CacheHits.WithLabelValues("GetTable").Inc()
			return resolvedFuture(t)
		}
		metrics.CacheMisses.WithLabelValues("GetTable").Inc()
	}
	f := run[*domain.Table](c, ctx, "GetTable", tableID, func(ctx context.Context) (any, error) {
		return c.service.GetTable(ctx, tableID)
	})
	f.Listen(func(t *domain.Table, err error) {
		if err == nil && c.cache != nil {
			// Keyed on the requested id: the service may report a fully
			// qualified resource name.
			c.cache.PutTable(ctx, tableID, t)
		}
	})
	return f
}

// GetTable is the synchronous form of GetTableAsync.
func (c *Client) GetTable(ctx context.Context, tableID string) (*domain.Table, error) {
	return c.GetTableAsync(ctx, tableID).Get(ctx)
}

// ListTablesAsync lists table names, consulting the cache first when
// one is attached.
func (c *Client) ListTablesAsync(ctx context.Context) *call.Future[[]string] {
	if c.cache != nil {
		if names, ok := c.cache.GetTableNames(ctx); ok {
			metrics.CacheHits.WithLabelValues("ListTables").Inc()
			return resolvedFuture(names)
		}
		metrics.CacheMisses.WithLabelValues("ListTables").Inc()
	}
	f := run[[]string](c, ctx, "ListTables", "", func(ctx context.Context) (any, error) {
		return c.service.ListTables(ctx)
	})
	f.Listen(func(names []string, err error) {
		if err == nil && c.cache != nil {
			c.cache.PutTableNames(ctx, names)
		}
	})
	return f
}

// ListTables is the synchronous form of ListTablesAsync.
func (c *Client) ListTables(ctx context.Context) ([]string, error) {
	return c.ListTablesAsync(ctx).Get(ctx)
}

// DeleteTableAsync deletes a table.
func (c *Client) DeleteTableAsync(ctx context.Context, tableID string) *call.Future[struct{}] {
	f := run[struct{}](c, ctx, "DeleteTable", tableID, func(ctx context.Context) (any, error) {
		if err := c.service.DeleteTable(ctx, tableID); err != nil {
			return nil, err
		}
		return struct{}{}, nil
	})
	f.Listen(func(_ struct{}, err error) {
		if err == nil && c.cache != nil {
			c.cache.DropTable(ctx, tableID)
			c.cache.DropTableNames(ctx)
		}
	})
	return f
}

// DeleteTable is the synchronous form of DeleteTableAsync.
func (c *Client) DeleteTable(ctx context.Context, tableID string) error {
	_, err := c.DeleteTableAsync(ctx, tableID).Get(ctx)
	return err
}

// ModifyFamiliesAsync applies column-family changes to a table.
func (c *Client) ModifyFamiliesAsync(ctx context.Context, req *ModifyFamiliesRequest) *call.Future[*domain.Table] {
	f := run[*domain.Table](c, ctx, "ModifyColumnFamilies", req.TableID, func(ctx context.Context) (any, error) {
		return c.service.ModifyFamilies(ctx, req)
	})
	f.Listen(func(t *domain.Table, err error) {
		if err == nil && c.cache != nil {
			c.cache.PutTable(ctx, req.TableID, t)
		}
	})
	return f
}

// ModifyFamilies is the synchronous form of ModifyFamiliesAsync.
func (c *Client) ModifyFamilies(ctx context.Context, req *ModifyFamiliesRequest) (*domain.Table, error) {
	return c.ModifyFamiliesAsync(ctx, req).Get(ctx)
}

// DropRowRangeAsync deletes all rows under a key prefix.
func (c *Client) DropRowRangeAsync(ctx context.Context, tableID string, rowKeyPrefix []byte) *call.Future[struct{}] {
	return run[struct{}](c, ctx, "DropRowRange", tableID, func(ctx context.Context) (any, error) {
		if err := c.service.DropRowRange(ctx, tableID, rowKeyPrefix); err != nil {
			return nil, err
		}
		return struct{}{}, nil
	})
}

// DropRowRange is the synchronous form of DropRowRangeAsync.
func (c *Client) DropRowRange(ctx context.Context, tableID string, rowKeyPrefix []byte) error {
	_, err := c.DropRowRangeAsync(ctx, tableID, rowKeyPrefix).Get(ctx)
	return err
}
