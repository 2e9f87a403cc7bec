package admin

import (
	"context"

	"github.com/janhicken/cloud-bigtable-client/internal/call"
	"github.com/janhicken/cloud-bigtable-client/internal/core/domain"
)

// SnapshotTableAsync snapshots a table and returns the long-running
// operation name the service assigns.
func (c *Client) SnapshotTableAsync(ctx context.Context, req *SnapshotTableRequest) *call.Future[string] {
	return run[string](c, ctx, "SnapshotTable", req.TableID, func(ctx context.Context) (any, error) {
		return c.service.SnapshotTable(ctx, req)
	})
}

// SnapshotTable is the synchronous form of SnapshotTableAsync.
func (c *Client) SnapshotTable(ctx context.Context, req *SnapshotTableRequest) (string, error) {
	return c.SnapshotTableAsync(ctx, req).Get(ctx)
}

// GetSnapshotAsync fetches a snapshot description.
func (c *Client) GetSnapshotAsync(ctx context.Context, snapshotName string) *call.Future[*domain.Snapshot] {
	return run[*domain.Snapshot](c, ctx, "GetSnapshot", "", func(ctx context.Context) (any, error) {
		return c.service.GetSnapshot(ctx, snapshotName)
	})
}

// GetSnapshot is the synchronous form of GetSnapshotAsync.
func (c *Client) GetSnapshot(ctx context.Context, snapshotName string) (*domain.Snapshot, error) {
	return c.GetSnapshotAsync(ctx, snapshotName).Get(ctx)
}

// ListSnapshotsAsync lists the snapshots in a cluster.
func (c *Client) ListSnapshotsAsync(ctx context.Context, clusterID string) *call.Future[[]*domain.Snapshot] {
	return run[[]*domain.Snapshot](c, ctx, "ListSnapshots", "", func(ctx context.Context) (any, error) {
		return c.service.ListSnapshots(ctx, clusterID)
	})
}

// ListSnapshots is the synchronous form of ListSnapshotsAsync.
func (c *Client) ListSnapshots(ctx context.Context, clusterID string) ([]*domain.Snapshot, error) {
	return c.ListSnapshotsAsync(ctx, clusterID).Get(ctx)
}

// DeleteSnapshotAsync deletes a snapshot.
func (c *Client) DeleteSnapshotAsync(ctx context.Context, snapshotName string) *call.Future[struct{}] {
	return run[struct{}](c, ctx, "DeleteSnapshot", "", func(ctx context.Context) (any, error) {
		if err := c.service.DeleteSnapshot(ctx, snapshotName); err != nil {
			return nil, err
		}
		return struct{}{}, nil
	})
}

// DeleteSnapshot is the synchronous form of DeleteSnapshotAsync.
func (c *Client) DeleteSnapshot(ctx context.Context, snapshotName string) error {
	_, err := c.DeleteSnapshotAsync(ctx, snapshotName).Get(ctx)
	return err
}

// CreateTableFromSnapshotAsync restores a snapshot into a new table and
// returns the long-running operation name the service assigns.
func (c *Client) CreateTableFromSnapshotAsync(ctx context.Context, tableID, sourceSnapshot string) *call.Future[string] {
	f := run[string](c, ctx, "CreateTableFromSnapshot", tableID, func(ctx context.Context) (any, error) {
		return c.service.CreateTableFromSnapshot(ctx, tableID, sourceSnapshot)
	})
	f.Listen(func(_ string, err error) {
		if err == nil && c.cache != nil {
			c.cache.DropTableNames(ctx)
		}
	})
	return f
}

// CreateTableFromSnapshot is the synchronous form of
// CreateTableFromSnapshotAsync.
func (c *Client) CreateTableFromSnapshot(ctx context.Context, tableID, sourceSnapshot string) (string, error) {
	return c.CreateTableFromSnapshotAsync(ctx, tableID, sourceSnapshot).Get(ctx)
}
