package admin

import (
	"context"

	"github.com/janhicken/cloud-bigtable-client/internal/core/domain"
)

// Service is the raw table-admin stub the facade delegates to. A
// production implementation wraps the generated gRPC client for the
// admin API; tests use in-memory fakes. The facade never retries
// through this interface directly: every method call here is one
// attempt of one retrying operation.
type Service interface {
	CreateTable(ctx context.Context, req *CreateTableRequest) (*domain.Table, error)
	GetTable(ctx context.Context, tableID string) (*domain.Table, error)
	ListTables(ctx context.Context) ([]string, error)
	DeleteTable(ctx context.Context, tableID string) error
	ModifyFamilies(ctx context.Context, req *ModifyFamiliesRequest) (*domain.Table, error)
	DropRowRange(ctx context.Context, tableID string, rowKeyPrefix []byte) error

	SnapshotTable(ctx context.Context, req *SnapshotTableRequest) (string, error)
	GetSnapshot(ctx context.Context, snapshotName string) (*domain.Snapshot, error)
	ListSnapshots(ctx context.Context, clusterID string) ([]*domain.Snapshot, error)
	DeleteSnapshot(ctx context.Context, snapshotName string) error
	CreateTableFromSnapshot(ctx context.Context, tableID, sourceSnapshot string) (string, error)
}

// Cache is the optional read-result cache consulted for GetTable and
// ListTables. Implementations treat lookup errors as misses.
type Cache interface {
	GetTable(ctx context.Context, tableID string) (*domain.Table, bool)
	PutTable(ctx context.Context, tableID string, table *domain.Table)
	DropTable(ctx context.Context, tableID string)
	GetTableNames(ctx context.Context) ([]string, bool)
	PutTableNames(ctx context.Context, names []string)
	DropTableNames(ctx context.Context)
}

// Auditor records one row per finished logical operation. Recording is
// best effort and must not fail the operation.
type Auditor interface {
	Record(ctx context.Context, entry AuditEntry)
}
