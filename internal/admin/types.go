package admin

import (
	"time"

	"github.com/janhicken/cloud-bigtable-client/internal/core/domain"
)

// CreateTableRequest describes a table to create.
type CreateTableRequest struct {
	TableID       string
	Families      []domain.ColumnFamily
	InitialSplits [][]byte
}

// FamilyModAction selects what a FamilyMod does.
type FamilyModAction int

const (
	FamilyCreate FamilyModAction = iota
	FamilyUpdate
	FamilyDrop
)

// FamilyMod is one column-family change in a ModifyFamiliesRequest.
type FamilyMod struct {
	Family string
	Action FamilyModAction
	GCRule string
}

// ModifyFamiliesRequest applies a batch of column-family changes to a
// table.
type ModifyFamiliesRequest struct {
	TableID string
	Mods    []FamilyMod
}

// SnapshotTableRequest creates a snapshot of a table in a cluster.
type SnapshotTableRequest struct {
	TableID     string
	ClusterID   string
	SnapshotID  string
	Description string
	TTL         time.Duration
}
