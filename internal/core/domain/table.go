// Package domain holds the table-admin domain types shared across
// layers.
package domain

import "time"

// Table describes one table and its column families.
type Table struct {
	Name     string         `json:"name"`
	Families []ColumnFamily `json:"families"`
}

// ColumnFamily describes one column family. GCRule is the garbage
// collection expression as the service reports it; this client treats
// it as opaque.
type ColumnFamily struct {
	Name   string `json:"name"`
	GCRule string `json:"gc_rule,omitempty"`
}

// Snapshot describes one table snapshot.
type Snapshot struct {
	Name        string    `json:"name"`
	SourceTable string    `json:"source_table"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
