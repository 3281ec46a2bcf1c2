package bookseed

import "context"

// Seeder is the interface for populating a database with a dataset.
type Seeder interface {
	// Seed creates missing tables and inserts the configured dataset.
	// Groups committed before a failure stay committed; the returned report
	// lists them even when err is non-nil.
	Seed(ctx context.Context, config SeedConfig) (*SeedReport, error)

	// EnsureSchema creates missing tables without inserting rows.
	EnsureSchema(ctx context.Context, conn *ConnectionConfig) error

	// Show reads every row of a managed table and renders it.
	Show(ctx context.Context, conn *ConnectionConfig, table string) (*Table, error)
}

// TableRenderer displays a table read back from the database.
type TableRenderer interface {
	Render(t *Table) error
}
