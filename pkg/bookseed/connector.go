package bookseed

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Connector is a unified interface for establishing database connections.
// Different implementations handle various authentication methods
// (standard credentials, cloud IAM tokens, Cloud SQL dialer).
type Connector interface {
	// Connect opens a single connection and verifies it with a round-trip.
	// The returned connection must be closed by the caller.
	Connect(ctx context.Context) (*pgx.Conn, error)
}

// ConnectorFactory creates a Connector for the given configuration.
// Server notices (e.g. "relation already exists, skipping") are sent to logger.
type ConnectorFactory func(config *ConnectionConfig, logger Logger) (Connector, error)
