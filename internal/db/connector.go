package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vvka-141/bookseed/pkg/bookseed"
)

// configureConn applies settings shared by every connector.
// Notices are demoted to verbose output: CREATE TABLE IF NOT EXISTS raises
// one per existing table.
func configureConn(connConfig *pgx.ConnConfig, cfg *bookseed.ConnectionConfig, logger bookseed.Logger) {
	if cfg.ConnectTimeout > 0 {
		connConfig.ConnectTimeout = cfg.ConnectTimeout
	}
	if cfg.AppName != "" {
		connConfig.RuntimeParams["application_name"] = cfg.AppName
	}
	if logger != nil {
		connConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
			logger.Verbose("%s: %s", notice.Severity, notice.Message)
		}
	}
}

// StandardConnector implements the Connector interface for standard
// username/password authentication. A single connection is opened; no pool
// and no retries.
type StandardConnector struct {
	config *bookseed.ConnectionConfig
	logger bookseed.Logger
}

// NewStandardConnector creates a new StandardConnector with the given configuration.
func NewStandardConnector(config *bookseed.ConnectionConfig, logger bookseed.Logger) *StandardConnector {
	return &StandardConnector{
		config: config,
		logger: logger,
	}
}

// Connect opens the connection and verifies it with a round-trip.
func (c *StandardConnector) Connect(ctx context.Context) (*pgx.Conn, error) {
	return connectWithPassword(ctx, c.config, c.config.Password, c.logger)
}

// connectWithPassword is shared by the standard and token-based connectors.
func connectWithPassword(ctx context.Context, cfg *bookseed.ConnectionConfig, password string, logger bookseed.Logger) (*pgx.Conn, error) {
	withPassword := *cfg
	withPassword.Password = password

	connConfig, err := pgx.ParseConfig(BuildConnectionString(&withPassword))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse connection config: %w", bookseed.ErrConnectionFailed, err)
	}
	configureConn(connConfig, cfg, logger)

	conn, err := pgx.ConnectConfig(ctx, connConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", bookseed.ErrConnectionFailed, wrapConnectionError(err, cfg.Host, cfg.Port, cfg.Database))
	}

	if err := conn.Ping(ctx); err != nil {
		conn.Close(ctx) //nolint:errcheck
		return nil, fmt.Errorf("%w: %w", bookseed.ErrConnectionFailed, wrapConnectionError(err, cfg.Host, cfg.Port, cfg.Database))
	}

	return conn, nil
}

// NewConnector is a factory function that creates the appropriate Connector
// based on the ConnectionConfig's AuthMethod.
func NewConnector(config *bookseed.ConnectionConfig, logger bookseed.Logger) (bookseed.Connector, error) {
	switch config.AuthMethod {
	case bookseed.AuthMethodStandard:
		return NewStandardConnector(config, logger), nil
	case bookseed.AuthMethodAWSIAM:
		return newAWSConnector(config, logger)
	case bookseed.AuthMethodGoogleIAM:
		return newGoogleConnector(config, logger)
	case bookseed.AuthMethodAzureEntraID:
		return newAzureConnector(config, logger)
	default:
		return nil, fmt.Errorf("unsupported auth method %v: %w", config.AuthMethod, bookseed.ErrUnsupportedAuthMethod)
	}
}

var _ bookseed.ConnectorFactory = NewConnector

// wrapConnectionError wraps raw pgx connection errors with actionable guidance.
func wrapConnectionError(err error, host string, port int, database string) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		return fmt.Errorf(`connection refused to %s

Possible causes:
  - PostgreSQL is not running (check: pg_isready -h %s -p %d)
  - Wrong DB_HOST or DB_PORT
  - Firewall blocking the connection

Original error: %w`, addr, host, port, err)

	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "no host"):
		return fmt.Errorf(`cannot resolve host "%s"

Possible causes:
  - DB_HOST is misspelled
  - DNS is not configured or reachable

Original error: %w`, host, err)

	case strings.Contains(errStr, "password authentication failed"):
		return fmt.Errorf(`password authentication failed for database "%s"

Possible causes:
  - Wrong DB_PASSWORD
  - Wrong DB_USER
  - User does not have access to the database

Original error: %w`, database, err)

	case strings.Contains(errStr, "does not exist"):
		return fmt.Errorf(`database "%s" does not exist

To create it:
  createdb %s

Original error: %w`, database, database, err)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		return fmt.Errorf(`connection timed out to %s

Possible causes:
  - Server is overloaded or unresponsive
  - Firewall silently dropping packets
  - Wrong host/port (server not listening)

Original error: %w`, addr, err)

	case strings.Contains(errStr, "ssl") || strings.Contains(errStr, "tls"):
		return fmt.Errorf(`SSL/TLS connection error

Possible causes:
  - Server requires SSL but DB_SSLMODE is wrong
  - Certificate verification failed (try DB_SSLMODE=require)

Original error: %w`, err)

	default:
		return fmt.Errorf("failed to connect to database: %w", err)
	}
}
