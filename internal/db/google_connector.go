package db

import (
	"context"
	"fmt"
	"net"

	"cloud.google.com/go/cloudsqlconn"
	"github.com/jackc/pgx/v5"
	"github.com/vvka-141/bookseed/pkg/bookseed"
)

// GoogleCloudSQLConnector implements the Connector interface for Google Cloud SQL
// using IAM database authentication via the Cloud SQL Go Connector.
//
// Implements io.Closer: the caller must call Close() after the connection is
// closed to release the Cloud SQL dialer.
type GoogleCloudSQLConnector struct {
	config   *bookseed.ConnectionConfig
	instance string
	logger   bookseed.Logger
	dialer   *cloudsqlconn.Dialer
}

// NewGoogleCloudSQLConnector creates a connector for Google Cloud SQL IAM authentication.
// instance is the instance connection name in format: project:region:instance
func NewGoogleCloudSQLConnector(config *bookseed.ConnectionConfig, instance string, logger bookseed.Logger) *GoogleCloudSQLConnector {
	return &GoogleCloudSQLConnector{
		config:   config,
		instance: instance,
		logger:   logger,
	}
}

func newGoogleConnector(config *bookseed.ConnectionConfig, logger bookseed.Logger) (bookseed.Connector, error) {
	if config.GoogleInstance == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires DB_GOOGLE_INSTANCE (project:region:instance): %w", bookseed.ErrInvalidConfig)
	}
	if config.Username == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires DB_USER: %w", bookseed.ErrInvalidConfig)
	}
	return NewGoogleCloudSQLConnector(config, config.GoogleInstance, logger), nil
}

// Connect dials the instance through the Cloud SQL connector, which handles
// IAM authentication and TLS.
func (c *GoogleCloudSQLConnector) Connect(ctx context.Context) (*pgx.Conn, error) {
	dialer, err := cloudsqlconn.NewDialer(ctx, cloudsqlconn.WithIAMAuthN())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Cloud SQL dialer: %w", bookseed.ErrConnectionFailed, err)
	}

	dsn := fmt.Sprintf("user=%s dbname=%s sslmode=disable", c.config.Username, c.config.Database)
	connConfig, err := pgx.ParseConfig(dsn)
	if err != nil {
		dialer.Close()
		return nil, fmt.Errorf("%w: failed to parse connection config: %w", bookseed.ErrConnectionFailed, err)
	}

	connConfig.DialFunc = func(ctx context.Context, network, addr string) (net.Conn, error) {
		return dialer.Dial(ctx, c.instance)
	}
	configureConn(connConfig, c.config, c.logger)

	conn, err := pgx.ConnectConfig(ctx, connConfig)
	if err != nil {
		dialer.Close()
		return nil, fmt.Errorf("%w: failed to connect to Cloud SQL instance %s: %w", bookseed.ErrConnectionFailed, c.instance, err)
	}

	if err := conn.Ping(ctx); err != nil {
		conn.Close(ctx) //nolint:errcheck
		dialer.Close()
		return nil, fmt.Errorf("%w: failed to ping database: %w", bookseed.ErrConnectionFailed, err)
	}

	c.dialer = dialer
	return conn, nil
}

// Close releases the Cloud SQL dialer resources.
func (c *GoogleCloudSQLConnector) Close() error {
	if c.dialer != nil {
		c.dialer.Close()
		c.dialer = nil
	}
	return nil
}
