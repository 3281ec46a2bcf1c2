package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/vvka-141/bookseed/internal/db"
	"github.com/vvka-141/bookseed/pkg/bookseed"
)

const closeTimeout = 5 * time.Second

// session is one open connection tagged with a run id.
// The run id is sent as part of application_name so a run can be found in
// pg_stat_activity and server logs.
type session struct {
	conn      *pgx.Conn
	runID     string
	connector bookseed.Connector
	logger    bookseed.Logger
}

func openSession(
	ctx context.Context,
	factory bookseed.ConnectorFactory,
	connConfig *bookseed.ConnectionConfig,
	logger bookseed.Logger,
) (*session, error) {
	if connConfig == nil {
		return nil, fmt.Errorf("connection is required: %w", bookseed.ErrInvalidConfig)
	}

	runID := uuid.NewString()
	cfg := *connConfig
	if cfg.AppName == "" {
		cfg.AppName = bookseed.ApplicationName + "/" + runID
	}

	connector, err := factory(&cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create connector: %w", err)
	}

	logger.Verbose("Connecting to %s (auth: %s)", db.RedactedConnectionString(&cfg), cfg.AuthMethod)
	conn, err := connector.Connect(ctx)
	if err != nil {
		closeConnector(connector, logger)
		if !errors.Is(err, bookseed.ErrConnectionFailed) {
			err = fmt.Errorf("%w: %w", bookseed.ErrConnectionFailed, err)
		}
		return nil, err
	}
	if conn == nil {
		closeConnector(connector, logger)
		return nil, fmt.Errorf("%w: connector returned no connection", bookseed.ErrConnectionFailed)
	}

	return &session{conn: conn, runID: runID, connector: connector, logger: logger}, nil
}

// Close closes the connection and releases connector resources such as the
// Cloud SQL dialer. Safe to call more than once.
func (s *session) Close() {
	if s == nil || s.conn == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := s.conn.Close(ctx); err != nil {
		s.logger.Verbose("close connection: %v", err)
	}
	s.conn = nil
	closeConnector(s.connector, s.logger)
}

func closeConnector(connector bookseed.Connector, logger bookseed.Logger) {
	if c, ok := connector.(io.Closer); ok {
		if err := c.Close(); err != nil {
			logger.Verbose("close connector: %v", err)
		}
	}
}
