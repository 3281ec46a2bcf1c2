package services

import (
	"context"
	"fmt"

	"github.com/vvka-141/bookseed/internal/dataset"
	"github.com/vvka-141/bookseed/internal/schema"
	"github.com/vvka-141/bookseed/pkg/bookseed"
)

// SeedService implements the Seeder interface.
// Thread-Safety: safe for concurrent use; every call opens its own connection.
type SeedService struct {
	connectorFactory bookseed.ConnectorFactory
	logger           bookseed.Logger
	renderer         bookseed.TableRenderer
}

var _ bookseed.Seeder = (*SeedService)(nil)

// NewSeedService creates a SeedService with all dependencies injected.
//
// Panics on nil dependencies: those are wiring mistakes and should surface
// at startup, not halfway through a run.
func NewSeedService(
	connectorFactory bookseed.ConnectorFactory,
	logger bookseed.Logger,
	renderer bookseed.TableRenderer,
) *SeedService {
	if connectorFactory == nil {
		panic("connectorFactory cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if renderer == nil {
		panic("renderer cannot be nil")
	}
	return &SeedService{
		connectorFactory: connectorFactory,
		logger:           logger,
		renderer:         renderer,
	}
}

// Seed validates the configuration and dataset, connects, ensures the
// schema and inserts the dataset group by group. With config.Display set,
// the publishers table is rendered afterwards.
//
// No connection is attempted when the configuration or dataset is invalid.
func (s *SeedService) Seed(ctx context.Context, config bookseed.SeedConfig) (*bookseed.SeedReport, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	ds, err := dataset.Load(config.DatasetPath)
	if err != nil {
		return nil, err
	}
	if config.DatasetPath == "" {
		s.logger.Verbose("Using embedded dataset")
	} else {
		s.logger.Verbose("Loaded dataset %s", config.DatasetPath)
	}

	sess, err := openSession(ctx, s.connectorFactory, config.Connection, s.logger)
	if err != nil {
		return nil, err
	}
	defer sess.Close()
	s.logger.Verbose("Run %s connected to %s", sess.runID, config.Connection.Database)

	if err := schema.Ensure(ctx, sess.conn, s.logger); err != nil {
		return nil, err
	}

	report, err := Populate(ctx, sess.conn, ds, config.Mode, s.logger)
	report.RunID = sess.runID
	if err != nil {
		return report, err
	}
	s.logger.Info("✓ Seeded %s (%s mode)", config.Connection.Database, config.Mode)

	if config.Display {
		if _, err := s.readAndRender(ctx, sess, bookseed.TablePublishers); err != nil {
			return report, err
		}
	}
	return report, nil
}

// EnsureSchema connects and creates any missing tables.
func (s *SeedService) EnsureSchema(ctx context.Context, connConfig *bookseed.ConnectionConfig) error {
	sess, err := openSession(ctx, s.connectorFactory, connConfig, s.logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	missing, err := schema.Missing(ctx, sess.conn)
	if err != nil {
		return fmt.Errorf("%w: %w", bookseed.ErrSchemaFailed, err)
	}
	if err := schema.Ensure(ctx, sess.conn, s.logger); err != nil {
		return err
	}

	if len(missing) == 0 {
		s.logger.Info("✓ Schema already up to date")
		return nil
	}
	for _, table := range missing {
		s.logger.Info("✓ Created table %s", table)
	}
	return nil
}

// Show reads and renders every row of table. Unknown table names are
// rejected before connecting.
func (s *SeedService) Show(ctx context.Context, connConfig *bookseed.ConnectionConfig, table string) (*bookseed.Table, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}

	sess, err := openSession(ctx, s.connectorFactory, connConfig, s.logger)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	return s.readAndRender(ctx, sess, table)
}

func (s *SeedService) readAndRender(ctx context.Context, sess *session, table string) (*bookseed.Table, error) {
	t, err := ReadTable(ctx, sess.conn, table)
	if err != nil {
		return nil, err
	}
	if err := s.renderer.Render(t); err != nil {
		return t, fmt.Errorf("failed to display %s: %w", table, err)
	}
	return t, nil
}
