package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/bookseed/internal/config"
	"github.com/vvka-141/bookseed/internal/db"
	"github.com/vvka-141/bookseed/internal/logging"
	"github.com/vvka-141/bookseed/internal/services"
	"github.com/vvka-141/bookseed/internal/tui"
	"github.com/vvka-141/bookseed/pkg/bookseed"
)

// newSeeder builds the service behind every database command.
// Tests replace it to run commands without a server.
var newSeeder = func(logger bookseed.Logger) bookseed.Seeder {
	return services.NewSeedService(db.NewConnector, logger, tui.NewAutoTableRenderer(os.Stdout))
}

// runEnv is everything a database command needs once flags, environment
// and bookseed.yaml have been merged.
type runEnv struct {
	logger     bookseed.Logger
	verbose    bool
	projectCfg *config.ProjectConfig
	connConfig *bookseed.ConnectionConfig
	timeout    time.Duration
}

// prepareRun loads the environment and project config and resolves the
// connection. Every failure here happens before any connection attempt.
func prepareRun(cmd *cobra.Command) (*runEnv, error) {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)

	if err := loadEnvironment(globalFlags.envFile); err != nil {
		return nil, err
	}

	projectCfg, err := loadProjectConfig(globalFlags.configFile)
	if err != nil {
		return nil, err
	}

	connConfig, err := resolveConnection(projectCfg)
	if err != nil {
		return nil, err
	}

	timeout, err := db.ResolveTimeout(globalFlags.timeout, cmd.Flags().Changed("timeout"), projectCfg)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %s: %w", timeout, bookseed.ErrInvalidConfig)
	}

	if verbose {
		logConnectionVerbose(logger, connConfig)
	}

	return &runEnv{
		logger:     logger,
		verbose:    verbose,
		projectCfg: projectCfg,
		connConfig: connConfig,
		timeout:    timeout,
	}, nil
}

// loadEnvironment loads envFile, or ./.env when envFile is empty.
// Variables already present in the process environment are never overridden.
func loadEnvironment(envFile string) error {
	if envFile == "" {
		_ = godotenv.Load()
		return nil
	}
	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("failed to load env file %s: %w: %w", envFile, err, bookseed.ErrInvalidConfig)
	}
	return nil
}

// loadProjectConfig reads --config, or ./bookseed.yaml if it exists.
// A missing default file is not an error; a missing explicit one is.
func loadProjectConfig(path string) (*config.ProjectConfig, error) {
	var (
		cfg *config.ProjectConfig
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load(".")
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w: %w", displayConfigPath(path), err, bookseed.ErrInvalidConfig)
	}
	return cfg, nil
}

func displayConfigPath(path string) string {
	if path == "" {
		return config.ConfigFileName
	}
	return path
}

// resolveConnection merges the connection flags with DB_* variables and
// the project config.
func resolveConnection(projectCfg *config.ProjectConfig) (*bookseed.ConnectionConfig, error) {
	flags := &db.ConnFlags{
		Host:       globalFlags.host,
		Port:       globalFlags.port,
		Username:   globalFlags.username,
		Database:   globalFlags.database,
		SSLMode:    globalFlags.sslMode,
		AuthMethod: globalFlags.authMethod,
	}
	return db.ResolveConnectionParams(flags, db.LoadFromEnvironment(), projectCfg)
}

// logConnectionVerbose logs connection details when verbose mode is enabled.
func logConnectionVerbose(logger bookseed.Logger, connConfig *bookseed.ConnectionConfig) {
	logger.Verbose("Connection resolved:")
	logger.Verbose("  Host: %s", connConfig.Host)
	logger.Verbose("  Port: %d", connConfig.Port)
	logger.Verbose("  User: %s", connConfig.Username)
	logger.Verbose("  Database: %s", connConfig.Database)
	logger.Verbose("  SSL Mode: %s", connConfig.SSLMode)
	logger.Verbose("  Auth Method: %s", connConfig.AuthMethod)
	if connConfig.GoogleInstance != "" {
		logger.Verbose("  Cloud SQL Instance: %s", connConfig.GoogleInstance)
	}
	if connConfig.AWSRegion != "" {
		logger.Verbose("  AWS Region: %s", connConfig.AWSRegion)
	}
}

// commandContext bounds a run by timeout and cancels it on Ctrl+C or SIGTERM.
func commandContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\n[INTERRUPT] Received interrupt signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}
