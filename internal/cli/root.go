package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/vvka-141/bookseed/internal/logging"
	"github.com/vvka-141/bookseed/pkg/bookseed"
)

var rootCmd = &cobra.Command{
	Use:   "bookseed",
	Short: "Seed a PostgreSQL database with a small book catalog",
	Long: `bookseed creates the publishers, authors, books and book_authors tables
(if they do not exist yet) and fills them with a fixed dataset.

Connection settings come from flags, DB_* environment variables (a .env file
in the working directory is loaded automatically) or bookseed.yaml, in that
order. The password is only read from DB_PASSWORD.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Database connection failed
  12 - Schema creation failed
  13 - Seeding failed
  14 - Invalid dataset`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// globalFlagValues holds the persistent flags shared by every command.
type globalFlagValues struct {
	verbose    bool
	host       string
	port       int
	username   string
	database   string
	sslMode    string
	authMethod string
	envFile    string
	configFile string
	timeout    time.Duration
}

var globalFlags globalFlagValues

// Execute runs the root command and reports a failure on stderr.
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	err := rootCmd.Execute()
	if err != nil {
		logging.NewConsoleLogger(false).Error("%v", err)
	}
	return err
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&globalFlags.verbose, "verbose", "v", false, "Enable verbose output for all commands")

	pf.StringVar(&globalFlags.host, "host", "",
		"PostgreSQL server host, optionally host:port\n"+
			"Precedence: --host > $DB_HOST > bookseed.yaml")
	pf.IntVar(&globalFlags.port, "port", 0,
		"PostgreSQL server port\n"+
			"Precedence: --port > port in $DB_HOST > $DB_PORT > bookseed.yaml > 5432")
	pf.StringVar(&globalFlags.username, "username", "", "PostgreSQL user (default: $DB_USER)")
	pf.StringVar(&globalFlags.database, "database", "", "Target database name (default: $DB_NAME)")
	pf.StringVar(&globalFlags.sslMode, "sslmode", "",
		"SSL mode: disable|allow|prefer|require|verify-ca|verify-full\n"+
			"(default: $DB_SSLMODE or prefer)")
	pf.StringVar(&globalFlags.authMethod, "auth", "",
		"Authentication method: standard|aws|azure|google\n"+
			"(default: $DB_AUTH_METHOD or standard)")

	pf.StringVar(&globalFlags.envFile, "env-file", "",
		"Load environment variables from this file instead of ./.env\n"+
			"Variables already set in the environment win")
	pf.StringVar(&globalFlags.configFile, "config", "",
		"Path to a bookseed.yaml (default: ./bookseed.yaml if present)")
	pf.DurationVar(&globalFlags.timeout, "timeout", bookseed.DefaultTimeout,
		"Catastrophic failure protection timeout for the whole run\n"+
			"Examples: 30s, 5m")

	_ = rootCmd.RegisterFlagCompletionFunc("sslmode", completeFrom(sslModes))
	_ = rootCmd.RegisterFlagCompletionFunc("auth", completeFrom(authMethods))
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
