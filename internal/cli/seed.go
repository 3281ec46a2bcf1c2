package cli

import (
	"github.com/spf13/cobra"
	"github.com/vvka-141/bookseed/pkg/bookseed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create missing tables and insert the dataset",
	Long: `Seed connects to the target database, creates the publishers, authors,
books and book_authors tables if they are missing, and inserts the dataset.

Each table is filled in its own transaction, parents first. If one table
fails, the tables filled before it stay committed and the run stops.

Modes:
  append         Insert every row. Running twice duplicates all rows. (default)
  skip-existing  Reuse rows that already exist, matched by name, full name or
                 title+isbn. Running twice inserts nothing the second time.

Password Authentication:
  For security, the password is NOT accepted as a CLI flag. Set DB_PASSWORD
  in the environment or in a .env file.

Examples:
  # Seed using DB_* variables from .env
  bookseed seed

  # Seed a custom dataset without printing the publishers table
  bookseed seed --dataset ./catalog.yaml --no-display

  # Safe to re-run
  bookseed seed --mode skip-existing --host db.internal:6432 --database books`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

type seedFlagValues struct {
	dataset   string
	mode      string
	noDisplay bool
}

var seedFlags seedFlagValues

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVar(&seedFlags.dataset, "dataset", "",
		"YAML dataset file (default: the built-in catalog, or dataset in bookseed.yaml)")
	seedCmd.Flags().StringVar(&seedFlags.mode, "mode", bookseed.SeedModeAppend.String(),
		"Seed mode: append|skip-existing")
	seedCmd.Flags().BoolVar(&seedFlags.noDisplay, "no-display", false,
		"Do not print the publishers table after seeding")

	_ = seedCmd.RegisterFlagCompletionFunc("mode", completeFrom(seedModes))
}

// buildSeedConfig merges seed flags with bookseed.yaml.
// Precedence: flag > bookseed.yaml > default.
func buildSeedConfig(cmd *cobra.Command, env *runEnv) (bookseed.SeedConfig, error) {
	datasetPath := seedFlags.dataset
	modeValue := seedFlags.mode
	if env.projectCfg != nil {
		if datasetPath == "" {
			datasetPath = env.projectCfg.Dataset
		}
		if !cmd.Flags().Changed("mode") && env.projectCfg.Mode != "" {
			modeValue = env.projectCfg.Mode
		}
	}

	mode, err := bookseed.ParseSeedMode(modeValue)
	if err != nil {
		return bookseed.SeedConfig{}, err
	}

	cfg := bookseed.SeedConfig{
		Connection:  env.connConfig,
		DatasetPath: datasetPath,
		Mode:        mode,
		Display:     !seedFlags.noDisplay,
		Timeout:     env.timeout,
		Verbose:     env.verbose,
	}
	if err := cfg.Validate(); err != nil {
		return bookseed.SeedConfig{}, err
	}
	return cfg, nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	env, err := prepareRun(cmd)
	if err != nil {
		return err
	}

	cfg, err := buildSeedConfig(cmd, env)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cfg.Timeout)
	defer cancel()

	report, err := newSeeder(env.logger).Seed(ctx, cfg)
	if report != nil {
		env.logger.Verbose("Run %s finished %d of %d groups", report.RunID, len(report.Groups), len(bookseed.Tables))
	}
	return err
}
