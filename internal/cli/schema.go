package cli

import (
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Create missing tables without inserting rows",
	Long: `Schema connects to the target database and creates any of the publishers,
authors, books and book_authors tables that do not exist yet. Existing tables
are left untouched, so the command is safe to repeat.`,
	Args: cobra.NoArgs,
	RunE: runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, args []string) error {
	env, err := prepareRun(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(env.timeout)
	defer cancel()

	return newSeeder(env.logger).EnsureSchema(ctx, env.connConfig)
}
