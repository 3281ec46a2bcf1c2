package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vvka-141/bookseed/pkg/bookseed"
)

var showCmd = &cobra.Command{
	Use:   "show <table>",
	Short: "Print every row of a table",
	Long: `Show prints the rows of one of the seeded tables, ordered by its first
column. Empty cells are NULL.

Tables: ` + strings.Join(bookseed.Tables, ", ") + `

Examples:
  bookseed show publishers
  bookseed show books | less`,
	Args:              showArgs,
	ValidArgsFunction: completeTableNames,
	RunE:              runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

// showArgs rejects unknown table names before any configuration is read.
func showArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return err
	}
	if !bookseed.IsManagedTable(args[0]) {
		return fmt.Errorf("table %q (expected one of: %s): %w",
			args[0], strings.Join(bookseed.Tables, ", "), bookseed.ErrUnknownTable)
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	env, err := prepareRun(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(env.timeout)
	defer cancel()

	_, err = newSeeder(env.logger).Show(ctx, env.connConfig, args[0])
	return err
}
