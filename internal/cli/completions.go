package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/vvka-141/bookseed/pkg/bookseed"
)

// sslModes contains valid PostgreSQL SSL modes for shell completion.
var sslModes = []string{"disable", "allow", "prefer", "require", "verify-ca", "verify-full"}

var authMethods = []string{"standard", "aws", "azure", "google"}

var seedModes = []string{
	bookseed.SeedModeAppend.String(),
	bookseed.SeedModeSkipExisting.String(),
}

// completeFrom returns a completion function offering the values that start
// with the typed prefix.
func completeFrom(values []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var matches []string
		for _, v := range values {
			if strings.HasPrefix(v, toComplete) {
				matches = append(matches, v)
			}
		}
		return matches, cobra.ShellCompDirectiveNoFileComp
	}
}

// completeTableNames completes the single table argument of `show`.
func completeTableNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completeFrom(bookseed.Tables)(cmd, args, toComplete)
}
