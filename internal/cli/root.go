package cli

import (
	"github.com/spf13/cobra"
)

var version = "dev"

func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "schemalens",
	Short: "schemalens — database schema review service",
	Long: `schemalens reviews a database schema against its SQL workload.

It combines heuristic performance and lineage analysis with a single call to
a reasoning provider, and returns proposed DDL, migrations, and query
rewrites as structured JSON. State (prompt overrides, chat histories, review
events) is stored in a local SQLite database under ~/.schemalens/.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(promptsCmd)
	rootCmd.AddCommand(eventsCmd)
}
