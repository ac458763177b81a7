package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/schemalens/schemalens/internal/schemadiff"
	"github.com/spf13/cobra"
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare two schema files",
	Long: `Compare two SQL files statement by statement and report added, removed,
unchanged, and breaking statements. Statements are split on semicolons and
compared as exact strings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		currentFile, _ := cmd.Flags().GetString("current")
		proposedFile, _ := cmd.Flags().GetString("proposed")

		current, err := readStatements(currentFile)
		if err != nil {
			return err
		}
		proposed, err := readStatements(proposedFile)
		if err != nil {
			return err
		}

		diff := schemadiff.Compare(current, proposed)
		fmt.Fprintln(cmd.OutOrStdout(), diff.Report())
		return nil
	},
}

func readStatements(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	return splitStatements(string(data)), nil
}

// splitStatements breaks a SQL file into statements on semicolons. Trailing
// semicolons and surrounding whitespace are not part of the statement.
func splitStatements(sql string) []string {
	var stmts []string
	for _, part := range strings.Split(sql, ";") {
		if s := strings.TrimSpace(part); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

func init() {
	diffCmd.Flags().StringP("current", "c", "", "Path to the current schema SQL file")
	diffCmd.Flags().StringP("proposed", "p", "", "Path to the proposed schema SQL file")
	_ = diffCmd.MarkFlagRequired("current")
	_ = diffCmd.MarkFlagRequired("proposed")
}
