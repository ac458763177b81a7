package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Run one schema review from a request file",
	Long: `Run a single schema review without starting the server.

The request file is the same JSON object POST /api/review accepts:
{"url": ..., "ddl": [...], "queries": [...], "thread_id": ...}. The result is
printed as JSON on stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		thread, _ := cmd.Flags().GetString("thread")

		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read request: %w", err)
		}
		var payload map[string]any
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("parse request: %w", err)
		}
		if thread != "" {
			payload["thread_id"] = thread
		}

		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.pipeline.Review(cmd.Context(), payload)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	reviewCmd.Flags().StringP("file", "f", "", "Path to the JSON request file")
	reviewCmd.Flags().String("thread", "", "Thread id for conversation continuity")
	_ = reviewCmd.MarkFlagRequired("file")
}
