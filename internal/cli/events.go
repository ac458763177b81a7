package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recent review events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := buildStoreApp()
		if err != nil {
			return err
		}
		defer a.Close()

		events, err := a.db.RecentEvents(limit)
		if err != nil {
			return err
		}
		for _, e := range events {
			thread := e.ThreadID
			if thread == "" {
				thread = "-"
			}
			line := fmt.Sprintf("%s  %-10s %-20s %s", e.Timestamp, thread, e.Stage, e.Outcome)
			if e.Detail != "" {
				line += "  " + e.Detail
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	},
}

func init() {
	eventsCmd.Flags().Int("limit", 50, "Maximum number of events to show")
}
