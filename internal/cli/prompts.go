package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Manage prompt templates",
}

var promptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available prompt keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildStoreApp()
		if err != nil {
			return err
		}
		defer a.Close()

		for _, key := range a.prompts.Keys() {
			fmt.Fprintln(cmd.OutOrStdout(), key)
		}
		return nil
	},
}

var promptsShowCmd = &cobra.Command{
	Use:   "show <key>",
	Short: "Print a prompt template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildStoreApp()
		if err != nil {
			return err
		}
		defer a.Close()

		content, err := a.prompts.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), content)
		return nil
	},
}

var promptsSetCmd = &cobra.Command{
	Use:   "set <key>",
	Short: "Override a prompt template from a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read template: %w", err)
		}

		a, err := buildStoreApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.prompts.Set(args[0], string(data)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "prompt %s updated\n", args[0])
		return nil
	},
}

var promptsDeleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Remove a prompt override",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildStoreApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.prompts.Delete(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "prompt %s removed\n", args[0])
		return nil
	},
}

func init() {
	promptsSetCmd.Flags().StringP("file", "f", "", "Path to the template file")
	_ = promptsSetCmd.MarkFlagRequired("file")

	promptsCmd.AddCommand(promptsListCmd)
	promptsCmd.AddCommand(promptsShowCmd)
	promptsCmd.AddCommand(promptsSetCmd)
	promptsCmd.AddCommand(promptsDeleteCmd)
}
