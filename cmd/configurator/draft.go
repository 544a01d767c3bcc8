package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Inspect or clear the saved draft order",
}

var draftShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved draft order",
	RunE: func(cmd *cobra.Command, args []string) error {
		controller, closeStore, err := newController("", cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer closeStore()

		draft, err := controller.LoadDraft(cmd.Context())
		if err != nil {
			return err
		}
		if draft == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No saved draft.")
			return nil
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(draft)
	},
}

var draftClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the saved draft order",
	RunE: func(cmd *cobra.Command, args []string) error {
		controller, closeStore, err := newController("", cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer closeStore()
		if err := controller.ClearDraft(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Draft cleared.")
		return nil
	},
}

func init() {
	draftCmd.AddCommand(draftShowCmd)
	draftCmd.AddCommand(draftClearCmd)
}
