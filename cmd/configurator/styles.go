package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fm-configurator/internal/prompt"
)

var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List the style keys the transform endpoint knows",
	Run: func(cmd *cobra.Command, args []string) {
		for _, key := range prompt.Keys() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-9s %s\n", key, prompt.TransformDescription(key))
		}
	},
}
