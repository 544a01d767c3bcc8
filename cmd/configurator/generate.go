package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"

	"fm-configurator/internal/prompt"
	"fm-configurator/internal/workflow"
)

var (
	generateFile   string
	generateStyle  string
	generatePrompt string
	generatePage   string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Restyle a photo and save the result as the draft order",
	Long: `Uploads the photo to /api/transform-gemini and stores the result as the current
draft order, replacing any previous one.

Pass --page-url with ?shopify=1 to act as if running inside the storefront frame;
the design-ready message then goes to CONFIGURATOR_HOST_CALLBACK_URL, or to stdout
when no callback is configured.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateFile, "file", "f", "", "Photo to upload")
	generateCmd.Flags().StringVarP(&generateStyle, "style", "s", string(prompt.StyleTokyo), "Style key")
	generateCmd.Flags().StringVarP(&generatePrompt, "prompt", "p", "", "Additional instructions")
	generateCmd.Flags().StringVar(&generatePage, "page-url", "", "Configurator page URL (defaults to the API URL)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	page := generatePage
	if page == "" {
		page = cfg.GetString("api_url")
	}

	controller, closeStore, err := newController(page, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeStore()

	sub := workflow.Submission{Style: generateStyle, CustomPrompt: generatePrompt}
	if generateFile != "" {
		data, err := os.ReadFile(generateFile)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", generateFile, err)
		}
		sub.File = &workflow.SelectedFile{
			Name:     filepath.Base(generateFile),
			Data:     data,
			MimeType: mimetype.Detect(data).String(),
		}
	}

	out, err := controller.Generate(cmd.Context(), sub)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Draft:     %s\n", out.Draft.DraftOrderID)
	if out.Draft.GeneratedImageURL != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Image URL: %s\n", out.Draft.GeneratedImageURL)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Image URL: (none, inline preview only)")
	}
	return nil
}
