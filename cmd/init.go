package cmd

import (
	"fmt"
	"os"

	"github.com/gaurav-prasanna/paperback/core/config"
	"github.com/gaurav-prasanna/paperback/core/render"
	"github.com/spf13/cobra"
)

var flagTemplate string

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default config file and a starter Word template",
	Long: `Init writes the default configuration (paperback.yaml unless a path is
given) and a starter Word template holding the {{CONTENT}} placeholder.
Point render.word_template at an edited copy to restyle the Word output.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&flagTemplate, "template", "paperback-template.docx", "Where to write the Word template (empty to skip)")
}

func runInit(_ *cobra.Command, args []string) error {
	path := config.FileName
	if len(args) == 1 {
		path = args[0]
	}
	if err := config.WriteDefault(path); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Written: %s\n", path)

	if flagTemplate == "" {
		return nil
	}
	f, err := os.OpenFile(flagTemplate, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("creating Word template: %w", err)
	}
	if err := render.WriteTemplate(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Written: %s\n", flagTemplate)
	return nil
}
