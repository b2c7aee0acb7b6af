package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/asachs01/claudeDocugen/internal"
	"github.com/asachs01/claudeDocugen/internal/export"
)

var (
	exportFormat string
	exportOutput string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <session-id>",
	Short: "Export a session to file",
	Long: `Export a recorded session to json, jsonl, or yaml.

By default the export is written to docugen-<id>.<ext> in the current
directory; pass --output to choose a path, or "-" for stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openStore(cfg)
		if err != nil {
			return fmt.Errorf("failed to open session store: %w", err)
		}
		defer func() { _ = store.Close() }()

		session, err := store.LoadSession(args[0])
		if err != nil {
			return err
		}

		exporter, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}

		if exportOutput == "-" {
			return exporter.Export(session, os.Stdout)
		}

		path := exportOutput
		if path == "" {
			path = fmt.Sprintf("docugen-%s.%s", session.ID[:8], exporter.Extension())
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if err := exporter.Export(session, f); err != nil {
			return err
		}
		internal.LogInfo("exported session %s to %s", session.ID[:8], path)
		fmt.Printf("Exported session %s to %s\n", session.ID[:8], path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Export format: json, jsonl, yaml")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output path (\"-\" for stdout)")
}
