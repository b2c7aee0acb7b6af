package cmd

import (
	"fmt"
	"os"

	"github.com/asachs01/claudeDocugen/internal"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	configPath  string
	storagePath string
	version     string = "dev"
	commit      string = "unknown"
	date        string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docugen",
	Short: "Record UI workflows into step-by-step documentation",
	Long: `docugen watches you perform a workflow and turns it into documentation.

It captures before/after screenshots around each action, decides which
actions were meaningful using structural image similarity, resolves what
element each action touched, and flags sensitive regions for redaction.

Quick Start:
  docugen record "file an expense report"   # Record a session
  docugen list                              # List recorded sessions
  docugen show <session-id>                 # View a session's steps
  docugen export <session-id> --format json # Export a session`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path")
	rootCmd.PersistentFlags().StringVar(&storagePath, "storage", "", "Session database path (default ~/.docugen/sessions.db)")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// loadConfig reads configuration honoring the persistent flags.
func loadConfig() (*internal.Config, error) {
	cfg, err := internal.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if storagePath != "" {
		cfg.Storage.Path = storagePath
	}
	return cfg, nil
}

// openStore opens the session database at the configured location.
func openStore(cfg *internal.Config) (*internal.Store, error) {
	path := cfg.Storage.Path
	if path == "" {
		var err error
		path, err = internal.DefaultStorePath()
		if err != nil {
			return nil, err
		}
	}
	return internal.OpenStore(path)
}
