package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/asachs01/claudeDocugen/internal"
)

var capabilitiesMode string

// capabilitiesCmd reports what the current environment can do before a
// recording is attempted.
var capabilitiesCmd = &cobra.Command{
	Use:   "capabilities",
	Short: "Show capture and element-resolution capabilities",
	Long: `Probe the current environment and report which screenshot method and
accessibility backend a session would use.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := internal.Mode(capabilitiesMode)
		if !mode.Valid() {
			return &internal.ConfigError{Field: "mode", Value: capabilitiesMode, Msg: "must be web or desktop"}
		}
		caps := internal.ResolveCapabilities(mode)

		enc := yaml.NewEncoder(os.Stdout)
		defer func() { _ = enc.Close() }()
		return enc.Encode(caps)
	},
}

func init() {
	rootCmd.AddCommand(capabilitiesCmd)
	capabilitiesCmd.Flags().StringVar(&capabilitiesMode, "mode", "desktop", "Mode to probe: web or desktop")
}
