package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/pretextbook/pretext/internal/errors"
	"github.com/pretextbook/pretext/internal/version"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	versionFormat string
	versionShort  bool
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display version information for pretext: the release version, git
commit, build time, Go version and target platform.

Examples:
  pretext version                 # version, commit and platform
  pretext version --short         # version only
  pretext version --format json   # machine readable`,
	Args: maxArgs(0),
	RunE: started(runVersionCommand),
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringVarP(&versionFormat, "format", "f", "text", "Output format (text, json, yaml)")
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Show short version only")
}

func runVersionCommand(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	info := version.GetBuildInfo()

	switch versionFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(info)
	case "text":
		if versionShort {
			fmt.Fprintln(out, version.GetShortVersion())
			return nil
		}
		fmt.Fprintf(out, "pretext %s\n", version.GetShortVersion())
		fmt.Fprintln(out, version.GetDetailedVersion())
		return nil
	default:
		return errors.NewUsageError(errors.ErrCodeUsage,
			fmt.Sprintf("unsupported format: %s (supported: text, json, yaml)", versionFormat))
	}
}
