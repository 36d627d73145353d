package cli

import (
	"encoding/json"
	"fmt"

	"github.com/dmpack-labs/dmpack/internal/branding"
	"github.com/dmpack-labs/dmpack/internal/deliverable"
	"github.com/spf13/cobra"
)

var (
	versionShort bool
	versionJSON  bool
)

// versionInfo describes the binary and the package format it writes.
type versionInfo struct {
	Version       string `json:"version"`
	Commit        string `json:"commit"`
	Date          string `json:"date"`
	PackageFormat string `json:"package_format"`
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info as JSON")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information and the package format written by build",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(w, buildVersion)
			return nil
		}

		info := versionInfo{
			Version:       buildVersion,
			Commit:        buildCommit,
			Date:          buildDate,
			PackageFormat: deliverable.FormatVersion,
		}

		if versionJSON {
			out, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling version info: %w", err)
			}
			fmt.Fprintln(w, string(out))
			return nil
		}

		fmt.Fprintf(w, "%s version %s (commit: %s, built: %s)\n", branding.CLIName(), info.Version, info.Commit, info.Date)
		fmt.Fprintf(w, "package format %s (%s)\n", info.PackageFormat, deliverable.ManifestFile)
		return nil
	},
}
