package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dmpack-labs/dmpack/internal/deliverable"
	"github.com/dmpack-labs/dmpack/internal/metadata"
	"github.com/dmpack-labs/dmpack/internal/model"
	"github.com/dmpack-labs/dmpack/internal/validate"
	"github.com/spf13/cobra"
)

var inspectJSON bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <package-dir>",
	Short: "Show and verify an assembled deliverable package",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]

		m, err := deliverable.Load(dir)
		if err != nil {
			return err
		}

		result, err := deliverable.ValidateDir(dir)
		if err != nil {
			return err
		}

		if result.Valid {
			issues, err := verifyModel(dir, m)
			if err != nil {
				return err
			}
			if len(issues) > 0 {
				result.Valid = false
				result.Issues = append(result.Issues, issues...)
			}
		}

		w := cmd.OutOrStdout()
		if inspectJSON {
			out, err := json.MarshalIndent(m, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling manifest: %w", err)
			}
			fmt.Fprintln(w, string(out))
		} else {
			printSummary(w, dir, m)
		}

		if !result.Valid {
			printIssues(w, result.Issues)
			return fmt.Errorf("package %s is invalid", dir)
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "Print the manifest as JSON")
	rootCmd.AddCommand(inspectCmd)
}

// verifyModel recomputes the checksums recorded in the model descriptor and
// reports each missing or modified file.
func verifyModel(dir string, m *deliverable.Manifest) ([]validate.Issue, error) {
	raw, err := json.Marshal(m.Model)
	if err != nil {
		return nil, fmt.Errorf("encoding model descriptor: %w", err)
	}
	var d model.Descriptor
	if err := json.Unmarshal(raw, &d); err != nil {
		return []validate.Issue{{
			Path:    "/model",
			Message: fmt.Sprintf("model descriptor is malformed: %v", err),
			Keyword: "checksum",
		}}, nil
	}

	mismatched, err := model.Verify(deliverable.AssetDir(dir, deliverable.RoleModel), d)
	if err != nil {
		return nil, fmt.Errorf("verifying model files: %w", err)
	}

	issues := make([]validate.Issue, 0, len(mismatched))
	for _, rel := range mismatched {
		issues = append(issues, validate.Issue{
			Path:    "/model/files/" + rel,
			Message: fmt.Sprintf("file %s is missing or does not match its recorded checksum", rel),
			Keyword: "checksum",
		})
	}
	return issues, nil
}

func printSummary(w io.Writer, dir string, m *deliverable.Manifest) {
	fmt.Fprintf(w, "Package:      %s\n", dir)
	fmt.Fprintf(w, "Format:       %s\n", m.Version)

	if info, err := metadata.Read(deliverable.AssetDir(dir, deliverable.RoleMetadata)); err == nil {
		fmt.Fprintf(w, "Name:         %s\n", info.ID)
		fmt.Fprintf(w, "Version:      %s\n", info.Version)
	}

	deps := "(none)"
	if len(m.Dependency) > 0 {
		deps = strings.Join(m.Dependency, ", ")
	}
	fmt.Fprintf(w, "Dependencies: %s\n", deps)
}

func printIssues(w io.Writer, issues []validate.Issue) {
	fmt.Fprintf(w, "%d issue(s):\n", len(issues))
	for _, issue := range issues {
		fmt.Fprintf(w, "  - %s\n", issue)
	}
}
