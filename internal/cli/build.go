package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmpack-labs/dmpack/internal/config"
	"github.com/dmpack-labs/dmpack/internal/definition"
	"github.com/dmpack-labs/dmpack/internal/packager"
	"github.com/spf13/cobra"
)

var (
	buildFile   string
	buildOutput string
	buildYes    bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Assemble a deliverable package from a definition file",
	Long: `Assemble a deliverable package from a definition file (YAML or TOML).

The output directory is deleted and recreated before assembly. If it is not
empty you are asked to confirm unless --yes is given.

Examples:
  dmpack build
  dmpack build -f deliverable.toml -o dist/ner-model --yes`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildFile, "file", "f", definition.DefaultFileName, "Definition file")
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "Output directory (default: config export_dir)")
	buildCmd.Flags().BoolVarP(&buildYes, "yes", "y", false, "Skip confirmation before wiping a non-empty output directory")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	out := buildOutput
	if out == "" {
		out = config.ExportDir()
	}

	nonEmpty, err := isNonEmptyDir(out)
	if err != nil {
		return err
	}
	if nonEmpty && !buildYes {
		ok := confirm(cmd.InOrStdin(), cmd.OutOrStdout(),
			fmt.Sprintf("? %s is not empty and will be deleted. Proceed? (y/N) ", out))
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Build cancelled.")
			return nil
		}
	}

	m, err := packager.Run(cmd.Context(), &packager.Options{
		DefinitionPath: buildFile,
		ExportDir:      out,
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Built %s (format %s)\n", out, m.Version)
	if len(m.Dependency) > 0 {
		fmt.Fprintf(w, "  dependencies: %s\n", strings.Join(m.Dependency, ", "))
	}
	return nil
}

// isNonEmptyDir reports whether path is an existing directory with entries.
// A missing path is not an error.
func isNonEmptyDir(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading output directory %s: %w", path, err)
	}
	return len(entries) > 0, nil
}

// confirm prints prompt and reads a yes/no answer. Anything but y/yes is no.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return false
	}
	answer := strings.TrimSpace(strings.ToLower(scanner.Text()))
	return answer == "y" || answer == "yes"
}
