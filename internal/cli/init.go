package cli

import (
	"fmt"
	"regexp"

	"github.com/dmpack-labs/dmpack/internal/scaffold"
	"github.com/spf13/cobra"
)

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

var (
	initOutputDir string
	initModelType string
	initAuthor    string
)

var initCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Write a starter deliverable.yaml",
	Long: `Write a starter deliverable definition to the output directory.

Example:
  dmpack init ner-model --model-type keras_saved_model`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !namePattern.MatchString(name) {
			return fmt.Errorf("invalid name %q: must be lowercase alphanumeric with '.', '_' or '-'", name)
		}

		data := scaffold.NewData(name)
		data.Author = initAuthor
		if initModelType != "" {
			data.ModelType = initModelType
		}

		result, err := scaffold.Generate(data, initOutputDir)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Created %s\n", result.Path)
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  warning: %s\n", warning)
		}
		fmt.Fprintln(w, "\nNext steps:")
		fmt.Fprintln(w, "  1. Point model.source at your exported model directory")
		fmt.Fprintln(w, "  2. Declare processors and dependencies")
		fmt.Fprintln(w, "  3. Run 'dmpack build'")
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initOutputDir, "output-dir", ".", "Directory to write deliverable.yaml into")
	initCmd.Flags().StringVar(&initModelType, "model-type", "", "Model type (default: keras_saved_model)")
	initCmd.Flags().StringVar(&initAuthor, "author", "", "Author recorded in metadata")
	rootCmd.AddCommand(initCmd)
}
