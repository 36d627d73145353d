package cli

import (
	"fmt"

	"github.com/dmpack-labs/dmpack/internal/definition"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [definition-file]",
	Short: "Validate a deliverable definition file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := definition.DefaultFileName
		if len(args) == 1 {
			path = args[0]
		}

		result, err := definition.ValidateFile(path)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if !result.Valid {
			printIssues(w, result.Issues)
			return fmt.Errorf("%s is invalid", path)
		}

		def, err := definition.Parse(path)
		if err != nil {
			return err
		}
		if err := def.Check(); err != nil {
			return fmt.Errorf("%s is invalid: %w", path, err)
		}

		fmt.Fprintf(w, "%s is valid\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
