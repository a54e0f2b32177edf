package cli

import (
	"github.com/spf13/cobra"

	"github.com/mailworks/quadplan/pkg/errors"
	"github.com/mailworks/quadplan/pkg/plan"
)

// newValidateCmd creates the validate command checking a project file for
// save-readiness.
func newValidateCmd() *cobra.Command {
	var catalogPath string

	cmd := &cobra.Command{
		Use:   "validate <project.json>",
		Short: "Check a project file for save-readiness",
		Long:  `Validate a project file against the packing rules: every column must stay within its frame, no doors may overlap, and no unit may be left empty.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog(catalogPath)
			if err != nil {
				return err
			}
			st, err := plan.ReadFile(args[0])
			if err != nil {
				return err
			}
			store, err := plan.NewStoreFromState(cat, st)
			if err != nil {
				return err
			}

			result := store.Validate()
			if result.IsValid {
				printSuccess("Project is save-ready")
				return nil
			}

			printError("Project is not save-ready")
			for _, msg := range result.Errors {
				printDetail(msg)
			}
			return errors.New(errors.ErrCodeIncompleteLayout, "%d problem(s) found", len(result.Errors))
		},
	}

	cmd.Flags().StringVarP(&catalogPath, "catalog", "c", "", "TOML catalog file extending the built-in tables")
	return cmd
}
