package cli

import (
	"github.com/spf13/cobra"

	"github.com/mailworks/quadplan/pkg/plan"
)

// newNewCmd creates the new command scaffolding a project file.
func newNewCmd() *cobra.Command {
	var (
		catalogPath string
		models      []string
	)

	cmd := &cobra.Command{
		Use:   "new <project.json>",
		Short: "Scaffold a project file",
		Long:  `Create a new project file with Level 0 and its first wall. Each --model flag places one frame of that catalog model on the wall, left to right.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			path := args[0]

			cat, err := loadCatalog(catalogPath)
			if err != nil {
				return err
			}

			store := plan.NewStore(cat)
			wall := store.Snapshot().ActiveWall
			for _, model := range models {
				if _, err := store.AddFrame(wall, model); err != nil {
					return err
				}
				logger.Debug("placed frame", "model", model)
			}

			if err := plan.WriteFile(path, store.Snapshot()); err != nil {
				return err
			}

			printSuccess("Created project with %d frame(s)", len(models))
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&catalogPath, "catalog", "c", "", "TOML catalog file extending the built-in tables")
	cmd.Flags().StringArrayVarP(&models, "model", "m", nil, "frame model to place (repeatable)")
	return cmd
}
