package cli

import (
	"github.com/spf13/cobra"

	"github.com/mailworks/quadplan/pkg/plan"
)

// newNumberCmd creates the number command renumbering a project file.
func newNumberCmd() *cobra.Command {
	var (
		catalogPath string
		tenantStart int
		parcelStart int
		reset       bool
	)

	cmd := &cobra.Command{
		Use:   "number <project.json>",
		Short: "Renumber or reset door labels in a project file",
		Long:  `Walk the project's frames in wall order and assign sequential tenant and parcel labels, honoring the start values. With --reset, all labels are cleared instead and the start values are left untouched.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)
			path := args[0]

			cat, err := loadCatalog(catalogPath)
			if err != nil {
				return err
			}
			st, err := plan.ReadFile(path)
			if err != nil {
				return err
			}
			store, err := plan.NewStoreFromState(cat, st)
			if err != nil {
				return err
			}

			switch {
			case reset:
				store.ResetNumbering()
			case cmd.Flags().Changed("tenant-start") || cmd.Flags().Changed("parcel-start"):
				if !cmd.Flags().Changed("tenant-start") {
					tenantStart = st.TenantStart
				}
				if !cmd.Flags().Changed("parcel-start") {
					parcelStart = st.ParcelStart
				}
				if err := store.SetNumberStart(tenantStart, parcelStart); err != nil {
					return err
				}
			default:
				store.Renumber()
			}

			if err := plan.WriteFile(path, store.Snapshot()); err != nil {
				return err
			}

			if reset {
				prog.done("Cleared door labels")
			} else {
				prog.done("Renumbered doors")
			}
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&catalogPath, "catalog", "c", "", "TOML catalog file extending the built-in tables")
	cmd.Flags().IntVar(&tenantStart, "tenant-start", 0, "first tenant number")
	cmd.Flags().IntVar(&parcelStart, "parcel-start", 0, "first parcel number")
	cmd.Flags().BoolVar(&reset, "reset", false, "clear all labels instead of renumbering")
	return cmd
}
