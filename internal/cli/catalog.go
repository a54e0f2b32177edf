package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/mailworks/quadplan/pkg/catalog"
)

// loadCatalog resolves the catalog for a command: the built-in 4C tables,
// optionally extended by a TOML catalog file.
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(path)
}

// newCatalogCmd creates the catalog command listing door types and frame
// models.
func newCatalogCmd() *cobra.Command {
	var catalogPath string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List door types and frame models",
		Long:  `List the door types and frame models the configurator knows, including unit sizes, categories, and factory column layouts. A TOML catalog file extends or overrides the built-in tables.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog(catalogPath)
			if err != nil {
				return err
			}
			printCatalog(cat)
			return nil
		},
	}

	cmd.Flags().StringVarP(&catalogPath, "catalog", "c", "", "TOML catalog file extending the built-in tables")
	return cmd
}

func printCatalog(cat *catalog.Catalog) {
	fmt.Println(StyleTitle.Render("Door Types"))

	doorRows := [][]string{}
	for _, d := range cat.DoorTypes() {
		usps := ""
		if d.USPSApproved {
			usps = iconSuccess
		}
		doorRows = append(doorRows, []string{
			d.Code,
			fmt.Sprintf("%d", d.Units),
			string(d.Category),
			usps,
		})
	}
	fmt.Println(catalogTable([]string{"Code", "Units", "Category", "USPS"}, doorRows))

	fmt.Println()
	fmt.Println(StyleTitle.Render("Frame Models"))

	frameRows := [][]string{}
	for _, f := range cat.FrameModels() {
		right := "—"
		if !f.SingleColumn() {
			right = strings.Join(f.RightColumn, " ")
		}
		fixed := ""
		if !f.Configurable {
			fixed = "fixed"
		}
		frameRows = append(frameRows, []string{
			f.Model,
			fmt.Sprintf("%.2f × %.2f", f.Width, f.Height),
			fmt.Sprintf("%d", f.Units),
			strings.Join(f.LeftColumn, " "),
			right,
			fixed,
		})
	}
	fmt.Println(catalogTable([]string{"Model", "W × H (in)", "Units", "Left", "Right", ""}, frameRows))
}

func catalogTable(headers []string, rows [][]string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			return StyleValue
		})
}
