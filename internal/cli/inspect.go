package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/mailworks/quadplan/pkg/catalog"
	"github.com/mailworks/quadplan/pkg/plan"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// newInspectCmd creates the inspect command: an interactive browser over a
// project's levels, walls, frames, and doors.
func newInspectCmd() *cobra.Command {
	var catalogPath string

	cmd := &cobra.Command{
		Use:   "inspect <project.json>",
		Short: "Browse a project file in an interactive TUI",
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
			if _, err := plan.NewStoreFromState(cat, st); err != nil {
				return err
			}

			p := tea.NewProgram(newInspectModel(cat, st))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&catalogPath, "catalog", "c", "", "TOML catalog file extending the built-in tables")
	return cmd
}

// =============================================================================
// InspectModel - Wall browser
// =============================================================================

// wallEntry is one selectable row: a wall under its level.
type wallEntry struct {
	levelName string
	wall      plan.Wall
	active    bool
}

// inspectModel is the bubbletea model for the project browser: a wall
// list on top, the selected wall's door table below.
type inspectModel struct {
	cat     *catalog.Catalog
	entries []wallEntry
	cursor  int
	height  int
	offset  int
}

func newInspectModel(cat *catalog.Catalog, st plan.State) inspectModel {
	var entries []wallEntry
	cursor := 0
	for _, level := range st.Levels {
		for _, wall := range level.Walls {
			if wall.ID == st.ActiveWall {
				cursor = len(entries)
			}
			entries = append(entries, wallEntry{
				levelName: level.Name,
				wall:      wall,
				active:    wall.ID == st.ActiveWall,
			})
		}
	}
	return inspectModel{cat: cat, entries: entries, cursor: cursor, height: 8}
}

func (m inspectModel) Init() tea.Cmd {
	return nil
}

func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height / 3
		if m.height < 4 {
			m.height = 4
		}
	}
	return m, nil
}

func (m inspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Project Walls"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.entries) {
		end = len(m.entries)
	}
	for i := m.offset; i < end; i++ {
		e := m.entries[i]
		line := fmt.Sprintf("%s / %s (%d frames)", e.levelName, e.wall.Name, len(e.wall.Frames))
		if e.active {
			line += " " + listDimStyle.Render("[active]")
		}
		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + line))
		} else {
			b.WriteString(listNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if len(m.entries) > 0 {
		b.WriteString("\n")
		b.WriteString(m.wallView(m.entries[m.cursor].wall))
	}
	return b.String()
}

// wallView renders the selected wall's doors as a table, frames left to
// right, left column before right column, bottom to top.
func (m inspectModel) wallView(wall plan.Wall) string {
	rows := [][]string{}
	for fi := range wall.Frames {
		f := &wall.Frames[fi]
		for _, col := range []plan.Column{plan.ColumnLeft, plan.ColumnRight} {
			for _, di := range f.ColumnDoors(col) {
				d := f.Doors[di]
				code := d.Type
				if d.Substitute != "" {
					code = fmt.Sprintf("%s (as %s)", d.Type, d.Substitute)
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d %s", fi+1, f.Model),
					string(col),
					fmt.Sprintf("%d", d.Position),
					fmt.Sprintf("%d", m.cat.DoorType(d.EffectiveType()).Units),
					code,
					d.Label,
				})
			}
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Frame", "Column", "Pos", "Units", "Door", "Label").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			return StyleValue
		})
	return t.Render()
}
