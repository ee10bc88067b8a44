package cli

import (
	"strconv"
	"strings"

	"github.com/Veraticus/rentflow/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// UnitRow is one line of the unit listing.
type UnitRow struct {
	Unit   model.Unit
	Tenant string
}

var unitColumns = []string{"UNIT", "PROPERTY", "TYPE", "RENT (KES)", "TENANT"}

// RenderUnitTable lays out units as an aligned table.
func RenderUnitTable(rows []UnitRow) string {
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		tenant := r.Tenant
		if tenant == "" {
			tenant = "vacant"
		}
		cells = append(cells, []string{
			r.Unit.ID,
			r.Unit.PropertyID,
			r.Unit.UnitType,
			strconv.FormatInt(r.Unit.RentPrice, 10),
			tenant,
		})
	}

	widths := make([]int, len(unitColumns))
	for i, h := range unitColumns {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range cells {
		for i, c := range row {
			if w := lipgloss.Width(c); w > widths[i] {
				widths[i] = w
			}
		}
	}

	render := func(row []string, style lipgloss.Style) string {
		parts := make([]string, len(row))
		for i, c := range row {
			parts[i] = TableCellStyle.Width(widths[i] + 2).Render(c)
		}
		return style.Render(strings.Join(parts, ""))
	}

	lines := []string{render(unitColumns, TableHeaderStyle)}
	for _, row := range cells {
		line := render(row, lipgloss.NewStyle())
		if row[4] == "vacant" {
			line = SubtleStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
