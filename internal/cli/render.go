package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"taskboard/pkg/board"
)

type styles struct {
	header   lipgloss.Style
	cell     lipgloss.Style
	highCost lipgloss.Style
	border   lipgloss.Style
	kinds    map[board.Kind]lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		header:   r.NewStyle().Bold(true).Padding(0, 1),
		cell:     r.NewStyle().Padding(0, 1),
		highCost: r.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("214")),
		border:   r.NewStyle().Foreground(lipgloss.Color("240")),
		kinds: map[board.Kind]lipgloss.Style{
			board.KindSuccess: r.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
			board.KindError:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
			board.KindWarning: r.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		},
	}
}

func (app *App) styles() styles {
	return newStyles(lipgloss.NewRenderer(app.Out))
}

func (app *App) printNotice(n board.Notice) {
	st := app.styles()
	fmt.Fprintf(app.Out, "%s %s\n", st.kinds[n.Kind].Render(n.Title), n.Text)
}

func (app *App) printTable() {
	snap := app.sync.Snapshot()
	if len(snap.Rows) == 0 {
		fmt.Fprintln(app.Out, app.catalog.Label("empty"))
		return
	}

	st := app.styles()
	rows := make([][]string, 0, len(snap.Rows))
	for _, r := range snap.Rows {
		mark := ""
		if r.HighCost {
			mark = app.catalog.Label("high_cost")
		}
		rows = append(rows, []string{string(r.ID), r.Name, r.Due, r.Cost, mark})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.border).
		Headers(
			app.catalog.Label("col.id"),
			app.catalog.Label("col.name"),
			app.catalog.Label("col.due"),
			app.catalog.Label("col.cost"),
			"",
		).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return st.header
			case row >= 0 && row < len(snap.Rows) && snap.Rows[row].HighCost:
				return st.highCost
			}
			return st.cell
		})
	fmt.Fprintln(app.Out, t)
}
