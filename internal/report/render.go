package report

import (
	"fmt"
	"strings"

	"po-extractor/internal/models"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ece6a")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e0af68")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f7768e")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a9b1d6"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7aa2f7")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565f89"))
)

// maxCellWidth truncates long addresses in the preview
const maxCellWidth = 32

// previewColumns are the FlatRowHeaders indexes shown in the terminal
var previewColumns = []int{1, 4, 3, 9, 10, 11, 13, 18}

// Render returns the styled status lines
func Render(s Summary) string {
	var b strings.Builder
	if s.Empty() {
		b.WriteString(warningStyle.Render(s.Message()))
	} else {
		b.WriteString(successStyle.Render(s.Message()))
	}
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(s.Details()))
	return b.String()
}

// RenderError returns a styled run failure
func RenderError(err error) string {
	return errorStyle.Render(fmt.Sprintf("Run failed: %v", err))
}

// RenderSaved returns the styled output file notice
func RenderSaved(path string) string {
	return infoStyle.Render(fmt.Sprintf("Saved %s", path))
}

// Preview renders up to limit rows as a table of the most useful columns
func Preview(rows []models.FlatRow, limit int) string {
	if len(rows) == 0 {
		return ""
	}

	headers := make([]string, len(previewColumns))
	for i, col := range previewColumns {
		headers[i] = models.FlatRowHeaders[col]
	}

	shown := rows
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, row := range shown {
		values := row.Values()
		cells := make([]string, len(previewColumns))
		for i, col := range previewColumns {
			cells[i] = truncate(oneLine(values[col]), maxCellWidth)
		}
		t.Row(cells...)
	}

	out := t.String()
	if hidden := len(rows) - len(shown); hidden > 0 {
		out += "\n" + infoStyle.Render(fmt.Sprintf("... and %d more rows", hidden))
	}
	return out
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
