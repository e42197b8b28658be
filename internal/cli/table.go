package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/meru/pkg/binomial"
	"github.com/matzehuels/meru/pkg/pingala"
)

var headerStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

// formatTriangle centers each row under the widest one. With parity set,
// odd entries are highlighted and even ones dimmed.
func formatTriangle(rows [][]uint64, parity bool) string {
	if len(rows) == 0 {
		return ""
	}
	cell := 1
	for _, v := range rows[len(rows)-1] {
		cell = max(cell, len(strconv.FormatUint(v, 10)))
	}

	lines := make([]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, v := range row {
			text := fmt.Sprintf("%*d", cell, v)
			switch {
			case !parity:
				text = StyleNumber.Render(text)
			case v%2 == 1:
				text = styleOdd.Render(text)
			default:
				text = styleEven.Render(text)
			}
			cells[j] = text
		}
		lines[i] = strings.Join(cells, " ")
	}

	width := lipgloss.Width(lines[len(lines)-1])
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(strings.TrimRight(lipgloss.PlaceHorizontal(width, lipgloss.Center, line), " "))
		b.WriteByte('\n')
	}
	return b.String()
}

// formatPatterns lists patterns with their long-syllable count, followed
// by the per-count totals.
func formatPatterns(patterns []string, longCounts []uint64) string {
	rows := make([][]string, len(patterns))
	for i, p := range patterns {
		seq, err := pingala.ParseSequence(p)
		longs := "?"
		if err == nil {
			longs = strconv.Itoa(seq.Longs())
		}
		if p == "" {
			p = "(empty)"
		}
		rows[i] = []string{strconv.Itoa(i), p, longs}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Pattern", "Long").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 1:
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return StyleDim
		})

	var b strings.Builder
	b.WriteString(t.Render())
	b.WriteByte('\n')
	if len(longCounts) > 0 {
		parts := make([]string, len(longCounts))
		for k, n := range longCounts {
			parts[k] = fmt.Sprintf("%d long: %s", k, StyleNumber.Render(strconv.FormatUint(n, 10)))
		}
		b.WriteString(StyleDim.Render("  ") + strings.Join(parts, StyleDim.Render(" · ")))
		b.WriteByte('\n')
	}
	return b.String()
}

// formatLabels tabulates labeled terminal heights, highest first.
func formatLabels(labels []binomial.LabeledPoint, precision int) string {
	rows := make([][]string, len(labels))
	for i, l := range labels {
		rows[i] = []string{
			strconv.FormatFloat(l.Point.Y, 'f', precision, 64),
			strconv.FormatUint(l.Value, 10),
			strconv.Itoa(l.Count),
		}
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Height", "Label", "Paths").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 1:
				return StyleHighlight
			}
			return StyleValue
		})
	return t.Render() + "\n"
}
