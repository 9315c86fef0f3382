package commands

import (
	"fmt"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mesh-intelligence/phonebook/pkg/types"
)

const columnWidth = 15

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// rows flattens records into one (name, phone) row per phone. A record
// without phones still gets a row with an empty phone.
func rows(records iter.Seq[*types.Record]) [][]string {
	var out [][]string
	for r := range records {
		phones := r.Phones()
		if len(phones) == 0 {
			out = append(out, []string{r.Name().Value(), ""})
			continue
		}
		for _, p := range phones {
			out = append(out, []string{r.Name().Value(), p.Value()})
		}
	}
	return out
}

// PlainTable renders records as fixed-width text:
//
//	|      Name      |      Phone     |
//	-----------------------------------
//	| Bill           | 380991112233   |
func PlainTable(records iter.Seq[*types.Record]) string {
	var b strings.Builder
	fmt.Fprintf(&b, "| %s| %s|\n", center("Name", columnWidth), center("Phone", columnWidth))
	b.WriteString(strings.Repeat("-", 35))
	b.WriteByte('\n')
	for _, row := range rows(records) {
		fmt.Fprintf(&b, "| %-*s| %-*s|\n", columnWidth, row[0], columnWidth, row[1])
	}
	return b.String()
}

// StyledTable renders records as a bordered lipgloss table.
func StyledTable(records iter.Seq[*types.Record]) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("Name", "Phone").
		Rows(rows(records)...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}

// center pads s on both sides to width, putting the odd space on the right.
func center(s string, width int) string {
	pad := width - utf8.RuneCountInString(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
