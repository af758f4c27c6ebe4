package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/untisstats/untisstats/internal/reconcile"
)

// Section headers for text output.
const (
	TextHeaderCourses      = "\nCourses"
	TextHeaderAlternatives = "\nAlternatives used for cancelled lessons"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	nameStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
)

func cellStyle(row, col int) lipgloss.Style {
	switch {
	case row == table.HeaderRow:
		return headerStyle
	case col == 0:
		return nameStyle
	default:
		return numberStyle
	}
}

// Text writes doc as plain text tables.
func Text(out io.Writer, doc Document) error {
	fmt.Fprintln(out, doc.Title())
	fmt.Fprintln(out, doc.Period())

	PrintCourses(out, doc.Courses, doc.Total)
	PrintAlternatives(out, doc.Alternatives)
	return nil
}

// PrintCourses prints the course table followed by the total row.
func PrintCourses(out io.Writer, courses []Row, total Row) {
	fmt.Fprintln(out, TextHeaderCourses)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(cellStyle).
		Headers(Headings...)
	for _, row := range courses {
		t.Row(row.Cells()...)
	}
	t.Row(total.Cells()...)
	fmt.Fprintln(out, t.String())
}

// PrintAlternatives prints how often each alternative replaced a cancelled lesson.
func PrintAlternatives(out io.Writer, alternatives []reconcile.Alternative) {
	if len(alternatives) == 0 {
		return
	}
	fmt.Fprintln(out, TextHeaderAlternatives)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(cellStyle).
		Headers(AlternativeHeadings...)
	for _, a := range alternatives {
		t.Row(a.Name, strconv.Itoa(a.Hours))
	}
	fmt.Fprintln(out, t.String())
}
