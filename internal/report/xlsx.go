package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the workbook.
const (
	SheetStatistics   = "Statistics"
	SheetAlternatives = "Alternatives"
)

// tableStartRow is the row of the course table heading; title and period go above.
const tableStartRow = 4

// workbook collects the first error so the cell writes stay readable.
type workbook struct {
	f   *excelize.File
	err error
}

func (w *workbook) row(sheet string, row int, values []any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(sheet, cell, &values)
}

func (w *workbook) style(sheet string, fromCol, fromRow, toCol, toRow int, style *excelize.Style) {
	if w.err != nil {
		return
	}
	id, err := w.f.NewStyle(style)
	if err != nil {
		w.err = err
		return
	}
	from, err := excelize.CoordinatesToCellName(fromCol, fromRow)
	if err != nil {
		w.err = err
		return
	}
	to, err := excelize.CoordinatesToCellName(toCol, toRow)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellStyle(sheet, from, to, id)
}

func (w *workbook) width(sheet, fromCol, toCol string, width float64) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetColWidth(sheet, fromCol, toCol, width)
}

var (
	border = []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	grey = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"CCCCCC"}}
)

// XLSX writes doc as an Excel workbook with a statistics and an alternatives sheet.
func XLSX(out io.Writer, doc Document) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetDocProps(&excelize.DocProperties{Title: doc.Title(), Description: doc.Period()}); err != nil {
		return fmt.Errorf("set document properties: %w", err)
	}
	if err := f.SetSheetName("Sheet1", SheetStatistics); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	w := &workbook{f: f}
	writeStatistics(w, doc)
	if w.err != nil {
		return fmt.Errorf("write %s sheet: %w", SheetStatistics, w.err)
	}

	if _, err := f.NewSheet(SheetAlternatives); err != nil {
		return fmt.Errorf("create %s sheet: %w", SheetAlternatives, err)
	}
	writeAlternatives(w, doc)
	if w.err != nil {
		return fmt.Errorf("write %s sheet: %w", SheetAlternatives, w.err)
	}

	f.SetActiveSheet(0)
	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeStatistics(w *workbook, doc Document) {
	const sheet = SheetStatistics
	cols := len(Headings)

	w.row(sheet, 1, []any{doc.Title()})
	w.style(sheet, 1, 1, 1, 1, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}})
	w.row(sheet, 2, []any{doc.Period()})
	w.style(sheet, 1, 2, 1, 2, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})

	headings := make([]any, cols)
	for i, h := range Headings {
		headings[i] = h
	}
	w.row(sheet, tableStartRow, headings)
	w.style(sheet, 1, tableStartRow, cols, tableStartRow, &excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: border,
	})

	row := tableStartRow
	for i, course := range doc.Courses {
		row++
		w.row(sheet, row, course.Values())
		style := &excelize.Style{Border: border}
		// Every second line is grey for readability.
		if i%2 == 0 {
			style.Fill = grey
		}
		w.style(sheet, 1, row, cols, row, style)
	}

	row++
	w.row(sheet, row, doc.Total.Values())
	w.style(sheet, 1, row, 1, row, &excelize.Style{Font: &excelize.Font{Bold: true}})
	w.style(sheet, 2, row, cols, row, &excelize.Style{Font: &excelize.Font{Bold: true}, Border: border})

	w.width(sheet, "A", "A", 24)
	w.width(sheet, "B", "H", 12)
}

func writeAlternatives(w *workbook, doc Document) {
	const sheet = SheetAlternatives

	w.row(sheet, 1, []any{AlternativeHeadings[0], AlternativeHeadings[1]})
	w.style(sheet, 1, 1, 2, 1, &excelize.Style{Font: &excelize.Font{Bold: true}, Border: border})
	for i, a := range doc.Alternatives {
		w.row(sheet, i+2, []any{a.Name, a.Hours})
	}
	if len(doc.Alternatives) > 0 {
		w.style(sheet, 1, 2, 2, len(doc.Alternatives)+1, &excelize.Style{Border: border})
	}
	w.width(sheet, "A", "A", 30)
}
