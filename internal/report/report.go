// Package report builds and renders the per-class attendance report.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/untisstats/untisstats/internal/config"
	"github.com/untisstats/untisstats/internal/course"
	"github.com/untisstats/untisstats/internal/reconcile"
	"github.com/untisstats/untisstats/internal/stats"
)

// Headings of the course table, in column order.
var Headings = []string{
	"Course",
	"regular",
	"irregular",
	"alternative",
	"cancelled",
	"target",
	"percent unadjusted",
	"percent adjusted",
}

// AlternativeHeadings of the alternative-usage table.
var AlternativeHeadings = []string{"Alternative", "Hours"}

// Row is one line of the course table.
type Row struct {
	Name              string `yaml:"name"`
	Regular           int    `yaml:"regular"`
	Irregular         int    `yaml:"irregular"`
	Alternative       int    `yaml:"alternative"`
	Cancelled         int    `yaml:"cancelled"`
	Target            int    `yaml:"target"`
	PercentUnadjusted int    `yaml:"percent_unadjusted"`
	PercentAdjusted   int    `yaml:"percent_adjusted"`
}

// RowOf derives a table row from a course accumulator.
func RowOf(c course.Course) Row {
	return Row{
		Name:              c.Name,
		Regular:           c.Regular,
		Irregular:         c.Irregular,
		Alternative:       c.Alternative,
		Cancelled:         c.Cancelled,
		Target:            c.Target(),
		PercentUnadjusted: c.PercentUnadjusted(),
		PercentAdjusted:   c.PercentAdjusted(),
	}
}

// Values returns the row in column order.
func (r Row) Values() []any {
	return []any{r.Name, r.Regular, r.Irregular, r.Alternative, r.Cancelled, r.Target, r.PercentUnadjusted, r.PercentAdjusted}
}

// Cells returns the row formatted as text, in column order.
func (r Row) Cells() []string {
	values := r.Values()
	cells := make([]string, len(values))
	for i, v := range values {
		cells[i] = fmt.Sprint(v)
	}
	return cells
}

// Document is everything a renderer needs for one class.
type Document struct {
	Class        string                  `yaml:"class"`
	SchoolYear   string                  `yaml:"school_year"`
	Date         string                  `yaml:"date"`
	Courses      []Row                   `yaml:"courses"`
	Total        Row                     `yaml:"total"`
	Alternatives []reconcile.Alternative `yaml:"alternatives"`
}

// Title is the headline of the report.
func (d Document) Title() string {
	return fmt.Sprintf("Attendance statistics for class %s", d.Class)
}

// Period describes the time span the report covers.
func (d Document) Period() string {
	return fmt.Sprintf("Start of school year %s to %s", d.SchoolYear, d.Date)
}

// Build turns a class report into a document dated date. Courses are sorted by
// name, alternatives by hours.
func Build(cr stats.ClassReport, date time.Time) Document {
	doc := Document{
		Class:        cr.Class.Name,
		SchoolYear:   cr.SchoolYear.Name,
		Date:         date.Format(time.DateOnly),
		Total:        RowOf(cr.Result.Total()),
		Alternatives: cr.Result.SortedAlternatives(),
	}
	for _, c := range cr.Result.SortedCourses() {
		doc.Courses = append(doc.Courses, RowOf(c))
	}
	return doc
}

// Render writes doc in the given format.
func Render(out io.Writer, format string, doc Document) error {
	switch format {
	case config.FormatText:
		return Text(out, doc)
	case config.FormatXLSX:
		return XLSX(out, doc)
	case config.FormatYAML:
		return YAML(out, doc)
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}
}

// Filename is the file a class report of the given format is written to.
func Filename(class, format string) string {
	ext := format
	if format == config.FormatText {
		ext = "txt"
	}
	safe := strings.NewReplacer("/", "_", "\\", "_", " ", "_").Replace(class)
	return fmt.Sprintf("attendance_statistics_class_%s.%s", safe, ext)
}
