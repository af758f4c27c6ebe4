// Package course holds the per-course attendance counters and the metrics derived from them.
package course

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/untisstats/untisstats/internal/model"
)

// UnknownName is used when no course name can be derived from a lesson.
const UnknownName = "unknown"

// TotalName is the name of the accumulator folding all courses together.
const TotalName = "Total"

// ErrUnknownStatus is returned when a lesson carries a status code that is not understood.
var ErrUnknownStatus = errors.New("unknown lesson status code")

// UnknownStatusError carries the offending status code.
type UnknownStatusError struct {
	Course string
	Code   string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("course %q: status code %q is unknown", e.Course, e.Code)
}

func (e *UnknownStatusError) Unwrap() error {
	return ErrUnknownStatus
}

// Course counts lesson outcomes for one course.
type Course struct {
	Name        string `yaml:"name"`
	Regular     int    `yaml:"regular"`
	Irregular   int    `yaml:"irregular"`
	Cancelled   int    `yaml:"cancelled"`
	Alternative int    `yaml:"alternative"`
}

// New returns an empty accumulator for the named course.
func New(name string) *Course {
	return &Course{Name: name}
}

// Increment counts one lesson with the given status code.
// An empty code and "none" count as regular.
func (c *Course) Increment(code string) error {
	switch {
	case code == "" || strings.EqualFold(code, model.StatusNone):
		c.Regular++
	case code == model.StatusIrregular:
		c.Irregular++
	case code == model.StatusCancelled:
		c.Cancelled++
	case code == model.StatusAlternative:
		c.Alternative++
	default:
		return &UnknownStatusError{Course: c.Name, Code: code}
	}
	return nil
}

// Merge returns the element-wise sum of both counters. The name of c is kept.
func (c Course) Merge(other Course) Course {
	c.Regular += other.Regular
	c.Irregular += other.Irregular
	c.Cancelled += other.Cancelled
	c.Alternative += other.Alternative
	return c
}

// Target is the number of nominally scheduled instruction hours.
func (c Course) Target() int {
	return c.Regular + c.Cancelled
}

// PercentUnadjusted is the share of the target that took place, ignoring alternatives.
func (c Course) PercentUnadjusted() int {
	return percent(c.Regular+c.Irregular, c.Target())
}

// PercentAdjusted is the share of the target that took place, crediting alternatives.
// It exceeds 100 when more alternatives than cancellations were recorded.
func (c Course) PercentAdjusted() int {
	return percent(c.Regular+c.Irregular+c.Alternative, c.Target())
}

func percent(n, target int) int {
	if target == 0 {
		return 0
	}
	return int(math.RoundToEven(100 * float64(n) / float64(target)))
}

// Total folds all given courses into one accumulator named TotalName.
func Total(courses ...Course) Course {
	total := Course{Name: TotalName}
	for _, c := range courses {
		total = total.Merge(c)
	}
	return total
}
