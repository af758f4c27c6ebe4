// Package reconcile turns the lesson occurrences of one class into per-course statistics.
package reconcile

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/untisstats/untisstats/internal/course"
	"github.com/untisstats/untisstats/internal/model"
)

// Alternative is one entry of the alternative-usage tally.
type Alternative struct {
	Name  string `yaml:"name"`
	Hours int    `yaml:"hours"`
}

// Result holds the statistics of one reconciliation pass.
type Result struct {
	Courses      map[string]*course.Course
	Alternatives map[string]int
}

// SortedCourses returns copies of all course accumulators ordered by name.
func (r *Result) SortedCourses() []course.Course {
	courses := make([]course.Course, 0, len(r.Courses))
	for _, c := range r.Courses {
		courses = append(courses, *c)
	}
	slices.SortFunc(courses, func(a, b course.Course) int {
		return strings.Compare(a.Name, b.Name)
	})
	return courses
}

// Total folds all courses into a fresh accumulator.
func (r *Result) Total() course.Course {
	return course.Total(r.SortedCourses()...)
}

// SortedAlternatives returns the tally ordered by hours, most used first.
// Equal counts are ordered by name.
func (r *Result) SortedAlternatives() []Alternative {
	alternatives := make([]Alternative, 0, len(r.Alternatives))
	for name, hours := range r.Alternatives {
		alternatives = append(alternatives, Alternative{Name: name, Hours: hours})
	}
	slices.SortFunc(alternatives, func(a, b Alternative) int {
		if a.Hours != b.Hours {
			return b.Hours - a.Hours
		}
		return strings.Compare(a.Name, b.Name)
	})
	return alternatives
}

// Engine classifies lessons and matches cancellations to alternatives.
type Engine struct {
	// InstructionTag is the activity type of regular instruction lessons.
	InstructionTag string
}

// NewEngine returns an engine treating the given activity type as regular instruction.
// An empty tag selects model.ActivityInstruction.
func NewEngine(instructionTag string) *Engine {
	if instructionTag == "" {
		instructionTag = model.ActivityInstruction
	}
	return &Engine{InstructionTag: instructionTag}
}

// Reconcile runs the default engine over lessons.
func Reconcile(lessons []model.Lesson) (*Result, error) {
	return NewEngine("").Reconcile(lessons)
}

// Reconcile counts every instruction lesson for its course and credits cancelled
// lessons with an alternative when a non-instruction lesson occupies the same timeslot.
// Lessons are processed in input order; the first matching alternative feeds the tally.
func (e *Engine) Reconcile(lessons []model.Lesson) (*Result, error) {
	var alternatives []model.Lesson
	for _, lesson := range lessons {
		if !e.isInstruction(lesson) {
			alternatives = append(alternatives, lesson)
		}
	}

	result := &Result{
		Courses:      make(map[string]*course.Course),
		Alternatives: make(map[string]int),
	}
	for _, lesson := range lessons {
		if !e.isInstruction(lesson) {
			continue
		}
		name := e.CourseName(lesson)
		c, ok := result.Courses[name]
		if !ok {
			c = course.New(name)
			result.Courses[name] = c
		}
		if err := c.Increment(lesson.Code); err != nil {
			return nil, fmt.Errorf("lesson at %s: %w", lesson.Start.Format("2006-01-02 15:04"), err)
		}
		if lesson.Code != model.StatusCancelled {
			continue
		}

		idx := slices.IndexFunc(alternatives, lesson.SameTimeslot)
		if idx < 0 {
			continue
		}
		if err := c.Increment(model.StatusAlternative); err != nil {
			return nil, err
		}
		result.Alternatives[e.CourseName(alternatives[idx])]++
	}
	return result, nil
}

// CourseName derives the course name of a lesson using the default instruction tag.
func CourseName(lesson model.Lesson) string {
	return NewEngine("").CourseName(lesson)
}

// CourseName derives the course name of a lesson. Instruction lessons are named by
// their first subject and, if present, their student group; all other lessons by
// their free text.
func (e *Engine) CourseName(lesson model.Lesson) string {
	var name string
	if e.isInstruction(lesson) {
		if len(lesson.Subjects) > 0 {
			name = lesson.Subjects[0]
		} else {
			slog.Warn("instruction lesson without subject", "start", lesson.Start, "end", lesson.End)
		}
		if lesson.StudentGroup != "" {
			name = name + "/" + lesson.StudentGroup
		}
	} else {
		name = lesson.Text
	}
	if name == "" {
		return course.UnknownName
	}
	return name
}

func (e *Engine) isInstruction(lesson model.Lesson) bool {
	return lesson.ActivityType == e.InstructionTag
}
