// Package timetable defines where lessons come from and how classes are selected.
package timetable

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/untisstats/untisstats/internal/model"
)

// ErrUnknownClass is returned when a requested class does not exist.
var ErrUnknownClass = errors.New("unknown class")

// ClassPattern selects classes when none are requested explicitly.
var ClassPattern = regexp.MustCompile(`^\d+[a-z]`)

// Source supplies the lessons of a class between two dates, both inclusive.
type Source interface {
	Lessons(ctx context.Context, class model.Class, from, to time.Time) ([]model.Lesson, error)
}

// Directory supplies the school year and the known classes.
type Directory interface {
	CurrentSchoolYear(ctx context.Context) (model.SchoolYear, error)
	Classes(ctx context.Context) ([]model.Class, error)
}

// SelectClasses picks the requested classes by name, in request order. Without
// names, all classes matching ClassPattern are returned in directory order.
func SelectClasses(all []model.Class, names []string) ([]model.Class, error) {
	if len(names) == 0 {
		var selected []model.Class
		for _, class := range all {
			if ClassPattern.MatchString(class.Name) {
				selected = append(selected, class)
			}
		}
		return selected, nil
	}

	byName := make(map[string]model.Class, len(all))
	for _, class := range all {
		if _, exists := byName[class.Name]; !exists {
			byName[class.Name] = class
		}
	}
	selected := make([]model.Class, 0, len(names))
	for _, name := range names {
		class, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownClass, name)
		}
		selected = append(selected, class)
	}
	return selected, nil
}

// day truncates t to midnight in its own location.
func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
