// Package stats computes the attendance statistics of the selected classes.
package stats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/untisstats/untisstats/internal/model"
	"github.com/untisstats/untisstats/internal/reconcile"
	"github.com/untisstats/untisstats/internal/timetable"
)

// ClassReport is the reconciled statistics of one class.
type ClassReport struct {
	Class      model.Class
	SchoolYear model.SchoolYear
	From       time.Time
	To         time.Time
	Result     *reconcile.Result
}

// Runner fetches and reconciles the lessons of several classes.
type Runner struct {
	Source    timetable.Source
	Directory timetable.Directory
	Engine    *reconcile.Engine
	// Parallel limits how many classes are processed at once.
	Parallel int
	Now      func() time.Time
}

// Run processes the named classes, or all classes matching timetable.ClassPattern
// when names is empty. Reports are returned in selection order. The first error
// aborts the whole run so that no partial statistics are handed out.
func (r *Runner) Run(ctx context.Context, names []string) ([]ClassReport, error) {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	engine := r.Engine
	if engine == nil {
		engine = reconcile.NewEngine("")
	}

	year, err := r.Directory.CurrentSchoolYear(ctx)
	if err != nil {
		return nil, fmt.Errorf("current school year: %w", err)
	}
	all, err := r.Directory.Classes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	classes, err := timetable.SelectClasses(all, names)
	if err != nil {
		return nil, err
	}
	from, to := year.Window(now())

	reports := make([]ClassReport, len(classes))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.Parallel, 1))
	for i, class := range classes {
		g.Go(func() error {
			slog.Info("processing class", "class", class.Name, "from", from.Format(time.DateOnly), "to", to.Format(time.DateOnly))
			lessons, err := r.Source.Lessons(ctx, class, from, to)
			if err != nil {
				return fmt.Errorf("class %s: %w", class.Name, err)
			}
			result, err := engine.Reconcile(lessons)
			if err != nil {
				return fmt.Errorf("class %s: %w", class.Name, err)
			}
			slog.Debug("reconciled class", "class", class.Name, "lessons", len(lessons), "courses", len(result.Courses))
			reports[i] = ClassReport{
				Class:      class,
				SchoolYear: year,
				From:       from,
				To:         to,
				Result:     result,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
