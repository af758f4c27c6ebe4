// Package model defines the core data structures for untisstats.
package model

import "time"

// ActivityInstruction is the activity type WebUntis uses for ordinary curriculum teaching.
const ActivityInstruction = "Unterricht"

// Lesson status codes.
const (
	StatusNone        = "none"
	StatusIrregular   = "irregular"
	StatusCancelled   = "cancelled"
	StatusAlternative = "alternative"
)

// Lesson represents a single scheduled lesson occurrence.
type Lesson struct {
	Start        time.Time `yaml:"start"`
	End          time.Time `yaml:"end"`
	ActivityType string    `yaml:"activity_type"`
	Code         string    `yaml:"code"`
	Subjects     []string  `yaml:"subjects"`
	StudentGroup string    `yaml:"student_group"`
	Text         string    `yaml:"text"`
}

// SameTimeslot reports whether both lessons start and end at the same instants.
func (l Lesson) SameTimeslot(other Lesson) bool {
	return l.Start.Equal(other.Start) && l.End.Equal(other.End)
}

// SchoolYear describes the school year boundaries.
type SchoolYear struct {
	ID    int       `yaml:"id"`
	Name  string    `yaml:"name"`
	Start time.Time `yaml:"start"`
	End   time.Time `yaml:"end"`
}

// Window returns the range from the start of the school year up to its end,
// or up to now when the year is still running.
func (y SchoolYear) Window(now time.Time) (time.Time, time.Time) {
	end := y.End
	if end.After(now) {
		end = now
	}
	return y.Start, end
}

// Class is a school class as known to the timetable service.
type Class struct {
	ID       int    `yaml:"id"`
	Name     string `yaml:"name"`
	LongName string `yaml:"long_name"`
}
