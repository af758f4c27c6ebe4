package untis

import (
	"context"
	"fmt"
	"time"

	"github.com/untisstats/untisstats/internal/model"
)

// elementTypeClass is the WebUntis element type of a class ("Klasse").
const elementTypeClass = 1

type schoolYear struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	StartDate int    `json:"startDate"`
	EndDate   int    `json:"endDate"`
}

type klasse struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	LongName string `json:"longName"`
	Active   *bool  `json:"active"`
}

type element struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	LongName string `json:"longname"`
}

type period struct {
	ID           int       `json:"id"`
	Date         int       `json:"date"`
	StartTime    int       `json:"startTime"`
	EndTime      int       `json:"endTime"`
	Subjects     []element `json:"su"`
	StudentGroup string    `json:"sg"`
	LsText       string    `json:"lstext"`
	Code         string    `json:"code"`
	ActivityType string    `json:"activityType"`
}

// CurrentSchoolYear returns the school year WebUntis marks as current.
func (c *Client) CurrentSchoolYear(ctx context.Context) (model.SchoolYear, error) {
	var year *schoolYear
	if err := c.call(ctx, "getCurrentSchoolyear", nil, &year); err != nil {
		return model.SchoolYear{}, err
	}
	if year == nil || year.ID == 0 {
		return model.SchoolYear{}, ErrNoSchoolYear
	}
	return model.SchoolYear{
		ID:    year.ID,
		Name:  year.Name,
		Start: c.dateTime(year.StartDate, 0),
		End:   c.dateTime(year.EndDate, 0),
	}, nil
}

// Classes lists all active classes.
func (c *Client) Classes(ctx context.Context) ([]model.Class, error) {
	var klassen []klasse
	if err := c.call(ctx, "getKlassen", nil, &klassen); err != nil {
		return nil, err
	}
	classes := make([]model.Class, 0, len(klassen))
	for _, k := range klassen {
		if k.Active != nil && !*k.Active {
			continue
		}
		classes = append(classes, model.Class{ID: k.ID, Name: k.Name, LongName: k.LongName})
	}
	return classes, nil
}

// Lessons fetches the extended timetable of a class between from and to, both inclusive.
func (c *Client) Lessons(ctx context.Context, class model.Class, from, to time.Time) ([]model.Lesson, error) {
	params := map[string]any{
		"options": map[string]any{
			"element": map[string]int{
				"id":   class.ID,
				"type": elementTypeClass,
			},
			"startDate":        formatDate(from.In(c.cfg.Location)),
			"endDate":          formatDate(to.In(c.cfg.Location)),
			"showLsText":       true,
			"showStudentgroup": true,
			"showLsNumber":     true,
			"showSubstText":    true,
			"showInfo":         true,
			"showBooking":      true,
			"klasseFields":     []string{"id", "name", "longname"},
			"subjectFields":    []string{"id", "name", "longname"},
			"roomFields":       []string{"id", "name"},
			"teacherFields":    []string{"id"},
		},
	}

	var periods []period
	if err := c.call(ctx, "getTimetable", params, &periods); err != nil {
		return nil, fmt.Errorf("timetable of class %s: %w", class.Name, err)
	}

	lessons := make([]model.Lesson, 0, len(periods))
	for _, p := range periods {
		lessons = append(lessons, c.lesson(p))
	}
	return lessons, nil
}

func (c *Client) lesson(p period) model.Lesson {
	var subjects []string
	for _, su := range p.Subjects {
		subjects = append(subjects, su.Name)
	}
	return model.Lesson{
		Start:        c.dateTime(p.Date, p.StartTime),
		End:          c.dateTime(p.Date, p.EndTime),
		ActivityType: p.ActivityType,
		Code:         p.Code,
		Subjects:     subjects,
		StudentGroup: p.StudentGroup,
		Text:         p.LsText,
	}
}

// dateTime converts the WebUntis YYYYMMDD date and HHMM time integers.
func (c *Client) dateTime(date, hhmm int) time.Time {
	return time.Date(date/10000, time.Month(date/100%100), date%100, hhmm/100, hhmm%100, 0, 0, c.cfg.Location)
}

func formatDate(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}
