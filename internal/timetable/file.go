package timetable

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/untisstats/untisstats/internal/model"
)

// FileData is the layout of an offline lesson file.
type FileData struct {
	SchoolYear model.SchoolYear          `yaml:"school_year"`
	Classes    []model.Class             `yaml:"classes"`
	Lessons    map[string][]model.Lesson `yaml:"lessons"`
}

// FileSource serves lessons from a YAML file instead of a timetable server.
type FileSource struct {
	data FileData
}

// LoadFile reads an offline lesson file.
func LoadFile(filePath string) (*FileSource, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("could not read file '%s': %w", filePath, err)
	}

	var fileData FileData
	err = yaml.Unmarshal(data, &fileData)
	if err != nil {
		safeData, _ := json.Marshal(string(data))
		return nil, fmt.Errorf("could not parse YAML from '%s': %w. Content: %s", filePath, err, safeData)
	}

	return NewFileSource(fileData), nil
}

// NewFileSource serves the given data. Classes listed only under lessons are
// added in name order.
func NewFileSource(data FileData) *FileSource {
	known := make(map[string]bool, len(data.Classes))
	for _, class := range data.Classes {
		known[class.Name] = true
	}
	var extra []string
	for name := range data.Lessons {
		if !known[name] {
			extra = append(extra, name)
		}
	}
	slices.Sort(extra)
	for _, name := range extra {
		data.Classes = append(data.Classes, model.Class{Name: name})
	}
	return &FileSource{data: data}
}

func (s *FileSource) CurrentSchoolYear(_ context.Context) (model.SchoolYear, error) {
	return s.data.SchoolYear, nil
}

func (s *FileSource) Classes(_ context.Context) ([]model.Class, error) {
	return slices.Clone(s.data.Classes), nil
}

// Lessons returns the lessons of class held on a day between from and to, in file order.
func (s *FileSource) Lessons(_ context.Context, class model.Class, from, to time.Time) ([]model.Lesson, error) {
	first, last := day(from), day(to)
	var lessons []model.Lesson
	for _, lesson := range s.data.Lessons[class.Name] {
		d := day(lesson.Start.In(from.Location()))
		if d.Before(first) || d.After(last) {
			continue
		}
		lessons = append(lessons, lesson)
	}
	return lessons, nil
}
