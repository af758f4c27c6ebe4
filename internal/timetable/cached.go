package timetable

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/untisstats/untisstats/internal/cache"
	"github.com/untisstats/untisstats/internal/model"
)

// ChunkStore persists the lessons of completed chunks.
type ChunkStore interface {
	FindLessons(ctx context.Context, key cache.ChunkKey) ([]model.Lesson, error)
	InsertLessons(ctx context.Context, key cache.ChunkKey, lessons []model.Lesson) error
}

// Chunk is a range of whole days, both inclusive.
type Chunk struct {
	From time.Time
	To   time.Time
}

// MonthChunks splits the days between from and to into calendar months.
func MonthChunks(from, to time.Time) []Chunk {
	first, last := day(from), day(to.In(from.Location()))
	var chunks []Chunk
	for start := first; !start.After(last); {
		end := time.Date(start.Year(), start.Month()+1, 1, 0, 0, 0, 0, start.Location()).AddDate(0, 0, -1)
		if end.After(last) {
			end = last
		}
		chunks = append(chunks, Chunk{From: start, To: end})
		start = end.AddDate(0, 0, 1)
	}
	return chunks
}

// CachedSource fetches lessons month by month and keeps months that lie
// entirely in the past in a ChunkStore.
type CachedSource struct {
	source Source
	store  ChunkStore
	school string
	now    func() time.Time
}

func NewCachedSource(source Source, store ChunkStore, school string, now func() time.Time) *CachedSource {
	if now == nil {
		now = time.Now
	}
	return &CachedSource{
		source: source,
		store:  store,
		school: school,
		now:    now,
	}
}

// Lessons returns the lessons of all chunks in chronological order.
func (s *CachedSource) Lessons(ctx context.Context, class model.Class, from, to time.Time) ([]model.Lesson, error) {
	today := day(s.now().In(from.Location()))

	var lessons []model.Lesson
	for _, chunk := range MonthChunks(from, to) {
		key := cache.ChunkKey{School: s.school, ClassID: class.ID, From: chunk.From, To: chunk.To}
		final := chunk.To.Before(today)

		if final {
			cached, err := s.store.FindLessons(ctx, key)
			switch {
			case err == nil:
				slog.Debug("lessons from cache", "class", class.Name, "from", chunk.From, "to", chunk.To)
				lessons = append(lessons, cached...)
				continue
			case !errors.Is(err, cache.ErrNotFound):
				slog.Warn("could not read lessons from cache", "class", class.Name, "error", err)
			}
		}

		fetched, err := s.source.Lessons(ctx, class, chunk.From, chunk.To)
		if err != nil {
			return nil, fmt.Errorf("fetch %s to %s: %w",
				chunk.From.Format(time.DateOnly), chunk.To.Format(time.DateOnly), err)
		}
		if final {
			if err := s.store.InsertLessons(ctx, key, fetched); err != nil {
				slog.Warn("could not cache lessons", "class", class.Name, "error", err)
			}
		}
		lessons = append(lessons, fetched...)
	}
	return lessons, nil
}
