package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/untisstats/untisstats/internal/model"
)

func TestStore(t *testing.T) {
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLogger(nil))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	store := NewStore(db)
	ctx := context.Background()

	start := time.Date(2024, time.January, 8, 7, 45, 0, 0, time.UTC)
	lessons := []model.Lesson{
		{Start: start, End: start.Add(45 * time.Minute), ActivityType: model.ActivityInstruction, Subjects: []string{"Ma"}},
		{Start: start, End: start.Add(45 * time.Minute), ActivityType: "Veranstaltung", Text: "Ski Trip"},
	}
	key := ChunkKey{
		School:  "FannyLGym",
		ClassID: 42,
		From:    time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		To:      time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
	}

	if _, err := store.FindLessons(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.InsertLessons(ctx, key, lessons); err != nil {
		t.Fatalf("failed to insert lessons: %v", err)
	}

	found, err := store.FindLessons(ctx, key)
	if err != nil {
		t.Fatalf("failed to find lessons: %v", err)
	}
	if len(found) != len(lessons) {
		t.Fatalf("expected %d lessons, got %d", len(lessons), len(found))
	}
	for i, lesson := range lessons {
		if !lesson.SameTimeslot(found[i]) || lesson.Text != found[i].Text || lesson.ActivityType != found[i].ActivityType {
			t.Fatalf("expected %v, got %v", lesson, found[i])
		}
	}

	other := key
	other.ClassID = 43
	if _, err := store.FindLessons(ctx, other); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other class, got %v", err)
	}
}

func TestOpen(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}
}
