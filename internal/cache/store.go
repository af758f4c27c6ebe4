// Package cache stores timetable chunks that are no longer expected to change.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/untisstats/untisstats/internal/model"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	db *badger.DB
}

// Open opens (or creates) a badger database in dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache in '%s': %w", dir, err)
	}
	return NewStore(db), nil
}

func NewStore(db *badger.DB) *Store {
	return &Store{
		db: db,
	}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) InsertLessons(_ context.Context, key ChunkKey, lessons []model.Lesson) error {
	return s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(lessons)
		if err != nil {
			return err
		}
		return txn.Set(key.bytes(), data)
	})
}

func (s *Store) FindLessons(_ context.Context, key ChunkKey) ([]model.Lesson, error) {
	var lessons []model.Lesson
	if err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key.bytes())
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &lessons)
		})
	}); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return lessons, nil
}

// ChunkKey identifies the lessons of one class within [From, To].
type ChunkKey struct {
	School  string
	ClassID int
	From    time.Time
	To      time.Time
}

func (k ChunkKey) bytes() []byte {
	return []byte(fmt.Sprintf("lessons/%s/%d/%s/%s",
		k.School, k.ClassID, k.From.Format(time.DateOnly), k.To.Format(time.DateOnly)))
}
