package store

import (
	"context"
	"slices"
	"sync"

	"github.com/prepdeck/prepdeck/pkg/course"
	errs "github.com/prepdeck/prepdeck/pkg/errors"
)

// MemoryStore keeps courses in memory. Stored courses are deep copies.
type MemoryStore struct {
	mu      sync.RWMutex
	courses map[string]course.Course
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{courses: make(map[string]course.Course)}
}

func (s *MemoryStore) Save(ctx context.Context, key string, c course.Course) error {
	if err := errs.ValidateCourseKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses[key] = course.Normalize(c)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, key string) (course.Course, error) {
	if err := errs.ValidateCourseKey(key); err != nil {
		return course.Course{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.courses[key]
	if !ok {
		return course.Course{}, notFound(key)
	}
	return course.Normalize(c), nil
}

func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.courses))
	for k := range s.courses {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := errs.ValidateCourseKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[key]; !ok {
		return notFound(key)
	}
	delete(s.courses, key)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
