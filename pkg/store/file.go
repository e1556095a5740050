package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/prepdeck/prepdeck/pkg/course"
	errs "github.com/prepdeck/prepdeck/pkg/errors"
)

// FileStore is a file-based course store for CLI applications.
// Courses are stored as indented JSON files named after their key.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a new file-based course store.
// If baseDir is empty, defaults to ~/.config/prepdeck/courses/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "prepdeck", "courses")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create course dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) coursePath(key string) string {
	return filepath.Join(s.baseDir, key+".json")
}

func (s *FileStore) Save(ctx context.Context, key string, c course.Course) error {
	if err := errs.ValidateCourseKey(key); err != nil {
		return err
	}
	data, err := course.Marshal(c, course.FormatJSON)
	if err != nil {
		return fmt.Errorf("marshal course: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := s.coursePath(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write course file: %w", err)
	}
	if err := os.Rename(tmp, s.coursePath(key)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write course file: %w", err)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, key string) (course.Course, error) {
	if err := errs.ValidateCourseKey(key); err != nil {
		return course.Course{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.coursePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return course.Course{}, notFound(key)
		}
		return course.Course{}, fmt.Errorf("read course file: %w", err)
	}

	var c course.Course
	if err := json.Unmarshal(data, &c); err != nil {
		return course.Course{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse stored course %q", key)
	}
	return course.Normalize(c), nil
}

func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read course dir: %w", err)
	}
	keys := []string{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		keys = append(keys, strings.TrimSuffix(entry.Name(), ".json"))
	}
	slices.Sort(keys)
	return keys, nil
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := errs.ValidateCourseKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.coursePath(key)); err != nil {
		if os.IsNotExist(err) {
			return notFound(key)
		}
		return fmt.Errorf("remove course file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for course files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
