// Package store persists generated courses by course key.
//
// Backends:
//   - [MemoryStore]: in-process map for tests and the default server
//   - [FileStore]: one JSON file per course for the CLI
//   - [MongoStore]: shared MongoDB collection for multi-instance servers
//
// Keys are produced by course.StoreKey and validated with
// errors.ValidateCourseKey, so they are safe as file names and URL
// segments. A missing course is reported as errors.ErrCodeCourseNotFound.
package store

import (
	"context"

	"github.com/prepdeck/prepdeck/pkg/course"
	errs "github.com/prepdeck/prepdeck/pkg/errors"
)

// Store is the interface for course storage backends.
type Store interface {
	// Save stores c under key, replacing any existing course.
	Save(ctx context.Context, key string, c course.Course) error

	// Get returns the course stored under key.
	Get(ctx context.Context, key string) (course.Course, error)

	// List returns all stored keys in ascending order.
	List(ctx context.Context) ([]string, error)

	// Delete removes the course stored under key.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

func notFound(key string) error {
	return errs.New(errs.ErrCodeCourseNotFound, "course %q not found", key)
}
