package pipeline

import (
	"context"
	"time"

	"github.com/prepdeck/prepdeck/pkg/course"
	errs "github.com/prepdeck/prepdeck/pkg/errors"
	"github.com/prepdeck/prepdeck/pkg/observability"
)

// Resolve loads the course named by opts and returns it normalized with its
// store key and source.
//
// A file is read directly. A course name is looked up in the store unless
// Refresh is set, and otherwise generated and saved back to the store.
func (r *Runner) Resolve(ctx context.Context, opts Options) (course.Course, string, string, error) {
	if err := opts.ValidateForResolve(); err != nil {
		return course.Course{}, "", "", err
	}
	name := opts.Course
	if opts.File != "" {
		name = opts.File
	}

	hooks := observability.Pipeline()
	hooks.OnResolveStart(ctx, name)
	start := time.Now()

	c, key, source, err := r.resolve(ctx, opts)
	if err != nil {
		hooks.OnResolveComplete(ctx, name, source, 0, time.Since(start), err)
		return course.Course{}, "", "", err
	}
	c = course.Normalize(c)

	hooks.OnResolveComplete(ctx, name, source, len(c.Modules), time.Since(start), nil)
	r.Logger.Info("resolved course",
		"course", c.Title,
		"source", source,
		"modules", len(c.Modules),
		"duration", time.Since(start))
	return c, key, source, nil
}

func (r *Runner) resolve(ctx context.Context, opts Options) (course.Course, string, string, error) {
	if opts.File != "" {
		c, err := course.ReadFile(opts.File)
		if err != nil {
			return course.Course{}, "", SourceFile, err
		}
		return c, course.StoreKey(c.Title), SourceFile, nil
	}

	key := course.StoreKey(opts.Course)
	if r.Store != nil && !opts.Refresh {
		c, err := r.Store.Get(ctx, key)
		if err == nil {
			return c, key, SourceStore, nil
		}
		if !errs.Is(err, errs.ErrCodeCourseNotFound) {
			return course.Course{}, key, SourceStore, err
		}
	}

	if r.Service == nil {
		return course.Course{}, key, "", errs.New(errs.ErrCodeCourseNotFound,
			"course %q is not stored and no generator is configured", key)
	}
	if opts.Refresh {
		if err := r.Service.ForgetCourse(ctx, opts.Course); err != nil {
			r.Logger.Debug("drop cached course", "key", key, "err", err)
		}
	}

	c, err := r.Service.Course(ctx, opts.Course)
	if err != nil {
		return course.Course{}, key, SourceGenerated, err
	}
	if r.Store != nil {
		if err := r.Store.Save(ctx, key, c); err != nil {
			r.Logger.Warn("could not store generated course", "key", key, "err", err)
		}
	}
	return c, key, SourceGenerated, nil
}
