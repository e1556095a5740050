package generate

import (
	"context"
	"encoding/json"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/prepdeck/prepdeck/pkg/cache"
	"github.com/prepdeck/prepdeck/pkg/course"
	errs "github.com/prepdeck/prepdeck/pkg/errors"
	"github.com/prepdeck/prepdeck/pkg/observability"
)

// DefaultPrefetch is the number of concurrent explanation requests made by
// ExplainAll when no limit is given.
const DefaultPrefetch = 4

// Service generates and caches courses and explanations.
type Service struct {
	gen    Generator
	cache  cache.Cache
	keyer  cache.Keyer
	logger *log.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithCache stores results in c under keys from keyer. A nil keyer selects
// the default keyer.
func WithCache(c cache.Cache, keyer cache.Keyer) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
		if keyer != nil {
			s.keyer = keyer
		}
	}
}

// WithLogger sets the logger for cache and generation events.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a service on gen. Without WithCache nothing is cached.
func NewService(gen Generator, opts ...Option) *Service {
	s := &Service{
		gen:    gen,
		cache:  cache.NewNullCache(),
		keyer:  cache.NewDefaultKeyer(),
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generator returns the underlying generator.
func (s *Service) Generator() Generator { return s.gen }

// Course generates the course for a free-form name, or returns the cached
// one. The result is normalized.
func (s *Service) Course(ctx context.Context, name string) (course.Course, error) {
	if err := errs.ValidateCourseName(name); err != nil {
		return course.Course{}, err
	}
	key := s.keyer.CourseKey(course.Key(name))

	var c course.Course
	if hit, err := cache.GetJSON(ctx, s.cache, key, &c); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "course")
		s.logger.Debug("course cache hit", "name", name)
		return c, nil
	}
	observability.Cache().OnCacheMiss(ctx, "course")

	text, err := Call(ctx, s.gen, "course", CoursePrompt(strings.TrimSpace(name)))
	if err != nil {
		return course.Course{}, err
	}
	c, err = course.ParseReply(text)
	if err != nil {
		s.logger.Warn("unusable course reply", "name", name, "err", err)
		return course.Course{}, err
	}
	c = course.Normalize(c)
	if c.Title == "" {
		c.Title = strings.TrimSpace(name)
	}

	s.store(ctx, "course", key, c, cache.TTLCourse)
	s.logger.Info("generated course", "name", name, "modules", len(c.Modules))
	return c, nil
}

// ForgetCourse drops the cached course for name so the next Course call
// regenerates it.
func (s *Service) ForgetCourse(ctx context.Context, name string) error {
	return s.cache.Delete(ctx, s.keyer.CourseKey(course.Key(name)))
}

// Explain returns a markdown explanation of a module, or of one of its
// topics when topic is non-empty.
func (s *Service) Explain(ctx context.Context, c course.Course, moduleID int, topic string) (string, error) {
	m, ok := c.Module(moduleID)
	if !ok {
		return "", errs.New(errs.ErrCodeModuleNotFound, "module %d not found in %q", moduleID, c.Title)
	}
	topic = strings.TrimSpace(topic)
	if topic != "" && !slices.Contains(m.Topics, topic) {
		return "", errs.New(errs.ErrCodeInvalidInput, "module %d has no topic %q", moduleID, topic)
	}

	key := s.keyer.ExplanationKey(course.Key(c.Title), moduleID, topic)
	var text string
	if hit, err := cache.GetJSON(ctx, s.cache, key, &text); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "explanation")
		return text, nil
	}
	observability.Cache().OnCacheMiss(ctx, "explanation")

	req := ModulePrompt(c, m)
	if topic != "" {
		req = TopicPrompt(c, m, topic)
	}
	text, err := Call(ctx, s.gen, "explanation", req)
	if err != nil {
		return "", err
	}

	s.store(ctx, "explanation", key, text, cache.TTLExplanation)
	return text, nil
}

// ExplainAll fetches the module-level explanation of every module with at
// most limit requests in flight. The first failure cancels the rest.
func (s *Service) ExplainAll(ctx context.Context, c course.Course, limit int) (map[int]string, error) {
	if limit <= 0 {
		limit = DefaultPrefetch
	}

	var (
		mu  sync.Mutex
		out = make(map[int]string, len(c.Modules))
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	seen := make(map[int]bool, len(c.Modules))
	for _, m := range c.Modules {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true

		id := m.ID
		g.Go(func() error {
			text, err := s.Explain(ctx, c, id, "")
			if err != nil {
				return err
			}
			mu.Lock()
			out[id] = text
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) store(ctx context.Context, keyType, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err == nil {
		err = s.cache.Set(ctx, key, data, ttl)
	}
	if err != nil {
		s.logger.Warn("cache write failed", "key_type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}
