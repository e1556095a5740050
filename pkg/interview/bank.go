package interview

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/prepdeck/prepdeck/pkg/cache"
	"github.com/prepdeck/prepdeck/pkg/generate"
	"github.com/prepdeck/prepdeck/pkg/observability"
)

// Bank generates interview questions and caches the ones the model wrote.
// Fallback samples are never cached, so a later call can replace them.
type Bank struct {
	gen    generate.Generator
	cache  cache.Cache
	keyer  cache.Keyer
	delay  time.Duration
	logger *log.Logger
}

// BankOption configures a Bank.
type BankOption func(*Bank)

// WithBankCache stores generated questions in c. A nil keyer selects the
// default keyer.
func WithBankCache(c cache.Cache, keyer cache.Keyer) BankOption {
	return func(b *Bank) {
		if c != nil {
			b.cache = c
		}
		if keyer != nil {
			b.keyer = keyer
		}
	}
}

// WithDelay sets the pause between model calls in Questions.
func WithDelay(d time.Duration) BankOption {
	return func(b *Bank) { b.delay = d }
}

// WithBankLogger sets the logger for cache events.
func WithBankLogger(l *log.Logger) BankOption {
	return func(b *Bank) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBank creates a bank on gen.
func NewBank(gen generate.Generator, opts ...BankOption) *Bank {
	b := &Bank{
		gen:    gen,
		cache:  cache.NewNullCache(),
		keyer:  cache.NewDefaultKeyer(),
		delay:  DefaultDelay,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Generator returns the underlying generator.
func (b *Bank) Generator() generate.Generator { return b.gen }

// Question returns the question for topic within category, generating it
// when it is not cached.
func (b *Bank) Question(ctx context.Context, category int, topic string) (Question, error) {
	qs, err := b.Questions(ctx, category, []string{topic})
	if err != nil {
		return Question{}, err
	}
	return qs[0], nil
}

// Questions returns one question per topic in order. Cached questions are
// served immediately; the rest are generated sequentially with the bank's
// delay between model calls. On cancellation the questions gathered so far
// are returned with the context error.
func (b *Bank) Questions(ctx context.Context, category int, topics []string) ([]Question, error) {
	delay := b.delay
	if delay <= 0 {
		delay = DefaultDelay
	}

	out := make([]Question, 0, len(topics))
	called := false
	for i, topic := range topics {
		key := b.keyer.QuestionKey(topic, cache.QuestionKeyOpts{
			Model:    generate.ModelName(b.gen),
			Category: category,
		})

		var q Question
		if hit, err := cache.GetJSON(ctx, b.cache, key, &q); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "question")
			out = append(out, q)
			continue
		}
		observability.Cache().OnCacheMiss(ctx, "question")

		if called {
			select {
			case <-ctx.Done():
				return out, ctx.Err()
			case <-time.After(delay):
			}
		}
		called = true

		q, err := generateWith(ctx, b.gen, topic, i)
		if err != nil {
			return out, err
		}
		if !q.Fallback {
			b.store(ctx, key, q)
		}
		out = append(out, q)
	}
	return out, nil
}

func (b *Bank) store(ctx context.Context, key string, q Question) {
	data, err := json.Marshal(q)
	if err == nil {
		err = b.cache.Set(ctx, key, data, cache.TTLQuestion)
	}
	if err != nil {
		b.logger.Warn("cache write failed", "key_type", "question", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "question", len(data))
}
