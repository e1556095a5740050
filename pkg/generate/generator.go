package generate

import (
	"context"
	"strings"
	"time"

	"github.com/prepdeck/prepdeck/pkg/cache"
	errs "github.com/prepdeck/prepdeck/pkg/errors"
	"github.com/prepdeck/prepdeck/pkg/observability"
)

// Generator produces text from a prompt.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Request is a single prompt with its sampling settings. Zero values leave
// the model default in place.
type Request struct {
	Prompt          string
	Temperature     float32
	TopK            float32
	TopP            float32
	MaxOutputTokens int32
}

// Func adapts a function to the Generator interface.
type Func func(ctx context.Context, req Request) (string, error)

// Generate calls f.
func (f Func) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// modeler is implemented by generators that know their model name.
type modeler interface {
	Model() string
}

// ModelName returns the model behind g, or "unknown".
func ModelName(g Generator) string {
	if m, ok := g.(modeler); ok {
		return m.Model()
	}
	return "unknown"
}

// Call runs req against g with retries for transient failures and reports
// the call to the generation hooks under kind. A blank reply is an
// ErrCodeGenerationEmpty error.
func Call(ctx context.Context, g Generator, kind string, req Request) (string, error) {
	hooks := observability.Generation()
	hooks.OnGenerateStart(ctx, kind)
	start := time.Now()

	var text string
	err := cache.RetryWithBackoff(ctx, func() error {
		var err error
		text, err = g.Generate(ctx, req)
		return err
	})
	if err == nil && strings.TrimSpace(text) == "" {
		err = errs.New(errs.ErrCodeGenerationEmpty, "model returned an empty %s reply", kind)
	}

	hooks.OnGenerateComplete(ctx, kind, ModelName(g), time.Since(start), err)
	if err != nil {
		return "", err
	}
	return text, nil
}
