package generate

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/genai"

	"github.com/prepdeck/prepdeck/pkg/cache"
	errs "github.com/prepdeck/prepdeck/pkg/errors"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

// =============================================================================
// GOOGLE GENAI GENERATOR
// =============================================================================

// Gemini generates text with Google's Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini generator. An empty model selects DefaultModel.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "Gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeGeneration, err, "create GenAI client")
	}

	return &Gemini{client: client, model: model}, nil
}

// Model returns the configured model name.
func (g *Gemini) Model() string { return g.model }

// Generate sends req as a single user turn and returns the reply text.
func (g *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), contentConfig(req))
	if err != nil {
		return "", classify(err)
	}
	return resp.Text(), nil
}

func contentConfig(req Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{MaxOutputTokens: req.MaxOutputTokens}
	if req.Temperature > 0 {
		cfg.Temperature = genai.Ptr(req.Temperature)
	}
	if req.TopK > 0 {
		cfg.TopK = genai.Ptr(req.TopK)
	}
	if req.TopP > 0 {
		cfg.TopP = genai.Ptr(req.TopP)
	}
	return cfg
}

// classify maps GenAI failures onto error codes. Rate limits and server
// errors are marked retryable.
func classify(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return errs.Wrap(errs.ErrCodeTimeout, err, "GenAI request")
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return errs.Wrap(errs.ErrCodeNetwork, err, "GenAI request")
	}

	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		return cache.Retryable(errs.Wrap(errs.ErrCodeRateLimited, err, "GenAI rate limited"))
	case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
		return errs.Wrap(errs.ErrCodeUnauthorized, err, "GenAI rejected the API key")
	case apiErr.Code >= 500:
		return cache.Retryable(errs.Wrap(errs.ErrCodeGeneration, err, "GenAI server error"))
	default:
		return errs.Wrap(errs.ErrCodeGeneration, err, "GenAI request failed")
	}
}
