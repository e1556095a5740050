package interview

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/prepdeck/prepdeck/pkg/course"
	"github.com/prepdeck/prepdeck/pkg/generate"
	"github.com/prepdeck/prepdeck/pkg/observability"
)

// Difficulty is the coarse difficulty of a question.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// ParseDifficulty maps a label onto a Difficulty, ignoring case. Unknown
// labels yield Medium.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case Easy:
		return Easy
	case Hard:
		return Hard
	default:
		return Medium
	}
}

// Question is a programming interview question with a reference solution.
type Question struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Difficulty   Difficulty `json:"difficulty"`
	TimeEstimate string     `json:"timeEstimate,omitempty"`
	Companies    []string   `json:"companies,omitempty"`
	Solution     string     `json:"solution"`
	Topic        string     `json:"topic"`
	Fallback     bool       `json:"fallback,omitempty"`
}

// DefaultDelay is the pause between model calls in Bank.Questions.
const DefaultDelay = 800 * time.Millisecond

var fenceRe = regexp.MustCompile("```[a-zA-Z]*\\s*|\\s*```")

// Generate asks gen for one question on topic. Model failures and unusable
// replies produce a fallback sample question; only context errors are
// returned.
func Generate(ctx context.Context, gen generate.Generator, topic string) (Question, error) {
	return generateWith(ctx, gen, topic, 0)
}

func generateWith(ctx context.Context, gen generate.Generator, topic string, index int) (Question, error) {
	text, err := generate.Call(ctx, gen, "question", generate.QuestionPrompt(topic))
	if err == nil {
		var q Question
		q, err = ParseQuestion(text)
		if err == nil {
			q.ID = uuid.NewString()
			q.Topic = topic
			return q, nil
		}
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Question{}, ctxErr
	}

	log.Debug("using sample question", "topic", topic, "err", err)
	observability.Generation().OnFallback(ctx, "question")
	return SampleQuestion(index, topic), nil
}

// ParseQuestion decodes a model reply into a question. The whole reply is
// tried first, then the outermost JSON object within it. Title,
// description and solution are required.
func ParseQuestion(text string) (Question, error) {
	text = strings.TrimSpace(fenceRe.ReplaceAllString(text, ""))

	var raw struct {
		Title        string   `json:"title"`
		Description  string   `json:"description"`
		Difficulty   string   `json:"difficulty"`
		TimeEstimate string   `json:"timeEstimate"`
		Companies    []string `json:"companies"`
		Solution     string   `json:"solution"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		obj, xerr := course.ExtractJSON(text)
		if xerr != nil {
			return Question{}, xerr
		}
		if err := json.Unmarshal([]byte(obj), &raw); err != nil {
			return Question{}, err
		}
	}

	if strings.TrimSpace(raw.Title) == "" || strings.TrimSpace(raw.Description) == "" || strings.TrimSpace(raw.Solution) == "" {
		return Question{}, errors.New("question reply is missing title, description or solution")
	}
	return Question{
		Title:        raw.Title,
		Description:  raw.Description,
		Difficulty:   ParseDifficulty(raw.Difficulty),
		TimeEstimate: raw.TimeEstimate,
		Companies:    raw.Companies,
		Solution:     raw.Solution,
	}, nil
}

// Criteria selects questions. Zero fields match everything.
type Criteria struct {
	Search     string
	Difficulty Difficulty
	Topic      string
}

// Filter returns the questions matching every criterion, in order. Search
// matches title or description case-insensitively; Topic must match
// exactly.
func Filter(questions []Question, c Criteria) []Question {
	term := strings.ToLower(strings.TrimSpace(c.Search))
	out := []Question{}
	for _, q := range questions {
		if term != "" &&
			!strings.Contains(strings.ToLower(q.Title), term) &&
			!strings.Contains(strings.ToLower(q.Description), term) {
			continue
		}
		if c.Difficulty != "" && q.Difficulty != c.Difficulty {
			continue
		}
		if c.Topic != "" && q.Topic != c.Topic {
			continue
		}
		out = append(out, q)
	}
	return out
}

// Topics returns the distinct topics of questions in first-seen order.
func Topics(questions []Question) []string {
	var out []string
	for _, q := range questions {
		if !slices.Contains(out, q.Topic) {
			out = append(out, q.Topic)
		}
	}
	return out
}
