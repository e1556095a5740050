package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/prepdeck/prepdeck/pkg/course"
	"github.com/prepdeck/prepdeck/pkg/generate"
	"github.com/prepdeck/prepdeck/pkg/observability"
)

// MaxScore is the top of the evaluation scale.
const MaxScore = 10

// Evaluation grades an answer.
type Evaluation struct {
	Score         int    `json:"score"`
	Feedback      string `json:"feedback"`
	CorrectAnswer string `json:"correct_answer"`
	Fallback      bool   `json:"fallback,omitempty"`
}

// FallbackEvaluation is returned when the model cannot be reached.
var FallbackEvaluation = Evaluation{
	Score:         5,
	Feedback:      "Unable to evaluate response due to technical issues.",
	CorrectAnswer: "Please review your answer with a professional in this field.",
	Fallback:      true,
}

var (
	scoreRe    = regexp.MustCompile(`"score"\s*:\s*(-?\d+)`)
	feedbackRe = regexp.MustCompile(`"feedback"\s*:\s*"([^"]+)"`)
	correctRe  = regexp.MustCompile(`"correct_answer"\s*:\s*"([^"]+)"`)
)

// Evaluate asks gen to grade answer against question. A generator failure
// yields FallbackEvaluation; only context errors are returned.
func Evaluate(ctx context.Context, gen generate.Generator, question, answer string) (Evaluation, error) {
	text, err := generate.Call(ctx, gen, "evaluation", generate.EvaluationPrompt(question, answer))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Evaluation{}, ctxErr
		}
		log.Debug("using fallback evaluation", "err", err)
		observability.Generation().OnFallback(ctx, "evaluation")
		return FallbackEvaluation, nil
	}
	return ParseEvaluation(text), nil
}

// ParseEvaluation decodes an evaluation reply. Replies that are not valid
// JSON are scanned field by field; missing fields get neutral defaults. The
// score is clamped to 0..MaxScore.
func ParseEvaluation(text string) Evaluation {
	var ev Evaluation
	if obj, err := course.ExtractJSON(text); err == nil && json.Unmarshal([]byte(obj), &ev) == nil {
		ev.Score = clamp(ev.Score)
		return ev
	}

	ev = Evaluation{
		Score:         5,
		Feedback:      "No specific feedback available.",
		CorrectAnswer: "No correct answer available.",
	}
	if m := scoreRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			ev.Score = n
		}
	}
	if m := feedbackRe.FindStringSubmatch(text); m != nil {
		ev.Feedback = m[1]
	}
	if m := correctRe.FindStringSubmatch(text); m != nil {
		ev.CorrectAnswer = m[1]
	}
	ev.Score = clamp(ev.Score)
	return ev
}

func clamp(score int) int {
	return max(0, min(MaxScore, score))
}

// Exchange is one answered question of a mock interview.
type Exchange struct {
	Question string
	Answer   string
	Score    int
}

func (e Exchange) String() string {
	return fmt.Sprintf("Q: %s\nA: %s\nScore: %d/%d", e.Question, e.Answer, e.Score, MaxScore)
}

// Ask produces question number index (zero-based) of total for a mock
// interview, adapting to the previous exchange when there is one. Model
// failures yield FallbackQuestion(index).
func Ask(ctx context.Context, gen generate.Generator, intro string, index, total int, difficulty string, previous *Exchange) (string, error) {
	var history string
	if previous != nil {
		history = previous.String()
	}
	text, err := generate.Call(ctx, gen, "interview", generate.InterviewPrompt(intro, index+1, total, difficulty, history))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		observability.Generation().OnFallback(ctx, "interview")
		return FallbackQuestion(index), nil
	}
	return cleanText(text), nil
}

var emphasisRe = regexp.MustCompile(`\*(.*?)\*`)

// cleanText drops bullet markers and emphasis asterisks.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "* ", "")
	s = emphasisRe.ReplaceAllString(s, "$1")
	return strings.TrimSpace(s)
}
