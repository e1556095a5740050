package interview

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	errs "github.com/prepdeck/prepdeck/pkg/errors"
	"github.com/prepdeck/prepdeck/pkg/generate"
)

const questionJSON = `{
  "title": "Reverse a Linked List",
  "description": "Reverse a singly linked list in place.",
  "difficulty": "Easy",
  "timeEstimate": "20 mins",
  "companies": ["Google"],
  "solution": "func reverse(h *Node) *Node { ... }"
}`

func reply(text string, err error) generate.Func {
	return func(ctx context.Context, req generate.Request) (string, error) {
		return text, err
	}
}

var errDown = errs.New(errs.ErrCodeGeneration, "model down")

func TestParseQuestion(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantErr  bool
		wantDiff Difficulty
	}{
		{"bare", questionJSON, false, Easy},
		{"fenced", "```json\n" + questionJSON + "\n```", false, Easy},
		{"prose around", "Sure! " + questionJSON + " Good luck.", false, Easy},
		{"unknown difficulty", `{"title":"t","description":"d","solution":"s","difficulty":"brutal"}`, false, Medium},
		{"missing solution", `{"title":"t","description":"d"}`, true, ""},
		{"blank title", `{"title":"  ","description":"d","solution":"s"}`, true, ""},
		{"not json", "I would rather not.", true, ""},
		{"broken json", `{"title": "t",`, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := ParseQuestion(tt.text)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseQuestion() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && q.Difficulty != tt.wantDiff {
				t.Errorf("Difficulty = %q, want %q", q.Difficulty, tt.wantDiff)
			}
		})
	}
}

func TestGenerate(t *testing.T) {
	q, err := Generate(context.Background(), reply(questionJSON, nil), "Linked Lists")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if q.Title != "Reverse a Linked List" {
		t.Errorf("Title = %q", q.Title)
	}
	if q.Topic != "Linked Lists" {
		t.Errorf("Topic = %q, want %q", q.Topic, "Linked Lists")
	}
	if q.ID == "" || q.Fallback {
		t.Errorf("ID = %q, Fallback = %v; want generated question", q.ID, q.Fallback)
	}
	if diff := cmp.Diff([]string{"Google"}, q.Companies); diff != "" {
		t.Errorf("Companies mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateFallback(t *testing.T) {
	tests := []struct {
		name string
		gen  generate.Generator
	}{
		{"generator error", reply("", errDown)},
		{"empty reply", reply("", nil)},
		{"missing fields", reply(`{"title": "Only a title"}`, nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Generate(context.Background(), tt.gen, "Heaps")
			if err != nil {
				t.Fatalf("Generate() error = %v, want fallback", err)
			}
			if !q.Fallback {
				t.Error("Fallback = false, want true")
			}
			if q.Topic != "Heaps" {
				t.Errorf("Topic = %q, want %q", q.Topic, "Heaps")
			}
			if q.Title != "Implement a Binary Search Tree" {
				t.Errorf("Title = %q", q.Title)
			}
		})
	}
}

func TestGenerateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gen := generate.Func(func(ctx context.Context, req generate.Request) (string, error) {
		return "", ctx.Err()
	})
	if _, err := Generate(ctx, gen, "Heaps"); !errors.Is(err, context.Canceled) {
		t.Errorf("Generate() error = %v, want context.Canceled", err)
	}
}

func TestBankFallbackPerTopic(t *testing.T) {
	var prompts []string
	gen := generate.Func(func(ctx context.Context, req generate.Request) (string, error) {
		prompts = append(prompts, req.Prompt)
		if len(prompts) == 2 {
			return "", errDown
		}
		return questionJSON, nil
	})

	bank := NewBank(gen, WithDelay(time.Millisecond))
	qs, err := bank.Questions(context.Background(), 3, []string{"Arrays", "Trees", "Graphs"})
	if err != nil {
		t.Fatalf("Questions: %v", err)
	}
	if len(qs) != 3 {
		t.Fatalf("len = %d, want 3", len(qs))
	}
	if diff := cmp.Diff([]string{"Arrays", "Trees", "Graphs"}, Topics(qs)); diff != "" {
		t.Errorf("topics mismatch (-want +got):\n%s", diff)
	}
	if !qs[1].Fallback || qs[1].Title != "Implement Merge Sort" {
		t.Errorf("qs[1] = %q (fallback %v), want merge sort sample", qs[1].Title, qs[1].Fallback)
	}
	if qs[0].Fallback || qs[2].Fallback {
		t.Error("successful topics marked as fallback")
	}
	if !strings.Contains(prompts[2], `"Graphs"`) {
		t.Errorf("third prompt not about Graphs:\n%s", prompts[2])
	}
}

func TestFilter(t *testing.T) {
	qs := []Question{
		{ID: "1", Title: "Two Sum", Description: "Use a hash map", Difficulty: Easy, Topic: "Arrays"},
		{ID: "2", Title: "LRU Cache", Description: "Design a cache", Difficulty: Medium, Topic: "Design"},
		{ID: "3", Title: "Word Ladder", Description: "BFS over a HASH set", Difficulty: Hard, Topic: "Graphs"},
	}

	tests := []struct {
		name string
		c    Criteria
		want []string
	}{
		{"no criteria", Criteria{}, []string{"1", "2", "3"}},
		{"search title", Criteria{Search: "cache"}, []string{"2"}},
		{"search description any case", Criteria{Search: "Hash"}, []string{"1", "3"}},
		{"difficulty", Criteria{Difficulty: Hard}, []string{"3"}},
		{"topic", Criteria{Topic: "Arrays"}, []string{"1"}},
		{"combined", Criteria{Search: "hash", Difficulty: Easy}, []string{"1"}},
		{"none", Criteria{Topic: "Trees"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := []string{}
			for _, q := range Filter(qs, tt.c) {
				got = append(got, q.ID)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Filter() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseEvaluation(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Evaluation
	}{
		{
			"json",
			`{"score": 8, "feedback": "Solid", "correct_answer": "Use a map"}`,
			Evaluation{Score: 8, Feedback: "Solid", CorrectAnswer: "Use a map"},
		},
		{
			"fenced json above range",
			"```json\n{\"score\": 14, \"feedback\": \"Wow\", \"correct_answer\": \"-\"}\n```",
			Evaluation{Score: 10, Feedback: "Wow", CorrectAnswer: "-"},
		},
		{
			"negative score",
			`{"score": -3, "feedback": "No", "correct_answer": "Yes"}`,
			Evaluation{Score: 0, Feedback: "No", CorrectAnswer: "Yes"},
		},
		{
			"regex fallback",
			`Result: "score": 12, "feedback": "Too long"`,
			Evaluation{Score: 10, Feedback: "Too long", CorrectAnswer: "No correct answer available."},
		},
		{
			"nothing usable",
			"Great answer!",
			Evaluation{Score: 5, Feedback: "No specific feedback available.", CorrectAnswer: "No correct answer available."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ParseEvaluation(tt.text)); diff != "" {
				t.Errorf("ParseEvaluation() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	ev, err := Evaluate(context.Background(), reply(`{"score": 7, "feedback": "ok", "correct_answer": "x"}`, nil), "q", "a")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if ev.Score != 7 {
		t.Errorf("Score = %d, want 7", ev.Score)
	}

	ev, err = Evaluate(context.Background(), reply("", errDown), "q", "a")
	if err != nil {
		t.Fatalf("Evaluate with failing generator: %v", err)
	}
	if diff := cmp.Diff(FallbackEvaluation, ev); diff != "" {
		t.Errorf("fallback mismatch (-want +got):\n%s", diff)
	}
}

func TestFallbackQuestion(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "Tell me about your relevant skills and experience."},
		{5, "Where do you see yourself in five years?"},
		{6, "Tell me about your relevant skills and experience."},
		{8, "Describe a project you're particularly proud of and why."},
		{-1, "Where do you see yourself in five years?"},
		{math.MinInt, "What are your strengths and weaknesses?"},
	}
	for _, tt := range tests {
		if got := FallbackQuestion(tt.index); got != tt.want {
			t.Errorf("FallbackQuestion(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}

func TestSampleQuestionNegativeIndex(t *testing.T) {
	for _, index := range []int{-1, -7, math.MinInt} {
		q := SampleQuestion(index, "Heaps")
		if q.Title == "" || !q.Fallback || q.Topic != "Heaps" {
			t.Errorf("SampleQuestion(%d) = %+v", index, q)
		}
	}
}

func TestAsk(t *testing.T) {
	var prompt string
	gen := generate.Func(func(ctx context.Context, req generate.Request) (string, error) {
		prompt = req.Prompt
		return "* What is a channel?", nil
	})

	q, err := Ask(context.Background(), gen, "I build APIs in Go", 1, 3, "intermediate",
		&Exchange{Question: "What is Go?", Answer: "A language", Score: 6})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if q != "What is a channel?" {
		t.Errorf("Ask() = %q, want %q", q, "What is a channel?")
	}
	for _, want := range []string{"Question number: 2 out of 3", "Score: 6/10"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	q, err = Ask(context.Background(), reply("", errDown), "", 2, 3, "basic", nil)
	if err != nil {
		t.Fatalf("Ask with failing generator: %v", err)
	}
	if q != FallbackQuestion(2) {
		t.Errorf("Ask() = %q, want fallback %q", q, FallbackQuestion(2))
	}
}

func TestSampleQuestions(t *testing.T) {
	qs := SampleQuestions()
	if len(qs) != 2 {
		t.Fatalf("len = %d, want 2", len(qs))
	}
	if qs[0].ID == qs[1].ID {
		t.Error("sample questions share an ID")
	}
	if qs[0].Topic != "Data Structures" || qs[1].Topic != "Algorithms" {
		t.Errorf("topics = %q, %q", qs[0].Topic, qs[1].Topic)
	}
}
