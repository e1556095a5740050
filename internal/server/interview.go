package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/prepdeck/prepdeck/pkg/course"
	errs "github.com/prepdeck/prepdeck/pkg/errors"
	"github.com/prepdeck/prepdeck/pkg/interview"
)

type questionsRequest struct {
	Topic      string `json:"topic" validate:"max=200"`
	Search     string `json:"search" validate:"max=200"`
	Difficulty string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
}

type evaluateRequest struct {
	Question string `json:"question" validate:"required,max=5000"`
	Answer   string `json:"answer" validate:"required,max=20000"`
}

type exchange struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer"`
	Score    int    `json:"score" validate:"min=0,max=10"`
}

type nextQuestionRequest struct {
	Intro      string    `json:"intro" validate:"max=5000"`
	Index      int       `json:"index" validate:"min=0,ltfield=Total"`
	Total      int       `json:"total" validate:"required,min=1,max=50"`
	Difficulty string    `json:"difficulty" validate:"max=50"`
	Previous   *exchange `json:"previous" validate:"omitempty"`
}

// listCategories handles GET /categories[?q=term].
func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": s.catalog.Search(r.URL.Query().Get("q")),
	})
}

// getCategory handles GET /categories/{id}.
func (s *Server) getCategory(w http.ResponseWriter, r *http.Request) {
	cat, err := s.category(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

// questions handles POST /categories/{id}/questions. One question is
// generated for the requested topic, or for every topic of the category,
// and the result is filtered by search and difficulty.
func (s *Server) questions(w http.ResponseWriter, r *http.Request) {
	cat, err := s.category(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req questionsRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if s.bank == nil {
		s.writeError(w, r, errNoGenerator())
		return
	}

	topics := cat.TopicNames()
	if topic := strings.TrimSpace(req.Topic); topic != "" {
		if !cat.HasTopic(topic) {
			s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "category %d has no topic %q", cat.ID, topic))
			return
		}
		topics = []string{topic}
	}

	qs, err := s.bank.Questions(r.Context(), cat.ID, topics)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	criteria := interview.Criteria{Search: req.Search}
	if req.Difficulty != "" {
		criteria.Difficulty = interview.ParseDifficulty(req.Difficulty)
	}
	qs = interview.Filter(qs, criteria)
	topics = interview.Topics(qs)
	if topics == nil {
		topics = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"category":  cat.ID,
		"topics":    topics,
		"questions": qs,
	})
}

// evaluate handles POST /evaluate.
func (s *Server) evaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if s.bank == nil {
		s.writeError(w, r, errNoGenerator())
		return
	}
	ev, err := interview.Evaluate(r.Context(), s.bank.Generator(), req.Question, req.Answer)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// nextInterviewQuestion handles POST /interview/next: the next question of
// a mock interview, adapted to the previous answer.
func (s *Server) nextInterviewQuestion(w http.ResponseWriter, r *http.Request) {
	var req nextQuestionRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if s.bank == nil {
		s.writeError(w, r, errNoGenerator())
		return
	}
	var prev *interview.Exchange
	if req.Previous != nil {
		prev = &interview.Exchange{
			Question: req.Previous.Question,
			Answer:   req.Previous.Answer,
			Score:    req.Previous.Score,
		}
	}
	text, err := interview.Ask(r.Context(), s.bank.Generator(), req.Intro, req.Index, req.Total, req.Difficulty, prev)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"index":    req.Index,
		"total":    req.Total,
		"question": text,
	})
}

func (s *Server) category(r *http.Request) (course.Category, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return course.Category{}, errs.New(errs.ErrCodeInvalidInput, "category id must be an integer, got %q", raw)
	}
	cat, ok := s.catalog.Find(id)
	if !ok {
		return course.Category{}, errs.New(errs.ErrCodeCategoryNotFound, "category %d not found", id)
	}
	return cat, nil
}
