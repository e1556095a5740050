package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler returns the API router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.health)

	// Courses.
	r.Get("/courses", s.listCourses)
	r.Post("/courses", s.createCourse)
	r.Route("/courses/{key}", func(r chi.Router) {
		r.Get("/", s.getCourse)
		r.Put("/", s.putCourse)
		r.Delete("/", s.deleteCourse)
		r.Get("/roadmap", s.roadmap)
		r.Get("/roadmap/select", s.selectModule)
		r.Post("/explanations", s.prefetchExplanations)
		r.Get("/modules/{id}/explain", s.explain)
	})

	// Interview preparation.
	r.Get("/categories", s.listCategories)
	r.Get("/categories/{id}", s.getCategory)
	r.Post("/categories/{id}/questions", s.questions)
	r.Post("/evaluate", s.evaluate)
	r.Post("/interview/next", s.nextInterviewQuestion)

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}
