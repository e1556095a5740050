package server

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/prepdeck/prepdeck/pkg/buildinfo"
	"github.com/prepdeck/prepdeck/pkg/course"
	errs "github.com/prepdeck/prepdeck/pkg/errors"
	"github.com/prepdeck/prepdeck/pkg/pipeline"
	"github.com/prepdeck/prepdeck/pkg/render"
	"github.com/prepdeck/prepdeck/pkg/render/markdown"
	"github.com/prepdeck/prepdeck/pkg/render/sink"
	"github.com/prepdeck/prepdeck/pkg/roadmap"
)

type createCourseRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Refresh bool   `json:"refresh"`
}

type courseResponse struct {
	Key    string        `json:"key"`
	Source string        `json:"source,omitempty"`
	Course course.Course `json:"course"`
}

// health handles GET /healthz.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"build":     buildinfo.Get(),
		"generator": s.service != nil,
	})
}

// listCourses handles GET /courses.
func (s *Server) listCourses(w http.ResponseWriter, r *http.Request) {
	keys, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"courses": keys})
}

// createCourse handles POST /courses. The course is taken from the store
// unless refresh is set, and generated and stored otherwise.
func (s *Server) createCourse(w http.ResponseWriter, r *http.Request) {
	var req createCourseRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := pipeline.Options{Course: req.Name, Refresh: req.Refresh}
	if err := opts.ValidateForResolve(); err != nil {
		s.writeError(w, r, err)
		return
	}
	if s.service == nil {
		if _, err := s.store.Get(r.Context(), course.StoreKey(req.Name)); err != nil || req.Refresh {
			s.writeError(w, r, errNoGenerator())
			return
		}
	}

	c, key, source, err := s.runner.Resolve(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if source == pipeline.SourceGenerated {
		status = http.StatusCreated
	}
	writeJSON(w, status, courseResponse{Key: key, Source: source, Course: c})
}

// getCourse handles GET /courses/{key}.
func (s *Server) getCourse(w http.ResponseWriter, r *http.Request) {
	c, key, err := s.loadCourse(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, courseResponse{Key: key, Course: c})
}

// putCourse handles PUT /courses/{key}: the body is a course, bare or in a
// single-entry envelope, in JSON or YAML by Content-Type.
func (s *Server) putCourse(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := errs.ValidateCourseKey(key); err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInvalidInput, err, "read body"))
		return
	}
	format := course.FormatJSON
	switch r.Header.Get("Content-Type") {
	case "application/yaml", "application/x-yaml", "text/yaml":
		format = course.FormatYAML
	}
	c, err := course.Parse(data, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	c = course.Normalize(c)
	if err := s.store.Save(r.Context(), key, c); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, courseResponse{Key: key, Course: c})
}

// deleteCourse handles DELETE /courses/{key}.
func (s *Server) deleteCourse(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "key")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// roadmap handles GET /courses/{key}/roadmap.
//
// Query parameters: format (json, svg, dot, nodelink; default json),
// selected (module ID to highlight), title and interactive (svg only).
func (s *Server) roadmap(w http.ResponseWriter, r *http.Request) {
	c, _, err := s.loadCourse(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	format := render.FormatJSON
	if f := q.Get("format"); f != "" {
		formats, err := render.ParseFormats(f)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if len(formats) != 1 {
			s.writeError(w, r, errs.New(errs.ErrCodeInvalidFormat, "exactly one format is required"))
			return
		}
		format = formats[0]
	}
	selected := 0
	if v := q.Get("selected"); v != "" {
		if selected, err = strconv.Atoi(v); err != nil {
			s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "selected must be a module id, got %q", v))
			return
		}
	}

	res, err := s.runner.ExecuteCourse(r.Context(), c, pipeline.Options{
		Formats:     []render.Format{format},
		Selected:    selected,
		Title:       queryBool(q.Get("title")),
		Interactive: queryBool(q.Get("interactive")),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeBytes(w, format.ContentType(), res.Artifacts[format])
}

// explain handles GET /courses/{key}/modules/{id}/explain. The explanation
// is returned as an HTML fragment, as a standalone page with page=1, or as
// Markdown with raw=1.
func (s *Server) explain(w http.ResponseWriter, r *http.Request) {
	if s.service == nil {
		s.writeError(w, r, errNoGenerator())
		return
	}
	c, _, err := s.loadCourse(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "module id must be an integer"))
		return
	}

	text, err := s.service.Explain(r.Context(), c, id, r.URL.Query().Get("topic"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	if queryBool(q.Get("raw")) {
		writeBytes(w, "text/markdown; charset=utf-8", []byte(text))
		return
	}
	html, err := markdown.ToHTML(text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if queryBool(q.Get("page")) {
		m, _ := c.Module(id)
		html = markdown.Page(m.Title, html)
	}
	writeBytes(w, "text/html; charset=utf-8", html)
}

type selectResponse struct {
	Module        course.Module `json:"module"`
	Prerequisites []string      `json:"prerequisites"`
}

// selectModule handles GET /courses/{key}/roadmap/select?x=&y=: the module
// whose drawn node contains the canvas point, with its prerequisite titles.
func (s *Server) selectModule(w http.ResponseWriter, r *http.Request) {
	c, _, err := s.loadCourse(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	x, errX := strconv.ParseFloat(q.Get("x"), 64)
	y, errY := strconv.ParseFloat(q.Get("y"), 64)
	if errX != nil || errY != nil {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "x and y must be numbers"))
		return
	}

	l, err := s.runner.Layout(r.Context(), c, pipeline.Options{})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id, ok := roadmap.Hit(l, x, y, sink.NodeHeights(l, c))
	if !ok {
		s.writeError(w, r, errs.New(errs.ErrCodeModuleNotFound, "no module at (%g, %g)", x, y))
		return
	}
	m, _ := c.Module(id)
	prereqs := m.PrerequisiteTitles(c)
	if prereqs == nil {
		prereqs = []string{}
	}
	writeJSON(w, http.StatusOK, selectResponse{Module: m, Prerequisites: prereqs})
}

// prefetchExplanations handles POST /courses/{key}/explanations: every
// module explanation is generated concurrently and returned by module ID.
func (s *Server) prefetchExplanations(w http.ResponseWriter, r *http.Request) {
	if s.service == nil {
		s.writeError(w, r, errNoGenerator())
		return
	}
	c, _, err := s.loadCourse(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	texts, err := s.service.ExplainAll(r.Context(), c, s.prefetch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"explanations": texts})
}

func (s *Server) loadCourse(r *http.Request) (course.Course, string, error) {
	key := chi.URLParam(r, "key")
	if err := errs.ValidateCourseKey(key); err != nil {
		return course.Course{}, "", err
	}
	c, err := s.store.Get(r.Context(), key)
	if err != nil {
		return course.Course{}, "", err
	}
	return c, key, nil
}

func errNoGenerator() error {
	return errs.New(errs.ErrCodeUnsupported, "no generator is configured; set PREPDECK_API_KEY")
}

func queryBool(v string) bool {
	b, _ := strconv.ParseBool(v)
	return b
}
