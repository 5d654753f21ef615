package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/campus-lab/minerva/pkg/domain/model"
	"github.com/campus-lab/minerva/pkg/utils/logging"
)

// AdmissionsUseCase is the admissions surface the handlers need.
type AdmissionsUseCase interface {
	Ask(ctx context.Context, question string, history []model.ChatTurn) (string, []string, error)
	Ready() bool
}

// CourseUseCase is the course chat surface the handlers need.
type CourseUseCase interface {
	Chat(ctx context.Context, department, regulation, query string) (*model.CourseAnswer, error)
	Departments(ctx context.Context) (map[string][]string, error)
}

// PlacementsUseCase is the placements agent surface the handlers need.
type PlacementsUseCase interface {
	Ask(ctx context.Context, query string) (string, error)
	Ready() bool
}

type Server struct {
	router     *chi.Mux
	admissions AdmissionsUseCase
	course     CourseUseCase
	placements PlacementsUseCase
}

type Options func(*Server)

func WithAdmissions(uc AdmissionsUseCase) Options {
	return func(s *Server) {
		s.admissions = uc
	}
}

func WithCourse(uc CourseUseCase) Options {
	return func(s *Server) {
		s.course = uc
	}
}

// WithPlacements registers the placements agent. When absent the
// endpoint still exists and reports 503.
func WithPlacements(uc PlacementsUseCase) Options {
	return func(s *Server) {
		s.placements = uc
	}
}

func New(opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{router: r}
	for _, opt := range opts {
		opt(s)
	}

	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		if s.admissions != nil {
			r.Route("/admissions", func(r chi.Router) {
				r.Post("/ask", s.handleAdmissionsAsk)
				r.Get("/status", s.handleAdmissionsStatus)
			})
		}
		if s.course != nil {
			r.Route("/course", func(r chi.Router) {
				r.Post("/chat", s.handleCourseChat)
				r.Get("/departments", s.handleCourseDepartments)
			})
		}
		r.Post("/placements/ask", s.handlePlacementsAsk)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger logs every HTTP request.
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.From(r.Context()).Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
