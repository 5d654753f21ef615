package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"

	"github.com/campus-lab/minerva/pkg/domain/model"
	"github.com/campus-lab/minerva/pkg/usecase"
	"github.com/campus-lab/minerva/pkg/utils/errutil"
)

type askRequest struct {
	Question string           `json:"question"`
	History  []model.ChatTurn `json:"chat_history,omitempty"`
}

type askResponse struct {
	Answer             string   `json:"answer"`
	SuggestedQuestions []string `json:"suggested_questions"`
}

type statusResponse struct {
	IsInitialized bool `json:"is_initialized"`
}

type chatRequest struct {
	Query      string `json:"query"`
	Department string `json:"department"`
	Regulation string `json:"regulation,omitempty"`
}

type departmentsResponse struct {
	Departments map[string][]string `json:"departments"`
}

type queryRequest struct {
	Query string `json:"query"`
}

type answerResponse struct {
	Answer string `json:"answer"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(ctx context.Context, w http.ResponseWriter, statusCode int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to encode response"), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(data) //nolint:errcheck
}

func respondError(ctx context.Context, w http.ResponseWriter, statusCode int, msg string) {
	respondJSON(ctx, w, statusCode, errorResponse{Error: msg})
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return goerr.Wrap(err, "failed to decode request body")
	}
	return nil
}

func (s *Server) handleAdmissionsAsk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req askRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" {
		respondError(ctx, w, http.StatusBadRequest, "question is required")
		return
	}

	answer, questions, err := s.admissions.Ask(ctx, req.Question, req.History)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNotInitialized):
			respondError(ctx, w, http.StatusBadRequest, "knowledge base is not initialized yet")
		case errors.Is(err, usecase.ErrGeneration):
			errutil.Handle(ctx, err, "admissions answer generation failed")
			respondError(ctx, w, http.StatusInternalServerError, usecase.GenerationMessage(err))
		default:
			errutil.Handle(ctx, err, "admissions ask failed")
			respondError(ctx, w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	respondJSON(ctx, w, http.StatusOK, askResponse{
		Answer:             answer,
		SuggestedQuestions: questions,
	})
}

func (s *Server) handleAdmissionsStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(r.Context(), w, http.StatusOK, statusResponse{
		IsInitialized: s.admissions.Ready(),
	})
}

func (s *Server) handleCourseChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" || req.Department == "" {
		respondError(ctx, w, http.StatusBadRequest, "query and department are required")
		return
	}

	answer, err := s.course.Chat(ctx, req.Department, req.Regulation, req.Query)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrDataNotFound):
			respondError(ctx, w, http.StatusNotFound, "no syllabus data for the requested department")
		case errors.Is(err, usecase.ErrGeneration):
			errutil.Handle(ctx, err, "course answer generation failed")
			respondError(ctx, w, http.StatusInternalServerError, usecase.GenerationMessage(err))
		default:
			errutil.Handle(ctx, err, "course chat failed")
			respondError(ctx, w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	respondJSON(ctx, w, http.StatusOK, answer)
}

func (s *Server) handleCourseDepartments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	departments, err := s.course.Departments(ctx)
	if err != nil {
		errutil.Handle(ctx, err, "failed to list departments")
		respondError(ctx, w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(ctx, w, http.StatusOK, departmentsResponse{Departments: departments})
}

func (s *Server) handlePlacementsAsk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if s.placements == nil || !s.placements.Ready() {
		respondError(ctx, w, http.StatusServiceUnavailable, "placements data is not available")
		return
	}

	var req queryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		respondError(ctx, w, http.StatusBadRequest, "query is required")
		return
	}

	answer, err := s.placements.Ask(ctx, req.Query)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNotInitialized):
			respondError(ctx, w, http.StatusServiceUnavailable, "placements data is not available")
		case errors.Is(err, usecase.ErrGeneration):
			errutil.Handle(ctx, err, "placements answer generation failed")
			respondError(ctx, w, http.StatusInternalServerError, usecase.GenerationMessage(err))
		default:
			errutil.Handle(ctx, err, "placements ask failed")
			respondError(ctx, w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	respondJSON(ctx, w, http.StatusOK, answerResponse{Answer: answer})
}
