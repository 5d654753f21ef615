package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	server "github.com/campus-lab/minerva/pkg/controller/http"
	"github.com/campus-lab/minerva/pkg/domain/model"
	"github.com/campus-lab/minerva/pkg/domain/types"
	"github.com/campus-lab/minerva/pkg/utils/logging"
)

type stubAdmissions struct {
	answer    string
	questions []string
	err       error
	ready     bool
	gotHist   []model.ChatTurn
}

func (x *stubAdmissions) Ask(ctx context.Context, question string, history []model.ChatTurn) (string, []string, error) {
	x.gotHist = history
	if x.err != nil {
		return "", nil, x.err
	}
	return x.answer, x.questions, nil
}

func (x *stubAdmissions) Ready() bool { return x.ready }

type stubCourse struct {
	answer      *model.CourseAnswer
	departments map[string][]string
	err         error
}

func (x *stubCourse) Chat(ctx context.Context, department, regulation, query string) (*model.CourseAnswer, error) {
	if x.err != nil {
		return nil, x.err
	}
	return x.answer, nil
}

func (x *stubCourse) Departments(ctx context.Context) (map[string][]string, error) {
	return x.departments, x.err
}

type stubPlacements struct {
	answer string
	err    error
	ready  bool
}

func (x *stubPlacements) Ask(ctx context.Context, query string) (string, error) {
	if x.err != nil {
		return "", x.err
	}
	return x.answer, nil
}

func (x *stubPlacements) Ready() bool { return x.ready }

func postJSON(t *testing.T, srv http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	gt.NoError(t, err).Required()

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func getPath(srv http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestAdmissionsAsk(t *testing.T) {
	uc := &stubAdmissions{
		answer:    "Admissions open in June.",
		questions: []string{"Q1?", "Q2?", "Q3?", "Q4?"},
		ready:     true,
	}
	srv := server.New(server.WithAdmissions(uc))

	rec := postJSON(t, srv, "/api/admissions/ask", map[string]any{
		"question": "When do admissions open?",
		"chat_history": []map[string]string{
			{"type": "user", "message": "hello"},
		},
	})
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var resp struct {
		Answer             string   `json:"answer"`
		SuggestedQuestions []string `json:"suggested_questions"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
	gt.Value(t, resp.Answer).Equal("Admissions open in June.")
	gt.Array(t, resp.SuggestedQuestions).Length(4)
	gt.Array(t, uc.gotHist).Length(1)
}

func TestAdmissionsAskNotInitialized(t *testing.T) {
	uc := &stubAdmissions{err: goerr.Wrap(types.ErrNotInitialized, "not ready")}
	srv := server.New(server.WithAdmissions(uc))

	rec := postJSON(t, srv, "/api/admissions/ask", map[string]string{"question": "hi"})
	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
}

func TestAdmissionsAskGenerationError(t *testing.T) {
	uc := &stubAdmissions{err: goerr.Wrap(types.ErrGeneration, "failed",
		goerr.V("cause", "API key not valid"))}
	srv := server.New(server.WithAdmissions(uc))

	rec := postJSON(t, srv, "/api/admissions/ask", map[string]string{"question": "hi"})
	gt.Value(t, rec.Code).Equal(http.StatusInternalServerError)
	gt.String(t, rec.Body.String()).Contains("contact the administrator")
}

func TestAdmissionsAskMissingQuestion(t *testing.T) {
	srv := server.New(server.WithAdmissions(&stubAdmissions{ready: true}))

	rec := postJSON(t, srv, "/api/admissions/ask", map[string]string{})
	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
}

func TestAdmissionsStatus(t *testing.T) {
	srv := server.New(server.WithAdmissions(&stubAdmissions{ready: true}))

	rec := getPath(srv, "/api/admissions/status")
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var resp struct {
		IsInitialized bool `json:"is_initialized"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
	gt.Bool(t, resp.IsInitialized).True()
}

func TestCourseChat(t *testing.T) {
	uc := &stubCourse{answer: &model.CourseAnswer{
		Query:           "What is CS101?",
		Answer:          "An intro course.",
		ContextUsed:     3,
		RelevantCourses: []string{"CS101 - Intro to CS"},
	}}
	srv := server.New(server.WithCourse(uc))

	rec := postJSON(t, srv, "/api/course/chat", map[string]string{
		"query":      "What is CS101?",
		"department": "cse",
	})
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var resp model.CourseAnswer
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
	gt.Value(t, resp.Answer).Equal("An intro course.")
	gt.Array(t, resp.RelevantCourses).Length(1)
}

func TestCourseChatUnknownDepartment(t *testing.T) {
	uc := &stubCourse{err: goerr.Wrap(types.ErrDataNotFound, "no dataset")}
	srv := server.New(server.WithCourse(uc))

	rec := postJSON(t, srv, "/api/course/chat", map[string]string{
		"query":      "anything",
		"department": "nope",
	})
	gt.Value(t, rec.Code).Equal(http.StatusNotFound)
}

func TestCourseChatMissingFields(t *testing.T) {
	srv := server.New(server.WithCourse(&stubCourse{}))

	rec := postJSON(t, srv, "/api/course/chat", map[string]string{"query": "hi"})
	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
}

func TestCourseDepartments(t *testing.T) {
	uc := &stubCourse{departments: map[string][]string{
		"cse":  {},
		"mech": {"r2021", "r2025"},
	}}
	srv := server.New(server.WithCourse(uc))

	rec := getPath(srv, "/api/course/departments")
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var resp struct {
		Departments map[string][]string `json:"departments"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
	gt.Value(t, len(resp.Departments)).Equal(2)
	gt.Array(t, resp.Departments["mech"]).Length(2)
}

func TestPlacementsAsk(t *testing.T) {
	uc := &stubPlacements{answer: "42 students were placed.", ready: true}
	srv := server.New(server.WithPlacements(uc))

	rec := postJSON(t, srv, "/api/placements/ask", map[string]string{
		"query": "How many students were placed?",
	})
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var resp struct {
		Answer string `json:"answer"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
	gt.Value(t, resp.Answer).Equal("42 students were placed.")
}

func TestPlacementsAskUnavailable(t *testing.T) {
	// Not configured at all.
	srv := server.New()
	rec := postJSON(t, srv, "/api/placements/ask", map[string]string{"query": "hi"})
	gt.Value(t, rec.Code).Equal(http.StatusServiceUnavailable)

	// Configured but not ready.
	srv = server.New(server.WithPlacements(&stubPlacements{ready: false}))
	rec = postJSON(t, srv, "/api/placements/ask", map[string]string{"query": "hi"})
	gt.Value(t, rec.Code).Equal(http.StatusServiceUnavailable)
}

func TestAccessLoggerUsesRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, slog.LevelInfo, logging.FormatJSON)

	srv := server.New(server.WithAdmissions(&stubAdmissions{ready: true}))
	req := httptest.NewRequest(http.MethodGet, "/api/admissions/status", nil)
	req = req.WithContext(logging.With(req.Context(), logger))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(http.StatusOK)

	// The access entry lands on the logger the request context carries.
	gt.String(t, buf.String()).Contains(`"msg":"access"`)
	gt.String(t, buf.String()).Contains(`"path":"/api/admissions/status"`)
}

func TestUnconfiguredRoutesAreAbsent(t *testing.T) {
	srv := server.New(server.WithPlacements(&stubPlacements{ready: true}))

	rec := getPath(srv, "/api/admissions/status")
	gt.Value(t, rec.Code).Equal(http.StatusNotFound)

	rec = getPath(srv, "/api/course/departments")
	gt.Value(t, rec.Code).Equal(http.StatusNotFound)
}
