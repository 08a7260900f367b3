package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/interview-engine/internal/agent"
	"github.com/terra-clan/interview-engine/internal/analyzer"
	"github.com/terra-clan/interview-engine/internal/orchestrator"
	"github.com/terra-clan/interview-engine/internal/provider"
	"github.com/terra-clan/interview-engine/internal/question"
	"github.com/terra-clan/interview-engine/internal/rubric"
	"github.com/terra-clan/interview-engine/internal/scoring"
	"github.com/terra-clan/interview-engine/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	bank := question.NewBank()
	a := analyzer.New(provider.NewStubAnalysis(), time.Second)
	analysis := agent.NewAnalysis(rubric.NewStore(), scoring.NewConstantScorer(0.8))

	orch := orchestrator.New(
		agent.NewCoordinator(),
		agent.NewBehavioral(bank, a, 3),
		agent.NewCoding(provider.NewStubJudge(), 900, nil),
		analysis,
		agent.NewFeedback(analysis),
		bank,
		storage.NewNoopRepository(),
		orchestrator.Options{ShuffleSeed: 42},
	)

	registry := provider.NewRegistry()
	registry.Register("analysis", provider.NewStubAnalysis())
	registry.Register("judge", provider.NewStubJudge())

	return NewServer(orch, registry, storage.NewNoopRepository())
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

func createSession(t *testing.T, srv *Server) string {
	t.Helper()
	rec, envelope := doJSON(t, srv, http.MethodPost, "/api/v1/interviews", map[string]any{
		"role":             "Backend Engineer",
		"difficulty":       "mid",
		"duration_minutes": 60,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	data := envelope["data"].(map[string]any)
	return data["session_id"].(string)
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec, envelope := doJSON(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, envelope["success"])

	rec, envelope = doJSON(t, srv, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, "ready", data["status"])

	providers := data["providers"].(map[string]any)
	assert.Equal(t, "ok", providers["analysis"])
	assert.Equal(t, "ok", providers["judge"])
}

func TestStartInterview_Validation(t *testing.T) {
	srv := newTestServer(t)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing role", map[string]any{"difficulty": "mid", "duration_minutes": 60}},
		{"bad difficulty", map[string]any{"role": "x", "difficulty": "expert", "duration_minutes": 60}},
		{"zero duration", map[string]any{"role": "x", "difficulty": "mid", "duration_minutes": 0}},
		{"excessive duration", map[string]any{"role": "x", "difficulty": "mid", "duration_minutes": 1000}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, envelope := doJSON(t, srv, http.MethodPost, "/api/v1/interviews", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, false, envelope["success"])
		})
	}
}

func TestInterviewLifecycle(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	// Status starts in introduction.
	rec, envelope := doJSON(t, srv, http.MethodGet, "/api/v1/interviews/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, "introduction", data["current_phase"])

	// First advance starts the interview.
	rec, envelope = doJSON(t, srv, http.MethodPost, "/api/v1/interviews/"+id+"/advance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data = envelope["data"].(map[string]any)
	assert.Equal(t, "phase_transition", data["action"])

	// Submit one behavioral response.
	rec, envelope = doJSON(t, srv, http.MethodPost, "/api/v1/interviews/"+id+"/responses", map[string]any{
		"question_id": 1,
		"text": "The situation was a failing launch. My task was to fix it. " +
			"I took charge of triage and we delivered a patch. The result was a stable release.",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Summary reflects the recorded response.
	rec, envelope = doJSON(t, srv, http.MethodGet, "/api/v1/interviews/"+id+"/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data = envelope["data"].(map[string]any)
	assert.Equal(t, float64(1), data["responses_count"])

	// End produces the report.
	rec, envelope = doJSON(t, srv, http.MethodPost, "/api/v1/interviews/"+id+"/end", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data = envelope["data"].(map[string]any)
	assert.Equal(t, id, data["session_id"])
	assert.NotNil(t, data["summary"])

	// Second end conflicts.
	rec, _ = doJSON(t, srv, http.MethodPost, "/api/v1/interviews/"+id+"/end", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSubmitResponse_EmptyTextRejected(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	rec, envelope := doJSON(t, srv, http.MethodPost, "/api/v1/interviews/"+id+"/responses", map[string]any{
		"question_id": 1,
		"text":        "   ",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errObj := envelope["error"].(map[string]any)
	assert.Equal(t, "empty_response", errObj["code"])
}

func TestUnknownSessionReturns404(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{
		"/api/v1/interviews/nope",
		"/api/v1/interviews/nope/summary",
	} {
		rec, _ := doJSON(t, srv, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}

	rec, _ := doJSON(t, srv, http.MethodPost, "/api/v1/interviews/nope/end", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSummaryWithoutResponses(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	rec, envelope := doJSON(t, srv, http.MethodGet, "/api/v1/interviews/"+id+"/summary", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errObj := envelope["error"].(map[string]any)
	assert.Equal(t, "no_responses", errObj["code"])
}

func TestGetReport_NotFound(t *testing.T) {
	srv := newTestServer(t)

	rec, _ := doJSON(t, srv, http.MethodGet, "/api/v1/reports/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
