package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/terra-clan/interview-engine/internal/agent"
	"github.com/terra-clan/interview-engine/internal/analyzer"
	"github.com/terra-clan/interview-engine/internal/models"
	"github.com/terra-clan/interview-engine/internal/orchestrator"
	"github.com/terra-clan/interview-engine/internal/phase"
	"github.com/terra-clan/interview-engine/internal/scoring"
)

// Response helpers

type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: false,
		Error: &apiError{
			Code:    code,
			Message: message,
		},
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// respondDomainError maps known domain errors onto HTTP statuses.
// Returns false when the error is not a recognized domain error.
func respondDomainError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, orchestrator.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "session_not_found", "interview session not found")
	case errors.Is(err, orchestrator.ErrAgentNotFound):
		respondError(w, http.StatusNotFound, "agent_not_found", "no such interview agent")
	case errors.Is(err, agent.ErrQuestionNotFound):
		respondError(w, http.StatusNotFound, "question_not_found", "question not found")
	case errors.Is(err, orchestrator.ErrSessionClosed):
		respondError(w, http.StatusConflict, "session_closed", "interview has already ended")
	case errors.Is(err, phase.ErrInvalidTransition):
		respondError(w, http.StatusConflict, "invalid_transition", "phase transition not allowed")
	case errors.Is(err, phase.ErrAlreadyComplete):
		respondError(w, http.StatusConflict, "already_complete", "interview phases are already complete")
	case errors.Is(err, analyzer.ErrEmptyResponse):
		respondError(w, http.StatusBadRequest, "empty_response", "response text must not be empty")
	case errors.Is(err, scoring.ErrNoResponses):
		respondError(w, http.StatusBadRequest, "no_responses", "no responses have been recorded yet")
	case errors.Is(err, agent.ErrUnknownAction):
		respondError(w, http.StatusBadRequest, "unknown_action", "action not supported by this agent")
	default:
		return false
	}
	return true
}

// Health handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "not_ready", "service not ready")
		return
	}

	providers := make(map[string]string)
	for name, err := range s.providers.HealthCheckAll(r.Context()) {
		if err != nil {
			providers[name] = "unavailable"
		} else {
			providers[name] = "ok"
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ready",
		"sessions":  s.orchestrator.Count(),
		"providers": providers,
	})
}

// Interview handlers

func (s *Server) handleStartInterview(w http.ResponseWriter, r *http.Request) {
	var cfg models.InterviewConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := s.validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			respondError(w, http.StatusBadRequest, "validation_error", "invalid field: "+verrs[0].Field())
			return
		}
		respondError(w, http.StatusBadRequest, "validation_error", "invalid interview configuration")
		return
	}

	resp, err := s.orchestrator.Create(r.Context(), cfg)
	if err != nil {
		slog.Error("failed to create session", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to create interview session")
		return
	}

	respondJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetInterview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	snapshot, err := s.orchestrator.Status(id)
	if err != nil {
		if respondDomainError(w, err) {
			return
		}
		slog.Error("failed to get session status", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to get session status")
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	snapshot, err := s.orchestrator.Status(id)
	if err != nil {
		if respondDomainError(w, err) {
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to advance interview")
		return
	}

	action := agent.ActionNextPhase
	if snapshot.CurrentPhase == string(phase.Introduction) {
		action = agent.ActionStartInterview
	}

	resp, err := s.orchestrator.Route(r.Context(), id, "coordinator", action, nil)
	if err != nil {
		if respondDomainError(w, err) {
			return
		}
		slog.Error("failed to advance interview", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to advance interview")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubmitResponse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.SubmitResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	resp, err := s.orchestrator.Route(r.Context(), id, "behavioral", agent.ActionSubmitResponse, map[string]any{
		"question_id": req.QuestionID,
		"text":        req.Text,
	})
	if err != nil {
		if respondDomainError(w, err) {
			return
		}
		slog.Error("failed to process response", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to process response")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	summary, err := s.orchestrator.Summary(id)
	if err != nil {
		if respondDomainError(w, err) {
			return
		}
		slog.Error("failed to summarize session", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to summarize session")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleEndInterview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	report, err := s.orchestrator.End(r.Context(), id)
	if err != nil {
		if respondDomainError(w, err) {
			return
		}
		slog.Error("failed to end interview", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to end interview")
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// Report handlers

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	report, err := s.repo.GetReport(r.Context(), id)
	if err != nil {
		slog.Error("failed to get report", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to get report")
		return
	}
	if report == nil {
		respondError(w, http.StatusNotFound, "not_found", "report not found")
		return
	}

	respondJSON(w, http.StatusOK, report)
}
