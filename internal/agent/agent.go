package agent

import (
	"context"
	"errors"

	"github.com/terra-clan/interview-engine/internal/models"
	"github.com/terra-clan/interview-engine/internal/phase"
)

// Action is the closed set of operations dispatched to specialists.
// Each handler matches exhaustively; the default arm returns
// ErrUnknownAction rather than falling through a string lookup.
type Action string

const (
	ActionStartInterview   Action = "start_interview"
	ActionNextPhase        Action = "next_phase"
	ActionGetStatus        Action = "get_status"
	ActionBeginAssessment  Action = "begin_assessment"
	ActionAskQuestion      Action = "ask_question"
	ActionSubmitResponse   Action = "submit_response"
	ActionGetSummary       Action = "get_summary"
	ActionPresentChallenge Action = "present_challenge"
	ActionExecuteCode      Action = "execute_code"
	ActionAnalyzeSession   Action = "analyze_session"
	ActionGenerateFeedback Action = "generate_feedback"
)

// Common errors
var (
	ErrUnknownAction    = errors.New("unknown action")
	ErrQuestionNotFound = errors.New("question not found")
)

// SessionState bundles a session's data record with its runtime state.
// It is owned by the orchestrator and only touched under the session's
// lock, so agents never synchronize.
type SessionState struct {
	Session        *models.Session
	Machine        *phase.Machine
	QuestionOrder  []int // shuffled once at session creation
	QuestionsAsked int
}

// Response is the structured result of one agent action. The
// orchestrator appends every response to the session's message log.
type Response struct {
	Action  string         `json:"action"`
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// Agent is one interview specialist.
type Agent interface {
	// Name returns the routing name of the specialist
	Name() string

	// Handle processes one action against the session state
	Handle(ctx context.Context, state *SessionState, action Action, payload map[string]any) (*Response, error)
}

// payloadInt reads an integer field from a JSON-decoded payload.
func payloadInt(payload map[string]any, key string, fallback int) int {
	switch v := payload[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return fallback
	}
}

// payloadString reads a string field from a JSON-decoded payload.
func payloadString(payload map[string]any, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}
