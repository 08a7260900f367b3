package models

import (
	"time"
)

// SessionStatus represents the current state of an interview session
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"    // Interview in progress
	SessionCompleted SessionStatus = "completed" // Ended, report generated, immutable
)

// InterviewConfig holds the caller-supplied configuration for one interview.
type InterviewConfig struct {
	Role             string   `json:"role" validate:"required"`
	Difficulty       string   `json:"difficulty" validate:"required,oneof=junior mid senior"`
	LanguagesAllowed []string `json:"languages_allowed,omitempty"`
	DurationMinutes  int      `json:"duration_minutes" validate:"gt=0,lte=480"`
	RubricID         string   `json:"rubric_id,omitempty"`
	RealtimeHints    bool     `json:"realtime_hints,omitempty"`
	Voice            string   `json:"voice,omitempty"`
	VideoAvatar      string   `json:"video_avatar,omitempty"`
}

// Session is the authoritative record of one interview.
// It is owned by the orchestrator and mutated only under the session's lock.
type Session struct {
	ID           string             `json:"id"`
	Config       InterviewConfig    `json:"config"`
	Status       SessionStatus      `json:"status"`
	CurrentPhase string             `json:"current_phase"`
	Messages     []AgentMessage     `json:"messages"`
	Analyses     []Analysis         `json:"analyses"`
	Scores       map[string]float64 `json:"scores,omitempty"` // derived, refreshed by the aggregator
	Report       *Report            `json:"report,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	ExpiresAt    time.Time          `json:"expires_at"`
}

// IsCompleted returns true once the session has been ended.
func (s *Session) IsCompleted() bool {
	return s.Status == SessionCompleted
}

// IsExpired checks if the session TTL has elapsed.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// AgentMessage is one entry in a session's message log. The log is the
// single source of truth for what happened during the interview.
type AgentMessage struct {
	Sender    string         `json:"sender"`
	Type      string         `json:"type"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// StartInterviewResponse is returned after creating a session
type StartInterviewResponse struct {
	SessionID string       `json:"session_id"`
	Status    string       `json:"status"`
	Message   AgentMessage `json:"message"`
}

// StatusSnapshot is a read-only view of a session for the status endpoint
type StatusSnapshot struct {
	SessionID    string             `json:"session_id"`
	Status       SessionStatus      `json:"status"`
	CurrentPhase string             `json:"current_phase"`
	MessageCount int                `json:"message_count"`
	Scores       map[string]float64 `json:"scores,omitempty"`
}

// SubmitResponseRequest carries one candidate answer
type SubmitResponseRequest struct {
	QuestionID int    `json:"question_id"`
	Text       string `json:"text"`
}

// ActionRequest is the generic agent-routing envelope used by the
// WebSocket endpoint.
type ActionRequest struct {
	Agent   string         `json:"agent"`
	Action  string         `json:"action"`
	Payload map[string]any `json:"payload,omitempty"`
}
