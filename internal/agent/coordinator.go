package agent

import (
	"context"
	"fmt"

	"github.com/terra-clan/interview-engine/internal/models"
	"github.com/terra-clan/interview-engine/internal/phase"
)

// Coordinator owns the interview lifecycle: it drives the phase machine
// and answers status queries. It is the only agent allowed to change
// the session's current phase.
type Coordinator struct{}

// NewCoordinator creates the lifecycle agent
func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// Name returns the routing name
func (c *Coordinator) Name() string { return "coordinator" }

// Welcome builds the greeting recorded when a session is created.
func (c *Coordinator) Welcome(cfg models.InterviewConfig) models.AgentMessage {
	content := fmt.Sprintf(
		"Welcome to your %s interview practice session. We'll go through %d phases: introduction, behavioral questions, a coding exercise, analysis, and feedback. Let's begin when you're ready.",
		cfg.Role, len(phase.Sequence),
	)
	return models.AgentMessage{
		Sender:  c.Name(),
		Type:    "welcome",
		Content: content,
		Metadata: map[string]any{
			"role":       cfg.Role,
			"difficulty": cfg.Difficulty,
		},
	}
}

// Handle processes lifecycle actions.
func (c *Coordinator) Handle(_ context.Context, state *SessionState, action Action, _ map[string]any) (*Response, error) {
	switch action {
	case ActionStartInterview:
		t, err := state.Machine.Start()
		if err != nil {
			return nil, err
		}
		state.Session.CurrentPhase = string(t.Phase)
		return transitionResponse(t), nil

	case ActionNextPhase:
		t, err := state.Machine.Advance()
		if err != nil {
			return nil, err
		}
		state.Session.CurrentPhase = string(t.Phase)
		return transitionResponse(t), nil

	case ActionGetStatus:
		s := state.Machine.Status()
		return &Response{
			Action: "status",
			Data: map[string]any{
				"current_phase": s.CurrentPhase,
				"phase_index":   s.PhaseIndex,
				"total_phases":  s.TotalPhases,
				"status":        state.Session.Status,
			},
		}, nil

	default:
		return nil, fmt.Errorf("coordinator: %q: %w", action, ErrUnknownAction)
	}
}

// transitionResponse converts a phase transition into an agent response.
func transitionResponse(t *phase.Transition) *Response {
	if t.Complete {
		return &Response{
			Action:  "interview_complete",
			Message: t.Message,
			Data:    map[string]any{"current_phase": t.Phase},
		}
	}
	data := map[string]any{"current_phase": t.Phase}
	if t.Instructions != nil {
		data["instructions"] = t.Instructions
	}
	return &Response{
		Action:  "phase_transition",
		Message: t.Message,
		Data:    data,
	}
}
