package phase

import (
	"errors"
)

// Phase is one stage of the fixed interview sequence
type Phase string

const (
	Introduction Phase = "introduction"
	Behavioral   Phase = "behavioral"
	Coding       Phase = "coding"
	Analysis     Phase = "analysis"
	Feedback     Phase = "feedback"
)

// Sequence is the fixed, forward-only phase order
var Sequence = []Phase{Introduction, Behavioral, Coding, Analysis, Feedback}

// Common errors
var (
	ErrInvalidTransition = errors.New("invalid phase transition")
	ErrAlreadyComplete   = errors.New("interview already complete")
)

// Instructions name the specialist responsible for a phase and its
// invocation parameters.
type Instructions struct {
	Agent      string         `json:"agent"`
	Action     string         `json:"action"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// Transition is the result of Start or Advance.
type Transition struct {
	Phase        Phase         `json:"current_phase"`
	Complete     bool          `json:"complete"`
	Message      string        `json:"message"`
	Instructions *Instructions `json:"instructions,omitempty"`
}

// Status is a read-only snapshot of the machine.
type Status struct {
	CurrentPhase Phase `json:"current_phase"`
	PhaseIndex   int   `json:"phase_index"`
	TotalPhases  int   `json:"total_phases"`
}

// Options parameterize the per-phase instruction bundles.
type Options struct {
	QuestionCount    int
	CodingTimeLimit  int // seconds
	LanguagesAllowed []string
}

// Machine advances a single session through the fixed phase sequence.
// Not safe for concurrent use; callers are serialized per session.
type Machine struct {
	index   int
	started bool
	done    bool
	opts    Options
}

// NewMachine creates a machine in the initial state (introduction, index 0).
func NewMachine(opts Options) *Machine {
	if opts.QuestionCount <= 0 {
		opts.QuestionCount = 3
	}
	if opts.CodingTimeLimit <= 0 {
		opts.CodingTimeLimit = 1200
	}
	if len(opts.LanguagesAllowed) == 0 {
		opts.LanguagesAllowed = []string{"python", "java", "cpp"}
	}
	return &Machine{opts: opts}
}

// Start transitions from the initial state to the behavioral phase.
// Valid only once, from introduction.
func (m *Machine) Start() (*Transition, error) {
	if m.started || m.index != 0 {
		return nil, ErrInvalidTransition
	}
	m.started = true
	m.index = 1

	next := Sequence[m.index]
	return &Transition{
		Phase:        next,
		Message:      "Transitioning to behavioral assessment phase",
		Instructions: m.instructions(next),
	}, nil
}

// Advance moves to the next phase, or issues the one-shot
// interview_complete result when the final phase has run.
func (m *Machine) Advance() (*Transition, error) {
	if m.done {
		return nil, ErrAlreadyComplete
	}

	if m.index < len(Sequence)-1 {
		m.index++
		next := Sequence[m.index]
		return &Transition{
			Phase:        next,
			Message:      "Transitioning to " + string(next) + " phase",
			Instructions: m.instructions(next),
		}, nil
	}

	// Final phase already issued its instructions; complete exactly once.
	m.done = true
	return &Transition{
		Phase:    Sequence[m.index],
		Complete: true,
		Message:  "Interview completed successfully",
	}, nil
}

// Status returns a snapshot without mutating the machine.
func (m *Machine) Status() Status {
	return Status{
		CurrentPhase: Sequence[m.index],
		PhaseIndex:   m.index,
		TotalPhases:  len(Sequence),
	}
}

// Current returns the current phase.
func (m *Machine) Current() Phase {
	return Sequence[m.index]
}

// instructions returns the static instruction bundle for a phase.
func (m *Machine) instructions(p Phase) *Instructions {
	switch p {
	case Behavioral:
		return &Instructions{
			Agent:  "behavioral",
			Action: "begin_assessment",
			Parameters: map[string]any{
				"question_count": m.opts.QuestionCount,
				"method":         "STAR",
			},
		}
	case Coding:
		return &Instructions{
			Agent:  "coding",
			Action: "present_challenge",
			Parameters: map[string]any{
				"time_limit": m.opts.CodingTimeLimit,
				"languages":  m.opts.LanguagesAllowed,
			},
		}
	case Analysis:
		return &Instructions{
			Agent:  "analysis",
			Action: "analyze_session",
			Parameters: map[string]any{
				"include_sentiment": true,
				"include_technical": true,
			},
		}
	case Feedback:
		return &Instructions{
			Agent:  "feedback",
			Action: "generate_feedback",
			Parameters: map[string]any{
				"include_recommendations": true,
			},
		}
	default:
		return nil
	}
}
