package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/terra-clan/interview-engine/internal/agent"
	"github.com/terra-clan/interview-engine/internal/models"
	"github.com/terra-clan/interview-engine/internal/phase"
	"github.com/terra-clan/interview-engine/internal/question"
	"github.com/terra-clan/interview-engine/internal/scoring"
	"github.com/terra-clan/interview-engine/internal/storage"
)

// Common errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrAgentNotFound   = errors.New("agent not found")
	ErrSessionClosed   = errors.New("session already ended")
)

// entry pairs a session's state with the lock that serializes every
// operation touching it. Different sessions proceed independently.
type entry struct {
	mu    sync.Mutex
	state *agent.SessionState
}

// Options configure session creation.
type Options struct {
	SessionTTL      time.Duration
	ShuffleSeed     int64 // 0 draws a fresh order per session
	QuestionCount   int
	CodingTimeLimit int // seconds
	Languages       []string
}

// Orchestrator owns the session table and routes every action to the
// responsible specialist under the session's lock.
type Orchestrator struct {
	mu       sync.RWMutex
	sessions map[string]*entry

	agents      map[string]agent.Agent
	coordinator *agent.Coordinator
	feedback    *agent.Feedback
	bank        *question.Bank
	repo        storage.Repository
	opts        Options
}

// New creates an orchestrator wired to the given specialists.
func New(coordinator *agent.Coordinator, behavioral *agent.Behavioral, coding *agent.Coding, analysis *agent.AnalysisAgent, feedback *agent.Feedback, bank *question.Bank, repo storage.Repository, opts Options) *Orchestrator {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 2 * time.Hour
	}

	agents := map[string]agent.Agent{
		coordinator.Name(): coordinator,
		behavioral.Name():  behavioral,
		coding.Name():      coding,
		analysis.Name():    analysis,
		feedback.Name():    feedback,
	}

	return &Orchestrator{
		sessions:    make(map[string]*entry),
		agents:      agents,
		coordinator: coordinator,
		feedback:    feedback,
		bank:        bank,
		repo:        repo,
		opts:        opts,
	}
}

// Create registers a new session in the initial phase and records the
// coordinator's welcome message.
func (o *Orchestrator) Create(_ context.Context, cfg models.InterviewConfig) (*models.StartInterviewResponse, error) {
	now := time.Now().UTC()
	welcome := o.coordinator.Welcome(cfg)
	welcome.Timestamp = now

	session := &models.Session{
		ID:           uuid.NewString(),
		Config:       cfg,
		Status:       models.SessionActive,
		CurrentPhase: string(phase.Introduction),
		Messages:     []models.AgentMessage{welcome},
		CreatedAt:    now,
		ExpiresAt:    now.Add(o.opts.SessionTTL),
	}

	machine := phase.NewMachine(phase.Options{
		QuestionCount:    o.opts.QuestionCount,
		CodingTimeLimit:  o.opts.CodingTimeLimit,
		LanguagesAllowed: cfg.LanguagesAllowed,
	})

	state := &agent.SessionState{
		Session:       session,
		Machine:       machine,
		QuestionOrder: o.bank.Shuffle(o.opts.ShuffleSeed),
	}

	o.mu.Lock()
	o.sessions[session.ID] = &entry{state: state}
	o.mu.Unlock()

	slog.Info("session created",
		"session_id", session.ID,
		"role", cfg.Role,
		"difficulty", cfg.Difficulty,
	)

	return &models.StartInterviewResponse{
		SessionID: session.ID,
		Status:    string(session.Status),
		Message:   welcome,
	}, nil
}

// Route dispatches one action to a named agent under the session's
// lock. Every successful response is appended to the message log.
func (o *Orchestrator) Route(ctx context.Context, sessionID, agentName string, action agent.Action, payload map[string]any) (*agent.Response, error) {
	e, err := o.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	target, ok := o.agents[agentName]
	if !ok {
		return nil, ErrAgentNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Session.IsCompleted() {
		return nil, ErrSessionClosed
	}

	resp, err := target.Handle(ctx, e.state, action, payload)
	if err != nil {
		return nil, err
	}

	o.appendMessage(e.state.Session, agentName, resp)
	return resp, nil
}

// Status returns a read-only snapshot of a session.
func (o *Orchestrator) Status(sessionID string) (*models.StatusSnapshot, error) {
	e, err := o.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.state.Session
	return &models.StatusSnapshot{
		SessionID:    s.ID,
		Status:       s.Status,
		CurrentPhase: s.CurrentPhase,
		MessageCount: len(s.Messages),
		Scores:       s.Scores,
	}, nil
}

// Summary aggregates the session's recorded responses on demand.
func (o *Orchestrator) Summary(sessionID string) (*models.Summary, error) {
	e, err := o.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return scoring.Summarize(e.state.Session.Analyses)
}

// End closes a session and generates its terminal report exactly once.
// The session stays in the table, immutable, until the TTL cleaner
// evicts it; a second End returns ErrSessionClosed with the report
// unchanged.
func (o *Orchestrator) End(ctx context.Context, sessionID string) (*models.Report, error) {
	e, err := o.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	session := e.state.Session
	if session.IsCompleted() {
		return nil, ErrSessionClosed
	}

	report := o.feedback.BuildReport(e.state)
	session.Report = report
	session.Status = models.SessionCompleted
	session.CurrentPhase = string(phase.Feedback)

	// Archival is best effort; the report is already authoritative
	// in memory.
	if err := o.repo.ArchiveInterview(ctx, session); err != nil {
		slog.Warn("failed to archive interview", "session_id", session.ID, "error", err)
	}

	slog.Info("session ended",
		"session_id", session.ID,
		"overall_score", report.Summary.OverallScore,
		"responses", report.Summary.ResponsesCount,
	)
	return report, nil
}

// EvictExpired removes every session whose TTL has elapsed and returns
// how many were dropped.
func (o *Orchestrator) EvictExpired() int {
	o.mu.Lock()
	defer o.mu.Unlock()

	evicted := 0
	for id, e := range o.sessions {
		if e.state.Session.IsExpired() {
			delete(o.sessions, id)
			evicted++
			slog.Info("session evicted", "session_id", id, "status", e.state.Session.Status)
		}
	}
	return evicted
}

// Count returns the number of live sessions.
func (o *Orchestrator) Count() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.sessions)
}

// lookup finds a live session entry.
func (o *Orchestrator) lookup(sessionID string) (*entry, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	e, ok := o.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e, nil
}

// appendMessage records an agent response in the session log.
func (o *Orchestrator) appendMessage(session *models.Session, sender string, resp *agent.Response) {
	session.Messages = append(session.Messages, models.AgentMessage{
		Sender:    sender,
		Type:      resp.Action,
		Content:   resp.Message,
		Timestamp: time.Now().UTC(),
		Metadata:  resp.Data,
	})
}
