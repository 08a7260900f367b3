package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/terra-clan/interview-engine/internal/models"
	"github.com/terra-clan/interview-engine/internal/rubric"
	"github.com/terra-clan/interview-engine/internal/scoring"
)

// AnalysisAgent aggregates the session's responses into the summary and
// rubric-weighted competency scores. It refreshes session.Scores as a
// side effect so the status endpoint can expose them.
type AnalysisAgent struct {
	rubrics *rubric.Store
	scorer  scoring.ContextScorer
}

// NewAnalysis creates the aggregation agent.
func NewAnalysis(rubrics *rubric.Store, scorer scoring.ContextScorer) *AnalysisAgent {
	return &AnalysisAgent{rubrics: rubrics, scorer: scorer}
}

// Name returns the routing name
func (a *AnalysisAgent) Name() string { return "analysis" }

// Handle processes aggregation actions.
func (a *AnalysisAgent) Handle(_ context.Context, state *SessionState, action Action, _ map[string]any) (*Response, error) {
	switch action {
	case ActionAnalyzeSession:
		summary, err := scoring.Summarize(state.Session.Analyses)
		if err != nil {
			return nil, err
		}

		data := map[string]any{"summary": summary}

		if r := a.rubricFor(state.Session.Config); r != nil {
			scores := scoring.CompetencyScores(state.Session.Analyses, r, a.scorer)
			state.Session.Scores = scores
			data["rubric_id"] = r.ID
			data["competency_scores"] = scores
			data["weighted_score"] = scoring.WeightedOverall(scores, r)
			data["benchmarks"] = scoring.BenchmarksFor(r, state.Session.Config.Difficulty)
		}

		return &Response{
			Action:  "session_analyzed",
			Message: fmt.Sprintf("Analyzed %d responses.", summary.ResponsesCount),
			Data:    data,
		}, nil

	default:
		return nil, fmt.Errorf("analysis: %q: %w", action, ErrUnknownAction)
	}
}

// rubricFor resolves the rubric for a session: the explicit rubric id
// when set, otherwise a role-based default. Missing rubrics degrade to
// summary-only analysis.
func (a *AnalysisAgent) rubricFor(cfg models.InterviewConfig) *models.Rubric {
	id := cfg.RubricID
	if id == "" {
		if strings.Contains(strings.ToLower(cfg.Role), "front") {
			id = "frontend_v3"
		} else {
			id = "backend_v3"
		}
	}
	r := a.rubrics.Get(id)
	if r == nil {
		slog.Warn("rubric not found, skipping competency scoring", "rubric_id", id)
	}
	return r
}
