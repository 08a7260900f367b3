package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/terra-clan/interview-engine/internal/models"
	"github.com/terra-clan/interview-engine/internal/scoring"
)

// Feedback produces the candidate-facing feedback and the terminal
// report. The report is assembled all-or-nothing by the orchestrator's
// End path; feedback during the interview reuses the same aggregation.
type Feedback struct {
	analysis *AnalysisAgent
}

// NewFeedback creates the feedback agent. It shares the analysis
// agent's rubric resolution and context scorer.
func NewFeedback(analysis *AnalysisAgent) *Feedback {
	return &Feedback{analysis: analysis}
}

// Name returns the routing name
func (f *Feedback) Name() string { return "feedback" }

// Handle processes feedback actions.
func (f *Feedback) Handle(_ context.Context, state *SessionState, action Action, _ map[string]any) (*Response, error) {
	switch action {
	case ActionGenerateFeedback:
		summary, err := scoring.Summarize(state.Session.Analyses)
		if err != nil {
			if errors.Is(err, scoring.ErrNoResponses) {
				return &Response{
					Action:  "feedback_generated",
					Message: "No responses were recorded, so no detailed feedback is available.",
					Data:    map[string]any{"responses_count": 0},
				}, nil
			}
			return nil, err
		}
		return &Response{
			Action:  "feedback_generated",
			Message: "Here is your interview feedback.",
			Data: map[string]any{
				"overall_score":     summary.OverallScore,
				"strengths":         summary.Strengths,
				"improvement_areas": summary.ImprovementAreas,
				"summary":           summary,
			},
		}, nil

	default:
		return nil, fmt.Errorf("feedback: %q: %w", action, ErrUnknownAction)
	}
}

// BuildReport assembles the terminal report for a session. A session
// with no recorded responses still gets a report, with zeroed
// aggregates. The report never fails partway; any rubric gap just
// omits the rubric sections.
func (f *Feedback) BuildReport(state *SessionState) *models.Report {
	report := &models.Report{
		SessionID:   state.Session.ID,
		Role:        state.Session.Config.Role,
		Difficulty:  state.Session.Config.Difficulty,
		GeneratedAt: time.Now().UTC(),
	}

	summary, err := scoring.Summarize(state.Session.Analyses)
	if err != nil {
		report.Summary = models.Summary{
			UniqueCompetencies: []string{},
			Strengths:          []string{},
			ImprovementAreas:   []string{},
		}
		return report
	}
	report.Summary = *summary

	if r := f.analysis.rubricFor(state.Session.Config); r != nil {
		scores := scoring.CompetencyScores(state.Session.Analyses, r, f.analysis.scorer)
		state.Session.Scores = scores
		report.CompetencyScores = scores
		report.WeightedScore = scoring.WeightedOverall(scores, r)
		report.Benchmarks = scoring.BenchmarksFor(r, state.Session.Config.Difficulty)
	}

	return report
}
