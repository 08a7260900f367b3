package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/interview-engine/internal/analyzer"
	"github.com/terra-clan/interview-engine/internal/models"
	"github.com/terra-clan/interview-engine/internal/phase"
	"github.com/terra-clan/interview-engine/internal/provider"
	"github.com/terra-clan/interview-engine/internal/question"
	"github.com/terra-clan/interview-engine/internal/rubric"
	"github.com/terra-clan/interview-engine/internal/scoring"
)

func newState(t *testing.T) *SessionState {
	t.Helper()
	now := time.Now().UTC()
	return &SessionState{
		Session: &models.Session{
			ID: "test-session",
			Config: models.InterviewConfig{
				Role:            "Backend Engineer",
				Difficulty:      "mid",
				DurationMinutes: 60,
			},
			Status:       models.SessionActive,
			CurrentPhase: string(phase.Introduction),
			CreatedAt:    now,
			ExpiresAt:    now.Add(time.Hour),
		},
		Machine:       phase.NewMachine(phase.Options{}),
		QuestionOrder: []int{3, 1, 5, 2, 4},
	}
}

func newBehavioral() *Behavioral {
	a := analyzer.New(provider.NewStubAnalysis(), time.Second)
	return NewBehavioral(question.NewBank(), a, 3)
}

const starAnswer = "The situation was a missed deadline on our team project. " +
	"My task was to rebuild trust with the customer. I took over communication " +
	"and we delivered a working solution. The result was a renewed contract."

// Coordinator

func TestCoordinator_StartAndAdvance(t *testing.T) {
	c := NewCoordinator()
	state := newState(t)

	resp, err := c.Handle(context.Background(), state, ActionStartInterview, nil)
	require.NoError(t, err)
	assert.Equal(t, "phase_transition", resp.Action)
	assert.Equal(t, string(phase.Behavioral), state.Session.CurrentPhase)

	resp, err = c.Handle(context.Background(), state, ActionNextPhase, nil)
	require.NoError(t, err)
	assert.Equal(t, string(phase.Coding), state.Session.CurrentPhase)
	assert.NotNil(t, resp.Data["instructions"])
}

func TestCoordinator_CompleteExactlyOnce(t *testing.T) {
	c := NewCoordinator()
	state := newState(t)

	_, err := c.Handle(context.Background(), state, ActionStartInterview, nil)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = c.Handle(context.Background(), state, ActionNextPhase, nil)
		require.NoError(t, err)
	}

	resp, err := c.Handle(context.Background(), state, ActionNextPhase, nil)
	require.NoError(t, err)
	assert.Equal(t, "interview_complete", resp.Action)

	_, err = c.Handle(context.Background(), state, ActionNextPhase, nil)
	assert.ErrorIs(t, err, phase.ErrAlreadyComplete)
}

func TestCoordinator_StatusAndUnknownAction(t *testing.T) {
	c := NewCoordinator()
	state := newState(t)

	resp, err := c.Handle(context.Background(), state, ActionGetStatus, nil)
	require.NoError(t, err)
	assert.Equal(t, "status", resp.Action)
	assert.Equal(t, phase.Introduction, resp.Data["current_phase"])

	_, err = c.Handle(context.Background(), state, Action("dance"), nil)
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestCoordinator_Welcome(t *testing.T) {
	msg := NewCoordinator().Welcome(models.InterviewConfig{Role: "SRE", Difficulty: "senior"})
	assert.Equal(t, "coordinator", msg.Sender)
	assert.Equal(t, "welcome", msg.Type)
	assert.Contains(t, msg.Content, "SRE")
}

// Behavioral

func TestBehavioral_QuestionFlow(t *testing.T) {
	b := newBehavioral()
	state := newState(t)

	resp, err := b.Handle(context.Background(), state, ActionBeginAssessment, nil)
	require.NoError(t, err)
	assert.Equal(t, "question_presented", resp.Action)
	assert.Equal(t, 1, resp.Data["question_number"])
	assert.Equal(t, 3, resp.Data["total_questions"])

	// First question follows the shuffled order.
	q := resp.Data["question"].(*models.Question)
	assert.Equal(t, 3, q.ID)

	resp, err = b.Handle(context.Background(), state, ActionAskQuestion, nil)
	require.NoError(t, err)
	q = resp.Data["question"].(*models.Question)
	assert.Equal(t, 1, q.ID)
	assert.Equal(t, 2, resp.Data["question_number"])
}

func TestBehavioral_SubmitResponsesToCompletion(t *testing.T) {
	b := newBehavioral()
	state := newState(t)

	_, err := b.Handle(context.Background(), state, ActionBeginAssessment, nil)
	require.NoError(t, err)

	// First two answers present the next question.
	for i, id := range []int{3, 1} {
		resp, err := b.ProcessResponse(context.Background(), state, id, starAnswer)
		require.NoError(t, err)
		assert.Equal(t, "question_presented", resp.Action)
		assert.NotNil(t, resp.Data["analysis"])
		assert.Len(t, state.Session.Analyses, i+1)
	}

	// Third answer closes the assessment with a summary.
	resp, err := b.ProcessResponse(context.Background(), state, 5, starAnswer)
	require.NoError(t, err)
	assert.Equal(t, "assessment_complete", resp.Action)
	assert.NotNil(t, resp.Data["summary"])
	assert.Len(t, state.Session.Analyses, 3)
}

func TestBehavioral_EmptyResponseLeavesNoTrace(t *testing.T) {
	b := newBehavioral()
	state := newState(t)

	_, err := b.ProcessResponse(context.Background(), state, 3, "   ")
	assert.ErrorIs(t, err, analyzer.ErrEmptyResponse)
	assert.Empty(t, state.Session.Analyses)
}

func TestBehavioral_UnknownQuestion(t *testing.T) {
	b := newBehavioral()
	state := newState(t)

	_, err := b.ProcessResponse(context.Background(), state, 404, starAnswer)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestBehavioral_SummaryRequiresResponses(t *testing.T) {
	b := newBehavioral()
	state := newState(t)

	_, err := b.Handle(context.Background(), state, ActionGetSummary, nil)
	assert.ErrorIs(t, err, scoring.ErrNoResponses)
}

func TestBehavioral_ExhaustedBudgetCompletes(t *testing.T) {
	b := newBehavioral()
	state := newState(t)
	state.QuestionsAsked = 3

	resp, err := b.Handle(context.Background(), state, ActionAskQuestion, nil)
	require.NoError(t, err)
	assert.Equal(t, "assessment_complete", resp.Action)
}

func TestBehavioral_SubmitAfterAllQuestionsPresented(t *testing.T) {
	b := newBehavioral()
	state := newState(t)

	// Present the whole question budget without answering.
	_, err := b.Handle(context.Background(), state, ActionBeginAssessment, nil)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = b.Handle(context.Background(), state, ActionAskQuestion, nil)
		require.NoError(t, err)
	}
	require.Equal(t, 3, state.QuestionsAsked)

	// The first answer arrives late; there is no next question to present.
	resp, err := b.ProcessResponse(context.Background(), state, state.QuestionOrder[0], starAnswer)
	require.NoError(t, err)
	assert.Equal(t, "assessment_complete", resp.Action)
	assert.NotNil(t, resp.Data["analysis"])
	assert.Len(t, state.Session.Analyses, 1)
}

// Coding

type failingJudge struct{}

func (failingJudge) Name() string                      { return "failing-judge" }
func (failingJudge) HealthCheck(context.Context) error { return provider.ErrUnavailable }
func (failingJudge) Execute(context.Context, provider.JudgeSubmission) (*provider.JudgeResult, error) {
	return nil, provider.ErrUnavailable
}

func TestCoding_PresentChallenge(t *testing.T) {
	c := NewCoding(provider.NewStubJudge(), 900, []string{"python", "go"})
	state := newState(t)

	resp, err := c.Handle(context.Background(), state, ActionPresentChallenge, nil)
	require.NoError(t, err)
	assert.Equal(t, "challenge_presented", resp.Action)
	assert.Equal(t, 900, resp.Data["time_limit"])
	assert.Equal(t, []string{"python", "go"}, resp.Data["languages"])
}

func TestCoding_PresentChallengePrefersSessionLanguages(t *testing.T) {
	c := NewCoding(provider.NewStubJudge(), 900, []string{"python"})
	state := newState(t)
	state.Session.Config.LanguagesAllowed = []string{"java"}

	resp, err := c.Handle(context.Background(), state, ActionPresentChallenge, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"java"}, resp.Data["languages"])
}

func TestCoding_ExecuteCode(t *testing.T) {
	c := NewCoding(provider.NewStubJudge(), 900, nil)
	state := newState(t)

	resp, err := c.Handle(context.Background(), state, ActionExecuteCode, map[string]any{
		"source_code": "print('hi')",
		"language":    "python",
		"test_cases": []any{
			map[string]any{"input": "1", "expected": "1"},
			map[string]any{"input": "2", "expected": "2"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "execution_result", resp.Action)
	assert.NotNil(t, resp.Data["summary"])
}

func TestCoding_JudgeFailureDegrades(t *testing.T) {
	c := NewCoding(failingJudge{}, 900, nil)
	state := newState(t)

	resp, err := c.Handle(context.Background(), state, ActionExecuteCode, map[string]any{
		"source_code": "x",
		"language":    "python",
	})
	require.NoError(t, err)
	assert.Equal(t, "execution_failed", resp.Action)
}

// Analysis and feedback

func seededState(t *testing.T, b *Behavioral) *SessionState {
	t.Helper()
	state := newState(t)
	_, err := b.Handle(context.Background(), state, ActionBeginAssessment, nil)
	require.NoError(t, err)
	for _, id := range []int{3, 1, 5} {
		_, err := b.ProcessResponse(context.Background(), state, id, starAnswer)
		require.NoError(t, err)
	}
	return state
}

func TestAnalysisAgent_AnalyzeSession(t *testing.T) {
	state := seededState(t, newBehavioral())
	a := NewAnalysis(rubric.NewStore(), scoring.NewConstantScorer(0.8))

	resp, err := a.Handle(context.Background(), state, ActionAnalyzeSession, nil)
	require.NoError(t, err)

	assert.Equal(t, "session_analyzed", resp.Action)
	assert.Equal(t, "backend_v3", resp.Data["rubric_id"])
	assert.NotEmpty(t, state.Session.Scores)
	assert.NotNil(t, resp.Data["weighted_score"])
	assert.NotNil(t, resp.Data["benchmarks"])
}

func TestAnalysisAgent_FrontendRoleSelectsFrontendRubric(t *testing.T) {
	state := seededState(t, newBehavioral())
	state.Session.Config.Role = "Frontend Developer"
	a := NewAnalysis(rubric.NewStore(), scoring.NewConstantScorer(0.8))

	resp, err := a.Handle(context.Background(), state, ActionAnalyzeSession, nil)
	require.NoError(t, err)
	assert.Equal(t, "frontend_v3", resp.Data["rubric_id"])
}

func TestAnalysisAgent_NoResponses(t *testing.T) {
	a := NewAnalysis(rubric.NewStore(), scoring.NewConstantScorer(0.8))

	_, err := a.Handle(context.Background(), newState(t), ActionAnalyzeSession, nil)
	assert.ErrorIs(t, err, scoring.ErrNoResponses)
}

func TestAnalysisAgent_UnknownRubricDegrades(t *testing.T) {
	state := seededState(t, newBehavioral())
	state.Session.Config.RubricID = "does_not_exist"
	a := NewAnalysis(rubric.NewStore(), scoring.NewConstantScorer(0.8))

	resp, err := a.Handle(context.Background(), state, ActionAnalyzeSession, nil)
	require.NoError(t, err)
	assert.NotContains(t, resp.Data, "competency_scores")
	assert.NotNil(t, resp.Data["summary"])
}

func TestFeedback_GenerateFeedback(t *testing.T) {
	state := seededState(t, newBehavioral())
	f := NewFeedback(NewAnalysis(rubric.NewStore(), scoring.NewConstantScorer(0.8)))

	resp, err := f.Handle(context.Background(), state, ActionGenerateFeedback, nil)
	require.NoError(t, err)
	assert.Equal(t, "feedback_generated", resp.Action)
	assert.NotNil(t, resp.Data["overall_score"])
}

func TestFeedback_NoResponsesStillSucceeds(t *testing.T) {
	f := NewFeedback(NewAnalysis(rubric.NewStore(), scoring.NewConstantScorer(0.8)))

	resp, err := f.Handle(context.Background(), newState(t), ActionGenerateFeedback, nil)
	require.NoError(t, err)
	assert.Equal(t, "feedback_generated", resp.Action)
	assert.Equal(t, 0, resp.Data["responses_count"])
}

func TestFeedback_BuildReport(t *testing.T) {
	state := seededState(t, newBehavioral())
	f := NewFeedback(NewAnalysis(rubric.NewStore(), scoring.NewConstantScorer(0.8)))

	report := f.BuildReport(state)
	require.NotNil(t, report)
	assert.Equal(t, "test-session", report.SessionID)
	assert.Equal(t, "Backend Engineer", report.Role)
	assert.Equal(t, 3, report.Summary.ResponsesCount)
	assert.NotEmpty(t, report.CompetencyScores)
	assert.Greater(t, report.WeightedScore, 0.0)
	assert.NotEmpty(t, report.Benchmarks)
	assert.False(t, report.GeneratedAt.IsZero())
}

func TestFeedback_BuildReportWithoutResponses(t *testing.T) {
	f := NewFeedback(NewAnalysis(rubric.NewStore(), scoring.NewConstantScorer(0.8)))

	report := f.BuildReport(newState(t))
	require.NotNil(t, report)
	assert.Equal(t, 0, report.Summary.ResponsesCount)
	assert.Empty(t, report.Summary.Strengths)
	assert.Empty(t, report.CompetencyScores)
}

func TestHandlers_RejectUnknownActions(t *testing.T) {
	state := newState(t)
	agents := []Agent{
		newBehavioral(),
		NewCoding(provider.NewStubJudge(), 900, nil),
		NewAnalysis(rubric.NewStore(), scoring.NewConstantScorer(0.8)),
		NewFeedback(NewAnalysis(rubric.NewStore(), scoring.NewConstantScorer(0.8))),
	}

	for _, a := range agents {
		_, err := a.Handle(context.Background(), state, Action("bogus"), nil)
		assert.True(t, errors.Is(err, ErrUnknownAction), "agent %s", a.Name())
	}
}
