package agent

import (
	"context"
	"fmt"

	"github.com/terra-clan/interview-engine/internal/analyzer"
	"github.com/terra-clan/interview-engine/internal/models"
	"github.com/terra-clan/interview-engine/internal/question"
	"github.com/terra-clan/interview-engine/internal/scoring"
)

// defaultQuestionCount is how many questions one assessment asks.
const defaultQuestionCount = 3

// Behavioral conducts the STAR question assessment: it presents
// questions in the session's shuffled order and analyzes each answer.
type Behavioral struct {
	bank     *question.Bank
	analyzer *analyzer.Analyzer
	count    int
}

// NewBehavioral creates the behavioral assessment agent. A non-positive
// count falls back to the default of three questions.
func NewBehavioral(bank *question.Bank, a *analyzer.Analyzer, count int) *Behavioral {
	if count <= 0 {
		count = defaultQuestionCount
	}
	return &Behavioral{bank: bank, analyzer: a, count: count}
}

// Name returns the routing name
func (b *Behavioral) Name() string { return "behavioral" }

// Handle processes assessment actions.
func (b *Behavioral) Handle(ctx context.Context, state *SessionState, action Action, payload map[string]any) (*Response, error) {
	switch action {
	case ActionBeginAssessment:
		state.QuestionsAsked = 0
		return b.nextQuestion(state)

	case ActionAskQuestion:
		return b.nextQuestion(state)

	case ActionSubmitResponse:
		id := payloadInt(payload, "question_id", -1)
		text := payloadString(payload, "text")
		if text == "" {
			text = payloadString(payload, "response")
		}
		return b.ProcessResponse(ctx, state, id, text)

	case ActionGetSummary:
		summary, err := scoring.Summarize(state.Session.Analyses)
		if err != nil {
			return nil, err
		}
		return &Response{
			Action: "assessment_summary",
			Data:   map[string]any{"summary": summary},
		}, nil

	default:
		return nil, fmt.Errorf("behavioral: %q: %w", action, ErrUnknownAction)
	}
}

// ProcessResponse analyzes one answer and either presents the next
// question or closes the assessment with a summary.
func (b *Behavioral) ProcessResponse(ctx context.Context, state *SessionState, questionID int, text string) (*Response, error) {
	q := b.bank.Get(questionID)
	if q == nil {
		return nil, fmt.Errorf("question %d: %w", questionID, ErrQuestionNotFound)
	}

	analysis, err := b.analyzer.Analyze(ctx, *q, text)
	if err != nil {
		return nil, err
	}
	state.Session.Analyses = append(state.Session.Analyses, *analysis)

	if len(state.Session.Analyses) >= b.questionTotal() {
		summary, err := scoring.Summarize(state.Session.Analyses)
		if err != nil {
			return nil, err
		}
		return &Response{
			Action:  "assessment_complete",
			Message: "Behavioral assessment complete. Thank you for your responses.",
			Data: map[string]any{
				"analysis": analysis,
				"summary":  summary,
			},
		}, nil
	}

	resp, err := b.nextQuestion(state)
	if err != nil {
		return nil, err
	}
	resp.Data["analysis"] = analysis
	return resp, nil
}

// nextQuestion presents the next question in the session's order, or an
// assessment_complete marker when the budget is exhausted.
func (b *Behavioral) nextQuestion(state *SessionState) (*Response, error) {
	total := b.questionTotal()
	if state.QuestionsAsked >= total || state.QuestionsAsked >= len(state.QuestionOrder) {
		return &Response{
			Action:  "assessment_complete",
			Message: "All behavioral questions have been asked.",
			Data:    map[string]any{},
		}, nil
	}

	id := state.QuestionOrder[state.QuestionsAsked]
	q := b.bank.Get(id)
	if q == nil {
		return nil, fmt.Errorf("question %d: %w", id, ErrQuestionNotFound)
	}
	state.QuestionsAsked++

	return &Response{
		Action:  "question_presented",
		Message: q.Prompt,
		Data: map[string]any{
			"question":        q,
			"question_number": state.QuestionsAsked,
			"total_questions": total,
			"instructions":    "Please use the STAR method: describe the Situation, Task, Action, and Result.",
		},
	}, nil
}

func (b *Behavioral) questionTotal() int {
	if size := b.bank.Size(); size < b.count {
		return size
	}
	return b.count
}

// CurrentQuestion returns the question the session is waiting on, nil
// when the assessment has not started or is over.
func (b *Behavioral) CurrentQuestion(state *SessionState) *models.Question {
	if state.QuestionsAsked == 0 || state.QuestionsAsked > len(state.QuestionOrder) {
		return nil
	}
	return b.bank.Get(state.QuestionOrder[state.QuestionsAsked-1])
}
