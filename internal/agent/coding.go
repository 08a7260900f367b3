package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/terra-clan/interview-engine/internal/provider"
)

// Coding runs the coding exercise: it presents the challenge envelope
// and forwards submissions to the code judge. Judge failures degrade
// into an execution_failed response rather than failing the session.
type Coding struct {
	judge     provider.CodeJudge
	timeLimit int
	languages []string
}

// NewCoding creates the coding exercise agent.
func NewCoding(judge provider.CodeJudge, timeLimitSeconds int, languages []string) *Coding {
	if timeLimitSeconds <= 0 {
		timeLimitSeconds = 1200
	}
	if len(languages) == 0 {
		languages = []string{"python", "java", "cpp"}
	}
	return &Coding{judge: judge, timeLimit: timeLimitSeconds, languages: languages}
}

// Name returns the routing name
func (c *Coding) Name() string { return "coding" }

// Handle processes coding phase actions.
func (c *Coding) Handle(ctx context.Context, state *SessionState, action Action, payload map[string]any) (*Response, error) {
	switch action {
	case ActionPresentChallenge:
		languages := c.languages
		if len(state.Session.Config.LanguagesAllowed) > 0 {
			languages = state.Session.Config.LanguagesAllowed
		}
		return &Response{
			Action:  "challenge_presented",
			Message: "You may now work on the coding exercise. Submit your solution when ready.",
			Data: map[string]any{
				"time_limit": c.timeLimit,
				"languages":  languages,
			},
		}, nil

	case ActionExecuteCode:
		return c.execute(ctx, payload)

	default:
		return nil, fmt.Errorf("coding: %q: %w", action, ErrUnknownAction)
	}
}

// execute forwards a submission to the judge. Any judge error is
// absorbed into a degraded response so the interview can proceed.
func (c *Coding) execute(ctx context.Context, payload map[string]any) (*Response, error) {
	sub := provider.JudgeSubmission{
		SourceCode:       payloadString(payload, "source_code"),
		Language:         payloadString(payload, "language"),
		TimeLimitSeconds: payloadInt(payload, "time_limit", c.timeLimit),
		TestCases:        parseTestCases(payload["test_cases"]),
	}

	result, err := c.judge.Execute(ctx, sub)
	if err != nil {
		slog.Warn("code execution degraded",
			"judge", c.judge.Name(),
			"language", sub.Language,
			"error", err,
		)
		return &Response{
			Action:  "execution_failed",
			Message: "Code execution is temporarily unavailable. Your submission was recorded.",
			Data:    map[string]any{"language": sub.Language},
		}, nil
	}

	return &Response{
		Action: "execution_result",
		Data: map[string]any{
			"results": result.Results,
			"summary": result.Summary,
		},
	}, nil
}

// parseTestCases decodes the JSON-shaped test case list from a payload.
func parseTestCases(raw any) []provider.TestCase {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	cases := make([]provider.TestCase, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		cases = append(cases, provider.TestCase{
			Input:    payloadString(m, "input"),
			Expected: payloadString(m, "expected"),
		})
	}
	return cases
}
