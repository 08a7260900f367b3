package provider

import (
	"context"
	"hash/fnv"
	"strings"
)

// StubAnalysis is the deterministic analysis provider used when no live
// backend is configured. It grades STAR completeness from lexical cues
// so repeated runs over the same response give the same result.
type StubAnalysis struct{}

// NewStubAnalysis creates a deterministic analysis provider
func NewStubAnalysis() *StubAnalysis { return &StubAnalysis{} }

// Name returns the provider name
func (s *StubAnalysis) Name() string { return "stub-analysis" }

// HealthCheck always succeeds
func (s *StubAnalysis) HealthCheck(ctx context.Context) error { return nil }

// starCues maps each STAR element to the phrases that signal it.
var starCues = map[string][]string{
	"situation": {"situation", "when ", "while ", "at the time", "we were"},
	"task":      {"task", "goal", "had to", "needed to", "responsible for"},
	"action":    {"action", "i decided", "i did", "i took", "we built", "i worked", "approached"},
	"result":    {"result", "outcome", "achieved", "delivered", "in the end", "ultimately", "improved"},
}

// Analyze grades the response from lexical STAR cues.
func (s *StubAnalysis) Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error) {
	lower := strings.ToLower(req.Response)

	covered := 0
	for _, cues := range starCues {
		for _, cue := range cues {
			if strings.Contains(lower, cue) {
				covered++
				break
			}
		}
	}
	completeness := float64(covered) / float64(len(starCues))

	label := "moderate"
	switch {
	case completeness >= 0.75:
		label = "strong"
	case completeness <= 0.25:
		label = "weak"
	}

	insights := []string{"Response provided with reasonable detail"}
	if completeness >= 0.75 {
		insights = append(insights, "Covers the full STAR structure")
	}

	return &AnalysisResult{
		StarCompleteness:        completeness,
		CompetencyDemonstration: label,
		Insights:                insights,
		ImprovementAreas:        []string{"Could provide more specific examples"},
	}, nil
}

// StubJudge is the deterministic code judge used when no live judge is
// configured. Pass/fail per case is derived from a hash of the source
// and case input, so identical submissions judge identically.
type StubJudge struct{}

// NewStubJudge creates a deterministic code judge
func NewStubJudge() *StubJudge { return &StubJudge{} }

// Name returns the provider name
func (j *StubJudge) Name() string { return "stub-judge" }

// HealthCheck always succeeds
func (j *StubJudge) HealthCheck(ctx context.Context) error { return nil }

// Execute produces a deterministic judge result for the submission.
func (j *StubJudge) Execute(ctx context.Context, sub JudgeSubmission) (*JudgeResult, error) {
	results := make([]CaseResult, 0, len(sub.TestCases))

	for i, tc := range sub.TestCases {
		h := fnv.New32a()
		h.Write([]byte(sub.SourceCode))
		h.Write([]byte(tc.Input))
		v := h.Sum32()

		// Roughly two thirds of cases pass, mirroring a plausible run.
		passed := v%3 != 0

		result := CaseResult{
			TestCase: i + 1,
			Status:   "Accepted",
			Passed:   passed,
			Output:   tc.Expected,
			TimeSec:  0.1 + float64(v%190)/100.0,
			MemoryKB: 1000 + int(v%49000),
		}
		if !passed {
			result.Status = "Wrong Answer"
			result.Output = "Different output"
			result.Error = "Output doesn't match expected result"
		}
		results = append(results, result)
	}

	return &JudgeResult{Results: results, Summary: summarize(results)}, nil
}
