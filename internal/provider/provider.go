package provider

import (
	"context"
	"errors"
	"sync"

	"github.com/terra-clan/interview-engine/internal/models"
)

// ErrUnavailable signals that an external collaborator failed or timed
// out. Callers are expected to degrade gracefully, never to abort a
// session because of it.
var ErrUnavailable = errors.New("provider unavailable")

// Provider is the capability interface implemented by every external
// collaborator, live or deterministic stub.
type Provider interface {
	// Name returns the provider name for registry lookup and logging
	Name() string

	// HealthCheck checks if the collaborator is reachable
	HealthCheck(ctx context.Context) error
}

// AnalysisRequest carries the context for one qualitative analysis call.
type AnalysisRequest struct {
	Question models.Question
	Response string
}

// AnalysisResult is the structured output expected from the analysis
// collaborator. StarCompleteness may be out of range; callers clamp.
type AnalysisResult struct {
	StarCompleteness        float64  `json:"star_completeness"`
	CompetencyDemonstration string   `json:"competency_demonstration"`
	Insights                []string `json:"insights"`
	ImprovementAreas        []string `json:"improvement_areas,omitempty"`
}

// AnalysisProvider produces qualitative analyses of candidate responses.
type AnalysisProvider interface {
	Provider
	Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error)
}

// TestCase is one input/expected pair for the code judge
type TestCase struct {
	Input    string `json:"input"`
	Expected string `json:"expected"`
}

// JudgeSubmission is a code submission forwarded to the judge
type JudgeSubmission struct {
	SourceCode       string     `json:"source_code"`
	Language         string     `json:"language"`
	TestCases        []TestCase `json:"test_cases"`
	TimeLimitSeconds int        `json:"time_limit_seconds"`
}

// CaseResult is the outcome of one test case
type CaseResult struct {
	TestCase int     `json:"test_case"`
	Status   string  `json:"status"`
	Passed   bool    `json:"passed"`
	Output   string  `json:"output,omitempty"`
	Error    string  `json:"error,omitempty"`
	TimeSec  float64 `json:"time"`
	MemoryKB int     `json:"memory"`
}

// JudgeSummary aggregates case results
type JudgeSummary struct {
	Passed        int     `json:"passed"`
	Total         int     `json:"total"`
	PassRate      float64 `json:"pass_rate"`
	AvgTimeSec    float64 `json:"avg_execution_time"`
	MaxMemoryKB   int     `json:"max_memory_usage"`
	OverallStatus string  `json:"overall_status"`
}

// JudgeResult is the full judge response for a submission
type JudgeResult struct {
	Results []CaseResult `json:"results"`
	Summary JudgeSummary `json:"summary"`
}

// CodeJudge executes candidate code against test cases.
type CodeJudge interface {
	Provider
	Execute(ctx context.Context, sub JudgeSubmission) (*JudgeResult, error)
}

// Registry manages named providers
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds a provider to the registry
func (r *Registry) Register(name string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
}

// Get retrieves a provider by name
func (r *Registry) Get(name string) Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.providers[name]
}

// List returns all registered provider names
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

// HealthCheckAll checks health of all registered providers
func (r *Registry) HealthCheckAll(ctx context.Context) map[string]error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make(map[string]error)
	for name, p := range r.providers {
		results[name] = p.HealthCheck(ctx)
	}
	return results
}

// summarize fills a JudgeSummary from case results.
func summarize(results []CaseResult) JudgeSummary {
	sum := JudgeSummary{Total: len(results)}
	var totalTime float64
	for _, r := range results {
		if r.Passed {
			sum.Passed++
		}
		totalTime += r.TimeSec
		if r.MemoryKB > sum.MaxMemoryKB {
			sum.MaxMemoryKB = r.MemoryKB
		}
	}
	if sum.Total > 0 {
		sum.PassRate = float64(sum.Passed) / float64(sum.Total) * 100
		sum.AvgTimeSec = totalTime / float64(sum.Total)
	}
	sum.OverallStatus = "failed"
	if sum.Passed == sum.Total && sum.Total > 0 {
		sum.OverallStatus = "passed"
	}
	return sum
}
