package analyzer

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jonreiter/govader"

	"github.com/terra-clan/interview-engine/internal/models"
	"github.com/terra-clan/interview-engine/internal/provider"
)

// ErrEmptyResponse is returned for empty or whitespace-only input.
var ErrEmptyResponse = errors.New("empty response")

// Vocabulary is the fixed competency-keyword set matched against every
// response (case-insensitive substring match).
var Vocabulary = []string{
	"team", "collaboration", "leadership", "problem", "solution", "challenge",
	"success", "failure", "learn", "improve", "communicate", "manage",
	"deliver", "quality", "deadline", "customer", "user", "technical",
	"decision", "responsibility", "initiative", "conflict", "resolution",
}

// Analyzer turns one candidate response into a structured Analysis.
// Sentiment and keyword extraction are local and deterministic; the
// qualitative step delegates to the analysis provider and substitutes
// neutral defaults on any failure.
type Analyzer struct {
	provider provider.AnalysisProvider
	vader    *govader.SentimentIntensityAnalyzer
	timeout  time.Duration
}

// New creates an analyzer backed by the given provider. A zero timeout
// defaults to 15s.
func New(p provider.AnalysisProvider, timeout time.Duration) *Analyzer {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Analyzer{
		provider: p,
		vader:    govader.NewSentimentIntensityAnalyzer(),
		timeout:  timeout,
	}
}

// Analyze scores a single response against its originating question.
func (a *Analyzer) Analyze(ctx context.Context, q models.Question, text string) (*models.Analysis, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyResponse
	}

	score := a.vader.PolarityScores(text).Compound

	analysis := &models.Analysis{
		QuestionID:   q.ID,
		ResponseText: text,
		Sentiment: models.Sentiment{
			Score: score,
			Label: models.ClassifySentiment(score),
		},
		Keywords:  MatchKeywords(text),
		WordCount: len(strings.Fields(text)),
		CreatedAt: time.Now().UTC(),
	}

	a.applyQualitative(ctx, q, text, analysis)
	return analysis, nil
}

// applyQualitative runs the provider call under a bounded timeout and
// folds the result (or the neutral default) into the analysis.
func (a *Analyzer) applyQualitative(ctx context.Context, q models.Question, text string, analysis *models.Analysis) {
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	result, err := a.provider.Analyze(callCtx, provider.AnalysisRequest{
		Question: q,
		Response: text,
	})
	if err != nil || result == nil {
		slog.Warn("qualitative analysis degraded to defaults",
			"question_id", q.ID,
			"provider", a.provider.Name(),
			"error", err,
		)
		analysis.StarCompleteness = 0.5
		analysis.CompetencyLabel = models.CompetencyModerate
		analysis.Insights = []string{"Response provided with reasonable detail"}
		return
	}

	analysis.StarCompleteness = clamp01(result.StarCompleteness)
	analysis.CompetencyLabel = normalizeLabel(result.CompetencyDemonstration)
	analysis.Insights = result.Insights
	if len(analysis.Insights) == 0 {
		analysis.Insights = []string{"Response provided with reasonable detail"}
	}
}

// MatchKeywords returns the deduplicated vocabulary terms found in the
// text, case-insensitive, as substrings.
func MatchKeywords(text string) []string {
	lower := strings.ToLower(text)
	found := make([]string, 0)
	for _, keyword := range Vocabulary {
		if strings.Contains(lower, keyword) {
			found = append(found, keyword)
		}
	}
	return found
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func normalizeLabel(s string) models.CompetencyLabel {
	switch models.CompetencyLabel(strings.ToLower(strings.TrimSpace(s))) {
	case models.CompetencyWeak:
		return models.CompetencyWeak
	case models.CompetencyStrong:
		return models.CompetencyStrong
	default:
		return models.CompetencyModerate
	}
}
