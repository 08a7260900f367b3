package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/interview-engine/internal/models"
)

func makeAnalysis(sentiment, star float64, keywords []string, words int) models.Analysis {
	return models.Analysis{
		Sentiment:        models.Sentiment{Score: sentiment, Label: models.ClassifySentiment(sentiment)},
		StarCompleteness: star,
		Keywords:         keywords,
		WordCount:        words,
		ResponseText:     strings.Repeat("word ", words),
	}
}

func TestSummarize_Empty(t *testing.T) {
	_, err := Summarize(nil)
	assert.ErrorIs(t, err, ErrNoResponses)

	_, err = Summarize([]models.Analysis{})
	assert.ErrorIs(t, err, ErrNoResponses)
}

func TestSummarize_Averages(t *testing.T) {
	analyses := []models.Analysis{
		makeAnalysis(0.4, 0.8, []string{"team", "solution"}, 80),
		makeAnalysis(0.2, 0.6, []string{"team", "problem"}, 90),
		makeAnalysis(-0.2, 0.5, []string{"deadline"}, 70),
	}

	summary, err := Summarize(analyses)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.ResponsesCount)
	assert.InDelta(t, 0.1333, summary.AverageSentiment, 0.001)
	assert.Equal(t, models.SentimentPositive, summary.SentimentCategory)
	assert.Equal(t, 5, summary.TotalKeywords)
	assert.Equal(t, []string{"deadline", "problem", "solution", "team"}, summary.UniqueCompetencies)
	assert.InDelta(t, 0.6333, summary.StarCompleteness, 0.001)

	// round((0.1333+1)*30 + 0.6333*40 + min(4*5,30)) = round(34.0 + 25.33 + 20) = 79
	assert.Equal(t, 79, summary.OverallScore)
}

func TestOverallScore_SaturatesAt100(t *testing.T) {
	assert.Equal(t, 100, OverallScore(1.0, 1.0, 10))
	assert.Equal(t, 100, OverallScore(0.9, 1.0, 6))
}

func TestOverallScore_FloorAtZero(t *testing.T) {
	assert.Equal(t, 0, OverallScore(-1.0, 0, 0))
}

func TestOverallScore_BreadthCapsAt30(t *testing.T) {
	// 6 unique competencies already reach the cap.
	six := OverallScore(0, 0, 6)
	twenty := OverallScore(0, 0, 20)
	assert.Equal(t, six, twenty)
	assert.Equal(t, 60, six) // (0+1)*30 + 0 + 30
}

func TestIdentifyStrengths_PriorityAndCap(t *testing.T) {
	analyses := []models.Analysis{
		makeAnalysis(0.5, 0.8, []string{"leadership", "problem", "solution", "team"}, 100),
		makeAnalysis(0.6, 0.8, []string{"leadership", "problem", "solution", "collaboration"}, 100),
	}

	summary, err := Summarize(analyses)
	require.NoError(t, err)

	// All four heuristics fire; the list is capped at three in priority order.
	require.Len(t, summary.Strengths, 3)
	assert.Equal(t, "Demonstrates positive attitude and confidence", summary.Strengths[0])
	assert.Equal(t, "Shows consistent leadership experience", summary.Strengths[1])
	assert.Equal(t, "Strong problem-solving orientation", summary.Strengths[2])
}

func TestIdentifyStrengths_NoneFire(t *testing.T) {
	analyses := []models.Analysis{
		makeAnalysis(0.0, 0.8, []string{"deadline"}, 100),
	}

	summary, err := Summarize(analyses)
	require.NoError(t, err)
	assert.Empty(t, summary.Strengths)
}

func TestIdentifyImprovements_ShortAnswers(t *testing.T) {
	analyses := []models.Analysis{
		makeAnalysis(0.2, 0.3, []string{"team"}, 20),
		makeAnalysis(0.2, 0.4, []string{"team"}, 30),
	}

	summary, err := Summarize(analyses)
	require.NoError(t, err)

	require.Len(t, summary.ImprovementAreas, 3)
	assert.Equal(t, "Practice using the STAR method more completely in responses", summary.ImprovementAreas[0])
	assert.Equal(t, "Provide more detailed examples and context in responses", summary.ImprovementAreas[1])
	assert.Equal(t, "Demonstrate a broader range of competencies and skills", summary.ImprovementAreas[2])
}

func TestIdentifyImprovements_VerboseAnswers(t *testing.T) {
	keywords := []string{"team", "solution", "problem", "deadline", "quality"}
	analyses := []models.Analysis{
		makeAnalysis(0.2, 0.9, keywords, 250),
		makeAnalysis(0.2, 0.9, keywords, 260),
	}

	summary, err := Summarize(analyses)
	require.NoError(t, err)

	assert.Equal(t, []string{"Focus on being more concise while maintaining key details"}, summary.ImprovementAreas)
}
