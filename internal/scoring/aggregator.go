package scoring

import (
	"errors"
	"math"
	"sort"

	"github.com/terra-clan/interview-engine/internal/models"
)

// ErrNoResponses is returned when there is nothing to aggregate.
var ErrNoResponses = errors.New("no responses to summarize")

// Summarize combines a session's accumulated analyses into the
// rubric-independent summary. The overall score formula is a contract:
// sentiment weighs 30%, STAR completeness 40%, competency breadth up to
// 30%, capped at 100.
func Summarize(analyses []models.Analysis) (*models.Summary, error) {
	if len(analyses) == 0 {
		return nil, ErrNoResponses
	}

	var totalSentiment, totalStar float64
	totalKeywords := 0
	unique := make(map[string]bool)

	for _, a := range analyses {
		totalSentiment += a.Sentiment.Score
		totalStar += a.StarCompleteness
		totalKeywords += len(a.Keywords)
		for _, kw := range a.Keywords {
			unique[kw] = true
		}
	}

	n := float64(len(analyses))
	avgSentiment := totalSentiment / n
	avgStar := totalStar / n

	uniqueList := make([]string, 0, len(unique))
	for kw := range unique {
		uniqueList = append(uniqueList, kw)
	}
	sort.Strings(uniqueList)

	summary := &models.Summary{
		ResponsesCount:     len(analyses),
		AverageSentiment:   avgSentiment,
		SentimentCategory:  models.ClassifySentiment(avgSentiment),
		TotalKeywords:      totalKeywords,
		UniqueCompetencies: uniqueList,
		StarCompleteness:   avgStar,
		OverallScore:       OverallScore(avgSentiment, avgStar, len(unique)),
	}
	summary.Strengths = identifyStrengths(analyses)
	summary.ImprovementAreas = identifyImprovements(analyses, avgStar, len(unique))

	return summary, nil
}

// OverallScore computes the bounded [0,100] session score:
// min(100, round((avg_sentiment+1)*30 + avg_star*40 + min(unique*5, 30))).
func OverallScore(avgSentiment, avgStar float64, uniqueCompetencies int) int {
	breadth := math.Min(float64(uniqueCompetencies)*5, 30)
	score := math.Round((avgSentiment+1)*30 + avgStar*40 + breadth)
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return int(score)
}

// identifyStrengths applies the fixed-priority strength heuristics,
// capped at three entries.
func identifyStrengths(analyses []models.Analysis) []string {
	strengths := make([]string, 0, 3)

	highSentiment := 0
	for _, a := range analyses {
		if a.Sentiment.Score > 0.3 {
			highSentiment++
		}
	}
	if highSentiment >= 2 {
		strengths = append(strengths, "Demonstrates positive attitude and confidence")
	}

	counts := make(map[string]int)
	for _, a := range analyses {
		for _, kw := range a.Keywords {
			counts[kw]++
		}
	}
	frequent := func(kw string) bool { return counts[kw] >= 2 }

	if frequent("leadership") {
		strengths = append(strengths, "Shows consistent leadership experience")
	}
	if frequent("problem") && frequent("solution") {
		strengths = append(strengths, "Strong problem-solving orientation")
	}
	if frequent("team") || frequent("collaboration") {
		strengths = append(strengths, "Excellent teamwork and collaboration skills")
	}

	if len(strengths) > 3 {
		strengths = strengths[:3]
	}
	return strengths
}

// identifyImprovements applies the fixed-priority improvement
// heuristics, capped at three entries.
func identifyImprovements(analyses []models.Analysis, avgStar float64, uniqueCompetencies int) []string {
	improvements := make([]string, 0, 3)

	if avgStar < 0.6 {
		improvements = append(improvements, "Practice using the STAR method more completely in responses")
	}

	totalWords := 0
	for _, a := range analyses {
		totalWords += a.WordCount
	}
	avgWords := float64(totalWords) / float64(len(analyses))
	if avgWords < 50 {
		improvements = append(improvements, "Provide more detailed examples and context in responses")
	} else if avgWords > 200 {
		improvements = append(improvements, "Focus on being more concise while maintaining key details")
	}

	if uniqueCompetencies < 5 {
		improvements = append(improvements, "Demonstrate a broader range of competencies and skills")
	}

	if len(improvements) > 3 {
		improvements = improvements[:3]
	}
	return improvements
}
