package scoring

import (
	"strings"

	"github.com/terra-clan/interview-engine/internal/models"
)

// CompetencyScores computes per-competency scores in [0,100] from the
// stored responses. Competencies are scored independently; rubric
// weights are applied separately by WeightedOverall.
func CompetencyScores(analyses []models.Analysis, rubric *models.Rubric, scorer ContextScorer) map[string]float64 {
	scores := make(map[string]float64, len(rubric.Competencies))
	if len(analyses) == 0 {
		for name := range rubric.Competencies {
			scores[name] = 0
		}
		return scores
	}

	for name, competency := range rubric.Competencies {
		total := 0.0
		for _, a := range analyses {
			content := strings.ToLower(a.ResponseText)

			matches := 0
			for _, keyword := range competency.Keywords {
				if strings.Contains(content, strings.ToLower(keyword)) {
					matches++
				}
			}
			keywordScore := float64(matches) / float64(len(competency.Keywords))
			if keywordScore > 1.0 {
				keywordScore = 1.0
			}

			contextScore := scorer.Score(a.ResponseText, competency)
			total += (keywordScore*0.6 + contextScore*0.4) * 100
		}

		avg := total / float64(len(analyses))
		if avg > 100 {
			avg = 100
		}
		scores[name] = avg
	}

	return scores
}

// WeightedOverall combines per-competency scores using the rubric's
// declared weights, for presentation alongside the per-competency
// values. Weights are normalized within this formula only.
func WeightedOverall(scores map[string]float64, rubric *models.Rubric) float64 {
	var weighted, totalWeight float64
	for name, competency := range rubric.Competencies {
		score, ok := scores[name]
		if !ok {
			continue
		}
		weighted += score * competency.Weight
		totalWeight += competency.Weight
	}
	if totalWeight == 0 {
		return 0
	}
	return weighted / totalWeight
}

// BenchmarksFor returns each competency's benchmark for the given
// experience level (junior/mid/senior).
func BenchmarksFor(rubric *models.Rubric, level string) map[string]float64 {
	benchmarks := make(map[string]float64, len(rubric.Competencies))
	for name, competency := range rubric.Competencies {
		if v, ok := competency.Benchmarks[level]; ok {
			benchmarks[name] = v
		}
	}
	return benchmarks
}
