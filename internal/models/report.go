package models

import "time"

// Summary aggregates a session's analyses, independent of any rubric.
type Summary struct {
	ResponsesCount     int            `json:"responses_count"`
	AverageSentiment   float64        `json:"average_sentiment"`
	SentimentCategory  SentimentLabel `json:"sentiment_category"`
	TotalKeywords      int            `json:"total_keywords"`
	UniqueCompetencies []string       `json:"unique_competencies"`
	StarCompleteness   float64        `json:"star_completeness"`
	OverallScore       int            `json:"overall_score"`
	Strengths          []string       `json:"strengths"`
	ImprovementAreas   []string       `json:"improvement_areas"`
}

// Report is the terminal artifact produced exactly once at session end.
type Report struct {
	SessionID        string             `json:"session_id"`
	Role             string             `json:"role"`
	Difficulty       string             `json:"difficulty"`
	Summary          Summary            `json:"summary"`
	CompetencyScores map[string]float64 `json:"competency_scores,omitempty"`
	WeightedScore    float64            `json:"weighted_score,omitempty"`
	Benchmarks       map[string]float64 `json:"benchmarks,omitempty"`
	GeneratedAt      time.Time          `json:"generated_at"`
}
