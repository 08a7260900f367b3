package models

import "time"

// SentimentLabel is the three-way classification of a sentiment score
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
)

// ClassifySentiment maps a polarity score in [-1,1] onto its label.
// Thresholds are +/-0.1.
func ClassifySentiment(score float64) SentimentLabel {
	switch {
	case score > 0.1:
		return SentimentPositive
	case score < -0.1:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// CompetencyLabel is the qualitative competency-demonstration grade
type CompetencyLabel string

const (
	CompetencyWeak     CompetencyLabel = "weak"
	CompetencyModerate CompetencyLabel = "moderate"
	CompetencyStrong   CompetencyLabel = "strong"
)

// Sentiment holds a polarity score and its classification
type Sentiment struct {
	Score float64        `json:"score"`
	Label SentimentLabel `json:"label"`
}

// Analysis is the structured result of analyzing exactly one candidate
// response. Analyses are append-only per session, ordered by arrival.
type Analysis struct {
	QuestionID       int             `json:"question_id"`
	ResponseText     string          `json:"response_text"`
	Sentiment        Sentiment       `json:"sentiment"`
	Keywords         []string        `json:"keywords"`
	WordCount        int             `json:"word_count"`
	StarCompleteness float64         `json:"star_completeness"`
	CompetencyLabel  CompetencyLabel `json:"competency_label"`
	Insights         []string        `json:"insights,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}
