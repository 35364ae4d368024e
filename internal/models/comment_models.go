package models

import "time"

const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// RawComment is a single comment text as delivered by a comment source.
// Text is trimmed and non-empty; dedup key is the exact text.
type RawComment struct {
	Text string `json:"text"`
}

// LabeledComment is a classified comment. Heuristic hits carry the fixed
// score 0.99, a "high confidence, non-model" sentinel rather than a
// probability.
type LabeledComment struct {
	Text      string  `json:"text"`
	Sentiment string  `json:"sentiment"`
	Score     float64 `json:"score,omitempty"`
}

// AggregateCounts is a derived view over a labeled collection. The three
// fields always sum to the collection size.
type AggregateCounts struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

func (c AggregateCounts) Total() int {
	return c.Positive + c.Neutral + c.Negative
}

// AnalysisResult is the outcome of one full analysis run, held in the
// result cache until the next run overwrites it or the TTL expires.
type AnalysisResult struct {
	VideoURL  string           `json:"video_url"`
	Comments  []LabeledComment `json:"comments"`
	Counts    AggregateCounts  `json:"counts"`
	CreatedAt time.Time        `json:"created_at"`
}
