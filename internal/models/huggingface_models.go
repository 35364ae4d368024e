package models

type SentimentInferenceRequest struct {
	Inputs  []string                  `json:"inputs"`
	Options SentimentInferenceOptions `json:"options"`
}

type SentimentInferenceOptions struct {
	WaitForModel bool `json:"wait_for_model"`
	UseCache     bool `json:"use_cache"`
}

// SentimentCandidate is one (label, score) pair of a model's per-input
// candidate list.
type SentimentCandidate struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// SentimentInferenceError is the body-level error the inference API returns
// while a model is still warming up, sometimes with HTTP 200.
type SentimentInferenceError struct {
	Error string `json:"error"`
}
