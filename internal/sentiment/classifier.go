package sentiment

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mzackyaulya/sentikom/config"
	"github.com/mzackyaulya/sentikom/internal/models"
)

// InferenceAPI is the transport the remote classifier talks through.
type InferenceAPI interface {
	HasToken() bool
	ClassifyBatch(ctx context.Context, texts []string) (int, []byte, error)
}

// RemoteClassifier labels comments through a hosted inference model,
// degrading to neutral instead of failing: a batch that exhausts its
// retries, an unrecognized label scheme, or a sub-threshold confidence all
// end up neutral.
type RemoteClassifier struct {
	api        InferenceAPI
	batchSize  int
	truncateAt int
	attempts   int
	retryPause time.Duration
	floor      float64
}

func NewRemoteClassifier(api InferenceAPI, cfg *config.Config) *RemoteClassifier {
	return &RemoteClassifier{
		api:        api,
		batchSize:  cfg.Sentiment.BatchSize,
		truncateAt: cfg.Sentiment.TruncateAt,
		attempts:   cfg.Sentiment.RetryAttempts,
		retryPause: cfg.Sentiment.RetryPause,
		floor:      cfg.Sentiment.ConfidenceFloor,
	}
}

// ClassifyMany labels every text, batch by batch, sequentially. Output
// order matches input order and every label is one of the three sentiment
// values.
func (rc *RemoteClassifier) ClassifyMany(ctx context.Context, texts []string) []models.LabeledComment {
	out := make([]models.LabeledComment, 0, len(texts))

	if !rc.api.HasToken() {
		for _, t := range texts {
			out = append(out, models.LabeledComment{Text: t, Sentiment: models.SentimentNeutral})
		}
		return out
	}

	for start := 0; start < len(texts); start += rc.batchSize {
		end := min(start+rc.batchSize, len(texts))
		out = append(out, rc.classifyBatch(ctx, texts[start:end])...)
	}
	return out
}

func (rc *RemoteClassifier) classifyBatch(ctx context.Context, texts []string) []models.LabeledComment {
	payload := make([]string, len(texts))
	for i, t := range texts {
		payload[i] = truncateRunes(t, rc.truncateAt)
	}

	preds := rc.requestWithRetry(ctx, payload)

	out := make([]models.LabeledComment, len(texts))
	for i, t := range texts {
		var cands []models.SentimentCandidate
		if i < len(preds) {
			cands = preds[i]
		}
		label, score := rc.pickLabel(cands)
		out[i] = models.LabeledComment{Text: t, Sentiment: label, Score: score}
	}
	return out
}

// requestWithRetry posts one batch, retrying on 503 or a body-level
// warming-up error. nil means the batch goes neutral.
func (rc *RemoteClassifier) requestWithRetry(ctx context.Context, payload []string) [][]models.SentimentCandidate {
	for attempt := 1; attempt <= rc.attempts; attempt++ {
		status, body, err := rc.api.ClassifyBatch(ctx, payload)
		if err != nil {
			slog.Warn("[RemoteClassifier] Inference request failed",
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
			time.Sleep(rc.retryPause)
			continue
		}

		if status == http.StatusServiceUnavailable {
			slog.Warn("[RemoteClassifier] Model unavailable (503)",
				slog.Int("attempt", attempt))
			time.Sleep(rc.retryPause)
			continue
		}

		// The API sometimes answers 200 with {"error": "Model ... loading"}.
		var apiErr models.SentimentInferenceError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			slog.Warn("[RemoteClassifier] Model still loading",
				slog.Int("attempt", attempt),
				slog.String("error", apiErr.Error))
			time.Sleep(rc.retryPause)
			continue
		}

		var preds [][]models.SentimentCandidate
		if err := json.Unmarshal(body, &preds); err != nil {
			slog.Warn("[RemoteClassifier] Unexpected inference response shape",
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
			return nil
		}
		return preds
	}

	slog.Warn("[RemoteClassifier] Retries exhausted, batch goes neutral",
		slog.Int("batch_size", len(payload)))
	return nil
}

// pickLabel sorts a candidate list by score, normalizes the top label and
// applies the confidence floor.
func (rc *RemoteClassifier) pickLabel(cands []models.SentimentCandidate) (string, float64) {
	if len(cands) == 0 {
		return models.SentimentNeutral, 0
	}

	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Score > cands[j].Score
	})
	top := cands[0]

	label := normalizeLabel(top.Label)
	if !knownSentiment(label) {
		label = inferFromCandidateSet(cands)
	}
	if top.Score < rc.floor {
		label = models.SentimentNeutral
	}
	return label, top.Score
}

// normalizeLabel maps the common model label schemes onto the three
// sentiment values. LABEL_0/1/2 follows the usual negative/neutral/positive
// ordering.
func normalizeLabel(raw string) string {
	switch strings.ToLower(raw) {
	case "label_0", "neg", "negative":
		return models.SentimentNegative
	case "label_1", "neu", "neutral":
		return models.SentimentNeutral
	case "label_2", "pos", "positive":
		return models.SentimentPositive
	}
	return strings.ToLower(raw)
}

// inferFromCandidateSet handles models whose top label is unrecognized but
// whose candidate set still carries LABEL_0/1/2 entries.
func inferFromCandidateSet(cands []models.SentimentCandidate) string {
	present := make(map[string]bool, len(cands))
	for _, c := range cands {
		present[strings.ToLower(c.Label)] = true
	}
	switch {
	case present["label_2"]:
		return models.SentimentPositive
	case present["label_1"]:
		return models.SentimentNeutral
	case present["label_0"]:
		return models.SentimentNegative
	}
	return models.SentimentNeutral
}

func knownSentiment(label string) bool {
	switch label {
	case models.SentimentPositive, models.SentimentNeutral, models.SentimentNegative:
		return true
	}
	return false
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
