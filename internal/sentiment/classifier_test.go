package sentiment

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mzackyaulya/sentikom/config"
	"github.com/mzackyaulya/sentikom/internal/models"
)

type fakeInferenceAPI struct {
	hasToken  bool
	responses []fakeResponse
	calls     int
}

type fakeResponse struct {
	status int
	body   string
}

func (f *fakeInferenceAPI) HasToken() bool { return f.hasToken }

func (f *fakeInferenceAPI) ClassifyBatch(_ context.Context, _ []string) (int, []byte, error) {
	f.calls++
	resp := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return resp.status, []byte(resp.body), nil
}

func classifierConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Sentiment.BatchSize = 16
	cfg.Sentiment.TruncateAt = 300
	cfg.Sentiment.RetryAttempts = 4
	cfg.Sentiment.RetryPause = time.Millisecond
	cfg.Sentiment.ConfidenceFloor = 0.55
	return cfg
}

func candidateBody(t *testing.T, perItem ...[]models.SentimentCandidate) string {
	t.Helper()
	b, err := json.Marshal(perItem)
	require.NoError(t, err)
	return string(b)
}

func TestClassifyManyWithoutToken(t *testing.T) {
	api := &fakeInferenceAPI{hasToken: false}
	rc := NewRemoteClassifier(api, classifierConfig())

	got := rc.ClassifyMany(context.Background(), []string{"satu", "dua"})
	require.Len(t, got, 2)
	for _, c := range got {
		assert.Equal(t, models.SentimentNeutral, c.Sentiment)
	}
	assert.Zero(t, api.calls, "no network call without a credential")
}

func TestClassifyManyNormalizesLabels(t *testing.T) {
	api := &fakeInferenceAPI{
		hasToken: true,
		responses: []fakeResponse{{
			status: http.StatusOK,
			body: candidateBody(t,
				[]models.SentimentCandidate{{Label: "LABEL_2", Score: 0.91}, {Label: "LABEL_0", Score: 0.05}},
				[]models.SentimentCandidate{{Label: "neg", Score: 0.88}},
				[]models.SentimentCandidate{{Label: "LABEL_1", Score: 0.73}},
				// Candidates out of score order: top must win after sorting.
				[]models.SentimentCandidate{{Label: "LABEL_0", Score: 0.21}, {Label: "pos", Score: 0.79}},
			),
		}},
	}
	rc := NewRemoteClassifier(api, classifierConfig())

	got := rc.ClassifyMany(context.Background(), []string{"a1", "b2", "c3", "d4"})
	require.Len(t, got, 4)
	assert.Equal(t, models.SentimentPositive, got[0].Sentiment)
	assert.Equal(t, models.SentimentNegative, got[1].Sentiment)
	assert.Equal(t, models.SentimentNeutral, got[2].Sentiment)
	assert.Equal(t, models.SentimentPositive, got[3].Sentiment)
	assert.InDelta(t, 0.91, got[0].Score, 1e-9)
}

func TestClassifyManyConfidenceFloor(t *testing.T) {
	api := &fakeInferenceAPI{
		hasToken: true,
		responses: []fakeResponse{{
			status: http.StatusOK,
			body: candidateBody(t,
				[]models.SentimentCandidate{{Label: "LABEL_2", Score: 0.54}},
				[]models.SentimentCandidate{{Label: "LABEL_0", Score: 0.55}},
			),
		}},
	}
	rc := NewRemoteClassifier(api, classifierConfig())

	got := rc.ClassifyMany(context.Background(), []string{"ragu", "yakin"})
	require.Len(t, got, 2)
	assert.Equal(t, models.SentimentNeutral, got[0].Sentiment, "below floor goes neutral")
	assert.Equal(t, models.SentimentNegative, got[1].Sentiment, "at floor keeps its label")
}

func TestClassifyManyUnknownLabelFallsBackToCandidateScan(t *testing.T) {
	api := &fakeInferenceAPI{
		hasToken: true,
		responses: []fakeResponse{{
			status: http.StatusOK,
			body: candidateBody(t,
				[]models.SentimentCandidate{{Label: "very_happy", Score: 0.9}, {Label: "LABEL_1", Score: 0.1}},
				[]models.SentimentCandidate{{Label: "mystery", Score: 0.9}},
			),
		}},
	}
	rc := NewRemoteClassifier(api, classifierConfig())

	got := rc.ClassifyMany(context.Background(), []string{"a", "b"})
	assert.Equal(t, models.SentimentNeutral, got[0].Sentiment, "label_1 in the candidate set")
	assert.Equal(t, models.SentimentNeutral, got[1].Sentiment, "nothing recognizable defaults neutral")
}

func TestClassifyManyRetriesThenNeutral(t *testing.T) {
	api := &fakeInferenceAPI{
		hasToken:  true,
		responses: []fakeResponse{{status: http.StatusServiceUnavailable, body: ""}},
	}
	rc := NewRemoteClassifier(api, classifierConfig())

	got := rc.ClassifyMany(context.Background(), []string{"satu", "dua", "tiga"})
	require.Len(t, got, 3)
	for _, c := range got {
		assert.Equal(t, models.SentimentNeutral, c.Sentiment)
	}
	assert.Equal(t, 4, api.calls, "four attempts before giving up")
}

func TestClassifyManyRecoversFromWarmup(t *testing.T) {
	ok := candidateBody(t, []models.SentimentCandidate{{Label: "LABEL_2", Score: 0.9}})
	api := &fakeInferenceAPI{
		hasToken: true,
		responses: []fakeResponse{
			{status: http.StatusOK, body: `{"error":"Model w11wo/... is currently loading"}`},
			{status: http.StatusServiceUnavailable, body: ""},
			{status: http.StatusOK, body: ok},
		},
	}
	rc := NewRemoteClassifier(api, classifierConfig())

	got := rc.ClassifyMany(context.Background(), []string{"bagus"})
	require.Len(t, got, 1)
	assert.Equal(t, models.SentimentPositive, got[0].Sentiment)
	assert.Equal(t, 3, api.calls)
}

func TestClassifyManyBatches(t *testing.T) {
	cfg := classifierConfig()
	cfg.Sentiment.BatchSize = 2

	ok := candidateBody(t,
		[]models.SentimentCandidate{{Label: "LABEL_1", Score: 0.9}},
		[]models.SentimentCandidate{{Label: "LABEL_1", Score: 0.9}},
	)
	api := &fakeInferenceAPI{hasToken: true, responses: []fakeResponse{{status: http.StatusOK, body: ok}}}
	rc := NewRemoteClassifier(api, cfg)

	got := rc.ClassifyMany(context.Background(), []string{"a", "b", "c", "d", "e"})
	assert.Len(t, got, 5)
	assert.Equal(t, 3, api.calls, "five texts at batch size two")
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", truncateRunes("abc", 300))
	assert.Equal(t, "ab", truncateRunes("abcd", 2))
	assert.Equal(t, "😂😂", truncateRunes("😂😂😂😂", 2), "truncation counts runes, not bytes")
}

func TestLabelSetClosed(t *testing.T) {
	raws := []string{"LABEL_0", "LABEL_1", "LABEL_2", "pos", "neg", "neu", "positive", "negative", "neutral", "garbage"}
	api := &fakeInferenceAPI{hasToken: true}
	rc := NewRemoteClassifier(api, classifierConfig())

	for _, raw := range raws {
		label, _ := rc.pickLabel([]models.SentimentCandidate{{Label: raw, Score: 0.99}})
		assert.Contains(t,
			[]string{models.SentimentPositive, models.SentimentNeutral, models.SentimentNegative},
			label, "raw label %q", raw)
	}
}
