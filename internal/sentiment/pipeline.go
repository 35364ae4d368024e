package sentiment

import (
	"context"
	"log/slog"
	"time"

	"github.com/mzackyaulya/sentikom/internal/models"
)

// Score assigned to lexicon hits: a "classified without the model"
// sentinel, not a probability.
const heuristicScore = 0.99

// Pipeline composes normalization, the noise filter, the lexicon heuristic
// and the remote classifier into the final labeled collection.
type Pipeline struct {
	lexicon *Lexicon
	remote  *RemoteClassifier
}

func NewPipeline(lexicon *Lexicon, remote *RemoteClassifier) *Pipeline {
	return &Pipeline{lexicon: lexicon, remote: remote}
}

// Classify labels a raw comment batch. Heuristic hits come first in the
// output, then the remote-classified remainder; relative order within each
// group is preserved.
func (p *Pipeline) Classify(ctx context.Context, comments []models.RawComment) []models.LabeledComment {
	labeled := make([]models.LabeledComment, 0, len(comments))
	var needModel []string

	dropped := 0
	for _, c := range comments {
		text := Normalize(c.Text)
		if p.lexicon.IsNoise(text) {
			dropped++
			continue
		}

		if label, ok := p.lexicon.Label(text); ok {
			labeled = append(labeled, models.LabeledComment{
				Text:      text,
				Sentiment: label,
				Score:     heuristicScore,
			})
			continue
		}
		needModel = append(needModel, text)
	}

	heuristicHits := len(labeled)
	if len(needModel) > 0 {
		labeled = append(labeled, p.remote.ClassifyMany(ctx, needModel)...)
	}

	slog.Info("[Pipeline] Classification finished",
		slog.Int("input", len(comments)),
		slog.Int("noise_dropped", dropped),
		slog.Int("heuristic_hits", heuristicHits),
		slog.Int("model_classified", len(needModel)))
	return labeled
}

// CountLabels derives the aggregate view. The three counts always sum to
// len(comments).
func CountLabels(comments []models.LabeledComment) models.AggregateCounts {
	var counts models.AggregateCounts
	for _, c := range comments {
		switch c.Sentiment {
		case models.SentimentPositive:
			counts.Positive++
		case models.SentimentNegative:
			counts.Negative++
		default:
			counts.Neutral++
		}
	}
	return counts
}

// BuildResult assembles the cacheable outcome of one analysis run.
func BuildResult(videoURL string, comments []models.LabeledComment) models.AnalysisResult {
	return models.AnalysisResult{
		VideoURL:  videoURL,
		Comments:  comments,
		Counts:    CountLabels(comments),
		CreatedAt: time.Now(),
	}
}
