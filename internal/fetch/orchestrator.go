// Package fetch coordinates comment acquisition across scraping backends
// with graceful degradation: the actor-based source first, the web API as
// fallback when volume comes up short.
package fetch

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mzackyaulya/sentikom/internal/models"
)

// ErrNoComments is the user-facing acquisition failure: every source was
// tried and nothing came back.
var ErrNoComments = errors.New("no comments could be fetched")

// Source is a comment backend able to fetch up to max comments for a
// canonical video URL.
type Source interface {
	FetchComments(ctx context.Context, videoURL string, max int) ([]models.RawComment, error)
}

type Orchestrator struct {
	primary  Source
	fallback Source
	target   int
	minCount int
}

// NewOrchestrator wires the two sources. Either may be nil when its
// credentials are missing; the other still runs.
func NewOrchestrator(primary, fallback Source, target, minCount int) *Orchestrator {
	return &Orchestrator{
		primary:  primary,
		fallback: fallback,
		target:   target,
		minCount: minCount,
	}
}

// Fetch produces up to target deduplicated comments. Primary-source
// failures are swallowed and logged; if the yield stays below minCount the
// fallback source is asked twice. An empty final set is ErrNoComments.
func (o *Orchestrator) Fetch(ctx context.Context, videoURL string) ([]models.RawComment, error) {
	var comments []models.RawComment

	if o.primary != nil {
		fetched, err := o.primary.FetchComments(ctx, videoURL, o.target)
		if err != nil {
			slog.Warn("[Orchestrator] Primary source failed, falling back",
				slog.String("error", err.Error()))
		} else {
			comments = MergeDedup(nil, fetched, o.target)
		}
	}

	if len(comments) < o.minCount && o.fallback != nil {
		for attempt := 1; attempt <= 2 && len(comments) < o.minCount; attempt++ {
			more, err := o.fallback.FetchComments(ctx, videoURL, o.target)
			if err != nil {
				slog.Warn("[Orchestrator] Fallback source failed",
					slog.Int("attempt", attempt),
					slog.String("error", err.Error()))
				break
			}
			comments = MergeDedup(comments, more, o.target)
		}
	}

	if len(comments) == 0 {
		return nil, ErrNoComments
	}

	slog.Info("[Orchestrator] Comments acquired",
		slog.Int("count", len(comments)),
		slog.Int("target", o.target))
	return comments, nil
}

// MergeDedup concatenates two comment lists, trims each text, drops empty
// and previously seen texts, keeps insertion order, and caps the result at
// limit.
func MergeDedup(a, b []models.RawComment, limit int) []models.RawComment {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]models.RawComment, 0, min(limit, len(a)+len(b)))

	for _, list := range [2][]models.RawComment{a, b} {
		for _, c := range list {
			text := strings.TrimSpace(c.Text)
			if text == "" {
				continue
			}
			if _, dup := seen[text]; dup {
				continue
			}
			seen[text] = struct{}{}
			out = append(out, models.RawComment{Text: text})
			if len(out) >= limit {
				return out
			}
		}
	}
	return out
}
