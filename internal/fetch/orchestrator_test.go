package fetch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mzackyaulya/sentikom/internal/models"
)

type stubSource struct {
	batches [][]models.RawComment
	err     error
	calls   int
}

func (s *stubSource) FetchComments(_ context.Context, _ string, _ int) ([]models.RawComment, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if len(s.batches) == 0 {
		return nil, nil
	}
	batch := s.batches[0]
	if len(s.batches) > 1 {
		s.batches = s.batches[1:]
	}
	return batch, nil
}

func comments(prefix string, n int) []models.RawComment {
	out := make([]models.RawComment, n)
	for i := range out {
		out[i] = models.RawComment{Text: fmt.Sprintf("%s %d", prefix, i)}
	}
	return out
}

func TestMergeDedup(t *testing.T) {
	tests := []struct {
		name  string
		a, b  []models.RawComment
		limit int
		want  []string
	}{
		{
			name:  "dedups exact text preserving order",
			a:     []models.RawComment{{Text: "satu"}, {Text: "dua"}},
			b:     []models.RawComment{{Text: "dua"}, {Text: "tiga"}},
			limit: 10,
			want:  []string{"satu", "dua", "tiga"},
		},
		{
			name:  "trims and drops empties",
			a:     []models.RawComment{{Text: "  satu  "}, {Text: "   "}, {Text: ""}},
			b:     []models.RawComment{{Text: "satu"}},
			limit: 10,
			want:  []string{"satu"},
		},
		{
			name:  "caps at limit",
			a:     comments("a", 5),
			b:     comments("b", 5),
			limit: 7,
			want:  []string{"a 0", "a 1", "a 2", "a 3", "a 4", "b 0", "b 1"},
		},
		{
			name:  "both empty",
			limit: 5,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeDedup(tt.a, tt.b, tt.limit)
			texts := make([]string, len(got))
			for i, c := range got {
				texts[i] = c.Text
			}
			assert.Equal(t, tt.want, texts)
			assert.LessOrEqual(t, len(got), tt.limit)

			seen := map[string]bool{}
			for _, c := range got {
				assert.False(t, seen[c.Text], "duplicate text %q", c.Text)
				seen[c.Text] = true
			}
		})
	}
}

func TestFetchPrimarySufficient(t *testing.T) {
	primary := &stubSource{batches: [][]models.RawComment{comments("apify", 400)}}
	fallback := &stubSource{}

	o := NewOrchestrator(primary, fallback, 1200, 300)
	got, err := o.Fetch(context.Background(), "https://www.tiktok.com/@a/video/1")
	require.NoError(t, err)
	assert.Len(t, got, 400)
	assert.Zero(t, fallback.calls, "fallback must not run when primary yields enough")
}

func TestFetchPrimaryFailsFallbackMerges(t *testing.T) {
	// Primary throws; fallback returns 250 uniques twice with full overlap:
	// still under 300 distinct, so both fallback attempts run.
	primary := &stubSource{err: errors.New("actor blocked")}
	fallback := &stubSource{batches: [][]models.RawComment{
		comments("web", 250),
		comments("web", 250),
	}}

	o := NewOrchestrator(primary, fallback, 1200, 300)
	got, err := o.Fetch(context.Background(), "https://www.tiktok.com/@a/video/1")
	require.NoError(t, err)
	assert.Len(t, got, 250, "overlapping batches dedup to the distinct set")
	assert.Equal(t, 2, fallback.calls)
}

func TestFetchNoThirdAttemptOnceAboveMinimum(t *testing.T) {
	primary := &stubSource{err: errors.New("actor blocked")}
	fallback := &stubSource{batches: [][]models.RawComment{
		comments("web", 350),
	}}

	o := NewOrchestrator(primary, fallback, 1200, 300)
	got, err := o.Fetch(context.Background(), "https://www.tiktok.com/@a/video/1")
	require.NoError(t, err)
	assert.Len(t, got, 350)
	assert.Equal(t, 1, fallback.calls)
}

func TestFetchMergesLowPrimaryWithFallback(t *testing.T) {
	shared := comments("mix", 50)
	primary := &stubSource{batches: [][]models.RawComment{shared}}
	fallback := &stubSource{batches: [][]models.RawComment{
		append(comments("web", 300), shared...),
	}}

	o := NewOrchestrator(primary, fallback, 1200, 300)
	got, err := o.Fetch(context.Background(), "https://www.tiktok.com/@a/video/1")
	require.NoError(t, err)
	assert.Len(t, got, 350)
	assert.Equal(t, "mix 0", got[0].Text, "primary comments keep their position")
}

func TestFetchCapsAtTarget(t *testing.T) {
	primary := &stubSource{batches: [][]models.RawComment{comments("apify", 2000)}}

	o := NewOrchestrator(primary, nil, 1200, 300)
	got, err := o.Fetch(context.Background(), "https://www.tiktok.com/@a/video/1")
	require.NoError(t, err)
	assert.Len(t, got, 1200)
}

func TestFetchAllSourcesEmpty(t *testing.T) {
	primary := &stubSource{err: errors.New("actor blocked")}
	fallback := &stubSource{err: errors.New("cookie expired")}

	o := NewOrchestrator(primary, fallback, 1200, 300)
	_, err := o.Fetch(context.Background(), "https://www.tiktok.com/@a/video/1")
	assert.ErrorIs(t, err, ErrNoComments)
}

func TestFetchNilSources(t *testing.T) {
	o := NewOrchestrator(nil, nil, 1200, 300)
	_, err := o.Fetch(context.Background(), "https://www.tiktok.com/@a/video/1")
	assert.ErrorIs(t, err, ErrNoComments)
}
