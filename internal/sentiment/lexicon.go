package sentiment

import (
	"strings"

	"github.com/jonreiter/govader"

	"github.com/mzackyaulya/sentikom/config"
	"github.com/mzackyaulya/sentikom/internal/models"
)

// Keyword/emoji lexicons over Indonesian slang. Positive is checked first;
// first substring match wins.
var (
	positiveLexicon = []string{
		"😂", "🤣", "😊", "😍", "😆", "😄",
		"mantap", "keren", "nice", "bagus", "the best", "suka", "terbaik",
		"wkwk", "wk wk", "lol", "hehe", "mantul", "gaskeun", "solid",
	}
	negativeLexicon = []string{
		"😡", "🤬", "😠", "😤",
		"anjir", "anjing", "goblok", "jelek", "parah", "buruk", "lebay",
		"benci", "menipu", "scam", "rip", "payah", "cape", "capek", "kecewa",
	}

	// Emoji strong enough to rescue an otherwise too-short comment from the
	// noise filter.
	strongEmoji = []string{"😂", "🤣", "😡", "🤬"}
)

// Lexicon classifies normalized comments without remote inference. An
// optional VADER pass covers English comments the Indonesian lexicon
// misses; it is off by default and gated behind a compound-score threshold
// so it can never override a lexicon hit.
type Lexicon struct {
	useVader       bool
	vaderThreshold float64
	analyzer       *govader.SentimentIntensityAnalyzer
}

func NewLexicon(cfg *config.Config) *Lexicon {
	l := &Lexicon{
		useVader:       cfg.Sentiment.UseVader,
		vaderThreshold: cfg.Sentiment.VaderThreshold,
	}
	if l.useVader {
		l.analyzer = govader.NewSentimentIntensityAnalyzer()
	}
	return l
}

// IsNoise reports whether a normalized comment is too thin to classify:
// fewer than three ASCII letters and no strong emoji signal.
func (l *Lexicon) IsNoise(text string) bool {
	letters := 0
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			letters++
			if letters >= 3 {
				return false
			}
		}
	}
	for _, e := range strongEmoji {
		if strings.Contains(text, e) {
			return false
		}
	}
	return true
}

// Label returns the lexicon sentiment for a normalized text, or ok=false
// when the comment should go to the remote classifier instead.
func (l *Lexicon) Label(text string) (string, bool) {
	for _, p := range positiveLexicon {
		if strings.Contains(text, p) {
			return models.SentimentPositive, true
		}
	}
	for _, n := range negativeLexicon {
		if strings.Contains(text, n) {
			return models.SentimentNegative, true
		}
	}

	if l.useVader {
		scores := l.analyzer.PolarityScores(text)
		switch {
		case scores.Compound >= l.vaderThreshold:
			return models.SentimentPositive, true
		case scores.Compound <= -l.vaderThreshold:
			return models.SentimentNegative, true
		}
	}

	return "", false
}
