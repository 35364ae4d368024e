package sentiment

import (
	"regexp"
	"strings"
)

var (
	linkPattern    = regexp.MustCompile(`https?://\S+|www\.\S+`)
	mentionPattern = regexp.MustCompile(`[@#]\S+`)
	spacePattern   = regexp.MustCompile(`\s+`)
)

// Normalize prepares a comment for classification: links, mentions and
// hashtags go, whitespace collapses, character runs of 3+ shrink to 2
// ("bangeeetttt" -> "bangeett"), and the result is lowercased. Normalizing
// an already normalized string is a no-op.
func Normalize(text string) string {
	text = linkPattern.ReplaceAllString(text, "")
	text = mentionPattern.ReplaceAllString(text, "")
	text = spacePattern.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	text = collapseRuns(text)
	return strings.ToLower(text)
}

// collapseRuns keeps at most two consecutive occurrences of the same rune.
// RE2 has no backreferences, so the run collapse is a plain scan.
func collapseRuns(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	var prev rune = -1
	run := 0
	for _, r := range s {
		if r == prev {
			run++
		} else {
			prev = r
			run = 1
		}
		if run <= 2 {
			b.WriteRune(r)
		}
	}
	return b.String()
}
