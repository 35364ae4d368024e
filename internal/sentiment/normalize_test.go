package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "strips links",
			input: "cek https://example.com/promo sekarang",
			want:  "cek sekarang",
		},
		{
			name:  "strips www links",
			input: "kunjungi www.example.com ya",
			want:  "kunjungi ya",
		},
		{
			name:  "strips mentions and hashtags",
			input: "@user123 keren banget #fyp #viral",
			want:  "keren banget",
		},
		{
			name:  "collapses whitespace and trims",
			input: "  halo \t dunia  ",
			want:  "halo dunia",
		},
		{
			name:  "collapses repeated characters to two",
			input: "lucu bangeeetttt!!",
			want:  "lucu bangeett!!",
		},
		{
			name:  "emoji runs collapse but emoji stay",
			input: "😂😂😂 lucu bangeeetttt!!",
			want:  "😂😂 lucu bangeett!!",
		},
		{
			name:  "lowercases unicode",
			input: "MANTAP Édisi BARU",
			want:  "mantap édisi baru",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"😂😂😂 lucu bangeeetttt!! @teman https://t.co/x",
		"MANTAP    sekali",
		"biasa aja",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "normalize must be a fixed point for %q", in)
	}
}

func TestCollapseRuns(t *testing.T) {
	assert.Equal(t, "aabb", collapseRuns("aaaabbbb"))
	assert.Equal(t, "ab", collapseRuns("ab"))
	assert.Equal(t, "aa", collapseRuns("aa"))
	assert.Equal(t, "", collapseRuns(""))
}
