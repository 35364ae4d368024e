// Package summary produces a short natural-language recap of an analysis
// run through OpenAI. The feature is optional: without an API key the
// summarizer is nil and callers skip it.
package summary

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/russross/blackfriday/v2"
	openai "github.com/sashabaranov/go-openai"

	"github.com/mzackyaulya/sentikom/config"
	"github.com/mzackyaulya/sentikom/internal/clients"
	"github.com/mzackyaulya/sentikom/internal/models"
)

// Comments sampled per sentiment bucket for the prompt.
const sampleSize = 5

const systemPrompt = "Kamu adalah analis media sosial. Ringkas hasil analisis " +
	"sentimen komentar TikTok dalam 2-3 kalimat bahasa Indonesia, sebutkan " +
	"kecenderungan umum dan tema yang menonjol. Jangan mengulang angka mentah."

type Summarizer struct {
	client *clients.OpenAIClient
	model  string
}

// New returns nil when no OpenAI key is configured.
func New(cfg *config.Config) *Summarizer {
	client := clients.GetOpenAIClient(cfg.OpenAI.APIKey)
	if client == nil {
		return nil
	}
	return &Summarizer{client: client, model: cfg.OpenAI.Model}
}

// Summarize asks the model for a recap of the labeled collection. Errors
// are returned to the caller but never fail an analysis.
func (s *Summarizer) Summarize(ctx context.Context, res models.AnalysisResult) (string, error) {
	resp, err := s.client.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(res)},
		},
	})
	if err != nil {
		slog.Warn("[Summarizer] Summary request failed",
			slog.String("error", err.Error()))
		return "", fmt.Errorf("summary request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("summary response carried no choices")
	}

	return flattenMarkdown(resp.Choices[0].Message.Content), nil
}

func buildPrompt(res models.AnalysisResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Video: %s\n", res.VideoURL)
	fmt.Fprintf(&b, "Jumlah komentar: %d (positif %d, netral %d, negatif %d)\n\n",
		res.Counts.Total(), res.Counts.Positive, res.Counts.Neutral, res.Counts.Negative)

	for _, sentiment := range []string{models.SentimentPositive, models.SentimentNeutral, models.SentimentNegative} {
		fmt.Fprintf(&b, "Contoh komentar %s:\n", sentiment)
		n := 0
		for _, c := range res.Comments {
			if c.Sentiment != sentiment {
				continue
			}
			fmt.Fprintf(&b, "- %s\n", c.Text)
			if n++; n >= sampleSize {
				break
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

var htmlTagPattern = regexp.MustCompile(`<[^>]+>`)

// flattenMarkdown renders any markdown the model returns and strips the
// tags, leaving plain text for JSON transport and exports.
func flattenMarkdown(input string) string {
	rendered := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plain := htmlTagPattern.ReplaceAllString(string(rendered), " ")
	return strings.Join(strings.Fields(plain), " ")
}
