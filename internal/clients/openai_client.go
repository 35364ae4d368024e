package clients

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const openAIRequestTimeout = 60 * time.Second

var (
	openAIClientInstance *OpenAIClient
	openAIOnce           sync.Once
)

type OpenAIClient struct {
	Client *openai.Client
}

// GetOpenAIClient returns the shared OpenAI client, or nil when no API key
// is configured (the summary feature is optional).
func GetOpenAIClient(apiKey string) *OpenAIClient {
	if apiKey == "" {
		return nil
	}
	openAIOnce.Do(func() {
		config := openai.DefaultConfig(apiKey)
		config.HTTPClient = &http.Client{
			Timeout: openAIRequestTimeout,
		}

		openAIClientInstance = &OpenAIClient{
			Client: openai.NewClientWithConfig(config),
		}
		slog.Info("[OpenAIClient] OpenAI client initialized",
			slog.Duration("timeout", openAIRequestTimeout))
	})
	return openAIClientInstance
}
