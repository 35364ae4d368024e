package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds every external credential and tunable the pipeline reads.
// Values are read once at startup; components receive them at construction.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"dev"`
	Port   int    `env:"PORT" envDefault:"8080"`

	Apify struct {
		Token   string `env:"APIFY_TOKEN"`
		Actor   string `env:"APIFY_ACTOR" envDefault:"clockworks/tiktok-comments-scraper"`
		Session string `env:"APIFY_TT_SESSION"`
	}

	HuggingFace struct {
		Token string `env:"HUGGINGFACE_TOKEN"`
		Model string `env:"HUGGINGFACE_MODEL" envDefault:"w11wo/indonesian-roberta-base-sentiment-classifier"`
	}

	OpenAI struct {
		APIKey string `env:"OPENAI_API_KEY"`
		Model  string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	}

	Valkey struct {
		Address  string `env:"VALKEY_INIT_ADDRESS"`
		Password string `env:"VALKEY_PASSWORD"`
		TLS      bool   `env:"VALKEY_TLS"`
	}

	Fetch struct {
		Target        int           `env:"FETCH_TARGET" envDefault:"1200"`
		MinAcceptable int           `env:"FETCH_MIN_ACCEPTABLE" envDefault:"300"`
		PollInterval  time.Duration `env:"APIFY_POLL_INTERVAL" envDefault:"900ms"`
		PollAttempts  int           `env:"APIFY_POLL_ATTEMPTS" envDefault:"80"`
	}

	Sentiment struct {
		BatchSize       int           `env:"SENTIMENT_BATCH_SIZE" envDefault:"16"`
		TruncateAt      int           `env:"SENTIMENT_TRUNCATE_AT" envDefault:"300"`
		RetryAttempts   int           `env:"SENTIMENT_RETRY_ATTEMPTS" envDefault:"4"`
		RetryPause      time.Duration `env:"SENTIMENT_RETRY_PAUSE" envDefault:"900ms"`
		ConfidenceFloor float64       `env:"SENTIMENT_CONFIDENCE_FLOOR" envDefault:"0.55"`
		UseVader        bool          `env:"SENTIMENT_USE_VADER"`
		VaderThreshold  float64       `env:"SENTIMENT_VADER_THRESHOLD" envDefault:"0.65"`
	}

	Cache struct {
		TTL time.Duration `env:"CACHE_TTL" envDefault:"30m"`
	}
}

// Load parses the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment config: %w", err)
	}
	return cfg, nil
}

// IsProduction reports whether the app runs with production error masking.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
