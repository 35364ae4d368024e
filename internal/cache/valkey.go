package cache

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/mzackyaulya/sentikom/internal/models"
)

const resultKeyPrefix = "sentikom:analysis:"

// ValkeyStore keeps analysis results in valkey so they survive restarts
// within the TTL window.
type ValkeyStore struct {
	client valkey.Client
}

func NewValkeyStore(addr, password string, useTLS bool) (*ValkeyStore, error) {
	opts := valkey.ClientOption{
		InitAddress:      []string{addr},
		Password:         password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}
	if useTLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create valkey client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping valkey: %w", err)
	}

	slog.Info("[ValkeyStore] Connected to valkey", slog.String("addr", addr))
	return &ValkeyStore{client: client}, nil
}

func (s *ValkeyStore) Put(ctx context.Context, key string, res models.AnalysisResult, ttl time.Duration) error {
	value, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis result: %w", err)
	}

	cmd := s.client.B().Set().
		Key(resultKeyPrefix + key).
		Value(string(value)).
		ExSeconds(int64(ttl.Seconds())).
		Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to store analysis result: %w", err)
	}
	return nil
}

func (s *ValkeyStore) Get(ctx context.Context, key string) (models.AnalysisResult, error) {
	var res models.AnalysisResult

	value, err := s.client.Do(ctx, s.client.B().Get().Key(resultKeyPrefix+key).Build()).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return res, ErrNotFound
		}
		return res, fmt.Errorf("failed to read analysis result: %w", err)
	}

	if err := json.Unmarshal(value, &res); err != nil {
		return res, fmt.Errorf("failed to unmarshal analysis result: %w", err)
	}
	return res, nil
}

func (s *ValkeyStore) Delete(ctx context.Context, key string) error {
	return s.client.Do(ctx, s.client.B().Del().Key(resultKeyPrefix+key).Build()).Error()
}

func (s *ValkeyStore) Close() {
	s.client.Close()
}
