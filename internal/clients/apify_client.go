package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mzackyaulya/sentikom/config"
	"github.com/mzackyaulya/sentikom/internal/canonical"
	"github.com/mzackyaulya/sentikom/internal/models"
)

// Actors are requested to over-fetch and the result is truncated locally;
// scraping actors under-deliver when asked for exact counts.
const requestedItemsFloor = 20000

const datasetPageSize = 1000

// actorKind is the closed set of known scraping-actor payload profiles.
// Adding a provider means adding one variant here plus its buildInput arm.
type actorKind int

const (
	actorClockworksComments actorKind = iota
	actorClockworksGeneric
	actorApifyGeneric
	actorUnknown
)

type ApifyClient struct {
	client       *http.Client
	baseURL      string
	token        string
	actorID      string
	session      string
	pollInterval time.Duration
	pollAttempts int
}

func NewApifyClient(cfg *config.Config) *ApifyClient {
	actor := strings.ToLower(strings.TrimSpace(cfg.Apify.Actor))
	actorID := actor
	if !strings.Contains(actorID, "~") {
		actorID = strings.ReplaceAll(actorID, "/", "~")
	}

	return &ApifyClient{
		client: &http.Client{
			Timeout: 180 * time.Second,
		},
		baseURL:      APIFY_BASE_URL,
		token:        strings.TrimSpace(cfg.Apify.Token),
		actorID:      actorID,
		session:      cfg.Apify.Session,
		pollInterval: cfg.Fetch.PollInterval,
		pollAttempts: cfg.Fetch.PollAttempts,
	}
}

func (c *ApifyClient) kind() actorKind {
	switch c.actorID {
	case "clockworks~tiktok-comments-scraper":
		return actorClockworksComments
	case "clockworks~tiktok-scraper":
		return actorClockworksGeneric
	case "apify~tiktok-scraper":
		return actorApifyGeneric
	}
	return actorUnknown
}

// buildInput assembles the actor input payload for one video URL. Every
// variant carries the same limit and crawl hints; only the URL field and
// cookie wiring differ.
func (c *ApifyClient) buildInput(cleanURL string, max int) map[string]any {
	want := max
	if want < requestedItemsFloor {
		want = requestedItemsFloor
	}

	input := map[string]any{
		"maxComments":        want,
		"commentsLimit":      want,
		"maxCommentsPerPost": want,
		"limit":              want,
		"maxItems":           want,

		"maxRequestRetries": 6,
		"maxConcurrency":    8,
		// SG proxies tend to be the least throttled for TikTok.
		"proxy": map[string]any{
			"useApifyProxy":     true,
			"apifyProxyCountry": "SG",
		},
	}

	cookies := cookieHeaderToArray(c.session)

	switch c.kind() {
	case actorApifyGeneric:
		input["startUrls"] = []map[string]string{{"url": cleanURL}}
		input["device"] = "desktop"
		input["browser"] = "chrome"
		input["scrapeComments"] = true
		input["includeCommentReplies"] = true
		if len(cookies) > 0 {
			input["userCookies"] = cookies
		}

	default: // clockworks variants and unknown actors share the post-URL form
		input["postURLs"] = []string{cleanURL}
		input["resultsType"] = "comments"
		input["includeCommentReplies"] = true
		if len(cookies) > 0 {
			input["userCookies"] = cookies
			input["useLoggedInMode"] = true
		}
	}

	return input
}

// FetchComments drives a scraping run to completion synchronously: start,
// poll until terminal, page through the dataset, extract texts.
func (c *ApifyClient) FetchComments(ctx context.Context, videoURL string, max int) ([]models.RawComment, error) {
	run, err := c.startRun(ctx, videoURL, 120)
	if err != nil {
		return nil, err
	}

	status := models.ApifyRunStatus{Status: run.Status, DatasetID: run.DefaultDatasetID}
	for tries := 0; !status.Terminal() && tries < c.pollAttempts; tries++ {
		time.Sleep(c.pollInterval)
		st, err := c.GetRunStatus(ctx, run.ID)
		if err != nil {
			slog.Warn("[ApifyClient] Run status poll failed",
				slog.String("run_id", run.ID),
				slog.String("error", err.Error()))
			continue
		}
		status = st
	}

	if status.Status != "SUCCEEDED" {
		return nil, fmt.Errorf("apify run did not succeed: status=%s %s %s",
			status.Status, status.StatusMessage, status.ErrorMessage)
	}
	if status.DatasetID == "" {
		return nil, errors.New("apify run returned no defaultDatasetId")
	}

	items, err := c.FetchDataset(ctx, status.DatasetID)
	if err != nil {
		return nil, err
	}

	out := make([]models.RawComment, 0, len(items))
	for _, it := range items {
		text := ExtractCommentText(it)
		if text == "" {
			continue
		}
		out = append(out, models.RawComment{Text: text})
		if len(out) >= max {
			break
		}
	}

	slog.Info("[ApifyClient] Fetched comments",
		slog.Int("items", len(items)),
		slog.Int("comments", len(out)))
	return out, nil
}

// StartRun begins a run without waiting, for the polling workflow.
func (c *ApifyClient) StartRun(ctx context.Context, videoURL string) (string, error) {
	run, err := c.startRun(ctx, videoURL, 0)
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

func (c *ApifyClient) startRun(ctx context.Context, videoURL string, waitForFinish int) (models.ApifyRunData, error) {
	var run models.ApifyRunData

	if c.token == "" {
		return run, errors.New("APIFY_TOKEN is not set")
	}

	cleanURL := canonical.StripQuery(strings.TrimSpace(videoURL))
	input := c.buildInput(cleanURL, requestedItemsFloor)

	body, err := json.Marshal(input)
	if err != nil {
		return run, fmt.Errorf("failed to marshal actor input: %w", err)
	}

	q := url.Values{"token": {c.token}}
	if waitForFinish > 0 {
		q.Set("waitForFinish", strconv.Itoa(waitForFinish))
	}
	endpoint := fmt.Sprintf("%s/acts/%s/runs?%s", c.baseURL, c.actorID, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return run, fmt.Errorf("failed to build run request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return run, fmt.Errorf("failed to start apify run: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return run, fmt.Errorf("failed to read run response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return run, fmt.Errorf("failed to start apify run (%d) for actor %s: %s",
			resp.StatusCode, c.actorID, string(respBody))
	}

	var envelope models.ApifyRunEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return run, fmt.Errorf("failed to decode run response: %w", err)
	}
	if envelope.Data.ID == "" {
		return run, fmt.Errorf("apify run response carried no run id: %s", string(respBody))
	}

	slog.Info("[ApifyClient] Run started",
		slog.String("actor", c.actorID),
		slog.String("run_id", envelope.Data.ID),
		slog.String("url", cleanURL))
	return envelope.Data, nil
}

func (c *ApifyClient) GetRunStatus(ctx context.Context, runID string) (models.ApifyRunStatus, error) {
	var status models.ApifyRunStatus

	endpoint := fmt.Sprintf("%s/actor-runs/%s?token=%s", c.baseURL, runID, url.QueryEscape(c.token))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return status, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return status, fmt.Errorf("failed to get run status: %w", err)
	}
	defer resp.Body.Close()

	var envelope models.ApifyRunEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return status, fmt.Errorf("failed to decode run status: %w", err)
	}

	status.Status = envelope.Data.Status
	if status.Status == "" {
		status.Status = "UNKNOWN"
	}
	status.DatasetID = envelope.Data.DefaultDatasetID
	status.StatusMessage = envelope.Data.StatusMessage
	status.ErrorMessage = envelope.Data.ErrorMessage
	return status, nil
}

// FetchDataset pages through a run's dataset until a short or empty page.
func (c *ApifyClient) FetchDataset(ctx context.Context, datasetID string) ([]map[string]any, error) {
	var items []map[string]any
	offset := 0

	for {
		q := url.Values{
			"token":  {c.token},
			"clean":  {"true"},
			"format": {"json"},
			"limit":  {strconv.Itoa(datasetPageSize)},
			"offset": {strconv.Itoa(offset)},
		}
		endpoint := fmt.Sprintf("%s/datasets/%s/items?%s", c.baseURL, datasetID, q.Encode())

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch dataset page: %w", err)
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset page: %w", err)
		}
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("failed to fetch dataset (%d): %s", resp.StatusCode, string(respBody))
		}

		var page []map[string]any
		if err := json.Unmarshal(respBody, &page); err != nil {
			return nil, fmt.Errorf("failed to decode dataset page: %w", err)
		}
		if len(page) == 0 {
			break
		}

		items = append(items, page...)
		offset += len(page)

		if len(page) < datasetPageSize {
			break
		}
	}

	return items, nil
}

// cookieHeaderToArray converts a raw Cookie header into the userCookies
// array actors accept. Domain is pinned to .tiktok.com.
func cookieHeaderToArray(raw string) []models.ApifyCookie {
	raw = strings.Trim(raw, "\"' \n\r\t")
	if raw == "" {
		return nil
	}

	var cookies []models.ApifyCookie
	for _, kv := range strings.Split(raw, ";") {
		kv = strings.TrimSpace(kv)
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if name == "" || value == "" {
			continue
		}
		cookies = append(cookies, models.ApifyCookie{
			Name:     name,
			Value:    value,
			Domain:   ".tiktok.com",
			Path:     "/",
			HTTPOnly: false,
			Secure:   true,
		})
	}
	return cookies
}
