package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mzackyaulya/sentikom/config"
	"github.com/mzackyaulya/sentikom/internal/canonical"
	"github.com/mzackyaulya/sentikom/internal/models"
)

const tiktokPageSize = 100

// TikTokClient fetches comments straight from TikTok's internal
// comment-list endpoint. It needs a logged-in session cookie; anonymous
// requests get empty pages.
type TikTokClient struct {
	client   *http.Client
	baseURL  string
	cookie   string
	pageSize int
}

func NewTikTokClient(cfg *config.Config) (*TikTokClient, error) {
	if cfg.Apify.Session == "" {
		return nil, errors.New("tiktok session cookie is empty, set APIFY_TT_SESSION")
	}

	return &TikTokClient{
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
		baseURL:  TIKTOK_COMMENT_URL,
		cookie:   cfg.Apify.Session,
		pageSize: tiktokPageSize,
	}, nil
}

// FetchComments pages through the comment list with a cursor/count
// protocol until max texts are collected or the API reports no more pages.
func (c *TikTokClient) FetchComments(ctx context.Context, videoURL string, max int) ([]models.RawComment, error) {
	videoID, ok := canonical.VideoID(videoURL)
	if !ok {
		return nil, errors.New("tiktok video url carries no numeric video id")
	}

	var out []models.RawComment
	var cursor int64

	for len(out) < max {
		page, err := c.fetchPage(ctx, videoURL, videoID, cursor)
		if err != nil {
			return nil, err
		}

		for _, it := range page.Items() {
			text := ExtractCommentText(it)
			if text == "" {
				continue
			}
			out = append(out, models.RawComment{Text: text})
			if len(out) >= max {
				return out, nil
			}
		}

		hasMore := page.HasMore == 1
		next := page.Cursor
		if next == 0 {
			next = page.CursorNext
		}

		// Some responses claim more pages without advancing the cursor;
		// synthesize the next offset to avoid looping in place.
		if hasMore && next <= cursor {
			next = cursor + int64(c.pageSize)
		}
		cursor = next

		if !hasMore {
			break
		}
	}

	slog.Info("[TikTokClient] Fetched comments",
		slog.String("video_id", videoID),
		slog.Int("comments", len(out)))
	return out, nil
}

func (c *TikTokClient) fetchPage(ctx context.Context, videoURL, videoID string, cursor int64) (models.TikTokCommentPage, error) {
	var page models.TikTokCommentPage

	q := url.Values{
		"aid":      {"1988"}, // web app id
		"cursor":   {strconv.FormatInt(cursor, 10)},
		"count":    {strconv.Itoa(c.pageSize)},
		"aweme_id": {videoID},
		"item_id":  {videoID},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return page, err
	}

	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "id-ID,id;q=0.9,en-US;q=0.8,en;q=0.7")
	req.Header.Set("Cookie", c.cookie)
	req.Header.Set("Referer", videoURL)
	req.Header.Set("User-Agent", BROWSER_USER_AGENT)
	req.Header.Set("Origin", "https://www.tiktok.com")
	req.Header.Set("Sec-Fetch-Site", "same-origin")
	req.Header.Set("Sec-Fetch-Mode", "cors")
	req.Header.Set("Sec-Fetch-Dest", "empty")

	resp, err := c.client.Do(req)
	if err != nil {
		return page, fmt.Errorf("failed to call tiktok comment api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return page, fmt.Errorf("tiktok comment api returned %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return page, fmt.Errorf("failed to read tiktok response: %w", err)
	}
	if err := json.Unmarshal(body, &page); err != nil {
		return page, fmt.Errorf("tiktok response is not valid json: %w", err)
	}

	return page, nil
}
