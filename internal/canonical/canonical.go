// Package canonical resolves short or redirected TikTok links to the
// canonical tiktok.com/@user/video/<id> form.
package canonical

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const maxRedirectHops = 10

var (
	videoPattern     = regexp.MustCompile(`(?i)tiktok\.com/@[^/]+/video/(\d+)`)
	canonicalPattern = regexp.MustCompile(`(?i)^https?://(www\.)?tiktok\.com/@[^/]+/video/\d+`)
)

type Resolver struct {
	client    *http.Client
	userAgent string
}

func NewResolver(timeout time.Duration, userAgent string) *Resolver {
	return &Resolver{
		client: &http.Client{
			Timeout: timeout,
			// Redirects are followed manually so relative Location
			// headers resolve against the right authority.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		userAgent: userAgent,
	}
}

// Canonicalize follows up to maxRedirectHops Location headers and returns
// the final URL. It never fails: on any network error the original input
// comes back unchanged and validation happens downstream.
func (r *Resolver) Canonicalize(ctx context.Context, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	if canonicalPattern.MatchString(raw) {
		return raw
	}

	current := raw
	for i := 0; i < maxRedirectHops; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, current, nil)
		if err != nil {
			return raw
		}
		req.Header.Set("User-Agent", r.userAgent)

		resp, err := r.client.Do(req)
		if err != nil {
			slog.Warn("[Canonical] Redirect resolution failed",
				slog.String("url", current),
				slog.String("error", err.Error()))
			return raw
		}
		resp.Body.Close()

		if !isRedirect(resp.StatusCode) {
			break
		}

		loc := resp.Header.Get("Location")
		if loc == "" {
			break
		}

		next, err := resolveLocation(current, loc)
		if err != nil {
			break
		}
		current = next
	}
	return current
}

func isRedirect(code int) bool {
	switch code {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

func resolveLocation(current, loc string) (string, error) {
	base, err := url.Parse(current)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(loc)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}

// StripQuery cuts the URL at the first '?'.
func StripQuery(u string) string {
	if i := strings.IndexByte(u, '?'); i >= 0 {
		return u[:i]
	}
	return u
}

// Valid reports whether u points at a TikTok video page.
func Valid(u string) bool {
	return videoPattern.MatchString(u)
}

// VideoID extracts the numeric video id from a canonical URL.
func VideoID(u string) (string, bool) {
	m := videoPattern.FindStringSubmatch(u)
	if m == nil {
		return "", false
	}
	return m[1], true
}
