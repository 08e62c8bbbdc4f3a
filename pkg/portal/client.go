// Package portal provides the authenticated HTTP client for the Moodle
// portal. Page retrieval is sequential; a limiter keeps the request rate
// polite so the crawl does not hammer the university server.
package portal

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

const (
	// DefaultBase is the LNU Moodle origin; overridable via config.
	DefaultBase = "https://moodle.elct.lnu.edu.ua"

	sessionCookieName = "MoodleSession"
	userAgent         = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
)

// Client performs authenticated requests against the portal.
type Client struct {
	base       string
	session    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a portal client for the given origin, authenticated with
// the MoodleSession cookie value obtained from a browser login.
func NewClient(base, session string) *Client {
	base = strings.TrimRight(base, "/")
	if base == "" {
		base = DefaultBase
	}
	return &Client{
		base:    base,
		session: session,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		// Two page loads per second is plenty for a sequential crawl
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
	}
}

// Base returns the portal origin this client talks to.
func (c *Client) Base() string {
	return c.base
}

// DashboardURL returns the "Особистий кабінет" address courses are listed on.
func (c *Client) DashboardURL() string {
	return c.base + "/my/"
}

// Get fetches an absolute portal URL. Failed requests are not retried; the
// caller decides whether the unit of work is skippable.
func (c *Client) Get(rawURL string) (*http.Response, error) {
	if err := c.limiter.Wait(context.Background()); err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	if c.session != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: c.session})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code %d when fetching %s", resp.StatusCode, rawURL)
	}

	return resp, nil
}

// FetchDocument loads a page and parses it with goquery. Implements the
// resolver's PageFetcher contract.
func (c *Client) FetchDocument(rawURL string) (*goquery.Document, error) {
	resp, err := c.Get(rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", rawURL, err)
	}
	return doc, nil
}

// VerifySession loads the dashboard and checks the session is actually logged
// in rather than bounced to the login page.
func (c *Client) VerifySession() error {
	resp, err := c.Get(c.DashboardURL())
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	finalURL := resp.Request.URL
	if isLoginURL(finalURL) {
		return fmt.Errorf("session cookie rejected: portal redirected to %s", finalURL)
	}
	return nil
}

func isLoginURL(u *url.URL) bool {
	return u != nil && strings.Contains(u.Path, "/login/")
}
