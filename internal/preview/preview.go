// Package preview extracts title, description and image from a product page
// so that deal forms can be pre-filled.
package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/dealspot/dealspot/internal/core/domain"
)

const (
	maxBodyBytes = 2 << 20
	userAgent    = "DealSpotPreview/1.0 (+https://dealspot.example)"
)

// ErrFetchFailed is returned when the page could not be retrieved.
var ErrFetchFailed = errors.New("failed to fetch page")

// Page is the metadata extracted from a URL.
type Page struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	SiteName    string `json:"site_name,omitempty"`
}

type Client struct {
	httpClient *http.Client
}

// New returns a Client whose requests give up after timeout.
func New(timeout time.Duration) *Client {
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

// NewWithHTTPClient is used by tests and callers that need a custom transport.
func NewWithHTTPClient(hc *http.Client) *Client {
	return &Client{httpClient: hc}
}

// Fetch downloads rawURL and extracts its metadata. OpenGraph tags win over
// <title> and the plain meta description.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: url must be an absolute http(s) URL", domain.ErrInvalidQuery)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status code %d", ErrFetchFailed, res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	// Redirects may have moved us; relative image paths resolve against the
	// final location.
	base := res.Request.URL
	return extract(doc, base), nil
}

func extract(doc *goquery.Document, base *url.URL) *Page {
	p := &Page{URL: base.String()}

	p.Title = firstNonEmpty(
		meta(doc, "property", "og:title"),
		meta(doc, "name", "twitter:title"),
		strings.TrimSpace(doc.Find("title").First().Text()),
	)
	p.Description = firstNonEmpty(
		meta(doc, "property", "og:description"),
		meta(doc, "name", "twitter:description"),
		meta(doc, "name", "description"),
	)
	p.SiteName = meta(doc, "property", "og:site_name")

	image := firstNonEmpty(
		meta(doc, "property", "og:image"),
		meta(doc, "name", "twitter:image"),
		linkHref(doc, "image_src"),
	)
	if image != "" {
		if ref, err := url.Parse(image); err == nil {
			p.ImageURL = base.ResolveReference(ref).String()
		}
	}
	if canonical := firstNonEmpty(meta(doc, "property", "og:url"), linkHref(doc, "canonical")); canonical != "" {
		if ref, err := url.Parse(canonical); err == nil {
			p.URL = base.ResolveReference(ref).String()
		}
	}
	return p
}

func meta(doc *goquery.Document, attr, key string) string {
	var out string
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, ok := s.Attr(attr); ok && strings.EqualFold(v, key) {
			out = strings.TrimSpace(s.AttrOr("content", ""))
			return out == ""
		}
		return true
	})
	return out
}

func linkHref(doc *goquery.Document, rel string) string {
	sel := doc.Find(fmt.Sprintf(`link[rel=%q]`, rel)).First()
	return strings.TrimSpace(sel.AttrOr("href", ""))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
