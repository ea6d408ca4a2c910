// internal/adapters/search/client.go
package search

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"partprice/internal/adapters/observability"
	"partprice/internal/domain"
)

const (
	DefaultBase    = "https://duckduckgo.com"
	DefaultTimeout = 10 * time.Second

	userAgent       = "Mozilla/5.0"
	snippetSelector = ".result__snippet"
	maxBody         = 4 << 20
)

// Client queries the HTML search page once per call. No retries.
type Client struct {
	base string
	hc   *http.Client
}

func New(base string, timeout time.Duration) *Client {
	if base == "" {
		base = DefaultBase
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: timeout},
	}
}

// Query builds the search text. Empty fields are kept as-is.
func Query(manufacturer, partNumber string) string {
	return fmt.Sprintf("%s %s price", manufacturer, partNumber)
}

func (c *Client) URL(manufacturer, partNumber string) string {
	return c.base + "/html/?q=" + url.QueryEscape(Query(manufacturer, partNumber))
}

// Search returns the text of every result snippet, or a classified failure.
func (c *Client) Search(ctx context.Context, manufacturer, partNumber string) domain.SearchResult {
	start := time.Now()
	res := c.search(ctx, manufacturer, partNumber)
	observability.ObserveExternal("search", "html", res.Status, time.Since(start))
	return res
}

func (c *Client) search(ctx context.Context, manufacturer, partNumber string) domain.SearchResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(manufacturer, partNumber), nil)
	if err != nil {
		return domain.SearchFailed(domain.FailureNetwork, 0, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := c.hc.Do(req)
	if err != nil {
		return domain.SearchFailed(classify(err), 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return domain.SearchFailed(domain.FailureStatus, resp.StatusCode, fmt.Errorf("bad status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return domain.SearchFailed(classify(err), resp.StatusCode, err)
	}

	frags, err := Snippets(body)
	if err != nil {
		return domain.SearchFailed(domain.FailureParse, resp.StatusCode, err)
	}
	return domain.SearchResult{Fragments: frags, Status: resp.StatusCode}
}

// Snippets returns the text of every result snippet in page order.
func Snippets(page []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse search page: %w", err)
	}
	out := []string{}
	doc.Find(snippetSelector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, s.Text())
	})
	return out, nil
}

func classify(err error) domain.FailureKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.FailureTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return domain.FailureTimeout
	}
	return domain.FailureNetwork
}
