// Package extract fetches web pages and distills them into a title and
// readable plain text.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// MaxContentLen is the upper bound on extracted page text.
const MaxContentLen = 15000

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Page is the distilled form of a fetched document.
type Page struct {
	Title   string
	Content string
}

type Extractor struct {
	client *http.Client
}

func New(timeout time.Duration) *Extractor {
	return &Extractor{client: &http.Client{Timeout: timeout}}
}

// Extract downloads rawURL and pulls out its title and main text. The title
// comes from <title>, then the first <h1>, then a placeholder. Text prefers
// the readability view of the page and falls back to the whole document with
// script and style subtrees removed.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Page{}, fmt.Errorf("build request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Page{}, fmt.Errorf("fetch %s: HTTP %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Page{}, fmt.Errorf("read %s: %w", rawURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Page{}, fmt.Errorf("parse %s: %w", rawURL, err)
	}
	title := pageTitle(doc)

	content := readableText(body, resp.Request.URL)
	if content == "" {
		doc.Find("script, style").Remove()
		content = collapseWhitespace(doc.Text())
	}

	return Page{
		Title:   title,
		Content: Truncate(content, MaxContentLen),
	}, nil
}

func pageTitle(doc *goquery.Document) string {
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	if h := strings.TrimSpace(doc.Find("h1").First().Text()); h != "" {
		return h
	}
	return "No title found"
}

// readableText runs the readability extraction, returning "" when the page
// has no recognizable article body.
func readableText(body []byte, pageURL *url.URL) string {
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return ""
	}
	return collapseWhitespace(article.TextContent)
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate cuts s to at most max bytes without splitting a UTF-8 sequence.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
