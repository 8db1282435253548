// Package source resolves a configured watch source into the concrete page a
// check should process.
package source

import (
	"context"
	"crypto/tls"
	"net/http"
	"strings"
	"time"

	"github.com/SlyMarbo/rss"
	"github.com/samber/lo"

	"github.com/agentit/Prompty-Veille/internal/model"
)

// contextTransport injects a context into every outgoing request so that
// context cancellation and deadlines propagate through the rss library.
type contextTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}

// Resolved is the page a check should fetch for a source. Title carries the
// feed item title when the source turned out to be a feed, "" otherwise.
type Resolved struct {
	URL   string
	Title string
}

type Resolver struct {
	insecure bool
	timeout  time.Duration
}

func NewResolver(insecure bool, timeout time.Duration) *Resolver {
	return &Resolver{insecure: insecure, timeout: timeout}
}

// Resolve probes the source URL as an RSS or Atom feed. When the URL parses
// as a feed with items, the most recent item wins; any other outcome falls
// back to the source URL itself.
func (r *Resolver) Resolve(ctx context.Context, src model.Source) Resolved {
	direct := Resolved{URL: src.URL}

	feed, err := r.loadFeed(ctx, src.URL)
	if err != nil || len(feed.Items) == 0 {
		return direct
	}

	item := lo.MaxBy(feed.Items, func(a, b *rss.Item) bool {
		return a.Date.After(b.Date)
	})
	if item == nil || item.Link == "" {
		return direct
	}

	return Resolved{URL: item.Link, Title: strings.TrimSpace(item.Title)}
}

func (r *Resolver) loadFeed(ctx context.Context, url string) (*rss.Feed, error) {
	base := http.DefaultTransport
	if r.insecure {
		base = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec
		}
	}
	client := &http.Client{
		Transport: contextTransport{ctx: ctx, base: base},
		Timeout:   r.timeout,
	}
	return rss.FetchByClient(url, client)
}
