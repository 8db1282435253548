// Package checker walks the active sources and turns fresh content into
// stored summaries.
package checker

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/agentit/Prompty-Veille/internal/extract"
	"github.com/agentit/Prompty-Veille/internal/metrics"
	"github.com/agentit/Prompty-Veille/internal/model"
	"github.com/agentit/Prompty-Veille/internal/source"
)

// maxStoredContentLen bounds the extracted text persisted with a summary.
const maxStoredContentLen = 5000

type SourceProvider interface {
	ActiveSources(ctx context.Context) ([]model.Source, error)
	MarkChecked(ctx context.Context, id string, at time.Time) error
}

type SummaryStorage interface {
	Add(ctx context.Context, sum model.Summary) (model.Summary, error)
}

type Resolver interface {
	Resolve(ctx context.Context, src model.Source) source.Resolved
}

type Extractor interface {
	Extract(ctx context.Context, url string) (extract.Page, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, title, content string) (string, error)
}

type Notifier interface {
	SummaryCreated(sum model.Summary)
}

type Reporter interface {
	CheckFailed(sourceName string, err error)
}

type Checker struct {
	sources    SourceProvider
	summaries  SummaryStorage
	resolver   Resolver
	extractor  Extractor
	summarizer Summarizer
	notifier   Notifier
	reporter   Reporter

	limiter *rate.Limiter
	running atomic.Bool
}

// New wires a Checker. fetchDelay spaces outgoing fetches so a run never
// hammers the sources.
func New(
	sources SourceProvider,
	summaries SummaryStorage,
	resolver Resolver,
	extractor Extractor,
	summarizer Summarizer,
	notifier Notifier,
	reporter Reporter,
	fetchDelay time.Duration,
) *Checker {
	if fetchDelay <= 0 {
		fetchDelay = time.Second
	}
	return &Checker{
		sources:    sources,
		summaries:  summaries,
		resolver:   resolver,
		extractor:  extractor,
		summarizer: summarizer,
		notifier:   notifier,
		reporter:   reporter,
		limiter:    rate.NewLimiter(rate.Every(fetchDelay), 1),
	}
}

// Running reports whether a check is currently in flight.
func (c *Checker) Running() bool {
	return c.running.Load()
}

// StartCheck launches a full source check in the background. It reports
// false when a run is already in flight.
func (c *Checker) StartCheck(ctx context.Context) bool {
	if !c.running.CompareAndSwap(false, true) {
		return false
	}

	go func() {
		defer c.running.Store(false)
		c.checkAll(ctx)
	}()

	return true
}

// CheckAll runs a full source check synchronously, skipping when one is
// already in flight.
func (c *Checker) CheckAll(ctx context.Context) {
	if !c.running.CompareAndSwap(false, true) {
		slog.Info("source check already running, skipping")
		return
	}
	defer c.running.Store(false)

	c.checkAll(ctx)
}

func (c *Checker) checkAll(ctx context.Context) {
	started := time.Now()
	slog.Info("starting source check")

	sources, err := c.sources.ActiveSources(ctx)
	if err != nil {
		slog.Error("source check aborted", "error", err)
		return
	}

	var (
		wg      sync.WaitGroup
		created atomic.Int64
	)
	for _, src := range sources {
		wg.Add(1)

		go func(src model.Source) {
			defer wg.Done()

			if err := c.limiter.Wait(ctx); err != nil {
				return
			}

			stored, err := c.checkSource(ctx, src)
			if err != nil {
				slog.Error("source check failed", "source", src.Name, "error", err)
				c.reporter.CheckFailed(src.Name, err)
				return
			}
			if stored {
				created.Add(1)
			}
		}(src)
	}
	wg.Wait()

	metrics.SourceChecksTotal.Inc()
	slog.Info("source check finished",
		"sources", len(sources),
		"summaries", created.Load(),
		"took", time.Since(started),
	)
}

// checkSource resolves, extracts and summarizes one source. It reports
// whether a summary was stored; pages with no extractable text are skipped
// without error and without touching last_checked.
func (c *Checker) checkSource(ctx context.Context, src model.Source) (bool, error) {
	slog.Info("checking source", "source", src.Name)

	resolved := c.resolver.Resolve(ctx, src)

	page, err := c.extractor.Extract(ctx, resolved.URL)
	if err != nil {
		return false, err
	}
	if page.Content == "" {
		return false, nil
	}

	title := resolved.Title
	if title == "" {
		title = page.Title
	}

	text, err := c.summarizer.Summarize(ctx, title, page.Content)
	if err != nil {
		metrics.LLMFailuresTotal.Inc()
		return false, err
	}

	stored, err := c.summaries.Add(ctx, model.Summary{
		SourceID:   &src.ID,
		SourceName: src.Name,
		URL:        resolved.URL,
		Title:      title,
		Content:    extract.Truncate(page.Content, maxStoredContentLen),
		Summary:    text,
		Category:   src.Category,
		Tags:       src.Tags,
		IsNew:      true,
	})
	if err != nil {
		return false, err
	}

	if err := c.sources.MarkChecked(ctx, src.ID, time.Now().UTC()); err != nil {
		return false, err
	}

	metrics.SummariesCreatedTotal.WithLabelValues(metrics.OriginCheck).Inc()
	c.notifier.SummaryCreated(stored)

	slog.Info("summary created", "source", src.Name, "summary", stored.ID)
	return true, nil
}
