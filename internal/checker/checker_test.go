package checker

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentit/Prompty-Veille/internal/extract"
	"github.com/agentit/Prompty-Veille/internal/model"
	"github.com/agentit/Prompty-Veille/internal/source"
)

type stubSources struct {
	mu      sync.Mutex
	list    []model.Source
	listErr error
	block   chan struct{}
	checked []string
}

func (s *stubSources) ActiveSources(_ context.Context) ([]model.Source, error) {
	if s.block != nil {
		<-s.block
	}
	return s.list, s.listErr
}

func (s *stubSources) MarkChecked(_ context.Context, id string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checked = append(s.checked, id)
	return nil
}

type stubSummaries struct {
	mu    sync.Mutex
	added []model.Summary
}

func (s *stubSummaries) Add(_ context.Context, sum model.Summary) (model.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum.ID = "stored-" + sum.SourceName
	s.added = append(s.added, sum)
	return sum, nil
}

type stubResolver struct {
	titles map[string]string
}

func (s *stubResolver) Resolve(_ context.Context, src model.Source) source.Resolved {
	return source.Resolved{URL: src.URL, Title: s.titles[src.URL]}
}

type stubExtractor struct {
	pages map[string]extract.Page
}

func (s *stubExtractor) Extract(_ context.Context, url string) (extract.Page, error) {
	page, ok := s.pages[url]
	if !ok {
		return extract.Page{}, errors.New("unreachable")
	}
	return page, nil
}

type stubSummarizer struct{}

func (stubSummarizer) Summarize(_ context.Context, title, _ string) (string, error) {
	return "résumé de " + title, nil
}

type stubNotifier struct {
	mu   sync.Mutex
	sent []model.Summary
}

func (n *stubNotifier) SummaryCreated(sum model.Summary) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sum)
}

type stubReporter struct {
	mu     sync.Mutex
	failed []string
}

func (r *stubReporter) CheckFailed(sourceName string, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, sourceName)
}

func category(s string) *string { return &s }

func newTestChecker(srcs *stubSources, sums *stubSummaries, ext *stubExtractor, notif *stubNotifier) *Checker {
	return New(
		srcs,
		sums,
		&stubResolver{},
		ext,
		stubSummarizer{},
		notif,
		&stubReporter{},
		time.Millisecond,
	)
}

func TestCheckAllStoresSummaries(t *testing.T) {
	srcs := &stubSources{list: []model.Source{
		{ID: "s1", Name: "Blog A", URL: "https://a.example", Category: category("LLM"), Tags: []string{"a"}},
		{ID: "s2", Name: "Blog B", URL: "https://b.example", Tags: []string{"b"}},
	}}
	sums := &stubSummaries{}
	ext := &stubExtractor{pages: map[string]extract.Page{
		"https://a.example": {Title: "Page A", Content: "texte A"},
		"https://b.example": {Title: "Page B", Content: "texte B"},
	}}
	notif := &stubNotifier{}

	c := newTestChecker(srcs, sums, ext, notif)
	c.CheckAll(context.Background())

	require.Len(t, sums.added, 2)
	assert.ElementsMatch(t, []string{"s1", "s2"}, srcs.checked)
	assert.Len(t, notif.sent, 2)

	for _, sum := range sums.added {
		assert.True(t, sum.IsNew)
		require.NotNil(t, sum.SourceID)
		if *sum.SourceID == "s1" {
			assert.Equal(t, "Blog A", sum.SourceName)
			assert.Equal(t, "Page A", sum.Title)
			assert.Equal(t, "résumé de Page A", sum.Summary)
			require.NotNil(t, sum.Category)
			assert.Equal(t, "LLM", *sum.Category)
			assert.Equal(t, []string{"a"}, sum.Tags)
		}
	}
}

func TestCheckAllContinuesPastFailures(t *testing.T) {
	srcs := &stubSources{list: []model.Source{
		{ID: "s1", Name: "Mort", URL: "https://dead.example"},
		{ID: "s2", Name: "Vif", URL: "https://alive.example"},
	}}
	sums := &stubSummaries{}
	ext := &stubExtractor{pages: map[string]extract.Page{
		"https://alive.example": {Title: "Vif", Content: "texte"},
	}}
	rep := &stubReporter{}

	c := New(srcs, sums, &stubResolver{}, ext, stubSummarizer{}, &stubNotifier{}, rep, time.Millisecond)
	c.CheckAll(context.Background())

	require.Len(t, sums.added, 1)
	assert.Equal(t, "Vif", sums.added[0].SourceName)
	assert.Equal(t, []string{"s2"}, srcs.checked)
	assert.Equal(t, []string{"Mort"}, rep.failed)
}

func TestCheckAllSkipsEmptyPages(t *testing.T) {
	srcs := &stubSources{list: []model.Source{
		{ID: "s1", Name: "Vide", URL: "https://empty.example"},
	}}
	sums := &stubSummaries{}
	ext := &stubExtractor{pages: map[string]extract.Page{
		"https://empty.example": {Title: "Vide", Content: ""},
	}}

	c := newTestChecker(srcs, sums, ext, &stubNotifier{})
	c.CheckAll(context.Background())

	assert.Empty(t, sums.added)
	assert.Empty(t, srcs.checked)
}

func TestCheckerCapsStoredContent(t *testing.T) {
	long := strings.Repeat("y", maxStoredContentLen+100)
	srcs := &stubSources{list: []model.Source{
		{ID: "s1", Name: "Long", URL: "https://long.example"},
	}}
	sums := &stubSummaries{}
	ext := &stubExtractor{pages: map[string]extract.Page{
		"https://long.example": {Title: "Long", Content: long},
	}}

	c := newTestChecker(srcs, sums, ext, &stubNotifier{})
	c.CheckAll(context.Background())

	require.Len(t, sums.added, 1)
	assert.Len(t, sums.added[0].Content, maxStoredContentLen)
}

func TestCheckerPrefersFeedItemTitle(t *testing.T) {
	srcs := &stubSources{list: []model.Source{
		{ID: "s1", Name: "Flux", URL: "https://feed.example"},
	}}
	sums := &stubSummaries{}
	ext := &stubExtractor{pages: map[string]extract.Page{
		"https://feed.example": {Title: "Titre extrait", Content: "texte"},
	}}

	c := New(srcs, sums, &stubResolver{titles: map[string]string{
		"https://feed.example": "Titre du flux",
	}}, ext, stubSummarizer{}, &stubNotifier{}, &stubReporter{}, time.Millisecond)
	c.CheckAll(context.Background())

	require.Len(t, sums.added, 1)
	assert.Equal(t, "Titre du flux", sums.added[0].Title)
}

func TestChecksNeverOverlap(t *testing.T) {
	gate := make(chan struct{})
	srcs := &stubSources{block: gate}
	sums := &stubSummaries{}

	c := newTestChecker(srcs, sums, &stubExtractor{}, &stubNotifier{})

	done := make(chan struct{})
	go func() {
		c.CheckAll(context.Background())
		close(done)
	}()

	require.Eventually(t, c.Running, time.Second, time.Millisecond)
	assert.False(t, c.StartCheck(context.Background()), "second run must be refused while the first is in flight")

	close(gate)
	<-done

	assert.False(t, c.Running())
	assert.True(t, c.StartCheck(context.Background()))
	require.Eventually(t, func() bool { return !c.Running() }, time.Second, time.Millisecond)
}
