package compiler

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentit/Prompty-Veille/internal/extract"
	"github.com/agentit/Prompty-Veille/internal/model"
)

type stubExtractor struct {
	pages map[string]extract.Page
}

func (s *stubExtractor) Extract(_ context.Context, url string) (extract.Page, error) {
	page, ok := s.pages[url]
	if !ok {
		return extract.Page{}, errors.New("fetch failed")
	}
	return page, nil
}

type stubLLM struct {
	system string
	user   string
	reply  string
	err    error
}

func (s *stubLLM) Complete(_ context.Context, system, user string) (string, error) {
	s.system = system
	s.user = user
	return s.reply, s.err
}

func watchSummaries() []model.Summary {
	return []model.Summary{
		{
			ID:         "s1",
			SourceName: "Blog A",
			URL:        "https://a.example/post",
			Title:      "Annonce A",
			Summary:    "résumé A",
			Tags:       []string{"llm", "agents"},
		},
		{
			ID:         "s2",
			SourceName: "Blog B",
			URL:        "https://b.example/post",
			Title:      "Annonce B",
			Summary:    "résumé B",
			Tags:       []string{"agents", "open-source"},
		},
	}
}

func TestCompileAssemblesArticle(t *testing.T) {
	ext := &stubExtractor{pages: map[string]extract.Page{
		"https://a.example/post": {Title: "Annonce A", Content: "contenu complet A"},
		"https://b.example/post": {Title: "Annonce B", Content: "contenu complet B"},
	}}
	llm := &stubLLM{reply: "# Article\n\nCorps."}

	c := New(ext, llm)
	article, err := c.Compile(context.Background(), "Mon titre", "agents IA", watchSummaries())
	require.NoError(t, err)

	assert.Equal(t, "Mon titre", article.Title)
	assert.Equal(t, "agents IA", article.Theme)
	assert.Equal(t, "# Article\n\nCorps.", article.Content)
	assert.Equal(t, []string{"https://a.example/post", "https://b.example/post"}, article.Sources)
	assert.Equal(t, []model.SourceReference{
		{URL: "https://a.example/post", Title: "Annonce A", SourceName: "Blog A"},
		{URL: "https://b.example/post", Title: "Annonce B", SourceName: "Blog B"},
	}, article.SourceReferences)
	assert.Equal(t, []string{"llm", "agents", "open-source"}, article.Tags)

	assert.Contains(t, llm.user, "contenu complet A")
	assert.Contains(t, llm.user, "contenu complet B")
	assert.Contains(t, llm.user, `sur le thème "agents IA"`)
}

func TestCompileMarksUnreachableSources(t *testing.T) {
	ext := &stubExtractor{pages: map[string]extract.Page{
		"https://a.example/post": {Title: "Annonce A", Content: "contenu complet A"},
	}}
	llm := &stubLLM{reply: "article"}

	c := New(ext, llm)
	_, err := c.Compile(context.Background(), "t", "th", watchSummaries())
	require.NoError(t, err)

	assert.Contains(t, llm.user, "Contenu non disponible")
	assert.Contains(t, llm.user, "contenu complet A")
}

func TestCompileCapsSourceContent(t *testing.T) {
	long := strings.Repeat("x", maxSourceContentLen+500)
	ext := &stubExtractor{pages: map[string]extract.Page{
		"https://a.example/post": {Content: long},
		"https://b.example/post": {Content: "court"},
	}}
	llm := &stubLLM{reply: "article"}

	c := New(ext, llm)
	_, err := c.Compile(context.Background(), "t", "th", watchSummaries())
	require.NoError(t, err)

	assert.Contains(t, llm.user, strings.Repeat("x", maxSourceContentLen))
	assert.NotContains(t, llm.user, strings.Repeat("x", maxSourceContentLen+1))
}

func TestCompilePropagatesLLMError(t *testing.T) {
	ext := &stubExtractor{pages: map[string]extract.Page{}}
	llm := &stubLLM{err: errors.New("model offline")}

	c := New(ext, llm)
	_, err := c.Compile(context.Background(), "t", "th", watchSummaries())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model offline")
}
