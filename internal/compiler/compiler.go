// Package compiler assembles stored summaries into a long form SEO article.
package compiler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"github.com/agentit/Prompty-Veille/internal/extract"
	"github.com/agentit/Prompty-Veille/internal/model"
	"github.com/agentit/Prompty-Veille/internal/summary"
)

// maxSourceContentLen bounds the re-extracted text included per source in
// the article prompt.
const maxSourceContentLen = 8000

// unavailableContent stands in when a source page cannot be fetched again.
const unavailableContent = "Contenu non disponible"

type Extractor interface {
	Extract(ctx context.Context, url string) (extract.Page, error)
}

type Compiler struct {
	extractor Extractor
	llm       summary.Completer
}

func New(extractor Extractor, llm summary.Completer) *Compiler {
	return &Compiler{extractor: extractor, llm: llm}
}

// Compile re-reads every summarized page, asks the model for a long form
// article on the theme and assembles the result. Tags are the union of the
// summaries' tags in first seen order; sources and references keep the
// summaries' order.
func (c *Compiler) Compile(ctx context.Context, title, theme string, summaries []model.Summary) (model.Article, error) {
	docs := make([]summary.SourceDoc, 0, len(summaries))
	for _, s := range summaries {
		slog.Info("extracting source content", "url", s.URL)

		content := unavailableContent
		page, err := c.extractor.Extract(ctx, s.URL)
		if err != nil {
			slog.Warn("source content unavailable", "url", s.URL, "error", err)
		} else {
			content = extract.Truncate(page.Content, maxSourceContentLen)
		}

		docs = append(docs, summary.SourceDoc{
			SourceName: s.SourceName,
			URL:        s.URL,
			Title:      s.Title,
			Summary:    s.Summary,
			Content:    content,
		})
	}

	content, err := c.llm.Complete(ctx, summary.ArticleSystemPrompt, summary.ArticlePrompt(theme, docs))
	if err != nil {
		return model.Article{}, fmt.Errorf("compile article: %w", err)
	}

	return model.Article{
		Title:   title,
		Theme:   theme,
		Content: content,
		Sources: lo.Map(summaries, func(s model.Summary, _ int) string { return s.URL }),
		SourceReferences: lo.Map(summaries, func(s model.Summary, _ int) model.SourceReference {
			return model.SourceReference{URL: s.URL, Title: s.Title, SourceName: s.SourceName}
		}),
		Tags: uniqueTags(summaries),
	}, nil
}

func uniqueTags(summaries []model.Summary) []string {
	var all []string
	for _, s := range summaries {
		all = append(all, s.Tags...)
	}
	return lo.Uniq(all)
}
