// Package model defines the entities exchanged between the Prompty-Veille API, its storage and its clients: watched Sources, generated Summaries and compiled Articles. The JSON tags are the wire contract of the REST API.
package model

import "time"

type Source struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	URL         string     `json:"url"`
	Category    *string    `json:"category"`
	Tags        []string   `json:"tags"`
	Active      bool       `json:"active"`
	LastChecked *time.Time `json:"last_checked"`
	CreatedAt   time.Time  `json:"created_at"`
}

type Summary struct {
	ID         string    `json:"id"`
	SourceID   *string   `json:"source_id"`
	SourceName string    `json:"source_name"`
	URL        string    `json:"url"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Summary    string    `json:"summary"`
	Category   *string   `json:"category"`
	Tags       []string  `json:"tags"`
	IsNew      bool      `json:"is_new"`
	CreatedAt  time.Time `json:"created_at"`
}

type SourceReference struct {
	URL        string `json:"url"`
	Title      string `json:"title"`
	SourceName string `json:"source_name"`
}

type Article struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Theme   string `json:"theme"`
	Content string `json:"content"`
	// Sources keeps the flat URL list early articles were stored with;
	// SourceReferences carries the detailed per-source information.
	Sources          []string          `json:"sources"`
	SourceReferences []SourceReference `json:"source_references"`
	Tags             []string          `json:"tags"`
	CreatedAt        time.Time         `json:"created_at"`
}

type Stats struct {
	TotalSources   int `json:"total_sources"`
	ActiveSources  int `json:"active_sources"`
	TotalSummaries int `json:"total_summaries"`
	NewSummaries   int `json:"new_summaries"`
	TotalArticles  int `json:"total_articles"`
}

// SourceInput is the payload accepted when creating or replacing a source.
type SourceInput struct {
	Name     string   `json:"name"`
	URL      string   `json:"url"`
	Category *string  `json:"category"`
	Tags     []string `json:"tags"`
}

// ProcessURLRequest asks for a one-off summarization of a single page.
type ProcessURLRequest struct {
	URL  string `json:"url"`
	Save bool   `json:"save"`
}

// CompileArticleRequest asks for the compilation of stored summaries into
// one long-form article.
type CompileArticleRequest struct {
	Title      string   `json:"title"`
	Theme      string   `json:"theme"`
	SummaryIDs []string `json:"summary_ids"`
}
