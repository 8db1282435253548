package client

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"

	"github.com/agentit/Prompty-Veille/internal/model"
)

func category(s string) *string { return &s }

func at(day int) time.Time {
	return time.Date(2025, time.March, day, 12, 0, 0, 0, time.UTC)
}

func TestFilterSummaries(t *testing.T) {
	summaries := []model.Summary{
		{ID: "m1", Category: category("LLM"), Tags: []string{"openai", "gpt"}},
		{ID: "m2", Category: category("Agents"), Tags: []string{"openai"}},
		{ID: "m3", Tags: []string{"rag"}},
	}

	ids := func(in []model.Summary) []string {
		return lo.Map(in, func(s model.Summary, _ int) string { return s.ID })
	}

	assert.Equal(t, []string{"m1", "m2", "m3"}, ids(FilterSummaries(summaries, "", "")))
	assert.Equal(t, []string{"m1"}, ids(FilterSummaries(summaries, "LLM", "")))
	assert.Equal(t, []string{"m1", "m2"}, ids(FilterSummaries(summaries, "", "openai")))
	assert.Equal(t, []string{"m2"}, ids(FilterSummaries(summaries, "Agents", "openai")))
	assert.Empty(t, ids(FilterSummaries(summaries, "LLM", "rag")))

	// an uncategorized summary never matches a category filter
	assert.Empty(t, ids(FilterSummaries(summaries, "Autre", "")))
}

func TestSortSummariesRecent(t *testing.T) {
	summaries := []model.Summary{
		{ID: "old", CreatedAt: at(1)},
		{ID: "new", CreatedAt: at(3)},
		{ID: "mid", CreatedAt: at(2)},
	}

	sorted := SortSummaries(summaries, SortRecent)

	assert.Equal(t, "new", sorted[0].ID)
	assert.Equal(t, "mid", sorted[1].ID)
	assert.Equal(t, "old", sorted[2].ID)

	// input order is untouched
	assert.Equal(t, "old", summaries[0].ID)
}

func TestSortSummariesByCategory(t *testing.T) {
	summaries := []model.Summary{
		{ID: "none", CreatedAt: at(9)},
		{ID: "llm-old", Category: category("LLM"), CreatedAt: at(1)},
		{ID: "agents", Category: category("agents"), CreatedAt: at(2)},
		{ID: "llm-new", Category: category("llm"), CreatedAt: at(5)},
	}

	sorted := SortSummaries(summaries, SortCategory)

	// categories ascend case-insensitively, uncategorized trails,
	// newest first inside a category
	assert.Equal(t, "agents", sorted[0].ID)
	assert.Equal(t, "llm-new", sorted[1].ID)
	assert.Equal(t, "llm-old", sorted[2].ID)
	assert.Equal(t, "none", sorted[3].ID)
}

func TestSortSummariesUnknownModeFallsBackToRecent(t *testing.T) {
	summaries := []model.Summary{
		{ID: "old", CreatedAt: at(1)},
		{ID: "new", CreatedAt: at(2)},
	}

	sorted := SortSummaries(summaries, "whatever")
	assert.Equal(t, "new", sorted[0].ID)
}
