package storage

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummariesListQuery(t *testing.T) {
	boolPtr := func(b bool) *bool { return &b }

	cases := []struct {
		name     string
		filter   SummaryFilter
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "no filter",
			filter:   SummaryFilter{},
			wantSQL:  `SELECT ` + summaryColumns + ` FROM summaries ORDER BY created_at DESC`,
			wantArgs: nil,
		},
		{
			name:     "category only",
			filter:   SummaryFilter{Category: "LLM"},
			wantSQL:  `SELECT ` + summaryColumns + ` FROM summaries WHERE category = $1 ORDER BY created_at DESC`,
			wantArgs: []any{"LLM"},
		},
		{
			name:     "tag only",
			filter:   SummaryFilter{Tag: "openai"},
			wantSQL:  `SELECT ` + summaryColumns + ` FROM summaries WHERE $1 = ANY(tags) ORDER BY created_at DESC`,
			wantArgs: []any{"openai"},
		},
		{
			name:     "all predicates",
			filter:   SummaryFilter{Category: "LLM", Tag: "openai", IsNew: boolPtr(true)},
			wantSQL:  `SELECT ` + summaryColumns + ` FROM summaries WHERE category = $1 AND $2 = ANY(tags) AND is_new = $3 ORDER BY created_at DESC`,
			wantArgs: []any{"LLM", "openai", true},
		},
		{
			name:     "explicitly read",
			filter:   SummaryFilter{IsNew: boolPtr(false)},
			wantSQL:  `SELECT ` + summaryColumns + ` FROM summaries WHERE is_new = $1 ORDER BY created_at DESC`,
			wantArgs: []any{false},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, args := summariesListQuery(tc.filter)
			assert.Equal(t, tc.wantSQL, q)
			assert.Equal(t, tc.wantArgs, args)
		})
	}
}

func TestDBSummaryToModel(t *testing.T) {
	r := dbSummary{
		ID:         "abc",
		SourceName: "Single URL",
		URL:        "https://example.org/post",
		Title:      "Titre",
	}

	m := r.toModel()

	require.Nil(t, m.SourceID)
	require.Nil(t, m.Category)
	assert.NotNil(t, m.Tags, "tags must serialize as [], never null")
	assert.Empty(t, m.Tags)

	r.SourceID = sql.NullString{String: "src-1", Valid: true}
	r.Category = sql.NullString{String: "LLM", Valid: true}
	r.Tags = []string{"a", "b"}

	m = r.toModel()
	require.NotNil(t, m.SourceID)
	assert.Equal(t, "src-1", *m.SourceID)
	require.NotNil(t, m.Category)
	assert.Equal(t, "LLM", *m.Category)
	assert.Equal(t, []string{"a", "b"}, m.Tags)
}
