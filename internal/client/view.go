package client

import (
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/agentit/Prompty-Veille/internal/model"
)

// Sort modes for SortSummaries.
const (
	SortRecent   = "recent"
	SortCategory = "category"
)

// FilterSummaries keeps the summaries matching category (equality) and tag
// (membership). Empty filters pass everything.
func FilterSummaries(summaries []model.Summary, category, tag string) []model.Summary {
	return lo.Filter(summaries, func(s model.Summary, _ int) bool {
		if category != "" && (s.Category == nil || *s.Category != category) {
			return false
		}
		if tag != "" && !slices.Contains(s.Tags, tag) {
			return false
		}
		return true
	})
}

// SortSummaries returns a sorted copy. SortRecent orders by created_at
// descending; SortCategory groups by category ascending (case-insensitive,
// uncategorized last) with created_at descending inside each group. The sort
// is stable; unknown modes fall back to SortRecent.
func SortSummaries(summaries []model.Summary, mode string) []model.Summary {
	out := slices.Clone(summaries)

	slices.SortStableFunc(out, func(a, b model.Summary) int {
		if mode == SortCategory {
			if c := compareCategories(a.Category, b.Category); c != 0 {
				return c
			}
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return out
}

func compareCategories(a, b *string) int {
	av, bv := categoryKey(a), categoryKey(b)
	switch {
	case av == bv:
		return 0
	case av == "": // uncategorized sorts last
		return 1
	case bv == "":
		return -1
	default:
		return strings.Compare(av, bv)
	}
}

func categoryKey(c *string) string {
	if c == nil {
		return ""
	}
	return strings.ToLower(*c)
}
