package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/agentit/Prompty-Veille/internal/model"
)

func (s *Server) listTags(c echo.Context) error {
	tags, err := s.summaries.DistinctTags(c.Request().Context())
	if err != nil {
		return storeError(c, err, "Summary not found")
	}
	if tags == nil {
		tags = []string{}
	}
	return c.JSON(http.StatusOK, tags)
}

// listCategories unions the categories seen on sources and on summaries.
func (s *Server) listCategories(c echo.Context) error {
	ctx := c.Request().Context()

	fromSources, err := s.sources.DistinctCategories(ctx)
	if err != nil {
		return storeError(c, err, "Source not found")
	}
	fromSummaries, err := s.summaries.DistinctCategories(ctx)
	if err != nil {
		return storeError(c, err, "Summary not found")
	}

	categories := lo.Uniq(append(fromSources, fromSummaries...))
	if categories == nil {
		categories = []string{}
	}
	return c.JSON(http.StatusOK, categories)
}

func (s *Server) getStats(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		stats model.Stats
		err   error
	)
	if stats.TotalSources, err = s.sources.Count(ctx); err != nil {
		return storeError(c, err, "Source not found")
	}
	if stats.ActiveSources, err = s.sources.CountActive(ctx); err != nil {
		return storeError(c, err, "Source not found")
	}
	if stats.TotalSummaries, err = s.summaries.Count(ctx); err != nil {
		return storeError(c, err, "Summary not found")
	}
	if stats.NewSummaries, err = s.summaries.CountNew(ctx); err != nil {
		return storeError(c, err, "Summary not found")
	}
	if stats.TotalArticles, err = s.articles.Count(ctx); err != nil {
		return storeError(c, err, "Article not found")
	}

	return c.JSON(http.StatusOK, stats)
}

// checkSources kicks the source check off in the background and replies
// immediately; a second trigger while one runs is acknowledged as such.
func (s *Server) checkSources(c echo.Context) error {
	// The run outlives the request; only detach its cancellation.
	if !s.checker.StartCheck(context.WithoutCancel(c.Request().Context())) {
		return c.JSON(http.StatusOK, echo.Map{"message": "Source check already running"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Source check started in background"})
}
