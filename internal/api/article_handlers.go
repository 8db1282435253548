package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agentit/Prompty-Veille/internal/metrics"
	"github.com/agentit/Prompty-Veille/internal/model"
)

// createArticle compiles the requested summaries into one long form article
// and stores it. Unknown summary ids are skipped; the request fails only
// when none of them exist.
func (s *Server) createArticle(c echo.Context) error {
	var req model.CompileArticleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Title == "" || req.Theme == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and theme are required"})
	}

	ctx := c.Request().Context()

	summaries, err := s.summaries.SummariesByIDs(ctx, req.SummaryIDs)
	if err != nil {
		return storeError(c, err, "Summary not found")
	}
	if len(summaries) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "No summaries found"})
	}

	article, err := s.compiler.Compile(ctx, req.Title, req.Theme, summaries)
	if err != nil {
		metrics.LLMFailuresTotal.Inc()
		return storeError(c, err, "Article not found")
	}

	stored, err := s.articles.Add(ctx, article)
	if err != nil {
		return storeError(c, err, "Article not found")
	}

	metrics.ArticlesCompiledTotal.Inc()
	return c.JSON(http.StatusOK, stored)
}

func (s *Server) listArticles(c echo.Context) error {
	articles, err := s.articles.Articles(c.Request().Context())
	if err != nil {
		return storeError(c, err, "Article not found")
	}
	if articles == nil {
		articles = []model.Article{}
	}
	return c.JSON(http.StatusOK, articles)
}

func (s *Server) getArticle(c echo.Context) error {
	article, err := s.articles.ArticleByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeError(c, err, "Article not found")
	}
	return c.JSON(http.StatusOK, article)
}

func (s *Server) deleteArticle(c echo.Context) error {
	if err := s.articles.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return storeError(c, err, "Article not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Article deleted"})
}
