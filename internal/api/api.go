// Package api exposes the veille service over REST. All domain routes live
// under /api and speak JSON; errors reduce to {"error": ...} with the
// matching status.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agentit/Prompty-Veille/internal/extract"
	"github.com/agentit/Prompty-Veille/internal/model"
	"github.com/agentit/Prompty-Veille/internal/storage"
)

type SourceStore interface {
	Sources(ctx context.Context) ([]model.Source, error)
	SourceByID(ctx context.Context, id string) (model.Source, error)
	Add(ctx context.Context, in model.SourceInput) (model.Source, error)
	Update(ctx context.Context, id string, in model.SourceInput) (model.Source, error)
	Delete(ctx context.Context, id string) error
	Toggle(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
	CountActive(ctx context.Context) (int, error)
	DistinctCategories(ctx context.Context) ([]string, error)
}

type SummaryStore interface {
	List(ctx context.Context, f storage.SummaryFilter) ([]model.Summary, error)
	SummaryByID(ctx context.Context, id string) (model.Summary, error)
	SummariesByIDs(ctx context.Context, ids []string) ([]model.Summary, error)
	Add(ctx context.Context, sum model.Summary) (model.Summary, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	CountNew(ctx context.Context) (int, error)
	DistinctTags(ctx context.Context) ([]string, error)
	DistinctCategories(ctx context.Context) ([]string, error)
}

type ArticleStore interface {
	Articles(ctx context.Context) ([]model.Article, error)
	ArticleByID(ctx context.Context, id string) (model.Article, error)
	Add(ctx context.Context, a model.Article) (model.Article, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type Extractor interface {
	Extract(ctx context.Context, url string) (extract.Page, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, title, content string) (string, error)
}

type Compiler interface {
	Compile(ctx context.Context, title, theme string, summaries []model.Summary) (model.Article, error)
}

// Checker triggers the background source check. StartCheck reports false
// when a run is already in flight.
type Checker interface {
	StartCheck(ctx context.Context) bool
}

type Server struct {
	sources    SourceStore
	summaries  SummaryStore
	articles   ArticleStore
	extractor  Extractor
	summarizer Summarizer
	compiler   Compiler
	checker    Checker
}

func New(
	sources SourceStore,
	summaries SummaryStore,
	articles ArticleStore,
	extractor Extractor,
	summarizer Summarizer,
	compiler Compiler,
	checker Checker,
) *Server {
	return &Server{
		sources:    sources,
		summaries:  summaries,
		articles:   articles,
		extractor:  extractor,
		summarizer: summarizer,
		compiler:   compiler,
		checker:    checker,
	}
}

// Router builds the echo instance with middleware and every route mounted.
func (s *Server) Router(corsOrigins []string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: corsOrigins,
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
	}))
	e.Use(requestLogger)

	e.GET("/healthz", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	api.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"message": "Prompty-Veille API"})
	})

	api.POST("/sources", s.createSource)
	api.GET("/sources", s.listSources)
	api.GET("/sources/:id", s.getSource)
	api.PUT("/sources/:id", s.updateSource)
	api.DELETE("/sources/:id", s.deleteSource)
	api.POST("/sources/:id/toggle", s.toggleSource)

	api.GET("/summaries", s.listSummaries)
	api.GET("/summaries/:id", s.getSummary)
	api.POST("/summaries/:id/mark-read", s.markSummaryRead)
	api.DELETE("/summaries/:id", s.deleteSummary)

	api.POST("/process-url", s.processURL)

	api.POST("/articles", s.createArticle)
	api.GET("/articles", s.listArticles)
	api.GET("/articles/:id", s.getArticle)
	api.DELETE("/articles/:id", s.deleteArticle)

	api.GET("/tags", s.listTags)
	api.GET("/categories", s.listCategories)
	api.GET("/stats", s.getStats)
	api.POST("/check-sources", s.checkSources)

	return e
}

func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		req := c.Request()
		slog.Info("request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", c.Response().Status,
			"took", time.Since(start),
		)
		return err
	}
}

// storeError maps storage misses to 404 and everything else to a logged 500.
func storeError(c echo.Context, err error, notFoundMsg string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": notFoundMsg})
	}
	slog.Error("storage failure", "path", c.Request().URL.Path, "error", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
