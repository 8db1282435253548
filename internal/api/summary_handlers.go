package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/agentit/Prompty-Veille/internal/extract"
	"github.com/agentit/Prompty-Veille/internal/metrics"
	"github.com/agentit/Prompty-Veille/internal/model"
	"github.com/agentit/Prompty-Veille/internal/storage"
)

// maxStoredContentLen bounds the extracted text kept on a process-url summary.
const maxStoredContentLen = 5000

func (s *Server) listSummaries(c echo.Context) error {
	filter := storage.SummaryFilter{
		Category: c.QueryParam("category"),
		Tag:      c.QueryParam("tag"),
	}
	if raw := c.QueryParam("is_new"); raw != "" {
		isNew, err := strconv.ParseBool(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "is_new must be a boolean"})
		}
		filter.IsNew = &isNew
	}

	summaries, err := s.summaries.List(c.Request().Context(), filter)
	if err != nil {
		return storeError(c, err, "Summary not found")
	}
	if summaries == nil {
		summaries = []model.Summary{}
	}
	return c.JSON(http.StatusOK, summaries)
}

func (s *Server) getSummary(c echo.Context) error {
	sum, err := s.summaries.SummaryByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeError(c, err, "Summary not found")
	}
	return c.JSON(http.StatusOK, sum)
}

func (s *Server) markSummaryRead(c echo.Context) error {
	if err := s.summaries.MarkRead(c.Request().Context(), c.Param("id")); err != nil {
		return storeError(c, err, "Summary not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Marked as read"})
}

func (s *Server) deleteSummary(c echo.Context) error {
	if err := s.summaries.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return storeError(c, err, "Summary not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Summary deleted"})
}

// processURL extracts and summarizes a single page on demand. The summary is
// born read and carries no source linkage; it is persisted only on save.
func (s *Server) processURL(c echo.Context) error {
	var req model.ProcessURLRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.URL == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "url is required"})
	}

	ctx := c.Request().Context()

	page, err := s.extractor.Extract(ctx, req.URL)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": fmt.Sprintf("Failed to extract content: %v", err),
		})
	}

	text, err := s.summarizer.Summarize(ctx, page.Title, page.Content)
	if err != nil {
		metrics.LLMFailuresTotal.Inc()
		return storeError(c, err, "Summary not found")
	}

	sum := model.Summary{
		SourceName: "Single URL",
		URL:        req.URL,
		Title:      page.Title,
		Content:    extract.Truncate(page.Content, maxStoredContentLen),
		Summary:    text,
		Tags:       []string{},
		IsNew:      false,
	}

	if req.Save {
		stored, err := s.summaries.Add(ctx, sum)
		if err != nil {
			return storeError(c, err, "Summary not found")
		}
		metrics.SummariesCreatedTotal.WithLabelValues(metrics.OriginManual).Inc()
		return c.JSON(http.StatusOK, stored)
	}

	// An unsaved summary still gets an identity so the response shape does
	// not depend on save.
	sum.ID = uuid.NewString()
	sum.CreatedAt = time.Now().UTC()
	return c.JSON(http.StatusOK, sum)
}
