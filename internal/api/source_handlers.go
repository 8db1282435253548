package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agentit/Prompty-Veille/internal/model"
)

func (s *Server) createSource(c echo.Context) error {
	var in model.SourceInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if in.Name == "" || in.URL == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and url are required"})
	}

	src, err := s.sources.Add(c.Request().Context(), in)
	if err != nil {
		return storeError(c, err, "Source not found")
	}
	return c.JSON(http.StatusOK, src)
}

func (s *Server) listSources(c echo.Context) error {
	sources, err := s.sources.Sources(c.Request().Context())
	if err != nil {
		return storeError(c, err, "Source not found")
	}
	if sources == nil {
		sources = []model.Source{}
	}
	return c.JSON(http.StatusOK, sources)
}

func (s *Server) getSource(c echo.Context) error {
	src, err := s.sources.SourceByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeError(c, err, "Source not found")
	}
	return c.JSON(http.StatusOK, src)
}

func (s *Server) updateSource(c echo.Context) error {
	var in model.SourceInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if in.Name == "" || in.URL == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and url are required"})
	}

	src, err := s.sources.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return storeError(c, err, "Source not found")
	}
	return c.JSON(http.StatusOK, src)
}

func (s *Server) deleteSource(c echo.Context) error {
	if err := s.sources.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return storeError(c, err, "Source not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Source deleted"})
}

func (s *Server) toggleSource(c echo.Context) error {
	active, err := s.sources.Toggle(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeError(c, err, "Source not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"active": active})
}
