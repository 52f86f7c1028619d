package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v5"
)

func (s *Server) handleListModels(c *echo.Context) error {
	ids, err := s.provider.ListModels()
	if err != nil {
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error(), "", "")
	}

	data := make([]ModelInfo, 0, len(ids))
	for _, id := range ids {
		data = append(data, ModelInfo{
			ID:      id,
			Object:  "model",
			Created: s.clock().Unix(),
			OwnedBy: "local",
		})
	}
	return c.JSON(http.StatusOK, ModelList{
		Object: "list",
		Data:   data,
	})
}

func (s *Server) handleRetrieveModel(c *echo.Context) error {
	id := c.Param("id")
	ids, err := s.provider.ListModels()
	if err != nil {
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error(), "", "")
	}
	for _, known := range ids {
		if known == id {
			return c.JSON(http.StatusOK, ModelInfo{
				ID:      id,
				Object:  "model",
				Created: s.clock().Unix(),
				OwnedBy: "local",
			})
		}
	}
	return writeNotFound(c, fmt.Sprintf("model %q not found", id))
}

// Models are baked in at startup; deletion is acknowledged for API
// compatibility but never performed.
func (s *Server) handleDeleteModel(c *echo.Context) error {
	id := c.Param("id")
	ids, err := s.provider.ListModels()
	if err != nil {
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error(), "", "")
	}
	for _, known := range ids {
		if known == id {
			return c.JSON(http.StatusOK, map[string]any{
				"id":      id,
				"object":  "model",
				"deleted": false,
			})
		}
	}
	return writeNotFound(c, fmt.Sprintf("model %q not found", id))
}
