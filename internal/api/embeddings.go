package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/synapforge/forgellm/internal/inference"
)

func (s *Server) handleEmbeddings(c *echo.Context) error {
	req, err := decodeJSON[EmbeddingsRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	inputs, err := coerceEmbeddingInput(req.Input)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}

	data := make([]EmbeddingItem, 0, len(inputs))
	var promptTokens int
	err = s.provider.WithEngine(c.Request().Context(), req.Model, func(engine inference.Engine) error {
		emb, ok := engine.(inference.Embedder)
		if !ok {
			return inference.ErrNotSupported
		}
		for i, input := range inputs {
			vec, err := emb.Embed(c.Request().Context(), input)
			if err != nil {
				return err
			}
			data = append(data, EmbeddingItem{
				Object:    "embedding",
				Index:     i,
				Embedding: vec,
			})
			promptTokens += len(input)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, inference.ErrNotSupported):
			return writeError(c, http.StatusNotImplemented, "server_error", "embeddings are not supported by the loaded model", "", "")
		case errors.Is(err, ErrInvalidRequest):
			return writeBadRequest(c, err.Error())
		default:
			return writeError(c, http.StatusInternalServerError, "server_error", err.Error(), "", "")
		}
	}

	model := req.Model
	if model == "" {
		model = s.defaultModel()
	}
	return c.JSON(http.StatusOK, EmbeddingsResponse{
		Object: "list",
		Data:   data,
		Model:  model,
		Usage: Usage{
			PromptTokens: promptTokens,
			TotalTokens:  promptTokens,
		},
	})
}

func coerceEmbeddingInput(input any) ([]string, error) {
	switch v := input.(type) {
	case string:
		return []string{v}, nil
	case []any:
		if len(v) == 0 {
			return nil, newInvalidRequest("input must not be empty")
		}
		out := make([]string, 0, len(v))
		for i, raw := range v {
			s, ok := raw.(string)
			if !ok {
				return nil, newInvalidRequest(fmt.Sprintf("input[%d] must be a string", i))
			}
			out = append(out, s)
		}
		return out, nil
	case nil:
		return nil, newInvalidRequest("input is required")
	default:
		return nil, newInvalidRequest("input must be a string or an array of strings")
	}
}
