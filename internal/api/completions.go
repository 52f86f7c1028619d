package api

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/synapforge/forgellm/internal/inference"
)

func (s *Server) handleCompletions(c *echo.Context) error {
	req, err := decodeJSON[CompletionRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	if req.Stream != nil && *req.Stream {
		return writeBadRequest(c, "streaming is not supported on this endpoint; use /v1/chat/completions")
	}
	if err := validateCommon(req.N); err != nil {
		return writeBadRequest(c, err.Error())
	}

	prompt, err := coercePrompt(req.Prompt)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	inferReq, err := resolveOptions(prompt, req.SamplingOptions)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}

	var result *inference.Result
	err = s.provider.WithEngine(c.Request().Context(), req.Model, func(engine inference.Engine) error {
		r, err := engine.Generate(c.Request().Context(), inferReq, nil)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidRequest) {
			return writeBadRequest(c, err.Error())
		}
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error(), "", "")
	}

	model := req.Model
	if model == "" {
		model = s.defaultModel()
	}
	return c.JSON(http.StatusOK, CompletionResponse{
		ID:      "cmpl-" + uuid.NewString(),
		Object:  "text_completion",
		Created: s.clock().Unix(),
		Model:   model,
		Choices: []CompletionChoice{
			{
				Index:        0,
				Text:         result.Text,
				FinishReason: result.FinishReason,
			},
		},
		Usage: Usage{
			PromptTokens:     result.Stats.PromptTokens,
			CompletionTokens: result.Stats.TokensGenerated,
			TotalTokens:      result.Stats.PromptTokens + result.Stats.TokensGenerated,
		},
	})
}

func (s *Server) defaultModel() string {
	models, err := s.provider.ListModels()
	if err != nil || len(models) == 0 {
		return "forgellm"
	}
	return models[0]
}
