package api

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/synapforge/forgellm/internal/inference"
)

func (s *Server) handleChatCompletions(c *echo.Context) error {
	req, err := decodeJSON[ChatCompletionRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	if len(req.Messages) == 0 {
		return writeBadRequest(c, "messages is required and must not be empty")
	}
	if req.Stream != nil && *req.Stream {
		return writeBadRequest(c, "streaming responses are not supported")
	}
	if err := validateCommon(req.N); err != nil {
		return writeBadRequest(c, err.Error())
	}

	inferReq, err := resolveOptions(chatPrompt(req.Messages), req.SamplingOptions)
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
	finishReason := result.FinishReason
	return c.JSON(http.StatusOK, ChatCompletionResponse{
		ID:      "chatcmpl-" + uuid.NewString(),
		Object:  "chat.completion",
		Created: s.clock().Unix(),
		Model:   model,
		Choices: []ChatChoice{
			{
				Index: 0,
				Message: &ChatMessage{
					Role:    "assistant",
					Content: result.Text,
				},
				FinishReason: &finishReason,
			},
		},
		Usage: Usage{
			PromptTokens:     result.Stats.PromptTokens,
			CompletionTokens: result.Stats.TokensGenerated,
			TotalTokens:      result.Stats.PromptTokens + result.Stats.TokensGenerated,
		},
	})
}
