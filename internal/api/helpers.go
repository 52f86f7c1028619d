package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v5"

	"github.com/synapforge/forgellm/internal/inference"
)

func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	dec := json.NewDecoder(r)
	if err := dec.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg, "", "")
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeError(c, http.StatusNotFound, "not_found_error", msg, "", "")
}

func writeError(c *echo.Context, status int, errType, msg, param, code string) error {
	return c.JSON(status, map[string]any{
		"error": ResponseError{
			Message: msg,
			Type:    errType,
			Code:    code,
			Param:   param,
		},
	})
}

// coercePrompt accepts the prompt forms the completion endpoint
// supports: a plain string or a single-element string array. Batched
// prompts are rejected.
func coercePrompt(prompt any) (string, error) {
	switch v := prompt.(type) {
	case string:
		return v, nil
	case []any:
		if len(v) != 1 {
			return "", newInvalidRequest(fmt.Sprintf("prompt array must contain exactly one entry, got %d", len(v)))
		}
		s, ok := v[0].(string)
		if !ok {
			return "", newInvalidRequest("prompt array entries must be strings")
		}
		return s, nil
	case nil:
		return "", newInvalidRequest("prompt is required")
	default:
		return "", newInvalidRequest("prompt must be a string or an array of strings")
	}
}

// chatPrompt flattens a message list into the prompt the decode loop
// consumes: "role:content" pairs joined with single spaces.
func chatPrompt(msgs []ChatMessage) string {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		parts = append(parts, m.Role+":"+m.Content)
	}
	return strings.Join(parts, " ")
}

// resolveOptions maps the wire knobs onto a generation request.
// frequency_penalty stands in for repeat_penalty when only the former
// is supplied.
func resolveOptions(prompt string, opts SamplingOptions) (*inference.Request, error) {
	ro := inference.RequestOptions{
		Prompt:        prompt,
		MaxTokens:     opts.MaxTokens,
		Seed:          opts.Seed,
		Temperature:   opts.Temperature,
		TopK:          opts.TopK,
		TopP:          opts.TopP,
		RepeatPenalty: opts.RepeatPenalty,
		RepeatLastN:   opts.RepeatLastN,
	}
	if ro.RepeatPenalty == nil && opts.FrequencyPenalty != nil {
		ro.RepeatPenalty = opts.FrequencyPenalty
	}
	req, err := inference.ResolveRequest(ro)
	if err != nil {
		return nil, newInvalidRequest(err.Error())
	}
	return req, nil
}

// validateCommon rejects the request shapes the server does not
// implement rather than silently ignoring them.
func validateCommon(n *int) error {
	if n != nil && *n != 1 {
		return newInvalidRequest("n must be 1")
	}
	return nil
}
