package validate

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAI validates keys by listing models, the cheapest authenticated call the
// API offers.
type OpenAI struct {
	// BaseURL overrides the API root (default https://api.openai.com/v1).
	BaseURL string
	// HTTPClient is used for every request; nil means http.DefaultClient.
	HTTPClient *http.Client
}

func (o *OpenAI) Validate(ctx context.Context, key string) (bool, error) {
	cfg := openai.DefaultConfig(key)
	if o.BaseURL != "" {
		cfg.BaseURL = o.BaseURL
	}
	if o.HTTPClient != nil {
		cfg.HTTPClient = o.HTTPClient
	}
	client := openai.NewClientWithConfig(cfg)
	_, err := client.ListModels(ctx)
	switch {
	case err == nil:
		return true, nil
	case isUnauthorized(err):
		return false, nil
	default:
		return false, fmt.Errorf("openai list models: %w", err)
	}
}

func isUnauthorized(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusUnauthorized
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusUnauthorized
	}
	return errors.Is(err, ErrUnauthorized)
}
