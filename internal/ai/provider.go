package ai

import (
	"context"
	"errors"
	"fmt"
)

// GenerateRequest is a single-shot generation call. Image, when set, is a
// base64 payload attached to the prompt (homework solving).
type GenerateRequest struct {
	Prompt          string
	MaxOutputTokens int

	ImageBase64    string
	ImageMediaType string
}

type Provider interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// ProviderError covers transport failures, non-2xx responses, empty
// responses and output that violates the expected structure. Callers treat
// all of these the same way: the generation failed, no automatic retry.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: err}
}

// IsProviderError reports whether err is (or wraps) a ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
