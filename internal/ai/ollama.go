package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// OllamaProvider runs generation against a local ollama daemon. Useful for
// development without an OpenRouter key.
type OllamaProvider struct {
	BaseURL string
	Model   string
	Client  *http.Client
}

func NewOllamaProvider(baseURL, model string) *OllamaProvider {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3:latest"
	}
	return &OllamaProvider{
		BaseURL: baseURL,
		Model:   model,
		Client:  &http.Client{Timeout: 90 * time.Second},
	}
}

type ollamaMsg struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type ollamaChatReq struct {
	Model    string         `json:"model"`
	Messages []ollamaMsg    `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"`
}

type ollamaChatResp struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Error string `json:"error,omitempty"`
}

func (p *OllamaProvider) Generate(ctx context.Context, genReq GenerateRequest) (string, error) {
	if p.Client == nil {
		return "", NewProviderError("ollama", errors.New("http client is nil"))
	}

	msg := ollamaMsg{Role: "user", Content: genReq.Prompt}
	if genReq.ImageBase64 != "" {
		msg.Images = []string{genReq.ImageBase64}
	}

	reqBody := ollamaChatReq{
		Model:    p.Model,
		Stream:   false,
		Messages: []ollamaMsg{msg},
	}
	if genReq.MaxOutputTokens > 0 {
		reqBody.Options = map[string]any{"num_predict": genReq.MaxOutputTokens}
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/api/chat", p.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", NewProviderError("ollama", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", NewProviderError("ollama", fmt.Errorf("status %d", resp.StatusCode))
	}

	var decoded ollamaChatResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", NewProviderError("ollama", err)
	}
	if decoded.Error != "" {
		return "", NewProviderError("ollama", errors.New(decoded.Error))
	}
	return decoded.Message.Content, nil
}
