package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type OpenRouterProvider struct {
	BaseURL string
	APIKey  string
	Model   string
	SiteURL string
	AppName string
	Client  *http.Client
}

// openRouterContent is one part of a multimodal user message. Text parts
// carry Text; image parts carry ImageURL with a data: URI.
type openRouterContent struct {
	Type     string              `json:"type"`
	Text     string              `json:"text,omitempty"`
	ImageURL *openRouterImageURL `json:"image_url,omitempty"`
}

type openRouterImageURL struct {
	URL string `json:"url"`
}

type openRouterMsg struct {
	Role    string              `json:"role"`
	Content []openRouterContent `json:"content"`
}

type openRouterChatReq struct {
	Model     string          `json:"model"`
	Messages  []openRouterMsg `json:"messages"`
	MaxTokens int             `json:"max_tokens,omitempty"`
}

type openRouterChatResp struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewOpenRouterProvider(baseURL, apiKey, model, siteURL, appName string) *OpenRouterProvider {
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}
	return &OpenRouterProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		SiteURL: siteURL,
		AppName: appName,
		Client:  &http.Client{Timeout: 90 * time.Second},
	}
}

func (p *OpenRouterProvider) Generate(ctx context.Context, genReq GenerateRequest) (string, error) {
	if p.Client == nil {
		return "", NewProviderError("openrouter", errors.New("http client is nil"))
	}
	if strings.TrimSpace(p.APIKey) == "" {
		return "", NewProviderError("openrouter", errors.New("api key is required"))
	}
	model := strings.TrimSpace(p.Model)
	if model == "" {
		return "", NewProviderError("openrouter", errors.New("model is required"))
	}

	parts := []openRouterContent{{Type: "text", Text: genReq.Prompt}}
	if genReq.ImageBase64 != "" {
		media := genReq.ImageMediaType
		if media == "" {
			media = "image/png"
		}
		parts = append(parts, openRouterContent{
			Type:     "image_url",
			ImageURL: &openRouterImageURL{URL: fmt.Sprintf("data:%s;base64,%s", media, genReq.ImageBase64)},
		})
	}

	reqBody := openRouterChatReq{
		Model:     model,
		MaxTokens: genReq.MaxOutputTokens,
		Messages:  []openRouterMsg{{Role: "user", Content: parts}},
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/chat/completions", strings.TrimRight(p.BaseURL, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)
	if p.SiteURL != "" {
		req.Header.Set("HTTP-Referer", p.SiteURL)
	}
	if p.AppName != "" {
		req.Header.Set("X-Title", p.AppName)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", NewProviderError("openrouter", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return "", NewProviderError("openrouter", errors.New(msg))
	}

	var decoded openRouterChatResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", NewProviderError("openrouter", err)
	}
	if decoded.Error != nil && decoded.Error.Message != "" {
		return "", NewProviderError("openrouter", errors.New(decoded.Error.Message))
	}
	if len(decoded.Choices) == 0 {
		return "", NewProviderError("openrouter", errors.New("empty response"))
	}
	return decoded.Choices[0].Message.Content, nil
}
