package answer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/tidwall/gjson"

	"github.com/mycosoft/unified-search/internal/conf"
	"github.com/mycosoft/unified-search/internal/pkg/httpclient"
	"github.com/mycosoft/unified-search/internal/pkg/retry"
)

const (
	ProviderMYCA      = "myca"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGroq      = "groq"
	ProviderLocal     = "local_knowledge"
)

// Fixed confidence per provider, highest for the in-house backend
const (
	confidenceMYCA      = 0.95
	confidenceOpenAI    = 0.90
	confidenceAnthropic = 0.88
	confidenceGroq      = 0.85
)

// StatusOverloaded is returned by Anthropic when the API is saturated
const StatusOverloaded = 529

const maxReplyBytes = 1 << 20

// DefaultSteps builds the provider chain in resolution order. Adding or
// removing a provider is an edit to this list.
func DefaultSteps(cfg conf.AIConfig) []Step {
	client := httpclient.New(0)
	return []Step{
		MYCAStep(cfg.MYCA, stepTimeout(cfg.MYCA, cfg), cfg.Retry, client),
		OpenAICompatibleStep(ProviderOpenAI, confidenceOpenAI, cfg.OpenAI, stepTimeout(cfg.OpenAI, cfg), cfg.Retry, client),
		AnthropicStep(cfg.Anthropic, stepTimeout(cfg.Anthropic, cfg), cfg.Retry, client),
		OpenAICompatibleStep(ProviderGroq, confidenceGroq, cfg.Groq, stepTimeout(cfg.Groq, cfg), cfg.Retry, client),
	}
}

func stepTimeout(p conf.ProviderConfig, cfg conf.AIConfig) time.Duration {
	if p.Timeout > 0 {
		return p.Timeout
	}
	return cfg.Timeout
}

// MYCAStep calls the in-house conversational backend. It is skipped when no
// base URL is configured; the API key is optional.
func MYCAStep(cfg conf.ProviderConfig, timeout time.Duration, rc retry.Config, client *http.Client) Step {
	return Step{
		Name:       ProviderMYCA,
		Confidence: confidenceMYCA,
		Timeout:    timeout,
		Call: func(ctx context.Context, p *Prompt) (*Reply, error) {
			if cfg.BaseURL == "" {
				return nil, ErrNoCredential
			}
			body := map[string]interface{}{
				"message": p.Query,
				"context": p.Context,
				"source":  "unified-search",
			}
			headers := map[string]string{}
			if cfg.APIKey != "" {
				headers["Authorization"] = "Bearer " + cfg.APIKey
			}

			res, err := postJSON(ctx, client, rc, strings.TrimRight(cfg.BaseURL, "/")+"/api/myca/chat", body, headers)
			if err != nil {
				return nil, err
			}
			return &Reply{
				Text:    firstString(res, "response", "answer", "text", "message", "data.response", "data.answer"),
				Sources: sourceList(res.Get("sources")),
			}, nil
		},
	}
}

// OpenAICompatibleStep serves OpenAI and any OpenAI-compatible API (Groq)
// through go-openai, with the retry policy applied at the transport.
func OpenAICompatibleStep(name string, confidence float64, cfg conf.ProviderConfig, timeout time.Duration, rc retry.Config, client *http.Client) Step {
	var api *openai.Client
	if cfg.APIKey != "" {
		clientCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
		}
		clientCfg.HTTPClient = retry.NewClient(client, rc)
		api = openai.NewClientWithConfig(clientCfg)
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	return Step{
		Name:       name,
		Confidence: confidence,
		Timeout:    timeout,
		Call: func(ctx context.Context, p *Prompt) (*Reply, error) {
			if api == nil {
				return nil, ErrNoCredential
			}
			resp, err := api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
				Model:       model,
				MaxTokens:   cfg.MaxTokens,
				Temperature: 0.3,
				Messages: []openai.ChatCompletionMessage{
					{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
					{Role: openai.ChatMessageRoleUser, Content: userMessage(p)},
				},
			})
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			if len(resp.Choices) == 0 {
				return nil, ErrEmptyAnswer
			}
			return &Reply{Text: resp.Choices[0].Message.Content}, nil
		},
	}
}

// AnthropicStep calls the Messages API directly. 529 (overloaded) is
// retried on top of the shared status set.
func AnthropicStep(cfg conf.ProviderConfig, timeout time.Duration, rc retry.Config, client *http.Client) Step {
	rc = rc.WithStatuses(StatusOverloaded)
	base := cfg.BaseURL
	if base == "" {
		base = "https://api.anthropic.com"
	}

	return Step{
		Name:       ProviderAnthropic,
		Confidence: confidenceAnthropic,
		Timeout:    timeout,
		Call: func(ctx context.Context, p *Prompt) (*Reply, error) {
			if cfg.APIKey == "" {
				return nil, ErrNoCredential
			}
			maxTokens := cfg.MaxTokens
			if maxTokens <= 0 {
				maxTokens = 500
			}
			body := map[string]interface{}{
				"model":      cfg.Model,
				"max_tokens": maxTokens,
				"system":     systemPrompt,
				"messages": []map[string]string{
					{"role": "user", "content": userMessage(p)},
				},
			}
			headers := map[string]string{
				"x-api-key":         cfg.APIKey,
				"anthropic-version": "2023-06-01",
			}

			res, err := postJSON(ctx, client, rc, strings.TrimRight(base, "/")+"/v1/messages", body, headers)
			if err != nil {
				return nil, err
			}
			return &Reply{Text: firstString(res, `content.#(type=="text").text`, "content.0.text", "completion")}, nil
		},
	}
}

// ProviderError is a non-2xx reply that was not retried or outlived the retries
type ProviderError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("answer provider %s returned %d: %s", e.URL, e.StatusCode, e.Body)
}

func postJSON(ctx context.Context, client *http.Client, rc retry.Config, url string, body interface{}, headers map[string]string) (gjson.Result, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := retry.Do(ctx, rc, func(ctx context.Context) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		return client.Do(req)
	})
	if err != nil {
		return gjson.Result{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return gjson.Result{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(data)
		if len(msg) > 200 {
			msg = msg[:200]
		}
		return gjson.Result{}, &ProviderError{URL: url, StatusCode: resp.StatusCode, Body: msg}
	}
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, fmt.Errorf("answer provider %s returned malformed JSON", url)
	}
	return gjson.ParseBytes(data), nil
}

func firstString(r gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := r.Get(p); v.Type == gjson.String && strings.TrimSpace(v.Str) != "" {
			return v.Str
		}
	}
	return ""
}

func sourceList(v gjson.Result) []string {
	if !v.IsArray() {
		return nil
	}
	var out []string
	for _, el := range v.Array() {
		s := el.String()
		if el.IsObject() {
			s = firstString(el, "title", "name", "url")
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
