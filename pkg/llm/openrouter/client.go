package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/zhiyanlab/research-match/pkg/llm"
)

const defaultBaseURL = "https://openrouter.ai/api/v1"

// Client is a minimal OpenRouter (OpenAI-compatible) chat completions client
// implementing llm.Gateway. One outbound HTTPS call per Invoke, 60 s timeout,
// no retries.
type Client struct {
	APIKey   string
	BaseURL  string
	Model    string
	AppTitle string
	Referer  string
	httpDo   *http.Client
}

func New(apiKey, baseURL, model, appTitle, referer string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		APIKey:   apiKey,
		BaseURL:  baseURL,
		Model:    model,
		AppTitle: appTitle,
		Referer:  referer,
		httpDo: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type responseFormat struct {
	Type       string     `json:"type"`
	JSONSchema llm.Schema `json:"json_schema"`
}

type chatCompletionsRequest struct {
	Model    string        `json:"model"`
	Messages []llm.Message `json:"messages"`
	// Keep defaults conservative; callers can change by editing fields if needed.
	Temperature    float32         `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatChoice struct {
	Index   int `json:"index"`
	Message struct {
		Role string `json:"role"`
		// Content is usually a string, but some backends return the
		// structured object directly in JSON mode.
		Content json.RawMessage `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

type chatCompletionsResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
}

// Invoke sends the conversation to OpenRouter and returns the first choice.
func (c *Client) Invoke(ctx context.Context, req llm.Request) (llm.Result, error) {
	if c.APIKey == "" {
		return llm.Result{}, &llm.GatewayError{
			Kind: llm.ErrKindConfig,
			Op:   "invoke",
			Err:  errors.New("openrouter api key is empty"),
		}
	}
	model := c.Model
	if model == "" {
		model = "deepseek/deepseek-chat-v3.1"
	}
	reqBody := chatCompletionsRequest{
		Model:       model,
		Messages:    req.Messages,
		Temperature: 0.2,
	}
	if req.ResponseSchema != nil {
		reqBody.ResponseFormat = &responseFormat{
			Type:       "json_schema",
			JSONSchema: *req.ResponseSchema,
		}
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return llm.Result{}, &llm.GatewayError{Kind: llm.ErrKindBackend, Op: "invoke", Err: err}
	}

	endpoint := fmt.Sprintf("%s/chat/completions", c.BaseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return llm.Result{}, &llm.GatewayError{Kind: llm.ErrKindConfig, Op: "invoke", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	if c.Referer != "" {
		httpReq.Header.Set("HTTP-Referer", c.Referer)
	}
	if c.AppTitle != "" {
		httpReq.Header.Set("X-Title", c.AppTitle)
	}

	resp, err := c.httpDo.Do(httpReq)
	if err != nil {
		return llm.Result{}, &llm.GatewayError{Kind: llm.ErrKindBackend, Op: "invoke", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errMap map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&errMap)
		return llm.Result{}, &llm.GatewayError{
			Kind: llm.ErrKindBackend,
			Op:   "invoke",
			Err:  fmt.Errorf("openrouter http %d: %v", resp.StatusCode, errMap),
		}
	}
	var out chatCompletionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return llm.Result{}, &llm.GatewayError{Kind: llm.ErrKindBackend, Op: "invoke", Err: err}
	}
	if len(out.Choices) == 0 {
		return llm.Result{}, &llm.GatewayError{
			Kind: llm.ErrKindBackend,
			Op:   "invoke",
			Err:  errors.New("no choices returned by model"),
		}
	}
	return decodeContent(out.Choices[0].Message.Content)
}

// decodeContent maps the wire content to a Result: JSON strings become Text,
// anything else (objects, arrays) is passed through raw.
func decodeContent(content json.RawMessage) (llm.Result, error) {
	if len(content) == 0 || string(content) == "null" {
		return llm.Result{}, &llm.GatewayError{
			Kind: llm.ErrKindBackend,
			Op:   "invoke",
			Err:  errors.New("model returned empty content"),
		}
	}
	var text string
	if err := json.Unmarshal(content, &text); err == nil {
		if text == "" {
			return llm.Result{}, &llm.GatewayError{
				Kind: llm.ErrKindBackend,
				Op:   "invoke",
				Err:  errors.New("model returned empty content"),
			}
		}
		return llm.Result{Text: text}, nil
	}
	return llm.Result{JSON: content}, nil
}
