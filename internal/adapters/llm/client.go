// Package llm wraps the hosted chat-completions API (Groq, OpenAI
// compatible) behind blocking and streaming calls. A missing API key short
// circuits before any network dial.
package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	stderrors "iris-assistant/internal/common/errors"
	"iris-assistant/internal/common/httpclient"
	"iris-assistant/internal/common/logger"
	"iris-assistant/internal/models"
)

const serviceName = "language model"

type Client struct {
	config *Config
	// blocking calls use the shared timeout client; streams hold the
	// connection open for the lifetime of the response and rely on the
	// request context instead.
	client       *httpclient.Client
	streamClient *http.Client
	logger       logger.Logger
}

func NewClient(config *Config, log logger.Logger) *Client {
	return &Client{
		config:       config,
		client:       httpclient.NewClient(config.Timeout),
		streamClient: &http.Client{},
		logger: log.With(map[string]interface{}{
			"adapter": "llm",
		}),
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c.config.APIKey != "" }

// QuickModel returns the low-latency model name for auxiliary calls such as
// search summarization.
func (c *Client) QuickModel() string { return c.config.QuickModel }

// BuildMessages assembles system prompt, a trailing window of conversation
// history, and the current user prompt into the wire order the API expects.
func (c *Client) BuildMessages(system string, history []models.ConversationTurn, prompt string) []Message {
	msgs := []Message{{Role: "system", Content: system}}

	window := c.config.HistoryWindow
	if len(history) > window {
		history = history[len(history)-window:]
	}
	for _, turn := range history {
		msgs = append(msgs, Message{Role: string(turn.Role), Content: turn.Content})
	}

	return append(msgs, Message{Role: "user", Content: prompt})
}

// Complete performs a blocking completion and returns the full response text.
func (c *Client) Complete(ctx context.Context, messages []Message, opts Options) (string, error) {
	if !c.Configured() {
		return "", stderrors.NewMissingCredentialError(serviceName)
	}

	resp, err := c.post(ctx, messages, opts, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var apiResponse chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", stderrors.NewUpstreamAPIError(serviceName, "Model returned an unreadable response")
	}
	if len(apiResponse.Choices) == 0 {
		msg := "Model returned no choices"
		if apiResponse.Error != nil {
			msg = apiResponse.Error.Message
		}
		return "", stderrors.NewUpstreamAPIError(serviceName, msg)
	}

	return apiResponse.Choices[0].Message.Content, nil
}

// Stream performs a streaming completion. Tokens are delivered on the
// returned channel strictly in arrival order; the channel is closed after
// the terminal chunk. Cancel the context to stop consuming.
func (c *Client) Stream(ctx context.Context, messages []Message, opts Options) (<-chan Chunk, error) {
	if !c.Configured() {
		return nil, stderrors.NewMissingCredentialError(serviceName)
	}

	resp, err := c.postStream(ctx, messages, opts)
	if err != nil {
		return nil, err
	}

	out := make(chan Chunk)
	go func() {
		defer close(out)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "[DONE]" {
				return
			}

			var delta streamResponse
			if err := json.Unmarshal([]byte(data), &delta); err != nil {
				continue
			}
			if len(delta.Choices) == 0 || delta.Choices[0].Delta.Content == "" {
				continue
			}

			select {
			case out <- Chunk{Delta: delta.Choices[0].Delta.Content}:
			case <-ctx.Done():
				return
			}
		}

		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			select {
			case out <- Chunk{Err: stderrors.NewNetworkError(serviceName, err)}:
			case <-ctx.Done():
			}
		}
	}()

	return out, nil
}

func (c *Client) post(ctx context.Context, messages []Message, opts Options, stream bool) (*http.Response, error) {
	req, err := c.buildRequest(ctx, messages, opts, stream)
	if err != nil {
		return nil, stderrors.NewNetworkError(serviceName, err)
	}

	resp, err := c.client.Do(req)
	return c.checkResponse(ctx, resp, err)
}

func (c *Client) postStream(ctx context.Context, messages []Message, opts Options) (*http.Response, error) {
	req, err := c.buildRequest(ctx, messages, opts, true)
	if err != nil {
		return nil, stderrors.NewNetworkError(serviceName, err)
	}

	resp, err := c.streamClient.Do(req)
	return c.checkResponse(ctx, resp, err)
}

func (c *Client) buildRequest(ctx context.Context, messages []Message, opts Options, stream bool) (*http.Request, error) {
	model := opts.Model
	if model == "" {
		model = c.config.Model
	}
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = c.config.Temperature
	}

	body, _ := json.Marshal(chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		Stream:      stream,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	return req, nil
}

func (c *Client) checkResponse(ctx context.Context, resp *http.Response, err error) (*http.Response, error) {
	if err != nil {
		if httpclient.IsTimeout(ctx, err) {
			return nil, stderrors.NewTimeoutError(serviceName)
		}
		return nil, stderrors.NewNetworkError(serviceName, err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		var apiResponse chatResponse
		msg := fmt.Sprintf("Model API returned status %d", resp.StatusCode)
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiResponse); decodeErr == nil && apiResponse.Error != nil {
			msg = apiResponse.Error.Message
		}
		c.logger.Warn("model call failed", map[string]interface{}{
			"status": resp.StatusCode,
		})
		return nil, stderrors.NewUpstreamAPIError(serviceName, msg)
	}

	return resp, nil
}
