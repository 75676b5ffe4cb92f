// pkg/ai/openai_client.go

package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"micampo/pkg/upstream"
)

const (
	DefaultModel       = "gpt-3.5-turbo"
	DefaultEndpoint    = "https://api.openai.com"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 500
)

type openAI struct {
	endpoint string
	key      string
	model    string
	hc       *http.Client
	guard    *upstream.Guard
}

func NewOpenAI(endpoint, key, model string, timeout time.Duration, guard *upstream.Guard) Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = 25 * time.Second
	}
	return &openAI{
		endpoint: strings.TrimRight(endpoint, "/"),
		key:      key,
		model:    model,
		hc:       &http.Client{Timeout: timeout},
		guard:    guard,
	}
}

type chatReq struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResp struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *openAI) Complete(ctx context.Context, msgs []Message) (string, error) {
	body := chatReq{Model: c.model, Messages: msgs, Temperature: DefaultTemperature, MaxTokens: DefaultMaxTokens}
	h := http.Header{}
	h.Set("Authorization", "Bearer "+c.key)

	var out chatResp
	call := func(ctx context.Context) error {
		return upstream.DoJSON(ctx, c.hc, http.MethodPost, c.endpoint+"/v1/chat/completions", h, body, &out)
	}
	var err error
	if c.guard != nil {
		err = c.guard.Do(ctx, call)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return "", fmt.Errorf("completion: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("completion: no choices")
	}
	content := strings.TrimSpace(out.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("completion: empty message")
	}
	return content, nil
}
