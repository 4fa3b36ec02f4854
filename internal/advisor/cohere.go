package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"
)

const (
	DefaultCohereURL = "https://api.cohere.ai/v1/chat"
	cohereModel      = "command-r-plus"
)

type chatRequest struct {
	Model       string  `json:"model"`
	Message     string  `json:"message"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

type chatResponse struct {
	Text string `json:"text"`
}

// Cohere implements TipGenerator and Assistant with the Cohere chat API.
type Cohere struct {
	apiKey   string
	endpoint string
	http     *retryablehttp.Client
}

func NewCohere(apiKey string, endpoint string, timeout time.Duration) *Cohere {
	if endpoint == "" {
		endpoint = DefaultCohereURL
	}

	client := retryablehttp.NewClient()
	client.Logger = nil
	// 429s are reported to the user, not waited out
	client.RetryMax = 0
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.HTTPClient.Timeout = timeout

	return &Cohere{apiKey: apiKey, endpoint: endpoint, http: client}
}

func (c *Cohere) GenerateTip(ctx context.Context, topic string) (string, error) {
	if strings.TrimSpace(topic) == "" {
		topic = defaultTopic
	}

	log.Info().Msgf("generating security tip for topic: %s", topic)
	text, err := c.chat(ctx, chatRequest{
		Model: cohereModel,
		Message: fmt.Sprintf("Generate a short cybersecurity tip about %s for Nigerian users. "+
			"Be specific and actionable in under 40 words.", topic),
		MaxTokens:   50,
		Temperature: 0.6,
	})
	if err != nil {
		return "", err
	}
	if text == "" {
		return fallbackTip, nil
	}

	log.Debug().Msgf("tip length: %d", len(text))
	return text, nil
}

func (c *Cohere) Answer(ctx context.Context, question string) (string, error) {
	log.Info().Msg("processing AI chat request")
	text, err := c.chat(ctx, chatRequest{
		Model:       cohereModel,
		Message:     "You are CyberShield AI. Answer briefly and practically in under 50 words.\n\nQuestion: " + question,
		MaxTokens:   60,
		Temperature: 0.6,
	})
	if err != nil {
		return "", err
	}
	if text == "" {
		return fallbackAnswer, nil
	}

	log.Debug().Msgf("answer length: %d", len(text))
	return text, nil
}

func (c *Cohere) chat(ctx context.Context, body chatRequest) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(res.Body)

	switch {
	case res.StatusCode == http.StatusTooManyRequests:
		return "", ErrRateLimited
	case res.StatusCode == http.StatusUnauthorized:
		return "", ErrUnauthorized
	case res.StatusCode < 200 || res.StatusCode > 299:
		return "", fmt.Errorf("cohere chat failed with status [%d] %s", res.StatusCode, res.Status)
	}

	var out chatResponse
	if err = json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding cohere response: %w", err)
	}
	return strings.TrimSpace(out.Text), nil
}
