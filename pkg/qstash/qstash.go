package qstash

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const maxResponseSizeBytes = 1 << 20

type Config struct {
	URL     string        `split_words:"true" default:"https://qstash.upstash.io"`
	Token   string        `split_words:"true" required:"true"`
	Timeout time.Duration `split_words:"true" default:"10s"`
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.URL)
	if baseURL == "" {
		return nil, errors.New("qstash url is required")
	}

	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, err
	}

	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("qstash token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}

	return client, nil
}

func MustNew(cfg Config) *Client {
	client, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

type PublishOption func(http.Header)

func WithRetries(n int) PublishOption {
	return func(h http.Header) {
		h.Set("Upstash-Retries", strconv.Itoa(n))
	}
}

func WithDelay(d time.Duration) PublishOption {
	return func(h http.Header) {
		h.Set("Upstash-Delay", strconv.FormatInt(int64(d/time.Second), 10)+"s")
	}
}

// WithDeduplicationID makes QStash drop repeated publishes carrying the same id.
func WithDeduplicationID(id string) PublishOption {
	return func(h http.Header) {
		if id != "" {
			h.Set("Upstash-Deduplication-Id", id)
		}
	}
}

type PublishResult struct {
	MessageID string `json:"messageId"`
}

// Publish enqueues body as JSON for delivery to destination.
func (c *Client) Publish(ctx context.Context, destination string, body any, opts ...PublishOption) (PublishResult, error) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return PublishResult{}, errors.New("qstash destination is required")
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return PublishResult{}, fmt.Errorf("marshal qstash payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/publish/"+destination, bytes.NewReader(payload))
	if err != nil {
		return PublishResult{}, fmt.Errorf("build qstash request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	for _, opt := range opts {
		if opt != nil {
			opt(req.Header)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return PublishResult{}, fmt.Errorf("qstash request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return PublishResult{}, fmt.Errorf("read qstash response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return PublishResult{}, fmt.Errorf("qstash publish status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out PublishResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return PublishResult{}, fmt.Errorf("decode qstash response: %w", err)
	}
	return out, nil
}
