package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxResponseSizeBytes = 2 << 20

type UpstashConfig struct {
	URL     string        `envconfig:"URL" split_words:"true" required:"true"`
	Token   string        `envconfig:"TOKEN" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

type UpstashOption func(*UpstashCache)

func WithHTTPClient(client *http.Client) UpstashOption {
	return func(c *UpstashCache) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// UpstashCache talks to Upstash Redis over its REST interface.
type UpstashCache struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ Cache = (*UpstashCache)(nil)

// ErrUpstash marks failures talking to the Upstash REST endpoint.
var ErrUpstash = errors.New("upstash cache")

type upstashResult struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

func NewUpstashCache(cfg UpstashConfig, opts ...UpstashOption) (*UpstashCache, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, errors.New("upstash redis url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid redis rest url: %w", err)
	}

	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("upstash redis token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &UpstashCache{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

func (c *UpstashCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if strings.TrimSpace(key) == "" {
		return false, ErrEmptyKey
	}

	resp, err := c.exec(ctx, []any{"GET", key})
	if err != nil {
		return false, err
	}

	result := bytes.TrimSpace(resp.Result)
	if len(result) == 0 || bytes.Equal(result, []byte("null")) {
		return false, nil
	}

	var encoded string
	if err := json.Unmarshal(result, &encoded); err != nil {
		return false, fmt.Errorf("decode cache payload: %w", err)
	}
	if err := json.Unmarshal([]byte(encoded), dest); err != nil {
		return false, fmt.Errorf("unmarshal cache value: %w", err)
	}
	return true, nil
}

func (c *UpstashCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}

	cmd := []any{"SET", key, string(payload)}
	if ttl > 0 {
		cmd = append(cmd, "EX", ttlSeconds(ttl))
	}

	_, err = c.exec(ctx, cmd)
	return err
}

// exec posts one command to the REST endpoint. Every failure wraps
// ErrUpstash and names the command.
func (c *UpstashCache) exec(ctx context.Context, command []any) (*upstashResult, error) {
	if c == nil {
		return nil, ErrNilCache
	}
	if len(command) == 0 {
		return nil, fmt.Errorf("%w: empty command", ErrUpstash)
	}
	op := fmt.Sprint(command[0])

	body, err := json.Marshal(command)
	if err != nil {
		return nil, fmt.Errorf("%w: encode %s: %v", ErrUpstash, op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build %s: %v", ErrUpstash, op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUpstash, op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s reply: %v", ErrUpstash, op, err)
	}

	var res upstashResult
	decodeErr := json.Unmarshal(raw, &res)
	switch {
	case res.Error != "":
		return nil, fmt.Errorf("%w: %s rejected (status %d): %s", ErrUpstash, op, resp.StatusCode, res.Error)
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		return nil, fmt.Errorf("%w: %s status %d: %s", ErrUpstash, op, resp.StatusCode, strings.TrimSpace(string(raw)))
	case decodeErr != nil:
		return nil, fmt.Errorf("%w: decode %s reply: %v", ErrUpstash, op, decodeErr)
	}
	return &res, nil
}
