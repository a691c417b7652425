package openaicompat

import (
	"context"
	"fmt"
	"strings"
	"time"

	openaimodel "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"
)

type LLMBuilder interface {
	New(ctx context.Context) (model.ToolCallingChatModel, error)
}

var _ LLMBuilder = (*Config)(nil)

// Config targets any OpenAI compatible endpoint. With ByAzure set, BaseURL is
// the Azure resource endpoint and Model is the deployment name.
type Config struct {
	BaseURL            string
	APIKey             string
	Model              string
	MaxCompletionToken *int
	Temperature        float32
	Timeout            time.Duration
	ByAzure            bool
	APIVersion         string
	SiteURL            string
	SiteName           string
}

func (c *Config) New(ctx context.Context) (model.ToolCallingChatModel, error) {
	conf := &openaimodel.ChatModelConfig{
		BaseURL:     strings.TrimRight(c.BaseURL, "/"),
		APIKey:      strings.TrimSpace(c.APIKey),
		Model:       strings.TrimSpace(c.Model),
		MaxTokens:   c.MaxCompletionToken,
		Temperature: &c.Temperature,
		Timeout:     c.Timeout,
		ByAzure:     c.ByAzure,
		APIVersion:  strings.TrimSpace(c.APIVersion),
	}

	m, err := openaimodel.NewChatModel(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("openaicompat: create chat model: %w", err)
	}

	return m, nil
}

// NewClient creates an OpenAI SDK client for the same endpoint.
func NewClient(cfg Config) *openaisdk.Client {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	var opts []option.RequestOption
	if cfg.ByAzure {
		opts = append(opts,
			azure.WithEndpoint(baseURL, strings.TrimSpace(cfg.APIVersion)),
			azure.WithAPIKey(apiKey),
		)
	} else {
		opts = append(opts, option.WithAPIKey(apiKey))
		if baseURL != "" {
			opts = append(opts, option.WithBaseURL(baseURL))
		}
	}

	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	opts = append(opts, option.WithMaxRetries(0))

	if cfg.SiteURL != "" {
		opts = append(opts, option.WithHeader("HTTP-Referer", cfg.SiteURL))
	}
	if cfg.SiteName != "" {
		opts = append(opts, option.WithHeader("X-Title", cfg.SiteName))
	}

	client := openaisdk.NewClient(opts...)
	return &client
}
