package llm

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/contract"
	openaicompatx "github.com/tanpawarit/Chative-Bearing-Assistant/pkg/openaicompat"
)

// New builds the LanguageModel for role on the configured backend.
func New(ctx context.Context, cfg Config, role Role) (contractx.LanguageModel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	endpoint := cfg.EndpointFor(role)
	switch cfg.backend() {
	case BackendOpenAI:
		client := openaicompatx.NewClient(endpoint)
		if client == nil {
			return nil, errors.New("openai client is not configured")
		}
		return NewOpenAIModel(client, endpoint.Model, endpoint.Temperature, cfg.MaxCompletionToken)
	default:
		chat, err := endpoint.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("build %s model: %w", role, err)
		}
		return NewEinoModel(chat)
	}
}
