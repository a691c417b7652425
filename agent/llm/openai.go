package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"
	"github.com/openai/openai-go"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/contract"
)

// OpenAIModel implements the LanguageModel port directly on the OpenAI SDK.
type OpenAIModel struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

var _ contractx.LanguageModel = (*OpenAIModel)(nil)

func NewOpenAIModel(client *openai.Client, model string, temperature float32, maxTokens int) (*OpenAIModel, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: openai client is required", contractx.ErrValidation)
	}
	if model == "" {
		return nil, fmt.Errorf("%w: model is required", contractx.ErrValidation)
	}
	return &OpenAIModel{client: client, model: model, temperature: temperature, maxTokens: maxTokens}, nil
}

func (m *OpenAIModel) Complete(ctx context.Context, messages []*schema.Message, tools *contractx.ToolSet) (contractx.Completion, error) {
	params := openai.ChatCompletionNewParams{
		Messages: toOpenAIMessages(messages),
		Model:    openai.ChatModel(m.model),
	}
	if m.temperature >= 0 {
		params.Temperature = openai.Float(float64(m.temperature))
	}
	if m.maxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(m.maxTokens))
	}
	if tools != nil && len(tools.Specs) > 0 {
		params.Tools = toOpenAITools(tools.Specs)
	}

	first, err := m.create(ctx, params)
	if err != nil {
		return contractx.Completion{}, err
	}
	if len(first.ToolCalls) == 0 || tools == nil || tools.Invoker == nil {
		return contractx.Completion{Content: first.Content}, nil
	}

	params.Messages = append(params.Messages, first.ToParam())
	var used []string
	for _, call := range first.ToolCalls {
		name := call.Function.Name
		result := unavailableTool(name)
		if tools.Allowed(name) {
			result = tools.Invoker.Invoke(ctx, name, call.Function.Arguments)
			used = append(used, name)
		}
		params.Messages = append(params.Messages, openai.ToolMessage(result, call.ID))
	}
	log.Ctx(ctx).Debug().Strs("tools", used).Msg("tool round completed")

	second, err := m.create(ctx, params)
	if err != nil {
		return contractx.Completion{ToolCalls: used}, err
	}
	return contractx.Completion{Content: second.Content, ToolCalls: used}, nil
}

func (m *OpenAIModel) create(ctx context.Context, params openai.ChatCompletionNewParams) (openai.ChatCompletionMessage, error) {
	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return openai.ChatCompletionMessage{}, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return openai.ChatCompletionMessage{}, fmt.Errorf("%w: no choices returned", contractx.ErrSchemaViolation)
	}
	return resp.Choices[0].Message, nil
}

func toOpenAIMessages(messages []*schema.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		if msg == nil {
			continue
		}
		switch msg.Role {
		case schema.System:
			out = append(out, openai.SystemMessage(msg.Content))
		case schema.Assistant:
			out = append(out, openai.AssistantMessage(msg.Content))
		case schema.Tool:
			out = append(out, openai.ToolMessage(msg.Content, msg.ToolCallID))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}
	return out
}

func toOpenAITools(specs []contractx.ToolSpec) []openai.ChatCompletionToolParam {
	out := make([]openai.ChatCompletionToolParam, 0, len(specs))
	for _, spec := range specs {
		properties := make(map[string]any, len(spec.Params))
		required := make([]string, 0, len(spec.Params))
		for _, p := range spec.Params {
			properties[p.Name] = map[string]any{"type": "string", "description": p.Desc}
			if p.Required {
				required = append(required, p.Name)
			}
		}
		out = append(out, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        spec.Name,
				Description: openai.String(spec.Desc),
				Parameters: openai.FunctionParameters{
					"type":       "object",
					"properties": properties,
					"required":   required,
				},
			},
		})
	}
	return out
}
