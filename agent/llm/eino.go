package llm

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/contract"
	toolx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/tool"
)

// EinoModel adapts an eino tool calling chat model to the LanguageModel port.
type EinoModel struct {
	chat einomodel.ToolCallingChatModel
}

var _ contractx.LanguageModel = (*EinoModel)(nil)

func NewEinoModel(chat einomodel.ToolCallingChatModel) (*EinoModel, error) {
	if chat == nil {
		return nil, fmt.Errorf("%w: chat model is required", contractx.ErrValidation)
	}
	return &EinoModel{chat: chat}, nil
}

// Complete runs one generation. When the model asks for tools, the calls are
// resolved through tools.Invoker and the model is asked exactly once more.
func (m *EinoModel) Complete(ctx context.Context, messages []*schema.Message, tools *contractx.ToolSet) (contractx.Completion, error) {
	chat := m.chat
	if tools != nil && len(tools.Specs) > 0 {
		bound, err := m.chat.WithTools(toolx.ToolInfos(tools.Specs))
		if err != nil {
			return contractx.Completion{}, fmt.Errorf("%w: bind tools: %v", contractx.ErrModelInvoke, err)
		}
		chat = bound
	}

	first, err := chat.Generate(ctx, messages)
	if err != nil {
		return contractx.Completion{}, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	if first == nil {
		return contractx.Completion{}, fmt.Errorf("%w: empty model message", contractx.ErrSchemaViolation)
	}
	if len(first.ToolCalls) == 0 || tools == nil || tools.Invoker == nil {
		return contractx.Completion{Content: first.Content}, nil
	}

	convo := make([]*schema.Message, 0, len(messages)+1+len(first.ToolCalls))
	convo = append(convo, messages...)
	convo = append(convo, first)

	var used []string
	for _, call := range first.ToolCalls {
		name := call.Function.Name
		result := unavailableTool(name)
		if tools.Allowed(name) {
			result = tools.Invoker.Invoke(ctx, name, call.Function.Arguments)
			used = append(used, name)
		}
		convo = append(convo, schema.ToolMessage(result, call.ID))
	}
	log.Ctx(ctx).Debug().Strs("tools", used).Msg("tool round completed")

	second, err := chat.Generate(ctx, convo)
	if err != nil {
		return contractx.Completion{ToolCalls: used}, fmt.Errorf("%w: after tools: %v", contractx.ErrModelInvoke, err)
	}
	if second == nil {
		return contractx.Completion{ToolCalls: used}, nil
	}
	return contractx.Completion{Content: second.Content, ToolCalls: used}, nil
}

func unavailableTool(name string) string {
	return fmt.Sprintf("Tool %s is not available.", name)
}
