package contract

import (
	"context"

	"github.com/cloudwego/eino/schema"

	statex "github.com/tanpawarit/Chative-Bearing-Assistant/agent/state"
)

// Agent handles one classified turn. Implementations may mutate conversation
// (previous response id, last designation) but never its history.
type Agent interface {
	Process(ctx context.Context, utterance string, conversation *statex.ConversationContext) (AgentResponse, error)
}

// LanguageModel is the single prompt-execution port. When tools is non-nil the
// implementation may run exactly one extra round of tool invocation.
// An error is distinct from an empty Completion.
type LanguageModel interface {
	Complete(ctx context.Context, messages []*schema.Message, tools *ToolSet) (Completion, error)
}

// ToolInvoker resolves a tool call to text. Failures are rendered as text.
type ToolInvoker interface {
	Invoke(ctx context.Context, name string, argumentsJSON string) string
}

// FeedbackSink receives structured feedback; no read-back is required.
type FeedbackSink interface {
	Append(ctx context.Context, record FeedbackRecord) error
}

// Registry exposes the agents and the classifier model used by the orchestrator.
type Registry interface {
	Classifier() LanguageModel
	Answering() Agent
	Feedback() Agent
}
