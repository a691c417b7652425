package prompt

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/contract"
	statex "github.com/tanpawarit/Chative-Bearing-Assistant/agent/state"
)

var (
	//go:embed template/classifier.txt
	classifierRaw string

	//go:embed template/classifier_user.txt
	classifierUserRaw string

	//go:embed template/extractor.txt
	extractorRaw string

	//go:embed template/extractor_user.txt
	extractorUserRaw string

	//go:embed template/feedback.txt
	feedbackRaw string

	//go:embed template/answer.txt
	answerRaw string
)

const notSpecified = "Not specified"

// Set holds the compiled chat templates. It is safe for concurrent use.
type Set struct {
	classifier einoprompt.ChatTemplate
	extractor  einoprompt.ChatTemplate
	feedback   einoprompt.ChatTemplate
	answer     einoprompt.ChatTemplate
}

func LoadSet() *Set {
	return &Set{
		classifier: einoprompt.FromMessages(
			schema.FString,
			schema.SystemMessage(strings.TrimSpace(classifierRaw)),
			schema.UserMessage(strings.TrimSpace(classifierUserRaw)),
		),
		extractor: einoprompt.FromMessages(
			schema.FString,
			schema.SystemMessage(strings.TrimSpace(extractorRaw)),
			schema.UserMessage(strings.TrimSpace(extractorUserRaw)),
		),
		feedback: einoprompt.FromMessages(
			schema.FString,
			schema.SystemMessage(strings.TrimSpace(feedbackRaw)),
		),
		answer: einoprompt.FromMessages(
			schema.FString,
			schema.SystemMessage(strings.TrimSpace(answerRaw)),
			schema.MessagesPlaceholder("history", true),
			schema.UserMessage("{utterance}"),
		),
	}
}

// Classifier renders the intent prompt with the last two history entries as
// "role: content" lines.
func (s *Set) Classifier(ctx context.Context, history []statex.ChatMessage, utterance string) ([]*schema.Message, error) {
	lines := make([]string, 0, len(history))
	for _, msg := range history {
		lines = append(lines, msg.Role+": "+msg.Content)
	}
	return format(ctx, "classifier", s.classifier, map[string]any{
		"history":   strings.Join(lines, "\n"),
		"utterance": utterance,
	})
}

func (s *Set) Extractor(ctx context.Context, utterance string) ([]*schema.Message, error) {
	return format(ctx, "extractor", s.extractor, map[string]any{"utterance": utterance})
}

func (s *Set) Feedback(ctx context.Context, utterance string) ([]*schema.Message, error) {
	return format(ctx, "feedback", s.feedback, map[string]any{"utterance": utterance})
}

type AnswerInput struct {
	Query           contractx.StructuredQuery
	LastDesignation string
	History         []statex.ChatMessage
	Utterance       string
}

func (s *Set) Answer(ctx context.Context, in AnswerInput) ([]*schema.Message, error) {
	history := make([]*schema.Message, 0, len(in.History))
	for _, msg := range in.History {
		switch msg.Role {
		case statex.RoleAssistant:
			history = append(history, schema.AssistantMessage(msg.Content, nil))
		default:
			history = append(history, schema.UserMessage(msg.Content))
		}
	}

	queryType := string(in.Query.QueryType)
	if queryType == "" {
		queryType = string(contractx.QueryTypeGeneral)
	}

	return format(ctx, "answer", s.answer, map[string]any{
		"bearing":          orNotSpecified(in.Query.ProductName),
		"category":         orNotSpecified(in.Query.ProductCategory),
		"attributes":       strings.Join(in.Query.RequestedAttributes, ", "),
		"query_type":       queryType,
		"last_designation": orNotSpecified(in.LastDesignation),
		"history":          history,
		"utterance":        in.Utterance,
	})
}

func format(ctx context.Context, name string, tpl einoprompt.ChatTemplate, vars map[string]any) ([]*schema.Message, error) {
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return nil, fmt.Errorf("format %s prompt: %w", name, err)
	}
	return msgs, nil
}

func orNotSpecified(v string) string {
	if strings.TrimSpace(v) == "" {
		return notSpecified
	}
	return v
}
