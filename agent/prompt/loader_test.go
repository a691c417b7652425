package prompt

import (
	"context"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/contract"
	statex "github.com/tanpawarit/Chative-Bearing-Assistant/agent/state"
)

func TestClassifierPrompt(t *testing.T) {
	t.Parallel()

	set := LoadSet()
	msgs, err := set.Classifier(context.Background(), []statex.ChatMessage{
		{Role: statex.RoleUser, Content: "what is 6205?"},
		{Role: statex.RoleAssistant, Content: "A deep groove ball bearing."},
	}, "that was {very} helpful")
	if err != nil {
		t.Fatalf("Classifier() error = %v", err)
	}
	if len(msgs) != 2 || msgs[0].Role != schema.System || msgs[1].Role != schema.User {
		t.Fatalf("unexpected messages: %#v", msgs)
	}
	if !strings.Contains(msgs[0].Content, `"question" or "feedback"`) {
		t.Fatalf("system prompt missing instruction: %q", msgs[0].Content)
	}
	for _, want := range []string{
		"user: what is 6205?",
		"assistant: A deep groove ball bearing.",
		"Current user message: that was {very} helpful",
	} {
		if !strings.Contains(msgs[1].Content, want) {
			t.Fatalf("user prompt missing %q: %q", want, msgs[1].Content)
		}
	}
}

func TestExtractorPromptKeepsJSONShape(t *testing.T) {
	t.Parallel()

	msgs, err := LoadSet().Extractor(context.Background(), "compare 6205 vs 6305")
	if err != nil {
		t.Fatalf("Extractor() error = %v", err)
	}
	user := msgs[len(msgs)-1].Content
	if !strings.Contains(user, "User Question: compare 6205 vs 6305") {
		t.Fatalf("missing utterance: %q", user)
	}
	if !strings.Contains(user, `"productName"`) || !strings.Contains(user, "{\n") {
		t.Fatalf("missing JSON shape: %q", user)
	}
}

func TestFeedbackPrompt(t *testing.T) {
	t.Parallel()

	msgs, err := LoadSet().Feedback(context.Background(), "great, love it")
	if err != nil {
		t.Fatalf("Feedback() error = %v", err)
	}
	if len(msgs) != 1 || !strings.Contains(msgs[0].Content, "User message: great, love it") {
		t.Fatalf("unexpected messages: %#v", msgs)
	}
}

func TestAnswerPrompt(t *testing.T) {
	t.Parallel()

	msgs, err := LoadSet().Answer(context.Background(), AnswerInput{
		Query: contractx.StructuredQuery{
			ProductName:         "6205",
			RequestedAttributes: []string{"bore", "load"},
			QueryType:           contractx.QueryTypeSpecific,
		},
		History: []statex.ChatMessage{
			{Role: statex.RoleAssistant, Content: "earlier answer"},
			{Role: statex.RoleUser, Content: "follow up"},
		},
		Utterance: "and its bore?",
	})
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if len(msgs) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(msgs))
	}

	system := msgs[0].Content
	for _, want := range []string{
		"- Bearing: 6205",
		"- Category: Not specified",
		"- Requested Attributes: bore, load",
		"- Query Type: specific",
		"- Previously discussed bearing: Not specified",
	} {
		if !strings.Contains(system, want) {
			t.Fatalf("system prompt missing %q: %q", want, system)
		}
	}
	if msgs[1].Role != schema.Assistant || msgs[2].Role != schema.User {
		t.Fatalf("history roles not preserved: %s %s", msgs[1].Role, msgs[2].Role)
	}
	if msgs[3].Content != "and its bore?" {
		t.Fatalf("unexpected final message: %q", msgs[3].Content)
	}
}
