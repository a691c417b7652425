package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/contract"
	promptx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/prompt"
	statex "github.com/tanpawarit/Chative-Bearing-Assistant/agent/state"
)

const classifierWindow = 2

// Router classifies each utterance and dispatches it to exactly one agent.
type Router struct {
	classifier contractx.LanguageModel
	prompts    *promptx.Set
	answering  contractx.Agent
	feedback   contractx.Agent
	runner     compose.Runnable[*routeRequest, contractx.AgentResponse]
}

type routeRequest struct {
	Utterance    string
	Conversation *statex.ConversationContext
	Intent       contractx.Intent
}

func NewRouter(ctx context.Context, models contractx.Registry, prompts *promptx.Set) (*Router, error) {
	if models == nil {
		return nil, errors.New("model registry is required")
	}
	if models.Answering() == nil || models.Feedback() == nil {
		return nil, fmt.Errorf("%w: answering and feedback agents are required", contractx.ErrValidation)
	}
	if prompts == nil {
		prompts = promptx.LoadSet()
	}

	r := &Router{
		classifier: models.Classifier(),
		prompts:    prompts,
		answering:  models.Answering(),
		feedback:   models.Feedback(),
	}

	runner, err := r.compileRouteGraph(ctx)
	if err != nil {
		return nil, err
	}
	r.runner = runner
	return r, nil
}

func (r *Router) Route(ctx context.Context, utterance string, conversation *statex.ConversationContext) (contractx.AgentResponse, error) {
	if conversation == nil {
		return contractx.AgentResponse{}, fmt.Errorf("%w: conversation is nil", contractx.ErrValidation)
	}
	return r.runner.Invoke(ctx, &routeRequest{Utterance: utterance, Conversation: conversation})
}

// ClassifyIntent never fails: any classifier problem means IntentQuestion.
func (r *Router) ClassifyIntent(ctx context.Context, utterance string, conversation *statex.ConversationContext) contractx.Intent {
	if r.classifier == nil {
		return contractx.IntentQuestion
	}

	msgs, err := r.prompts.Classifier(ctx, conversation.Tail(classifierWindow), utterance)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("classifier prompt failed, defaulting to question")
		return contractx.IntentQuestion
	}

	out, err := r.classifier.Complete(ctx, msgs, nil)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("intent classification failed, defaulting to question")
		return contractx.IntentQuestion
	}
	return ParseIntent(out.Content)
}

// ParseIntent maps classifier output to an intent. Anything that mentions
// feedback is feedback.
func ParseIntent(output string) contractx.Intent {
	if strings.Contains(strings.ToLower(strings.TrimSpace(output)), string(contractx.IntentFeedback)) {
		return contractx.IntentFeedback
	}
	return contractx.IntentQuestion
}

func (r *Router) compileRouteGraph(ctx context.Context) (compose.Runnable[*routeRequest, contractx.AgentResponse], error) {
	graph := compose.NewGraph[*routeRequest, contractx.AgentResponse]()

	if err := graph.AddLambdaNode("classify_intent",
		compose.InvokableLambda(func(ctx context.Context, in *routeRequest) (*routeRequest, error) {
			in.Intent = r.ClassifyIntent(ctx, in.Utterance, in.Conversation)
			in.Conversation.Intent = string(in.Intent)
			log.Ctx(ctx).Debug().Str("intent", string(in.Intent)).Msg("intent classified")
			return in, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node classify_intent: %w", err)
	}

	if err := graph.AddLambdaNode("answer",
		compose.InvokableLambda(func(ctx context.Context, in *routeRequest) (contractx.AgentResponse, error) {
			return r.answering.Process(ctx, in.Utterance, in.Conversation)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node answer: %w", err)
	}

	if err := graph.AddLambdaNode("feedback",
		compose.InvokableLambda(func(ctx context.Context, in *routeRequest) (contractx.AgentResponse, error) {
			resp, err := r.feedback.Process(ctx, in.Utterance, in.Conversation)
			if err != nil {
				return contractx.AgentResponse{}, err
			}
			resp.QueryType = contractx.QueryTypeFeedback
			resp.SourceData = contractx.SourceUserFeedback
			return resp, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node feedback: %w", err)
	}

	branch := compose.NewGraphBranch(
		func(ctx context.Context, in *routeRequest) (string, error) {
			if in.Intent == contractx.IntentFeedback {
				return "feedback", nil
			}
			return "answer", nil
		},
		map[string]bool{
			"answer":   true,
			"feedback": true,
		},
	)

	if err := graph.AddEdge(compose.START, "classify_intent"); err != nil {
		return nil, fmt.Errorf("add edge start->classify_intent: %w", err)
	}
	if err := graph.AddBranch("classify_intent", branch); err != nil {
		return nil, fmt.Errorf("add intent branch: %w", err)
	}
	if err := graph.AddEdge("answer", compose.END); err != nil {
		return nil, fmt.Errorf("add edge answer->end: %w", err)
	}
	if err := graph.AddEdge("feedback", compose.END); err != nil {
		return nil, fmt.Errorf("add edge feedback->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.route"))
	if err != nil {
		return nil, fmt.Errorf("compile route graph: %w", err)
	}
	return runner, nil
}
