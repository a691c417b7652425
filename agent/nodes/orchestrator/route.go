package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/contract"
	statex "github.com/tanpawarit/Chative-Bearing-Assistant/agent/state"
)

type Router interface {
	Route(ctx context.Context, utterance string, conversation *statex.ConversationContext) (contractx.AgentResponse, error)
}

func RouteTurn(ctx context.Context, in *GraphState, router Router) (*GraphState, error) {
	if in == nil || in.Conversation == nil {
		return nil, fmt.Errorf("%w: graph conversation is nil", contractx.ErrValidation)
	}

	resp, err := router.Route(ctx, in.Message, in.Conversation)
	if err != nil {
		return nil, err
	}
	in.Response = resp
	return in, nil
}
