package orchestratornode

import (
	"fmt"

	contractx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/contract"
)

func AppendTurn(in *GraphState) (*GraphState, error) {
	if in == nil || in.Conversation == nil {
		return nil, fmt.Errorf("%w: graph conversation is nil", contractx.ErrValidation)
	}

	in.Conversation.AppendTurn(
		in.Message,
		in.Response.Response,
		string(in.Response.QueryType),
		in.Response.SourceData,
		in.Now,
	)
	return in, nil
}
