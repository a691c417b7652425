package orchestratornode

import (
	"fmt"

	contractx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/contract"
)

func FinalizeReply(in *GraphState) (Reply, error) {
	if in == nil {
		return Reply{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	return Reply{
		SessionID:  in.SessionID,
		Response:   in.Response.Response,
		Timestamp:  in.Now,
		QueryType:  in.Response.QueryType,
		SourceData: in.Response.SourceData,

		UsedFunctions: in.Response.UsedFunctions,
	}, nil
}
