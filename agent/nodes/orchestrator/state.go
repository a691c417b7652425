package orchestratornode

import (
	"time"

	contractx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/contract"
	statex "github.com/tanpawarit/Chative-Bearing-Assistant/agent/state"
)

type GraphInput struct {
	SessionID string
	Message   string
}

// Reply is the per-turn result handed back to the transport.
type Reply struct {
	SessionID  string
	Response   string
	Timestamp  time.Time
	QueryType  contractx.QueryType
	SourceData string

	UsedFunctions []string
}

type GraphState struct {
	SessionID string
	Message   string
	Now       time.Time

	Conversation *statex.ConversationContext
	Response     contractx.AgentResponse
}
