package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/contract"
	nodex "github.com/tanpawarit/Chative-Bearing-Assistant/agent/nodes/orchestrator"
	statex "github.com/tanpawarit/Chative-Bearing-Assistant/agent/state"
)

var ErrInvalidMessage = contractx.ErrInvalidMessage

type Reply = nodex.Reply

// Orchestrator runs one conversation turn: load context, route, append the
// turn, persist, reply.
type Orchestrator struct {
	store  statex.Store
	router nodex.Router

	graphRunner compose.Runnable[nodex.GraphInput, nodex.Reply]

	now func() time.Time
}

func New(store statex.Store, router nodex.Router) (*Orchestrator, error) {
	if store == nil {
		return nil, errors.New("state store is required")
	}
	if router == nil {
		return nil, errors.New("router is required")
	}

	o := &Orchestrator{
		store:  store,
		router: router,
		now:    time.Now,
	}

	graphRunner, err := o.compileHandleMessageGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// HandleMessage returns ErrInvalidMessage for blank input. An empty sessionID
// starts a new session.
func (o *Orchestrator) HandleMessage(ctx context.Context, sessionID string, message string) (Reply, error) {
	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{
		SessionID: sessionID,
		Message:   message,
	})
	if err != nil {
		if errors.Is(err, contractx.ErrInvalidMessage) {
			return Reply{}, contractx.ErrInvalidMessage
		}
		return Reply{}, err
	}

	log.Ctx(ctx).Info().
		Str("session_id", out.SessionID).
		Str("query_type", string(out.QueryType)).
		Str("source", out.SourceData).
		Strs("used_functions", out.UsedFunctions).
		Msg("turn handled")
	return out, nil
}
