package orchestratornode

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/contract"
	statex "github.com/tanpawarit/Chative-Bearing-Assistant/agent/state"
)

// LoadOrCreateContext starts a fresh context when none is stored. Store
// failures are treated the same way.
func LoadOrCreateContext(
	ctx context.Context,
	in *GraphState,
	store statex.Store,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	conversation, err := store.Load(ctx, in.SessionID)
	switch {
	case err == nil:
	case errors.Is(err, statex.ErrStateNotFound):
		conversation = statex.NewConversationContext(in.SessionID, in.Now)
	default:
		log.Ctx(ctx).Warn().Err(err).Str("session_id", in.SessionID).Msg("session load failed, starting new context")
		conversation = statex.NewConversationContext(in.SessionID, in.Now)
	}

	in.Conversation = conversation
	return in, nil
}
