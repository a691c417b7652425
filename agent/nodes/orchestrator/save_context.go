package orchestratornode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/contract"
	statex "github.com/tanpawarit/Chative-Bearing-Assistant/agent/state"
)

// SaveContext persists the conversation. A failed write is logged; the
// reply is still returned.
func SaveContext(
	ctx context.Context,
	in *GraphState,
	store statex.Store,
) (*GraphState, error) {
	if in == nil || in.Conversation == nil {
		return nil, fmt.Errorf("%w: graph conversation is nil", contractx.ErrValidation)
	}

	if err := store.Save(ctx, in.Conversation); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("session_id", in.SessionID).Msg("session save failed")
	}
	return in, nil
}
