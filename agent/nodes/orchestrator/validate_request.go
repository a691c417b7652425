package orchestratornode

import (
	"strings"
	"time"

	"github.com/google/uuid"

	contractx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/contract"
)

// ValidateRequest trims the message and assigns a session id when the
// caller did not supply one.
func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	text := strings.TrimSpace(in.Message)
	if text == "" {
		return nil, contractx.ErrInvalidMessage
	}

	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	return &GraphState{
		SessionID: sessionID,
		Message:   text,
		Now:       nowFn().UTC(),
	}, nil
}
