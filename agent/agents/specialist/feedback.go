package specialist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/contract"
	extractx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/extract"
	statex "github.com/tanpawarit/Chative-Bearing-Assistant/agent/state"
)

const FeedbackAcknowledgement = "Thank you for your feedback! It helps us improve our service."

type FeedbackExtractor interface {
	Extract(ctx context.Context, utterance string) extractx.FeedbackResult
}

type feedbackAgent struct {
	extractor FeedbackExtractor
	sink      contractx.FeedbackSink
	now       func() time.Time
}

func NewFeedbackAgent(extractor FeedbackExtractor, sink contractx.FeedbackSink) (contractx.Agent, error) {
	if extractor == nil {
		return nil, fmt.Errorf("%w: feedback extractor is required", contractx.ErrValidation)
	}
	if sink == nil {
		return nil, fmt.Errorf("%w: feedback sink is required", contractx.ErrValidation)
	}
	return &feedbackAgent{extractor: extractor, sink: sink, now: time.Now}, nil
}

// Process records feedback against the previous answer when there is one.
// The acknowledgement is returned either way.
func (f *feedbackAgent) Process(ctx context.Context, utterance string, conversation *statex.ConversationContext) (contractx.AgentResponse, error) {
	res := f.extractor.Extract(ctx, utterance)

	if conversation != nil && conversation.PreviousResponseID != "" {
		record := contractx.FeedbackRecord{
			ID:           uuid.NewString(),
			SessionID:    conversation.SessionID,
			ResponseID:   conversation.PreviousResponseID,
			FeedbackText: res.Text,
			Rating:       res.Rating,
			CreatedAt:    f.now().UTC(),
		}
		if err := f.sink.Append(ctx, record); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("response_id", record.ResponseID).Msg("feedback sink append failed")
		} else {
			log.Ctx(ctx).Info().
				Str("feedback_id", record.ID).
				Int("rating", record.Rating).
				Str("source", res.Source.String()).
				Msg("feedback recorded")
		}
	} else {
		log.Ctx(ctx).Debug().Msg("feedback without a previous response, not recorded")
	}

	return contractx.AgentResponse{
		Response:   FeedbackAcknowledgement,
		QueryType:  contractx.QueryTypeFeedback,
		SourceData: contractx.SourceUserFeedback,
	}, nil
}
