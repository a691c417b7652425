package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/contract"
	qstashx "github.com/tanpawarit/Chative-Bearing-Assistant/pkg/qstash"
)

type QStashConfig struct {
	Destination string `split_words:"true" required:"true"`
	Retries     int    `split_words:"true" default:"3"`
}

type Publisher interface {
	Publish(ctx context.Context, destination string, body any, opts ...qstashx.PublishOption) (qstashx.PublishResult, error)
}

// QStashSink forwards records to a webhook through QStash. The record id
// doubles as the deduplication id.
type QStashSink struct {
	publisher   Publisher
	destination string
	retries     int
}

var _ contractx.FeedbackSink = (*QStashSink)(nil)

func NewQStashSink(publisher Publisher, cfg QStashConfig) (*QStashSink, error) {
	if publisher == nil {
		return nil, errors.New("qstash publisher is required")
	}
	destination := strings.TrimSpace(cfg.Destination)
	if destination == "" {
		return nil, errors.New("qstash destination is required")
	}
	return &QStashSink{publisher: publisher, destination: destination, retries: cfg.Retries}, nil
}

func (q *QStashSink) Append(ctx context.Context, record contractx.FeedbackRecord) error {
	opts := []qstashx.PublishOption{qstashx.WithDeduplicationID(record.ID)}
	if q.retries > 0 {
		opts = append(opts, qstashx.WithRetries(q.retries))
	}

	res, err := q.publisher.Publish(ctx, q.destination, record, opts...)
	if err != nil {
		return fmt.Errorf("forward feedback %s: %w", record.ID, err)
	}
	log.Ctx(ctx).Debug().Str("message_id", res.MessageID).Str("feedback_id", record.ID).Msg("feedback forwarded")
	return nil
}
