package feedback

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	contractx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/contract"
)

type PostgresConfig struct {
	DSN          string        `envconfig:"DSN" required:"true"`
	Timeout      time.Duration `split_words:"true" default:"5s"`
	CreateSchema bool          `split_words:"true" default:"true"`
}

type feedbackRow struct {
	bun.BaseModel `bun:"table:bearing_feedback,alias:bf"`

	ID           string    `bun:"id,pk"`
	SessionID    string    `bun:"session_id,notnull"`
	ResponseID   string    `bun:"response_id,notnull"`
	FeedbackText string    `bun:"feedback_text"`
	Rating       int       `bun:"rating,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull"`
}

func toRow(r contractx.FeedbackRecord) *feedbackRow {
	return &feedbackRow{
		ID:           r.ID,
		SessionID:    r.SessionID,
		ResponseID:   r.ResponseID,
		FeedbackText: r.FeedbackText,
		Rating:       r.Rating,
		CreatedAt:    r.CreatedAt.UTC(),
	}
}

// PostgresSink writes one row per feedback record.
type PostgresSink struct {
	db      *bun.DB
	timeout time.Duration
}

var _ contractx.FeedbackSink = (*PostgresSink)(nil)

func NewPostgresSink(ctx context.Context, cfg PostgresConfig) (*PostgresSink, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	sink := newPostgresSink(db, cfg.Timeout)
	if cfg.CreateSchema {
		if err := sink.CreateTable(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return sink, nil
}

func newPostgresSink(db *bun.DB, timeout time.Duration) *PostgresSink {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &PostgresSink{db: db, timeout: timeout}
}

func (p *PostgresSink) CreateTable(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if _, err := p.db.NewCreateTable().Model((*feedbackRow)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create feedback table: %w", err)
	}
	return nil
}

func (p *PostgresSink) Append(ctx context.Context, record contractx.FeedbackRecord) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if _, err := p.db.NewInsert().Model(toRow(record)).Exec(ctx); err != nil {
		return fmt.Errorf("insert feedback %s: %w", record.ID, err)
	}
	return nil
}

func (p *PostgresSink) Close() error {
	return p.db.Close()
}
