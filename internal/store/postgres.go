package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/rentalbot/core/logger"
)

// Postgres is a Ledger backed by the listing_submissions table.
type Postgres struct {
	db *sqlx.DB
}

// NewPostgres wraps an open connection.
func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

// Record inserts s.
func (p *Postgres) Record(ctx context.Context, s Submission) error {
	const q = `
		INSERT INTO listing_submissions
			(id, listing_id, submitter_id, admin_chat_id, outcome, error_kind, created_at)
		VALUES
			(:id, :listing_id, :submitter_id, :admin_chat_id, :outcome, :error_kind, :created_at)
	`
	start := time.Now()
	if _, err := p.db.NamedExecContext(ctx, q, s); err != nil {
		return fmt.Errorf("store.Record: %w", err)
	}
	logger.Debug(ctx, logger.CompStore, "submission.recorded",
		slog.String("submission_id", s.ID),
		slog.String("listing_id", s.ListingID),
		slog.String("outcome", outcomeForLog(s.Outcome)),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

// Counts returns submission totals per outcome.
func (p *Postgres) Counts(ctx context.Context) (Counts, error) {
	const q = `
		SELECT outcome, COUNT(*) AS n
		FROM listing_submissions
		GROUP BY outcome
	`
	var rows []struct {
		Outcome string `db:"outcome"`
		N       int    `db:"n"`
	}
	if err := p.db.SelectContext(ctx, &rows, q); err != nil {
		return Counts{}, fmt.Errorf("store.Counts: %w", err)
	}
	var c Counts
	for _, r := range rows {
		c.add(r.Outcome, r.N)
	}
	return c, nil
}

// Recent returns the latest submissions, newest first.
func (p *Postgres) Recent(ctx context.Context, limit int) ([]Submission, error) {
	const q = `
		SELECT id, listing_id, submitter_id, admin_chat_id, outcome, error_kind, created_at
		FROM listing_submissions
		ORDER BY created_at DESC
		LIMIT $1
	`
	if limit <= 0 {
		return nil, nil
	}
	var out []Submission
	if err := p.db.SelectContext(ctx, &out, q, limit); err != nil {
		return nil, fmt.Errorf("store.Recent: %w", err)
	}
	return out, nil
}

func (c *Counts) add(outcome string, n int) {
	switch outcome {
	case OutcomeDelivered:
		c.Delivered += n
	case OutcomeFailed:
		c.Failed += n
	}
}

func outcomeForLog(outcome string) string {
	if outcome == OutcomeDelivered {
		return "ok"
	}
	return "fail"
}
