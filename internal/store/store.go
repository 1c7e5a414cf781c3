// Package store records submission attempts. Only delivery metadata is kept;
// listing field values never reach the ledger.
package store

import (
	"context"
	"time"
)

// Submission outcomes.
const (
	OutcomeDelivered = "delivered"
	OutcomeFailed    = "failed"
)

// Submission is one delivery attempt of a completed listing.
type Submission struct {
	ID          string    `db:"id"`
	ListingID   string    `db:"listing_id"`
	SubmitterID int64     `db:"submitter_id"`
	AdminChatID int64     `db:"admin_chat_id"`
	Outcome     string    `db:"outcome"`
	ErrorKind   string    `db:"error_kind"`
	CreatedAt   time.Time `db:"created_at"`
}

// Counts aggregates submissions by outcome.
type Counts struct {
	Delivered int
	Failed    int
}

// Ledger persists submission attempts.
type Ledger interface {
	Record(ctx context.Context, s Submission) error
	Counts(ctx context.Context) (Counts, error)
	// Recent returns at most limit submissions, newest first.
	Recent(ctx context.Context, limit int) ([]Submission, error)
}
