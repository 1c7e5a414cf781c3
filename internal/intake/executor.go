package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/m3rciful/rentalbot/core/logger"
	"github.com/m3rciful/rentalbot/internal/listing"
	"github.com/m3rciful/rentalbot/internal/store"
)

// Metrics receives intake counters. A nil Metrics disables reporting.
type Metrics interface {
	ObserveTransition(from, to listing.State, input, errKind string)
	ObserveSubmission(outcome string)
}

// Executor runs the effects of a transition in order.
type Executor struct {
	Ledger  store.Ledger
	Metrics Metrics

	newID func() string
	now   func() time.Time
}

// NewExecutor returns an Executor recording deliveries in ledger.
func NewExecutor(ledger store.Ledger, metrics Metrics) *Executor {
	if ledger == nil {
		ledger = store.NewMemory()
	}
	return &Executor{
		Ledger:  ledger,
		Metrics: metrics,
		newID:   uuid.NewString,
		now:     time.Now,
	}
}

// Run executes effects against the conversation and the admin sink. It stops
// at the first failing effect; a failed delivery is returned wrapped in
// listing.ErrDelivery after the user has been told.
func (e *Executor) Run(ctx context.Context, conv Conversation, sink Sink, effects []listing.Effect) error {
	for _, eff := range effects {
		var err error
		switch eff := eff.(type) {
		case listing.Reply:
			if eff.Edit {
				err = conv.Edit(eff.Text, eff.Keyboard)
			} else {
				err = conv.Send(eff.Text, eff.Keyboard)
			}
		case listing.Deliver:
			err = e.deliver(ctx, conv, sink, eff)
		default:
			err = fmt.Errorf("intake: unsupported effect %T", eff)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) deliver(ctx context.Context, conv Conversation, sink Sink, d listing.Deliver) error {
	start := time.Now()
	sub := store.Submission{
		ID:          e.newID(),
		ListingID:   d.ListingID,
		SubmitterID: d.Submitter.ID,
		AdminChatID: d.ChatID,
		Outcome:     store.OutcomeDelivered,
		CreatedAt:   e.now().UTC(),
	}

	sendErr := sendSubmission(sink, d)
	if sendErr != nil {
		sub.Outcome = store.OutcomeFailed
		sub.ErrorKind = ErrorKind(listing.ErrDelivery)
	}
	if err := e.Ledger.Record(ctx, sub); err != nil {
		logger.Warn(ctx, logger.CompIntake, "submission.record_failed",
			slog.String("submission_id", sub.ID),
			logger.Err(err),
		)
	}
	if e.Metrics != nil {
		e.Metrics.ObserveSubmission(sub.Outcome)
	}

	attrs := []slog.Attr{
		slog.String("submission_id", sub.ID),
		slog.String("listing_id", d.ListingID),
		slog.Int64("admin_chat_id", d.ChatID),
		slog.Duration("duration", time.Since(start)),
	}
	if sendErr != nil {
		logger.Error(ctx, logger.CompIntake, "submission.failed", append(attrs,
			slog.String("status", "fail"),
			logger.Err(sendErr),
		)...)
		if err := conv.Send(d.Failed, listing.KeyboardNone); err != nil {
			return fmt.Errorf("%w: %w (notify: %v)", listing.ErrDelivery, sendErr, err)
		}
		return fmt.Errorf("%w: %w", listing.ErrDelivery, sendErr)
	}
	logger.Info(ctx, logger.CompIntake, "submission.delivered", append(attrs, slog.String("status", "ok"))...)
	return conv.Send(d.Delivered, listing.KeyboardNone)
}

// sendSubmission forwards header, summary and album, each attempted once.
func sendSubmission(sink Sink, d listing.Deliver) error {
	if sink == nil {
		return errors.New("admin sink unavailable")
	}
	if err := sink.SendText(d.ChatID, d.Header); err != nil {
		return fmt.Errorf("send header: %w", err)
	}
	if err := sink.SendText(d.ChatID, d.Summary); err != nil {
		return fmt.Errorf("send summary: %w", err)
	}
	if err := sink.SendAlbum(d.ChatID, d.Photos); err != nil {
		return fmt.Errorf("send album: %w", err)
	}
	return nil
}

// ErrorKind maps classified errors to a short label for logs, metrics and
// the ledger. Unclassified errors yield "internal"; nil yields "".
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, listing.ErrValidation):
		return "validation"
	case errors.Is(err, listing.ErrIncompleteSubmission):
		return "incomplete"
	case errors.Is(err, listing.ErrAdminNotConfigured):
		return "admin_unset"
	case errors.Is(err, listing.ErrOrphanAction):
		return "orphan_action"
	case errors.Is(err, listing.ErrDelivery):
		return "delivery"
	}
	return "internal"
}
