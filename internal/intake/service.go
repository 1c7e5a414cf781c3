// Package intake runs the listing conversation over Telegram: it feeds
// updates into the state machine, keeps one session per chat and user, and
// executes the resulting effects.
package intake

import (
	"context"
	"log/slog"

	"github.com/m3rciful/rentalbot/core/logger"
	tghelpers "github.com/m3rciful/rentalbot/core/telegram/helpers"
	"github.com/m3rciful/rentalbot/core/telegram/state"
	"github.com/m3rciful/rentalbot/internal/listing"

	tele "gopkg.in/telebot.v4"
)

// Service owns the sessions and wires telebot handlers to the state machine.
type Service struct {
	machine  *listing.Machine
	sessions state.Store[listing.Session]
	exec     *Executor

	// Sink overrides the admin sink; nil uses the bot of the current update.
	Sink Sink
}

// NewService builds a Service. sessions and exec must not be nil.
func NewService(m *listing.Machine, sessions state.Store[listing.Session], exec *Executor) *Service {
	return &Service{machine: m, sessions: sessions, exec: exec}
}

// Sessions exposes the session store for the sweeper and gauges.
func (s *Service) Sessions() state.Store[listing.Session] {
	return s.sessions
}

// InProgress reports whether the sender has a running intake in this chat.
func (s *Service) InProgress(c tele.Context) bool {
	sess, ok := s.sessions.Get(state.KeyFrom(c))
	return ok && sess.State.Active()
}

// HandleText feeds a text message into the conversation.
func (s *Service) HandleText(c tele.Context) error { return s.handle(c, eventFrom(c)) }

// HandlePhoto feeds a photo into the conversation.
func (s *Service) HandlePhoto(c tele.Context) error { return s.handle(c, eventFrom(c)) }

// HandleDocument feeds a file attachment into the conversation.
func (s *Service) HandleDocument(c tele.Context) error { return s.handle(c, listing.DocumentInput()) }

// Start begins a fresh intake, discarding any previous one.
func (s *Service) Start(c tele.Context) error { return s.handle(c, listing.Begin()) }

// Cancel aborts the current intake.
func (s *Service) Cancel(c tele.Context) error { return s.handle(c, listing.Cancel()) }

// Press returns the callback handler for a review button.
func (s *Service) Press(a listing.Action) tele.HandlerFunc {
	return func(c tele.Context) error {
		return s.handle(c, listing.Press(a, submitterFrom(c)))
	}
}

func (s *Service) handle(c tele.Context, ev listing.Event) error {
	sink := s.Sink
	if sink == nil {
		sink = BotSink{API: c.Bot()}
	}
	s.Dispatch(tghelpers.BuildContext(c), state.KeyFrom(c), teleConversation{c: c}, sink, ev)
	return nil
}

// Dispatch applies ev to the session under key, stores the result and runs
// the effects. Failures are logged and counted; none are returned.
func (s *Service) Dispatch(ctx context.Context, key state.Key, conv Conversation, sink Sink, ev listing.Event) listing.Outcome {
	prev, ok := s.sessions.Get(key)
	if !ok {
		prev = listing.Session{State: listing.StateIdle}
	}

	out := s.machine.Step(prev, ev)
	if out.Session.State.Active() {
		s.sessions.Put(key, out.Session)
	} else {
		s.sessions.Delete(key)
	}
	s.logTransition(ctx, prev, out, ev)

	if err := s.exec.Run(ctx, conv, sink, out.Effects); err != nil {
		logger.Warn(ctx, logger.CompIntake, "effects.failed",
			slog.String("state", string(out.Session.State)),
			slog.String("error_kind", ErrorKind(err)),
			logger.Err(err),
		)
	}
	return out
}

func (s *Service) logTransition(ctx context.Context, prev listing.Session, out listing.Outcome, ev listing.Event) {
	kind := ErrorKind(out.Err)
	if s.exec.Metrics != nil {
		s.exec.Metrics.ObserveTransition(prev.State, out.Session.State, ev.Kind.String(), kind)
	}

	attrs := []slog.Attr{
		slog.String("state", string(prev.State)),
		slog.String("next_state", string(out.Session.State)),
		slog.String("input", ev.Kind.String()),
	}
	if ev.Kind == listing.EventAction {
		attrs = append(attrs, slog.String("action", string(ev.Action)))
	}
	if l := listingOf(prev, out); l != nil {
		attrs = append(attrs, slog.String("listing_id", l.ID))
	}
	switch {
	case out.Err == nil && out.Terminal():
		attrs = append(attrs, slog.String("outcome", "terminated"))
	case out.Err == nil:
		attrs = append(attrs, slog.String("outcome", "ok"))
	default:
		attrs = append(attrs,
			slog.String("outcome", "invalid"),
			slog.String("error_kind", kind),
			logger.Err(out.Err),
		)
	}
	logger.Info(ctx, logger.CompIntake, "intake.transition", attrs...)
}

func listingOf(prev listing.Session, out listing.Outcome) *listing.Listing {
	if out.Session.Listing != nil {
		return out.Session.Listing
	}
	return prev.Listing
}
