package intake

import (
	"context"
	"errors"
	"strings"
	"testing"

	tg "github.com/m3rciful/rentalbot/core/telegram"
	"github.com/m3rciful/rentalbot/core/telegram/state"
	"github.com/m3rciful/rentalbot/internal/listing"
	"github.com/m3rciful/rentalbot/internal/store"
)

var testKey = state.Key{ChatID: 10, UserID: 20}

type harness struct {
	svc     *Service
	conv    *fakeConversation
	sink    *fakeSink
	ledger  *store.Memory
	metrics *fakeMetrics
}

func newHarness(adminChatID int64) *harness {
	exec, ledger, metrics := newTestExecutor()
	m := &listing.Machine{AdminChatID: adminChatID, NewID: func() string { return "L1" }}
	return &harness{
		svc:     NewService(m, state.NewMemoryStore[listing.Session](), exec),
		conv:    &fakeConversation{},
		sink:    &fakeSink{},
		ledger:  ledger,
		metrics: metrics,
	}
}

func (h *harness) send(ev listing.Event) listing.Outcome {
	return h.svc.Dispatch(context.Background(), testKey, h.conv, h.sink, ev)
}

func (h *harness) session() (listing.Session, bool) {
	return h.svc.Sessions().Get(testKey)
}

func (h *harness) fillToReview() {
	h.send(listing.Begin())
	h.send(listing.TextInput("BMW M4"))
	h.send(listing.TextInput(" exotic "))
	h.send(listing.TextInput("149.99"))
	h.send(listing.PhotoInput(listing.PhotoSize{FileID: "p1", Width: 10, Height: 10}))
	h.send(listing.PhotoInput(listing.PhotoSize{FileID: "p2", Width: 10, Height: 10}))
}

func TestServiceRoundTrip(t *testing.T) {
	h := newHarness(-100)
	h.fillToReview()

	sess, ok := h.session()
	if !ok || sess.State != listing.StateReview {
		t.Fatalf("expected review session, got %+v (ok=%v)", sess, ok)
	}
	if h.conv.last().kb != listing.KeyboardReview {
		t.Fatalf("preview must carry the review menu, got %+v", h.conv.last())
	}

	out := h.send(listing.Press(listing.ActionSubmit, listing.Submitter{ID: 20, Username: "alice"}))
	if !out.Terminal() {
		t.Fatalf("expected terminal outcome, got %+v", out.Session)
	}
	if _, ok := h.session(); ok {
		t.Fatal("session must be discarded after submission")
	}
	if len(h.sink.calls) != 3 || !strings.HasPrefix(h.sink.calls[2], "album:-100:[p1 p2]") {
		t.Fatalf("sink calls = %v", h.sink.calls)
	}
	if subs := h.ledger.Submissions(); len(subs) != 1 || subs[0].ListingID != "L1" {
		t.Fatalf("ledger = %+v", subs)
	}
	if got := len(h.metrics.transitions); got != 7 {
		t.Fatalf("transitions observed = %d, want 7", got)
	}
}

func TestServiceInputWithoutSessionIsIgnored(t *testing.T) {
	h := newHarness(-100)
	out := h.send(listing.TextInput("hello"))
	if out.Session.State.Active() || len(out.Effects) != 0 {
		t.Fatalf("expected no-op, got %+v", out)
	}
	if len(h.conv.msgs) != 0 {
		t.Fatalf("nothing should be sent, got %+v", h.conv.msgs)
	}
	if _, ok := h.session(); ok {
		t.Fatal("no session should be created")
	}
}

func TestServiceOrphanPress(t *testing.T) {
	h := newHarness(-100)
	out := h.send(listing.Press(listing.ActionEditName, listing.Submitter{ID: 20}))
	if !errors.Is(out.Err, listing.ErrOrphanAction) {
		t.Fatalf("expected ErrOrphanAction, got %v", out.Err)
	}
	msg := h.conv.last()
	if !msg.edit || !strings.Contains(msg.text, "No active listing") {
		t.Fatalf("unexpected reply %+v", msg)
	}
}

func TestServiceCancelDropsSession(t *testing.T) {
	h := newHarness(-100)
	h.send(listing.Begin())
	h.send(listing.TextInput("Civic"))
	h.send(listing.Cancel())
	if _, ok := h.session(); ok {
		t.Fatal("cancel must drop the session")
	}
	h.send(listing.Begin())
	sess, _ := h.session()
	if sess.State != listing.StateName || sess.Listing.Name != "" {
		t.Fatalf("begin after cancel must start empty, got %+v", sess)
	}
}

func TestServiceDeliveryFailureEndsSession(t *testing.T) {
	h := newHarness(-100)
	h.sink.failAt = 2
	h.fillToReview()
	h.send(listing.Press(listing.ActionSubmit, listing.Submitter{ID: 20}))

	if _, ok := h.session(); ok {
		t.Fatal("failed delivery must still end the session")
	}
	if !strings.HasPrefix(h.conv.last().text, "Sorry") {
		t.Fatalf("expected apology, got %q", h.conv.last().text)
	}
	c, _ := h.ledger.Counts(context.Background())
	if c.Failed != 1 || c.Delivered != 0 {
		t.Fatalf("counts = %+v", c)
	}
}

func TestServiceAdminUnsetKeepsReview(t *testing.T) {
	h := newHarness(0)
	h.fillToReview()
	out := h.send(listing.Press(listing.ActionSubmit, listing.Submitter{ID: 20}))
	if !errors.Is(out.Err, listing.ErrAdminNotConfigured) {
		t.Fatalf("expected ErrAdminNotConfigured, got %v", out.Err)
	}
	if sess, ok := h.session(); !ok || sess.State != listing.StateReview {
		t.Fatalf("session must stay in review, got %+v", sess)
	}
	if len(h.sink.calls) != 0 {
		t.Fatalf("nothing may reach the sink, got %v", h.sink.calls)
	}
}

func TestServiceStatsText(t *testing.T) {
	h := newHarness(-100)
	h.fillToReview()
	text, err := h.svc.StatsText(context.Background())
	if err != nil {
		t.Fatalf("StatsText: %v", err)
	}
	for _, want := range []string{"Active sessions: 1", "Delivered: 0", "Failed: 0"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in %q", want, text)
		}
	}
}

func TestServiceStatsListsRecentSubmissions(t *testing.T) {
	h := newHarness(-100)
	h.fillToReview()
	h.send(listing.Press(listing.ActionSubmit, listing.Submitter{ID: 20}))

	text, err := h.svc.StatsText(context.Background())
	if err != nil {
		t.Fatalf("StatsText: %v", err)
	}
	for _, want := range []string{"Active sessions: 0", "Delivered: 1", "*Recent*", "2026-01-02 03:04 L1 delivered"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in %q", want, text)
		}
	}
}

func TestRegisterAddsCommandsAndCallbacks(t *testing.T) {
	h := newHarness(-100)
	reg := tg.NewRegistry()
	if err := h.svc.Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if got := len(reg.ListCallbacks()); got != 7 {
		t.Fatalf("callbacks = %d, want 7", got)
	}
	visible := reg.ListCommands(true)
	for _, c := range visible {
		if c.Text == "/stats" {
			t.Fatal("/stats must be hidden")
		}
	}
	if len(visible) != 4 {
		t.Fatalf("visible commands = %v", visible)
	}
	help := HelpText(visible)
	if !strings.Contains(help, "/start - Add a car rental listing") {
		t.Fatalf("help = %q", help)
	}
}
