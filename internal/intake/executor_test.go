package intake

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/m3rciful/rentalbot/internal/listing"
	"github.com/m3rciful/rentalbot/internal/store"
)

func newTestExecutor() (*Executor, *store.Memory, *fakeMetrics) {
	ledger := store.NewMemory()
	metrics := &fakeMetrics{}
	exec := NewExecutor(ledger, metrics)
	exec.newID = func() string { return "sub-1" }
	exec.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return exec, ledger, metrics
}

func testDeliver() listing.Deliver {
	return listing.Deliver{
		ChatID:    -100,
		ListingID: "L1",
		Submitter: listing.Submitter{ID: 7, Username: "alice"},
		Header:    "header",
		Summary:   "summary",
		Photos:    []string{"p1", "p2"},
		Delivered: "delivered",
		Failed:    "failed",
	}
}

func TestExecutorRepliesInOrder(t *testing.T) {
	exec, _, _ := newTestExecutor()
	conv := &fakeConversation{}
	err := exec.Run(context.Background(), conv, nil, []listing.Effect{
		listing.Reply{Text: "one", Keyboard: listing.KeyboardRemove},
		listing.Reply{Text: "two", Edit: true},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(conv.msgs) != 2 || conv.msgs[0].text != "one" || conv.msgs[1].text != "two" {
		t.Fatalf("unexpected messages: %+v", conv.msgs)
	}
	if conv.msgs[0].kb != listing.KeyboardRemove || !conv.msgs[1].edit {
		t.Fatalf("keyboard or edit flag lost: %+v", conv.msgs)
	}
}

func TestExecutorDeliverSuccess(t *testing.T) {
	exec, ledger, metrics := newTestExecutor()
	conv := &fakeConversation{}
	sink := &fakeSink{}

	if err := exec.Run(context.Background(), conv, sink, []listing.Effect{testDeliver()}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{"text:-100:header", "text:-100:summary", "album:-100:[p1 p2]"}
	if strings.Join(sink.calls, "|") != strings.Join(want, "|") {
		t.Fatalf("sink calls = %v, want %v", sink.calls, want)
	}
	if conv.last().text != "delivered" {
		t.Fatalf("user was told %q", conv.last().text)
	}
	subs := ledger.Submissions()
	if len(subs) != 1 {
		t.Fatalf("ledger = %+v", subs)
	}
	got := subs[0]
	if got.ID != "sub-1" || got.ListingID != "L1" || got.SubmitterID != 7 || got.AdminChatID != -100 ||
		got.Outcome != store.OutcomeDelivered || got.ErrorKind != "" || got.CreatedAt.IsZero() {
		t.Fatalf("unexpected submission %+v", got)
	}
	if len(metrics.submissions) != 1 || metrics.submissions[0] != store.OutcomeDelivered {
		t.Fatalf("metrics = %v", metrics.submissions)
	}
}

func TestExecutorDeliverStopsAtFirstFailure(t *testing.T) {
	for failAt := 1; failAt <= 3; failAt++ {
		exec, ledger, _ := newTestExecutor()
		conv := &fakeConversation{}
		sink := &fakeSink{failAt: failAt}

		err := exec.Run(context.Background(), conv, sink, []listing.Effect{
			testDeliver(),
			listing.Reply{Text: "never"},
		})
		if !errors.Is(err, listing.ErrDelivery) {
			t.Fatalf("failAt=%d: expected ErrDelivery, got %v", failAt, err)
		}
		if len(sink.calls) != failAt {
			t.Fatalf("failAt=%d: sink calls = %v", failAt, sink.calls)
		}
		if len(conv.msgs) != 1 || conv.msgs[0].text != "failed" {
			t.Fatalf("failAt=%d: user messages = %+v", failAt, conv.msgs)
		}
		subs := ledger.Submissions()
		if len(subs) != 1 || subs[0].Outcome != store.OutcomeFailed || subs[0].ErrorKind != "delivery" {
			t.Fatalf("failAt=%d: ledger = %+v", failAt, subs)
		}
	}
}

func TestExecutorDeliverWithoutSink(t *testing.T) {
	exec, _, _ := newTestExecutor()
	conv := &fakeConversation{}
	err := exec.Run(context.Background(), conv, nil, []listing.Effect{testDeliver()})
	if !errors.Is(err, listing.ErrDelivery) {
		t.Fatalf("expected ErrDelivery, got %v", err)
	}
}

func TestErrorKind(t *testing.T) {
	cases := map[error]string{
		nil:                             "",
		listing.ErrValidation:           "validation",
		listing.ErrIncompleteSubmission: "incomplete",
		listing.ErrAdminNotConfigured:   "admin_unset",
		listing.ErrOrphanAction:         "orphan_action",
		listing.ErrDelivery:             "delivery",
		errors.New("other"):             "internal",
	}
	for err, want := range cases {
		if got := ErrorKind(err); got != want {
			t.Errorf("ErrorKind(%v) = %q, want %q", err, got, want)
		}
	}
}
