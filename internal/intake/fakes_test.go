package intake

import (
	"errors"
	"fmt"

	"github.com/m3rciful/rentalbot/internal/listing"
)

type sent struct {
	text string
	kb   listing.Keyboard
	edit bool
}

type fakeConversation struct {
	msgs    []sent
	sendErr error
}

func (f *fakeConversation) Send(text string, kb listing.Keyboard) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.msgs = append(f.msgs, sent{text: text, kb: kb})
	return nil
}

func (f *fakeConversation) Edit(text string, kb listing.Keyboard) error {
	f.msgs = append(f.msgs, sent{text: text, kb: kb, edit: true})
	return nil
}

func (f *fakeConversation) last() sent {
	if len(f.msgs) == 0 {
		return sent{}
	}
	return f.msgs[len(f.msgs)-1]
}

type fakeSink struct {
	calls  []string
	failAt int // 1-based call index that fails; 0 never
}

func (f *fakeSink) record(call string) error {
	f.calls = append(f.calls, call)
	if f.failAt == len(f.calls) {
		return errors.New("telegram: chat not found (400)")
	}
	return nil
}

func (f *fakeSink) SendText(chatID int64, text string) error {
	return f.record(fmt.Sprintf("text:%d:%s", chatID, text))
}

func (f *fakeSink) SendAlbum(chatID int64, photoIDs []string) error {
	return f.record(fmt.Sprintf("album:%d:%v", chatID, photoIDs))
}

type fakeMetrics struct {
	transitions []string
	submissions []string
}

func (f *fakeMetrics) ObserveTransition(from, to listing.State, input, errKind string) {
	f.transitions = append(f.transitions, fmt.Sprintf("%s>%s:%s:%s", from, to, input, errKind))
}

func (f *fakeMetrics) ObserveSubmission(outcome string) {
	f.submissions = append(f.submissions, outcome)
}
