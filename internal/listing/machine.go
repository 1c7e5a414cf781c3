package listing

import "fmt"

// Session is the per-conversation state owned by the caller. Listing is nil
// when the conversation has no intake in progress.
type Session struct {
	State   State
	Listing *Listing
}

// Outcome is the result of one transition. Err classifies a handled failure
// (validation, incomplete submission, ...) for logs and metrics; the
// conversation already reflects it.
type Outcome struct {
	Session Session
	Effects []Effect
	Err     error
}

// Terminal reports whether the session ended with this transition.
func (o Outcome) Terminal() bool {
	return o.Session.State == StateTerminated
}

// Machine holds the configuration the transition function depends on.
type Machine struct {
	// AdminChatID receives submissions; 0 means unset.
	AdminChatID int64
	// NewID assigns listing identities; defaults to NewID.
	NewID func() string
}

// inputStep describes how a collecting or editing state consumes input.
type inputStep struct {
	apply  func(*Listing, Event) error
	retry  Reply
	next   State
	prompt Reply
}

var inputSteps = map[State]inputStep{
	StateName: {
		apply:  setName,
		retry:  Reply{Text: msgNameRetry},
		next:   StateCategory,
		prompt: Reply{Text: msgCategory, Keyboard: KeyboardCategories},
	},
	StateCategory: {
		apply:  setCategory,
		retry:  Reply{Text: msgCategoryRetry, Keyboard: KeyboardCategories},
		next:   StatePrice,
		prompt: Reply{Text: msgPrice, Keyboard: KeyboardRemove},
	},
	StatePrice: {
		apply:  setPrice,
		retry:  Reply{Text: msgPriceRetry},
		next:   StatePhoto1,
		prompt: Reply{Text: msgPhoto1},
	},
	StatePhoto1: {
		apply:  setPhoto(func(l *Listing, id string) { l.Photo1 = id }),
		retry:  Reply{Text: msgPhotoRetry},
		next:   StatePhoto2,
		prompt: Reply{Text: msgPhoto2},
	},
	StatePhoto2: {
		apply: setPhoto(func(l *Listing, id string) { l.Photo2 = id }),
		retry: Reply{Text: msgPhotoRetry},
		next:  StateReview,
	},
	StateEditName: {
		apply: setName,
		retry: Reply{Text: msgNameRetry},
		next:  StateReview,
	},
	StateEditCategory: {
		apply: setCategory,
		retry: Reply{Text: msgCategoryRetry, Keyboard: KeyboardCategories},
		next:  StateReview,
	},
	StateEditPrice: {
		apply: setPrice,
		retry: Reply{Text: msgPriceRetry},
		next:  StateReview,
	},
	StateEditPhoto1: {
		apply: setPhoto(func(l *Listing, id string) { l.Photo1 = id }),
		retry: Reply{Text: msgEditPhotoRetry},
		next:  StateReview,
	},
	StateEditPhoto2: {
		apply: setPhoto(func(l *Listing, id string) { l.Photo2 = id }),
		retry: Reply{Text: msgEditPhotoRetry},
		next:  StateReview,
	},
}

// editActions maps review buttons to the edit state they open.
var editActions = map[Action]struct {
	state  State
	prompt Reply
}{
	ActionEditName:     {StateEditName, Reply{Text: msgEditName}},
	ActionEditCategory: {StateEditCategory, Reply{Text: msgEditCategory, Keyboard: KeyboardCategories}},
	ActionEditPrice:    {StateEditPrice, Reply{Text: msgEditPrice}},
	ActionEditPhoto1:   {StateEditPhoto1, Reply{Text: msgEditPhoto1}},
	ActionEditPhoto2:   {StateEditPhoto2, Reply{Text: msgEditPhoto2}},
}

// Step applies ev to s and returns the next session with the effects to run.
// s is never modified; a changed listing is returned as a fresh copy.
func (m *Machine) Step(s Session, ev Event) Outcome {
	switch ev.Kind {
	case EventBegin:
		return m.begin()
	case EventCancel:
		return cancelled()
	case EventAction:
		return m.press(s, ev)
	}

	if s.Listing == nil || !s.State.Active() {
		return Outcome{Session: s}
	}
	step, ok := inputSteps[s.State]
	if !ok {
		return Outcome{Session: s}
	}

	next := *s.Listing
	if err := step.apply(&next, ev); err != nil {
		return Outcome{Session: s, Effects: []Effect{step.retry}, Err: err}
	}
	out := Outcome{Session: Session{State: step.next, Listing: &next}}
	if step.next == StateReview {
		out.Effects = []Effect{previewReply(next)}
	} else {
		out.Effects = []Effect{step.prompt}
	}
	return out
}

func (m *Machine) begin() Outcome {
	newID := m.NewID
	if newID == nil {
		newID = NewID
	}
	return Outcome{
		Session: Session{State: StateName, Listing: &Listing{ID: newID()}},
		Effects: []Effect{Reply{Text: msgWelcome, Keyboard: KeyboardRemove}},
	}
}

func (m *Machine) press(s Session, ev Event) Outcome {
	if s.Listing == nil {
		return Outcome{
			Session: Session{State: StateTerminated},
			Effects: []Effect{Reply{Text: msgNoListing, Edit: true}},
			Err:     ErrOrphanAction,
		}
	}
	if s.State != StateReview {
		return Outcome{Session: s}
	}
	if ev.Action == ActionCancel {
		return cancelled()
	}
	if edit, ok := editActions[ev.Action]; ok {
		return Outcome{
			Session: Session{State: edit.state, Listing: s.Listing},
			Effects: []Effect{edit.prompt},
		}
	}
	if ev.Action == ActionSubmit {
		return m.submit(s, ev.Submitter)
	}
	return Outcome{Session: s}
}

func (m *Machine) submit(s Session, who Submitter) Outcome {
	l := *s.Listing
	if missing := l.Missing(); len(missing) > 0 {
		return Outcome{
			Session: s,
			Effects: []Effect{Reply{Text: msgIncomplete}, previewReply(l)},
			Err:     fmt.Errorf("%w: missing %v", ErrIncompleteSubmission, missing),
		}
	}
	if m.AdminChatID == 0 {
		return Outcome{
			Session: s,
			Effects: []Effect{Reply{Text: msgAdminUnset}},
			Err:     ErrAdminNotConfigured,
		}
	}
	return Outcome{
		Session: Session{State: StateTerminated},
		Effects: []Effect{Deliver{
			ChatID:    m.AdminChatID,
			ListingID: l.ID,
			Submitter: who,
			Header:    Header(who),
			Summary:   Summary(l),
			Photos:    []string{l.Photo1, l.Photo2},
			Delivered: msgDelivered,
			Failed:    msgFailed,
		}},
	}
}

func cancelled() Outcome {
	return Outcome{
		Session: Session{State: StateTerminated},
		Effects: []Effect{Reply{Text: msgCancelled, Keyboard: KeyboardRemove}},
	}
}

func previewReply(l Listing) Reply {
	return Reply{Text: Preview(l), Keyboard: KeyboardReview}
}

func setName(l *Listing, ev Event) error {
	if ev.Kind != EventText {
		return fmt.Errorf("%w: expected text, got %s", ErrValidation, ev.Kind)
	}
	name, err := ValidateName(ev.Text)
	if err != nil {
		return err
	}
	l.Name = name
	return nil
}

func setCategory(l *Listing, ev Event) error {
	if ev.Kind != EventText {
		return fmt.Errorf("%w: expected text, got %s", ErrValidation, ev.Kind)
	}
	c, err := ParseCategory(ev.Text)
	if err != nil {
		return err
	}
	l.Category = c
	return nil
}

func setPrice(l *Listing, ev Event) error {
	if ev.Kind != EventText {
		return fmt.Errorf("%w: expected text, got %s", ErrValidation, ev.Kind)
	}
	v, err := ParsePrice(ev.Text)
	if err != nil {
		return err
	}
	l.PricePerDay = v
	return nil
}

func setPhoto(assign func(*Listing, string)) func(*Listing, Event) error {
	return func(l *Listing, ev Event) error {
		if ev.Kind != EventPhoto {
			return fmt.Errorf("%w: expected photo, got %s", ErrValidation, ev.Kind)
		}
		id, err := PickPhoto(ev.Photos)
		if err != nil {
			return err
		}
		assign(l, id)
		return nil
	}
}
