package listing

// EventKind classifies inbound conversation events.
type EventKind int

const (
	EventBegin EventKind = iota + 1
	EventCancel
	EventText
	EventPhoto
	EventDocument
	EventAction
)

func (k EventKind) String() string {
	switch k {
	case EventBegin:
		return "begin"
	case EventCancel:
		return "cancel"
	case EventText:
		return "text"
	case EventPhoto:
		return "photo"
	case EventDocument:
		return "document"
	case EventAction:
		return "action"
	}
	return "unknown"
}

// Event is a single inbound input for the state machine.
type Event struct {
	Kind      EventKind
	Text      string
	Photos    []PhotoSize
	Action    Action
	Submitter Submitter
}

// Begin starts a new intake.
func Begin() Event { return Event{Kind: EventBegin} }

// Cancel aborts the current intake.
func Cancel() Event { return Event{Kind: EventCancel} }

// TextInput wraps a plain text message.
func TextInput(text string) Event { return Event{Kind: EventText, Text: text} }

// PhotoInput wraps a photo message with all of its resolutions.
func PhotoInput(sizes ...PhotoSize) Event { return Event{Kind: EventPhoto, Photos: sizes} }

// DocumentInput wraps a file attachment.
func DocumentInput() Event { return Event{Kind: EventDocument} }

// Press wraps a review button press.
func Press(a Action, who Submitter) Event {
	return Event{Kind: EventAction, Action: a, Submitter: who}
}
