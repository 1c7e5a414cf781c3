package listing

// Keyboard selects the markup attached to a reply.
type Keyboard int

const (
	KeyboardNone Keyboard = iota
	// KeyboardRemove hides a previously shown reply keyboard.
	KeyboardRemove
	// KeyboardCategories shows the category reply keyboard.
	KeyboardCategories
	// KeyboardReview attaches ReviewMenu as inline buttons.
	KeyboardReview
)

// Effect is an outbound side effect produced by a transition.
type Effect interface {
	effect()
}

// Reply sends Markdown text to the user's conversation. Edit asks the
// transport to replace the message that carried the pressed button.
type Reply struct {
	Text     string
	Keyboard Keyboard
	Edit     bool
}

// Deliver forwards a completed listing to the admin chat: Header, Summary,
// then Photos as one album. Delivered or Failed is sent back to the user.
type Deliver struct {
	ChatID    int64
	ListingID string
	Submitter Submitter
	Header    string
	Summary   string
	Photos    []string
	Delivered string
	Failed    string
}

func (Reply) effect()   {}
func (Deliver) effect() {}
