package listing

// State identifies a step of the intake conversation.
type State string

const (
	// StateIdle means the conversation has no session.
	StateIdle State = "idle"

	StateName     State = "name"
	StateCategory State = "category"
	StatePrice    State = "price"
	StatePhoto1   State = "photo1"
	StatePhoto2   State = "photo2"
	StateReview   State = "review"

	StateEditName     State = "edit_name"
	StateEditCategory State = "edit_category"
	StateEditPrice    State = "edit_price"
	StateEditPhoto1   State = "edit_photo1"
	StateEditPhoto2   State = "edit_photo2"

	// StateTerminated ends the conversation; the session is dropped.
	StateTerminated State = "terminated"
)

// Active reports whether s belongs to a running conversation.
func (s State) Active() bool {
	switch s {
	case "", StateIdle, StateTerminated:
		return false
	}
	return true
}

// Action is the identifier carried by a review button.
type Action string

const (
	ActionEditName     Action = "edit_name"
	ActionEditCategory Action = "edit_cat"
	ActionEditPrice    Action = "edit_price"
	ActionEditPhoto1   Action = "edit_p1"
	ActionEditPhoto2   Action = "edit_p2"
	ActionSubmit       Action = "submit"
	ActionCancel       Action = "cancel"
)

// Button is one entry of the review menu.
type Button struct {
	Label  string
	Action Action
}

// ReviewMenu is the fixed seven-action menu attached to every preview.
var ReviewMenu = [][]Button{
	{{"✏️ Replace Name", ActionEditName}, {"🗂 Change Category", ActionEditCategory}},
	{{"💲 Change Price", ActionEditPrice}},
	{{"🖼 Replace Photo 1", ActionEditPhoto1}, {"🖼 Replace Photo 2", ActionEditPhoto2}},
	{{"✅ Submit", ActionSubmit}, {"❌ Cancel", ActionCancel}},
}

// Actions returns every action of ReviewMenu.
func Actions() []Action {
	var out []Action
	for _, row := range ReviewMenu {
		for _, b := range row {
			out = append(out, b.Action)
		}
	}
	return out
}
