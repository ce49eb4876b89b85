package flow

// Action tags carried by keyboard buttons. Opaque to the transport.
const (
	ActionOpen          = "shift_on"
	ActionOpenOverride  = "shift_on_admin"
	ActionClose         = "shift_off"
	ActionCloseOverride = "shift_off_admin"
	ActionStatus        = "day_status"

	teamPrefix  = "team:"
	fieldPrefix = "field:"
)

// Button is one selectable action offered to the user.
type Button struct {
	Label  string
	Action string
}

// Reply is the rendering instruction returned by every engine entry point:
// a text, an optional keyboard, and whether the transport should offer a
// location-share control.
type Reply struct {
	Text            string
	Buttons         [][]Button
	RequestLocation bool
}

func text(s string) Reply {
	return Reply{Text: s}
}
