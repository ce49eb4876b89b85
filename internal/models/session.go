package models

// FlowState names a step of the shift open/close conversation.
type FlowState string

const (
	StatePickTeam        FlowState = "PICK_TEAM"
	StatePickField       FlowState = "PICK_FIELD"
	StateWaitWorkers     FlowState = "WAIT_WORKERS"
	StateWaitLocationOn  FlowState = "WAIT_LOCATION_ON"
	StateWaitLocationOff FlowState = "WAIT_LOCATION_OFF"
)

// FlowSession is the in-flight conversation of one user. It lives only in
// process memory: a restart drops it and the user simply starts over.
type FlowSession struct {
	State         FlowState
	Team          string
	FieldID       string
	FieldName     string
	Workers       int
	AdminOverride bool
}
