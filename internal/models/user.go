package models

// Role is the authorization level of a directory entry.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleLead   Role = "lead"
	RoleViewer Role = "viewer"
	// RoleNone is what an unregistered telegram id resolves to. It is a
	// normal outcome, never an error.
	RoleNone Role = "none"
)

// ParseRole maps a raw directory cell to a Role. Anything unknown is
// RoleNone so a typo in the sheet can never grant access.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RoleLead, RoleViewer:
		return Role(s)
	default:
		return RoleNone
	}
}

// CanOperateShift reports whether the role may open or close its own shift.
func (r Role) CanOperateShift() bool {
	return r == RoleAdmin || r == RoleLead
}

// CanViewSummary reports whether the role may read the day aggregate.
func (r Role) CanViewSummary() bool {
	return r == RoleAdmin || r == RoleViewer || r == RoleLead
}

// User is a row of the Users sheet. Read-only to the bot.
type User struct {
	TelegramID string
	Name       string
	Role       Role
}
