package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShiftID_Deterministic(t *testing.T) {
	a := ShiftID("2026-08-31", "Equipe 1", "F1")
	b := ShiftID("2026-08-31", "Equipe 1", "F1")
	assert.Equal(t, a, b)
	assert.Equal(t, "2026-08-31_Equipe 1_F1", a)
}

func TestShiftID_VariesWithInputs(t *testing.T) {
	base := ShiftID("2026-08-31", "Equipe 1", "F1")
	assert.NotEqual(t, base, ShiftID("2026-09-01", "Equipe 1", "F1"))
	assert.NotEqual(t, base, ShiftID("2026-08-31", "Equipe 2", "F1"))
	assert.NotEqual(t, base, ShiftID("2026-08-31", "Equipe 1", "F2"))
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleLead, ParseRole("lead"))
	assert.Equal(t, RoleViewer, ParseRole("viewer"))
	assert.Equal(t, RoleNone, ParseRole(""))
	assert.Equal(t, RoleNone, ParseRole("superadmin"))
	assert.Equal(t, RoleNone, ParseRole("Admin"))
}

func TestRolePrivileges(t *testing.T) {
	assert.True(t, RoleAdmin.CanOperateShift())
	assert.True(t, RoleLead.CanOperateShift())
	assert.False(t, RoleViewer.CanOperateShift())
	assert.False(t, RoleNone.CanOperateShift())

	assert.True(t, RoleAdmin.CanViewSummary())
	assert.True(t, RoleViewer.CanViewSummary())
	assert.True(t, RoleLead.CanViewSummary())
	assert.False(t, RoleNone.CanViewSummary())
}
