package policy

import (
	"testing"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisibleTabs(t *testing.T) {
	p := New(UnassignedNone)

	tests := []struct {
		role     models.Role
		expected []Tab
	}{
		{models.RoleAdmin, []Tab{TabDashboard, TabNewOrder, TabCustomers, TabTransport, TabUsers, TabMyAccount}},
		{models.RoleTeamLead, []Tab{TabDashboard, TabNewOrder, TabCustomers, TabTransport, TabMyAccount}},
		{models.RoleStaff, []Tab{TabDashboard, TabMyAccount}},
		{models.Role("Guest"), []Tab{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.expected, p.VisibleTabs(tt.role))
		})
	}
}

func TestCapabilities(t *testing.T) {
	p := New(UnassignedNone)

	assert.True(t, p.CanEditDepartmentField(models.RoleAdmin))
	assert.True(t, p.CanEditDepartmentField(models.RoleTeamLead))
	assert.False(t, p.CanEditDepartmentField(models.RoleStaff))

	assert.True(t, p.CanReorderPriority(models.RoleAdmin))
	assert.False(t, p.CanReorderPriority(models.RoleTeamLead))
	assert.False(t, p.CanReorderPriority(models.RoleStaff))

	assert.True(t, p.Allows(models.RoleTeamLead, TabTransport))
	assert.False(t, p.Allows(models.RoleTeamLead, TabUsers))
	assert.False(t, p.Allows(models.RoleStaff, TabNewOrder))
}

func TestTableCoversEveryRole(t *testing.T) {
	table := DefaultTable()
	for _, role := range models.Roles() {
		_, ok := table[role]
		assert.True(t, ok, "missing rule for %s", role)
	}

	delete(table, models.RoleStaff)
	assert.Panics(t, func() { NewWithTable(table, UnassignedNone) })
}

func TestVisibleDepartments(t *testing.T) {
	spraying := models.DepartmentSpraying

	admin := &models.User{UID: "a", Role: models.RoleAdmin}
	staff := &models.User{UID: "s", Role: models.RoleStaff, Department: &spraying}
	unassigned := &models.User{UID: "u", Role: models.RoleStaff}

	closed := New(UnassignedNone)
	open := New(UnassignedAll)

	assert.Nil(t, closed.VisibleDepartments(admin), "full board")
	assert.Equal(t, []models.Department{models.DepartmentSpraying}, closed.VisibleDepartments(staff))
	assert.Equal(t, []models.Department{}, closed.VisibleDepartments(unassigned))
	assert.Nil(t, open.VisibleDepartments(unassigned))
	assert.Equal(t, []models.Department{}, closed.VisibleDepartments(nil))
}

func TestCanEditUserField(t *testing.T) {
	p := New(UnassignedNone)

	admin := &models.User{UID: "admin", Role: models.RoleAdmin}
	other := &models.User{UID: "other", Role: models.RoleStaff}
	lead := &models.User{UID: "lead", Role: models.RoleTeamLead}

	tests := []struct {
		name     string
		actor    *models.User
		target   *models.User
		field    UserField
		expected bool
	}{
		{"admin edits other role", admin, other, FieldRole, true},
		{"admin edits own role", admin, admin, FieldRole, false},
		{"admin edits own status", admin, admin, FieldStatus, false},
		{"admin edits own department", admin, admin, FieldDepartment, true},
		{"team lead edits other role", lead, other, FieldRole, false},
		{"staff edits own phone", other, other, FieldPhone, true},
		{"staff edits other phone", other, admin, FieldPhone, false},
		{"staff edits own department", other, other, FieldDepartment, false},
		{"unknown field", admin, other, UserField("password"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.CanEditUserField(tt.actor, tt.target, tt.field))
		})
	}
}

func TestParseUnassignedVisibility(t *testing.T) {
	v, err := ParseUnassignedVisibility("")
	require.NoError(t, err)
	assert.Equal(t, UnassignedNone, v)

	v, err = ParseUnassignedVisibility("ALL")
	require.NoError(t, err)
	assert.Equal(t, UnassignedAll, v)

	_, err = ParseUnassignedVisibility("some")
	assert.Error(t, err)
}

func TestAccessFor(t *testing.T) {
	p := New(UnassignedNone)
	sanding := models.DepartmentSandingM2

	access := p.AccessFor(&models.User{Role: models.RoleStaff, Department: &sanding})
	assert.Equal(t, DashboardOwnDepartment, access.Dashboard)
	assert.Equal(t, []models.Department{models.DepartmentSandingM2}, access.Departments)
	assert.False(t, access.CanMoveItems)

	access = p.AccessFor(&models.User{Role: models.RoleAdmin})
	assert.Len(t, access.Departments, 9)
	assert.True(t, access.CanReorderItems)
}
