// Package policy maps a user's role to the parts of the planner they may see
// and the edits they may make.
//
// Authorization rules:
//   - Admins see every tab, may move items between departments and reorder them
//   - Team leads see everything except user management and may move items
//   - Staff only see the dashboard, restricted to their own department
//   - Nobody may change their own role or status
package policy

import (
	"fmt"
	"strings"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/models"
)

// Tab is a feature area of the planner.
type Tab string

const (
	TabDashboard Tab = "dashboard"
	TabNewOrder  Tab = "new-order"
	TabCustomers Tab = "customers"
	TabTransport Tab = "transport"
	TabUsers     Tab = "users"
	TabMyAccount Tab = "my-account"
)

// tabOrder is the display order of tabs.
var tabOrder = []Tab{TabDashboard, TabNewOrder, TabCustomers, TabTransport, TabUsers, TabMyAccount}

// DashboardScope says how much of the board a role can see.
type DashboardScope string

const (
	DashboardFull          DashboardScope = "full"
	DashboardOwnDepartment DashboardScope = "own-department"
)

// UnassignedVisibility decides what Staff without a department see.
type UnassignedVisibility string

const (
	UnassignedNone UnassignedVisibility = "none"
	UnassignedAll  UnassignedVisibility = "all"
)

// ParseUnassignedVisibility accepts "none" or "all"; empty means "none".
func ParseUnassignedVisibility(s string) (UnassignedVisibility, error) {
	switch v := UnassignedVisibility(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return UnassignedNone, nil
	case UnassignedNone, UnassignedAll:
		return v, nil
	default:
		return "", fmt.Errorf("unknown unassigned visibility %q", s)
	}
}

// Rule is one row of the policy table.
type Rule struct {
	Dashboard    DashboardScope `json:"dashboard"`
	Tabs         []Tab          `json:"tabs"`
	MoveItems    bool           `json:"move_items"`
	ReorderItems bool           `json:"reorder_items"`
}

// Table is the role policy table.
type Table map[models.Role]Rule

// DefaultTable returns the planner's role policy.
func DefaultTable() Table {
	return Table{
		models.RoleAdmin: {
			Dashboard:    DashboardFull,
			Tabs:         []Tab{TabDashboard, TabNewOrder, TabCustomers, TabTransport, TabUsers, TabMyAccount},
			MoveItems:    true,
			ReorderItems: true,
		},
		models.RoleTeamLead: {
			Dashboard:    DashboardFull,
			Tabs:         []Tab{TabDashboard, TabNewOrder, TabCustomers, TabTransport, TabMyAccount},
			MoveItems:    true,
			ReorderItems: false,
		},
		models.RoleStaff: {
			Dashboard:    DashboardOwnDepartment,
			Tabs:         []Tab{TabDashboard, TabMyAccount},
			MoveItems:    false,
			ReorderItems: false,
		},
	}
}

// Policy answers access questions from a Table.
type Policy struct {
	table      Table
	unassigned UnassignedVisibility
}

// New creates a Policy over the default table. It panics if the table does
// not cover every role.
func New(unassigned UnassignedVisibility) *Policy {
	return NewWithTable(DefaultTable(), unassigned)
}

// NewWithTable creates a Policy over table. It panics if table does not
// cover every role.
func NewWithTable(table Table, unassigned UnassignedVisibility) *Policy {
	for _, role := range models.Roles() {
		if _, ok := table[role]; !ok {
			panic(fmt.Sprintf("policy: no rule for role %q", role))
		}
	}
	if unassigned == "" {
		unassigned = UnassignedNone
	}
	return &Policy{table: table, unassigned: unassigned}
}

// Rule returns the rule for role. Unknown roles get an empty rule.
func (p *Policy) Rule(role models.Role) Rule {
	return p.table[role]
}

// VisibleTabs returns the tabs role may open, in display order.
func (p *Policy) VisibleTabs(role models.Role) []Tab {
	allowed := p.table[role].Tabs
	out := make([]Tab, 0, len(allowed))
	for _, t := range tabOrder {
		for _, a := range allowed {
			if a == t {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

// Allows reports whether role may open tab.
func (p *Policy) Allows(role models.Role, tab Tab) bool {
	for _, t := range p.table[role].Tabs {
		if t == tab {
			return true
		}
	}
	return false
}

// CanEditDepartmentField reports whether role may move items between departments.
func (p *Policy) CanEditDepartmentField(role models.Role) bool {
	return p.table[role].MoveItems
}

// CanReorderPriority reports whether role may change item order within a department.
func (p *Policy) CanReorderPriority(role models.Role) bool {
	return p.table[role].ReorderItems
}

// VisibleDepartments returns the departments user may see on the board.
// A nil result means every department; an empty slice means none.
func (p *Policy) VisibleDepartments(user *models.User) []models.Department {
	if user == nil {
		return []models.Department{}
	}
	switch p.table[user.Role].Dashboard {
	case DashboardFull:
		return nil
	case DashboardOwnDepartment:
		if user.HasDepartment() {
			return []models.Department{*user.Department}
		}
		if p.unassigned == UnassignedAll {
			return nil
		}
		return []models.Department{}
	default:
		return []models.Department{}
	}
}

// UserField is an editable attribute of a user profile.
type UserField string

const (
	FieldRole         UserField = "role"
	FieldStatus       UserField = "status"
	FieldDepartment   UserField = "department"
	FieldOrganization UserField = "organization"
	FieldSupervisor   UserField = "supervisor"
	FieldDisplayName  UserField = "display_name"
	FieldAddress      UserField = "address"
	FieldPhone        UserField = "phone"
)

// CanEditUserField reports whether actor may change field on target.
// Users manage their own contact details; user management covers the rest,
// except that nobody changes their own role or status.
func (p *Policy) CanEditUserField(actor, target *models.User, field UserField) bool {
	if actor == nil || target == nil {
		return false
	}
	self := actor.UID == target.UID
	switch field {
	case FieldDisplayName, FieldAddress, FieldPhone:
		return self || p.Allows(actor.Role, TabUsers)
	case FieldRole, FieldStatus:
		return !self && p.Allows(actor.Role, TabUsers)
	case FieldDepartment, FieldOrganization, FieldSupervisor:
		return p.Allows(actor.Role, TabUsers)
	default:
		return false
	}
}

// Access is the summary returned to clients for rendering navigation.
type Access struct {
	Role            models.Role         `json:"role"`
	Tabs            []Tab               `json:"tabs"`
	Dashboard       DashboardScope      `json:"dashboard"`
	Departments     []models.Department `json:"departments"`
	CanMoveItems    bool                `json:"can_move_items"`
	CanReorderItems bool                `json:"can_reorder_items"`
}

// AccessFor builds the client-facing access summary for user.
func (p *Policy) AccessFor(user *models.User) Access {
	deps := p.VisibleDepartments(user)
	if deps == nil {
		deps = models.Departments()
	}
	return Access{
		Role:            user.Role,
		Tabs:            p.VisibleTabs(user.Role),
		Dashboard:       p.table[user.Role].Dashboard,
		Departments:     deps,
		CanMoveItems:    p.CanEditDepartmentField(user.Role),
		CanReorderItems: p.CanReorderPriority(user.Role),
	}
}
