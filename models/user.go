package models

import (
	"strings"
	"time"
)

// Role controls which parts of the planner a user can reach.
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleTeamLead Role = "TeamLead"
	RoleStaff    Role = "Staff"
)

// Roles returns every known role.
func Roles() []Role {
	return []Role{RoleAdmin, RoleTeamLead, RoleStaff}
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeamLead, RoleStaff:
		return true
	}
	return false
}

// UserStatus is the approval state of an account.
type UserStatus string

const (
	UserStatusPending  UserStatus = "Pending"
	UserStatusActive   UserStatus = "Active"
	UserStatusInactive UserStatus = "Inactive"
)

// Valid reports whether s is a known status.
func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusPending, UserStatusActive, UserStatusInactive:
		return true
	}
	return false
}

// User represents a staff profile, keyed by the Auth0 subject
type User struct {
	UID            string      `gorm:"primaryKey;size:128" json:"uid"` // Auth0 user ID (from 'sub' claim)
	Email          string      `gorm:"uniqueIndex;not null" json:"email"`
	Role           Role        `gorm:"not null;default:'Staff'" json:"role"`
	Status         UserStatus  `gorm:"not null;default:'Pending'" json:"status"`
	Department     *Department `gorm:"size:32" json:"department,omitempty"`
	OrganizationID *uint       `gorm:"index" json:"organization_id,omitempty"`
	SupervisorID   *uint       `gorm:"index" json:"supervisor_id,omitempty"`
	DisplayName    string      `json:"display_name"`
	Address        string      `json:"address"`
	Phone          string      `json:"phone"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsActive reports whether the account has been approved and not deactivated.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// HasDepartment reports whether the user is assigned to a known department.
func (u *User) HasDepartment() bool {
	return u.Department != nil && u.Department.Valid()
}

// SameEmail compares addresses case-insensitively.
func SameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
