package models

import "time"

// Organization groups staff members, e.g. a partner placing people at the workshop
type Organization struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;index" json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	LogoKey   *string   `json:"logo_key,omitempty"`          // nullable, storage key of the logo
	LogoURL   *string   `gorm:"-" json:"logo_url,omitempty"` // computed field, resolved from LogoKey
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Organization model
func (Organization) TableName() string {
	return "organizations"
}

// Supervisor is a contact person at an organization
type Supervisor struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	Name           string       `gorm:"not null;index" json:"name"`
	Email          string       `json:"email"`
	Phone          string       `json:"phone"`
	OrganizationID uint         `gorm:"not null;index" json:"organization_id"` // foreign key to organizations table
	Organization   Organization `gorm:"foreignKey:OrganizationID" json:"-"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// TableName specifies the table name for the Supervisor model
func (Supervisor) TableName() string {
	return "supervisors"
}
