package models

import (
	"time"

	"gorm.io/gorm"
)

// NoteStop says which part of an order's transport a note belongs to.
type NoteStop string

const (
	NoteStopGeneral  NoteStop = "general"
	NoteStopPickup   NoteStop = "pickup"
	NoteStopDelivery NoteStop = "delivery"
)

// Valid reports whether s is a known stop.
func (s NoteStop) Valid() bool {
	switch s {
	case NoteStopGeneral, NoteStopPickup, NoteStopDelivery:
		return true
	}
	return false
}

// OrderNote represents a note left on an order, e.g. instructions for a transport stop
type OrderNote struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	OrderNumber string         `gorm:"not null;index;size:32" json:"order_number"` // foreign key to orders table
	Order       Order          `gorm:"foreignKey:OrderNumber;references:OrderNumber" json:"-"`
	AuthorUID   string         `gorm:"not null;index;size:128" json:"author_uid"` // foreign key to users table
	Author      User           `gorm:"foreignKey:AuthorUID;references:UID" json:"author"`
	Stop        NoteStop       `gorm:"not null;default:'general'" json:"stop"`
	Text        string         `gorm:"type:text;not null" json:"text"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the OrderNote model
func (OrderNote) TableName() string {
	return "order_notes"
}
