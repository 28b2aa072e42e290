package models

import "time"

// FurnitureItem is one piece of furniture inside an order
type FurnitureItem struct {
	ID          string     `gorm:"primaryKey;size:64" json:"id"`
	OrderNumber string     `gorm:"not null;index;size:32" json:"order_number"`
	Position    int        `gorm:"not null" json:"position"` // index within the order's furniture list
	Type        string     `gorm:"not null" json:"type"`
	Price       float64    `gorm:"not null;default:0" json:"price"`
	ImageKey    *string    `json:"image_key,omitempty"`          // nullable, storage key of the uploaded photo
	ImageURL    *string    `gorm:"-" json:"image_url,omitempty"` // computed field, resolved from ImageKey
	Treatment   string     `gorm:"type:text" json:"treatment"`
	Department  Department `gorm:"not null;index;size:32" json:"department"`
	Priority    float64    `gorm:"not null;index" json:"priority"` // sort key within a department column
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the FurnitureItem model
func (FurnitureItem) TableName() string {
	return "furniture_items"
}
