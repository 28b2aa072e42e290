package models

import (
	"time"
)

// OrderStatus is the lifecycle state of an order. It only ever moves from
// Active to Completed.
type OrderStatus string

const (
	OrderStatusActive    OrderStatus = "Active"
	OrderStatusCompleted OrderStatus = "Completed"
)

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	return s == OrderStatusActive || s == OrderStatusCompleted
}

// DefaultDeadlineOffset is added to the pickup date when no deadline is given.
const DefaultDeadlineOffset = 14 * 24 * time.Hour

// Customer is embedded in every order; it is not stored on its own.
type Customer struct {
	Number  string `gorm:"column:number;index" json:"customer_number"` // last five digits of the phone number
	Name    string `gorm:"not null" json:"name"`
	Address string `json:"address"`
	Phone   string `gorm:"index" json:"phone"`
	Email   string `json:"email"`
}

// Order represents a customer engagement: one or more furniture items to restore and deliver
type Order struct {
	OrderNumber  string          `gorm:"primaryKey;size:32" json:"order_number"`
	Title        string          `gorm:"not null" json:"title"`
	Customer     Customer        `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`
	Furniture    []FurnitureItem `gorm:"foreignKey:OrderNumber;references:OrderNumber" json:"furniture"`
	PickupDate   time.Time       `gorm:"not null;index" json:"pickup_date"`
	Deadline     time.Time       `gorm:"not null" json:"deadline"`
	DeliveryCost float64         `gorm:"not null;default:0" json:"delivery_cost"`
	DeliveryDate *time.Time      `gorm:"index" json:"delivery_date,omitempty"` // nullable, set when delivery is scheduled
	Status       OrderStatus     `gorm:"not null;default:'Active';index" json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// IsCompleted reports whether the invoice for this order has been finalized.
func (o *Order) IsCompleted() bool {
	return o.Status == OrderStatusCompleted
}

// Complete marks the order completed. Calling it on a completed order is a no-op.
func (o *Order) Complete() {
	o.Status = OrderStatusCompleted
}

// ReadyForDelivery reports whether every furniture item has reached the delivery stage.
func (o *Order) ReadyForDelivery() bool {
	if len(o.Furniture) == 0 {
		return false
	}
	for _, item := range o.Furniture {
		if item.Department != DepartmentDelivery {
			return false
		}
	}
	return true
}

// ItemsInDelivery counts the furniture items already in the delivery stage.
func (o *Order) ItemsInDelivery() int {
	n := 0
	for _, item := range o.Furniture {
		if item.Department == DepartmentDelivery {
			n++
		}
	}
	return n
}

// Subtotal is the sum of all furniture prices.
func (o *Order) Subtotal() float64 {
	var total float64
	for _, item := range o.Furniture {
		total += item.Price
	}
	return total
}

// FindItem returns the index of the furniture item with the given id, or -1.
func (o *Order) FindItem(id string) int {
	for i, item := range o.Furniture {
		if item.ID == id {
			return i
		}
	}
	return -1
}
