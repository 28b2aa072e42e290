package workflow

import (
	"errors"
	"fmt"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/models"
)

// ErrItemNotFound is returned when an order has no furniture item with the given id.
var ErrItemNotFound = errors.New("furniture item not found")

// Transition captures an order's delivery readiness before and after a change.
type Transition struct {
	WasReady bool `json:"was_ready"`
	IsReady  bool `json:"is_ready"`
}

// ReadyForDelivery is true only on the change that made the order fully
// staged for delivery.
func (t Transition) ReadyForDelivery() bool {
	return !t.WasReady && t.IsReady
}

// ChangeDepartment returns a copy of order with the item moved to dept.
// The input order is left untouched.
func ChangeDepartment(order models.Order, itemID string, dept models.Department) (models.Order, Transition, error) {
	if !dept.Valid() {
		return order, Transition{}, fmt.Errorf("%w: %q", ErrUnknownDepartment, dept)
	}
	idx := order.FindItem(itemID)
	if idx < 0 {
		return order, Transition{}, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}

	wasReady := order.ReadyForDelivery()

	updated := order
	updated.Furniture = make([]models.FurnitureItem, len(order.Furniture))
	copy(updated.Furniture, order.Furniture)
	updated.Furniture[idx].Department = dept

	return updated, Transition{WasReady: wasReady, IsReady: updated.ReadyForDelivery()}, nil
}

// ChangePriority returns a copy of order with the item's priority set to key.
func ChangePriority(order models.Order, itemID string, key float64) (models.Order, error) {
	idx := order.FindItem(itemID)
	if idx < 0 {
		return order, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}

	updated := order
	updated.Furniture = make([]models.FurnitureItem, len(order.Furniture))
	copy(updated.Furniture, order.Furniture)
	updated.Furniture[idx].Priority = key
	return updated, nil
}
