package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/models"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/realtime"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/workflow"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DepartmentChange is the outcome of moving a furniture item to another department
type DepartmentChange struct {
	Order            *models.Order       `json:"order"`
	Transition       workflow.Transition `json:"transition"`
	ReadyForDelivery bool                `json:"ready_for_delivery"`
}

// UpdateDepartment moves one furniture item to dept. Only the item's
// department column is written. ReadyForDelivery is set on the change that
// puts the last item of the order into the delivery stage.
func (s *OrderService) UpdateDepartment(ctx context.Context, orderNumber, itemID, dept string) (*DepartmentChange, error) {
	department, err := workflow.ParseDepartment(dept)
	if err != nil {
		return nil, invalid("department", err.Error())
	}

	var result DepartmentChange
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := lockOrder(tx, orderNumber)
		if err != nil {
			return err
		}
		if order.IsCompleted() {
			return ErrOrderCompleted
		}

		updated, transition, err := workflow.ChangeDepartment(*order, itemID, department)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.FurnitureItem{}).
			Where("id = ? AND order_number = ?", itemID, orderNumber).
			UpdateColumn("department", department).Error; err != nil {
			return fmt.Errorf("failed to update department: %w", err)
		}

		result.Order = &updated
		result.Transition = transition
		result.ReadyForDelivery = transition.ReadyForDelivery()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.resolveImages(ctx, result.Order)

	ev := realtime.NewEvent(realtime.EventDepartmentChanged)
	ev.OrderNumber = orderNumber
	ev.ItemID = itemID
	ev.Data = map[string]any{"department": department}
	s.events.Publish(ev)

	if result.ReadyForDelivery {
		s.log.Info("order ready for delivery", zap.String("order_number", orderNumber))
		ready := realtime.NewEvent(realtime.EventOrderReadyForDelivery)
		ready.OrderNumber = orderNumber
		s.events.Publish(ready)
	}

	return &result, nil
}

// PriorityChange is the outcome of a reorder within a department column
type PriorityChange struct {
	ItemID       string            `json:"item_id"`
	Department   models.Department `json:"department"`
	Priority     float64           `json:"priority"`
	Renormalized bool              `json:"renormalized"`
}

// columnOrder matches the order the board lists cards in before sorting by priority
const columnOrder = "furniture_items.priority ASC, LENGTH(furniture_items.order_number) DESC, furniture_items.order_number DESC, furniture_items.position ASC"

// loadColumn returns the furniture of active orders in dept
func loadColumn(tx *gorm.DB, dept models.Department) ([]models.FurnitureItem, error) {
	var items []models.FurnitureItem
	err := tx.Model(&models.FurnitureItem{}).
		Joins("JOIN orders ON orders.order_number = furniture_items.order_number").
		Where("furniture_items.department = ? AND orders.status = ?", dept, models.OrderStatusActive).
		Order(columnOrder).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load department column: %w", err)
	}
	return items, nil
}

func findItem(tx *gorm.DB, orderNumber, itemID string) (*models.FurnitureItem, error) {
	var order models.Order
	if err := tx.Select("order_number", "status").Where("order_number = ?", orderNumber).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order.IsCompleted() {
		return nil, ErrOrderCompleted
	}

	var item models.FurnitureItem
	err := tx.Where("id = ? AND order_number = ?", itemID, orderNumber).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", workflow.ErrItemNotFound, itemID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load furniture: %w", err)
	}
	return &item, nil
}

// Reorder places a furniture item at targetIndex of its department column.
// The index counts the column without the moved item.
func (s *OrderService) Reorder(ctx context.Context, orderNumber, itemID string, targetIndex int) (*PriorityChange, error) {
	return s.reorder(ctx, orderNumber, itemID, func(column []models.FurnitureItem) (int, error) {
		return targetIndex, nil
	})
}

// Move shifts a furniture item one place up or down within its department column
func (s *OrderService) Move(ctx context.Context, orderNumber, itemID string, dir workflow.Direction) (*PriorityChange, error) {
	if !dir.Valid() {
		return nil, invalid("direction", "must be up or down")
	}
	return s.reorder(ctx, orderNumber, itemID, func(column []models.FurnitureItem) (int, error) {
		return workflow.StepTarget(column, itemID, dir)
	})
}

func (s *OrderService) reorder(ctx context.Context, orderNumber, itemID string, target func([]models.FurnitureItem) (int, error)) (*PriorityChange, error) {
	var result PriorityChange
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := findItem(tx, orderNumber, itemID)
		if err != nil {
			return err
		}

		column, err := loadColumn(tx, item.Department)
		if err != nil {
			return err
		}

		targetIndex, err := target(column)
		if err != nil {
			return err
		}

		placement, err := workflow.PlaceItem(column, itemID, targetIndex)
		if err != nil {
			return err
		}

		if placement.Renormalize {
			s.log.Info("renumbering department column",
				zap.String("department", string(item.Department)),
				zap.Int("items", len(placement.Column)))
			for _, it := range placement.Column {
				if err := tx.Model(&models.FurnitureItem{}).Where("id = ?", it.ID).
					UpdateColumn("priority", it.Priority).Error; err != nil {
					return fmt.Errorf("failed to renumber priorities: %w", err)
				}
			}
		} else if err := tx.Model(&models.FurnitureItem{}).Where("id = ?", itemID).
			UpdateColumn("priority", placement.Priority).Error; err != nil {
			return fmt.Errorf("failed to update priority: %w", err)
		}

		result = PriorityChange{
			ItemID:       itemID,
			Department:   item.Department,
			Priority:     placement.Priority,
			Renormalized: placement.Renormalize,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ev := realtime.NewEvent(realtime.EventPriorityChanged)
	ev.OrderNumber = orderNumber
	ev.ItemID = itemID
	ev.Data = result
	s.events.Publish(ev)

	return &result, nil
}

// Board returns the dashboard of active orders limited to visible departments.
// A nil visible shows every department.
func (s *OrderService) Board(ctx context.Context, visible []models.Department) (workflow.Board, error) {
	orders, err := s.List(ctx, ListOrdersFilter{Status: models.OrderStatusActive})
	if err != nil {
		return workflow.Board{}, err
	}
	return workflow.BuildBoard(orders, visible, s.now()), nil
}
