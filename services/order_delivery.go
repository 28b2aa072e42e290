package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/models"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/realtime"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TimeLayout is the wire format of a time of day
const TimeLayout = "15:04"

// ScheduleDeliveryInput is the delivery moment captured after an order became ready
type ScheduleDeliveryInput struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Time string `json:"time" validate:"required,datetime=15:04"`
}

// ScheduleDelivery sets the delivery date of an order
func (s *OrderService) ScheduleDelivery(ctx context.Context, orderNumber string, input ScheduleDeliveryInput) (*models.Order, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	when, err := time.ParseInLocation(DateLayout+" "+TimeLayout,
		strings.TrimSpace(input.Date)+" "+strings.TrimSpace(input.Time), s.location)
	if err != nil {
		return nil, invalid("date", "must be a valid date and time")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := lockOrder(tx, orderNumber)
		if err != nil {
			return err
		}
		if order.IsCompleted() {
			return ErrOrderCompleted
		}
		if err := tx.Model(&models.Order{}).Where("order_number = ?", orderNumber).
			UpdateColumn("delivery_date", when).Error; err != nil {
			return fmt.Errorf("failed to schedule delivery: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("delivery scheduled", zap.String("order_number", orderNumber), zap.Time("delivery_date", when))

	ev := realtime.NewEvent(realtime.EventDeliveryScheduled)
	ev.OrderNumber = orderNumber
	ev.Data = map[string]any{"delivery_date": when}
	s.events.Publish(ev)

	return s.Get(ctx, orderNumber)
}

// complete marks an order completed. It reports whether this call did the transition.
func (s *OrderService) complete(ctx context.Context, orderNumber string) (bool, error) {
	changed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := lockOrder(tx, orderNumber)
		if err != nil {
			return err
		}
		if order.IsCompleted() {
			return nil
		}
		order.Complete()
		// status only ever moves forward; the WHERE guards against a racing writer
		res := tx.Model(&models.Order{}).
			Where("order_number = ? AND status = ?", orderNumber, models.OrderStatusActive).
			UpdateColumn("status", order.Status)
		if res.Error != nil {
			return fmt.Errorf("failed to complete order: %w", res.Error)
		}
		changed = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}

	if changed {
		s.log.Info("order completed", zap.String("order_number", orderNumber))
		ev := realtime.NewEvent(realtime.EventOrderCompleted)
		ev.OrderNumber = orderNumber
		s.events.Publish(ev)
	}
	return changed, nil
}
