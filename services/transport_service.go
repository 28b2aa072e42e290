package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/models"
	"gorm.io/gorm"
)

// StopType says whether a route stop collects or returns furniture
type StopType string

const (
	StopPickup   StopType = "pickup"
	StopDelivery StopType = "delivery"
)

// Stop is one address on the day's route
type Stop struct {
	ID    string             `json:"id"`
	Type  StopType           `json:"type"`
	Order models.Order       `json:"order"`
	Notes []models.OrderNote `json:"notes"`
}

// LoadingItem is a piece of furniture to load for delivery
type LoadingItem struct {
	models.FurnitureItem
	CustomerName string `json:"customer_name"`
}

// DayPlan lists the pickups and deliveries of one day
type DayPlan struct {
	Date        string        `json:"date"`
	Stops       []Stop        `json:"stops"`
	LoadingList []LoadingItem `json:"loading_list"`
}

// ReadyOrder is an order whose furniture is all in the delivery stage
type ReadyOrder struct {
	models.Order
	Scheduled bool `json:"scheduled"`
}

// TransportService plans pickups and deliveries
type TransportService struct {
	db     *gorm.DB
	orders *OrderService
}

// NewTransportService creates a transport service
func NewTransportService(db *gorm.DB, orders *OrderService) *TransportService {
	return &TransportService{db: db, orders: orders}
}

// ReadyForDelivery returns active orders whose furniture has all reached the delivery stage
func (s *TransportService) ReadyForDelivery(ctx context.Context) ([]ReadyOrder, error) {
	orders, err := s.orders.List(ctx, ListOrdersFilter{Status: models.OrderStatusActive})
	if err != nil {
		return nil, err
	}

	ready := []ReadyOrder{}
	for _, order := range orders {
		if order.ReadyForDelivery() {
			ready = append(ready, ReadyOrder{Order: order, Scheduled: order.DeliveryDate != nil})
		}
	}
	return ready, nil
}

// DayPlan builds the route for date (YYYY-MM-DD, today when empty): pickups
// of active orders first, then deliveries, each with its notes.
func (s *TransportService) DayPlan(ctx context.Context, date string) (*DayPlan, error) {
	if strings.TrimSpace(date) == "" {
		date = s.orders.now().In(s.orders.location).Format(DateLayout)
	}
	day, err := parseDate("date", date, s.orders.location)
	if err != nil {
		return nil, err
	}
	next := day.AddDate(0, 0, 1)

	db := s.db.WithContext(ctx)

	var pickups []models.Order
	if err := db.Preload("Furniture", preloadFurniture).
		Where("status = ? AND pickup_date >= ? AND pickup_date < ?", models.OrderStatusActive, day, next).
		Order(orderNumberDesc).
		Find(&pickups).Error; err != nil {
		return nil, fmt.Errorf("failed to load pickups: %w", err)
	}

	var deliveries []models.Order
	if err := db.Preload("Furniture", preloadFurniture).
		Where("delivery_date >= ? AND delivery_date < ?", day, next).
		Order("delivery_date ASC").
		Find(&deliveries).Error; err != nil {
		return nil, fmt.Errorf("failed to load deliveries: %w", err)
	}

	numbers := make([]string, 0, len(pickups)+len(deliveries))
	for _, o := range pickups {
		numbers = append(numbers, o.OrderNumber)
	}
	for _, o := range deliveries {
		numbers = append(numbers, o.OrderNumber)
	}

	var notes []models.OrderNote
	if len(numbers) > 0 {
		if err := db.Preload("Author").
			Where("order_number IN ?", numbers).
			Order("created_at ASC").
			Find(&notes).Error; err != nil {
			return nil, fmt.Errorf("failed to load notes: %w", err)
		}
	}

	plan := &DayPlan{Date: day.Format(DateLayout), Stops: []Stop{}, LoadingList: []LoadingItem{}}
	for i := range pickups {
		s.orders.resolveImages(ctx, &pickups[i])
		plan.Stops = append(plan.Stops, newStop(pickups[i], StopPickup, notes))
	}
	for i := range deliveries {
		s.orders.resolveImages(ctx, &deliveries[i])
		plan.Stops = append(plan.Stops, newStop(deliveries[i], StopDelivery, notes))
		for _, item := range deliveries[i].Furniture {
			plan.LoadingList = append(plan.LoadingList, LoadingItem{FurnitureItem: item, CustomerName: deliveries[i].Customer.Name})
		}
	}
	return plan, nil
}

func newStop(order models.Order, typ StopType, notes []models.OrderNote) Stop {
	stop := Stop{
		ID:    fmt.Sprintf("%s-%s", order.OrderNumber, typ),
		Type:  typ,
		Order: order,
		Notes: []models.OrderNote{},
	}
	for _, n := range notes {
		if n.OrderNumber != order.OrderNumber {
			continue
		}
		if n.Stop == models.NoteStopGeneral || strings.EqualFold(string(n.Stop), string(typ)) {
			stop.Notes = append(stop.Notes, n)
		}
	}
	return stop
}
