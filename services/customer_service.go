package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/models"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/utils"
)

// OrderSummary is an order as listed under a customer
type OrderSummary struct {
	OrderNumber  string             `json:"order_number"`
	Title        string             `json:"title"`
	Status       models.OrderStatus `json:"status"`
	PickupDate   time.Time          `json:"pickup_date"`
	DeliveryDate *time.Time         `json:"delivery_date,omitempty"`
	Items        int                `json:"items"`
	Total        float64            `json:"total"`
}

// CustomerSummary groups every order placed from one phone number
type CustomerSummary struct {
	Key            string         `json:"key"` // phone number reduced to digits
	Number         string         `json:"customer_number"`
	Name           string         `json:"name"`
	Address        string         `json:"address"`
	Phone          string         `json:"phone"`
	Email          string         `json:"email"`
	OrderCount     int            `json:"order_count"`
	ActiveOrders   int            `json:"active_orders"`
	LastPickupDate time.Time      `json:"last_pickup_date"`
	Orders         []OrderSummary `json:"orders"`
}

// CustomerService derives customers from the orders they placed
type CustomerService struct {
	orders *OrderService
}

// NewCustomerService creates a customer service
func NewCustomerService(orders *OrderService) *CustomerService {
	return &CustomerService{orders: orders}
}

// CustomerKey is the canonical identity of a customer: the phone digits
func CustomerKey(c models.Customer) string {
	return utils.PhoneDigits(c.Phone)
}

// GroupCustomers groups orders by customer key. Contact details come from
// the most recent order; orders are listed newest first.
func GroupCustomers(orders []models.Order) []CustomerSummary {
	byKey := map[string]*CustomerSummary{}
	var keys []string

	for i := range orders {
		order := &orders[i]
		key := CustomerKey(order.Customer)
		if key == "" {
			continue
		}

		c, ok := byKey[key]
		if !ok {
			c = &CustomerSummary{Key: key}
			byKey[key] = c
			keys = append(keys, key)
		}

		if c.OrderCount == 0 || !order.PickupDate.Before(c.LastPickupDate) {
			c.Number = order.Customer.Number
			c.Name = order.Customer.Name
			c.Address = order.Customer.Address
			c.Phone = order.Customer.Phone
			c.Email = order.Customer.Email
			c.LastPickupDate = order.PickupDate
		}

		c.OrderCount++
		if !order.IsCompleted() {
			c.ActiveOrders++
		}
		c.Orders = append(c.Orders, OrderSummary{
			OrderNumber:  order.OrderNumber,
			Title:        order.Title,
			Status:       order.Status,
			PickupDate:   order.PickupDate,
			DeliveryDate: order.DeliveryDate,
			Items:        len(order.Furniture),
			Total:        roundCents(order.Subtotal() + order.DeliveryCost),
		})
	}

	out := make([]CustomerSummary, 0, len(keys))
	for _, key := range keys {
		c := byKey[key]
		sort.SliceStable(c.Orders, func(i, j int) bool {
			a, b := c.Orders[i].OrderNumber, c.Orders[j].OrderNumber
			if len(a) != len(b) {
				return len(a) > len(b)
			}
			return a > b
		})
		out = append(out, *c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// List returns all customers, optionally filtered by name, phone, email or customer number
func (s *CustomerService) List(ctx context.Context, search string) ([]CustomerSummary, error) {
	orders, err := s.orders.List(ctx, ListOrdersFilter{})
	if err != nil {
		return nil, err
	}
	customers := GroupCustomers(orders)

	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return customers, nil
	}
	digits := utils.PhoneDigits(search)

	filtered := customers[:0]
	for _, c := range customers {
		if strings.Contains(strings.ToLower(c.Name), search) ||
			strings.Contains(strings.ToLower(c.Email), search) ||
			(digits != "" && strings.Contains(c.Key, digits)) {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

// Get returns one customer by key. Any phone formatting of key is accepted.
func (s *CustomerService) Get(ctx context.Context, key string) (*CustomerSummary, error) {
	key = utils.PhoneDigits(key)
	if key == "" {
		return nil, ErrCustomerNotFound
	}

	orders, err := s.orders.List(ctx, ListOrdersFilter{})
	if err != nil {
		return nil, err
	}
	for _, c := range GroupCustomers(orders) {
		if c.Key == key {
			return &c, nil
		}
	}
	return nil, ErrCustomerNotFound
}
