package services

import (
	"context"
	"math"
	"time"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/config"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/models"
)

// InvoiceLine is one furniture item on an invoice
type InvoiceLine struct {
	ItemID    string  `json:"item_id"`
	Type      string  `json:"type"`
	Treatment string  `json:"treatment"`
	Price     float64 `json:"price"`
}

// Invoice is the printable summary of an order
type Invoice struct {
	Company      config.CompanyInfo `json:"company"`
	OrderNumber  string             `json:"order_number"`
	Title        string             `json:"title"`
	Customer     models.Customer    `json:"customer"`
	Lines        []InvoiceLine      `json:"lines"`
	Subtotal     float64            `json:"subtotal"`
	DeliveryCost float64            `json:"delivery_cost"`
	Total        float64            `json:"total"`
	Status       models.OrderStatus `json:"status"`
	PickupDate   time.Time          `json:"pickup_date"`
	DeliveryDate *time.Time         `json:"delivery_date,omitempty"`
	IssuedAt     time.Time          `json:"issued_at"`
	// Finalized is true when this request completed the order
	Finalized bool `json:"finalized"`
}

// InvoiceService builds invoices and finalizes them
type InvoiceService struct {
	orders  *OrderService
	company config.CompanyInfo
}

// NewInvoiceService creates an invoice service printing company on every invoice
func NewInvoiceService(orders *OrderService, company config.CompanyInfo) *InvoiceService {
	return &InvoiceService{orders: orders, company: company}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// BuildInvoice computes the invoice of order
func BuildInvoice(order *models.Order, company config.CompanyInfo, issuedAt time.Time) *Invoice {
	lines := make([]InvoiceLine, 0, len(order.Furniture))
	for _, item := range order.Furniture {
		lines = append(lines, InvoiceLine{
			ItemID:    item.ID,
			Type:      item.Type,
			Treatment: item.Treatment,
			Price:     item.Price,
		})
	}

	subtotal := roundCents(order.Subtotal())
	return &Invoice{
		Company:      company,
		OrderNumber:  order.OrderNumber,
		Title:        order.Title,
		Customer:     order.Customer,
		Lines:        lines,
		Subtotal:     subtotal,
		DeliveryCost: roundCents(order.DeliveryCost),
		Total:        roundCents(subtotal + order.DeliveryCost),
		Status:       order.Status,
		PickupDate:   order.PickupDate,
		DeliveryDate: order.DeliveryDate,
		IssuedAt:     issuedAt,
	}
}

// Get returns the invoice of an order without changing it
func (s *InvoiceService) Get(ctx context.Context, orderNumber string) (*Invoice, error) {
	order, err := s.orders.Get(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	return BuildInvoice(order, s.company, s.orders.now()), nil
}

// Finalize issues the invoice and completes the order. Finalizing a
// completed order returns its invoice again without changes.
func (s *InvoiceService) Finalize(ctx context.Context, orderNumber string) (*Invoice, error) {
	changed, err := s.orders.complete(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	invoice, err := s.Get(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	invoice.Finalized = changed
	return invoice, nil
}
