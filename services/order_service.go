package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/models"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/realtime"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/utils"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/workflow"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// CustomerInput is the customer part of a new order
type CustomerInput struct {
	Name    string `json:"name" validate:"required,max=200"`
	Address string `json:"address" validate:"max=500"`
	Phone   string `json:"phone" validate:"required,max=50"`
	Email   string `json:"email" validate:"omitempty,email,max=200"`
}

// FurnitureInput describes one furniture item of a new order
type FurnitureInput struct {
	Type      string  `json:"type" validate:"required,max=200"`
	Price     float64 `json:"price" validate:"gte=0"`
	Image     string  `json:"image"` // optional base64 data URL
	Treatment string  `json:"treatment" validate:"max=2000"`
}

// CreateOrderInput is everything needed to create an order
type CreateOrderInput struct {
	Title        string           `json:"title" validate:"required,max=200"`
	Customer     CustomerInput    `json:"customer"`
	Furniture    []FurnitureInput `json:"furniture" validate:"required,min=1,dive"`
	PickupDate   string           `json:"pickup_date" validate:"required,datetime=2006-01-02"`
	Deadline     string           `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
	DeliveryCost float64          `json:"delivery_cost" validate:"gte=0"`
}

// FurnitureUpdate changes the details of an existing furniture item.
// Nil fields are left alone; an empty Image removes the photo.
type FurnitureUpdate struct {
	ID        string   `json:"id" validate:"required"`
	Type      *string  `json:"type" validate:"omitempty,min=1,max=200"`
	Price     *float64 `json:"price" validate:"omitempty,gte=0"`
	Treatment *string  `json:"treatment" validate:"omitempty,max=2000"`
	Image     *string  `json:"image"`
}

// UpdateOrderInput changes order details. Status is deliberately absent:
// it only changes through FinalizeInvoice.
type UpdateOrderInput struct {
	Title        *string           `json:"title" validate:"omitempty,min=1,max=200"`
	Customer     *CustomerInput    `json:"customer"`
	PickupDate   *string           `json:"pickup_date" validate:"omitempty,datetime=2006-01-02"`
	Deadline     *string           `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
	DeliveryCost *float64          `json:"delivery_cost" validate:"omitempty,gte=0"`
	Furniture    []FurnitureUpdate `json:"furniture" validate:"omitempty,dive"`
}

// ListOrdersFilter narrows List results
type ListOrdersFilter struct {
	Search string
	Status models.OrderStatus
}

// OrderService manages orders and their furniture
type OrderService struct {
	db       *gorm.DB
	counters *CounterService
	images   *ImageService
	events   realtime.Publisher
	log      *zap.Logger
	now      func() time.Time
	location *time.Location
}

// NewOrderService creates an order service
func NewOrderService(db *gorm.DB, counters *CounterService, images *ImageService, events realtime.Publisher, log *zap.Logger) *OrderService {
	if events == nil {
		events = realtime.Discard
	}
	return &OrderService{
		db:       db,
		counters: counters,
		images:   images,
		events:   events,
		log:      log,
		now:      time.Now,
		location: time.Local,
	}
}

// SetLocation sets the time zone in which order dates are calendar days
func (s *OrderService) SetLocation(loc *time.Location) {
	if loc != nil {
		s.location = loc
	}
}

func parseDate(field, value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, invalid(field, "must be formatted as "+DateLayout)
	}
	return t, nil
}

func furnitureID(orderNumber string) string {
	return fmt.Sprintf("%s-%s", orderNumber, strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// Create validates input, uploads the furniture photos and stores the order
// under a freshly issued order number. The number is issued in the same
// transaction as the insert, so a failed insert never burns a number.
func (s *OrderService) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	customerNumber, err := utils.CustomerNumber(input.Customer.Phone)
	if err != nil {
		return nil, invalid("customer.phone", "must contain at least 5 digits")
	}

	pickup, err := parseDate("pickup_date", input.PickupDate, s.location)
	if err != nil {
		return nil, err
	}
	deadline := pickup.Add(models.DefaultDeadlineOffset)
	if input.Deadline != "" {
		if deadline, err = parseDate("deadline", input.Deadline, s.location); err != nil {
			return nil, err
		}
		if deadline.Before(pickup) {
			return nil, invalid("deadline", "must not be before the pickup date")
		}
	}

	// photos first, so a bad image rejects the order before a number is issued
	imageKeys := make([]*string, len(input.Furniture))
	for i, f := range input.Furniture {
		if f.Image == "" {
			continue
		}
		key, err := s.images.UploadDataURL(ctx, "furniture", f.Image)
		if err != nil {
			s.deleteImages(ctx, imageKeys)
			var uploadErr *utils.FileUploadError
			if errors.As(err, &uploadErr) {
				return nil, invalid(fmt.Sprintf("furniture[%d].image", i), uploadErr.Message)
			}
			return nil, err
		}
		imageKeys[i] = &key
	}

	order := models.Order{
		Title: utils.SanitizeText(input.Title),
		Customer: models.Customer{
			Number:  customerNumber,
			Name:    utils.SanitizeText(input.Customer.Name),
			Address: utils.SanitizeText(input.Customer.Address),
			Phone:   strings.TrimSpace(input.Customer.Phone),
			Email:   strings.TrimSpace(input.Customer.Email),
		},
		PickupDate:   pickup,
		Deadline:     deadline,
		DeliveryCost: input.DeliveryCost,
		Status:       models.OrderStatusActive,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := s.counters.NextInTx(tx, OrderCounter)
		if err != nil {
			return err
		}
		order.OrderNumber = strconv.FormatInt(number, 10)

		order.Furniture = make([]models.FurnitureItem, len(input.Furniture))
		for i, f := range input.Furniture {
			order.Furniture[i] = models.FurnitureItem{
				ID:          furnitureID(order.OrderNumber),
				OrderNumber: order.OrderNumber,
				Position:    i,
				Type:        utils.SanitizeText(f.Type),
				Price:       f.Price,
				ImageKey:    imageKeys[i],
				Treatment:   utils.SanitizeText(f.Treatment),
				Department:  models.DepartmentPickup,
				Priority:    workflow.InitialPriority(i),
			}
		}

		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})
	if err != nil {
		s.deleteImages(ctx, imageKeys)
		return nil, err
	}

	s.log.Info("order created",
		zap.String("order_number", order.OrderNumber),
		zap.Int("furniture", len(order.Furniture)))

	ev := realtime.NewEvent(realtime.EventOrderCreated)
	ev.OrderNumber = order.OrderNumber
	s.events.Publish(ev)

	s.resolveImages(ctx, &order)
	return &order, nil
}

func (s *OrderService) deleteImages(ctx context.Context, keys []*string) {
	for _, key := range keys {
		if key == nil {
			continue
		}
		if err := s.images.DeleteImage(ctx, *key); err != nil {
			s.log.Warn("failed to clean up image", zap.String("key", *key), zap.Error(err))
		}
	}
}

func (s *OrderService) resolveImages(ctx context.Context, order *models.Order) {
	for i := range order.Furniture {
		order.Furniture[i].ImageURL = s.images.ResolveURL(ctx, order.Furniture[i].ImageKey)
	}
}

func preloadFurniture(db *gorm.DB) *gorm.DB {
	return db.Order("furniture_items.position ASC")
}

// orderNumberDesc sorts numerically for digit strings of any length
const orderNumberDesc = "LENGTH(orders.order_number) DESC, orders.order_number DESC"

// Get returns an order with its furniture
func (s *OrderService) Get(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Furniture", preloadFurniture).
		Where("order_number = ?", orderNumber).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	s.resolveImages(ctx, &order)
	return &order, nil
}

// List returns orders, newest order number first
func (s *OrderService) List(ctx context.Context, filter ListOrdersFilter) ([]models.Order, error) {
	query := s.db.WithContext(ctx).Model(&models.Order{}).Preload("Furniture", preloadFurniture)

	if filter.Status != "" {
		query = query.Where("orders.status = ?", filter.Status)
	}
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		like := "%" + search + "%"
		query = query.Where(
			"LOWER(orders.title) LIKE ? OR LOWER(orders.customer_name) LIKE ? OR orders.customer_phone LIKE ? OR orders.order_number LIKE ? OR orders.customer_number LIKE ?",
			like, like, like, like, like,
		)
	}

	var orders []models.Order
	if err := query.Order(orderNumberDesc).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	for i := range orders {
		s.resolveImages(ctx, &orders[i])
	}
	return orders, nil
}

// lockOrder loads an order and its furniture inside tx, holding a row lock
// on the order until tx ends
func lockOrder(tx *gorm.DB, orderNumber string) (*models.Order, error) {
	var order models.Order
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("order_number = ?", orderNumber).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	if err := tx.Where("order_number = ?", orderNumber).Order("position ASC").Find(&order.Furniture).Error; err != nil {
		return nil, fmt.Errorf("failed to load furniture: %w", err)
	}
	return &order, nil
}

// UpdateDetails changes descriptive fields of an order and its furniture
func (s *OrderService) UpdateDetails(ctx context.Context, orderNumber string, input UpdateOrderInput) (*models.Order, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	orderUpdates := map[string]any{}
	if input.Title != nil {
		orderUpdates["title"] = utils.SanitizeText(*input.Title)
	}
	if input.Customer != nil {
		number, err := utils.CustomerNumber(input.Customer.Phone)
		if err != nil {
			return nil, invalid("customer.phone", "must contain at least 5 digits")
		}
		orderUpdates["customer_number"] = number
		orderUpdates["customer_name"] = utils.SanitizeText(input.Customer.Name)
		orderUpdates["customer_address"] = utils.SanitizeText(input.Customer.Address)
		orderUpdates["customer_phone"] = strings.TrimSpace(input.Customer.Phone)
		orderUpdates["customer_email"] = strings.TrimSpace(input.Customer.Email)
	}
	if input.PickupDate != nil {
		pickup, err := parseDate("pickup_date", *input.PickupDate, s.location)
		if err != nil {
			return nil, err
		}
		orderUpdates["pickup_date"] = pickup
	}
	if input.Deadline != nil {
		deadline, err := parseDate("deadline", *input.Deadline, s.location)
		if err != nil {
			return nil, err
		}
		orderUpdates["deadline"] = deadline
	}
	if input.DeliveryCost != nil {
		orderUpdates["delivery_cost"] = *input.DeliveryCost
	}

	// upload replacement photos before touching the database
	newKeys := make([]*string, len(input.Furniture))
	for i, f := range input.Furniture {
		if f.Image == nil || *f.Image == "" {
			continue
		}
		key, err := s.images.UploadDataURL(ctx, "furniture", *f.Image)
		if err != nil {
			s.deleteImages(ctx, newKeys)
			var uploadErr *utils.FileUploadError
			if errors.As(err, &uploadErr) {
				return nil, invalid(fmt.Sprintf("furniture[%d].image", i), uploadErr.Message)
			}
			return nil, err
		}
		newKeys[i] = &key
	}

	var replaced []*string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := lockOrder(tx, orderNumber)
		if err != nil {
			return err
		}

		if pickup, ok := orderUpdates["pickup_date"].(time.Time); ok {
			deadline := order.Deadline
			if d, ok := orderUpdates["deadline"].(time.Time); ok {
				deadline = d
			}
			if deadline.Before(pickup) {
				return invalid("deadline", "must not be before the pickup date")
			}
		} else if d, ok := orderUpdates["deadline"].(time.Time); ok && d.Before(order.PickupDate) {
			return invalid("deadline", "must not be before the pickup date")
		}

		if len(orderUpdates) > 0 {
			if err := tx.Model(&models.Order{}).Where("order_number = ?", orderNumber).Updates(orderUpdates).Error; err != nil {
				return fmt.Errorf("failed to update order: %w", err)
			}
		}

		for i, f := range input.Furniture {
			idx := order.FindItem(f.ID)
			if idx < 0 {
				return fmt.Errorf("%w: %s", workflow.ErrItemNotFound, f.ID)
			}

			itemUpdates := map[string]any{}
			if f.Type != nil {
				itemUpdates["type"] = utils.SanitizeText(*f.Type)
			}
			if f.Price != nil {
				itemUpdates["price"] = *f.Price
			}
			if f.Treatment != nil {
				itemUpdates["treatment"] = utils.SanitizeText(*f.Treatment)
			}
			if f.Image != nil {
				itemUpdates["image_key"] = newKeys[i]
				replaced = append(replaced, order.Furniture[idx].ImageKey)
			}
			if len(itemUpdates) == 0 {
				continue
			}
			if err := tx.Model(&models.FurnitureItem{}).Where("id = ?", f.ID).Updates(itemUpdates).Error; err != nil {
				return fmt.Errorf("failed to update furniture: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		s.deleteImages(ctx, newKeys)
		return nil, err
	}

	// old photos go only after the new keys are committed
	s.deleteImages(ctx, replaced)

	ev := realtime.NewEvent(realtime.EventOrderUpdated)
	ev.OrderNumber = orderNumber
	s.events.Publish(ev)

	return s.Get(ctx, orderNumber)
}

// ReplaceImage stores an uploaded photo for one furniture item and removes
// the previous one
func (s *OrderService) ReplaceImage(ctx context.Context, orderNumber, itemID string, fileHeader *multipart.FileHeader) (*models.FurnitureItem, error) {
	key, err := s.images.UploadFile(ctx, "furniture", fileHeader)
	if err != nil {
		return nil, err
	}

	var old *string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := lockOrder(tx, orderNumber)
		if err != nil {
			return err
		}
		idx := order.FindItem(itemID)
		if idx < 0 {
			return fmt.Errorf("%w: %s", workflow.ErrItemNotFound, itemID)
		}
		old = order.Furniture[idx].ImageKey

		if err := tx.Model(&models.FurnitureItem{}).Where("id = ?", itemID).
			UpdateColumn("image_key", key).Error; err != nil {
			return fmt.Errorf("failed to update furniture image: %w", err)
		}
		return nil
	})
	if err != nil {
		s.deleteImages(ctx, []*string{&key})
		return nil, err
	}
	s.deleteImages(ctx, []*string{old})

	ev := realtime.NewEvent(realtime.EventOrderUpdated)
	ev.OrderNumber = orderNumber
	ev.ItemID = itemID
	s.events.Publish(ev)

	order, err := s.Get(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	item := order.Furniture[order.FindItem(itemID)]
	return &item, nil
}
