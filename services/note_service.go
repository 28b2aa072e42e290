package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/models"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/realtime"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/utils"
	"gorm.io/gorm"
)

// NoteInput is a new note on an order
type NoteInput struct {
	Stop string `json:"stop" validate:"omitempty,oneof=general pickup delivery"`
	Text string `json:"text" validate:"required,max=2000"`
}

// NoteService manages notes left on orders
type NoteService struct {
	db     *gorm.DB
	events realtime.Publisher
}

// NewNoteService creates a note service
func NewNoteService(db *gorm.DB, events realtime.Publisher) *NoteService {
	if events == nil {
		events = realtime.Discard
	}
	return &NoteService{db: db, events: events}
}

func (s *NoteService) orderExists(db *gorm.DB, orderNumber string) error {
	var count int64
	if err := db.Model(&models.Order{}).Where("order_number = ?", orderNumber).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to load order: %w", err)
	}
	if count == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// Create adds a note by author to an order
func (s *NoteService) Create(ctx context.Context, author *models.User, orderNumber string, input NoteInput) (*models.OrderNote, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	text := utils.SanitizeText(input.Text)
	if text == "" {
		return nil, invalid("text", "is required")
	}

	stop := models.NoteStopGeneral
	if input.Stop != "" {
		stop = models.NoteStop(input.Stop)
	}

	db := s.db.WithContext(ctx)
	if err := s.orderExists(db, orderNumber); err != nil {
		return nil, err
	}

	note := models.OrderNote{
		OrderNumber: orderNumber,
		AuthorUID:   author.UID,
		Stop:        stop,
		Text:        text,
	}
	if err := db.Create(&note).Error; err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	// Load the author relationship to return complete data
	if err := db.Preload("Author").First(&note, note.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to load note details: %w", err)
	}

	ev := realtime.NewEvent(realtime.EventNoteCreated)
	ev.OrderNumber = orderNumber
	ev.Data = note
	s.events.Publish(ev)

	return &note, nil
}

// List returns the notes of an order, oldest first
func (s *NoteService) List(ctx context.Context, orderNumber string) ([]models.OrderNote, error) {
	db := s.db.WithContext(ctx)
	if err := s.orderExists(db, orderNumber); err != nil {
		return nil, err
	}

	var notes []models.OrderNote
	if err := db.Where("order_number = ?", orderNumber).
		Preload("Author").
		Order("created_at ASC").
		Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch notes: %w", err)
	}
	return notes, nil
}

// Delete removes a note. Only its author or an admin may delete it.
func (s *NoteService) Delete(ctx context.Context, actor *models.User, orderNumber string, id uint) error {
	db := s.db.WithContext(ctx)

	var note models.OrderNote
	err := db.Where("id = ? AND order_number = ?", id, orderNumber).First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNoteNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load note: %w", err)
	}
	if note.AuthorUID != actor.UID && actor.Role != models.RoleAdmin {
		return ErrForbiddenField
	}

	if err := db.Delete(&note).Error; err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}
