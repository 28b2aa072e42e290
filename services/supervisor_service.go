package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/models"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/realtime"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SupervisorInput creates or replaces a supervisor
type SupervisorInput struct {
	Name           string `json:"name" validate:"required,max=200"`
	Email          string `json:"email" validate:"omitempty,email,max=200"`
	Phone          string `json:"phone" validate:"max=50"`
	OrganizationID uint   `json:"organization_id" validate:"required"`
}

// SupervisorService manages supervisors
type SupervisorService struct {
	db     *gorm.DB
	events realtime.Publisher
	log    *zap.Logger
}

// NewSupervisorService creates a supervisor service
func NewSupervisorService(db *gorm.DB, events realtime.Publisher, log *zap.Logger) *SupervisorService {
	if events == nil {
		events = realtime.Discard
	}
	return &SupervisorService{db: db, events: events, log: log}
}

// List returns supervisors ordered by name, optionally for one organization
func (s *SupervisorService) List(ctx context.Context, organizationID uint) ([]models.Supervisor, error) {
	query := s.db.WithContext(ctx).Order("name ASC")
	if organizationID != 0 {
		query = query.Where("organization_id = ?", organizationID)
	}

	var supervisors []models.Supervisor
	if err := query.Find(&supervisors).Error; err != nil {
		return nil, fmt.Errorf("failed to list supervisors: %w", err)
	}
	return supervisors, nil
}

// Get returns one supervisor
func (s *SupervisorService) Get(ctx context.Context, id uint) (*models.Supervisor, error) {
	var sup models.Supervisor
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&sup).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSupervisorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load supervisor: %w", err)
	}
	return &sup, nil
}

// Create adds a supervisor to an existing organization
func (s *SupervisorService) Create(ctx context.Context, input SupervisorInput) (*models.Supervisor, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	sup := models.Supervisor{
		Name:           utils.SanitizeText(input.Name),
		Email:          strings.TrimSpace(input.Email),
		Phone:          strings.TrimSpace(input.Phone),
		OrganizationID: input.OrganizationID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		org := input.OrganizationID
		if err := checkAssignment(tx, &org, nil); err != nil {
			return err
		}
		if err := tx.Create(&sup).Error; err != nil {
			return fmt.Errorf("failed to create supervisor: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(sup.ID)
	return &sup, nil
}

// Update replaces a supervisor's details. Moving a supervisor to another
// organization unassigns them from users of the old one.
func (s *SupervisorService) Update(ctx context.Context, id uint, input SupervisorInput) (*models.Supervisor, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sup models.Supervisor
		if err := tx.Where("id = ?", id).First(&sup).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSupervisorNotFound
			}
			return fmt.Errorf("failed to load supervisor: %w", err)
		}

		org := input.OrganizationID
		if err := checkAssignment(tx, &org, nil); err != nil {
			return err
		}

		if err := tx.Model(&models.Supervisor{}).Where("id = ?", id).Updates(map[string]any{
			"name":            utils.SanitizeText(input.Name),
			"email":           strings.TrimSpace(input.Email),
			"phone":           strings.TrimSpace(input.Phone),
			"organization_id": input.OrganizationID,
		}).Error; err != nil {
			return fmt.Errorf("failed to update supervisor: %w", err)
		}

		if sup.OrganizationID != input.OrganizationID {
			if err := tx.Model(&models.User{}).
				Where("supervisor_id = ? AND (organization_id IS NULL OR organization_id <> ?)", id, input.OrganizationID).
				Update("supervisor_id", nil).Error; err != nil {
				return fmt.Errorf("failed to unassign supervisor: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(id)
	return s.Get(ctx, id)
}

// Delete removes a supervisor and unassigns them from every user
func (s *SupervisorService) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("supervisor_id = ?", id).Update("supervisor_id", nil).Error; err != nil {
			return fmt.Errorf("failed to unassign supervisor: %w", err)
		}
		res := tx.Where("id = ?", id).Delete(&models.Supervisor{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete supervisor: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrSupervisorNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("supervisor deleted", zap.Uint("supervisor_id", id))
	s.publish(id)
	return nil
}

func (s *SupervisorService) publish(id uint) {
	ev := realtime.NewEvent(realtime.EventSupervisorChanged)
	ev.Subject = fmt.Sprint(id)
	s.events.Publish(ev)
}
