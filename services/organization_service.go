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

// OrganizationInput creates an organization
type OrganizationInput struct {
	Name    string `json:"name" validate:"required,max=200"`
	Address string `json:"address" validate:"max=500"`
	Phone   string `json:"phone" validate:"max=50"`
	Logo    string `json:"logo"` // optional base64 data URL
}

// UpdateOrganizationInput changes an organization; an empty Logo removes it
type UpdateOrganizationInput struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=200"`
	Address *string `json:"address" validate:"omitempty,max=500"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	Logo    *string `json:"logo"`
}

// OrganizationService manages organizations
type OrganizationService struct {
	db     *gorm.DB
	images *ImageService
	events realtime.Publisher
	log    *zap.Logger
}

// NewOrganizationService creates an organization service
func NewOrganizationService(db *gorm.DB, images *ImageService, events realtime.Publisher, log *zap.Logger) *OrganizationService {
	if events == nil {
		events = realtime.Discard
	}
	return &OrganizationService{db: db, images: images, events: events, log: log}
}

func (s *OrganizationService) uploadLogo(ctx context.Context, dataURL string) (*string, error) {
	key, err := s.images.UploadDataURL(ctx, "logos", dataURL)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			return nil, invalid("logo", uploadErr.Message)
		}
		return nil, err
	}
	return &key, nil
}

func (s *OrganizationService) resolve(ctx context.Context, org *models.Organization) {
	org.LogoURL = s.images.ResolveURL(ctx, org.LogoKey)
}

// List returns all organizations ordered by name
func (s *OrganizationService) List(ctx context.Context) ([]models.Organization, error) {
	var orgs []models.Organization
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&orgs).Error; err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	for i := range orgs {
		s.resolve(ctx, &orgs[i])
	}
	return orgs, nil
}

// Get returns one organization
func (s *OrganizationService) Get(ctx context.Context, id uint) (*models.Organization, error) {
	var org models.Organization
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrganizationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load organization: %w", err)
	}
	s.resolve(ctx, &org)
	return &org, nil
}

// Create adds an organization
func (s *OrganizationService) Create(ctx context.Context, input OrganizationInput) (*models.Organization, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	org := models.Organization{
		Name:    utils.SanitizeText(input.Name),
		Address: utils.SanitizeText(input.Address),
		Phone:   strings.TrimSpace(input.Phone),
	}
	if input.Logo != "" {
		key, err := s.uploadLogo(ctx, input.Logo)
		if err != nil {
			return nil, err
		}
		org.LogoKey = key
	}

	if err := s.db.WithContext(ctx).Create(&org).Error; err != nil {
		if org.LogoKey != nil {
			_ = s.images.DeleteImage(ctx, *org.LogoKey)
		}
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	s.publish(org.ID)
	s.resolve(ctx, &org)
	return &org, nil
}

// Update changes an organization
func (s *OrganizationService) Update(ctx context.Context, id uint, input UpdateOrganizationInput) (*models.Organization, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = utils.SanitizeText(*input.Name)
	}
	if input.Address != nil {
		updates["address"] = utils.SanitizeText(*input.Address)
	}
	if input.Phone != nil {
		updates["phone"] = strings.TrimSpace(*input.Phone)
	}

	var newLogo *string
	if input.Logo != nil {
		if *input.Logo != "" {
			if newLogo, err = s.uploadLogo(ctx, *input.Logo); err != nil {
				return nil, err
			}
		}
		updates["logo_key"] = newLogo
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&models.Organization{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			if newLogo != nil {
				_ = s.images.DeleteImage(ctx, *newLogo)
			}
			return nil, fmt.Errorf("failed to update organization: %w", err)
		}
	}

	if input.Logo != nil && current.LogoKey != nil {
		if err := s.images.DeleteImage(ctx, *current.LogoKey); err != nil {
			s.log.Warn("failed to delete old logo", zap.Uint("organization_id", id), zap.Error(err))
		}
	}

	s.publish(id)
	return s.Get(ctx, id)
}

func (s *OrganizationService) publish(id uint) {
	ev := realtime.NewEvent(realtime.EventOrganizationChanged)
	ev.Subject = fmt.Sprint(id)
	s.events.Publish(ev)
}
