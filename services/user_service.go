package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/models"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/policy"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/realtime"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/utils"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/workflow"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// invitePrefix marks profiles created by an admin before the person first signed in
const invitePrefix = "invite|"

// CreateUserInput is an admin-created profile
type CreateUserInput struct {
	UID            string `json:"uid" validate:"omitempty,max=128"` // Auth0 subject, if already known
	Email          string `json:"email" validate:"required,email,max=200"`
	Role           string `json:"role" validate:"omitempty,oneof=Admin TeamLead Staff"`
	Status         string `json:"status" validate:"omitempty,oneof=Pending Active Inactive"`
	Department     string `json:"department"`
	OrganizationID *uint  `json:"organization_id"`
	SupervisorID   *uint  `json:"supervisor_id"`
	DisplayName    string `json:"display_name" validate:"max=200"`
	Address        string `json:"address" validate:"max=500"`
	Phone          string `json:"phone" validate:"max=50"`
}

// UpdateUserInput changes a profile. Nil fields are left alone. An empty
// department and a zero organization or supervisor id clear the field.
type UpdateUserInput struct {
	Role           *string `json:"role" validate:"omitempty,oneof=Admin TeamLead Staff"`
	Status         *string `json:"status" validate:"omitempty,oneof=Pending Active Inactive"`
	Department     *string `json:"department"`
	OrganizationID *uint   `json:"organization_id"`
	SupervisorID   *uint   `json:"supervisor_id"`
	DisplayName    *string `json:"display_name" validate:"omitempty,max=200"`
	Address        *string `json:"address" validate:"omitempty,max=500"`
	Phone          *string `json:"phone" validate:"omitempty,max=50"`
}

// UserService manages staff profiles
type UserService struct {
	db         *gorm.DB
	policy     *policy.Policy
	adminEmail string
	events     realtime.Publisher
	log        *zap.Logger
}

// NewUserService creates a user service. Whoever signs in with adminEmail
// becomes an active admin.
func NewUserService(db *gorm.DB, pol *policy.Policy, adminEmail string, events realtime.Publisher, log *zap.Logger) *UserService {
	if events == nil {
		events = realtime.Discard
	}
	return &UserService{db: db, policy: pol, adminEmail: adminEmail, events: events, log: log}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Get returns the profile with uid
func (s *UserService) Get(ctx context.Context, uid string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("uid = ?", uid).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// List returns all profiles ordered by email
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("email ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// EnsureProfile returns the profile of a signed-in user, creating it on
// first sign-in. New profiles are pending staff, except for the configured
// admin email which starts as an active admin. A profile an admin created
// in advance for the same email is claimed instead, and the admin email
// still wins over the role stored on it.
func (s *UserService) EnsureProfile(ctx context.Context, uid, email string) (*models.User, bool, error) {
	if uid == "" {
		return nil, false, invalid("uid", "is required")
	}
	email = normalizeEmail(email)
	if email == "" {
		return nil, false, invalid("email", "is required")
	}

	if user, err := s.Get(ctx, uid); err == nil {
		return user, false, nil
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, false, err
	}

	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var invited models.User
		err := tx.Where("email = ? AND uid LIKE ?", email, invitePrefix+"%").First(&invited).Error
		if err == nil {
			updates := map[string]interface{}{"uid": uid}
			if models.SameEmail(email, s.adminEmail) {
				updates["role"] = models.RoleAdmin
				updates["status"] = models.UserStatusActive
			}
			if err := tx.Model(&models.User{}).Where("uid = ?", invited.UID).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to claim profile: %w", err)
			}
			created = true
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up invite: %w", err)
		}

		user := models.User{
			UID:    uid,
			Email:  email,
			Role:   models.RoleStaff,
			Status: models.UserStatusPending,
		}
		if models.SameEmail(email, s.adminEmail) {
			user.Role = models.RoleAdmin
			user.Status = models.UserStatusActive
		}

		res := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "uid"}}, DoNothing: true}).Create(&user)
		if res.Error != nil {
			if isUniqueViolation(res.Error) {
				return ErrUserExists
			}
			return fmt.Errorf("failed to create user: %w", res.Error)
		}
		created = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	// re-read: a concurrent first request may have created the row
	user, err := s.Get(ctx, uid)
	if err != nil {
		return nil, false, err
	}
	if created {
		s.log.Info("user profile created",
			zap.String("uid", uid),
			zap.String("role", string(user.Role)),
			zap.String("status", string(user.Status)))
		s.publish(user.UID)
	}
	return user, created, nil
}

// Create adds a profile on behalf of an admin
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*models.User, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	user := models.User{
		UID:            strings.TrimSpace(input.UID),
		Email:          normalizeEmail(input.Email),
		Role:           models.RoleStaff,
		Status:         models.UserStatusPending,
		OrganizationID: nonZero(input.OrganizationID),
		SupervisorID:   nonZero(input.SupervisorID),
		DisplayName:    utils.SanitizeText(input.DisplayName),
		Address:        utils.SanitizeText(input.Address),
		Phone:          strings.TrimSpace(input.Phone),
	}
	if user.UID == "" {
		user.UID = invitePrefix + uuid.NewString()
	}
	if input.Role != "" {
		user.Role = models.Role(input.Role)
	}
	if input.Status != "" {
		user.Status = models.UserStatus(input.Status)
	}
	if input.Department != "" {
		dept, err := workflow.ParseDepartment(input.Department)
		if err != nil {
			return nil, invalid("department", err.Error())
		}
		user.Department = &dept
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkAssignment(tx, user.OrganizationID, user.SupervisorID); err != nil {
			return err
		}
		if err := tx.Create(&user).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrUserExists
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(user.UID)
	return &user, nil
}

// Update applies input to the profile with targetUID, as far as actor is allowed to
func (s *UserService) Update(ctx context.Context, actor *models.User, targetUID string, input UpdateUserInput) (*models.User, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("uid = ?", targetUID).First(&target).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to load user: %w", err)
		}

		updates := map[string]any{}
		allow := func(field policy.UserField) error {
			if s.policy.CanEditUserField(actor, &target, field) {
				return nil
			}
			if (field == policy.FieldRole || field == policy.FieldStatus) && actor.UID == target.UID {
				return ErrSelfEdit
			}
			return fmt.Errorf("%w: %s", ErrForbiddenField, field)
		}

		if input.Role != nil && models.Role(*input.Role) != target.Role {
			if err := allow(policy.FieldRole); err != nil {
				return err
			}
			updates["role"] = models.Role(*input.Role)
		}
		if input.Status != nil && models.UserStatus(*input.Status) != target.Status {
			if err := allow(policy.FieldStatus); err != nil {
				return err
			}
			updates["status"] = models.UserStatus(*input.Status)
		}
		if input.Department != nil {
			if err := allow(policy.FieldDepartment); err != nil {
				return err
			}
			if *input.Department == "" {
				updates["department"] = nil
			} else {
				dept, err := workflow.ParseDepartment(*input.Department)
				if err != nil {
					return invalid("department", err.Error())
				}
				updates["department"] = dept
			}
		}

		org := target.OrganizationID
		supervisor := target.SupervisorID
		if input.OrganizationID != nil {
			if err := allow(policy.FieldOrganization); err != nil {
				return err
			}
			newOrg := nonZero(input.OrganizationID)
			if !sameID(org, newOrg) {
				// a supervisor belongs to one organization
				supervisor = nil
				updates["supervisor_id"] = nil
			}
			org = newOrg
			updates["organization_id"] = newOrg
		}
		if input.SupervisorID != nil {
			if err := allow(policy.FieldSupervisor); err != nil {
				return err
			}
			supervisor = nonZero(input.SupervisorID)
			updates["supervisor_id"] = supervisor
		}
		if input.OrganizationID != nil || input.SupervisorID != nil {
			if err := checkAssignment(tx, org, supervisor); err != nil {
				return err
			}
		}

		if input.DisplayName != nil {
			if err := allow(policy.FieldDisplayName); err != nil {
				return err
			}
			updates["display_name"] = utils.SanitizeText(*input.DisplayName)
		}
		if input.Address != nil {
			if err := allow(policy.FieldAddress); err != nil {
				return err
			}
			updates["address"] = utils.SanitizeText(*input.Address)
		}
		if input.Phone != nil {
			if err := allow(policy.FieldPhone); err != nil {
				return err
			}
			updates["phone"] = strings.TrimSpace(*input.Phone)
		}

		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&models.User{}).Where("uid = ?", targetUID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(targetUID)
	return s.Get(ctx, targetUID)
}

func (s *UserService) publish(uid string) {
	ev := realtime.NewEvent(realtime.EventUserChanged)
	ev.Subject = uid
	s.events.Publish(ev)
}

// checkAssignment verifies that org exists and that supervisor belongs to it
func checkAssignment(tx *gorm.DB, org, supervisor *uint) error {
	if org != nil {
		var count int64
		if err := tx.Model(&models.Organization{}).Where("id = ?", *org).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check organization: %w", err)
		}
		if count == 0 {
			return ErrOrganizationNotFound
		}
	}
	if supervisor == nil {
		return nil
	}

	var sup models.Supervisor
	if err := tx.Where("id = ?", *supervisor).First(&sup).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSupervisorNotFound
		}
		return fmt.Errorf("failed to check supervisor: %w", err)
	}
	if org == nil || sup.OrganizationID != *org {
		return ErrSupervisorMismatch
	}
	return nil
}

func nonZero(id *uint) *uint {
	if id == nil || *id == 0 {
		return nil
	}
	v := *id
	return &v
}

func sameID(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// isUniqueViolation recognizes duplicate key errors from PostgreSQL and SQLite
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate") ||
		strings.Contains(errMsg, "unique constraint") ||
		strings.Contains(errMsg, "unique")
}
