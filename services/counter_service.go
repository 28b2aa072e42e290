package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderCounter is the counter order numbers are issued from
const OrderCounter = "orders"

// CounterService issues gap-free sequence numbers from the counters table
type CounterService struct {
	db   *gorm.DB
	seed int64
}

// NewCounterService creates a counter service; new counters start at seed
func NewCounterService(db *gorm.DB, seed int64) *CounterService {
	return &CounterService{db: db, seed: seed}
}

// Ensure creates the counter row if it does not exist yet
func (s *CounterService) Ensure(ctx context.Context, name string) error {
	return s.ensure(s.db.WithContext(ctx), name)
}

func (s *CounterService) ensure(tx *gorm.DB, name string) error {
	counter := models.Counter{Name: name, LastValue: s.seed}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&counter).Error; err != nil {
		return fmt.Errorf("failed to seed counter %s: %w", name, err)
	}
	return nil
}

// Next increments the counter in its own transaction and returns the new value
func (s *CounterService) Next(ctx context.Context, name string) (int64, error) {
	var value int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		value, err = s.NextInTx(tx, name)
		return err
	})
	return value, err
}

// NextInTx increments the counter inside tx and returns the new value.
// The UPDATE locks the counter row until tx ends, so concurrent callers
// are serialized, and a rolled back tx gives its number back.
func (s *CounterService) NextInTx(tx *gorm.DB, name string) (int64, error) {
	res := tx.Model(&models.Counter{}).
		Where("name = ?", name).
		UpdateColumn("last_value", gorm.Expr("last_value + ?", 1))
	if res.Error != nil {
		return 0, fmt.Errorf("failed to increment counter %s: %w", name, res.Error)
	}

	if res.RowsAffected == 0 {
		if err := s.ensure(tx, name); err != nil {
			return 0, err
		}
		res = tx.Model(&models.Counter{}).
			Where("name = ?", name).
			UpdateColumn("last_value", gorm.Expr("last_value + ?", 1))
		if res.Error != nil {
			return 0, fmt.Errorf("failed to increment counter %s: %w", name, res.Error)
		}
	}

	var counter models.Counter
	if err := tx.Where("name = ?", name).First(&counter).Error; err != nil {
		return 0, fmt.Errorf("failed to read counter %s: %w", name, err)
	}
	return counter.LastValue, nil
}

// Current returns the last issued value, or the seed when nothing was issued yet
func (s *CounterService) Current(ctx context.Context, name string) (int64, error) {
	var counter models.Counter
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&counter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.seed, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read counter %s: %w", name, err)
	}
	return counter.LastValue, nil
}
