package workflow

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/models"
)

const (
	// PrioritySpacing is the gap between keys for freshly numbered items.
	PrioritySpacing = 1024.0

	// PriorityEpsilon is the smallest gap tolerated between neighbouring keys.
	PriorityEpsilon = 1e-6
)

// ErrInvalidTargetIndex is returned when a reorder target lies outside the column.
var ErrInvalidTargetIndex = errors.New("invalid target index")

// InitialPriority is the key given to the furniture item at position index of a new order.
func InitialPriority(index int) float64 {
	return float64(index+1) * PrioritySpacing
}

// Reorder computes the key for an item dropped at targetIndex among siblings.
// siblings holds the keys of the other items in the column, sorted ascending,
// with the moved item removed.
func Reorder(siblings []float64, targetIndex int) (float64, error) {
	if targetIndex < 0 || targetIndex > len(siblings) {
		return 0, fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidTargetIndex, targetIndex, len(siblings))
	}

	hasPrev := targetIndex > 0
	hasNext := targetIndex < len(siblings)

	switch {
	case hasPrev && hasNext:
		return (siblings[targetIndex-1] + siblings[targetIndex]) / 2, nil
	case hasPrev:
		return siblings[targetIndex-1] + PrioritySpacing, nil
	case hasNext:
		return siblings[targetIndex] / 2, nil
	default:
		return PrioritySpacing, nil
	}
}

// NeedsRenormalize reports whether key sits too close to one of its new
// neighbours in siblings for further midpoint insertions to stay distinct.
func NeedsRenormalize(siblings []float64, targetIndex int, key float64) bool {
	if targetIndex > 0 && targetIndex-1 < len(siblings) && math.Abs(key-siblings[targetIndex-1]) < PriorityEpsilon {
		return true
	}
	if targetIndex >= 0 && targetIndex < len(siblings) && math.Abs(siblings[targetIndex]-key) < PriorityEpsilon {
		return true
	}
	// keys near zero can no longer be halved meaningfully
	return key < PriorityEpsilon
}

// Renumber returns fresh keys for n items, preserving their order.
func Renumber(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = InitialPriority(i)
	}
	return out
}

// SortColumn orders items by ascending priority. Ties keep their input order.
func SortColumn(items []models.FurnitureItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Priority < items[j].Priority
	})
}

// Placement describes where an item lands after a reorder.
type Placement struct {
	Priority    float64
	Renormalize bool
	// Column is the column in its new order; set only when Renormalize is true
	Column []models.FurnitureItem
}

// PlaceItem computes the new priority of the item with itemID when dropped at
// targetIndex of column. column may be in any order.
func PlaceItem(column []models.FurnitureItem, itemID string, targetIndex int) (Placement, error) {
	sorted := make([]models.FurnitureItem, len(column))
	copy(sorted, column)
	SortColumn(sorted)

	var moved *models.FurnitureItem
	siblings := make([]models.FurnitureItem, 0, len(sorted))
	for i := range sorted {
		if sorted[i].ID == itemID {
			item := sorted[i]
			moved = &item
			continue
		}
		siblings = append(siblings, sorted[i])
	}
	if moved == nil {
		return Placement{}, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}

	keys := make([]float64, len(siblings))
	for i, s := range siblings {
		keys[i] = s.Priority
	}

	key, err := Reorder(keys, targetIndex)
	if err != nil {
		return Placement{}, err
	}
	if !NeedsRenormalize(keys, targetIndex, key) {
		return Placement{Priority: key}, nil
	}

	ordered := make([]models.FurnitureItem, 0, len(sorted))
	ordered = append(ordered, siblings[:targetIndex]...)
	ordered = append(ordered, *moved)
	ordered = append(ordered, siblings[targetIndex:]...)
	fresh := Renumber(len(ordered))
	for i := range ordered {
		ordered[i].Priority = fresh[i]
	}
	return Placement{Priority: fresh[targetIndex], Renormalize: true, Column: ordered}, nil
}

// Direction is a single-step move within a column.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Valid reports whether d is up or down.
func (d Direction) Valid() bool {
	return d == DirectionUp || d == DirectionDown
}

// StepTarget returns the reorder target index for moving the item with
// itemID one step in dir.
func StepTarget(column []models.FurnitureItem, itemID string, dir Direction) (int, error) {
	sorted := make([]models.FurnitureItem, len(column))
	copy(sorted, column)
	SortColumn(sorted)

	current := -1
	for i, item := range sorted {
		if item.ID == itemID {
			current = i
			break
		}
	}
	if current < 0 {
		return 0, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}

	switch dir {
	case DirectionUp:
		if current == 0 {
			return 0, fmt.Errorf("%w: item is already first", ErrInvalidTargetIndex)
		}
		return current - 1, nil
	case DirectionDown:
		if current == len(sorted)-1 {
			return 0, fmt.Errorf("%w: item is already last", ErrInvalidTargetIndex)
		}
		return current + 1, nil
	default:
		return 0, fmt.Errorf("%w: direction %q", ErrInvalidTargetIndex, dir)
	}
}
