package workflow

import (
	"testing"
	"time"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeadlineStateOf(t *testing.T) {
	pickup := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	deadline := pickup.Add(models.DefaultDeadlineOffset)

	tests := []struct {
		name     string
		now      time.Time
		expected DeadlineState
	}{
		{"day after pickup", pickup.Add(24 * time.Hour), DeadlineFresh},
		{"middle", pickup.Add(7 * 24 * time.Hour), DeadlineInProgress},
		{"two days left", deadline.Add(-48 * time.Hour), DeadlineUrgent},
		{"overdue", deadline.Add(24 * time.Hour), DeadlineUrgent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeadlineStateOf(pickup, deadline, tt.now))
		})
	}

	assert.Equal(t, DeadlineUnknown, DeadlineStateOf(time.Time{}, deadline, pickup))
}

func boardOrders() []models.Order {
	return []models.Order{
		{
			OrderNumber: "20250076",
			Title:       "Eetkamerstoelen",
			Status:      models.OrderStatusActive,
			Customer:    models.Customer{Name: "Jansen", Number: "45678"},
			Furniture: []models.FurnitureItem{
				{ID: "20250076-1", Department: models.DepartmentSpraying, Priority: 2048},
				{ID: "20250076-2", Department: models.DepartmentPickup, Priority: 1024},
			},
		},
		{
			OrderNumber: "20250075",
			Status:      models.OrderStatusActive,
			Furniture: []models.FurnitureItem{
				{ID: "20250075-1", Department: models.DepartmentSpraying, Priority: 1024},
				{ID: "20250075-2", Department: models.Department("Ophalen"), Priority: 1024},
			},
		},
		{
			OrderNumber: "20250074",
			Status:      models.OrderStatusCompleted,
			Furniture: []models.FurnitureItem{
				{ID: "20250074-1", Department: models.DepartmentSpraying, Priority: 1},
			},
		},
	}
}

func TestBuildBoardGroupsAndSorts(t *testing.T) {
	board := BuildBoard(boardOrders(), nil, time.Now())

	require.Len(t, board.Columns, len(models.Departments()))
	assert.Equal(t, models.DepartmentPickup, board.Columns[0].Department)

	var spraying Column
	for _, col := range board.Columns {
		if col.Department == models.DepartmentSpraying {
			spraying = col
		}
	}
	require.Len(t, spraying.Cards, 2, "completed orders are excluded")
	assert.Equal(t, "20250075-1", spraying.Cards[0].ID)
	assert.Equal(t, "20250076-1", spraying.Cards[1].ID)
	assert.Equal(t, "Jansen", spraying.Cards[1].CustomerName)

	require.Len(t, board.Unmapped, 1)
	assert.Equal(t, "20250075-2", board.Unmapped[0].ID)
}

func TestBuildBoardRestrictsDepartments(t *testing.T) {
	board := BuildBoard(boardOrders(), []models.Department{models.DepartmentSpraying}, time.Now())

	require.Len(t, board.Columns, 1)
	assert.Equal(t, models.DepartmentSpraying, board.Columns[0].Department)
	assert.Len(t, board.Columns[0].Cards, 2)
	assert.Empty(t, board.Unmapped)
}

func TestBuildBoardEmptyVisibility(t *testing.T) {
	board := BuildBoard(boardOrders(), []models.Department{}, time.Now())

	assert.Empty(t, board.Columns)
	assert.Empty(t, board.Unmapped)
}
