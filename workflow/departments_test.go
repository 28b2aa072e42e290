package workflow

import (
	"testing"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDepartment(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    models.Department
		expectError bool
	}{
		{"pickup", "Pickup", models.DepartmentPickup, false},
		{"trims whitespace", "  Sanding M1 ", models.DepartmentSandingM1, false},
		{"delivery", "Delivery", models.DepartmentDelivery, false},
		{"wrong case", "delivery", "", true},
		{"unknown", "Polishing", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDepartment(tt.input)
			if tt.expectError {
				assert.ErrorIs(t, err, ErrUnknownDepartment)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestNextAndPrevious(t *testing.T) {
	next, ok := Next(models.DepartmentPickup)
	assert.True(t, ok)
	assert.Equal(t, models.DepartmentDisassembly, next)

	_, ok = Next(models.DepartmentDelivery)
	assert.False(t, ok, "delivery is the last stage")

	prev, ok := Previous(models.DepartmentDelivery)
	assert.True(t, ok)
	assert.Equal(t, models.DepartmentAssembly, prev)

	_, ok = Previous(models.DepartmentPickup)
	assert.False(t, ok, "pickup is the first stage")

	_, ok = Next(models.Department("Polishing"))
	assert.False(t, ok)
}

func TestStyleOf(t *testing.T) {
	style, err := StyleOf(models.DepartmentSpraying)
	require.NoError(t, err)
	assert.Equal(t, "yellow-200", style.Background)

	_, err = StyleOf(models.Department("Polishing"))
	assert.ErrorIs(t, err, ErrUnknownDepartment)
}

func TestLegendCoversEveryDepartment(t *testing.T) {
	legend := Legend()
	require.Len(t, legend, len(models.Departments()))

	for i, info := range legend {
		assert.Equal(t, i, info.Index)
		assert.NotEmpty(t, info.Style.Background, "department %s has no style", info.Name)
	}
}
