package services

import (
	"context"
	"testing"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/models"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteService(t *testing.T) {
	env := newTestEnv(t, 100)
	ctx := context.Background()
	notes := NewNoteService(env.db, env.events)

	author := createTestUser(t, env.db, "driver", models.RoleStaff)
	other := createTestUser(t, env.db, "other", models.RoleStaff)
	admin := createTestUser(t, env.db, "admin", models.RoleAdmin)

	order, err := env.orders.Create(ctx, orderInput())
	require.NoError(t, err)

	note, err := notes.Create(ctx, author, order.OrderNumber, NoteInput{Text: "  Call <script>x</script>ahead "})
	require.NoError(t, err)
	assert.Equal(t, models.NoteStopGeneral, note.Stop)
	assert.Equal(t, "Call ahead", note.Text)
	assert.Equal(t, author.UID, note.Author.UID)
	assert.Equal(t, 1, env.events.count(realtime.EventNoteCreated))

	_, err = notes.Create(ctx, author, order.OrderNumber, NoteInput{Stop: "delivery", Text: "Second floor"})
	require.NoError(t, err)

	list, err := notes.List(ctx, order.OrderNumber)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Call ahead", list[0].Text)
	assert.Equal(t, models.NoteStopDelivery, list[1].Stop)

	tests := []struct {
		name  string
		input NoteInput
		field string
	}{
		{"empty text", NoteInput{}, "text"},
		{"only markup", NoteInput{Text: "<b></b>"}, "text"},
		{"unknown stop", NoteInput{Stop: "warehouse", Text: "x"}, "stop"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := notes.Create(ctx, author, order.OrderNumber, tt.input)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	_, err = notes.Create(ctx, author, "999", NoteInput{Text: "x"})
	assert.ErrorIs(t, err, ErrOrderNotFound)
	_, err = notes.List(ctx, "999")
	assert.ErrorIs(t, err, ErrOrderNotFound)

	assert.ErrorIs(t, notes.Delete(ctx, other, order.OrderNumber, note.ID), ErrForbiddenField)
	assert.NoError(t, notes.Delete(ctx, author, order.OrderNumber, note.ID))
	assert.ErrorIs(t, notes.Delete(ctx, admin, order.OrderNumber, note.ID), ErrNoteNotFound)
	assert.NoError(t, notes.Delete(ctx, admin, order.OrderNumber, list[1].ID))

	list, err = notes.List(ctx, order.OrderNumber)
	require.NoError(t, err)
	assert.Empty(t, list)
}
