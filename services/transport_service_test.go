package services

import (
	"context"
	"testing"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransportService_ReadyForDelivery(t *testing.T) {
	env := newTestEnv(t, 100)
	ctx := context.Background()
	transport := NewTransportService(env.db, env.orders)

	ready, err := env.orders.Create(ctx, orderInput("Chair"))
	require.NoError(t, err)
	moveAll(t, env, ready, models.DepartmentDelivery)

	_, err = env.orders.Create(ctx, orderInput("Table"))
	require.NoError(t, err)

	orders, err := transport.ReadyForDelivery(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, ready.OrderNumber, orders[0].OrderNumber)
	assert.False(t, orders[0].Scheduled)

	_, err = env.orders.ScheduleDelivery(ctx, ready.OrderNumber, ScheduleDeliveryInput{Date: "2025-03-12", Time: "10:30"})
	require.NoError(t, err)

	orders, err = transport.ReadyForDelivery(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.True(t, orders[0].Scheduled)
}

func TestTransportService_DayPlan(t *testing.T) {
	env := newTestEnv(t, 100)
	ctx := context.Background()
	transport := NewTransportService(env.db, env.orders)
	notes := NewNoteService(env.db, env.events)
	driver := createTestUser(t, env.db, "driver", models.RoleStaff)

	pickup, err := env.orders.Create(ctx, orderInput("Chair"))
	require.NoError(t, err)

	delivery := orderInput("Table", "Bench")
	delivery.PickupDate = "2025-03-01"
	deliveryOrder, err := env.orders.Create(ctx, delivery)
	require.NoError(t, err)
	moveAll(t, env, deliveryOrder, models.DepartmentDelivery)
	_, err = env.orders.ScheduleDelivery(ctx, deliveryOrder.OrderNumber, ScheduleDeliveryInput{Date: "2025-03-10", Time: "15:00"})
	require.NoError(t, err)

	later := orderInput("Lamp")
	later.PickupDate = "2025-03-11"
	_, err = env.orders.Create(ctx, later)
	require.NoError(t, err)

	_, err = notes.Create(ctx, driver, pickup.OrderNumber, NoteInput{Stop: "pickup", Text: "Ring twice"})
	require.NoError(t, err)
	_, err = notes.Create(ctx, driver, deliveryOrder.OrderNumber, NoteInput{Stop: "pickup", Text: "Back door"})
	require.NoError(t, err)
	_, err = notes.Create(ctx, driver, deliveryOrder.OrderNumber, NoteInput{Text: "Fragile"})
	require.NoError(t, err)

	plan, err := transport.DayPlan(ctx, "2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", plan.Date)
	require.Len(t, plan.Stops, 2)

	assert.Equal(t, StopPickup, plan.Stops[0].Type)
	assert.Equal(t, pickup.OrderNumber, plan.Stops[0].Order.OrderNumber)
	require.Len(t, plan.Stops[0].Notes, 1)
	assert.Equal(t, "Ring twice", plan.Stops[0].Notes[0].Text)

	assert.Equal(t, StopDelivery, plan.Stops[1].Type)
	assert.Equal(t, deliveryOrder.OrderNumber, plan.Stops[1].Order.OrderNumber)
	require.Len(t, plan.Stops[1].Notes, 1, "pickup notes are not shown on delivery stops")
	assert.Equal(t, "Fragile", plan.Stops[1].Notes[0].Text)

	require.Len(t, plan.LoadingList, 2)
	assert.Equal(t, "Table", plan.LoadingList[0].Type)
	assert.Equal(t, "Jan de Vries", plan.LoadingList[0].CustomerName)

	_, err = transport.DayPlan(ctx, "tomorrow")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestTransportService_DayPlanDefaultsToToday(t *testing.T) {
	env := newTestEnv(t, 100)
	ctx := context.Background()
	transport := NewTransportService(env.db, env.orders)

	_, err := env.orders.Create(ctx, orderInput("Chair"))
	require.NoError(t, err)

	plan, err := transport.DayPlan(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", plan.Date)
	assert.Len(t, plan.Stops, 1)
}
