package controllers

import (
	"net/http"
	"testing"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetBoard(t *testing.T) {
	app := newTestApp(t)
	h := &DashboardController{Orders: app.orders, Policy: app.policy, Log: zap.NewNop()}

	app.createUser(t, "auth0|lead", models.RoleTeamLead)
	sprayer := app.createUser(t, "auth0|sprayer", models.RoleStaff)
	require.NoError(t, app.db.Model(sprayer).Update("department", models.DepartmentSpraying).Error)
	app.createUser(t, "auth0|floater", models.RoleStaff)

	order := app.createOrder(t, "Chair", "Table")
	_, err := app.orders.UpdateDepartment(t.Context(), order.OrderNumber, order.Furniture[1].ID, string(models.DepartmentSpraying))
	require.NoError(t, err)

	tests := []struct {
		name    string
		uid     string
		columns int
		cards   map[string]int
	}{
		{"Team lead sees every department", "auth0|lead", 9, map[string]int{"Pickup": 1, "Spraying": 1}},
		{"Staff sees own department", "auth0|sprayer", 1, map[string]int{"Spraying": 1}},
		{"Staff without department sees nothing", "auth0|floater", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.GET("/dashboard", app.as(tt.uid, h.GetBoard)...)

			w := doRequest(router, http.MethodGet, "/dashboard", nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			columns := responseData(t, w)["columns"].([]interface{})
			assert.Len(t, columns, tt.columns)
			for _, c := range columns {
				col := c.(map[string]interface{})
				name := col["department"].(string)
				assert.Len(t, col["cards"], tt.cards[name], name)
			}
		})
	}
}

func TestListDepartments(t *testing.T) {
	h := &DashboardController{Log: zap.NewNop()}
	router := setupTestRouter()
	router.GET("/departments", h.ListDepartments)

	w := doRequest(router, http.MethodGet, "/departments", nil)
	require.Equal(t, http.StatusOK, w.Code)

	departments := responseList(t, w)
	require.Len(t, departments, 9)
	assert.Equal(t, "Pickup", departments[0].(map[string]interface{})["name"])
	assert.Equal(t, "Delivery", departments[8].(map[string]interface{})["name"])
}
