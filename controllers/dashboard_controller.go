package controllers

import (
	"net/http"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/middleware"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/policy"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/services"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/workflow"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DashboardController serves the department board
type DashboardController struct {
	Orders *services.OrderService
	Policy *policy.Policy
	Log    *zap.Logger
}

// GetBoard handles GET /api/v1/dashboard - returns the columns the caller may see
func (h *DashboardController) GetBoard(c *gin.Context) {
	profile, err := middleware.CurrentProfile(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	board, err := h.Orders.Board(c.Request.Context(), h.Policy.VisibleDepartments(profile))
	if err != nil {
		respondServiceError(c, h.Log, err, "Failed to load dashboard")
		return
	}

	respondOK(c, http.StatusOK, board)
}

// ListDepartments handles GET /api/v1/departments - the ordered stage legend
func (h *DashboardController) ListDepartments(c *gin.Context) {
	respondOK(c, http.StatusOK, workflow.Legend())
}
