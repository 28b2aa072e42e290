package controllers

import (
	"net/http"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TransportController serves the transport planner
type TransportController struct {
	Transport *services.TransportService
	Log       *zap.Logger
}

// ListReady handles GET /api/v1/transport/ready - orders waiting for delivery
func (h *TransportController) ListReady(c *gin.Context) {
	orders, err := h.Transport.ReadyForDelivery(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.Log, err, "Failed to fetch orders ready for delivery")
		return
	}

	respondOK(c, http.StatusOK, orders)
}

// GetDayPlan handles GET /api/v1/transport/day?date=YYYY-MM-DD
func (h *TransportController) GetDayPlan(c *gin.Context) {
	plan, err := h.Transport.DayPlan(c.Request.Context(), c.Query("date"))
	if err != nil {
		respondServiceError(c, h.Log, err, "Failed to build day plan")
		return
	}

	respondOK(c, http.StatusOK, plan)
}
