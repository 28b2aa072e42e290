package controllers

import (
	"net/http"
	"strings"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/models"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/services"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/workflow"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OrderController serves order intake, editing and the furniture workflow
type OrderController struct {
	Orders *services.OrderService
	Log    *zap.Logger
}

// UpdateDepartmentRequest represents the request body for moving an item to a department
type UpdateDepartmentRequest struct {
	Department string `json:"department" binding:"required"`
}

// ReorderRequest represents the request body for a drag-and-drop reorder
type ReorderRequest struct {
	TargetIndex *int `json:"target_index" binding:"required"`
}

// MoveRequest represents the request body for a single step up or down
type MoveRequest struct {
	Direction string `json:"direction" binding:"required"`
}

// CreateOrder handles POST /api/v1/orders - creates an order with its furniture
func (h *OrderController) CreateOrder(c *gin.Context) {
	var req services.CreateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.Orders.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, h.Log, err, "Failed to create order")
		return
	}

	respondOK(c, http.StatusCreated, order)
}

// ListOrders handles GET /api/v1/orders - lists orders, optionally filtered by
// ?search= and ?status=
func (h *OrderController) ListOrders(c *gin.Context) {
	filter := services.ListOrdersFilter{Search: c.Query("search")}

	if status := strings.TrimSpace(c.Query("status")); status != "" {
		parsed := models.OrderStatus(status)
		if !parsed.Valid() {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid status filter. Must be 'Active' or 'Completed'")
			return
		}
		filter.Status = parsed
	}

	orders, err := h.Orders.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, h.Log, err, "Failed to fetch orders")
		return
	}

	respondOK(c, http.StatusOK, orders)
}

// GetOrder handles GET /api/v1/orders/:number
func (h *OrderController) GetOrder(c *gin.Context) {
	order, err := h.Orders.Get(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondServiceError(c, h.Log, err, "Failed to fetch order")
		return
	}

	respondOK(c, http.StatusOK, order)
}

// UpdateOrder handles PATCH /api/v1/orders/:number - edits order and furniture details
func (h *OrderController) UpdateOrder(c *gin.Context) {
	var req services.UpdateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.Orders.UpdateDetails(c.Request.Context(), c.Param("number"), req)
	if err != nil {
		respondServiceError(c, h.Log, err, "Failed to update order")
		return
	}

	respondOK(c, http.StatusOK, order)
}

// UpdateDepartment handles PUT /api/v1/orders/:number/furniture/:item/department
func (h *OrderController) UpdateDepartment(c *gin.Context) {
	var req UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	change, err := h.Orders.UpdateDepartment(c.Request.Context(), c.Param("number"), c.Param("item"), req.Department)
	if err != nil {
		respondServiceError(c, h.Log, err, "Failed to update department")
		return
	}

	respondOK(c, http.StatusOK, change)
}

// ReorderItem handles PUT /api/v1/orders/:number/furniture/:item/position
func (h *OrderController) ReorderItem(c *gin.Context) {
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	change, err := h.Orders.Reorder(c.Request.Context(), c.Param("number"), c.Param("item"), *req.TargetIndex)
	if err != nil {
		respondServiceError(c, h.Log, err, "Failed to reorder item")
		return
	}

	respondOK(c, http.StatusOK, change)
}

// MoveItem handles POST /api/v1/orders/:number/furniture/:item/move
func (h *OrderController) MoveItem(c *gin.Context) {
	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	dir := workflow.Direction(strings.ToLower(req.Direction))
	if !dir.Valid() {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Direction must be 'up' or 'down'")
		return
	}

	change, err := h.Orders.Move(c.Request.Context(), c.Param("number"), c.Param("item"), dir)
	if err != nil {
		respondServiceError(c, h.Log, err, "Failed to move item")
		return
	}

	respondOK(c, http.StatusOK, change)
}

// UploadFurnitureImage handles POST /api/v1/orders/:number/furniture/:item/image
// (multipart form, field "image")
func (h *OrderController) UploadFurnitureImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Image file is required")
		return
	}

	item, err := h.Orders.ReplaceImage(c.Request.Context(), c.Param("number"), c.Param("item"), fileHeader)
	if err != nil {
		respondServiceError(c, h.Log, err, "Failed to upload image")
		return
	}

	respondOK(c, http.StatusOK, item)
}

// ScheduleDelivery handles PUT /api/v1/orders/:number/delivery
func (h *OrderController) ScheduleDelivery(c *gin.Context) {
	var req services.ScheduleDeliveryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.Orders.ScheduleDelivery(c.Request.Context(), c.Param("number"), req)
	if err != nil {
		respondServiceError(c, h.Log, err, "Failed to schedule delivery")
		return
	}

	respondOK(c, http.StatusOK, order)
}
