package controllers

import (
	"net/http"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CustomerController serves the customer overview derived from orders
type CustomerController struct {
	Customers *services.CustomerService
	Log       *zap.Logger
}

// ListCustomers handles GET /api/v1/customers?search=
func (h *CustomerController) ListCustomers(c *gin.Context) {
	customers, err := h.Customers.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondServiceError(c, h.Log, err, "Failed to fetch customers")
		return
	}

	respondOK(c, http.StatusOK, customers)
}

// GetCustomer handles GET /api/v1/customers/:key
func (h *CustomerController) GetCustomer(c *gin.Context) {
	customer, err := h.Customers.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondServiceError(c, h.Log, err, "Failed to fetch customer")
		return
	}

	respondOK(c, http.StatusOK, customer)
}
