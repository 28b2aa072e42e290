package controllers

import (
	"net/http"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InvoiceController serves invoices for ready orders
type InvoiceController struct {
	Invoices *services.InvoiceService
	Log      *zap.Logger
}

// GetInvoice handles GET /api/v1/orders/:number/invoice - a preview that changes nothing
func (h *InvoiceController) GetInvoice(c *gin.Context) {
	invoice, err := h.Invoices.Get(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondServiceError(c, h.Log, err, "Failed to build invoice")
		return
	}

	respondOK(c, http.StatusOK, invoice)
}

// FinalizeInvoice handles POST /api/v1/orders/:number/invoice - issues the
// invoice and completes the order. Repeating the call is harmless.
func (h *InvoiceController) FinalizeInvoice(c *gin.Context) {
	invoice, err := h.Invoices.Finalize(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondServiceError(c, h.Log, err, "Failed to finalize invoice")
		return
	}

	respondOK(c, http.StatusOK, invoice)
}
