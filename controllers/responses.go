package controllers

import (
	"errors"
	"net/http"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/services"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/utils"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/workflow"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondBindError reports a request body that could not be bound
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}

// errorMapping maps a sentinel error to its HTTP status and error code
type errorMapping struct {
	err     error
	status  int
	code    string
	message string
}

var errorMappings = []errorMapping{
	{services.ErrOrderNotFound, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found"},
	{workflow.ErrItemNotFound, http.StatusNotFound, "ITEM_NOT_FOUND", "Furniture item not found"},
	{services.ErrOrderCompleted, http.StatusConflict, "ORDER_COMPLETED", "Order is already completed"},
	{workflow.ErrInvalidTargetIndex, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid target position"},
	{workflow.ErrUnknownDepartment, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown department"},
	{services.ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND", "User not found"},
	{services.ErrUserExists, http.StatusConflict, "USER_EXISTS", "A user with this ID or email already exists"},
	{services.ErrSelfEdit, http.StatusForbidden, "SELF_EDIT_FORBIDDEN", "Je kunt je eigen rol of status niet wijzigen"},
	{services.ErrForbiddenField, http.StatusForbidden, "FORBIDDEN", "Geen toegang"},
	{services.ErrOrganizationNotFound, http.StatusNotFound, "ORGANIZATION_NOT_FOUND", "Organization not found"},
	{services.ErrSupervisorNotFound, http.StatusNotFound, "SUPERVISOR_NOT_FOUND", "Supervisor not found"},
	{services.ErrSupervisorMismatch, http.StatusBadRequest, "SUPERVISOR_MISMATCH", "Supervisor does not belong to the organization"},
	{services.ErrCustomerNotFound, http.StatusNotFound, "CUSTOMER_NOT_FOUND", "Customer not found"},
	{services.ErrNoteNotFound, http.StatusNotFound, "NOTE_NOT_FOUND", "Note not found"},
	{services.ErrImageNotFound, http.StatusNotFound, "FILE_NOT_FOUND", "Image not found"},
}

// respondServiceError writes the JSON error for err. Unknown errors are
// logged and reported as DATABASE_ERROR with fallback as message.
func respondServiceError(c *gin.Context, log *zap.Logger, err error, fallback string) {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": validationErr.Error(),
				"details": gin.H{"field": validationErr.Field, "message": validationErr.Message},
			},
		})
		return
	}

	var uploadErr *utils.FileUploadError
	if errors.As(err, &uploadErr) {
		respondError(c, http.StatusBadRequest, uploadErr.Code, uploadErr.Message)
		return
	}

	var authErr *services.Auth0Error
	if errors.As(err, &authErr) {
		log.Warn("auth0 request failed", zap.Error(err))
		respondError(c, http.StatusUnauthorized, "AUTH0_ERROR", authErr.Message())
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			c.JSON(m.status, gin.H{
				"success": false,
				"error": gin.H{
					"code":    m.code,
					"message": m.message,
					"details": err.Error(),
				},
			})
			return
		}
	}

	log.Error(fallback, zap.String("path", c.FullPath()), zap.Error(err))
	respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", fallback)
}
