package controllers

import (
	"net/http"
	"strconv"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OrganizationController serves organizations and their supervisors
type OrganizationController struct {
	Organizations *services.OrganizationService
	Supervisors   *services.SupervisorService
	Log           *zap.Logger
}

// parseID reads a numeric path parameter, writing a 400 when it is not one
func parseID(c *gin.Context, name, message string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", message)
		return 0, false
	}
	return uint(id), true
}

// ListOrganizations handles GET /api/v1/organizations
func (h *OrganizationController) ListOrganizations(c *gin.Context) {
	orgs, err := h.Organizations.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.Log, err, "Failed to fetch organizations")
		return
	}

	respondOK(c, http.StatusOK, orgs)
}

// GetOrganization handles GET /api/v1/organizations/:id
func (h *OrganizationController) GetOrganization(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid organization ID")
	if !ok {
		return
	}

	org, err := h.Organizations.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.Log, err, "Failed to fetch organization")
		return
	}

	respondOK(c, http.StatusOK, org)
}

// CreateOrganization handles POST /api/v1/organizations
func (h *OrganizationController) CreateOrganization(c *gin.Context) {
	var req services.OrganizationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	org, err := h.Organizations.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, h.Log, err, "Failed to create organization")
		return
	}

	respondOK(c, http.StatusCreated, org)
}

// UpdateOrganization handles PATCH /api/v1/organizations/:id
func (h *OrganizationController) UpdateOrganization(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid organization ID")
	if !ok {
		return
	}

	var req services.UpdateOrganizationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	org, err := h.Organizations.Update(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, h.Log, err, "Failed to update organization")
		return
	}

	respondOK(c, http.StatusOK, org)
}

// ListSupervisors handles GET /api/v1/supervisors?organization_id=
func (h *OrganizationController) ListSupervisors(c *gin.Context) {
	var orgID uint
	if raw := c.Query("organization_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid organization_id filter")
			return
		}
		orgID = uint(id)
	}

	sups, err := h.Supervisors.List(c.Request.Context(), orgID)
	if err != nil {
		respondServiceError(c, h.Log, err, "Failed to fetch supervisors")
		return
	}

	respondOK(c, http.StatusOK, sups)
}

// CreateSupervisor handles POST /api/v1/supervisors
func (h *OrganizationController) CreateSupervisor(c *gin.Context) {
	var req services.SupervisorInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	sup, err := h.Supervisors.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, h.Log, err, "Failed to create supervisor")
		return
	}

	respondOK(c, http.StatusCreated, sup)
}

// UpdateSupervisor handles PUT /api/v1/supervisors/:id
func (h *OrganizationController) UpdateSupervisor(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid supervisor ID")
	if !ok {
		return
	}

	var req services.SupervisorInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	sup, err := h.Supervisors.Update(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, h.Log, err, "Failed to update supervisor")
		return
	}

	respondOK(c, http.StatusOK, sup)
}

// DeleteSupervisor handles DELETE /api/v1/supervisors/:id
func (h *OrganizationController) DeleteSupervisor(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid supervisor ID")
	if !ok {
		return
	}

	if err := h.Supervisors.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, h.Log, err, "Failed to delete supervisor")
		return
	}

	c.Status(http.StatusNoContent)
}
