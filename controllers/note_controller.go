package controllers

import (
	"net/http"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/middleware"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NoteController serves the notes attached to an order. Note text is
// returned with PureJSON so it reaches the client unescaped.
type NoteController struct {
	Notes *services.NoteService
	Log   *zap.Logger
}

// CreateNote handles POST /api/v1/orders/:number/notes - adds a note on an order
func (h *NoteController) CreateNote(c *gin.Context) {
	profile, err := middleware.CurrentProfile(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	var req services.NoteInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	note, err := h.Notes.Create(c.Request.Context(), profile, c.Param("number"), req)
	if err != nil {
		respondServiceError(c, h.Log, err, "Failed to create note")
		return
	}

	c.PureJSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    note,
	})
}

// ListNotes handles GET /api/v1/orders/:number/notes - lists notes, oldest first
func (h *NoteController) ListNotes(c *gin.Context) {
	notes, err := h.Notes.List(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondServiceError(c, h.Log, err, "Failed to fetch notes")
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data":    notes,
	})
}

// DeleteNote handles DELETE /api/v1/orders/:number/notes/:id
func (h *NoteController) DeleteNote(c *gin.Context) {
	profile, err := middleware.CurrentProfile(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	id, ok := parseID(c, "id", "Invalid note ID")
	if !ok {
		return
	}

	if err := h.Notes.Delete(c.Request.Context(), profile, c.Param("number"), id); err != nil {
		respondServiceError(c, h.Log, err, "Failed to delete note")
		return
	}

	c.Status(http.StatusNoContent)
}
