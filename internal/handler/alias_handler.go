package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"labmark/internal/service"
)

// AliasHandler handles marker alias override endpoints.
type AliasHandler struct {
	aliasService service.AliasService
}

// NewAliasHandler creates a new AliasHandler.
func NewAliasHandler(aliasService service.AliasService) *AliasHandler {
	return &AliasHandler{aliasService: aliasService}
}

// List handles GET /api/v1/aliases
func (h *AliasHandler) List(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	overrides, err := h.aliasService.List(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, overrides)
}

// Put handles PUT /api/v1/aliases
func (h *AliasHandler) Put(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.AliasOverrideInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	o, err := h.aliasService.Put(c.Request.Context(), userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, o)
}

// Delete handles DELETE /api/v1/aliases/:id
func (h *AliasHandler) Delete(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	overrideID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid override id")
		return
	}

	if err := h.aliasService.Delete(c.Request.Context(), userID, overrideID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "override deleted"})
}
