// internal/handlers/medium.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/art-rental-backend/internal/i18n"
	"github.com/javajoker/art-rental-backend/internal/services"
	"github.com/javajoker/art-rental-backend/internal/utils"
)

type MediumHandler struct {
	mediumService *services.MediumService
}

func NewMediumHandler(mediumService *services.MediumService) *MediumHandler {
	return &MediumHandler{mediumService: mediumService}
}

// GET /mediums
func (h *MediumHandler) List(c *gin.Context) {
	mediums, err := h.mediumService.ListMediums(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, mediums)
}

// POST /mediums (admin)
func (h *MediumHandler) Create(c *gin.Context) {
	var req services.CreateMediumRequest
	if !bindJSON(c, &req) {
		return
	}

	medium, err := h.mediumService.CreateMedium(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, message(c, i18n.KeyMediumCreated), medium)
}

// DELETE /mediums/:uuid (admin)
func (h *MediumHandler) Delete(c *gin.Context) {
	mediumID, ok := uuidParam(c, "uuid")
	if !ok {
		return
	}

	if err := h.mediumService.DeleteMedium(c.Request.Context(), mediumID); err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponseWithMessage(c, message(c, i18n.KeyMediumDeleted), nil)
}
