// internal/handlers/artwork.go
package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/javajoker/art-rental-backend/internal/i18n"
	"github.com/javajoker/art-rental-backend/internal/models"
	"github.com/javajoker/art-rental-backend/internal/services"
	"github.com/javajoker/art-rental-backend/internal/utils"
)

type ArtworkHandler struct {
	artworkService *services.ArtworkService
}

func NewArtworkHandler(artworkService *services.ArtworkService) *ArtworkHandler {
	return &ArtworkHandler{artworkService: artworkService}
}

// GET /artworks
func (h *ArtworkHandler) List(c *gin.Context) {
	params := services.ArtworkSearchParams{
		Status:           c.Query("status"),
		Medium:           c.Query("medium"),
		PaginationParams: utils.GetPaginationParams(c),
	}

	artworks, total, err := h.artworkService.SearchArtworks(c.Request.Context(), params, optionalActor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(artworks, total, params.PaginationParams))
}

// GET /artworks/:uuid
func (h *ArtworkHandler) Get(c *gin.Context) {
	artworkID, ok := uuidParam(c, "uuid")
	if !ok {
		return
	}

	artwork, err := h.artworkService.GetArtwork(c.Request.Context(), artworkID, optionalActor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, artwork)
}

// POST /artworks
func (h *ArtworkHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateArtworkRequest
	if !bindJSON(c, &req) {
		return
	}

	artwork, err := h.artworkService.CreateArtwork(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, message(c, i18n.KeyArtworkCreated), artwork)
}

// PUT /artworks/:uuid
func (h *ArtworkHandler) Update(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	artworkID, ok := uuidParam(c, "uuid")
	if !ok {
		return
	}

	var req services.UpdateArtworkRequest
	if !bindJSON(c, &req) {
		return
	}

	artwork, err := h.artworkService.UpdateArtwork(c.Request.Context(), artworkID, actor, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponseWithMessage(c, message(c, i18n.KeyArtworkUpdated), artwork)
}

// DELETE /artworks/:uuid
func (h *ArtworkHandler) Delete(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	artworkID, ok := uuidParam(c, "uuid")
	if !ok {
		return
	}

	if err := h.artworkService.DeleteArtwork(c.Request.Context(), artworkID, actor); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponseWithMessage(c, message(c, i18n.KeyArtworkDeleted), nil)
}

// POST /artworks/:uuid/images (multipart field "image")
func (h *ArtworkHandler) UploadImage(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	artworkID, ok := uuidParam(c, "uuid")
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, message(c, i18n.KeyFileInvalidType), err.Error())
		return
	}
	defer file.Close()

	image, err := h.artworkService.UploadArtworkImage(c.Request.Context(), artworkID, actor, file, header)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, message(c, i18n.KeyArtworkImageUploaded), image)
}

// GET /artworks/pending (admin)
func (h *ArtworkHandler) ListPending(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	artworks, total, err := h.artworkService.GetPendingArtworks(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(artworks, total, params))
}

// PUT /artworks/:uuid/approve (admin)
func (h *ArtworkHandler) Approve(c *gin.Context) {
	h.review(c, h.artworkService.ApproveArtwork, i18n.KeyArtworkApproved)
}

// PUT /artworks/:uuid/decline (admin)
func (h *ArtworkHandler) Decline(c *gin.Context) {
	h.review(c, h.artworkService.DeclineArtwork, i18n.KeyArtworkDeclined)
}

type reviewFunc func(ctx context.Context, artworkID, reviewerID uuid.UUID, notes string) (*models.Artwork, error)

func (h *ArtworkHandler) review(c *gin.Context, review reviewFunc, successKey string) {
	reviewerID, ok := currentUserID(c)
	if !ok {
		return
	}
	artworkID, ok := uuidParam(c, "uuid")
	if !ok {
		return
	}

	// The body is optional
	var req services.ReviewArtworkRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	artwork, err := review(c.Request.Context(), artworkID, reviewerID, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponseWithMessage(c, message(c, successKey), artwork)
}
