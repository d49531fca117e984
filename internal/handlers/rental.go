// internal/handlers/rental.go
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

type RentalHandler struct {
	rentalService  *services.RentalService
	paymentService *services.PaymentService
}

func NewRentalHandler(rentalService *services.RentalService, paymentService *services.PaymentService) *RentalHandler {
	return &RentalHandler{
		rentalService:  rentalService,
		paymentService: paymentService,
	}
}

// GET /rentals (admin) ?status=
func (h *RentalHandler) List(c *gin.Context) {
	params := services.RentalSearchParams{PaginationParams: utils.GetPaginationParams(c)}
	if status := c.Query("status"); status != "" {
		s := models.RentalStatus(status)
		params.Status = &s
	}

	rentals, total, err := h.rentalService.GetAllRentals(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(rentals, total, params.PaginationParams))
}

// POST /rentals
func (h *RentalHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateRentalRequest
	if !bindJSON(c, &req) {
		return
	}

	rental, err := h.rentalService.CreateRentalRequest(c.Request.Context(), req.ArtworkUUID, userID, req.Address, req.PhoneNumber)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, message(c, i18n.KeyRentalRequested), rental)
}

// GET /rentals/my-rentals
func (h *RentalHandler) MyRentals(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	rentals, err := h.rentalService.GetUserRentals(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, rentals)
}

// GET /rentals/pending (admin)
func (h *RentalHandler) Pending(c *gin.Context) {
	rentals, err := h.rentalService.GetPendingRequests(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, rentals)
}

// GET /rentals/:uuid
func (h *RentalHandler) Get(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	rentalID, ok := uuidParam(c, "uuid")
	if !ok {
		return
	}

	rental, err := h.rentalService.GetRentalForActor(c.Request.Context(), rentalID, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, rental)
}

// GET /rentals/check-availability/:uuid
func (h *RentalHandler) CheckAvailability(c *gin.Context) {
	artworkID, ok := uuidParam(c, "uuid")
	if !ok {
		return
	}

	available, err := h.rentalService.CheckArtworkAvailability(c.Request.Context(), artworkID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"artwork_uuid": artworkID,
		"available":    available,
	})
}

// PUT /rentals/:uuid/approve (admin)
func (h *RentalHandler) Approve(c *gin.Context) {
	h.transition(c, h.rentalService.ApproveRental, i18n.KeyRentalApproved)
}

// PUT /rentals/:uuid/reject (admin)
func (h *RentalHandler) Reject(c *gin.Context) {
	h.transition(c, h.rentalService.RejectRental, i18n.KeyRentalRejected)
}

// PUT /rentals/:uuid/finalize (admin)
func (h *RentalHandler) Finalize(c *gin.Context) {
	h.transition(c, h.rentalService.FinalizeRental, i18n.KeyRentalFinalized)
}

// POST /rentals/:uuid/payment-intent
func (h *RentalHandler) CreatePaymentIntent(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	rentalID, ok := uuidParam(c, "uuid")
	if !ok {
		return
	}

	response, err := h.paymentService.CreateRentalPaymentIntent(c.Request.Context(), rentalID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, response)
}

type transitionFunc func(ctx context.Context, rentalID, approverID uuid.UUID) (*models.Rental, error)

func (h *RentalHandler) transition(c *gin.Context, apply transitionFunc, successKey string) {
	approverID, ok := currentUserID(c)
	if !ok {
		return
	}
	rentalID, ok := uuidParam(c, "uuid")
	if !ok {
		return
	}

	rental, err := apply(c.Request.Context(), rentalID, approverID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponseWithMessage(c, message(c, successKey), rental)
}
