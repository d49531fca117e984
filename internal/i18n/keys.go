// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess          = "success"
	KeyError            = "error"
	KeyInvalidRequest   = "common.invalid_request"
	KeyInvalidID        = "common.invalid_id"
	KeyValidationFailed = "common.validation_failed"
	KeyForbidden        = "common.forbidden"
	KeyInternalError    = "common.internal_error"
	KeyRateLimited      = "common.rate_limited"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthAdminRequired      = "auth.admin_required"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthRegisterSuccess    = "auth.register_success"

	// Users
	KeyUserProfileUpdated = "user.profile_updated"
	KeyUserNotFound       = "user.not_found"

	// Artworks
	KeyArtworkCreated          = "artwork.created"
	KeyArtworkUpdated          = "artwork.updated"
	KeyArtworkDeleted          = "artwork.deleted"
	KeyArtworkNotFound         = "artwork.not_found"
	KeyArtworkApproved         = "artwork.approved"
	KeyArtworkDeclined         = "artwork.declined"
	KeyArtworkAlreadyReviewed  = "artwork.already_reviewed"
	KeyArtworkHasActiveRental  = "artwork.has_active_rental"
	KeyArtworkHasRentalHistory = "artwork.has_rental_history"
	KeyArtworkImageUploaded    = "artwork.image_uploaded"
	KeyArtworkArtistNotFound   = "artwork.artist_not_found"
	KeyArtworkNotOwnedByCaller = "artwork.not_owned"

	// Mediums
	KeyMediumCreated  = "medium.created"
	KeyMediumDeleted  = "medium.deleted"
	KeyMediumNotFound = "medium.not_found"
	KeyMediumExists   = "medium.exists"

	// Rentals
	KeyRentalRequested         = "rental.requested"
	KeyRentalApproved          = "rental.approved"
	KeyRentalRejected          = "rental.rejected"
	KeyRentalFinalized         = "rental.finalized"
	KeyRentalNotFound          = "rental.not_found"
	KeyRentalUnavailable       = "rental.artwork_unavailable"
	KeyRentalOnlyRequested     = "rental.only_requested"
	KeyRentalOnlyRequestedRej  = "rental.only_requested_reject"
	KeyRentalOnlyApproved      = "rental.only_approved"
	KeyRentalApproverNotFound  = "rental.approver_not_found"
	KeyRentalNotOwnedByCaller  = "rental.not_owned"
	KeyRentalPaymentNotAllowed = "rental.payment_not_allowed"
	KeyRentalNoRate            = "rental.no_rate"

	// Files
	KeyFileTooLarge           = "file.too_large"
	KeyFileInvalidType        = "file.invalid_type"
	KeyFileStorageUnavailable = "file.storage_unavailable"
)
