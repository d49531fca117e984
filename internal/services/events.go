// internal/services/events.go
package services

// Domain events published on the bus after a write has been committed.
// Rental events carry *models.Rental, artwork events *models.Artwork.
const (
	EventRentalRequested = "rental.requested"
	EventRentalApproved  = "rental.approved"
	EventRentalRejected  = "rental.rejected"
	EventRentalFinalized = "rental.finalized"
	EventArtworkApproved = "artwork.approved"
	EventArtworkDeclined = "artwork.declined"
)
