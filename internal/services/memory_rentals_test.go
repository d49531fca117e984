package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/javajoker/art-rental-backend/internal/models"
	"github.com/javajoker/art-rental-backend/internal/repositories"
)

// memoryRentals is an in-memory RentalRepository with the same
// atomicity guarantees as the database-backed one.
type memoryRentals struct {
	mu       sync.Mutex
	nextID   uint
	rows     map[uuid.UUID]*models.Rental
	artworks map[uint]*models.Artwork
	users    map[uint]*models.User
}

func newMemoryRentals() *memoryRentals {
	return &memoryRentals{
		rows:     make(map[uuid.UUID]*models.Rental),
		artworks: make(map[uint]*models.Artwork),
		users:    make(map[uint]*models.User),
	}
}

func (m *memoryRentals) addArtwork(a *models.Artwork) { m.artworks[a.ID] = a }
func (m *memoryRentals) addUser(u *models.User)       { m.users[u.ID] = u }

func (m *memoryRentals) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *memoryRentals) status(id uuid.UUID) models.RentalStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[id].Status
}

func (m *memoryRentals) availableLocked(artworkID uint) bool {
	for _, r := range m.rows {
		if r.ArtworkID == artworkID && r.Status.IsActive() {
			return false
		}
	}
	return true
}

func (m *memoryRentals) IsArtworkAvailable(ctx context.Context, artworkID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.availableLocked(artworkID), nil
}

func (m *memoryRentals) insertLocked(rental *models.Rental) {
	m.nextID++
	rental.ID = m.nextID
	if rental.UUID == uuid.Nil {
		rental.UUID = uuid.New()
	}
	rental.CreatedAt = time.Now()
	rental.UpdatedAt = rental.CreatedAt
	stored := *rental
	m.rows[rental.UUID] = &stored
}

func (m *memoryRentals) Create(ctx context.Context, rental *models.Rental) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertLocked(rental)
	return nil
}

func (m *memoryRentals) CreateIfAvailable(ctx context.Context, rental *models.Rental) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.artworks[rental.ArtworkID]; !ok {
		return repositories.ErrNotFound
	}
	if !m.availableLocked(rental.ArtworkID) {
		return repositories.ErrArtworkUnavailable
	}
	m.insertLocked(rental)
	return nil
}

func applyRentalFields(r *models.Rental, fields map[string]interface{}) {
	for key, value := range fields {
		switch key {
		case "status":
			r.Status = value.(models.RentalStatus)
		case "approved_by":
			id := value.(uint)
			r.ApprovedBy = &id
		case "approved_at":
			at := value.(time.Time)
			r.ApprovedAt = &at
		case "finalized_by":
			id := value.(uint)
			r.FinalizedBy = &id
		case "finalized_at":
			at := value.(time.Time)
			r.FinalizedAt = &at
		case "payment_reference":
			r.PaymentReference = value.(string)
		}
	}
	r.UpdatedAt = time.Now()
}

func (m *memoryRentals) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*models.Rental, error) {
	m.mu.Lock()
	r, ok := m.rows[id]
	if !ok {
		m.mu.Unlock()
		return nil, repositories.ErrNotFound
	}
	applyRentalFields(r, fields)
	m.mu.Unlock()
	return m.FindByUUID(ctx, id)
}

func (m *memoryRentals) Transition(ctx context.Context, id uuid.UUID, from models.RentalStatus, fields map[string]interface{}) (*models.Rental, error) {
	m.mu.Lock()
	r, ok := m.rows[id]
	if !ok || r.Status != from {
		m.mu.Unlock()
		return nil, repositories.ErrStaleTransition
	}
	applyRentalFields(r, fields)
	m.mu.Unlock()
	return m.FindByUUID(ctx, id)
}

func (m *memoryRentals) joined(r *models.Rental) models.Rental {
	out := *r
	out.Artwork = m.artworks[r.ArtworkID]
	out.User = m.users[r.UserID]
	if r.ApprovedBy != nil {
		out.Approver = m.users[*r.ApprovedBy]
	}
	if r.FinalizedBy != nil {
		out.Finalizer = m.users[*r.FinalizedBy]
	}
	return out
}

func (m *memoryRentals) FindByUUID(ctx context.Context, id uuid.UUID) (*models.Rental, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := m.joined(r)
	return &out, nil
}

func (m *memoryRentals) filter(keep func(*models.Rental) bool) []models.Rental {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Rental{}
	for _, r := range m.rows {
		if keep(r) {
			out = append(out, m.joined(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memoryRentals) FindAll(ctx context.Context, filter repositories.RentalFilter) ([]models.Rental, int64, error) {
	out := m.filter(func(r *models.Rental) bool {
		return filter.Status == nil || r.Status == *filter.Status
	})
	return out, int64(len(out)), nil
}

func (m *memoryRentals) FindByUserID(ctx context.Context, userID uint) ([]models.Rental, error) {
	return m.filter(func(r *models.Rental) bool { return r.UserID == userID }), nil
}

func (m *memoryRentals) FindPendingRequests(ctx context.Context) ([]models.Rental, error) {
	return m.filter(func(r *models.Rental) bool { return r.Status == models.RentalStatusRequested }), nil
}

func (m *memoryRentals) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}
