package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/breezedunord/tyms-backend/internal/models"
)

// BookingRepository defines the interface for website booking storage
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	List(ctx context.Context, offset, limit int) ([]*models.Booking, error)
}

// bookingRepository implements the BookingRepository interface
type bookingRepository struct {
	*BaseRepository
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db *sqlx.DB) BookingRepository {
	return &bookingRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create inserts a new booking
func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (
			id, unit_type, name, email, phone, guests,
			start_date, end_date, special_requests, total_cost, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.GetDB().ExecContext(
		ctx,
		query,
		booking.ID,
		booking.UnitType,
		booking.Name,
		booking.Email,
		booking.Phone,
		booking.Guests,
		booking.StartDate,
		booking.EndDate,
		booking.SpecialRequests,
		booking.TotalCost,
		booking.CreatedAt,
	)

	return err
}

// List retrieves a paginated list of bookings, newest first
func (r *bookingRepository) List(ctx context.Context, offset, limit int) ([]*models.Booking, error) {
	bookings := []*models.Booking{}
	query := `
		SELECT * FROM bookings
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	err := r.GetDB().SelectContext(ctx, &bookings, query, limit, offset)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}
