package models

import (
	"time"

	"github.com/google/uuid"
)

// Booking represents a website booking stored locally. Unlike invoices,
// bookings never touch the Tyms API.
type Booking struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	UnitType        string     `json:"unit_type" db:"unit_type"`
	Name            string     `json:"name" db:"name"`
	Email           string     `json:"email" db:"email"`
	Phone           string     `json:"phone" db:"phone"`
	Guests          int        `json:"guests" db:"guests"`
	StartDate       string     `json:"start_date" db:"start_date"`
	EndDate         string     `json:"end_date" db:"end_date"`
	SpecialRequests *string    `json:"special_requests,omitempty" db:"special_requests"`
	TotalCost       float64    `json:"total_cost" db:"total_cost"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}
