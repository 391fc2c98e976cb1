package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/breezedunord/tyms-backend/internal/database/repository"
	"github.com/breezedunord/tyms-backend/internal/models"
	"github.com/breezedunord/tyms-backend/internal/tyms"
)

var ErrNoItems = errors.New("booking has no items")

// BookingService handles shop bookings (which become Tyms invoices) and
// plain website bookings (stored locally only)
type BookingService interface {
	CreateShopBooking(ctx context.Context, session *Session, req tyms.InvoiceRequest) (json.RawMessage, error)
	CreateWebBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	ListWebBookings(ctx context.Context, offset, limit int) ([]*models.Booking, error)
}

type bookingService struct {
	invoices    InvoiceService
	bookingRepo repository.BookingRepository
}

// NewBookingService creates a new BookingService
func NewBookingService(invoices InvoiceService, bookingRepo repository.BookingRepository) BookingService {
	return &bookingService{
		invoices:    invoices,
		bookingRepo: bookingRepo,
	}
}

// CreateShopBooking recomputes the invoice amount from its line items,
// creates the invoice in Tyms, then fetches the generated PDF and emails it
// to the customer. The amount sent by the storefront is never trusted.
func (s *bookingService) CreateShopBooking(ctx context.Context, session *Session, req tyms.InvoiceRequest) (json.RawMessage, error) {
	if len(req.Items) == 0 {
		return nil, ErrNoItems
	}

	var amount float64
	for _, item := range req.Items {
		amount += item.Total()
	}
	req.Amount = amount

	result, err := s.invoices.CreateInvoice(ctx, session, req)
	if err != nil {
		return nil, err
	}

	invoiceURL := invoiceURLFrom(result)
	if invoiceURL == "" {
		log.Printf("BookingService.CreateShopBooking: no invoice_url in response, skipping mail-out")
		return result, nil
	}

	if req.Customer == nil || req.Customer.Email == "" {
		log.Printf("BookingService.CreateShopBooking: no customer email, skipping mail-out")
		return result, nil
	}

	customer := models.Customer{
		UUID:         req.Customer.UUID,
		Name:         req.Customer.Name,
		Phone:        req.Customer.Phone,
		Email:        req.Customer.Email,
		Type:         req.Customer.Type,
		BusinessName: req.Customer.BusinessName,
	}
	if err := s.invoices.SendInvoice(ctx, invoiceURL, req.Title, customer); err != nil {
		return nil, err
	}

	return result, nil
}

// CreateWebBooking stores a website booking locally
func (s *bookingService) CreateWebBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	booking.ID = uuid.New()
	booking.CreatedAt = time.Now()

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	log.Printf("BookingService.CreateWebBooking: stored booking for %s", booking.Name)
	return booking, nil
}

// ListWebBookings pages through the stored website bookings, newest first
func (s *bookingService) ListWebBookings(ctx context.Context, offset, limit int) ([]*models.Booking, error) {
	return s.bookingRepo.List(ctx, offset, limit)
}
