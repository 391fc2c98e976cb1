package services

import (
	"context"
	"encoding/json"

	"github.com/breezedunord/tyms-backend/internal/models"
	"github.com/breezedunord/tyms-backend/internal/tyms"
)

// stubAPI implements tyms.API with overridable funcs so each test wires only
// the endpoints it exercises
type stubAPI struct {
	authorizationURL func(ctx context.Context) (string, error)
	exchangeCode     func(ctx context.Context, code, businessID string) (tyms.Credentials, error)
	refreshToken     func(ctx context.Context, refreshToken string) (tyms.Credentials, error)
	createSale       func(ctx context.Context, accessToken string, req tyms.SaleRequest) (json.RawMessage, error)
	createInvoice    func(ctx context.Context, accessToken string, req tyms.InvoiceRequest) (json.RawMessage, error)
	listInvoices     func(ctx context.Context, accessToken string) ([]json.RawMessage, error)
	listSales        func(ctx context.Context, accessToken string) ([]tyms.Sale, error)
}

func (s *stubAPI) AuthorizationURL(ctx context.Context) (string, error) {
	return s.authorizationURL(ctx)
}

func (s *stubAPI) ExchangeCode(ctx context.Context, code, businessID string) (tyms.Credentials, error) {
	return s.exchangeCode(ctx, code, businessID)
}

func (s *stubAPI) RefreshToken(ctx context.Context, refreshToken string) (tyms.Credentials, error) {
	return s.refreshToken(ctx, refreshToken)
}

func (s *stubAPI) CreateSale(ctx context.Context, accessToken string, req tyms.SaleRequest) (json.RawMessage, error) {
	return s.createSale(ctx, accessToken, req)
}

func (s *stubAPI) CreateInvoice(ctx context.Context, accessToken string, req tyms.InvoiceRequest) (json.RawMessage, error) {
	return s.createInvoice(ctx, accessToken, req)
}

func (s *stubAPI) ListInvoices(ctx context.Context, accessToken string) ([]json.RawMessage, error) {
	return s.listInvoices(ctx, accessToken)
}

func (s *stubAPI) ListSales(ctx context.Context, accessToken string) ([]tyms.Sale, error) {
	return s.listSales(ctx, accessToken)
}

// unauthorized mimics a provider 401
func unauthorized() error {
	return &tyms.UpstreamError{StatusCode: 401, Body: []byte(`{"message":"expired"}`)}
}

// fakeInvoiceRepo is an in-memory stand-in for the invoice mirror
type fakeInvoiceRepo struct {
	invoices  []*models.Invoice
	createErr error
}

func (f *fakeInvoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.invoices = append(f.invoices, invoice)
	return nil
}

func (f *fakeInvoiceRepo) List(ctx context.Context, limit int) ([]*models.Invoice, error) {
	if limit > len(f.invoices) {
		limit = len(f.invoices)
	}
	return f.invoices[:limit], nil
}

// fakeBookingRepo is an in-memory stand-in for the booking store
type fakeBookingRepo struct {
	bookings  []*models.Booking
	createErr error
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.bookings = append(f.bookings, booking)
	return nil
}

func (f *fakeBookingRepo) List(ctx context.Context, offset, limit int) ([]*models.Booking, error) {
	if offset >= len(f.bookings) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.bookings) {
		end = len(f.bookings)
	}
	return f.bookings[offset:end], nil
}
