package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breezedunord/tyms-backend/internal/models"
	"github.com/breezedunord/tyms-backend/internal/tyms"
)

func TestCreateShopBooking_RecomputesAmountFromItems(t *testing.T) {
	pdfServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer pdfServer.Close()

	var gotAmount float64
	api := &stubAPI{
		createInvoice: func(ctx context.Context, accessToken string, req tyms.InvoiceRequest) (json.RawMessage, error) {
			gotAmount = req.Amount
			return json.RawMessage(`{"status":"success","data":{"invoice_url":"` + pdfServer.URL + `"}}`), nil
		},
	}
	sender := &fakeSender{}
	invoices := newTestInvoiceService(api, &fakeInvoiceRepo{}, sender, nil)
	service := NewBookingService(invoices, &fakeBookingRepo{})

	_, err := service.CreateShopBooking(context.Background(), sessionWith("t1", "r1"), tyms.InvoiceRequest{
		Date:   "2024-06-01",
		Title:  "Weekend stay",
		Amount: 9999, // storefront-supplied amount is ignored
		Items: []tyms.Item{
			{Name: "Room 12", Quantity: 2, SellingPrice: 100},
			{Name: "Breakfast", Quantity: 4, SellingPrice: 12.5},
		},
		Customer: &tyms.Customer{Name: "Jane Doe", Email: "jane@example.com"},
		Currency: "EUR",
	})

	require.NoError(t, err)
	assert.Equal(t, 250.0, gotAmount)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"jane@example.com"}, sender.sent[0].GetHeader("To"))
}

func TestCreateShopBooking_NoItems(t *testing.T) {
	service := NewBookingService(newTestInvoiceService(&stubAPI{}, &fakeInvoiceRepo{}, &fakeSender{}, nil), &fakeBookingRepo{})

	_, err := service.CreateShopBooking(context.Background(), sessionWith("t1", "r1"), tyms.InvoiceRequest{
		Title: "Empty booking",
	})
	assert.ErrorIs(t, err, ErrNoItems)
}

func TestCreateShopBooking_NoInvoiceURLSkipsMail(t *testing.T) {
	api := &stubAPI{
		createInvoice: func(ctx context.Context, accessToken string, req tyms.InvoiceRequest) (json.RawMessage, error) {
			return json.RawMessage(`{"status":"success","data":{"uuid":"inv-1"}}`), nil
		},
	}
	sender := &fakeSender{}
	service := NewBookingService(newTestInvoiceService(api, &fakeInvoiceRepo{}, sender, nil), &fakeBookingRepo{})

	result, err := service.CreateShopBooking(context.Background(), sessionWith("t1", "r1"), tyms.InvoiceRequest{
		Title:    "Weekend stay",
		Items:    []tyms.Item{{Quantity: 1, SellingPrice: 100}},
		Customer: &tyms.Customer{Email: "jane@example.com"},
	})

	require.NoError(t, err)
	assert.Contains(t, string(result), "inv-1")
	assert.Empty(t, sender.sent)
}

func TestCreateShopBooking_NoCustomerEmailSkipsMail(t *testing.T) {
	api := &stubAPI{
		createInvoice: func(ctx context.Context, accessToken string, req tyms.InvoiceRequest) (json.RawMessage, error) {
			return json.RawMessage(`{"status":"success","data":{"invoice_url":"https://tyms.io/a.pdf"}}`), nil
		},
	}
	sender := &fakeSender{}
	service := NewBookingService(newTestInvoiceService(api, &fakeInvoiceRepo{}, sender, nil), &fakeBookingRepo{})

	_, err := service.CreateShopBooking(context.Background(), sessionWith("t1", "r1"), tyms.InvoiceRequest{
		Title: "Weekend stay",
		Items: []tyms.Item{{Quantity: 1, SellingPrice: 100}},
	})

	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}

func TestListWebBookings(t *testing.T) {
	repo := &fakeBookingRepo{bookings: []*models.Booking{
		{Name: "First"},
		{Name: "Second"},
		{Name: "Third"},
	}}
	service := NewBookingService(newTestInvoiceService(&stubAPI{}, &fakeInvoiceRepo{}, &fakeSender{}, nil), repo)

	bookings, err := service.ListWebBookings(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, "Second", bookings[0].Name)
	assert.Equal(t, "Third", bookings[1].Name)
}

func TestCreateWebBooking(t *testing.T) {
	repo := &fakeBookingRepo{}
	service := NewBookingService(newTestInvoiceService(&stubAPI{}, &fakeInvoiceRepo{}, &fakeSender{}, nil), repo)

	booking, err := service.CreateWebBooking(context.Background(), &models.Booking{
		UnitType:  "room",
		Name:      "Jane Doe",
		Email:     "jane@example.com",
		Guests:    2,
		StartDate: "2024-06-01",
		EndDate:   "2024-06-03",
		TotalCost: 250,
	})

	require.NoError(t, err)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", booking.ID.String())
	assert.False(t, booking.CreatedAt.IsZero())
	require.Len(t, repo.bookings, 1)
	assert.Equal(t, "Jane Doe", repo.bookings[0].Name)
}
