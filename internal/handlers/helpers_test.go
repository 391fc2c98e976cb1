package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/breezedunord/tyms-backend/config"
	"github.com/breezedunord/tyms-backend/internal/middleware"
	"github.com/breezedunord/tyms-backend/internal/models"
	"github.com/breezedunord/tyms-backend/internal/services"
	"github.com/breezedunord/tyms-backend/internal/tyms"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Environment:          "test",
		FrontendURL:          "http://localhost:3000",
		AccessTokenDuration:  time.Hour,
		RefreshTokenDuration: 30 * 24 * time.Hour,
	}
}

func newRouter() (*gin.Engine, *gin.RouterGroup) {
	router := gin.New()
	group := router.Group("/api/v1")
	return router, group
}

// doJSON performs a request with an optional JSON body and token cookies
func doJSON(t *testing.T, router *gin.Engine, method, path string, body any, withTokens bool) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if withTokens {
		req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: "t1"})
		req.AddCookie(&http.Cookie{Name: middleware.RefreshTokenCookie, Value: "r1"})
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func cookieByName(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// stubAuthService implements services.AuthService with overridable funcs
type stubAuthService struct {
	authorizeURL func(ctx context.Context) (string, error)
	exchangeCode func(ctx context.Context, code, businessID string) (models.TokenPair, error)
}

func (s *stubAuthService) AuthorizeURL(ctx context.Context) (string, error) {
	return s.authorizeURL(ctx)
}

func (s *stubAuthService) ExchangeCode(ctx context.Context, code, businessID string) (models.TokenPair, error) {
	return s.exchangeCode(ctx, code, businessID)
}

func (s *stubAuthService) Refresh(ctx context.Context, session *services.Session) error {
	return nil
}

func (s *stubAuthService) WithRetry(ctx context.Context, session *services.Session, call services.Call) error {
	return call(session.Tokens.AccessToken)
}

// stubSalesService implements services.SalesService
type stubSalesService struct {
	createSale func(ctx context.Context, session *services.Session, req tyms.SaleRequest) (json.RawMessage, error)
	turnover   func(ctx context.Context, session *services.Session) (float64, error)
}

func (s *stubSalesService) CreateSale(ctx context.Context, session *services.Session, req tyms.SaleRequest) (json.RawMessage, error) {
	return s.createSale(ctx, session, req)
}

func (s *stubSalesService) Turnover(ctx context.Context, session *services.Session) (float64, error) {
	return s.turnover(ctx, session)
}

// stubInvoiceService implements services.InvoiceService
type stubInvoiceService struct {
	createInvoice func(ctx context.Context, session *services.Session, req tyms.InvoiceRequest) (json.RawMessage, error)
	listInvoices  func(ctx context.Context, session *services.Session) ([]json.RawMessage, error)
	history       func(ctx context.Context, limit int) ([]*models.Invoice, error)
	sendInvoice   func(ctx context.Context, invoiceURL, title string, customer models.Customer) error
}

func (s *stubInvoiceService) CreateInvoice(ctx context.Context, session *services.Session, req tyms.InvoiceRequest) (json.RawMessage, error) {
	return s.createInvoice(ctx, session, req)
}

func (s *stubInvoiceService) ListInvoices(ctx context.Context, session *services.Session) ([]json.RawMessage, error) {
	return s.listInvoices(ctx, session)
}

func (s *stubInvoiceService) History(ctx context.Context, limit int) ([]*models.Invoice, error) {
	return s.history(ctx, limit)
}

func (s *stubInvoiceService) SendInvoice(ctx context.Context, invoiceURL, title string, customer models.Customer) error {
	return s.sendInvoice(ctx, invoiceURL, title, customer)
}

// stubBookingService implements services.BookingService
type stubBookingService struct {
	createShopBooking func(ctx context.Context, session *services.Session, req tyms.InvoiceRequest) (json.RawMessage, error)
	createWebBooking  func(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	listWebBookings   func(ctx context.Context, offset, limit int) ([]*models.Booking, error)
}

func (s *stubBookingService) CreateShopBooking(ctx context.Context, session *services.Session, req tyms.InvoiceRequest) (json.RawMessage, error) {
	return s.createShopBooking(ctx, session, req)
}

func (s *stubBookingService) CreateWebBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	return s.createWebBooking(ctx, booking)
}

func (s *stubBookingService) ListWebBookings(ctx context.Context, offset, limit int) ([]*models.Booking, error) {
	return s.listWebBookings(ctx, offset, limit)
}
