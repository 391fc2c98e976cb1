package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/breezedunord/tyms-backend/config"
	"github.com/breezedunord/tyms-backend/internal/middleware"
	"github.com/breezedunord/tyms-backend/internal/models"
	"github.com/breezedunord/tyms-backend/internal/services"
	"github.com/breezedunord/tyms-backend/internal/tyms"
)

// webBookingLimit caps a single bookings page
const webBookingLimit = 100

// BookingHandler handles shop and website booking endpoints
type BookingHandler struct {
	bookingService services.BookingService
	cfg            *config.Config
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookingService services.BookingService, cfg *config.Config) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		cfg:            cfg,
	}
}

// CreateShopBooking validates a shop invoice payload and runs the full
// booking flow: recomputed totals, provider invoice, PDF mail-out
func (h *BookingHandler) CreateShopBooking(c *gin.Context) {
	log.Printf("BookingHandler.CreateShopBooking: called for %s", c.Request.URL.Path)

	session := middleware.SessionFromContext(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: No access token found"})
		return
	}

	var req tyms.InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("BookingHandler.CreateShopBooking: failed to bind JSON: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if field, ok := missingShopBookingField(req); ok {
		log.Printf("BookingHandler.CreateShopBooking: missing required field: %s", field)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: " + field})
		return
	}

	result, err := h.bookingService.CreateShopBooking(c.Request.Context(), session, req)
	persistSession(c, h.cfg, session)
	if err != nil {
		if errors.Is(err, services.ErrNoItems) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: items"})
			return
		}
		respondError(c, err, "Failed to create booking")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Booking created and invoice sent", "invoice": result})
}

// WebBookingRequest represents the request body for a website booking
type WebBookingRequest struct {
	UnitType        string  `json:"unit_type" binding:"required,max=50"`
	Name            string  `json:"name" binding:"required,max=100"`
	Email           string  `json:"email" binding:"required,email,max=100"`
	Phone           string  `json:"phone" binding:"required,max=20"`
	Guests          int     `json:"guests" binding:"required,gt=0"`
	StartDate       string  `json:"start_date" binding:"required"`
	EndDate         string  `json:"end_date" binding:"required"`
	SpecialRequests *string `json:"special_requests"`
	TotalCost       float64 `json:"total_cost" binding:"required,gt=0"`
}

// ListWebBookings returns the stored website bookings for the dashboard
func (h *BookingHandler) ListWebBookings(c *gin.Context) {
	log.Printf("BookingHandler.ListWebBookings: called for %s", c.Request.URL.Path)

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > webBookingLimit {
		limit = webBookingLimit
	}

	bookings, err := h.bookingService.ListWebBookings(c.Request.Context(), offset, limit)
	if err != nil {
		log.Printf("BookingHandler.ListWebBookings: failed to fetch bookings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// CreateWebBooking stores a plain website booking locally
func (h *BookingHandler) CreateWebBooking(c *gin.Context) {
	log.Printf("BookingHandler.CreateWebBooking: called for %s", c.Request.URL.Path)

	var req WebBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("BookingHandler.CreateWebBooking: validation error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	booking := &models.Booking{
		UnitType:        req.UnitType,
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Guests:          req.Guests,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		SpecialRequests: req.SpecialRequests,
		TotalCost:       req.TotalCost,
	}

	created, err := h.bookingService.CreateWebBooking(c.Request.Context(), booking)
	if err != nil {
		log.Printf("BookingHandler.CreateWebBooking: error processing booking: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// missingShopBookingField reports the first absent required field for the
// shop booking payload
func missingShopBookingField(req tyms.InvoiceRequest) (string, bool) {
	switch {
	case req.Date == "":
		return "date", true
	case req.DueDate == "":
		return "due_date", true
	case req.Title == "":
		return "title", true
	case len(req.Items) == 0:
		return "items", true
	case req.Customer == nil || req.Customer.Email == "":
		return "customer", true
	case req.Currency == "":
		return "currency", true
	}
	return "", false
}

// RegisterRoutes registers the booking routes. Website bookings come from
// the public site and carry no Tyms session.
func (h *BookingHandler) RegisterRoutes(router *gin.RouterGroup, tokenMiddleware gin.HandlerFunc) {
	bookings := router.Group("/bookings")
	{
		bookings.GET("", tokenMiddleware, h.ListWebBookings)
		bookings.POST("/shop", tokenMiddleware, h.CreateShopBooking)
		bookings.POST("/web", h.CreateWebBooking)
	}
}
