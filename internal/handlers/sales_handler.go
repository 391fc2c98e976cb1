package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/breezedunord/tyms-backend/config"
	"github.com/breezedunord/tyms-backend/internal/middleware"
	"github.com/breezedunord/tyms-backend/internal/services"
	"github.com/breezedunord/tyms-backend/internal/tyms"
)

// SalesHandler handles sale creation and turnover endpoints
type SalesHandler struct {
	salesService services.SalesService
	cfg          *config.Config
}

// NewSalesHandler creates a new SalesHandler
func NewSalesHandler(salesService services.SalesService, cfg *config.Config) *SalesHandler {
	return &SalesHandler{
		salesService: salesService,
		cfg:          cfg,
	}
}

// CreateSale validates and forwards a sale to Tyms. Validation happens here,
// before the provider is ever called.
func (h *SalesHandler) CreateSale(c *gin.Context) {
	log.Printf("SalesHandler.CreateSale: called for %s", c.Request.URL.Path)

	session := middleware.SessionFromContext(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req tyms.SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("SalesHandler.CreateSale: failed to bind JSON: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON in request body"})
		return
	}

	if field, ok := missingSaleField(req); ok {
		log.Printf("SalesHandler.CreateSale: missing required field: %s", field)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: " + field})
		return
	}
	if req.PaymentType == "Bank" && req.Bank == "" {
		log.Printf("SalesHandler.CreateSale: missing bank uuid for Bank payment type")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bank uuid is required for Bank payment type"})
		return
	}

	result, err := h.salesService.CreateSale(c.Request.Context(), session, req)
	persistSession(c, h.cfg, session)
	if err != nil {
		respondError(c, err, "Failed to create sale in Tyms")
		return
	}

	c.Data(http.StatusOK, "application/json", result)
}

// Turnover returns the total amount across all provider-side sales
func (h *SalesHandler) Turnover(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	turnover, err := h.salesService.Turnover(c.Request.Context(), session)
	persistSession(c, h.cfg, session)
	if err != nil {
		respondError(c, err, "Failed to fetch turnover")
		return
	}

	c.JSON(http.StatusOK, gin.H{"turnover": turnover})
}

// missingSaleField reports the first absent required field, in a stable order
func missingSaleField(req tyms.SaleRequest) (string, bool) {
	switch {
	case req.Date == "":
		return "date", true
	case req.Title == "":
		return "title", true
	case req.Amount == 0:
		return "amount", true
	case req.PaymentType == "":
		return "payment_type", true
	case req.Category == "":
		return "category", true
	}
	return "", false
}

// RegisterRoutes registers the sales routes behind the token middleware
func (h *SalesHandler) RegisterRoutes(router *gin.RouterGroup, tokenMiddleware gin.HandlerFunc) {
	router.POST("/sales", tokenMiddleware, h.CreateSale)
	router.GET("/turnover", tokenMiddleware, h.Turnover)
}
