package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx/types"

	"github.com/breezedunord/tyms-backend/config"
	"github.com/breezedunord/tyms-backend/internal/middleware"
	"github.com/breezedunord/tyms-backend/internal/models"
	"github.com/breezedunord/tyms-backend/internal/services"
	"github.com/breezedunord/tyms-backend/internal/tyms"
)

// historyLimit caps the local mirror listing
const historyLimit = 100

// InvoiceHandler handles invoice creation, listing, history, and mail-out
type InvoiceHandler struct {
	invoiceService services.InvoiceService
	cfg            *config.Config
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService services.InvoiceService, cfg *config.Config) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		cfg:            cfg,
	}
}

// CreateInvoice validates and forwards an invoice to Tyms
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	log.Printf("InvoiceHandler.CreateInvoice: called for %s", c.Request.URL.Path)

	session := middleware.SessionFromContext(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req tyms.InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("InvoiceHandler.CreateInvoice: failed to bind JSON: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON in request body"})
		return
	}

	if field, ok := missingInvoiceField(req); ok {
		log.Printf("InvoiceHandler.CreateInvoice: missing required field: %s", field)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: " + field})
		return
	}

	result, err := h.invoiceService.CreateInvoice(c.Request.Context(), session, req)
	persistSession(c, h.cfg, session)
	if err != nil {
		respondError(c, err, "Failed to create invoice in Tyms")
		return
	}

	c.Data(http.StatusOK, "application/json", result)
}

// ListInvoices returns the provider-side invoice list
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	invoices, err := h.invoiceService.ListInvoices(c.Request.Context(), session)
	persistSession(c, h.cfg, session)
	if err != nil {
		respondError(c, err, "Failed to fetch invoices")
		return
	}

	c.JSON(http.StatusOK, invoices)
}

// History returns the locally mirrored invoices
func (h *InvoiceHandler) History(c *gin.Context) {
	log.Printf("InvoiceHandler.History: called for %s", c.Request.URL.Path)

	invoices, err := h.invoiceService.History(c.Request.Context(), historyLimit)
	if err != nil {
		log.Printf("InvoiceHandler.History: failed to fetch invoices: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invoices", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, invoices)
}

// SendInvoiceRequest represents the request body for the invoice mail-out
type SendInvoiceRequest struct {
	Invoice struct {
		Title      string         `json:"title"`
		InvoiceURL string         `json:"invoice_url"`
		Customer   types.JSONText `json:"customer"`
	} `json:"invoice"`
}

// SendInvoice fetches the invoice PDF and emails it to the customer parsed
// from the invoice's customer blob
func (h *InvoiceHandler) SendInvoice(c *gin.Context) {
	log.Printf("InvoiceHandler.SendInvoice: called for %s", c.Request.URL.Path)

	var req SendInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("InvoiceHandler.SendInvoice: failed to bind JSON: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON in request body"})
		return
	}
	if req.Invoice.InvoiceURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: invoice"})
		return
	}

	customer, err := models.ParseCustomer(req.Invoice.Customer)
	if err != nil {
		log.Printf("InvoiceHandler.SendInvoice: failed to parse customer: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer on invoice"})
		return
	}

	if err := h.invoiceService.SendInvoice(c.Request.Context(), req.Invoice.InvoiceURL, req.Invoice.Title, *customer); err != nil {
		respondError(c, err, "Failed to send invoice")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invoice sent successfully"})
}

// missingInvoiceField reports the first absent required field, in a stable order
func missingInvoiceField(req tyms.InvoiceRequest) (string, bool) {
	switch {
	case req.Date == "":
		return "date", true
	case req.Title == "":
		return "title", true
	case req.Amount == 0:
		return "amount", true
	case req.Currency == "":
		return "currency", true
	}
	return "", false
}

// RegisterRoutes registers the invoice routes. History and mail-out read
// only local state so they sit outside the token middleware.
func (h *InvoiceHandler) RegisterRoutes(router *gin.RouterGroup, tokenMiddleware gin.HandlerFunc) {
	invoices := router.Group("/invoices")
	{
		invoices.POST("", tokenMiddleware, h.CreateInvoice)
		invoices.GET("", tokenMiddleware, h.ListInvoices)
		invoices.GET("/history", h.History)
		invoices.POST("/send", h.SendInvoice)
	}
}
