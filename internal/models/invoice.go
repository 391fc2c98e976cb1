package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

// Invoice is the local mirror of an invoice created in Tyms. Rows are written
// once per successful creation and never mutated. The items and customer
// columns hold the payload exactly as it was forwarded to Tyms; the mirror
// never queries into their structure.
type Invoice struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	Date        string         `json:"date" db:"date"`
	DueDate     string         `json:"due_date" db:"due_date"`
	Title       string         `json:"title" db:"title"`
	Items       types.JSONText `json:"items" db:"items"`
	Customer    types.JSONText `json:"customer" db:"customer"`
	InvoiceNote *string        `json:"invoice_note,omitempty" db:"invoice_note"`
	Amount      float64        `json:"amount" db:"amount"`
	ShippingFee string         `json:"shipping_fee" db:"shipping_fee"`
	Category    string         `json:"category" db:"category"`
	PaymentType string         `json:"payment_type" db:"payment_type"`
	Invoiceable bool           `json:"invoiceable" db:"invoiceable"`
	Currency    string         `json:"currency" db:"currency"`
	InvoiceURL  string         `json:"invoice_url" db:"invoice_url"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
}

// Customer is the parsed view of an invoice's customer blob, used only for
// addressing the invoice email
type Customer struct {
	UUID         string `json:"uuid"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Type         string `json:"type"`
	BusinessName string `json:"business_name,omitempty"`
}

// ParseCustomer decodes a stored customer blob
func ParseCustomer(blob []byte) (*Customer, error) {
	var c Customer
	if err := json.Unmarshal(blob, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
