package tyms

import (
	"encoding/json"
	"fmt"
)

// Credentials is the token bundle returned by the OAuth endpoints. The
// refresh endpoint may omit the refresh token, in which case the previous
// one stays valid.
type Credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// FlexString unmarshals from either a JSON string or a JSON number. Tyms item
// uuids arrive in both shapes depending on the storefront that produced them.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}
	return fmt.Errorf("tyms: cannot unmarshal %s into FlexString", data)
}

// Tax is the tax descriptor attached to an invoice line item
type Tax struct {
	Percent  string `json:"percent"`
	Currency string `json:"currency"`
}

// Item is a single sale or invoice line item
type Item struct {
	UUID         FlexString `json:"uuid,omitempty"`
	Name         string     `json:"name,omitempty"`
	Quantity     int        `json:"quantity"`
	SellingPrice float64    `json:"selling_price"`
	Tax          *Tax       `json:"tax,omitempty"`
}

// Total returns the item's contribution to the invoice amount
func (i Item) Total() float64 {
	return float64(i.Quantity) * i.SellingPrice
}

// Customer identifies the buyer on a sale or invoice
type Customer struct {
	UUID         string `json:"uuid,omitempty"`
	Name         string `json:"name"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email"`
	Type         string `json:"type,omitempty"`
	BusinessName string `json:"business_name,omitempty"`
}

// SaleRequest is the payload forwarded to the sales creation endpoint
type SaleRequest struct {
	Date        string    `json:"date"`
	Title       string    `json:"title"`
	Items       []Item    `json:"items,omitempty"`
	Customer    *Customer `json:"customer,omitempty"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	PaymentType string    `json:"payment_type"`
	Bank        string    `json:"bank,omitempty"`
	Currency    string    `json:"currency,omitempty"`
}

// InvoiceRequest is the payload forwarded to the invoice creation endpoint
type InvoiceRequest struct {
	Date        string    `json:"date"`
	DueDate     string    `json:"due_date,omitempty"`
	Title       string    `json:"title"`
	Items       []Item    `json:"items,omitempty"`
	Customer    *Customer `json:"customer,omitempty"`
	InvoiceNote string    `json:"invoice_note,omitempty"`
	Amount      float64   `json:"amount"`
	ShippingFee string    `json:"shipping_fee,omitempty"`
	Category    string    `json:"category,omitempty"`
	PaymentType string    `json:"payment_type,omitempty"`
	Invoiceable bool      `json:"invoiceable,omitempty"`
	Currency    string    `json:"currency"`
}

// Sale is the subset of a provider-side sale record the app reads back
type Sale struct {
	UUID   string  `json:"uuid"`
	Title  string  `json:"title"`
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// envelope is the common Tyms response wrapper
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// page is the paginated list shape nested under the envelope's data field
type page struct {
	Data json.RawMessage `json:"data"`
}
