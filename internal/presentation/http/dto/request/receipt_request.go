package request

import "time"

// ReceiptRequest represents a receipt preview or print request. The checkout
// fields are priced again server-side; totals are never taken from the client.
type ReceiptRequest struct {
	CheckoutTotalsRequest

	TransactionNumber int        `json:"transaction_number" binding:"required,min=1"`
	Date              *time.Time `json:"date"`
	Customer          string     `json:"customer" binding:"max=255"`
	Cashier           string     `json:"cashier" binding:"max=255"`
	PaymentMethod     string     `json:"payment_method" binding:"required,max=50"`
	// Template is "thermal" or "modern"; empty uses the store setting
	Template string `json:"template" binding:"omitempty,oneof=thermal simple modern"`
}
