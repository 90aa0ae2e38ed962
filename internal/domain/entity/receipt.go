package entity

// Transaction is a value object describing a finished checkout. It is NOT a
// database entity; the receipt templates are rendered from it at print time.
type Transaction struct {
	Bon               string  `json:"bon"`
	TransactionNumber int     `json:"transaction_number"`
	Date              string  `json:"date"`
	Customer          string  `json:"customer,omitempty"`
	Cashier           string  `json:"cashier,omitempty"`
	PaymentMethod     string  `json:"payment_method"`
	Cart              Cart    `json:"cart"`
	Totals            *Totals `json:"totals"`
}

// CustomerOrDefault returns the customer name, or the walk-in label
func (t *Transaction) CustomerOrDefault() string {
	if t.Customer == "" {
		return "Walk-in"
	}
	return t.Customer
}
