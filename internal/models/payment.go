package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// PaymentRequest is the normalized inbound payment.
type PaymentRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// CanonicalResponse is the provider-independent result returned to callers.
// NetAmount is always GrossAmount minus Fee.
type CanonicalResponse struct {
	ExternalID  string
	Provider    string
	Status      string
	GrossAmount decimal.Decimal
	Fee         decimal.Decimal
	NetAmount   decimal.Decimal
}

// MarshalJSON writes money fields as JSON numbers. Cent amounts keep two
// decimals; anything finer is written exactly.
func (r CanonicalResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ExternalID  string      `json:"externalId"`
		Provider    string      `json:"provider"`
		Status      string      `json:"status"`
		GrossAmount json.Number `json:"grossAmount"`
		Fee         json.Number `json:"fee"`
		NetAmount   json.Number `json:"netAmount"`
	}{
		ExternalID:  r.ExternalID,
		Provider:    r.Provider,
		Status:      r.Status,
		GrossAmount: moneyNumber(r.GrossAmount),
		Fee:         moneyNumber(r.Fee),
		NetAmount:   moneyNumber(r.NetAmount),
	})
}

func moneyNumber(d decimal.Decimal) json.Number {
	if d.Equal(d.Round(2)) {
		return json.Number(d.StringFixed(2))
	}
	return json.Number(d.String())
}

// ErrorResponse is the error envelope of the payments API.
type ErrorResponse struct {
	Error string `json:"error"`
}
