package payment

import (
	"context"

	"payflow/internal/models"
)

// Provider identifies an external payment provider.
type Provider int

const (
	FastPay Provider = iota
	SecurePay
)

// String returns the display name used in canonical responses.
func (p Provider) String() string {
	switch p {
	case FastPay:
		return "FastPay"
	case SecurePay:
		return "SecurePay"
	default:
		return "unknown"
	}
}

// CallResult is the partial canonical result of one provider call.
// When OK is false, ExternalID and Status are empty and Err holds the cause.
type CallResult struct {
	OK         bool
	ExternalID string
	Status     string
	Err        error
}

func failed(err error) CallResult {
	return CallResult{OK: false, Err: err}
}

// Gateway defines the interface for payment provider adapters.
type Gateway interface {
	// Provider returns the identity this adapter serves.
	Provider() Provider

	// Endpoint returns the configured provider URL.
	Endpoint() string

	// Call issues exactly one outbound request. It never returns an error;
	// every failure is reported as a CallResult with OK=false.
	Call(ctx context.Context, req models.PaymentRequest) CallResult
}
