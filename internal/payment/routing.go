package payment

import "github.com/shopspring/decimal"

// routingThreshold splits traffic between providers. Amounts strictly below
// it go to FastPay first.
var routingThreshold = decimal.NewFromInt(100)

// Route returns the primary and fallback provider for an amount.
func Route(amount decimal.Decimal) (primary, fallback Provider) {
	if amount.LessThan(routingThreshold) {
		return FastPay, SecurePay
	}
	return SecurePay, FastPay
}
