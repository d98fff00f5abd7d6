package payment

import "github.com/shopspring/decimal"

var (
	feeThreshold = decimal.NewFromInt(100)
	lowFeeRate   = decimal.RequireFromString("0.015")
	highFeeRate  = decimal.RequireFromString("0.025")
)

// CalculateFee returns the gateway service fee for amount, rounded to two
// places half away from zero. currency does not change the result.
// The caller guarantees amount > 0.
func CalculateFee(amount decimal.Decimal, currency string) decimal.Decimal {
	rate := highFeeRate
	if amount.LessThan(feeThreshold) {
		rate = lowFeeRate
	}
	return amount.Mul(rate).Round(2)
}
