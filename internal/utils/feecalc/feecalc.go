package feecalc

import (
	"fmt"

	"github.com/rentora/rentora_payments/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ScheduleVersion identifies the fee rate table in effect. It is persisted
// with every payment so historical fee breakdowns stay explainable after the
// table changes.
const ScheduleVersion = "2025-06-01"

// Rate table constants. Card-like methods carry a percentage plus a fixed
// component; bank debits carry a flat fee.
var (
	cardRatePercent = decimal.NewFromFloat(0.029) // 2.9%
	cardFixedFee    = decimal.NewFromFloat(0.30)
	bankDebitFee    = decimal.NewFromFloat(5.00)

	// DefaultSplitRatio is the payer's share of the fee under SPLIT_FEES.
	DefaultSplitRatio = decimal.NewFromFloat(0.5)
)

// two-decimal banker's context for money; all outputs are rounded to cents.
const moneyPlaces = 2

// ProcessingFee returns the raw processing fee for an amount and method class,
// rounded to cents. It is deterministic for identical inputs.
func ProcessingFee(amount decimal.Decimal, class domain.PaymentMethodClass) (decimal.Decimal, error) {
	switch class {
	case domain.MethodCard, domain.MethodWallet:
		return amount.Mul(cardRatePercent).Add(cardFixedFee).Round(moneyPlaces), nil
	case domain.MethodUSBankAccount:
		return bankDebitFee, nil
	default:
		return decimal.Zero, fmt.Errorf("unknown payment method class %q", class)
	}
}

// ComputeFees calculates the full fee split for a charge amount under the
// organization's fee policy. splitRatio is the payer's share under SPLIT_FEES
// (ignored for the other policies); any rounding remainder in a split is
// assigned to the landlord side so the payer-facing total stays predictable.
//
// Pure function: no I/O, no clock, identical inputs yield identical outputs.
func ComputeFees(amount decimal.Decimal, class domain.PaymentMethodClass, policy domain.FeePolicy, splitRatio decimal.Decimal) (domain.FeeBreakdown, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.FeeBreakdown{}, fmt.Errorf("amount must be positive, got %s", amount)
	}

	fee, err := ProcessingFee(amount, class)
	if err != nil {
		return domain.FeeBreakdown{}, err
	}

	b := domain.FeeBreakdown{
		ScheduleVersion: ScheduleVersion,
		FeePolicy:       policy,
		ProcessingFee:   fee,
	}

	switch policy {
	case domain.LandlordAbsorbs:
		b.PayerPortion = decimal.Zero
		b.LandlordPortion = fee
	case domain.TenantPays:
		b.PayerPortion = fee
		b.LandlordPortion = decimal.Zero
	case domain.SplitFees:
		if splitRatio.LessThan(decimal.Zero) || splitRatio.GreaterThan(decimal.NewFromInt(1)) {
			return domain.FeeBreakdown{}, fmt.Errorf("split ratio must be within [0,1], got %s", splitRatio)
		}
		// Round the payer share down to cents; the remainder lands on the
		// landlord side so the two portions reconcile exactly to the fee.
		b.PayerPortion = fee.Mul(splitRatio).RoundDown(moneyPlaces)
		b.LandlordPortion = fee.Sub(b.PayerPortion)
	default:
		return domain.FeeBreakdown{}, fmt.Errorf("unknown fee policy %q", policy)
	}

	b.TotalCharged = amount.Add(b.PayerPortion)
	b.NetToLandlord = amount.Sub(b.LandlordPortion)
	return b, nil
}
