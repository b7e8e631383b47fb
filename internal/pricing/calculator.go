// Package pricing derives the read-only money fields of a purchase line from
// its raw entry values, and classifies batch expiry dates. All arithmetic is
// decimal with results rounded half-up to 2 places, so the same input always
// produces the same stored value regardless of where the derivation runs.
package pricing

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultStripSize is assumed when a line does not specify its own strip size.
const DefaultStripSize = 10

// ExpiryWarningDays is the window within which a batch counts as expiring soon.
const ExpiryWarningDays = 30

// ExpiryStatus classifies how close a batch is to its expiry date.
type ExpiryStatus string

const (
	ExpiryExpired ExpiryStatus = "expired"
	ExpirySoon    ExpiryStatus = "expiring_soon"
	ExpiryNormal  ExpiryStatus = "normal"
)

// Rejection reasons. These are business outcomes, not failures: the caller
// turns them into validation messages and never persists the line.
var (
	ErrInvalidInput      = errors.New("invalid purchase line input")
	ErrMinRateBelowFinal = errors.New("minimum sale rate cannot be less than final sale rate")
	ErrInvalidDateRange  = errors.New("expire date cannot be before manufacture date")
)

// LineInput is the raw purchase line as entered on the purchase form.
type LineInput struct {
	ProductName         string
	Category            string
	BatchNo             string
	Barcode             string
	Quantity            int
	PurchaseRate        decimal.Decimal
	PurchaseDiscountPct decimal.Decimal
	SaleRate            decimal.Decimal
	SaleDiscountPct     decimal.Decimal
	MinSaleRate         decimal.Decimal
	StripSize           int
	ManufactureDate     time.Time
	ExpireDate          time.Time
}

// Derived holds the computed, read-only fields of a purchase line.
type Derived struct {
	FinalPurchaseRate decimal.Decimal
	FinalSaleRate     decimal.Decimal
	PerStripRate      decimal.Decimal
	MinStripSaleRate  decimal.Decimal
	TotalAmount       decimal.Decimal
	ExpiryStatus      ExpiryStatus
}

var hundred = decimal.NewFromInt(100)

// Derive computes the derived values for a purchase line, or rejects it.
// today is the caller's current date; it only influences ExpiryStatus, which
// keeps the function pure and the numeric outputs reproducible.
func Derive(in LineInput, today time.Time) (Derived, error) {
	if err := validate(in); err != nil {
		return Derived{}, err
	}

	stripSize := in.StripSize
	if stripSize == 0 {
		stripSize = DefaultStripSize
	}

	finalPurchaseRate := applyDiscount(in.PurchaseRate, in.PurchaseDiscountPct)
	finalSaleRate := applyDiscount(in.SaleRate, in.SaleDiscountPct)

	// The floor price must be a valid price: a line whose minimum is below the
	// discounted sale rate could be sold at a loss and is rejected outright.
	if in.MinSaleRate.LessThan(finalSaleRate) {
		return Derived{}, ErrMinRateBelowFinal
	}

	strips := decimal.NewFromInt(int64(stripSize))
	return Derived{
		FinalPurchaseRate: finalPurchaseRate,
		FinalSaleRate:     finalSaleRate,
		PerStripRate:      finalSaleRate.Mul(strips).Round(2),
		MinStripSaleRate:  in.MinSaleRate.Mul(strips).Round(2),
		TotalAmount:       finalPurchaseRate.Mul(decimal.NewFromInt(int64(in.Quantity))).Round(2),
		ExpiryStatus:      ClassifyExpiry(in.ExpireDate, today),
	}, nil
}

func validate(in LineInput) error {
	switch {
	case in.Quantity <= 0,
		in.PurchaseRate.IsNegative(),
		in.SaleRate.IsNegative(),
		in.MinSaleRate.IsNegative(),
		in.StripSize < 0,
		!pctInRange(in.PurchaseDiscountPct),
		!pctInRange(in.SaleDiscountPct):
		return ErrInvalidInput
	}
	if !in.ManufactureDate.IsZero() && !in.ExpireDate.IsZero() &&
		dateOf(in.ExpireDate).Before(dateOf(in.ManufactureDate)) {
		return ErrInvalidDateRange
	}
	return nil
}

func pctInRange(pct decimal.Decimal) bool {
	return !pct.IsNegative() && pct.LessThanOrEqual(hundred)
}

// applyDiscount returns rate * (1 - pct/100) rounded half-up to 2 places.
func applyDiscount(rate, pct decimal.Decimal) decimal.Decimal {
	discount := rate.Mul(pct).Div(hundred)
	return rate.Sub(discount).Round(2)
}

// DaysToExpire returns the number of whole calendar days from today until
// expire. Negative when the date has already passed.
func DaysToExpire(expire, today time.Time) int {
	return int(dateOf(expire).Sub(dateOf(today)).Hours() / 24)
}

// ClassifyExpiry buckets an expiry date relative to today. The boundary at
// exactly ExpiryWarningDays is normal; today itself is expiring_soon.
func ClassifyExpiry(expire, today time.Time) ExpiryStatus {
	days := DaysToExpire(expire, today)
	switch {
	case days < 0:
		return ExpiryExpired
	case days < ExpiryWarningDays:
		return ExpirySoon
	default:
		return ExpiryNormal
	}
}

// dateOf truncates t to midnight UTC so day arithmetic ignores clock time.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
