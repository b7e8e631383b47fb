package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, 3, 15, 11, 30, 0, 0, time.UTC)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func validLine() LineInput {
	return LineInput{
		ProductName:         "Paracetamol 500mg",
		Category:            "Analgesic",
		BatchNo:             "B-1042",
		Barcode:             "8901234567890",
		Quantity:            10,
		PurchaseRate:        d("50"),
		PurchaseDiscountPct: d("0"),
		SaleRate:            d("60"),
		SaleDiscountPct:     d("0"),
		MinSaleRate:         d("60"),
		StripSize:           10,
		ManufactureDate:     today.AddDate(-1, 0, 0),
		ExpireDate:          today.AddDate(1, 0, 0),
	}
}

func TestDeriveHappyPath(t *testing.T) {
	in := validLine()

	got, err := Derive(in, today)
	require.NoError(t, err)

	assert.Equal(t, "50", got.FinalPurchaseRate.String())
	assert.Equal(t, "60", got.FinalSaleRate.String())
	assert.Equal(t, "600", got.PerStripRate.String())
	assert.Equal(t, "600", got.MinStripSaleRate.String())
	assert.Equal(t, "500", got.TotalAmount.String())
	assert.Equal(t, ExpiryNormal, got.ExpiryStatus)
}

func TestDeriveDiscountRounding(t *testing.T) {
	in := validLine()
	in.PurchaseRate = d("100")
	in.PurchaseDiscountPct = d("10")
	in.MinSaleRate = d("60")

	got, err := Derive(in, today)
	require.NoError(t, err)
	assert.True(t, got.FinalPurchaseRate.Equal(d("90.00")), "got %s", got.FinalPurchaseRate)

	// 10.05 at 50% → 5.025, which rounds half-up to 5.03
	in.PurchaseRate = d("10.05")
	in.PurchaseDiscountPct = d("50")
	got, err = Derive(in, today)
	require.NoError(t, err)
	assert.Equal(t, "5.03", got.FinalPurchaseRate.StringFixed(2))
}

func TestDeriveStripMath(t *testing.T) {
	in := validLine()
	in.SaleRate = d("12.34")
	in.SaleDiscountPct = d("0")
	in.MinSaleRate = d("12.34")
	in.StripSize = 10

	got, err := Derive(in, today)
	require.NoError(t, err)
	assert.True(t, got.PerStripRate.Equal(d("123.40")), "got %s", got.PerStripRate)
	assert.True(t, got.MinStripSaleRate.Equal(d("123.40")))
}

func TestDeriveDefaultStripSize(t *testing.T) {
	in := validLine()
	in.StripSize = 0

	got, err := Derive(in, today)
	require.NoError(t, err)
	assert.True(t, got.PerStripRate.Equal(in.SaleRate.Mul(decimal.NewFromInt(DefaultStripSize))))
}

func TestDeriveRejectsMinRateBelowFinal(t *testing.T) {
	// minSaleRate 55 below finalSaleRate 60: selling at the floor would lose money.
	in := LineInput{
		Quantity:            10,
		PurchaseRate:        d("50"),
		PurchaseDiscountPct: d("0"),
		SaleRate:            d("60"),
		SaleDiscountPct:     d("0"),
		MinSaleRate:         d("55"),
		StripSize:           10,
		ManufactureDate:     today.AddDate(-1, 0, 0),
		ExpireDate:          today.AddDate(1, 0, 0),
	}

	_, err := Derive(in, today)
	assert.ErrorIs(t, err, ErrMinRateBelowFinal)
}

func TestDeriveMinRateComparedAgainstDiscountedRate(t *testing.T) {
	// Sale rate 100 with 20% discount → final 80. A minimum of 80 passes,
	// 79.99 does not.
	in := validLine()
	in.SaleRate = d("100")
	in.SaleDiscountPct = d("20")

	in.MinSaleRate = d("80")
	_, err := Derive(in, today)
	assert.NoError(t, err)

	in.MinSaleRate = d("79.99")
	_, err = Derive(in, today)
	assert.ErrorIs(t, err, ErrMinRateBelowFinal)
}

func TestDeriveInvalidInput(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*LineInput)
	}{
		{"zero quantity", func(in *LineInput) { in.Quantity = 0 }},
		{"negative quantity", func(in *LineInput) { in.Quantity = -3 }},
		{"negative purchase rate", func(in *LineInput) { in.PurchaseRate = d("-1") }},
		{"negative sale rate", func(in *LineInput) { in.SaleRate = d("-0.01") }},
		{"negative min rate", func(in *LineInput) { in.MinSaleRate = d("-5") }},
		{"discount over 100", func(in *LineInput) { in.PurchaseDiscountPct = d("100.01") }},
		{"negative discount", func(in *LineInput) { in.SaleDiscountPct = d("-1") }},
		{"negative strip size", func(in *LineInput) { in.StripSize = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validLine()
			tc.mutate(&in)
			_, err := Derive(in, today)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestDeriveInvalidDateRange(t *testing.T) {
	in := validLine()
	in.ManufactureDate = today
	in.ExpireDate = today.AddDate(0, 0, -1)

	_, err := Derive(in, today)
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestDeriveDeterministic(t *testing.T) {
	in := validLine()
	in.PurchaseRate = d("37.77")
	in.PurchaseDiscountPct = d("12.5")
	in.SaleRate = d("45.45")
	in.SaleDiscountPct = d("7.25")
	in.MinSaleRate = d("45")

	first, err := Derive(in, today)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Derive(in, today)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestClassifyExpiryBoundaries(t *testing.T) {
	cases := []struct {
		name   string
		expire time.Time
		want   ExpiryStatus
	}{
		{"yesterday expired", today.AddDate(0, 0, -1), ExpiryExpired},
		{"today expiring soon", today, ExpirySoon},
		{"29 days expiring soon", today.AddDate(0, 0, 29), ExpirySoon},
		{"exactly 30 days normal", today.AddDate(0, 0, 30), ExpiryNormal},
		{"one year normal", today.AddDate(1, 0, 0), ExpiryNormal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyExpiry(tc.expire, today))
		})
	}
}

func TestDaysToExpireIgnoresClockTime(t *testing.T) {
	lateToday := time.Date(2026, 3, 15, 23, 59, 0, 0, time.UTC)
	earlyTomorrow := time.Date(2026, 3, 16, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysToExpire(earlyTomorrow, lateToday))
	assert.Equal(t, 0, DaysToExpire(lateToday, lateToday))
}
