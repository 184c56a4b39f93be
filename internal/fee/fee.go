package fee

import "github.com/shopspring/decimal"

// Tier is one row of the fee table: amounts in [Min, Max] pay Rate of the
// amount, capped at Cap. A nil Max means the tier is unbounded above.
type Tier struct {
	Min  decimal.Decimal
	Max  *decimal.Decimal
	Rate decimal.Decimal
	Cap  decimal.Decimal
}

type Calculator struct {
	tiers []Tier
}

// New builds a calculator from an ordered tier table. The table is expected
// to partition (0, +inf) without gaps or overlaps.
func New(tiers []Tier) *Calculator {
	return &Calculator{tiers: tiers}
}

// DefaultTiers is the canonical six-tier fee table.
func DefaultTiers() []Tier {
	d := decimal.RequireFromString
	max := func(s string) *decimal.Decimal {
		v := d(s)
		return &v
	}
	return []Tier{
		{Min: d("0.00"), Max: max("2000.00"), Rate: d("0"), Cap: d("0.00")},
		{Min: d("2000.01"), Max: max("10000.00"), Rate: d("0.0025"), Cap: d("20.00")},
		{Min: d("10000.01"), Max: max("20000.00"), Rate: d("0.0020"), Cap: d("25.00")},
		{Min: d("20000.01"), Max: max("50000.00"), Rate: d("0.00125"), Cap: d("40.00")},
		{Min: d("50000.01"), Max: max("100000.00"), Rate: d("0.0008"), Cap: d("50.00")},
		{Min: d("100000.01"), Max: nil, Rate: d("0.0005"), Cap: d("100.00")},
	}
}

// Fee returns the fee for amount, rounded half away from zero to 2 decimal
// places. Non-positive amounts cost nothing.
func (c *Calculator) Fee(amount decimal.Decimal) decimal.Decimal {
	if amount.Sign() <= 0 {
		return decimal.Zero
	}
	for _, t := range c.tiers {
		if amount.Cmp(t.Min) < 0 {
			continue
		}
		if t.Max != nil && amount.Cmp(*t.Max) > 0 {
			continue
		}
		fee := amount.Mul(t.Rate)
		if fee.Cmp(t.Cap) > 0 {
			fee = t.Cap
		}
		return fee.Round(2)
	}
	return decimal.Zero
}
