// Package split computes how a shared household expense divides between
// two partners in proportion to their incomes.
package split

import (
	"github.com/shopspring/decimal"

	"bilancio/internal/core"
)

// Partner is one side of the split: a display name and a monthly income.
type Partner struct {
	Name   string
	Income core.Money
}

// Share is the computed outcome for one partner.
type Share struct {
	Name  string
	Owes  core.Money
	Ratio decimal.Decimal
}

// Proportional divides total between a and b in proportion to their
// incomes. The two shares always sum exactly to the total: the first
// share is rounded half-up to the cent and the second takes the rest.
// Two zero incomes split evenly.
func Proportional(total core.Money, a, b Partner) (Share, Share, error) {
	if total.Cents < 0 || a.Income.Cents < 0 || b.Income.Cents < 0 {
		return Share{}, Share{}, core.ErrInvalidAmount
	}

	incomeA := decimal.NewFromInt(a.Income.Cents)
	incomeB := decimal.NewFromInt(b.Income.Cents)
	combined := incomeA.Add(incomeB)

	var ratioA decimal.Decimal
	if combined.IsZero() {
		ratioA = decimal.NewFromFloat(0.5)
	} else {
		ratioA = incomeA.DivRound(combined, 8)
	}
	ratioB := decimal.NewFromInt(1).Sub(ratioA)

	owesA := decimal.NewFromInt(total.Cents).Mul(ratioA).Round(0).IntPart()
	owesB := total.Cents - owesA

	return Share{Name: a.Name, Owes: core.Money{Cents: owesA}, Ratio: ratioA},
		Share{Name: b.Name, Owes: core.Money{Cents: owesB}, Ratio: ratioB},
		nil
}
