package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LateCharge is the advisory breakdown of what a note is worth at a given
// instant. It pre-populates the amount the operator is asked to confirm when
// receiving or renegotiating; it is never persisted by itself.
type LateCharge struct {
	DaysLate   int
	MonthsLate int

	Principal decimal.Decimal
	Penalty   decimal.Decimal
	Interest  decimal.Decimal
	Total     decimal.Decimal
}

// DaysLate is the number of whole days now is past due, never negative.
func DaysLate(dueDate, now time.Time) int {
	d := int(now.Sub(dueDate).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// ComputeLateCharge applies the flat penalty plus interest per 30-day bucket.
// The penalty is charged once, not prorated; interest uses ceil(days/30)
// buckets rather than calendar months.
func ComputeLateCharge(principal, penaltyRate, interestRate decimal.Decimal, dueDate, now time.Time) LateCharge {
	days := DaysLate(dueDate, now)

	c := LateCharge{
		DaysLate:  days,
		Principal: principal,
		Penalty:   decimal.Zero,
		Interest:  decimal.Zero,
	}

	if days > 0 {
		c.MonthsLate = (days + 29) / 30
		c.Penalty = principal.Mul(penaltyRate).Div(hundred).Round(2)
		c.Interest = principal.Mul(interestRate).Div(hundred).
			Mul(decimal.NewFromInt(int64(c.MonthsLate))).Round(2)
	}

	c.Total = principal.Add(c.Penalty).Add(c.Interest)
	return c
}
