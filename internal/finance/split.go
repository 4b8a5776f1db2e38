// Package finance holds the pure computation core: installment splitting,
// late-fee accrual and per-customer debt aggregation. Everything here is a
// deterministic function of its inputs; no clock reads, no storage access.
package finance

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SplitInstallments divides total into n parts rounded up to the cent, with
// the last installment absorbing the rounding remainder so that the parts
// always sum to total exactly.
func SplitInstallments(total decimal.Decimal, n int) ([]decimal.Decimal, error) {
	if n < 1 {
		return nil, fmt.Errorf("installment count must be >= 1, got %d", n)
	}
	if !total.IsPositive() {
		return nil, fmt.Errorf("total must be positive, got %s", total)
	}

	per := total.Div(decimal.NewFromInt(int64(n))).RoundCeil(2)
	last := total.Sub(per.Mul(decimal.NewFromInt(int64(n - 1))))

	out := make([]decimal.Decimal, n)
	for i := 0; i < n-1; i++ {
		out[i] = per
	}
	out[n-1] = last
	return out, nil
}

// InstallmentDueDates returns n due dates, the i-th advanced from first by i
// calendar months. AddDate normalizes month-end overflow (Jan 31 + 1 month
// lands in early March), matching how the renegotiation schedule has always
// been computed.
func InstallmentDueDates(first time.Time, n int) []time.Time {
	dates := make([]time.Time, n)
	for i := 0; i < n; i++ {
		dates[i] = first.AddDate(0, i, 0)
	}
	return dates
}
