package finance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSplitInstallments_SumIsExact(t *testing.T) {
	totals := []string{"100.00", "0.01", "1.00", "999.99", "1234.56", "3333.33", "10000.00"}

	for _, ts := range totals {
		total := dec(ts)
		for n := 1; n <= 24; n++ {
			parts, err := SplitInstallments(total, n)
			if err != nil {
				t.Fatalf("split %s into %d: %v", ts, n, err)
			}
			if len(parts) != n {
				t.Fatalf("split %s into %d: got %d parts", ts, n, len(parts))
			}

			sum := decimal.Zero
			for _, p := range parts {
				sum = sum.Add(p)
			}
			if !sum.Equal(total) {
				t.Fatalf("split %s into %d: parts sum to %s", ts, n, sum)
			}
		}
	}
}

func TestSplitInstallments_LastAbsorbsRemainder(t *testing.T) {
	parts, err := SplitInstallments(dec("100.00"), 3)
	if err != nil {
		t.Fatalf("split: %v", err)
	}

	if !parts[0].Equal(dec("33.34")) || !parts[1].Equal(dec("33.34")) {
		t.Fatalf("expected first installments of 33.34, got %s and %s", parts[0], parts[1])
	}
	if !parts[2].Equal(dec("33.32")) {
		t.Fatalf("expected last installment of 33.32, got %s", parts[2])
	}
}

func TestSplitInstallments_RejectsBadInput(t *testing.T) {
	if _, err := SplitInstallments(dec("100.00"), 0); err == nil {
		t.Fatalf("expected error for zero installments")
	}
	if _, err := SplitInstallments(dec("0"), 3); err == nil {
		t.Fatalf("expected error for zero total")
	}
	if _, err := SplitInstallments(dec("-5.00"), 2); err == nil {
		t.Fatalf("expected error for negative total")
	}
}

func TestInstallmentDueDates_MonthRollover(t *testing.T) {
	first := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	dates := InstallmentDueDates(first, 3)

	if !dates[0].Equal(first) {
		t.Fatalf("first due date changed: %v", dates[0])
	}
	// Jan 31 + 1 month normalizes past February (leap year: Feb 29 + 2 days).
	if got := dates[1]; got != time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("second due date: got %v", got)
	}
	if got := dates[2]; got != time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("third due date: got %v", got)
	}
}

func TestInstallmentDueDates_PlainMonths(t *testing.T) {
	first := time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC)
	dates := InstallmentDueDates(first, 4)
	for i, d := range dates {
		want := time.Date(2024, time.Month(5+i), 15, 0, 0, 0, 0, time.UTC)
		if d != want {
			t.Fatalf("installment %d: got %v, want %v", i, d, want)
		}
	}
}
