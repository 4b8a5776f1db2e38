package finance

import (
	"testing"
	"time"
)

func TestComputeLateCharge_ZeroBeforeDueDate(t *testing.T) {
	due := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	c := ComputeLateCharge(dec("1000.00"), dec("2"), dec("1"), due, now)

	if c.DaysLate != 0 {
		t.Fatalf("days late: got %d", c.DaysLate)
	}
	if !c.Penalty.IsZero() || !c.Interest.IsZero() {
		t.Fatalf("expected zero charges, got penalty=%s interest=%s", c.Penalty, c.Interest)
	}
	if !c.Total.Equal(dec("1000.00")) {
		t.Fatalf("total: got %s", c.Total)
	}
}

func TestComputeLateCharge_FortyDaysLate(t *testing.T) {
	due := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	now := due.AddDate(0, 0, 40)

	c := ComputeLateCharge(dec("1000.00"), dec("2"), dec("1"), due, now)

	if c.DaysLate != 40 {
		t.Fatalf("days late: got %d", c.DaysLate)
	}
	if c.MonthsLate != 2 {
		t.Fatalf("months late: got %d, want ceil(40/30)=2", c.MonthsLate)
	}
	if !c.Penalty.Equal(dec("20.00")) {
		t.Fatalf("penalty: got %s, want 20.00", c.Penalty)
	}
	if !c.Interest.Equal(dec("20.00")) {
		t.Fatalf("interest: got %s, want 20.00", c.Interest)
	}
	if !c.Total.Equal(dec("1040.00")) {
		t.Fatalf("total: got %s, want 1040.00", c.Total)
	}
}

func TestComputeLateCharge_PenaltyIsFlat(t *testing.T) {
	due := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	one := ComputeLateCharge(dec("500.00"), dec("2"), dec("0"), due, due.AddDate(0, 0, 1))
	long := ComputeLateCharge(dec("500.00"), dec("2"), dec("0"), due, due.AddDate(0, 0, 200))

	if !one.Penalty.Equal(long.Penalty) {
		t.Fatalf("penalty should not grow with lateness: %s vs %s", one.Penalty, long.Penalty)
	}
	if !one.Penalty.Equal(dec("10.00")) {
		t.Fatalf("penalty: got %s, want 10.00", one.Penalty)
	}
}

func TestDaysLate_FloorsPartialDays(t *testing.T) {
	due := time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)
	now := due.Add(36 * time.Hour)
	if got := DaysLate(due, now); got != 1 {
		t.Fatalf("days late: got %d, want 1", got)
	}
}
