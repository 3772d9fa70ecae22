package reports

import (
	"context"
	"testing"

	"txtracker/internal/core"
)

// fakeAggregator records the ranges it was asked for and returns canned sums.
type fakeAggregator struct {
	sumStart, sumEnd core.Date
	dailyStart       core.Date
	dailyDays        int
	monthlyStart     core.Date
	sum              int64
	daily            []int64
	monthly          []int64
}

func (f *fakeAggregator) SumInRange(_ context.Context, start, end core.Date) (int64, error) {
	f.sumStart, f.sumEnd = start, end
	return f.sum, nil
}

func (f *fakeAggregator) DailyTotals(_ context.Context, start core.Date, days int) ([]int64, error) {
	f.dailyStart, f.dailyDays = start, days
	return f.daily, nil
}

func (f *fakeAggregator) MonthlyTotals(_ context.Context, yearStart core.Date) ([]int64, error) {
	f.monthlyStart = yearStart
	return f.monthly, nil
}

func TestWeekReport(t *testing.T) {
	fake := &fakeAggregator{sum: 1050, daily: []int64{0, 0, 500, 0, 550, 0, 0}}
	svc := NewService(fake)

	// Saturday 2024-06-15: week starts Sunday 2024-06-09.
	rep, err := svc.Week(context.Background(), core.NewDate(2024, 6, 15))
	if err != nil {
		t.Fatalf("week: %v", err)
	}
	if fake.sumStart.String() != "2024-06-09" || fake.sumEnd.String() != "2024-06-16" {
		t.Fatalf("sum range [%s, %s)", fake.sumStart, fake.sumEnd)
	}
	if fake.dailyStart.String() != "2024-06-09" || fake.dailyDays != 7 {
		t.Fatalf("daily query start=%s days=%d", fake.dailyStart, fake.dailyDays)
	}
	if rep.TotalPaise != 1050 {
		t.Fatalf("total = %d", rep.TotalPaise)
	}
	if len(rep.Values) != 7 || rep.Values[2] != 5.0 || rep.Values[4] != 5.5 {
		t.Fatalf("values = %v", rep.Values)
	}
	if len(rep.Labels) != 7 || rep.Labels[0] != "Sun" || rep.Labels[6] != "Sat" {
		t.Fatalf("labels = %v", rep.Labels)
	}
}

func TestMonthReport(t *testing.T) {
	daily := make([]int64, 30)
	daily[14] = 1500
	fake := &fakeAggregator{sum: 1500, daily: daily}
	svc := NewService(fake)

	rep, err := svc.Month(context.Background(), core.NewDate(2024, 6, 15))
	if err != nil {
		t.Fatalf("month: %v", err)
	}
	if fake.dailyStart.String() != "2024-06-01" || fake.dailyDays != 30 {
		t.Fatalf("daily query start=%s days=%d", fake.dailyStart, fake.dailyDays)
	}
	if fake.sumEnd.String() != "2024-06-16" {
		t.Fatalf("sum end = %s, want day after today", fake.sumEnd)
	}
	if len(rep.Labels) != 30 || rep.Labels[0] != "1" || rep.Labels[29] != "30" {
		t.Fatalf("labels = %v", rep.Labels)
	}
	if rep.Values[14] != 15.0 {
		t.Fatalf("values[14] = %v", rep.Values[14])
	}
}

func TestYearReport(t *testing.T) {
	monthly := make([]int64, 12)
	monthly[0] = 1000
	monthly[5] = 1200
	fake := &fakeAggregator{sum: 2200, monthly: monthly}
	svc := NewService(fake)

	rep, err := svc.Year(context.Background(), core.NewDate(2024, 6, 15))
	if err != nil {
		t.Fatalf("year: %v", err)
	}
	if fake.monthlyStart.String() != "2024-01-01" {
		t.Fatalf("monthly query start = %s", fake.monthlyStart)
	}
	if rep.TotalPaise != 2200 {
		t.Fatalf("total = %d", rep.TotalPaise)
	}
	if len(rep.Labels) != 12 || rep.Labels[0] != "Jan" || rep.Labels[11] != "Dec" {
		t.Fatalf("labels = %v", rep.Labels)
	}
	if rep.Values[0] != 10.0 || rep.Values[5] != 12.0 {
		t.Fatalf("values = %v", rep.Values)
	}
}
