// Package reports composes ledger aggregation into the three spend report
// cards (week, month, year): a running total plus a chart-ready series.
package reports

import (
	"context"
	"fmt"
	"strconv"

	"txtracker/internal/core"
)

// Aggregator is the slice of the ledger store the report service needs.
type Aggregator interface {
	SumInRange(ctx context.Context, start, end core.Date) (int64, error)
	DailyTotals(ctx context.Context, start core.Date, days int) ([]int64, error)
	MonthlyTotals(ctx context.Context, yearStart core.Date) ([]int64, error)
}

// Report is one card: the period total in paise and the series for charting.
// Values are in rupees (floats) because they only feed the chart pipeline;
// TotalPaise stays integral.
type Report struct {
	Title      string
	TotalPaise int64
	Values     []float64
	Labels     []string
}

var (
	weekLabels  = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	monthLabels = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
)

type Service struct {
	store Aggregator
}

func NewService(store Aggregator) *Service {
	return &Service{store: store}
}

// Week reports the calendar week containing today (Sunday start): total spend
// up to today inclusive, and the seven daily totals.
func (s *Service) Week(ctx context.Context, today core.Date) (Report, error) {
	start := core.StartOfWeekSunday(today)

	total, err := s.store.SumInRange(ctx, start, today.AddDays(1))
	if err != nil {
		return Report{}, fmt.Errorf("week total: %w", err)
	}
	daily, err := s.store.DailyTotals(ctx, start, 7)
	if err != nil {
		return Report{}, fmt.Errorf("week series: %w", err)
	}

	return Report{
		Title:      "This Week",
		TotalPaise: total,
		Values:     toRupees(daily),
		Labels:     weekLabels,
	}, nil
}

// Month reports today's calendar month with one series point per day.
func (s *Service) Month(ctx context.Context, today core.Date) (Report, error) {
	start := core.StartOfMonth(today)
	days := core.DaysInMonth(today)

	total, err := s.store.SumInRange(ctx, start, today.AddDays(1))
	if err != nil {
		return Report{}, fmt.Errorf("month total: %w", err)
	}
	daily, err := s.store.DailyTotals(ctx, start, days)
	if err != nil {
		return Report{}, fmt.Errorf("month series: %w", err)
	}

	labels := make([]string, days)
	for i := range labels {
		labels[i] = strconv.Itoa(i + 1)
	}

	return Report{
		Title:      "This Month",
		TotalPaise: total,
		Values:     toRupees(daily),
		Labels:     labels,
	}, nil
}

// Year reports today's calendar year with one series point per month.
func (s *Service) Year(ctx context.Context, today core.Date) (Report, error) {
	start := core.StartOfYear(today)

	total, err := s.store.SumInRange(ctx, start, today.AddDays(1))
	if err != nil {
		return Report{}, fmt.Errorf("year total: %w", err)
	}
	monthly, err := s.store.MonthlyTotals(ctx, start)
	if err != nil {
		return Report{}, fmt.Errorf("year series: %w", err)
	}

	return Report{
		Title:      "This Year",
		TotalPaise: total,
		Values:     toRupees(monthly),
		Labels:     monthLabels,
	}, nil
}

func toRupees(paise []int64) []float64 {
	out := make([]float64, len(paise))
	for i, p := range paise {
		out[i] = core.Money{Paise: p}.Rupees()
	}
	return out
}
