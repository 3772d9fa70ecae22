package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type (
	// Date is a plain calendar day (year-month-day) with no timezone.
	// The zero value is the zero time.
	Date struct {
		time.Time
	}

	// ClockTime is a time of day (hour:minute), kept separate from Date so
	// listings can order and display by date and time independently.
	ClockTime struct {
		Hour   int
		Minute int
	}

	// Money is an amount in integer paise. All arithmetic happens in paise;
	// decimal strings exist only at the parse/format boundary.
	Money struct {
		Paise int64
	}

	// Transaction is a single ledger record. It is immutable once created,
	// except for the Deleted soft-delete flag.
	Transaction struct {
		ID          int64
		Date        Date
		Time        ClockTime
		Item        string
		Amount      Money
		Note        string
		CreatedAtMs int64
		Deleted     bool
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyItem     = errors.New("empty item")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidTime   = errors.New("invalid time")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses the canonical "2006-01-02" form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String renders the canonical "2006-01-02" form used as the storage key.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// AddDays returns the date n days later (negative n goes back).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.AddDate(0, 0, n)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// NewClockTime creates a ClockTime without range checking; use Validate.
func NewClockTime(hour, minute int) ClockTime {
	return ClockTime{Hour: hour, Minute: minute}
}

// ParseClockTime parses the canonical 24-hour "15:04" form.
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return ClockTime{}, ErrInvalidTime
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// String renders the canonical 24-hour "15:04" form used as the storage key.
// Lexicographic order on this form matches chronological order.
func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Format12 renders the 12-hour display form, e.g. "14:05" -> "2:05 PM".
func (t ClockTime) Format12() string {
	suffix := "AM"
	if t.Hour >= 12 {
		suffix = "PM"
	}
	h := t.Hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, t.Minute, suffix)
}

func (t ClockTime) Validate() error {
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 {
		return ErrInvalidTime
	}
	return nil
}

// Validate checks the fields set by the caller at insert time. ID, CreatedAtMs
// and Deleted are owned by the store and not inspected here.
func (tx Transaction) Validate() error {
	if err := tx.Date.Validate(); err != nil {
		return err
	}
	if err := tx.Time.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(tx.Item)) == 0 {
		return ErrEmptyItem
	}
	if len(tx.Item) > 200 {
		return errors.New("item too long (max 200 characters)")
	}
	return tx.Amount.Validate()
}
