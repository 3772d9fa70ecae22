package core

import (
	"strings"
	"testing"
)

func TestDateParseAndString(t *testing.T) {
	d, err := ParseDate("2024-06-15")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.String() != "2024-06-15" {
		t.Fatalf("got %q", d.String())
	}
	if _, err := ParseDate("15/06/2024"); err == nil {
		t.Fatalf("expected error for wrong format")
	}
}

func TestClockTime(t *testing.T) {
	cases := []struct {
		in     string
		str    string
		twelve string
	}{
		{"00:05", "00:05", "12:05 AM"},
		{"09:30", "09:30", "9:30 AM"},
		{"12:00", "12:00", "12:00 PM"},
		{"14:05", "14:05", "2:05 PM"},
		{"23:59", "23:59", "11:59 PM"},
	}
	for _, tc := range cases {
		ct, err := ParseClockTime(tc.in)
		if err != nil {
			t.Fatalf("%q: %v", tc.in, err)
		}
		if ct.String() != tc.str {
			t.Fatalf("%q String() = %q, want %q", tc.in, ct.String(), tc.str)
		}
		if ct.Format12() != tc.twelve {
			t.Fatalf("%q Format12() = %q, want %q", tc.in, ct.Format12(), tc.twelve)
		}
	}
	if _, err := ParseClockTime("24:00"); err == nil {
		t.Fatalf("expected error for 24:00")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Date:   NewDate(2024, 6, 15),
		Time:   NewClockTime(14, 5),
		Item:   "groceries",
		Amount: Money{Paise: 1050},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Date: Date{}, Time: NewClockTime(1, 0), Item: "a", Amount: Money{Paise: 1}},
		{Date: NewDate(2024, 1, 1), Time: NewClockTime(25, 0), Item: "a", Amount: Money{Paise: 1}},
		{Date: NewDate(2024, 1, 1), Time: NewClockTime(1, 0), Item: "  ", Amount: Money{Paise: 1}},
		{Date: NewDate(2024, 1, 1), Time: NewClockTime(1, 0), Item: strings.Repeat("x", 201), Amount: Money{Paise: 1}},
		{Date: NewDate(2024, 1, 1), Time: NewClockTime(1, 0), Item: "a", Amount: Money{Paise: 0}},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
