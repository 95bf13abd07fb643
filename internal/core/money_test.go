package core

import (
	"math"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{"1.004", 100, true},
		{" 2.50 ", 250, true},
		{".5", 50, true},
		{"0", 0, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{".", 0, false},
		{"1000000000000", 100000000000000, true},
		{"1000000000000.99", 100000000000099, true},
		{"1000000000001", 0, false},
		{"90000000000000000", 0, false},
		{"99999999999999999999", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("%q: unexpected error %v", tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
		if got != tc.out {
			t.Fatalf("%q: got %d want %d", tc.in, got, tc.out)
		}
	}
}

func TestParseAmountLenient(t *testing.T) {
	if m := ParseAmount("abc"); !m.IsZero() {
		t.Fatalf("garbage should be zero, got %v", m)
	}
	if m := ParseAmount("12.5"); m.Cents != 1250 {
		t.Fatalf("got %d", m.Cents)
	}
}

func TestMoneyString(t *testing.T) {
	cases := map[int64]string{
		266500: "2665",
		1250:   "12.50",
		5:      "0.05",
		0:      "0",
		-3500:  "-35",
		-1:     "-0.01",
	}
	for cents, want := range cases {
		if got := (Money{Cents: cents}).String(); got != want {
			t.Fatalf("%d: got %q want %q", cents, got, want)
		}
	}
}

func TestMoneySaturates(t *testing.T) {
	top := Money{Cents: math.MaxInt64 - 1}
	if got := top.Add(Money{Cents: 10}); got.Cents != math.MaxInt64 {
		t.Fatalf("add: got %d", got.Cents)
	}
	bottom := Money{Cents: math.MinInt64 + 1}
	if got := bottom.Add(Money{Cents: -10}); got.Cents != math.MinInt64 {
		t.Fatalf("add negative: got %d", got.Cents)
	}
	if got := bottom.Sub(Money{Cents: 10}); got.Cents != math.MinInt64 {
		t.Fatalf("sub: got %d", got.Cents)
	}
	if got := top.Sub(Money{Cents: -10}); got.Cents != math.MaxInt64 {
		t.Fatalf("sub negative: got %d", got.Cents)
	}
	if got := (Money{Cents: 500}).Sub(Money{Cents: 700}); got.Cents != -200 {
		t.Fatalf("plain sub: got %d", got.Cents)
	}
}
