package core

import "testing"

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
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestFormatEuros(t *testing.T) {
	cases := []struct {
		in  float64
		out string
	}{
		{0, "0,00"},
		{50, "50,00"},
		{50.5, "50,50"},
		{999.99, "999,99"},
		{1234.5, "1.234,50"},
		{1234567.89, "1.234.567,89"},
		{-42.1, "-42,10"},
	}
	for _, tc := range cases {
		if got := FormatEuros(tc.in); got != tc.out {
			t.Errorf("FormatEuros(%v) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestMoneyEuros(t *testing.T) {
	m := Money{Cents: 1234}
	if got := m.Euros(); got != 12.34 {
		t.Errorf("Euros() = %v, want 12.34", got)
	}
}
