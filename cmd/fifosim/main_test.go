package main

import "testing"

func TestParseCapacity(t *testing.T) {
	cases := []struct {
		name string
		arg  string
		def  int
		want int
	}{
		{"empty uses default", "", 10, 10},
		{"non-numeric uses default", "abc", 10, 10},
		{"numeric kept", "50", 10, 50},
		{"zero raised to minimum", "0", 10, 1},
		{"negative raised to minimum", "-5", 10, 1},
		{"huge clamped to maximum", "200000", 10, 100000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := parseCapacity(tc.arg, tc.def); got != tc.want {
				t.Errorf("parseCapacity(%q, %d) = %d, want %d", tc.arg, tc.def, got, tc.want)
			}
		})
	}
}
