package unit_test

import (
	"errors"
	"testing"

	"github.com/katalvlaran/unitgrid/unit"
)

// TestParse_Shapes covers accepted unit-text shapes.
func TestParse_Shapes(t *testing.T) {
	cases := []struct {
		in    string
		terms []unit.Term
	}{
		{"m", []unit.Term{{Symbol: "m", Exp: 1}}},
		{"mi/hr", []unit.Term{{Symbol: "mi", Exp: 1}, {Symbol: "hr", Exp: -1}}},
		{"kg*m/s^2", []unit.Term{{Symbol: "kg", Exp: 1}, {Symbol: "m", Exp: 1}, {Symbol: "s", Exp: -2}}},
		{"kg·m/s^2", []unit.Term{{Symbol: "kg", Exp: 1}, {Symbol: "m", Exp: 1}, {Symbol: "s", Exp: -2}}},
		{"ft^2", []unit.Term{{Symbol: "ft", Exp: 2}}},
		{"s^-1", []unit.Term{{Symbol: "s", Exp: -1}}},
		{"1/s", []unit.Term{{Symbol: "s", Exp: -1}}},
		{"USD/month", []unit.Term{{Symbol: "USD", Exp: 1}, {Symbol: "month", Exp: -1}}},
		{"m / s / s", []unit.Term{{Symbol: "m", Exp: 1}, {Symbol: "s", Exp: -2}}},
		{"", nil},
		{"   ", nil},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			u, err := unit.Parse(tc.in)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tc.in, err)
			}
			if len(u.Terms) != len(tc.terms) {
				t.Fatalf("Parse(%q) = %v; want %v", tc.in, u.Terms, tc.terms)
			}
			for i, want := range tc.terms {
				if u.Terms[i] != want {
					t.Errorf("Parse(%q)[%d] = %v; want %v", tc.in, i, u.Terms[i], want)
				}
			}
		})
	}
}

// TestParse_Errors rejects malformed unit text with ErrParse.
func TestParse_Errors(t *testing.T) {
	for _, in := range []string{"^2", "m^", "m^0", "m//s", "m&s", "2m"} {
		if _, err := unit.Parse(in); !errors.Is(err, unit.ErrParse) {
			t.Errorf("Parse(%q) err = %v; want ErrParse", in, err)
		}
	}
}

// TestParse_RoundTrip checks Parse(String(u)) == u.
func TestParse_RoundTrip(t *testing.T) {
	for _, text := range []string{"mi/hr", "kg·m/s^2", "ft^2", "1/s", "USD/month"} {
		u := unit.MustParse(text)
		rt, err := unit.Parse(u.String())
		if err != nil {
			t.Fatalf("re-parse %q: %v", u.String(), err)
		}
		if !rt.Equal(u) {
			t.Errorf("round-trip %q → %q; not equal", text, u.String())
		}
	}
}
