package unit_test

import (
	"testing"

	"github.com/katalvlaran/unitgrid/unit"
)

// TestMul_Cancellation verifies that mi/hr · hr cancels down to mi.
func TestMul_Cancellation(t *testing.T) {
	speed := unit.MustParse("mi/hr")
	hours := unit.Simple("hr")
	got := speed.Mul(hours)
	if !got.Equal(unit.Simple("mi")) {
		t.Errorf("mi/hr · hr = %q; want mi", got)
	}
}

// TestMul_SelfInverse checks simplify(u · u⁻¹) == dimensionless for every
// shape of u, compound units included.
func TestMul_SelfInverse(t *testing.T) {
	for _, text := range []string{"m", "mi/hr", "kg*m/s^2", "USD/month", "ft^2", "1/s"} {
		u := unit.MustParse(text)
		if got := u.Mul(u.Pow(-1)); !got.IsDimensionless() {
			t.Errorf("%s · %s^-1 = %q; want dimensionless", text, text, got)
		}
	}
}

// TestPow covers exponent bookkeeping, including the n == 0 rule.
func TestPow(t *testing.T) {
	ft := unit.Simple("ft")
	if got := ft.Pow(2); got.Terms[0].Exp != 2 {
		t.Errorf("ft^2 exponent = %d; want 2", got.Terms[0].Exp)
	}
	speed := unit.MustParse("mi/hr")
	sq := speed.Pow(2)
	if !sq.Equal(unit.MustParse("mi^2/hr^2")) {
		t.Errorf("(mi/hr)^2 = %q; want mi^2/hr^2", sq)
	}
	if got := speed.Pow(0); !got.IsDimensionless() {
		t.Errorf("(mi/hr)^0 = %q; want dimensionless", got)
	}
}

// TestPow_ComposesWithTermExponent guards the historical bug class: a term
// that already carries exponent 2 and an explicit outer power must compose
// multiplicatively, never drop either exponent.
func TestPow_ComposesWithTermExponent(t *testing.T) {
	area := unit.MustParse("ft^2")
	if got := area.Pow(3); !got.Equal(unit.MustParse("ft^6")) {
		t.Errorf("(ft^2)^3 = %q; want ft^6", got)
	}
	if got := area.Pow(-1); !got.Equal(unit.MustParse("1/ft^2")) {
		t.Errorf("(ft^2)^-1 = %q; want 1/ft^2", got)
	}
	// (X)² with X == ft^2 equals multiplying the two together
	if got := area.Mul(area); !got.Equal(area.Pow(2)) {
		t.Errorf("ft^2 · ft^2 = %q; want (ft^2)^2", got)
	}
}

// TestSimplify_MergesAndDrops verifies exponent summing and zero dropping.
func TestSimplify_MergesAndDrops(t *testing.T) {
	u := unit.Unit{Terms: []unit.Term{
		{Symbol: "m", Exp: 1},
		{Symbol: "s", Exp: -1},
		{Symbol: "m", Exp: 1},
		{Symbol: "s", Exp: 1},
	}}
	s := u.Simplify()
	if !s.Equal(unit.MustParse("m^2")) {
		t.Errorf("simplify = %q; want m^2", s)
	}
	// first-appearance order preserved
	if s.Terms[0].Symbol != "m" {
		t.Errorf("first term = %q; want m", s.Terms[0].Symbol)
	}
}

// TestDiv checks that Div is Mul by the inverse.
func TestDiv(t *testing.T) {
	mi := unit.Simple("mi")
	hr := unit.Simple("hr")
	if got := mi.Div(hr); !got.Equal(unit.MustParse("mi/hr")) {
		t.Errorf("mi/hr = %q", got)
	}
	if got := mi.Div(mi); !got.IsDimensionless() {
		t.Errorf("mi/mi = %q; want dimensionless", got)
	}
}

// TestString pins the canonical rendering.
func TestString(t *testing.T) {
	cases := []struct{ in, want string }{
		{"mi/hr", "mi/hr"},
		{"kg*m/s^2", "kg·m/s^2"},
		{"1/s", "1/s"},
		{"ft^2", "ft^2"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := unit.MustParse(tc.in).String(); got != tc.want {
			t.Errorf("String(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}
