package formula_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/katalvlaran/unitgrid/formula"
)

// TestParse_Normalized drives the parser through representative formulas
// and pins the normalized String rendering (structure + precedence).
func TestParse_Normalized(t *testing.T) {
	cases := []struct{ in, want string }{
		{"=1+2*3", "(1+(2*3))"},
		{"=(1+2)*3", "((1+2)*3)"},
		{"=2^3^2", "(2^(3^2))"},          // right-associative
		{"=-2^2", "(-2^2)"},              // unary minus binds tighter than ^
		{"=A1*A2", "(A1*A2)"},
		{"=a1/b2", "(A1/B2)"},            // addresses normalize upper-case
		{"=A1:B5", "A1:B5"},
		{"=B5:A1", "A1:B5"},              // ranges normalize corners
		{"=sum(A1:A5)", "SUM(A1:A5)"},    // function names upper-case
		{"=SUM(A1,A2, A3)", "SUM(A1,A2,A3)"},
		{"=total_costs+1", "(total_costs+1)"},
		{"=100 ft", "100 ft"},
		{"=9.8 m/s^2", "9.8 m/s^2"},
		{"=100 ft / 2", "(100 ft/2)"},    // spaced slash stays division
		{"=1.5e3", "1500"},
		{"=\"a\"\"b\"", "\"a\"\"b\""},
		{"=A1<>A2", "(A1<>A2)"},
		{"=A1<=3", "(A1<=3)"},
		{"1+1", "(1+1)"},                 // leading "=" optional
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			ast, err := formula.Parse(tc.in)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tc.in, err)
			}
			if got := ast.String(); got != tc.want {
				t.Errorf("Parse(%q) = %s; want %s", tc.in, got, tc.want)
			}
		})
	}
}

// TestParse_UnitSuffix inspects the literal node directly.
func TestParse_UnitSuffix(t *testing.T) {
	ast, err := formula.Parse("=100 ft")
	if err != nil {
		t.Fatal(err)
	}
	num, ok := ast.(*formula.Number)
	if !ok {
		t.Fatalf("node = %T; want *Number", ast)
	}
	if num.Value != 100 || num.UnitText != "ft" {
		t.Errorf("literal = %v %q; want 100 ft", num.Value, num.UnitText)
	}

	ast, err = formula.Parse("=2 mi/hr * 3")
	if err != nil {
		t.Fatal(err)
	}
	bin, ok := ast.(*formula.Binary)
	if !ok || bin.Op != formula.OpMul {
		t.Fatalf("node = %v; want multiplication", ast)
	}
	if num = bin.L.(*formula.Number); num.UnitText != "mi/hr" {
		t.Errorf("unit text = %q; want mi/hr", num.UnitText)
	}
}

// TestParse_Errors returns *ParseError values, never panics.
func TestParse_Errors(t *testing.T) {
	bad := []string{
		"=1+", "=(1", "=SUM(1,", "=SUM(1 2)", "=&", "=\"abc", "=1..2", "=:A1", "",
	}
	for _, in := range bad {
		_, err := formula.Parse(in)
		if !errors.Is(err, formula.ErrParse) {
			t.Errorf("Parse(%q) err = %v; want ErrParse", in, err)
		}
		var pe *formula.ParseError
		if !errors.As(err, &pe) {
			t.Errorf("Parse(%q) err = %T; want *ParseError", in, err)
		}
	}
}

// TestReferences extracts cells, ranges and names in source order.
// TestParse_DeepNesting pins the nesting guard: a formula nested past
// MaxNestingDepth returns a ParseError instead of overflowing the stack,
// and one just inside the bound still parses.
func TestParse_DeepNesting(t *testing.T) {
	deep := "=" + strings.Repeat("(", 100000) + "1" + strings.Repeat(")", 100000)
	if _, err := formula.Parse(deep); !errors.Is(err, formula.ErrParse) {
		t.Fatalf("deep parse err = %v; want ErrParse", err)
	}

	n := formula.MaxNestingDepth - 1
	ok := "=" + strings.Repeat("(", n) + "1" + strings.Repeat(")", n)
	if _, err := formula.Parse(ok); err != nil {
		t.Fatalf("parse at bound: %v", err)
	}

	// Chained unary signs recurse per sign and are bounded too.
	if _, err := formula.Parse("=" + strings.Repeat("-", 100000) + "1"); !errors.Is(err, formula.ErrParse) {
		t.Fatalf("deep unary err = %v; want ErrParse", err)
	}
}

func TestReferences(t *testing.T) {
	ast, err := formula.Parse("=A1 + SUM(B1:B3, revenue) * A1")
	if err != nil {
		t.Fatal(err)
	}
	refs := formula.References(ast)
	if len(refs) != 4 {
		t.Fatalf("len(refs) = %d; want 4: %+v", len(refs), refs)
	}
	if refs[0].Kind != formula.RefCell || refs[0].Cell.String() != "A1" {
		t.Errorf("refs[0] = %+v; want cell A1", refs[0])
	}
	if refs[1].Kind != formula.RefRange || refs[1].Range.String() != "B1:B3" {
		t.Errorf("refs[1] = %+v; want range B1:B3", refs[1])
	}
	if refs[2].Kind != formula.RefName || refs[2].Name != "revenue" {
		t.Errorf("refs[2] = %+v; want name revenue", refs[2])
	}
	if refs[3].Kind != formula.RefCell || refs[3].Cell.String() != "A1" {
		t.Errorf("refs[3] = %+v; want cell A1 (duplicates kept)", refs[3])
	}
}

// TestParseAddress exercises the A1 address codec.
func TestParseAddress(t *testing.T) {
	cases := []struct {
		in       string
		col, row int
	}{
		{"A1", 0, 0}, {"B5", 1, 4}, {"Z9", 25, 8}, {"AA1", 26, 0}, {"AB10", 27, 9},
	}
	for _, tc := range cases {
		a, err := formula.ParseAddress(tc.in)
		if err != nil {
			t.Fatalf("ParseAddress(%q): %v", tc.in, err)
		}
		if a.Col != tc.col || a.Row != tc.row {
			t.Errorf("ParseAddress(%q) = %+v; want col %d row %d", tc.in, a, tc.col, tc.row)
		}
		if a.String() != tc.in {
			t.Errorf("String() = %q; want %q", a.String(), tc.in)
		}
	}
	for _, in := range []string{"", "A", "1", "A0", "A1B", "$A$1"} {
		if _, err := formula.ParseAddress(in); !errors.Is(err, formula.ErrAddress) {
			t.Errorf("ParseAddress(%q) err = %v; want ErrAddress", in, err)
		}
	}
}

// TestRange_CellsAndContains checks range expansion order and membership.
func TestRange_CellsAndContains(t *testing.T) {
	a1, _ := formula.ParseAddress("A1")
	b2, _ := formula.ParseAddress("B2")
	r := formula.NewRange(b2, a1) // reversed corners normalize

	cells := r.Cells()
	want := []string{"A1", "B1", "A2", "B2"} // row-major
	if len(cells) != len(want) {
		t.Fatalf("len(cells) = %d; want %d", len(cells), len(want))
	}
	for i, w := range want {
		if cells[i].String() != w {
			t.Errorf("cells[%d] = %s; want %s", i, cells[i], w)
		}
	}

	if !r.Contains(a1) || !r.Contains(b2) {
		t.Error("corners must be contained")
	}
	c3, _ := formula.ParseAddress("C3")
	if r.Contains(c3) {
		t.Error("C3 must not be contained in A1:B2")
	}
}
