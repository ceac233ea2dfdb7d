package sheet_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/unitgrid/convert"
	"github.com/katalvlaran/unitgrid/eval"
	"github.com/katalvlaran/unitgrid/formula"
	"github.com/katalvlaran/unitgrid/sheet"
	"github.com/katalvlaran/unitgrid/unit"
)

type EngineSuite struct {
	suite.Suite
	eng *sheet.Engine
}

func (s *EngineSuite) SetupTest() {
	reg, err := unit.NewRegistry()
	s.Require().NoError(err)
	cg, err := convert.NewGraph(reg)
	s.Require().NoError(err)
	s.eng, err = sheet.NewEngine(reg, cg)
	s.Require().NoError(err)
}

func (s *EngineSuite) set(ref, raw string) eval.Value {
	v, err := s.eng.Set(ref, raw)
	s.Require().NoError(err)
	return v
}

func (s *EngineSuite) value(ref string) eval.Value {
	v, err := s.eng.Value(ref)
	s.Require().NoError(err)
	return v
}

// number asserts ref holds a number and returns it with its unit label.
func (s *EngineSuite) number(ref string) (float64, string) {
	v := s.value(ref)
	s.Require().Equal(eval.KindNumber, v.Kind, "cell %s: %s", ref, v)
	return v.Number, v.Unit.String()
}

func (s *EngineSuite) errKind(ref string) eval.ErrorKind {
	v := s.value(ref)
	s.Require().Equal(eval.KindError, v.Kind, "cell %s: %s", ref, v)
	return v.Err
}

func (s *EngineSuite) TestScalarTimesUnit() {
	s.set("A1", "100 ft")
	s.set("A2", "2")
	s.set("A3", "=A1*A2")

	n, label := s.number("A3")
	s.InDelta(200, n, 1e-9)
	s.Equal("ft", label)
}

func (s *EngineSuite) TestCompoundQuotient() {
	s.set("A1", "100 mi")
	s.set("A2", "2 hr")
	s.set("A3", "=A1/A2")

	n, label := s.number("A3")
	s.InDelta(50, n, 1e-9)
	s.Equal("mi/hr", label)
}

func (s *EngineSuite) TestIncompatibleAdd() {
	s.set("A1", "1 ft")
	s.set("A2", "1 kg")
	s.set("A3", "=A1+A2")
	s.Equal(eval.ErrKindIncompatibleUnits, s.errKind("A3"))
}

func (s *EngineSuite) TestEditPropagatesThroughChain() {
	s.set("A1", "1")
	s.set("B1", "=A1*2")
	s.set("C1", "=B1+1")

	n, _ := s.number("C1")
	s.InDelta(3, n, 1e-9)

	s.set("A1", "10")
	n, _ = s.number("B1")
	s.InDelta(20, n, 1e-9)
	n, _ = s.number("C1")
	s.InDelta(21, n, 1e-9)
}

func (s *EngineSuite) TestUnrelatedCellUntouched() {
	s.set("A1", "1")
	s.set("A2", "5")
	s.set("B1", "=A1*2")
	s.set("D1", "=A2*2")

	s.set("A1", "3")
	n, _ := s.number("B1")
	s.InDelta(6, n, 1e-9)
	n, _ = s.number("D1")
	s.InDelta(10, n, 1e-9)
}

func (s *EngineSuite) TestCircularBothMarked() {
	s.set("A1", "=B1")
	s.set("B1", "=A1")

	s.Equal(eval.ErrKindCircular, s.errKind("A1"))
	s.Equal(eval.ErrKindCircular, s.errKind("B1"))
}

func (s *EngineSuite) TestDownstreamOfCycleInheritsError() {
	s.set("C1", "=B1+1")
	s.set("A1", "=B1")
	s.set("B1", "=A1")

	s.Equal(eval.ErrKindCircular, s.errKind("A1"))
	s.Equal(eval.ErrKindCircular, s.errKind("B1"))

	// C1 reads the cycle without being on it: it carries the propagated
	// circular error, naming the member it read, never itself.
	v := s.value("C1")
	s.Require().Equal(eval.KindError, v.Kind)
	s.Equal(eval.ErrKindCircular, v.Err)
	s.Contains(v.ErrMsg, "B1")
	s.NotContains(v.ErrMsg, "C1")
}

func (s *EngineSuite) TestBreakingCycleRecovers() {
	s.set("A1", "=B1")
	s.set("B1", "=A1")
	s.Equal(eval.ErrKindCircular, s.errKind("A1"))

	s.set("B1", "2")
	n, _ := s.number("A1")
	s.InDelta(2, n, 1e-9)
}

func (s *EngineSuite) TestParseErrorIsCellScoped() {
	s.set("A1", "=1+")
	s.Equal(eval.ErrKindParse, s.errKind("A1"))

	// Downstream sees the error as a value.
	s.set("B1", "=A1+1")
	s.Equal(eval.ErrKindParse, s.errKind("B1"))
}

func (s *EngineSuite) TestDivZeroPropagates() {
	s.set("A1", "=1/0")
	s.Equal(eval.ErrKindDivZero, s.errKind("A1"))
	s.set("B1", "=A1*2")
	s.Equal(eval.ErrKindDivZero, s.errKind("B1"))
}

func (s *EngineSuite) TestUnknownUnitLiteral() {
	s.set("A1", "12 flibber")
	s.Equal(eval.ErrKindUnknownUnit, s.errKind("A1"))
}

func (s *EngineSuite) TestEmptyCellContributesZero() {
	s.set("B1", "=A1+5")
	n, label := s.number("B1")
	s.InDelta(5, n, 1e-9)
	s.Equal("", label)

	// Clearing a cell recomputes dependents with the empty value.
	s.set("A1", "3")
	s.set("A1", "")
	n, _ = s.number("B1")
	s.InDelta(5, n, 1e-9)
}

func (s *EngineSuite) TestTextLiteral() {
	s.set("A1", "hello")
	s.set("B1", "=A1")
	v := s.value("B1")
	s.Equal(eval.KindText, v.Kind)
	s.Equal("hello", v.Text)
}

func (s *EngineSuite) TestNegativeUnitLiteral() {
	v := s.set("A1", "-5 kg")
	s.Require().Equal(eval.KindNumber, v.Kind)
	s.InDelta(-5, v.Number, 1e-9)
	s.Equal("kg", v.Unit.String())
}

func (s *EngineSuite) TestNamedRangeSum() {
	s.Require().NoError(s.eng.DefineName("Prices", "A1:A3"))
	s.set("A1", "1 ft")
	s.set("A2", "2 ft")
	s.set("A3", "3 ft")
	s.set("B1", "=SUM(Prices)")

	n, label := s.number("B1")
	s.InDelta(6, n, 1e-9)
	s.Equal("ft", label)
}

func (s *EngineSuite) TestConvertFunctionAffine() {
	s.set("A1", "100 C")
	s.set("B1", `=CONVERT(A1, "F")`)

	n, label := s.number("B1")
	s.InDelta(212, n, 1e-6)
	s.Equal("F", label)
}

func (s *EngineSuite) TestDisplayUnitReadOnly() {
	s.set("A1", "100 ft")
	s.set("B1", "=A1*2")
	s.Require().NoError(s.eng.SetDisplayUnit("A1", "m"))

	// The rendered value converts; storage and dependents do not.
	n, label, err := s.eng.DisplayValue("A1")
	s.Require().NoError(err)
	s.InDelta(30.48, n, 1e-9)
	s.Equal("m", label)

	stored, storedLabel := s.number("A1")
	s.InDelta(100, stored, 1e-9)
	s.Equal("ft", storedLabel)

	dep, depLabel := s.number("B1")
	s.InDelta(200, dep, 1e-9)
	s.Equal("ft", depLabel)

	// Clearing the preference restores the raw rendering.
	s.Require().NoError(s.eng.SetDisplayUnit("A1", ""))
	n, label, err = s.eng.DisplayValue("A1")
	s.Require().NoError(err)
	s.InDelta(100, n, 1e-9)
	s.Equal("ft", label)
}

func (s *EngineSuite) TestDisplayUnitSquaredFactor() {
	s.set("A1", "100 ft^2")
	s.Require().NoError(s.eng.SetDisplayUnit("A1", "m^2"))

	n, label, err := s.eng.DisplayValue("A1")
	s.Require().NoError(err)
	s.InDelta(9.290304, n, 1e-6)
	s.Equal("m^2", label)
}

func (s *EngineSuite) TestDisplayUnitIncompatibleRejected() {
	s.set("A1", "100 ft")
	err := s.eng.SetDisplayUnit("A1", "kg")
	s.Require().Error(err)
	s.ErrorIs(err, convert.ErrIncompatibleUnits)
}

func (s *EngineSuite) TestDisplayUnitDroppedOnDimensionChange() {
	s.set("A1", "100 ft")
	s.Require().NoError(s.eng.SetDisplayUnit("A1", "m"))

	s.set("A1", "5 kg")
	c, ok, err := s.eng.Cell("A1")
	s.Require().NoError(err)
	s.Require().True(ok)
	s.False(c.HasDisplay)
	s.NotEmpty(c.Warning)

	n, label, derr := s.eng.DisplayValue("A1")
	s.Require().NoError(derr)
	s.InDelta(5, n, 1e-9)
	s.Equal("kg", label)
}

func (s *EngineSuite) TestFormulaEditRewiresDependencies() {
	s.set("A1", "1")
	s.set("A2", "10")
	s.set("B1", "=A1*2")
	s.set("B1", "=A2*2")

	// The old precedent no longer triggers B1.
	s.set("A1", "100")
	n, _ := s.number("B1")
	s.InDelta(20, n, 1e-9)

	// The new one does.
	s.set("A2", "50")
	n, _ = s.number("B1")
	s.InDelta(100, n, 1e-9)
}

func (s *EngineSuite) TestRangeDependencyRecompute() {
	s.set("B1", "=SUM(A1:A3)")
	s.set("A2", "4 ft")

	n, label := s.number("B1")
	s.InDelta(4, n, 1e-9)
	s.Equal("ft", label)
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func mustAddr(t *testing.T, ref string) formula.Address {
	t.Helper()
	a, err := formula.ParseAddress(ref)
	if err != nil {
		t.Fatalf("ParseAddress(%q): %v", ref, err)
	}
	return a
}

func TestSheetStoreContract(t *testing.T) {
	s := sheet.NewSheet()
	a1 := mustAddr(t, "A1")

	if v := s.Get(a1); v.Kind != eval.KindEmpty {
		t.Fatalf("unwritten cell = %s, want empty", v)
	}
	s.SetComputed(a1, eval.Num(42, unit.Dimensionless))
	if v := s.Get(a1); v.Number != 42 {
		t.Fatalf("Get after SetComputed = %s, want 42", v)
	}
	if _, ok := s.ResolveName("nope"); ok {
		t.Fatal("unknown name resolved")
	}
}

func TestNewEngineNilArgs(t *testing.T) {
	reg, err := unit.NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	cg, err := convert.NewGraph(reg)
	if err != nil {
		t.Fatal(err)
	}

	if _, err = sheet.NewEngine(nil, cg); err != sheet.ErrNilRegistry {
		t.Fatalf("nil registry: err = %v", err)
	}
	if _, err = sheet.NewEngine(reg, nil); err != sheet.ErrNilGraph {
		t.Fatalf("nil graph: err = %v", err)
	}
}
