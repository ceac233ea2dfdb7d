package eval

import (
	"fmt"
	"strconv"

	"github.com/katalvlaran/unitgrid/unit"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindNumber
	KindText
	KindError
)

// ErrorKind enumerates every failure a cell can hold. The set is closed;
// consumers may exhaustively switch on it.
type ErrorKind uint8

const (
	ErrKindUnknownUnit ErrorKind = iota + 1
	ErrKindIncompatibleUnits
	ErrKindNoConversionPath
	ErrKindFractionalExponent
	ErrKindInvalidUnitForFunction
	ErrKindDivZero
	ErrKindCircular
	ErrKindRef
	ErrKindName
	ErrKindParse
	ErrKindDepthExceeded
	ErrKindBadValue
)

// errorCodes maps each ErrorKind to its short display code.
var errorCodes = map[ErrorKind]string{
	ErrKindUnknownUnit:            "#UNIT?",
	ErrKindIncompatibleUnits:      "#UNIT!",
	ErrKindNoConversionPath:       "#CONV!",
	ErrKindFractionalExponent:     "#EXP!",
	ErrKindInvalidUnitForFunction: "#UNITFN!",
	ErrKindDivZero:                "#DIV/0!",
	ErrKindCircular:               "#CIRC!",
	ErrKindRef:                    "#REF!",
	ErrKindName:                   "#NAME?",
	ErrKindParse:                  "#PARSE!",
	ErrKindDepthExceeded:          "#DEPTH!",
	ErrKindBadValue:               "#VALUE!",
}

// Code returns the short display code, e.g. "#DIV/0!".
func (k ErrorKind) Code() string { return errorCodes[k] }

// Value is a cell's computed result: a closed tagged variant.
// Exactly the fields matching Kind are meaningful.
type Value struct {
	Kind Kind

	// Number + Unit are set for KindNumber.
	Number float64
	Unit   unit.Unit

	// Text is set for KindText.
	Text string

	// Err and ErrMsg are set for KindError.
	Err    ErrorKind
	ErrMsg string
}

// Empty is the value of a never-written cell.
func Empty() Value { return Value{Kind: KindEmpty} }

// Num builds a number value tagged with a unit (unit.Dimensionless for a
// plain number).
func Num(v float64, u unit.Unit) Value {
	return Value{Kind: KindNumber, Number: v, Unit: u}
}

// Str builds a text value.
func Str(s string) Value { return Value{Kind: KindText, Text: s} }

// Errf builds an error value with a formatted human-readable message.
func Errf(kind ErrorKind, format string, args ...any) Value {
	return Value{Kind: KindError, Err: kind, ErrMsg: fmt.Sprintf(format, args...)}
}

// IsError reports whether v holds an error.
func (v Value) IsError() bool { return v.Kind == KindError }

// String renders the value for display: number with its unit label, raw
// text, the error code, or "" for empty.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		s := strconv.FormatFloat(v.Number, 'g', -1, 64)
		if label := v.Unit.String(); label != "" {
			return s + " " + label
		}
		return s
	case KindText:
		return v.Text
	case KindError:
		return v.Err.Code()
	}
	return ""
}
