package formula

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAddress indicates text that is not a valid A1-style cell address.
var ErrAddress = errors.New("formula: bad cell address")

// Address is a zero-based cell coordinate. The textual form is the familiar
// "A1" style: column letters then a one-based row number.
type Address struct {
	Col int
	Row int
}

// ParseAddress parses "A1"-style text (case-insensitive) into an Address.
func ParseAddress(text string) (Address, error) {
	s := strings.ToUpper(strings.TrimSpace(text))
	i := 0
	col := 0
	for i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
		col = col*26 + int(s[i]-'A') + 1
		i++
	}
	if i == 0 || i == len(s) {
		return Address{}, fmt.Errorf("%w: %q", ErrAddress, text)
	}
	row := 0
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return Address{}, fmt.Errorf("%w: %q", ErrAddress, text)
		}
		row = row*10 + int(s[i]-'0')
	}
	if row == 0 {
		return Address{}, fmt.Errorf("%w: %q", ErrAddress, text)
	}
	return Address{Col: col - 1, Row: row - 1}, nil
}

// String renders the canonical "A1" form.
func (a Address) String() string {
	col := a.Col + 1
	var letters []byte
	for col > 0 {
		col--
		letters = append([]byte{byte('A' + col%26)}, letters...)
		col /= 26
	}
	return fmt.Sprintf("%s%d", letters, a.Row+1)
}

// Range is a rectangular block of cells, inclusive on both corners.
// Start is normalized to the top-left, End to the bottom-right.
type Range struct {
	Start Address
	End   Address
}

// NewRange returns the normalized range spanning a and b.
func NewRange(a, b Address) Range {
	if b.Col < a.Col {
		a.Col, b.Col = b.Col, a.Col
	}
	if b.Row < a.Row {
		a.Row, b.Row = b.Row, a.Row
	}
	return Range{Start: a, End: b}
}

// Contains reports whether addr lies inside r.
func (r Range) Contains(addr Address) bool {
	return addr.Col >= r.Start.Col && addr.Col <= r.End.Col &&
		addr.Row >= r.Start.Row && addr.Row <= r.End.Row
}

// Cells enumerates every address of the range in row-major order.
func (r Range) Cells() []Address {
	var out []Address
	for row := r.Start.Row; row <= r.End.Row; row++ {
		for col := r.Start.Col; col <= r.End.Col; col++ {
			out = append(out, Address{Col: col, Row: row})
		}
	}
	return out
}

// String renders "A1:B5".
func (r Range) String() string {
	return r.Start.String() + ":" + r.End.String()
}
