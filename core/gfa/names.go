package gfa

import (
	"strconv"

	"github.com/FocuswithJustin/gfakit/core/errors"
)

// Name is the identifier type of a Document: textual identifiers as parsed,
// or dense indices after interning.
type Name interface {
	string | uint64
}

// Orientation is the strand of a Reference.
type Orientation byte

// Orientation constants.
const (
	// Forward is the "+" strand.
	Forward Orientation = '+'

	// Reverse is the "-" strand (reverse complement).
	Reverse Orientation = '-'
)

// Valid reports whether o is Forward or Reverse.
func (o Orientation) Valid() bool {
	return o == Forward || o == Reverse
}

func (o Orientation) String() string {
	return string(rune(o))
}

// Reference is an identifier with a mandatory orientation, as used by edges,
// gaps, fragments and ordered groups.
type Reference[N Name] struct {
	Name        N
	Orientation Orientation
}

func (r Reference[N]) String() string {
	return formatName(r.Name) + r.Orientation.String()
}

// OptionalName is a record identifier that may be absent, written as "*".
type OptionalName[N Name] struct {
	Name  N
	Valid bool
}

// Named returns a present OptionalName.
func Named[N Name](n N) OptionalName[N] {
	return OptionalName[N]{Name: n, Valid: true}
}

func (o OptionalName[N]) String() string {
	if !o.Valid {
		return "*"
	}
	return formatName(o.Name)
}

// Position is a coordinate on a segment or fragment. Terminal marks the "$"
// sentinel: the position equals the length of the sequence it refers to.
type Position struct {
	Value    string
	Terminal bool
}

// Pos returns a non-terminal Position for v.
func Pos(v int64) Position {
	return Position{Value: strconv.FormatInt(v, 10)}
}

// EndPos returns a terminal Position for v.
func EndPos(v int64) Position {
	return Position{Value: strconv.FormatInt(v, 10), Terminal: true}
}

func (p Position) String() string {
	if p.Terminal {
		return p.Value + "$"
	}
	return p.Value
}

// Int returns the numeric value of the position.
func (p Position) Int() (int64, error) {
	v, err := strconv.ParseInt(p.Value, 10, 64)
	if err != nil {
		return 0, &errors.FieldError{
			Kind: errors.KindMalformedField, Field: "position",
			Expected: expectInteger, Value: p.Value, Err: err,
		}
	}
	return v, nil
}

// ParseIndex parses the decimal text form of an interned identifier.
func ParseIndex(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err == nil && !canonicalInt(s, false) {
		err = strconv.ErrSyntax
	}
	if err != nil {
		return 0, &errors.FieldError{
			Kind: errors.KindMalformedField, Field: "index",
			Expected: "unsigned decimal integer", Value: s, Err: err,
		}
	}
	return v, nil
}

func formatName[N Name](n N) string {
	switch v := any(n).(type) {
	case string:
		return v
	case uint64:
		return strconv.FormatUint(v, 10)
	}
	panic("gfa: unsupported name type")
}
