package gfa

import (
	"strconv"

	"github.com/FocuswithJustin/gfakit/core/errors"
)

// Expected-grammar descriptions used in diagnostics.
const (
	expectIdentifier = "printable non-whitespace ASCII"
	expectReference  = "identifier followed by + or -"
	expectPosition   = "unsigned integer, optionally followed by $"
	expectInteger    = "decimal integer without + sign or leading zeros"
	expectLength     = "non-negative decimal integer without leading zeros"
	expectVariance   = "decimal integer or *"
	expectAlignment  = "*, CIGAR ([0-9]+[MIDNSHPX=])+ or trace -?[0-9]+(,-?[0-9]+)*, counts without leading zeros"
)

// isIdentByte reports whether b is printable, non-whitespace ASCII.
func isIdentByte(b byte) bool {
	return b >= '!' && b <= '~'
}

// Identifier extracts the longest identifier prefix of s.
func Identifier(s string) (string, string, error) {
	i := 0
	for i < len(s) && isIdentByte(s[i]) {
		i++
	}
	if i == 0 {
		return "", s, errors.NewMalformed("identifier", expectIdentifier, prefixForError(s))
	}
	return s[:i], s[i:], nil
}

// ReferenceField extracts an identifier immediately followed by one
// orientation byte.
func ReferenceField(s string) (Reference[string], string, error) {
	tok, rest, err := Identifier(s)
	if err != nil {
		return Reference[string]{}, s, errors.NewMalformed("reference", expectReference, prefixForError(s))
	}
	o := Orientation(tok[len(tok)-1])
	if len(tok) < 2 || !o.Valid() {
		return Reference[string]{}, s, errors.NewMalformed("reference", expectReference, tok)
	}
	return Reference[string]{Name: tok[:len(tok)-1], Orientation: o}, rest, nil
}

// PositionField extracts a position token and its optional "$" sentinel.
func PositionField(s string) (Position, string, error) {
	tok, rest, err := Identifier(s)
	if err != nil {
		return Position{}, s, errors.NewMalformed("position", expectPosition, prefixForError(s))
	}
	p := Position{Value: tok}
	if tok[len(tok)-1] == '$' {
		p = Position{Value: tok[:len(tok)-1], Terminal: true}
	}
	if !canonicalInt(p.Value, false) {
		return Position{}, s, errors.NewMalformed("position", expectPosition, tok)
	}
	return p, rest, nil
}

// IntegerField extracts a signed decimal integer.
func IntegerField(s string) (int64, string, error) {
	tok, rest, err := Identifier(s)
	if err != nil {
		return 0, s, errors.NewMalformed("integer", expectInteger, prefixForError(s))
	}
	if !canonicalInt(tok, true) {
		return 0, s, errors.NewMalformed("integer", expectInteger, tok)
	}
	v, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return 0, s, &errors.FieldError{
			Kind: errors.KindMalformedField, Field: "integer",
			Expected: expectInteger, Value: tok, Err: err,
		}
	}
	return v, rest, nil
}

// AlignmentField extracts an alignment: "*", a CIGAR string or a trace list.
func AlignmentField(s string) (Alignment, string, error) {
	tok, rest, err := Identifier(s)
	if err != nil {
		return Alignment{}, s, errors.NewMalformed("alignment", expectAlignment, prefixForError(s))
	}
	a, err := ParseAlignment(tok)
	if err != nil {
		return Alignment{}, s, err
	}
	return a, rest, nil
}

// canonicalInt reports whether s is the one decimal spelling of its value:
// digits with no leading zeros, and for signed values an optional '-' that
// never precedes zero.
func canonicalInt(s string, signed bool) bool {
	if signed && len(s) > 1 && s[0] == '-' {
		s = s[1:]
		if s[0] == '0' {
			return false
		}
	}
	if s == "" || (s[0] == '0' && len(s) > 1) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// prefixForError returns the bytes up to the next tab, for diagnostics.
func prefixForError(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\t' {
			return s[:i]
		}
	}
	return s
}
