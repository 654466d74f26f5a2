package gfa

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/gfakit/core/errors"
)

// NumericArray is the payload of a "B" optional field.
type NumericArray struct {
	// Subtype is one of c, C, s, S, i, I (integers) or f (floats).
	Subtype byte

	// Values holds the element texts as written.
	Values []string
}

func (a NumericArray) String() string {
	if len(a.Values) == 0 {
		return string(a.Subtype)
	}
	return string(a.Subtype) + "," + strings.Join(a.Values, ",")
}

// Ints returns the elements of an integer-subtype array.
func (a NumericArray) Ints() ([]int64, error) {
	out := make([]int64, len(a.Values))
	for i, v := range a.Values {
		n, err := strconv.ParseInt(strings.TrimPrefix(v, "+"), 10, 64)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// Floats returns the elements as float64 values.
func (a NumericArray) Floats() ([]float64, error) {
	out := make([]float64, len(a.Values))
	for i, v := range a.Values {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// arrayGrammar is the participle grammar for "B" field values.
// Examples: "c,1,2,3", "f,0.5,1e3", "I"
//
//nolint:govet // participle grammar tags are not standard struct tags
type arrayGrammar struct {
	Subtype string   `@Subtype`
	Values  []string `( "," @Number )*`
}

var arrayLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Number", Pattern: `[-+]?[0-9]*\.?[0-9]+(?:[eE][-+]?[0-9]+)?`},
	{Name: "Subtype", Pattern: `[cCsSiIf]`},
	{Name: "Comma", Pattern: `,`},
})

var arrayParser = participle.MustBuild[arrayGrammar](participle.Lexer(arrayLexer))

var arrayIntRegex = regexp.MustCompile(`^[-+]?[0-9]+$`)

// ParseNumericArray parses the value of a "B" field.
func ParseNumericArray(s string) (NumericArray, error) {
	parsed, err := arrayParser.ParseString("", s)
	if err != nil {
		return NumericArray{}, &errors.FieldError{
			Kind: errors.KindOptionalFieldSyntax, Field: "array",
			Expected: typeGrammar[TypeArray], Value: s, Err: err,
		}
	}
	a := NumericArray{Subtype: parsed.Subtype[0], Values: parsed.Values}
	if a.Subtype != 'f' {
		for _, v := range a.Values {
			if !arrayIntRegex.MatchString(v) {
				return NumericArray{}, errors.NewTagSyntax("array", "integer elements for subtype "+string(a.Subtype), v)
			}
		}
	}
	return a, nil
}
