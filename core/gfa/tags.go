package gfa

import (
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/gfakit/core/errors"
)

// FieldType is the type byte of an optional field.
type FieldType byte

// Optional field types.
const (
	TypeChar   FieldType = 'A' // single printable character
	TypeInt    FieldType = 'i' // signed integer
	TypeFloat  FieldType = 'f' // floating point number
	TypeString FieldType = 'Z' // printable string, spaces allowed
	TypeJSON   FieldType = 'J' // printable text, opaque (usually JSON)
	TypeHex    FieldType = 'H' // even-length hex byte string
	TypeArray  FieldType = 'B' // numeric array
)

func (t FieldType) String() string {
	return string(rune(t))
}

// TagMode controls how invalid optional fields are handled.
type TagMode int

// Tag modes.
const (
	// TagStrict fails the whole record on any invalid optional field.
	TagStrict TagMode = iota

	// TagPermissive drops invalid optional fields and records a warning.
	TagPermissive
)

func (m TagMode) String() string {
	if m == TagPermissive {
		return "permissive"
	}
	return "strict"
}

// OptionalField is one TAG:TYPE:VALUE group. Value holds the validated wire
// text so formatting reproduces the input byte for byte.
type OptionalField struct {
	Tag   string
	Type  FieldType
	Value string
}

// Value grammars per type.
var (
	charRegex   = regexp.MustCompile(`^[!-~]$`)
	intRegex    = regexp.MustCompile(`^[-+]?[0-9]+$`)
	floatRegex  = regexp.MustCompile(`^[-+]?[0-9]*\.?[0-9]+(?:[eE][-+]?[0-9]+)?$`)
	stringRegex = regexp.MustCompile(`^[ !-~]*$`)
	hexRegex    = regexp.MustCompile(`^(?:[0-9A-Fa-f]{2})*$`)
)

var typeGrammar = map[FieldType]string{
	TypeChar:   "single printable character",
	TypeInt:    "[-+]?[0-9]+",
	TypeFloat:  "[-+]?[0-9]*.?[0-9]+([eE][-+]?[0-9]+)?",
	TypeString: "printable characters or spaces",
	TypeJSON:   "printable characters or spaces",
	TypeHex:    "even number of hex digits",
	TypeArray:  "[cCsSiIf] followed by ,-separated numbers",
}

// NewOptionalField validates and returns an optional field.
func NewOptionalField(tag string, typ FieldType, value string) (OptionalField, error) {
	f := OptionalField{Tag: tag, Type: typ, Value: value}
	if err := f.Validate(); err != nil {
		return OptionalField{}, err
	}
	return f, nil
}

// IntField returns an "i" optional field.
func IntField(tag string, v int64) OptionalField {
	return OptionalField{Tag: tag, Type: TypeInt, Value: strconv.FormatInt(v, 10)}
}

// StringField returns a "Z" optional field.
func StringField(tag, v string) OptionalField {
	return OptionalField{Tag: tag, Type: TypeString, Value: v}
}

// Validate checks the tag, type and value against the field grammar.
func (f OptionalField) Validate() error {
	if !validTag(f.Tag) {
		return errors.NewTagSyntax("tag", "two alphanumeric characters", f.Tag)
	}
	grammar, ok := typeGrammar[f.Type]
	if !ok {
		return errors.NewTagSyntax("type", "one of A, i, f, Z, J, H, B", f.Type.String())
	}
	if !validValue(f.Type, f.Value) {
		return errors.NewTagSyntax(f.Tag+":"+f.Type.String(), grammar, f.Value)
	}
	return nil
}

func (f OptionalField) String() string {
	return f.Tag + ":" + string(rune(f.Type)) + ":" + f.Value
}

// Int returns the value of an "i" field.
func (f OptionalField) Int() (int64, error) {
	if f.Type != TypeInt {
		return 0, errors.NewTagSyntax(f.Tag, "type i", f.Type.String())
	}
	return strconv.ParseInt(f.Value, 10, 64)
}

// Float returns the value of an "f" or "i" field.
func (f OptionalField) Float() (float64, error) {
	if f.Type != TypeFloat && f.Type != TypeInt {
		return 0, errors.NewTagSyntax(f.Tag, "type f", f.Type.String())
	}
	return strconv.ParseFloat(f.Value, 64)
}

// Bytes decodes the value of an "H" field.
func (f OptionalField) Bytes() ([]byte, error) {
	if f.Type != TypeHex {
		return nil, errors.NewTagSyntax(f.Tag, "type H", f.Type.String())
	}
	return hex.DecodeString(f.Value)
}

// Array returns the value of a "B" field.
func (f OptionalField) Array() (NumericArray, error) {
	if f.Type != TypeArray {
		return NumericArray{}, errors.NewTagSyntax(f.Tag, "type B", f.Type.String())
	}
	return ParseNumericArray(f.Value)
}

func validTag(tag string) bool {
	return len(tag) == 2 && isAlnum(tag[0]) && isAlnum(tag[1])
}

func isAlnum(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func validValue(t FieldType, v string) bool {
	switch t {
	case TypeChar:
		return charRegex.MatchString(v)
	case TypeInt:
		return intRegex.MatchString(v)
	case TypeFloat:
		return floatRegex.MatchString(v)
	case TypeString, TypeJSON:
		return stringRegex.MatchString(v)
	case TypeHex:
		return hexRegex.MatchString(v)
	case TypeArray:
		_, err := ParseNumericArray(v)
		return err == nil
	}
	return false
}

// ParseOptionalField parses a single TAG:TYPE:VALUE field. s must not
// contain tabs.
func ParseOptionalField(s string) (OptionalField, error) {
	if strings.IndexByte(s, '\t') >= 0 {
		return OptionalField{}, errors.NewTagSyntax("", "no tab inside an optional field", s)
	}
	if len(s) < 5 || s[2] != ':' || s[4] != ':' {
		return OptionalField{}, errors.NewTagSyntax("", "TAG:TYPE:VALUE", s)
	}
	f := OptionalField{Tag: s[:2], Type: FieldType(s[3]), Value: s[5:]}
	if err := f.Validate(); err != nil {
		return OptionalField{}, err
	}
	return f, nil
}

// ParseOptionalFields parses a record tail of zero or more "\tTAG:TYPE:VALUE"
// groups. In permissive mode invalid fields are dropped and returned as
// warnings; in strict mode the first invalid field is returned as the error.
func ParseOptionalFields(tail string, mode TagMode) ([]OptionalField, []error, error) {
	c := &cursor{line: tail}
	return c.optionalFields(mode)
}

// FormatOptionalFields renders fields as "\tTAG:TYPE:VALUE" groups. An empty
// slice yields the empty string.
func FormatOptionalFields(fields []OptionalField) string {
	if len(fields) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, f := range fields {
		sb.WriteByte('\t')
		sb.WriteString(f.String())
	}
	return sb.String()
}

// FindOptionalField returns the first field with the given tag.
func FindOptionalField(fields []OptionalField, tag string) (OptionalField, bool) {
	for _, f := range fields {
		if f.Tag == tag {
			return f, true
		}
	}
	return OptionalField{}, false
}
