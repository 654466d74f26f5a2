package gfa

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/gfakit/core/errors"
)

// AlignmentKind selects which form an Alignment takes.
type AlignmentKind int

// Alignment kinds.
const (
	// AlignmentNone is the absent alignment "*".
	AlignmentNone AlignmentKind = iota

	// AlignmentCIGAR is a run-length CIGAR string.
	AlignmentCIGAR

	// AlignmentTrace is a comma-separated trace-point list.
	AlignmentTrace
)

// CigarOp is one run of a CIGAR string.
type CigarOp struct {
	Length uint64
	Op     byte
}

// Alignment is the alignment field of fragments and edges.
type Alignment struct {
	Kind  AlignmentKind
	Cigar []CigarOp
	Trace []int64
}

// NoAlignment is the "*" alignment.
var NoAlignment = Alignment{Kind: AlignmentNone}

func (a Alignment) String() string {
	switch a.Kind {
	case AlignmentCIGAR:
		var sb strings.Builder
		for _, op := range a.Cigar {
			sb.WriteString(strconv.FormatUint(op.Length, 10))
			sb.WriteByte(op.Op)
		}
		return sb.String()
	case AlignmentTrace:
		parts := make([]string, len(a.Trace))
		for i, v := range a.Trace {
			parts[i] = strconv.FormatInt(v, 10)
		}
		return strings.Join(parts, ",")
	}
	return "*"
}

// cigarGrammar is the participle grammar for CIGAR strings.
// Examples: "4M", "10M2I3M", "5=1X"
//
//nolint:govet // participle grammar tags are not standard struct tags
type cigarGrammar struct {
	Ops []*cigarOpGrammar `@@+`
}

//nolint:govet // participle grammar tags are not standard struct tags
type cigarOpGrammar struct {
	Length string `@Int`
	Op     string `@Op`
}

// traceGrammar is the participle grammar for trace-point lists.
// Examples: "4", "-3,5", "12,0,-7"
//
//nolint:govet // participle grammar tags are not standard struct tags
type traceGrammar struct {
	Values []string `@Int ( "," @Int )*`
}

var cigarLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Op", Pattern: `[MIDNSHPX=]`},
})

var traceLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `-?[0-9]+`},
	{Name: "Comma", Pattern: `,`},
})

var (
	cigarParser = participle.MustBuild[cigarGrammar](participle.Lexer(cigarLexer))
	traceParser = participle.MustBuild[traceGrammar](participle.Lexer(traceLexer))
)

// ParseAlignment parses a complete alignment field. The alternatives are
// tried in a fixed order: "*", then CIGAR, then trace. Both CIGAR and trace
// start with a digit, so "4M" must be tried as CIGAR before it can be
// rejected as a trace.
func ParseAlignment(s string) (Alignment, error) {
	if s == "*" {
		return NoAlignment, nil
	}
	if a, ok := parseCigar(s); ok {
		return a, nil
	}
	if a, ok := parseTrace(s); ok {
		return a, nil
	}
	return Alignment{}, errors.NewMalformed("alignment", expectAlignment, s)
}

func parseCigar(s string) (Alignment, bool) {
	parsed, err := cigarParser.ParseString("", s)
	if err != nil {
		return Alignment{}, false
	}
	ops := make([]CigarOp, 0, len(parsed.Ops))
	for _, op := range parsed.Ops {
		if !canonicalInt(op.Length, false) {
			return Alignment{}, false
		}
		n, err := strconv.ParseUint(op.Length, 10, 64)
		if err != nil {
			return Alignment{}, false
		}
		ops = append(ops, CigarOp{Length: n, Op: op.Op[0]})
	}
	return Alignment{Kind: AlignmentCIGAR, Cigar: ops}, true
}

func parseTrace(s string) (Alignment, bool) {
	parsed, err := traceParser.ParseString("", s)
	if err != nil {
		return Alignment{}, false
	}
	values := make([]int64, 0, len(parsed.Values))
	for _, v := range parsed.Values {
		if !canonicalInt(v, true) {
			return Alignment{}, false
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Alignment{}, false
		}
		values = append(values, n)
	}
	return Alignment{Kind: AlignmentTrace, Trace: values}, true
}
