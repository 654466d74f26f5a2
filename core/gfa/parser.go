package gfa

import (
	"github.com/FocuswithJustin/gfakit/core/errors"
)

// ErrorPolicy decides what a Parser does with a line that fails to parse.
type ErrorPolicy int

// Error policies.
const (
	// AbortOnError stops at the first failing line.
	AbortOnError ErrorPolicy = iota

	// SkipOnError drops the failing line, records a diagnostic and continues.
	SkipOnError
)

func (p ErrorPolicy) String() string {
	if p == SkipOnError {
		return "skip"
	}
	return "abort"
}

// Options configures a Parser.
type Options struct {
	// Tags selects strict or permissive optional-field handling.
	Tags TagMode

	// OnError selects what happens to lines that fail to parse.
	OnError ErrorPolicy

	// KeepOrder records the original interleaving of record kinds.
	KeepOrder bool
}

// Diagnostic is a problem found while parsing one line.
type Diagnostic struct {
	Err *errors.LineError

	// Skipped is true when the whole line was dropped. Otherwise the record
	// was kept and only an invalid optional field was discarded.
	Skipped bool
}

// grammar parses the fields of one record kind. The cursor is positioned
// after the record code.
type grammar func(c *cursor, mode TagMode) (Record, []error, error)

// grammars is the record-kind dispatch table. '#' and unknown codes are
// handled by ParseRecord directly.
var grammars = map[Kind]grammar{
	KindHeader:         parseHeader,
	KindSegment:        parseSegment,
	KindFragment:       parseFragment,
	KindEdge:           parseEdge,
	KindGap:            parseGap,
	KindOrderedGroup:   parseOrderedGroup,
	KindUnorderedGroup: parseUnorderedGroup,
}

// ParseRecord parses a single line into a Record. Lines with an unknown
// record code yield a *CustomRecord and no error. The returned warnings are
// optional fields dropped in permissive mode.
func ParseRecord(line string, mode TagMode) (Record, []error, error) {
	if line == "" {
		return &CustomRecord{Raw: line}, nil, nil
	}
	k := Kind(line[0])
	if k == KindComment {
		text := line[1:]
		if len(text) > 0 && text[0] == ' ' {
			return &Comment{Text: text[1:]}, nil, nil
		}
		return &Comment{Text: text, Bare: true}, nil, nil
	}
	g, ok := grammars[k]
	if !ok {
		return &CustomRecord{Raw: line}, nil, nil
	}
	return g(&cursor{line: line, pos: 1}, mode)
}

func parseHeader(c *cursor, mode TagMode) (Record, []error, error) {
	tags, warnings, err := c.optionalFields(mode)
	if err != nil {
		return nil, warnings, err
	}
	h := &Header{}
	for i, t := range tags {
		if t.Tag == versionTag && t.Type == TypeString && t.Value != "" {
			h.Version = t.Value
			h.versionAt = i
			if len(tags) > 1 {
				h.Tags = append(tags[:i:i], tags[i+1:]...)
			}
			return h, warnings, nil
		}
	}
	h.Tags = tags
	return h, warnings, nil
}

func parseSegment(c *cursor, mode TagMode) (Record, []error, error) {
	s := &Segment[string]{}
	var err error
	if s.ID, err = c.identifier("sid"); err != nil {
		return nil, nil, err
	}
	if s.Length, err = c.length("slen"); err != nil {
		return nil, nil, err
	}
	if s.Sequence, err = c.identifier("sequence"); err != nil {
		return nil, nil, err
	}
	tags, warnings, err := c.optionalFields(mode)
	if err != nil {
		return nil, warnings, err
	}
	s.Tags = tags
	return s, warnings, nil
}

func parseFragment(c *cursor, mode TagMode) (Record, []error, error) {
	f := &Fragment[string]{}
	var err error
	if f.ID, err = c.identifier("sid"); err != nil {
		return nil, nil, err
	}
	if f.External, err = c.reference("external"); err != nil {
		return nil, nil, err
	}
	for _, p := range []struct {
		name string
		dst  *Position
	}{
		{"sbeg", &f.SegBegin},
		{"send", &f.SegEnd},
		{"fbeg", &f.FragBegin},
		{"fend", &f.FragEnd},
	} {
		if *p.dst, err = c.position(p.name); err != nil {
			return nil, nil, err
		}
	}
	if f.Alignment, err = c.alignment("alignment"); err != nil {
		return nil, nil, err
	}
	tags, warnings, err := c.optionalFields(mode)
	if err != nil {
		return nil, warnings, err
	}
	f.Tags = tags
	return f, warnings, nil
}

func parseEdge(c *cursor, mode TagMode) (Record, []error, error) {
	e := &Edge[string]{}
	var err error
	if e.ID, err = c.optionalName("eid"); err != nil {
		return nil, nil, err
	}
	if e.Ref1, err = c.reference("sid1"); err != nil {
		return nil, nil, err
	}
	if e.Ref2, err = c.reference("sid2"); err != nil {
		return nil, nil, err
	}
	for _, p := range []struct {
		name string
		dst  *Position
	}{
		{"beg1", &e.Beg1},
		{"end1", &e.End1},
		{"beg2", &e.Beg2},
		{"end2", &e.End2},
	} {
		if *p.dst, err = c.position(p.name); err != nil {
			return nil, nil, err
		}
	}
	if e.Alignment, err = c.alignment("alignment"); err != nil {
		return nil, nil, err
	}
	tags, warnings, err := c.optionalFields(mode)
	if err != nil {
		return nil, warnings, err
	}
	e.Tags = tags
	return e, warnings, nil
}

func parseGap(c *cursor, mode TagMode) (Record, []error, error) {
	g := &Gap[string]{}
	var err error
	if g.ID, err = c.optionalName("gid"); err != nil {
		return nil, nil, err
	}
	if g.Ref1, err = c.reference("sid1"); err != nil {
		return nil, nil, err
	}
	if g.Ref2, err = c.reference("sid2"); err != nil {
		return nil, nil, err
	}
	if g.Distance, err = c.integer("dist"); err != nil {
		return nil, nil, err
	}
	if g.Variance, err = c.variance("var"); err != nil {
		return nil, nil, err
	}
	tags, warnings, err := c.optionalFields(mode)
	if err != nil {
		return nil, warnings, err
	}
	g.Tags = tags
	return g, warnings, nil
}

func parseOrderedGroup(c *cursor, mode TagMode) (Record, []error, error) {
	o := &OrderedGroup[string]{}
	var err error
	if o.ID, err = c.optionalName("oid"); err != nil {
		return nil, nil, err
	}
	if o.Members, err = members(c, "references", expectReference, ReferenceField); err != nil {
		return nil, nil, err
	}
	tags, warnings, err := c.optionalFields(mode)
	if err != nil {
		return nil, warnings, err
	}
	o.Tags = tags
	return o, warnings, nil
}

func parseUnorderedGroup(c *cursor, mode TagMode) (Record, []error, error) {
	u := &UnorderedGroup[string]{}
	var err error
	if u.ID, err = c.optionalName("uid"); err != nil {
		return nil, nil, err
	}
	if u.Members, err = members(c, "ids", expectIdentifier, Identifier); err != nil {
		return nil, nil, err
	}
	tags, warnings, err := c.optionalFields(mode)
	if err != nil {
		return nil, warnings, err
	}
	u.Tags = tags
	return u, warnings, nil
}

// Parser folds lines into a Document.
type Parser struct {
	opts  Options
	doc   *Document[string]
	diags []Diagnostic
	line  int
}

// NewParser returns a Parser with the given options.
func NewParser(opts Options) *Parser {
	return &Parser{
		opts: opts,
		doc:  NewDocument[string](opts.KeepOrder),
	}
}

// Options returns the options the parser was created with.
func (p *Parser) Options() Options {
	return p.opts
}

// ParseLine parses the next line. Under AbortOnError the first failure is
// returned as a *errors.LineError; under SkipOnError failures are recorded as
// diagnostics and ParseLine returns nil.
func (p *Parser) ParseLine(line string) error {
	p.line++
	rec, warnings, err := ParseRecord(line, p.opts.Tags)
	code := byte(0)
	if line != "" {
		code = line[0]
	}
	for _, w := range warnings {
		p.diags = append(p.diags, Diagnostic{
			Err: &errors.LineError{Line: p.line, Record: code, Err: w},
		})
	}
	if err != nil {
		lerr := &errors.LineError{Line: p.line, Record: code, Err: err}
		if p.opts.OnError == AbortOnError {
			return lerr
		}
		p.diags = append(p.diags, Diagnostic{Err: lerr, Skipped: true})
		return nil
	}
	return p.doc.Add(rec)
}

// Line returns the number of lines consumed so far.
func (p *Parser) Line() int {
	return p.line
}

// Document returns the document built so far.
func (p *Parser) Document() *Document[string] {
	return p.doc
}

// Diagnostics returns the problems recorded so far, in line order.
func (p *Parser) Diagnostics() []Diagnostic {
	return p.diags
}

// Parse parses a complete set of lines.
func Parse(lines []string, opts Options) (*Document[string], []Diagnostic, error) {
	p := NewParser(opts)
	for _, line := range lines {
		if err := p.ParseLine(line); err != nil {
			return nil, p.Diagnostics(), err
		}
	}
	return p.Document(), p.Diagnostics(), nil
}
