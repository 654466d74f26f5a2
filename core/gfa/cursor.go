package gfa

import (
	"strings"

	"github.com/FocuswithJustin/gfakit/core/errors"
)

// cursor walks the tab-separated fields of one line.
type cursor struct {
	line  string
	pos   int // offset of the next separator, or len(line)
	field int // number of positional fields consumed
}

func (c *cursor) done() bool {
	return c.pos >= len(c.line)
}

// take consumes exactly one tab and the field that follows it.
func (c *cursor) take(name string) (string, int, error) {
	c.field++
	if c.done() {
		err := errors.NewStructural(name, "tab-separated field", "")
		err.Position, err.Start, err.End = c.field, c.pos, c.pos
		return "", c.pos, err
	}
	if c.line[c.pos] != '\t' {
		err := errors.NewStructural(name, "tab separator", c.line[c.pos:c.pos+1])
		err.Position, err.Start, err.End = c.field, c.pos, c.pos+1
		return "", c.pos, err
	}
	start := c.pos + 1
	end := strings.IndexByte(c.line[start:], '\t')
	if end < 0 {
		end = len(c.line)
	} else {
		end += start
	}
	if start == end {
		err := errors.NewStructural(name, "exactly one tab between fields", "\t")
		err.Position, err.Start, err.End = c.field, c.pos, end+1
		c.pos = end
		return "", start, err
	}
	c.pos = end
	return c.line[start:end], start, nil
}

// locate fills in field name, position and byte range on a grammar error.
func (c *cursor) locate(err error, name, tok string, start int) error {
	var fe *errors.FieldError
	if !errors.As(err, &fe) {
		return err
	}
	located := *fe
	located.Field = name
	located.Position = c.field
	located.Value = tok
	located.Start = start
	located.End = start + len(tok)
	return &located
}

// whole applies an extractor to the next field and requires it to consume
// the field completely.
func whole[T any](c *cursor, name, expected string, extract func(string) (T, string, error)) (T, error) {
	var zero T
	tok, start, err := c.take(name)
	if err != nil {
		return zero, err
	}
	v, rest, err := extract(tok)
	if err != nil {
		return zero, c.locate(err, name, tok, start)
	}
	if rest != "" {
		return zero, c.locate(errors.NewMalformed(name, expected, tok), name, tok, start)
	}
	return v, nil
}

func (c *cursor) identifier(name string) (string, error) {
	return whole(c, name, expectIdentifier, Identifier)
}

func (c *cursor) optionalName(name string) (OptionalName[string], error) {
	id, err := c.identifier(name)
	if err != nil {
		return OptionalName[string]{}, err
	}
	if id == "*" {
		return OptionalName[string]{}, nil
	}
	return Named(id), nil
}

func (c *cursor) reference(name string) (Reference[string], error) {
	return whole(c, name, expectReference, ReferenceField)
}

func (c *cursor) position(name string) (Position, error) {
	return whole(c, name, expectPosition, PositionField)
}

func (c *cursor) alignment(name string) (Alignment, error) {
	return whole(c, name, expectAlignment, AlignmentField)
}

func (c *cursor) integer(name string) (int64, error) {
	return whole(c, name, expectInteger, IntegerField)
}

func (c *cursor) length(name string) (int64, error) {
	tok, start, err := c.take(name)
	if err != nil {
		return 0, err
	}
	v, rest, err := IntegerField(tok)
	if err != nil || rest != "" || v < 0 {
		return 0, c.locate(errors.NewMalformed(name, expectLength, tok), name, tok, start)
	}
	return v, nil
}

func (c *cursor) variance(name string) (*int64, error) {
	tok, start, err := c.take(name)
	if err != nil {
		return nil, err
	}
	if tok == "*" {
		return nil, nil
	}
	v, rest, err := IntegerField(tok)
	if err != nil || rest != "" {
		return nil, c.locate(errors.NewMalformed(name, expectVariance, tok), name, tok, start)
	}
	return &v, nil
}

// members splits a space-separated member list and applies extract to each.
func members[T any](c *cursor, name, expected string, extract func(string) (T, string, error)) ([]T, error) {
	tok, start, err := c.take(name)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(tok, " ")
	out := make([]T, 0, len(parts))
	offset := start
	for _, part := range parts {
		v, rest, err := extract(part)
		if err != nil || rest != "" {
			fe := errors.NewMalformed(name, expected, part)
			fe.Position, fe.Start, fe.End = c.field, offset, offset+len(part)
			return nil, fe
		}
		out = append(out, v)
		offset += len(part) + 1
	}
	return out, nil
}

// optionalFields consumes the remaining "\tTAG:TYPE:VALUE" groups. Separator
// errors are structural and fail in either mode.
func (c *cursor) optionalFields(mode TagMode) ([]OptionalField, []error, error) {
	var fields []OptionalField
	var warnings []error
	for !c.done() {
		tok, start, err := c.take("optional field")
		if err != nil {
			return nil, warnings, err
		}
		f, err := ParseOptionalField(tok)
		if err != nil {
			err = c.locateTag(err, tok, start)
			if mode == TagStrict {
				return nil, warnings, err
			}
			warnings = append(warnings, err)
			continue
		}
		fields = append(fields, f)
	}
	return fields, warnings, nil
}

func (c *cursor) locateTag(err error, tok string, start int) error {
	var fe *errors.FieldError
	if !errors.As(err, &fe) {
		return err
	}
	located := *fe
	if located.Field == "" {
		located.Field = "optional field"
	}
	located.Position = c.field
	located.Start = start
	located.End = start + len(tok)
	if located.Value == "" {
		located.Value = tok
	}
	return &located
}
