package gfa

import (
	"strconv"
	"strings"
)

// Kind is the one-byte record code that starts every line.
type Kind byte

// Record kinds.
const (
	KindHeader         Kind = 'H'
	KindSegment        Kind = 'S'
	KindFragment       Kind = 'F'
	KindEdge           Kind = 'E'
	KindGap            Kind = 'G'
	KindOrderedGroup   Kind = 'O'
	KindUnorderedGroup Kind = 'U'
	KindComment        Kind = '#'

	// KindCustom marks lines whose code is not part of GFA2.
	KindCustom Kind = 0
)

var kindNames = map[Kind]string{
	KindHeader:         "header",
	KindSegment:        "segment",
	KindFragment:       "fragment",
	KindEdge:           "edge",
	KindGap:            "gap",
	KindOrderedGroup:   "ordered group",
	KindUnorderedGroup: "unordered group",
	KindComment:        "comment",
	KindCustom:         "custom",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "custom"
}

// Record is one parsed line. Its String method returns the line text.
type Record interface {
	Kind() Kind
	String() string
}

// versionTag is the header tag carrying the format version.
const versionTag = "VN"

// Header is an H line. Version comes from the first VN:Z tag; the remaining
// tags are kept in order.
type Header struct {
	Version string
	Tags    []OptionalField

	// versionAt is the index of the VN tag among all header tags.
	versionAt int
}

// Segment is an S line.
type Segment[N Name] struct {
	ID       N
	Length   int64
	Sequence string
	Tags     []OptionalField
}

// Fragment is an F line: a segment interval aligned to an external sequence.
type Fragment[N Name] struct {
	ID        N
	External  Reference[N]
	SegBegin  Position
	SegEnd    Position
	FragBegin Position
	FragEnd   Position
	Alignment Alignment
	Tags      []OptionalField
}

// Edge is an E line.
type Edge[N Name] struct {
	ID        OptionalName[N]
	Ref1      Reference[N]
	Ref2      Reference[N]
	Beg1      Position
	End1      Position
	Beg2      Position
	End2      Position
	Alignment Alignment
	Tags      []OptionalField
}

// Gap is a G line. Variance is nil when written as "*".
type Gap[N Name] struct {
	ID       OptionalName[N]
	Ref1     Reference[N]
	Ref2     Reference[N]
	Distance int64
	Variance *int64
	Tags     []OptionalField
}

// OrderedGroup is an O line (a path of oriented references).
type OrderedGroup[N Name] struct {
	ID      OptionalName[N]
	Members []Reference[N]
	Tags    []OptionalField
}

// UnorderedGroup is a U line (a set of identifiers).
type UnorderedGroup[N Name] struct {
	ID      OptionalName[N]
	Members []N
	Tags    []OptionalField
}

// Comment is a # line. Bare marks a line with no space between # and Text.
type Comment struct {
	Text string
	Bare bool
}

// CustomRecord is a line with an unrecognized record code, kept verbatim.
type CustomRecord struct {
	Raw string
}

func (*Header) Kind() Kind            { return KindHeader }
func (*Segment[N]) Kind() Kind        { return KindSegment }
func (*Fragment[N]) Kind() Kind       { return KindFragment }
func (*Edge[N]) Kind() Kind           { return KindEdge }
func (*Gap[N]) Kind() Kind            { return KindGap }
func (*OrderedGroup[N]) Kind() Kind   { return KindOrderedGroup }
func (*UnorderedGroup[N]) Kind() Kind { return KindUnorderedGroup }
func (*Comment) Kind() Kind           { return KindComment }
func (*CustomRecord) Kind() Kind      { return KindCustom }

// AllTags returns the header tags with the VN tag at its original position.
func (h *Header) AllTags() []OptionalField {
	if h.Version == "" {
		return h.Tags
	}
	at := h.versionAt
	if at > len(h.Tags) {
		at = len(h.Tags)
	}
	out := make([]OptionalField, 0, len(h.Tags)+1)
	out = append(out, h.Tags[:at]...)
	out = append(out, StringField(versionTag, h.Version))
	return append(out, h.Tags[at:]...)
}

func (h *Header) String() string {
	return "H" + FormatOptionalFields(h.AllTags())
}

func (s *Segment[N]) String() string {
	return join(KindSegment, s.Tags,
		formatName(s.ID),
		strconv.FormatInt(s.Length, 10),
		s.Sequence,
	)
}

func (f *Fragment[N]) String() string {
	return join(KindFragment, f.Tags,
		formatName(f.ID),
		f.External.String(),
		f.SegBegin.String(),
		f.SegEnd.String(),
		f.FragBegin.String(),
		f.FragEnd.String(),
		f.Alignment.String(),
	)
}

func (e *Edge[N]) String() string {
	return join(KindEdge, e.Tags,
		e.ID.String(),
		e.Ref1.String(),
		e.Ref2.String(),
		e.Beg1.String(),
		e.End1.String(),
		e.Beg2.String(),
		e.End2.String(),
		e.Alignment.String(),
	)
}

func (g *Gap[N]) String() string {
	variance := "*"
	if g.Variance != nil {
		variance = strconv.FormatInt(*g.Variance, 10)
	}
	return join(KindGap, g.Tags,
		g.ID.String(),
		g.Ref1.String(),
		g.Ref2.String(),
		strconv.FormatInt(g.Distance, 10),
		variance,
	)
}

func (o *OrderedGroup[N]) String() string {
	members := make([]string, len(o.Members))
	for i, m := range o.Members {
		members[i] = m.String()
	}
	return join(KindOrderedGroup, o.Tags, o.ID.String(), strings.Join(members, " "))
}

func (u *UnorderedGroup[N]) String() string {
	members := make([]string, len(u.Members))
	for i, m := range u.Members {
		members[i] = formatName(m)
	}
	return join(KindUnorderedGroup, u.Tags, u.ID.String(), strings.Join(members, " "))
}

func (c *Comment) String() string {
	if c.Bare {
		return "#" + c.Text
	}
	return "# " + c.Text
}

func (c *CustomRecord) String() string {
	return c.Raw
}

// join renders a record code, its positional fields and its optional fields.
func join(k Kind, tags []OptionalField, fields ...string) string {
	var sb strings.Builder
	sb.WriteByte(byte(k))
	for _, f := range fields {
		sb.WriteByte('\t')
		sb.WriteString(f)
	}
	sb.WriteString(FormatOptionalFields(tags))
	return sb.String()
}
