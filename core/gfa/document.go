package gfa

import (
	"bufio"
	"io"

	"github.com/FocuswithJustin/gfakit/core/errors"
)

// Entry locates one record of a Document by kind and index within that kind.
type Entry struct {
	Kind  Kind
	Index int
}

// Document is an ordered-by-kind collection of records. Insertion order is
// kept within each kind. Order, when tracked, also keeps the interleaving of
// kinds so Lines can reproduce the source line for line.
type Document[N Name] struct {
	Headers         []Header
	Segments        []Segment[N]
	Fragments       []Fragment[N]
	Edges           []Edge[N]
	Gaps            []Gap[N]
	OrderedGroups   []OrderedGroup[N]
	UnorderedGroups []UnorderedGroup[N]
	Comments        []Comment
	Custom          []CustomRecord

	// Order lists every record in insertion order when tracking is enabled.
	Order []Entry

	keepOrder bool
}

// NewDocument returns an empty Document. With keepOrder set, Add records the
// cross-kind insertion order in Order.
func NewDocument[N Name](keepOrder bool) *Document[N] {
	return &Document[N]{keepOrder: keepOrder}
}

// KeepsOrder reports whether the document tracks cross-kind order.
func (d *Document[N]) KeepsOrder() bool {
	return d.keepOrder
}

// Add appends a record to the collection of its kind. The record must be a
// pointer to one of the record types with the document's name type.
func (d *Document[N]) Add(rec Record) error {
	var e Entry
	switch r := rec.(type) {
	case *Header:
		e = Entry{KindHeader, len(d.Headers)}
		d.Headers = append(d.Headers, *r)
	case *Segment[N]:
		e = Entry{KindSegment, len(d.Segments)}
		d.Segments = append(d.Segments, *r)
	case *Fragment[N]:
		e = Entry{KindFragment, len(d.Fragments)}
		d.Fragments = append(d.Fragments, *r)
	case *Edge[N]:
		e = Entry{KindEdge, len(d.Edges)}
		d.Edges = append(d.Edges, *r)
	case *Gap[N]:
		e = Entry{KindGap, len(d.Gaps)}
		d.Gaps = append(d.Gaps, *r)
	case *OrderedGroup[N]:
		e = Entry{KindOrderedGroup, len(d.OrderedGroups)}
		d.OrderedGroups = append(d.OrderedGroups, *r)
	case *UnorderedGroup[N]:
		e = Entry{KindUnorderedGroup, len(d.UnorderedGroups)}
		d.UnorderedGroups = append(d.UnorderedGroups, *r)
	case *Comment:
		e = Entry{KindComment, len(d.Comments)}
		d.Comments = append(d.Comments, *r)
	case *CustomRecord:
		e = Entry{KindCustom, len(d.Custom)}
		d.Custom = append(d.Custom, *r)
	default:
		return errors.Wrapf(errors.ErrInvalidInput, "cannot add %T to document", rec)
	}
	if d.keepOrder {
		d.Order = append(d.Order, e)
	}
	return nil
}

// Len returns the total number of records.
func (d *Document[N]) Len() int {
	return len(d.Headers) + len(d.Segments) + len(d.Fragments) + len(d.Edges) +
		len(d.Gaps) + len(d.OrderedGroups) + len(d.UnorderedGroups) +
		len(d.Comments) + len(d.Custom)
}

// Count returns the number of records of kind k.
func (d *Document[N]) Count(k Kind) int {
	switch k {
	case KindHeader:
		return len(d.Headers)
	case KindSegment:
		return len(d.Segments)
	case KindFragment:
		return len(d.Fragments)
	case KindEdge:
		return len(d.Edges)
	case KindGap:
		return len(d.Gaps)
	case KindOrderedGroup:
		return len(d.OrderedGroups)
	case KindUnorderedGroup:
		return len(d.UnorderedGroups)
	case KindComment:
		return len(d.Comments)
	}
	return len(d.Custom)
}

// Record returns the record at e, or nil if e is out of range.
func (d *Document[N]) Record(e Entry) Record {
	if e.Index < 0 || e.Index >= d.Count(e.Kind) {
		return nil
	}
	switch e.Kind {
	case KindHeader:
		return &d.Headers[e.Index]
	case KindSegment:
		return &d.Segments[e.Index]
	case KindFragment:
		return &d.Fragments[e.Index]
	case KindEdge:
		return &d.Edges[e.Index]
	case KindGap:
		return &d.Gaps[e.Index]
	case KindOrderedGroup:
		return &d.OrderedGroups[e.Index]
	case KindUnorderedGroup:
		return &d.UnorderedGroups[e.Index]
	case KindComment:
		return &d.Comments[e.Index]
	}
	return &d.Custom[e.Index]
}

// kindOrder is the order in which Lines emits kinds when Order is unusable.
var kindOrder = []Kind{
	KindHeader, KindSegment, KindFragment, KindEdge, KindGap,
	KindOrderedGroup, KindUnorderedGroup, KindComment, KindCustom,
}

// Records returns every record. If Order covers the document exactly it is
// followed; otherwise records are grouped by kind.
func (d *Document[N]) Records() []Record {
	out := make([]Record, 0, d.Len())
	if len(d.Order) == d.Len() {
		for _, e := range d.Order {
			rec := d.Record(e)
			if rec == nil {
				out = out[:0]
				break
			}
			out = append(out, rec)
		}
		if len(out) == d.Len() {
			return out
		}
	}
	for _, k := range kindOrder {
		for i, n := 0, d.Count(k); i < n; i++ {
			out = append(out, d.Record(Entry{k, i}))
		}
	}
	return out
}

// Lines formats every record as one line.
func (d *Document[N]) Lines() []string {
	recs := d.Records()
	lines := make([]string, len(recs))
	for i, r := range recs {
		lines[i] = r.String()
	}
	return lines
}

// WriteTo writes the document as newline-terminated lines.
func (d *Document[N]) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for _, r := range d.Records() {
		m, err := bw.WriteString(r.String())
		n += int64(m)
		if err != nil {
			return n, err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return n, err
		}
		n++
	}
	return n, bw.Flush()
}
