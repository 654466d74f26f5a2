package gfa

import "slices"

// NameFunc maps one identifier found in a record of kind k.
type NameFunc[A, B Name] func(k Kind, name A) (B, error)

// MapNames returns a copy of doc with every identifier replaced by fn. Only
// the identifier part of references changes; orientations, positions,
// alignments and optional fields are copied unchanged. The first error from
// fn aborts the whole transform and no document is returned. doc is not
// modified.
func MapNames[A, B Name](doc *Document[A], fn NameFunc[A, B]) (*Document[B], error) {
	out := &Document[B]{
		Headers:   cloneHeaders(doc.Headers),
		Comments:  slices.Clone(doc.Comments),
		Custom:    slices.Clone(doc.Custom),
		Order:     slices.Clone(doc.Order),
		keepOrder: doc.keepOrder,
	}
	m := &mapper[A, B]{fn: fn}

	if len(doc.Segments) > 0 {
		out.Segments = make([]Segment[B], len(doc.Segments))
	}
	for i, s := range doc.Segments {
		out.Segments[i] = Segment[B]{
			ID:       m.name(KindSegment, s.ID),
			Length:   s.Length,
			Sequence: s.Sequence,
			Tags:     slices.Clone(s.Tags),
		}
	}

	if len(doc.Fragments) > 0 {
		out.Fragments = make([]Fragment[B], len(doc.Fragments))
	}
	for i, f := range doc.Fragments {
		out.Fragments[i] = Fragment[B]{
			ID:        m.name(KindFragment, f.ID),
			External:  m.ref(KindFragment, f.External),
			SegBegin:  f.SegBegin,
			SegEnd:    f.SegEnd,
			FragBegin: f.FragBegin,
			FragEnd:   f.FragEnd,
			Alignment: cloneAlignment(f.Alignment),
			Tags:      slices.Clone(f.Tags),
		}
	}

	if len(doc.Edges) > 0 {
		out.Edges = make([]Edge[B], len(doc.Edges))
	}
	for i, e := range doc.Edges {
		out.Edges[i] = Edge[B]{
			ID:        m.optional(KindEdge, e.ID),
			Ref1:      m.ref(KindEdge, e.Ref1),
			Ref2:      m.ref(KindEdge, e.Ref2),
			Beg1:      e.Beg1,
			End1:      e.End1,
			Beg2:      e.Beg2,
			End2:      e.End2,
			Alignment: cloneAlignment(e.Alignment),
			Tags:      slices.Clone(e.Tags),
		}
	}

	if len(doc.Gaps) > 0 {
		out.Gaps = make([]Gap[B], len(doc.Gaps))
	}
	for i, g := range doc.Gaps {
		var variance *int64
		if g.Variance != nil {
			v := *g.Variance
			variance = &v
		}
		out.Gaps[i] = Gap[B]{
			ID:       m.optional(KindGap, g.ID),
			Ref1:     m.ref(KindGap, g.Ref1),
			Ref2:     m.ref(KindGap, g.Ref2),
			Distance: g.Distance,
			Variance: variance,
			Tags:     slices.Clone(g.Tags),
		}
	}

	if len(doc.OrderedGroups) > 0 {
		out.OrderedGroups = make([]OrderedGroup[B], len(doc.OrderedGroups))
	}
	for i, o := range doc.OrderedGroups {
		refs := make([]Reference[B], len(o.Members))
		for j, r := range o.Members {
			refs[j] = m.ref(KindOrderedGroup, r)
		}
		out.OrderedGroups[i] = OrderedGroup[B]{
			ID:      m.optional(KindOrderedGroup, o.ID),
			Members: refs,
			Tags:    slices.Clone(o.Tags),
		}
	}

	if len(doc.UnorderedGroups) > 0 {
		out.UnorderedGroups = make([]UnorderedGroup[B], len(doc.UnorderedGroups))
	}
	for i, u := range doc.UnorderedGroups {
		ids := make([]B, len(u.Members))
		for j, id := range u.Members {
			ids[j] = m.name(KindUnorderedGroup, id)
		}
		out.UnorderedGroups[i] = UnorderedGroup[B]{
			ID:      m.optional(KindUnorderedGroup, u.ID),
			Members: ids,
			Tags:    slices.Clone(u.Tags),
		}
	}

	if m.err != nil {
		return nil, m.err
	}
	return out, nil
}

// mapper applies a NameFunc and remembers the first error.
type mapper[A, B Name] struct {
	fn  NameFunc[A, B]
	err error
}

func (m *mapper[A, B]) name(k Kind, n A) B {
	var zero B
	if m.err != nil {
		return zero
	}
	b, err := m.fn(k, n)
	if err != nil {
		m.err = err
		return zero
	}
	return b
}

func (m *mapper[A, B]) ref(k Kind, r Reference[A]) Reference[B] {
	return Reference[B]{Name: m.name(k, r.Name), Orientation: r.Orientation}
}

func (m *mapper[A, B]) optional(k Kind, o OptionalName[A]) OptionalName[B] {
	if !o.Valid {
		return OptionalName[B]{}
	}
	return Named(m.name(k, o.Name))
}

func cloneHeaders(hs []Header) []Header {
	if hs == nil {
		return nil
	}
	out := make([]Header, len(hs))
	for i, h := range hs {
		out[i] = h
		out[i].Tags = slices.Clone(h.Tags)
	}
	return out
}

func cloneAlignment(a Alignment) Alignment {
	return Alignment{Kind: a.Kind, Cigar: slices.Clone(a.Cigar), Trace: slices.Clone(a.Trace)}
}
