package namemap

import (
	"encoding/binary"
	"io"
	"strconv"

	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/gfakit/core/gfa"
)

// ContentHash digests every identifier and positional field of the
// segments, fragments, edges, gaps and groups of doc. Headers, comments,
// custom records and optional fields do not contribute. Each field is
// length-prefixed so adjacent fields cannot run together.
func ContentHash(doc *gfa.Document[string]) uint64 {
	d := &digest{h: blake3.New()}

	for _, s := range doc.Segments {
		d.kind(gfa.KindSegment)
		d.field(s.ID)
		d.field(strconv.FormatInt(s.Length, 10))
		d.field(s.Sequence)
	}
	for _, f := range doc.Fragments {
		d.kind(gfa.KindFragment)
		d.field(f.ID)
		d.field(f.External.String())
		d.field(f.SegBegin.String())
		d.field(f.SegEnd.String())
		d.field(f.FragBegin.String())
		d.field(f.FragEnd.String())
		d.field(f.Alignment.String())
	}
	for _, e := range doc.Edges {
		d.kind(gfa.KindEdge)
		d.field(e.ID.String())
		d.field(e.Ref1.String())
		d.field(e.Ref2.String())
		d.field(e.Beg1.String())
		d.field(e.End1.String())
		d.field(e.Beg2.String())
		d.field(e.End2.String())
		d.field(e.Alignment.String())
	}
	for _, g := range doc.Gaps {
		d.kind(gfa.KindGap)
		d.field(g.ID.String())
		d.field(g.Ref1.String())
		d.field(g.Ref2.String())
		d.field(strconv.FormatInt(g.Distance, 10))
		if g.Variance == nil {
			d.field("*")
		} else {
			d.field(strconv.FormatInt(*g.Variance, 10))
		}
	}
	for _, o := range doc.OrderedGroups {
		d.kind(gfa.KindOrderedGroup)
		d.field(o.ID.String())
		d.count(len(o.Members))
		for _, r := range o.Members {
			d.field(r.String())
		}
	}
	for _, u := range doc.UnorderedGroups {
		d.kind(gfa.KindUnorderedGroup)
		d.field(u.ID.String())
		d.count(len(u.Members))
		for _, id := range u.Members {
			d.field(id)
		}
	}

	sum := d.h.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8])
}

type digest struct {
	h   *blake3.Hasher
	buf [binary.MaxVarintLen64]byte
}

func (d *digest) kind(k gfa.Kind) {
	d.h.Write([]byte{byte(k)})
}

func (d *digest) count(n int) {
	m := binary.PutUvarint(d.buf[:], uint64(n))
	d.h.Write(d.buf[:m])
}

func (d *digest) field(s string) {
	d.count(len(s))
	io.WriteString(d.h, s)
}
