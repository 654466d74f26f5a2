// Package namemap interns GFA identifiers as dense integer indices.
//
// A NameMap is built once from a parsed document. It carries a content hash
// of that document so a later translation can detect that it is being
// applied to different content:
//
//	m := namemap.Build(doc)
//	idx, err := m.ToIndices(doc, true)  // *gfa.Document[uint64]
//	back, err := m.ToNames(idx)         // equal to doc
package namemap

import (
	"github.com/FocuswithJustin/gfakit/core/errors"
	"github.com/FocuswithJustin/gfakit/core/gfa"
)

// NameMap is a bijection between identifiers and the indices 0..Len()-1.
type NameMap struct {
	Forward map[string]uint64 `json:"forward"`
	Inverse []string          `json:"inverse"`
	Hash    uint64            `json:"hash"`
}

// Build assigns indices in order of first appearance, walking segments,
// fragments, edges, gaps, ordered groups and unordered groups in that order.
func Build(doc *gfa.Document[string]) *NameMap {
	m := &NameMap{
		Forward: make(map[string]uint64),
		Hash:    ContentHash(doc),
	}
	// The assigning function never fails, so neither does the walk.
	_, _ = gfa.MapNames(doc, func(_ gfa.Kind, name string) (uint64, error) {
		return m.intern(name), nil
	})
	return m
}

func (m *NameMap) intern(name string) uint64 {
	if i, ok := m.Forward[name]; ok {
		return i
	}
	i := uint64(len(m.Inverse))
	m.Forward[name] = i
	m.Inverse = append(m.Inverse, name)
	return i
}

// Len returns the number of interned identifiers.
func (m *NameMap) Len() int {
	return len(m.Inverse)
}

// Index returns the index of name.
func (m *NameMap) Index(name string) (uint64, bool) {
	i, ok := m.Forward[name]
	return i, ok
}

// Name returns the identifier at index i.
func (m *NameMap) Name(i uint64) (string, bool) {
	if i >= uint64(len(m.Inverse)) {
		return "", false
	}
	return m.Inverse[i], true
}

// Validate checks that Forward and Inverse describe the same bijection.
func (m *NameMap) Validate() error {
	if len(m.Forward) != len(m.Inverse) {
		return errors.Wrapf(errors.ErrInvalidInput,
			"name map has %d forward entries and %d inverse entries", len(m.Forward), len(m.Inverse))
	}
	for i, name := range m.Inverse {
		j, ok := m.Forward[name]
		if !ok || j != uint64(i) {
			return errors.Wrapf(errors.ErrInvalidInput,
				"name map entry %d (%q) does not round-trip", i, name)
		}
	}
	return nil
}
