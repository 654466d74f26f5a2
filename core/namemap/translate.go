package namemap

import (
	"github.com/FocuswithJustin/gfakit/core/errors"
	"github.com/FocuswithJustin/gfakit/core/gfa"
)

// ToIndices returns a copy of doc with every identifier replaced by its
// index. With checkHash set, doc must have the content hash the map was
// built from. Any missing identifier fails the whole translation.
func (m *NameMap) ToIndices(doc *gfa.Document[string], checkHash bool) (*gfa.Document[uint64], error) {
	if checkHash {
		if got := ContentHash(doc); got != m.Hash {
			return nil, &errors.HashMismatchError{Want: m.Hash, Got: got}
		}
	}
	return gfa.MapNames(doc, func(k gfa.Kind, name string) (uint64, error) {
		i, ok := m.Forward[name]
		if !ok {
			return 0, &errors.TranslationError{Record: k.String(), Name: name, ByName: true}
		}
		return i, nil
	})
}

// ToNames is the inverse of ToIndices. An index outside the map fails the
// whole translation.
func (m *NameMap) ToNames(doc *gfa.Document[uint64]) (*gfa.Document[string], error) {
	return gfa.MapNames(doc, func(k gfa.Kind, i uint64) (string, error) {
		name, ok := m.Name(i)
		if !ok {
			return "", &errors.TranslationError{Record: k.String(), Index: i}
		}
		return name, nil
	})
}
