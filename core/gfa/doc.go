// Package gfa implements a codec for GFA2, the tab-delimited, line-oriented
// graph interchange format.
//
// A line is dispatched on its one-byte record code (H, S, F, E, G, O, U or #)
// to a per-kind grammar that extracts the positional fields and then the
// trailing TAG:TYPE:VALUE optional fields. Lines with any other code become
// CustomRecord values holding the original bytes, so unknown extensions
// survive a round trip.
//
// Records are generic over their identifier type. Parsing always produces
// string identifiers; MapNames rewrites a Document into another identifier
// type (for example the dense uint64 indices assigned by package namemap)
// without touching orientations, positions or optional fields.
//
// Basic usage:
//
//	p := gfa.NewParser(gfa.Options{OnError: gfa.SkipOnError})
//	for _, line := range lines {
//		if err := p.ParseLine(line); err != nil {
//			return err
//		}
//	}
//	doc := p.Document()
//	for _, d := range p.Diagnostics() {
//		log.Println(d.Err)
//	}
//
// Formatting is the exact inverse of parsing: doc.Lines() yields one line per
// record. With Options.KeepOrder the original interleaving of record kinds is
// reproduced as well; otherwise records are grouped by kind.
package gfa
