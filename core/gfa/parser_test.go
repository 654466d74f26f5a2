package gfa

import (
	"reflect"
	"strings"
	"testing"

	"github.com/FocuswithJustin/gfakit/core/errors"
)

func TestParse_SegmentAndEdge(t *testing.T) {
	lines := []string{
		"S\tA\t10\tAAAAAAACGT",
		"E\t1\tA+\tB+\t6\t10$\t0\t4\t4M\tTS:i:2",
	}
	doc, diags, err := Parse(lines, Options{})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	if len(doc.Segments) != 1 || len(doc.Edges) != 1 {
		t.Fatalf("got %d segments and %d edges, want 1 and 1", len(doc.Segments), len(doc.Edges))
	}

	wantSeg := Segment[string]{ID: "A", Length: 10, Sequence: "AAAAAAACGT"}
	if !reflect.DeepEqual(doc.Segments[0], wantSeg) {
		t.Errorf("segment = %+v, want %+v", doc.Segments[0], wantSeg)
	}

	wantEdge := Edge[string]{
		ID:        Named("1"),
		Ref1:      Reference[string]{Name: "A", Orientation: Forward},
		Ref2:      Reference[string]{Name: "B", Orientation: Forward},
		Beg1:      Position{Value: "6"},
		End1:      Position{Value: "10", Terminal: true},
		Beg2:      Position{Value: "0"},
		End2:      Position{Value: "4"},
		Alignment: Alignment{Kind: AlignmentCIGAR, Cigar: []CigarOp{{4, 'M'}}},
		Tags:      []OptionalField{{Tag: "TS", Type: TypeInt, Value: "2"}},
	}
	if !reflect.DeepEqual(doc.Edges[0], wantEdge) {
		t.Errorf("edge = %+v, want %+v", doc.Edges[0], wantEdge)
	}
	if got := doc.Edges[0].End1.String(); got != "10$" {
		t.Errorf("End1 = %q, want 10$", got)
	}

	if got := doc.Lines(); !reflect.DeepEqual(got, lines) {
		t.Errorf("Lines() = %q, want %q", got, lines)
	}
}

func TestParseRecord_RoundTrip(t *testing.T) {
	lines := []string{
		"H",
		"H\tVN:Z:2.0",
		"H\tTS:i:100\tVN:Z:2.0\tXX:Z:extra",
		"S\ts1\t0\t*",
		"S\ts2\t1200\tACGTTT\tLN:i:1200\tRC:i:5",
		"F\t12\tread1-\t0\t42\t12\t55$\t*\tid:Z:read1_in_12",
		"F\tutg\tr+\t0\t10\t0\t10\t10M",
		"E\t*\ts1+\ts2-\t0\t0$\t0\t0\t*",
		"E\te7\ts1-\ts2+\t3\t8\t1\t6\t-3,5",
		"G\tg1\ts1+\ts2-\t120\t*",
		"G\t*\ts1-\ts2+\t-20\t5\tzz:A:x",
		"O\tp1\ts1+ s2- s3+",
		"O\t*\ts1+\tWT:f:0.5",
		"U\tset1\ts1 s2 e7",
		"U\t*\tx",
		"# a comment",
		"#",
		"# ",
		"#bare",
		"#\ttabbed",
		"S\tz\t0\tA",
		"G\t*\ts1+\ts2+\t0\t-7",
		"E\t*\ts1+\ts2+\t0\t1\t0\t1\t0M",
		"E\t*\ts1+\ts2+\t0\t1\t0\t1\t0,-12",
		"X\tcustom\trecord",
		"",
	}
	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			rec, warnings, err := ParseRecord(line, TagStrict)
			if err != nil {
				t.Fatalf("ParseRecord(%q) failed: %v", line, err)
			}
			if len(warnings) != 0 {
				t.Errorf("unexpected warnings: %v", warnings)
			}
			if got := rec.String(); got != line {
				t.Errorf("String() = %q, want %q", got, line)
			}
			again, _, err := ParseRecord(rec.String(), TagStrict)
			if err != nil {
				t.Fatalf("re-parse failed: %v", err)
			}
			if !reflect.DeepEqual(again, rec) {
				t.Errorf("re-parse = %+v, want %+v", again, rec)
			}
		})
	}
}

func TestParseRecord_Kinds(t *testing.T) {
	tests := []struct {
		line string
		kind Kind
	}{
		{"H\tVN:Z:2.0", KindHeader},
		{"S\ta\t1\tA", KindSegment},
		{"F\ta\tr+\t0\t1\t0\t1\t*", KindFragment},
		{"E\t*\ta+\tb+\t0\t1\t0\t1\t*", KindEdge},
		{"G\t*\ta+\tb+\t1\t*", KindGap},
		{"O\t*\ta+", KindOrderedGroup},
		{"U\t*\ta", KindUnorderedGroup},
		{"# hi", KindComment},
		{"Xanything", KindCustom},
		{"L\t1\t+\t2\t-\t0M", KindCustom},
	}
	for _, tt := range tests {
		rec, _, err := ParseRecord(tt.line, TagStrict)
		if err != nil {
			t.Errorf("ParseRecord(%q) failed: %v", tt.line, err)
			continue
		}
		if rec.Kind() != tt.kind {
			t.Errorf("ParseRecord(%q).Kind() = %v, want %v", tt.line, rec.Kind(), tt.kind)
		}
	}
}

func TestParseRecord_CustomVerbatim(t *testing.T) {
	line := "X\tsome  odd\t\tbytes \t"
	rec, _, err := ParseRecord(line, TagStrict)
	if err != nil {
		t.Fatalf("ParseRecord failed: %v", err)
	}
	custom, ok := rec.(*CustomRecord)
	if !ok {
		t.Fatalf("got %T, want *CustomRecord", rec)
	}
	if custom.Raw != line {
		t.Errorf("Raw = %q, want %q", custom.Raw, line)
	}
}

func TestParseRecord_HeaderVersion(t *testing.T) {
	tests := []struct {
		line     string
		version  string
		wantTags int
	}{
		{"H\tVN:Z:2.0", "2.0", 0},
		{"H\tVN:Z:1.0", "1.0", 0},
		{"H\tVN:Z:2.1-beta", "2.1-beta", 0},
		{"H\tTS:i:10\tVN:Z:3", "3", 1},
		{"H\tTS:i:10", "", 1},
		{"H\tVN:i:2", "", 1},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			rec, _, err := ParseRecord(tt.line, TagStrict)
			if err != nil {
				t.Fatalf("ParseRecord failed: %v", err)
			}
			h := rec.(*Header)
			if h.Version != tt.version {
				t.Errorf("Version = %q, want %q", h.Version, tt.version)
			}
			if len(h.Tags) != tt.wantTags {
				t.Errorf("len(Tags) = %d, want %d", len(h.Tags), tt.wantTags)
			}
			if h.String() != tt.line {
				t.Errorf("String() = %q, want %q", h.String(), tt.line)
			}
		})
	}

	built := &Header{Version: "2.0", Tags: []OptionalField{IntField("TS", 1)}}
	if got := built.String(); got != "H\tVN:Z:2.0\tTS:i:1" {
		t.Errorf("built header = %q", got)
	}
}

func TestParseRecord_Errors(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		kind  errors.ErrorKind
		field string
	}{
		{"reference without orientation", "E\t1\tA\tB+\t0\t1\t0\t1\t*", errors.KindMalformedField, "sid1"},
		{"reference bad orientation", "E\t1\tA+\tB~\t0\t1\t0\t1\t*", errors.KindMalformedField, "sid2"},
		{"bad alignment", "E\t1\tA+\tB+\t0\t1\t0\t1\t4M,5", errors.KindMalformedField, "alignment"},
		{"negative length", "S\tA\t-1\tACGT", errors.KindMalformedField, "slen"},
		{"non-numeric length", "S\tA\tten\tACGT", errors.KindMalformedField, "slen"},
		{"space inside identifier", "S\tA B\t4\tACGT", errors.KindMalformedField, "sid"},
		{"bad variance", "G\t*\tA+\tB+\t10\tx", errors.KindMalformedField, "var"},
		{"plus-signed length", "S\tA\t+5\tA", errors.KindMalformedField, "slen"},
		{"zero-padded length", "S\tA\t007\tA", errors.KindMalformedField, "slen"},
		{"plus-signed distance", "G\t*\tA+\tB+\t+10\t*", errors.KindMalformedField, "dist"},
		{"negative zero distance", "G\t*\tA+\tB+\t-0\t*", errors.KindMalformedField, "dist"},
		{"zero-padded variance", "G\t*\tA+\tB+\t10\t05", errors.KindMalformedField, "var"},
		{"zero-padded cigar count", "E\t*\tA+\tB+\t0\t1\t0\t1\t04M", errors.KindMalformedField, "alignment"},
		{"zero-padded trace value", "E\t*\tA+\tB+\t0\t1\t0\t1\t3,05", errors.KindMalformedField, "alignment"},
		{"non-numeric position", "E\t*\tA+\tB+\tabc\t1\t0\t1\t*", errors.KindMalformedField, "beg1"},
		{"non-numeric terminal position", "E\t*\tA+\tB+\t0\tq$\t0\t1\t*", errors.KindMalformedField, "end1"},
		{"zero-padded position", "F\tA\tr+\t00\t1\t0\t1\t*", errors.KindMalformedField, "sbeg"},
		{"bad group member", "O\t*\tA+ B", errors.KindMalformedField, "references"},
		{"double space in group", "U\t*\tA  B", errors.KindMalformedField, "ids"},
		{"missing field", "S\tA\t4", errors.KindStructural, "sequence"},
		{"double tab", "S\tA\t\t4\tACGT", errors.KindStructural, "slen"},
		{"space separator after code", "S A 4 ACGT", errors.KindStructural, "sid"},
		{"code only", "E", errors.KindStructural, "eid"},
		{"trailing tab", "S\tA\t4\tACGT\t", errors.KindStructural, "optional field"},
		{"bad tag strict", "S\tA\t4\tACGT\tTS:q:1", errors.KindOptionalFieldSyntax, "type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseRecord(tt.line, TagStrict)
			if err == nil {
				t.Fatalf("ParseRecord(%q) succeeded, want error", tt.line)
			}
			if got := errors.KindOf(err); got != tt.kind {
				t.Errorf("KindOf() = %v, want %v (err: %v)", got, tt.kind, err)
			}
			var fe *errors.FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("error %v is not a FieldError", err)
			}
			if fe.Field != tt.field {
				t.Errorf("Field = %q, want %q", fe.Field, tt.field)
			}
			if fe.End < fe.Start || fe.End > len(tt.line)+1 {
				t.Errorf("bad byte range %d-%d for %q", fe.Start, fe.End, tt.line)
			}
		})
	}
}

func TestParseRecord_ErrorRange(t *testing.T) {
	line := "E\t1\tA\tB+\t0\t1\t0\t1\t*"
	_, _, err := ParseRecord(line, TagStrict)
	var fe *errors.FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("error %v is not a FieldError", err)
	}
	if fe.Position != 2 || fe.Start != 4 || fe.End != 5 || fe.Value != "A" {
		t.Errorf("FieldError = %+v, want field 2 at bytes 4-5 value A", fe)
	}
	if !strings.Contains(fe.Error(), "expected identifier followed by + or -") {
		t.Errorf("Error() = %q should name the expected grammar", fe.Error())
	}
}

func TestParseRecord_PermissiveTags(t *testing.T) {
	rec, warnings, err := ParseRecord("S\tA\t4\tACGT\tTS:q:1\tRC:i:2", TagPermissive)
	if err != nil {
		t.Fatalf("ParseRecord failed: %v", err)
	}
	seg := rec.(*Segment[string])
	if len(seg.Tags) != 1 || seg.Tags[0].Tag != "RC" {
		t.Errorf("Tags = %+v, want only RC", seg.Tags)
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %v, want 1", warnings)
	}
}

func TestParser_AbortOnError(t *testing.T) {
	lines := []string{
		"S\tA\t4\tACGT",
		"E\t1\tA\tB+\t0\t1\t0\t1\t*",
		"S\tB\t4\tACGT",
	}
	_, _, err := Parse(lines, Options{OnError: AbortOnError})
	var lerr *errors.LineError
	if !errors.As(err, &lerr) {
		t.Fatalf("error = %v, want *LineError", err)
	}
	if lerr.Line != 2 || lerr.Record != 'E' {
		t.Errorf("LineError = line %d kind %c, want line 2 kind E", lerr.Line, lerr.Record)
	}
	if start, end, ok := lerr.Range(); !ok || start != 4 || end != 5 {
		t.Errorf("Range() = (%d, %d, %v), want (4, 5, true)", start, end, ok)
	}
}

func TestParser_SkipOnError(t *testing.T) {
	lines := []string{
		"S\tA\t4\tACGT",
		"E\t1\tA\tB+\t0\t1\t0\t1\t*",
		"S\tB\t4\tACGT\tTS:q:1",
		"S\tC\t4\tACGT",
	}
	p := NewParser(Options{OnError: SkipOnError, Tags: TagPermissive})
	if p.Options().Tags != TagPermissive {
		t.Errorf("Options().Tags = %v, want permissive", p.Options().Tags)
	}
	for _, line := range lines {
		if err := p.ParseLine(line); err != nil {
			t.Fatalf("ParseLine(%q) failed: %v", line, err)
		}
	}
	doc := p.Document()
	if len(doc.Segments) != 3 || len(doc.Edges) != 0 {
		t.Errorf("got %d segments and %d edges, want 3 and 0", len(doc.Segments), len(doc.Edges))
	}

	diags := p.Diagnostics()
	if len(diags) != 2 {
		t.Fatalf("got %d diagnostics, want 2", len(diags))
	}
	if !diags[0].Skipped || diags[0].Err.Line != 2 || errors.KindOf(diags[0].Err) != errors.KindMalformedField {
		t.Errorf("diag[0] = %+v, want skipped MalformedField on line 2", diags[0])
	}
	if diags[1].Skipped || diags[1].Err.Line != 3 || errors.KindOf(diags[1].Err) != errors.KindOptionalFieldSyntax {
		t.Errorf("diag[1] = %+v, want kept OptionalFieldSyntax on line 3", diags[1])
	}
	if p.Line() != 4 {
		t.Errorf("Line() = %d, want 4", p.Line())
	}
}

func TestParser_MultipleHeaders(t *testing.T) {
	doc, _, err := Parse([]string{"H\tVN:Z:2.0", "H\tTS:i:5"}, Options{})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(doc.Headers) != 2 {
		t.Fatalf("got %d headers, want 2", len(doc.Headers))
	}
	if doc.Headers[0].Version != "2.0" {
		t.Errorf("first header Version = %q, want 2.0", doc.Headers[0].Version)
	}
	if v, _ := doc.Headers[1].Tags[0].Int(); v != 5 {
		t.Errorf("second header TS = %d, want 5", v)
	}
}
