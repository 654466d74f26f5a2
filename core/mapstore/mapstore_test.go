package mapstore

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/FocuswithJustin/gfakit/core/errors"
	"github.com/FocuswithJustin/gfakit/core/gfa"
	"github.com/FocuswithJustin/gfakit/core/namemap"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "maps.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func buildMap(t *testing.T, lines ...string) *namemap.NameMap {
	t.Helper()
	doc, _, err := gfa.Parse(lines, gfa.Options{})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return namemap.Build(doc)
}

func TestPutGet(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	m := buildMap(t, "S\tA\t1\tA", "S\tB\t1\tC", "E\t*\tA+\tB-\t0\t1$\t0\t1$\t*")

	e, err := s.Put(ctx, m, "graph.gfa")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if e.Hash != m.Hash || e.Names != 2 || e.Source != "graph.gfa" || e.ID == "" {
		t.Errorf("Put entry = %+v", e)
	}
	if e.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}

	got, err := s.Get(ctx, e.Hash)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !reflect.DeepEqual(got, m) {
		t.Errorf("Get(Put(m).Hash) = %+v, want %+v", got, m)
	}
}

func TestPutReplaces(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	m := buildMap(t, "S\tA\t1\tA")

	first, err := s.Put(ctx, m, "a.gfa")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	second, err := s.Put(ctx, m, "b.gfa")
	if err != nil {
		t.Fatalf("second Put failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("ID changed on replace: %s -> %s", first.ID, second.ID)
	}
	if second.Source != "b.gfa" {
		t.Errorf("Source = %q, want b.gfa", second.Source)
	}

	entries, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("List returned %d entries, want 1", len(entries))
	}
}

func TestListDelete(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	maps := []*namemap.NameMap{
		buildMap(t, "S\tA\t1\tA"),
		buildMap(t, "S\tB\t1\tA"),
		buildMap(t, "S\tC\t1\tA"),
	}
	for _, m := range maps {
		if _, err := s.Put(ctx, m, ""); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	entries, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != len(maps) {
		t.Fatalf("List returned %d entries, want %d", len(entries), len(maps))
	}

	if err := s.Delete(ctx, maps[1].Hash); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(ctx, maps[1].Hash); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Get after Delete error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, maps[1].Hash); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("second Delete error = %v, want ErrNotFound", err)
	}

	entries, err = s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("List after Delete returned %d entries, want 2", len(entries))
	}
	for _, e := range entries {
		if e.Hash == maps[1].Hash {
			t.Error("deleted map still listed")
		}
	}
}

func TestStatMissing(t *testing.T) {
	s := openStore(t)
	if _, err := s.Stat(context.Background(), 42); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Stat error = %v, want ErrNotFound", err)
	}
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maps.db")
	ctx := context.Background()
	m := buildMap(t, "S\tA\t1\tA")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := s.Put(ctx, m, ""); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()
	got, err := s.Get(ctx, m.Hash)
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if !reflect.DeepEqual(got, m) {
		t.Error("map changed across reopen")
	}
}

func TestHashText(t *testing.T) {
	for _, h := range []uint64{0, 1, 0xfedcba9876543210, ^uint64(0)} {
		s := FormatHash(h)
		if len(s) != 16 {
			t.Errorf("FormatHash(%d) = %q, want 16 digits", h, s)
		}
		got, err := ParseHash(s)
		if err != nil || got != h {
			t.Errorf("ParseHash(%q) = (%d, %v), want %d", s, got, err, h)
		}
	}
	if _, err := ParseHash("xyz"); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("ParseHash(xyz) error = %v, want ErrInvalidInput", err)
	}
}
