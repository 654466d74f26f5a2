// Command gfa reads, checks, reformats and interns GFA2 graph files.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/gfakit/core/errors"
	"github.com/FocuswithJustin/gfakit/core/gfa"
	"github.com/FocuswithJustin/gfakit/core/mapstore"
	"github.com/FocuswithJustin/gfakit/core/namemap"
	"github.com/FocuswithJustin/gfakit/core/sqlite"
	"github.com/FocuswithJustin/gfakit/internal/config"
	"github.com/FocuswithJustin/gfakit/internal/gfaio"
	"github.com/FocuswithJustin/gfakit/internal/logging"
)

const version = "0.1.0"

// logOutput receives structured logs; stdout is reserved for GFA output.
var logOutput io.Writer = os.Stderr

// CLI defines the command-line interface for gfa.
type CLI struct {
	Globals

	Check     CheckCmd     `cmd:"" help:"Parse GFA files and report problems"`
	Fmt       FmtCmd       `cmd:"" help:"Parse a GFA file and write it back out"`
	Intern    InternCmd    `cmd:"" help:"Build a name map for a GFA file"`
	Translate TranslateCmd `cmd:"" help:"Rewrite identifiers as name map indices"`
	Restore   RestoreCmd   `cmd:"" help:"Rewrite name map indices back to identifiers"`
	Maps      MapsGroup    `cmd:"" help:"Name map catalog operations"`
	Version   VersionCmd   `cmd:"" help:"Print version information"`
}

// Globals are flags shared by every command. Non-empty values override the
// config file.
type Globals struct {
	Config    string `name:"config" short:"c" help:"YAML config file" type:"path" env:"GFAKIT_CONFIG"`
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)"`
	LogFormat string `name:"log-format" help:"Log format (text, json)"`
	Store     string `name:"store" help:"Name map catalog path" type:"path"`
	Tags      string `name:"tags" help:"Optional field checking (strict, permissive)"`
	OnError   string `name:"on-error" help:"Failing lines abort the parse or are skipped (abort, skip)"`
}

// MapsGroup contains catalog operations.
type MapsGroup struct {
	List   MapsListCmd   `cmd:"" help:"List stored name maps"`
	Show   MapsShowCmd   `cmd:"" help:"Print a stored name map as JSON"`
	Delete MapsDeleteCmd `cmd:"" help:"Remove a stored name map"`
}

// runtime is bound into every command's Run method.
type runtime struct {
	ctx context.Context
	cfg *config.Config
	out io.Writer
}

// setup loads the config file, applies flag overrides and starts logging.
func (g *Globals) setup(out io.Writer) (*runtime, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	if g.LogFormat != "" {
		cfg.Log.Format = g.LogFormat
	}
	if g.Store != "" {
		cfg.Store.Path = g.Store
	}
	switch g.Tags {
	case "":
	case "strict":
		cfg.Parse.StrictTags = true
	case "permissive":
		cfg.Parse.StrictTags = false
	default:
		return nil, fmt.Errorf("--tags must be strict or permissive, got %q", g.Tags)
	}
	if g.OnError != "" {
		cfg.Parse.OnError = g.OnError
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.InitLoggingTo(logOutput); err != nil {
		return nil, err
	}
	ctx := logging.WithRunID(context.Background(), logging.NewRunID())
	return &runtime{ctx: ctx, cfg: cfg, out: out}, nil
}

// CheckCmd parses files and reports what they contain.
type CheckCmd struct {
	Paths []string `arg:"" help:"GFA files to check" type:"existingfile"`
}

func (c *CheckCmd) Run(rt *runtime) error {
	failed := 0
	for _, path := range c.Paths {
		doc, diags, err := rt.readDocument(path)
		if err != nil {
			fmt.Fprintf(rt.out, "%s: %v\n", path, err)
			failed++
			continue
		}
		fmt.Fprintf(rt.out, "%s: %s\n", path, summarize(doc))
		for _, d := range diags {
			action := "warning"
			if d.Skipped {
				action = "skipped"
			}
			fmt.Fprintf(rt.out, "  %s: %v\n", action, d.Err)
		}
		if len(diags) > 0 {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files had problems", failed, len(c.Paths))
	}
	return nil
}

// FmtCmd parses a file and writes it in canonical form.
type FmtCmd struct {
	Path string `arg:"" help:"GFA file to format" type:"existingfile"`
	Out  string `short:"o" help:"Output path (default stdout); .gz and .xz compress" type:"path"`
}

func (c *FmtCmd) Run(rt *runtime) error {
	doc, _, err := rt.readDocument(c.Path)
	if err != nil {
		return err
	}
	return rt.writeDocument(c.Out, doc)
}

// InternCmd builds and saves a name map.
type InternCmd struct {
	Path    string `arg:"" help:"GFA file to intern" type:"existingfile"`
	Map     string `name:"map" short:"m" help:"Write the name map to this path; .xz compresses" type:"path"`
	Save    bool   `name:"save" help:"Store the name map in the catalog"`
	Indexed string `name:"indexed" short:"o" help:"Also write the index form of the document here" type:"path"`
}

func (c *InternCmd) Run(rt *runtime) error {
	if c.Map == "" && !c.Save && c.Indexed == "" {
		return fmt.Errorf("nothing to do: give --map, --save or --indexed")
	}
	doc, _, err := rt.readDocument(c.Path)
	if err != nil {
		return err
	}

	m := namemap.Build(doc)
	hash := mapstore.FormatHash(m.Hash)
	logging.NameMapBuilt(rt.ctx, hash, m.Len(), "path", c.Path)

	if c.Map != "" {
		if err := m.SaveFile(rt.ctx, c.Map); err != nil {
			return err
		}
	}
	if c.Save {
		if err := rt.withStore(func(s *mapstore.Store) error {
			e, err := s.Put(rt.ctx, m, c.Path)
			if err != nil {
				return err
			}
			logging.InfoContext(rt.ctx, "map_stored", "id", e.ID, "hash", hash, "source", e.Source)
			return nil
		}); err != nil {
			return err
		}
	}
	if c.Indexed != "" {
		idx, err := m.ToIndices(doc, false)
		if err != nil {
			return err
		}
		if err := rt.writeDocument(c.Indexed, idx); err != nil {
			return err
		}
	}

	fmt.Fprintf(rt.out, "%s\t%d names\n", hash, m.Len())
	return nil
}

// TranslateCmd applies a name map to a document.
type TranslateCmd struct {
	Path        string `arg:"" help:"GFA file to translate" type:"existingfile"`
	Map         string `name:"map" short:"m" help:"Name map file (default: look up the catalog by content hash)" type:"path"`
	Out         string `short:"o" help:"Output path (default stdout)" type:"path"`
	NoCheckHash bool   `name:"no-check-hash" help:"Apply the map even if it was built from different content"`
}

func (c *TranslateCmd) Run(rt *runtime) error {
	doc, _, err := rt.readDocument(c.Path)
	if err != nil {
		return err
	}

	var m *namemap.NameMap
	if c.Map != "" {
		m, err = namemap.LoadFile(rt.ctx, c.Map)
	} else {
		err = rt.withStore(func(s *mapstore.Store) error {
			m, err = s.Get(rt.ctx, namemap.ContentHash(doc))
			return err
		})
	}
	if err != nil {
		return err
	}

	checkHash := rt.cfg.Intern.CheckHash && !c.NoCheckHash
	if !checkHash {
		logging.WarnContext(rt.ctx, "hash_check_disabled", "path", c.Path)
	}
	idx, err := m.ToIndices(doc, checkHash)
	if err != nil {
		return err
	}
	return rt.writeDocument(c.Out, idx)
}

// RestoreCmd turns an index-form document back into identifiers.
type RestoreCmd struct {
	Path string `arg:"" help:"Index-form GFA file" type:"existingfile"`
	Map  string `name:"map" short:"m" help:"Name map file" type:"path" xor:"source"`
	Hash string `name:"hash" help:"Content hash of a stored name map" xor:"source"`
	Out  string `short:"o" help:"Output path (default stdout)" type:"path"`
}

func (c *RestoreCmd) Run(rt *runtime) error {
	var m *namemap.NameMap
	var err error
	switch {
	case c.Map != "":
		m, err = namemap.LoadFile(rt.ctx, c.Map)
	case c.Hash != "":
		err = rt.withStore(func(s *mapstore.Store) error {
			hash, err := mapstore.ParseHash(c.Hash)
			if err != nil {
				return err
			}
			m, err = s.Get(rt.ctx, hash)
			return err
		})
	default:
		return fmt.Errorf("give --map or --hash")
	}
	if err != nil {
		return err
	}

	doc, _, err := rt.readDocument(c.Path)
	if err != nil {
		return err
	}
	idx, err := gfa.MapNames(doc, func(_ gfa.Kind, name string) (uint64, error) {
		return gfa.ParseIndex(name)
	})
	if err != nil {
		return err
	}
	named, err := m.ToNames(idx)
	if err != nil {
		return err
	}
	return rt.writeDocument(c.Out, named)
}

// MapsListCmd lists the catalog.
type MapsListCmd struct {
	JSON bool `name:"json" help:"Print entries as JSON"`
}

func (c *MapsListCmd) Run(rt *runtime) error {
	return rt.withStore(func(s *mapstore.Store) error {
		entries, err := s.List(rt.ctx)
		if err != nil {
			return err
		}
		if c.JSON {
			enc := json.NewEncoder(rt.out)
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}
		for _, e := range entries {
			fmt.Fprintf(rt.out, "%s\t%d\t%s\t%s\n",
				mapstore.FormatHash(e.Hash), e.Names, e.CreatedAt.Format(time.RFC3339), e.Source)
		}
		return nil
	})
}

// MapsShowCmd prints one stored map.
type MapsShowCmd struct {
	Hash string `arg:"" help:"Content hash of the name map"`
}

func (c *MapsShowCmd) Run(rt *runtime) error {
	hash, err := mapstore.ParseHash(c.Hash)
	if err != nil {
		return err
	}
	return rt.withStore(func(s *mapstore.Store) error {
		m, err := s.Get(rt.ctx, hash)
		if err != nil {
			return err
		}
		return m.Save(rt.out)
	})
}

// MapsDeleteCmd removes one stored map.
type MapsDeleteCmd struct {
	Hash string `arg:"" help:"Content hash of the name map"`
}

func (c *MapsDeleteCmd) Run(rt *runtime) error {
	hash, err := mapstore.ParseHash(c.Hash)
	if err != nil {
		return err
	}
	return rt.withStore(func(s *mapstore.Store) error {
		if err := s.Delete(rt.ctx, hash); err != nil {
			return err
		}
		logging.InfoContext(rt.ctx, "map_deleted", "hash", mapstore.FormatHash(hash))
		return nil
	})
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(rt *runtime) error {
	info := sqlite.GetInfo()
	fmt.Fprintf(rt.out, "gfa version %s (sqlite: %s, %s)\n", version, info.DriverType, info.Package)
	return nil
}

// Helper functions

// readDocument parses path with the configured options, logging every
// diagnostic.
func (rt *runtime) readDocument(path string) (*gfa.Document[string], []gfa.Diagnostic, error) {
	start := time.Now()
	p := gfa.NewParser(rt.cfg.ParseOptions())
	err := gfaio.EachLine(path, func(_ int, line string) error {
		return p.ParseLine(line)
	})

	diags := p.Diagnostics()
	for _, d := range diags {
		logging.ParseDiagnostic(rt.ctx, d.Err.Line, recordName(d.Err.Record), d.Err, d.Skipped, "path", path)
	}
	if err != nil {
		logging.ErrorContext(rt.ctx, "document_failed", "path", path, "error", err.Error())
		return nil, diags, errors.Wrapf(err, "%s", path)
	}

	doc := p.Document()
	logging.DocumentParsed(rt.ctx, path, doc.Len(), len(diags), time.Since(start))
	return doc, diags, nil
}

// writeDocument writes doc to path, or to stdout when path is empty.
func (rt *runtime) writeDocument(path string, doc interface{ WriteTo(io.Writer) (int64, error) }) error {
	if path == "" {
		_, err := doc.WriteTo(rt.out)
		return err
	}
	var n int64
	err := gfaio.WriteFile(path, func(w io.Writer) error {
		var err error
		n, err = doc.WriteTo(w)
		return err
	})
	if err != nil {
		return err
	}
	logging.DebugContext(rt.ctx, "document_written", "path", path, "bytes", n)
	return nil
}

// withStore opens the catalog for the duration of fn.
func (rt *runtime) withStore(fn func(*mapstore.Store) error) error {
	s, err := mapstore.Open(rt.cfg.Store.Path)
	if err != nil {
		return err
	}
	logging.DebugContext(rt.ctx, "store_opened", "path", rt.cfg.Store.Path)
	defer s.Close()
	return fn(s)
}

func recordName(code byte) string {
	if code == 0 {
		return "empty"
	}
	return gfa.Kind(code).String()
}

// summarize renders per-kind record counts.
func summarize(doc *gfa.Document[string]) string {
	kinds := []gfa.Kind{
		gfa.KindHeader, gfa.KindSegment, gfa.KindFragment, gfa.KindEdge, gfa.KindGap,
		gfa.KindOrderedGroup, gfa.KindUnorderedGroup, gfa.KindComment, gfa.KindCustom,
	}
	var parts []string
	for _, k := range kinds {
		if n := doc.Count(k); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, k))
		}
	}
	if len(parts) == 0 {
		return "0 records"
	}
	return fmt.Sprintf("%d records (%s)", doc.Len(), strings.Join(parts, ", "))
}

// run parses args and executes the selected command, writing results to out.
func run(args []string, out io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("gfa"),
		kong.Description("GFA2 graph toolkit - parse, check, format and intern GFA files"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	if err != nil {
		return err
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	rt, err := cli.Globals.setup(out)
	if err != nil {
		return err
	}
	return ctx.Run(rt)
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "gfa: %v\n", err)
		os.Exit(1)
	}
}
