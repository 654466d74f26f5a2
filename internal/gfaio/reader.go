// Package gfaio opens and creates GFA files and the files that travel with
// them. Paths ending in .gz or .xz are transparently decompressed on read and
// compressed on write.
package gfaio

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"
)

// Compression is the codec selected by a path suffix.
type Compression int

const (
	None Compression = iota
	Gzip
	XZ
)

func (c Compression) String() string {
	switch c {
	case Gzip:
		return "gzip"
	case XZ:
		return "xz"
	}
	return "none"
}

// CompressionOf returns the codec used for path.
func CompressionOf(path string) Compression {
	switch {
	case strings.HasSuffix(path, ".xz"):
		return XZ
	case strings.HasSuffix(path, ".gz"):
		return Gzip
	}
	return None
}

// Reader yields the lines of a possibly compressed file one at a time.
type Reader struct {
	file         *os.File
	decompressor io.Closer
	src          io.Reader
	buf          *bufio.Reader

	text string
	line int
	err  error
}

// Open opens path for reading, decompressing by suffix.
func Open(path string) (*Reader, error) {
	if err := ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	var src io.Reader = f
	var decompressor io.Closer

	switch CompressionOf(path) {
	case XZ:
		xzr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("xz reader: %w", err)
		}
		src = xzr
	case Gzip:
		gzr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		src = gzr
		decompressor = gzr
	}

	return &Reader{
		file:         f,
		decompressor: decompressor,
		src:          src,
		buf:          bufio.NewReaderSize(src, 64*1024),
	}, nil
}

// Read reads decompressed bytes. It must not be mixed with Next.
func (r *Reader) Read(p []byte) (int, error) {
	return r.src.Read(p)
}

// Next advances to the next line, reporting false at end of input or on
// error. Lines may be of any length; "\n" and "\r\n" terminators are removed.
func (r *Reader) Next() bool {
	if r.err != nil {
		return false
	}
	s, err := r.buf.ReadString('\n')
	if err != nil && err != io.EOF {
		r.err = err
		return false
	}
	if err == io.EOF && s == "" {
		return false
	}
	s = strings.TrimSuffix(s, "\n")
	r.text = strings.TrimSuffix(s, "\r")
	r.line++
	return true
}

// Text returns the current line without its terminator.
func (r *Reader) Text() string {
	return r.text
}

// LineNumber returns the 1-based number of the current line.
func (r *Reader) LineNumber() int {
	return r.line
}

// Err returns the first read error, if any.
func (r *Reader) Err() error {
	return r.err
}

// Close closes the reader and any underlying decompressor.
func (r *Reader) Close() error {
	var errs []error
	if r.decompressor != nil {
		if err := r.decompressor.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := r.file.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// EachLine calls fn for every line of path. The file is closed on every
// return path, including when fn fails.
func EachLine(path string, fn func(lineNo int, line string) error) (err error) {
	r, err := Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := r.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	for r.Next() {
		if err := fn(r.LineNumber(), r.Text()); err != nil {
			return err
		}
	}
	return r.Err()
}

// ReadLines returns every line of path.
func ReadLines(path string) ([]string, error) {
	var lines []string
	err := EachLine(path, func(_ int, line string) error {
		lines = append(lines, line)
		return nil
	})
	return lines, err
}
