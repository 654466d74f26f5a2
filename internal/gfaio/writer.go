package gfaio

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ulikunitz/xz"
)

// Writer writes to a file, compressing by suffix.
type Writer struct {
	file       *os.File
	compressor io.WriteCloser
	dst        io.Writer
}

// Create creates or truncates path, creating parent directories as needed.
func Create(path string) (*Writer, error) {
	if err := ValidatePath(path); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create parent directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}

	w := &Writer{file: f, dst: f}
	switch CompressionOf(path) {
	case XZ:
		xw, err := xz.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("xz writer: %w", err)
		}
		w.compressor, w.dst = xw, xw
	case Gzip:
		gw := gzip.NewWriter(f)
		w.compressor, w.dst = gw, gw
	}
	return w, nil
}

func (w *Writer) Write(p []byte) (int, error) {
	return w.dst.Write(p)
}

// Close flushes the compressor and closes the file.
func (w *Writer) Close() error {
	var errs []error
	if w.compressor != nil {
		if err := w.compressor.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := w.file.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// WriteFile creates path and hands fn a writer for it. The file is closed on
// every return path.
func WriteFile(path string, fn func(io.Writer) error) (err error) {
	w, err := Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(w)
}
