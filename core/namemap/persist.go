package namemap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/FocuswithJustin/gfakit/core/errors"
	"github.com/FocuswithJustin/gfakit/internal/gfaio"
)

// lockTimeout bounds how long SaveFile and LoadFile wait for the lock file.
const lockTimeout = 3 * time.Second

// Save writes m as JSON.
func (m *NameMap) Save(w io.Writer) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("failed to encode name map: %w", err)
	}
	return nil
}

// Load reads a map written by Save and checks that it is a bijection.
func Load(r io.Reader) (*NameMap, error) {
	var m NameMap
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "failed to decode name map: %v", err)
	}
	if m.Forward == nil {
		m.Forward = make(map[string]uint64)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveFile writes m to path, xz-compressed when path ends in .xz. A sibling
// .lock file serializes access with other processes.
func (m *NameMap) SaveFile(ctx context.Context, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewIO("create directory for", path, err)
	}
	unlock, err := lock(ctx, path)
	if err != nil {
		return err
	}
	defer unlock()

	if err := gfaio.WriteFile(path, m.Save); err != nil {
		return errors.NewIO("write name map", path, err)
	}
	return nil
}

// LoadFile reads a map written by SaveFile.
func LoadFile(ctx context.Context, path string) (*NameMap, error) {
	unlock, err := lock(ctx, path)
	if err != nil {
		return nil, err
	}
	defer unlock()

	r, err := gfaio.Open(path)
	if err != nil {
		return nil, errors.NewIO("open name map", path, err)
	}
	defer r.Close()
	return Load(r)
}

func lock(ctx context.Context, path string) (func(), error) {
	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	fl := flock.New(path + ".lock")
	locked, err := fl.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("could not acquire file lock for %s", path)
	}
	return func() { _ = fl.Unlock() }, nil
}
