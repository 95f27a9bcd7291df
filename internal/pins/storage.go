// Package pins persists the three item buckets of the bar to a YAML file.
package pins

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/luriusTM/Seelen-UI/internal/weg"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned by Read when the pins file does not exist yet.
var ErrNotFound = errors.New("pins file not found")

// File is the on-disk pins document. It remembers the last bytes it read or
// wrote so callers can tell their own writes apart from external edits.
type File struct {
	path string

	mu   sync.Mutex
	last []byte
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Path() string { return f.path }

// Read loads and validates the buckets. Separators and duplicate keys are
// dropped; items without an id take their key.
func (f *File) Read() (weg.Buckets, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return weg.Buckets{}, ErrNotFound
		}
		return weg.Buckets{}, fmt.Errorf("failed to read pins %s: %w", f.path, err)
	}
	b, err := Decode(data)
	if err != nil {
		return weg.Buckets{}, fmt.Errorf("%s: %w", f.path, err)
	}
	f.mu.Lock()
	f.last = data
	f.mu.Unlock()
	return b, nil
}

// ReadOrDefault returns the default buckets when no pins file exists.
func (f *File) ReadOrDefault() (weg.Buckets, error) {
	b, err := f.Read()
	if errors.Is(err, ErrNotFound) {
		return weg.DefaultBuckets(), nil
	}
	return b, err
}

// Write stores the persistable part of b, replacing the file atomically.
func (f *File) Write(b weg.Buckets) error {
	data, err := Encode(b)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("failed to create pins directory: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write pins: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace pins: %w", err)
	}
	f.mu.Lock()
	f.last = data
	f.mu.Unlock()
	return nil
}

// ChangedExternally reports whether the file differs from what this File
// last read or wrote.
func (f *File) ChangedExternally() (bool, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return !bytes.Equal(data, f.last), nil
}

// Encode marshals the persistable buckets.
func Encode(b weg.Buckets) ([]byte, error) {
	data, err := yaml.Marshal(b.Persistable())
	if err != nil {
		return nil, fmt.Errorf("failed to encode pins: %w", err)
	}
	return data, nil
}

// Decode parses a pins document.
func Decode(data []byte) (weg.Buckets, error) {
	var b weg.Buckets
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil && err != io.EOF {
		return weg.Buckets{}, fmt.Errorf("failed to parse pins: %w", err)
	}
	for _, side := range weg.Sides {
		items := *b.Side(side)
		for i := range items {
			if items[i].IsSeparator() {
				continue
			}
			if items[i].ID == "" && items[i].Kind != weg.KindTemporalApp {
				items[i].ID = items[i].Key()
			}
			if err := items[i].Validate(); err != nil {
				return weg.Buckets{}, fmt.Errorf("%s[%d]: %w", side, i, err)
			}
		}
	}
	out, dropped := b.Dedupe()
	if len(dropped) > 0 {
		slog.Warn("dropped duplicate pins", "keys", dropped)
	}
	for _, side := range weg.Sides {
		if *out.Side(side) == nil {
			*out.Side(side) = []weg.Item{}
		}
	}
	return out, nil
}
