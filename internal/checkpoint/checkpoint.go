// Package checkpoint decides whether prior work can be reused. A task is
// complete iff a non-empty, parseable JSON file exists at its derived path.
package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store maps relative checkpoint paths onto a results directory.
type Store struct {
	dir string
}

// New creates a store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the results directory root.
func (s *Store) Dir() string { return s.dir }

// Abs resolves a relative checkpoint path against the results directory.
func (s *Store) Abs(rel string) string {
	return filepath.Join(s.dir, filepath.FromSlash(rel))
}

// Exists reports whether a valid checkpoint is present at rel. A zero-byte
// or truncated file (e.g. from a killed process) counts as absent so the
// task is retried rather than silently accepted.
func (s *Store) Exists(rel string) bool {
	data, err := os.ReadFile(s.Abs(rel))
	if err != nil || len(data) == 0 {
		return false
	}
	return json.Valid(data)
}

// WriteJSON persists v at rel atomically: encode to a temp file in the same
// directory, then rename into place. A concurrent reader never observes a
// partial file.
func (s *Store) WriteJSON(rel string, v any) error {
	abs := s.Abs(rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("create checkpoint dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(abs), "."+filepath.Base(abs)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp checkpoint: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode checkpoint %s: %w", rel, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp checkpoint: %w", err)
	}
	if err := os.Rename(tmp.Name(), abs); err != nil {
		return fmt.Errorf("rename checkpoint into place: %w", err)
	}
	return nil
}

// WriteRaw persists already-encoded bytes at rel with the same atomic
// discipline as WriteJSON. The payload must be valid JSON or Exists will
// keep treating the task as pending.
func (s *Store) WriteRaw(rel string, data []byte) error {
	abs := s.Abs(rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("create checkpoint dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(abs), "."+filepath.Base(abs)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp checkpoint: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write checkpoint %s: %w", rel, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp checkpoint: %w", err)
	}
	if err := os.Rename(tmp.Name(), abs); err != nil {
		return fmt.Errorf("rename checkpoint into place: %w", err)
	}
	return nil
}

// ReadInto loads the checkpoint at rel into v.
func (s *Store) ReadInto(rel string, v any) error {
	data, err := os.ReadFile(s.Abs(rel))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse checkpoint %s: %w", rel, err)
	}
	return nil
}
