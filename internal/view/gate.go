package view

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// RegistrationGate remembers whether this device has already created a
// user. It is advisory: the server enforces nothing.
type RegistrationGate interface {
	Registered() bool
	MarkRegistered() error
}

const markerName = "registered"

// FileGate stores the registration marker as a file under a state directory.
type FileGate struct {
	path string
}

// NewFileGate returns a gate keeping its marker in dir. The directory is
// created on first MarkRegistered.
func NewFileGate(dir string) *FileGate {
	return &FileGate{path: filepath.Join(dir, markerName)}
}

// Registered reports whether the marker file exists. A marker that cannot
// be inspected counts as present.
func (g *FileGate) Registered() bool {
	_, err := os.Stat(g.path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}

// MarkRegistered writes the marker file.
func (g *FileGate) MarkRegistered() error {
	if err := os.MkdirAll(filepath.Dir(g.path), 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	stamp := []byte(time.Now().UTC().Format(time.RFC3339) + "\n")
	if err := os.WriteFile(g.path, stamp, 0o600); err != nil {
		return fmt.Errorf("write registration marker: %w", err)
	}
	return nil
}
