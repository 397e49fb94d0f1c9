package view

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileGate(t *testing.T) {
	req := require.New(t)
	dir := filepath.Join(t.TempDir(), "nested", "chatboard")

	gate := NewFileGate(dir)
	req.False(gate.Registered())

	req.NoError(gate.MarkRegistered())
	req.True(gate.Registered())

	_, err := os.Stat(filepath.Join(dir, markerName))
	req.NoError(err)

	req.True(NewFileGate(dir).Registered(), "marker survives a new gate instance")
}

func TestFileGate_MarkFailsWhenDirIsAFile(t *testing.T) {
	req := require.New(t)
	file := filepath.Join(t.TempDir(), "occupied")
	req.NoError(os.WriteFile(file, []byte("x"), 0o600))

	err := NewFileGate(filepath.Join(file, "sub")).MarkRegistered()
	req.Error(err)
}
