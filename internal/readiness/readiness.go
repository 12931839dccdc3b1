// Package readiness implements the global readiness flag: every mutating operation is
// refused until an external proof artifact exists at a configured path.
package readiness

import (
	"os"

	apperrors "github.com/axellelanca/adtracker/internal/errors"
)

// Gate checks for the readiness artifact. The file system is consulted on every call.
type Gate struct {
	path string
}

// NewGate returns a Gate for the artifact at path.
func NewGate(path string) *Gate {
	return &Gate{path: path}
}

// Path returns the artifact location, recorded as the proof reference of each click.
func (g *Gate) Path() string {
	return g.path
}

// Check returns ErrNotReady unless the artifact is present as a regular file.
func (g *Gate) Check() error {
	info, err := os.Stat(g.path)
	if err != nil || info.IsDir() {
		return apperrors.ErrNotReady
	}
	return nil
}

// Ready reports whether Check passes.
func (g *Gate) Ready() bool {
	return g.Check() == nil
}
