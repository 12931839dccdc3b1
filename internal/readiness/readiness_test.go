package readiness

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/axellelanca/adtracker/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "proof.xml")
	gate := NewGate(path)

	assert.ErrorIs(t, gate.Check(), apperrors.ErrNotReady)
	assert.False(t, gate.Ready())

	require.NoError(t, os.WriteFile(path, []byte("<proof/>"), 0o644))
	assert.NoError(t, gate.Check())
	assert.True(t, gate.Ready())

	require.NoError(t, os.Remove(path))
	assert.False(t, gate.Ready())
}

func TestGateRejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	assert.ErrorIs(t, NewGate(dir).Check(), apperrors.ErrNotReady)
}
