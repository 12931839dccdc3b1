package monitor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axellelanca/adtracker/internal/readiness"
)

func TestCheckReportsTransitions(t *testing.T) {
	proof := filepath.Join(t.TempDir(), "proof.xml")
	m := NewReadinessMonitor(readiness.NewGate(proof), time.Minute)

	assert.False(t, m.check(), "first check only records the state")
	assert.False(t, m.Ready())

	require.NoError(t, os.WriteFile(proof, []byte("<proof/>"), 0o644))
	assert.True(t, m.check())
	assert.True(t, m.Ready())
	assert.False(t, m.check())

	require.NoError(t, os.Remove(proof))
	assert.True(t, m.check())
	assert.False(t, m.Ready())
}

func TestStartStopsWithContext(t *testing.T) {
	proof := filepath.Join(t.TempDir(), "proof.xml")
	require.NoError(t, os.WriteFile(proof, []byte("<proof/>"), 0o644))
	m := NewReadinessMonitor(readiness.NewGate(proof), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, m.Ready, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop")
	}
}
