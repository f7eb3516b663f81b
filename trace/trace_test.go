package trace_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/intersection-rl/trace"
)

func TestRecorder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.msgpack")
	r, err := trace.Open(path)
	require.NoError(t, err)
	want := []trace.Record{
		{Step: 180, State: "(0, 0)", Action: 1, Reward: 0, Applied: true, Hold: 0, Switch: 0},
		{Step: 360, State: "(1, 0)", Action: 0, Reward: -12, Updated: -1.2, Hold: -3.5, Switch: -1},
	}
	for _, rec := range want {
		require.NoError(t, r.Write(rec))
	}
	require.NoError(t, r.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	got, err := trace.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadAllEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.msgpack")
	r, err := trace.Open(path)
	require.NoError(t, err)
	require.NoError(t, r.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	got, err := trace.ReadAll(f)
	require.NoError(t, err)
	assert.Empty(t, got)
}
