package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/swarmrole/topology"
)

// writeNetwork stores points under dir/name and returns the path.
func writeNetwork(t *testing.T, dir, name string, pts []topology.Point) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, topology.WritePoints(f, pts))
	require.NoError(t, f.Close())
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

var strip = []topology.Point{{X: 0}, {X: 1}, {X: 2}}

func TestRun_SingleTrial(t *testing.T) {
	path := writeNetwork(t, t.TempDir(), "3-0", strip)
	out, err := execute(t, "run", path)
	require.NoError(t, err)
	assert.Contains(t, out, "network 3-0: 3 agents, 2 edges, 1 components, diameter 2, 3 roles")
	assert.Contains(t, out, "trial 0: converged")
	assert.Contains(t, out, "AGENT")
	assert.Contains(t, out, "CONFIRMED")
}

func TestRun_Insufficient(t *testing.T) {
	path := writeNetwork(t, t.TempDir(), "3-0", strip)
	out, err := execute(t, "run", path, "--roles", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "insufficient-roles")
	assert.Contains(t, out, "result: sim: role pool smaller")
}

func TestRun_TrialsRecordedAndListed(t *testing.T) {
	dir := t.TempDir()
	path := writeNetwork(t, dir, "3-0", strip)
	db := filepath.Join(dir, "runs.db")

	out, err := execute(t, "run", path, "--trials", "4", "--strategy", "random", "--seed", "5", "--db", db, "--parallel", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "trial 3:")
	assert.Contains(t, out, "converged  4  ####")

	out, err = execute(t, "history", "3-0", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "OUTCOME")
	assert.Contains(t, out, "converged  4")
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "run")
	assert.ErrorContains(t, err, "no network file")

	bad := writeNetwork(t, dir, "4-0", strip)
	_, err = execute(t, "run", bad)
	assert.ErrorIs(t, err, topology.ErrSizeMismatch)

	good := writeNetwork(t, dir, "3-1", strip)
	_, err = execute(t, "run", good, "--strategy", "greedy")
	assert.Error(t, err)

	_, err = execute(t, "history")
	assert.ErrorContains(t, err, "no run store")
}

func TestGradient(t *testing.T) {
	path := writeNetwork(t, t.TempDir(), "3-0", append(strip, topology.Point{X: 9, Y: 9}))
	out, err := execute(t, "gradient", path)
	require.ErrorIs(t, err, topology.ErrSizeMismatch)
	assert.Empty(t, out)

	path = writeNetwork(t, t.TempDir(), "net", append(strip, topology.Point{X: 9, Y: 9}))
	out, err = execute(t, "gradient", path)
	require.NoError(t, err)
	assert.Contains(t, out, "rounds 2, diameter 2, symmetric")
	assert.Contains(t, out, ".")
}

func TestGenerateThenRun(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "generate", "--size", "12", "--count", "2", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "12-1"))

	out, err = execute(t, "run", filepath.Join(dir, "12-0"))
	require.NoError(t, err)
	assert.Contains(t, out, "12 agents")
	assert.Contains(t, out, "trial 0: converged")
}
