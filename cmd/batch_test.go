package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikefara123/vcoin-engine/internal/model"
	"github.com/mikefara123/vcoin-engine/internal/scenario"
	"github.com/mikefara123/vcoin-engine/internal/store"
)

func TestBatchOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("results", "growth.csv"), batchOutputPath("results", "scenarios/growth.yaml"))
	assert.Equal(t, filepath.Join(".", "bear.csv"), batchOutputPath(".", "bear.yml"))
}

func writeScenarioFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestProcessScenarios(t *testing.T) {
	dir := t.TempDir()
	outDir := t.TempDir()

	a := writeScenarioFile(t, dir, "a.yaml", "name: a\n")
	b := writeScenarioFile(t, dir, "b.yaml", "name: b\nstrategy: dynamic_adjusted\nprice_appreciation_rate: 0.05\n")

	err := processScenarios(context.Background(), []string{a, b}, 3, outDir, 2, nil)
	require.NoError(t, err)

	for _, name := range []string{"a.csv", "b.csv"} {
		info, err := os.Stat(filepath.Join(outDir, name))
		require.NoError(t, err, name)
		assert.Positive(t, info.Size())
	}
}

func TestProcessScenarios_BadFileDoesNotAbortBatch(t *testing.T) {
	dir := t.TempDir()
	outDir := t.TempDir()

	good := writeScenarioFile(t, dir, "good.yaml", "name: good\n")
	bad := writeScenarioFile(t, dir, "bad.yaml", "strategy: nonsense\n")

	err := processScenarios(context.Background(), []string{good, bad}, 2, outDir, 2, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 scenarios failed")

	// The good scenario still produced output.
	_, statErr := os.Stat(filepath.Join(outDir, "good.csv"))
	assert.NoError(t, statErr)
}

func TestProcessScenarios_SavesRuns(t *testing.T) {
	dir := t.TempDir()
	outDir := t.TempDir()

	a := writeScenarioFile(t, dir, "a.yaml", "name: a\n")

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "batch.db"))
	require.NoError(t, err)
	defer st.Close()
	require.NoError(t, st.Migrate(context.Background()))

	require.NoError(t, processScenarios(context.Background(), []string{a}, 2, outDir, 1, st))

	runs, err := st.ListRuns(context.Background(), store.RunFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "a", runs[0].Name)
	assert.Equal(t, model.RunStatusCompleted, runs[0].Status)
	assert.Equal(t, scenario.StrategyFixedPool, runs[0].Strategy)

	snaps, err := st.GetSnapshots(context.Background(), runs[0].ID)
	require.NoError(t, err)
	assert.Len(t, snaps, 2)
}
