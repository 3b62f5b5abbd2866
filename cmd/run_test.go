package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikefara123/vcoin-engine/internal/report"
	"github.com/mikefara123/vcoin-engine/internal/scenario"
)

func TestLoadScenario_Defaults(t *testing.T) {
	scfg, err := loadScenario("", "")
	require.NoError(t, err)
	assert.Equal(t, scenario.StrategyFixedPool, scfg.Strategy)
}

func TestLoadScenario_StrategyOverride(t *testing.T) {
	scfg, err := loadScenario("", scenario.StrategyValueBacked)
	require.NoError(t, err)
	assert.Equal(t, scenario.StrategyValueBacked, scfg.Strategy)
}

func TestLoadScenario_BadOverride(t *testing.T) {
	_, err := loadScenario("", "compounding")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown strategy")
}

func TestLoadScenario_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "growth.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: growth\ninitial_users: 500000\n"), 0o644))

	scfg, err := loadScenario(path, "")
	require.NoError(t, err)
	assert.Equal(t, "growth", scfg.Name)
	assert.Equal(t, 500_000, scfg.InitialUsers)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := loadScenario("/nonexistent/scenario.yaml", "")
	require.Error(t, err)
}

func TestRenderSnapshots_CSVToFile(t *testing.T) {
	scfg := scenario.DefaultConfig()
	runner, err := scenario.New(scfg)
	require.NoError(t, err)
	snaps, err := runner.Run(2)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, renderSnapshots(snaps, report.FormatCSV, path, false))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 3) // header + 2 periods
}

func TestRenderSnapshots_XLSX(t *testing.T) {
	scfg := scenario.DefaultConfig()
	runner, err := scenario.New(scfg)
	require.NoError(t, err)
	snaps, err := runner.Run(2)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, renderSnapshots(snaps, report.FormatXLSX, path, false))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
