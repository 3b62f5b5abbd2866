package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/mikefara123/vcoin-engine/internal/model"
	"github.com/mikefara123/vcoin-engine/internal/scenario"
)

func sampleSnapshots(t *testing.T) []model.EconomicSnapshot {
	t.Helper()
	cfg := scenario.DefaultConfig()
	r, err := scenario.New(cfg)
	require.NoError(t, err)
	snaps, err := r.Run(3)
	require.NoError(t, err)
	return snaps
}

func TestValidFormat(t *testing.T) {
	for _, f := range []string{FormatTable, FormatJSON, FormatCSV, FormatXLSX} {
		assert.True(t, ValidFormat(f), f)
	}
	assert.False(t, ValidFormat("yaml"))
	assert.False(t, ValidFormat(""))
}

func TestWriteTable(t *testing.T) {
	snaps := sampleSnapshots(t)

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, snaps))

	out := buf.String()
	assert.Contains(t, out, "PERIOD")
	assert.Contains(t, out, "NET_MINTED")
	// Large quantities are grouped for readability.
	assert.Contains(t, out, "100,000")
}

func TestWriteTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTable(&buf, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no snapshots")
}

func TestWriteSummary(t *testing.T) {
	snaps := sampleSnapshots(t)

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, snaps))

	out := buf.String()
	assert.Contains(t, out, "Strategy:")
	assert.Contains(t, out, scenario.StrategyFixedPool)
	assert.Contains(t, out, "Health overall:")
	assert.NotContains(t, out, "Sustainability:")
}

func TestWriteSummary_ValueBackedIncludesSustainability(t *testing.T) {
	cfg := scenario.DefaultConfig()
	cfg.Strategy = scenario.StrategyValueBacked
	r, err := scenario.New(cfg)
	require.NoError(t, err)
	snaps, err := r.Run(2)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, snaps))
	assert.Contains(t, buf.String(), "Sustainability:")
}

func TestWriteJSON_RoundTrips(t *testing.T) {
	snaps := sampleSnapshots(t)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, snaps))

	var decoded []model.EconomicSnapshot
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, len(snaps))
	assert.Equal(t, snaps[0].Period, decoded[0].Period)
	assert.InDelta(t, snaps[0].NetMinted, decoded[0].NetMinted, 1e-6)
}

func TestWriteCSV(t *testing.T) {
	snaps := sampleSnapshots(t)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, snaps))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(snaps)+1)
	assert.Equal(t, csvColumns, records[0])
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, scenario.StrategyFixedPool, records[1][1])
	// Every row has the full column set.
	for _, rec := range records {
		assert.Len(t, rec, len(csvColumns))
	}
}

func TestWriteXLSX(t *testing.T) {
	snaps := sampleSnapshots(t)
	path := filepath.Join(t.TempDir(), "out.xlsx")

	require.NoError(t, WriteXLSX(path, snaps))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 2)
	assert.Equal(t, "Projection", f.Sheets[0].Name)
	assert.Equal(t, "Burn Breakdown", f.Sheets[1].Name)
	// Header plus one row per period.
	assert.Len(t, f.Sheets[0].Rows, len(snaps)+1)
	assert.Len(t, f.Sheets[1].Rows, len(snaps)+1)
}

func TestWriteXLSX_Empty(t *testing.T) {
	err := WriteXLSX(filepath.Join(t.TempDir(), "out.xlsx"), nil)
	require.Error(t, err)
}
