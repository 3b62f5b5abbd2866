package report

import (
	"sort"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/mikefara123/vcoin-engine/internal/model"
)

// WriteXLSX writes snapshots as an XLSX workbook with one projection
// sheet and one burn-breakdown sheet.
func WriteXLSX(path string, snaps []model.EconomicSnapshot) error {
	if len(snaps) == 0 {
		return eris.New("report: no snapshots to export")
	}

	f := xlsx.NewFile()

	if err := addProjectionSheet(f, snaps); err != nil {
		return err
	}
	if err := addBurnSheet(f, snaps); err != nil {
		return err
	}

	return eris.Wrapf(f.Save(path), "report: save xlsx %s", path)
}

func addProjectionSheet(f *xlsx.File, snaps []model.EconomicSnapshot) error {
	sheet, err := f.AddSheet("Projection")
	if err != nil {
		return eris.Wrap(err, "report: add projection sheet")
	}

	header := sheet.AddRow()
	for _, col := range csvColumns {
		header.AddCell().SetString(col)
	}

	for _, s := range snaps {
		row := sheet.AddRow()
		for _, v := range csvRow(s) {
			row.AddCell().SetString(v)
		}
	}
	return nil
}

// addBurnSheet writes per-sink recapture columns. Sink names come from
// the first snapshot; every period of one run shares the same ledger.
func addBurnSheet(f *xlsx.File, snaps []model.EconomicSnapshot) error {
	sheet, err := f.AddSheet("Burn Breakdown")
	if err != nil {
		return eris.Wrap(err, "report: add burn sheet")
	}

	names := make([]string, 0, len(snaps[0].BurnBreakdown))
	for name := range snaps[0].BurnBreakdown {
		names = append(names, name)
	}
	sort.Strings(names)

	header := sheet.AddRow()
	header.AddCell().SetString("period")
	for _, name := range names {
		header.AddCell().SetString(name)
	}
	header.AddCell().SetString("total")

	for _, s := range snaps {
		row := sheet.AddRow()
		row.AddCell().SetInt(s.Period)
		for _, name := range names {
			row.AddCell().SetFloat(s.BurnBreakdown[name])
		}
		row.AddCell().SetFloat(s.TotalBurned)
	}
	return nil
}
