// Package report renders scenario results as terminal tables, CSV, JSON,
// and XLSX workbooks.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mikefara123/vcoin-engine/internal/model"
)

// Output formats accepted by the run and export commands.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
	FormatXLSX  = "xlsx"
)

// ValidFormat reports whether name is a recognized output format.
func ValidFormat(name string) bool {
	switch name {
	case FormatTable, FormatJSON, FormatCSV, FormatXLSX:
		return true
	}
	return false
}

// printer renders large token quantities with thousands separators.
var printer = message.NewPrinter(language.English)

// WriteTable writes a per-period summary table to w.
func WriteTable(out io.Writer, snaps []model.EconomicSnapshot) error {
	if len(snaps) == 0 {
		return eris.New("report: no snapshots to render")
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PERIOD\tDAU\tPRICE\tMULT\tNET_MINTED\tBURNED\tNET_FLOW\tANNUAL_INFL\tRPM\tHEALTH")
	fmt.Fprintln(w, "------\t---\t-----\t----\t----------\t------\t--------\t-----------\t---\t------")

	for _, s := range snaps {
		fmt.Fprintf(w, "%d\t%s\t$%.4f\t%.3f\t%s\t%s\t%s\t%.2f%%\t$%.2f\t%.1f\n",
			s.Period,
			printer.Sprintf("%d", s.DailyActiveUsers),
			s.TokenPrice,
			s.RewardMultiplier,
			printer.Sprintf("%.0f", s.NetMinted),
			printer.Sprintf("%.0f", s.TotalBurned),
			printer.Sprintf("%.0f", s.NetFlow),
			s.AnnualInflation,
			s.ActualRPM,
			s.Health.Overall,
		)
	}
	return eris.Wrap(w.Flush(), "report: flush table")
}

// WriteSummary writes an aggregate view of the final period to w.
func WriteSummary(out io.Writer, snaps []model.EconomicSnapshot) error {
	if len(snaps) == 0 {
		return eris.New("report: no snapshots to summarize")
	}

	first, last := snaps[0], snaps[len(snaps)-1]

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Strategy:\t%s\n", last.Strategy)
	fmt.Fprintf(w, "Periods:\t%d\n", len(snaps))
	fmt.Fprintf(w, "DAU:\t%s -> %s\n",
		printer.Sprintf("%d", first.DailyActiveUsers),
		printer.Sprintf("%d", last.DailyActiveUsers))
	fmt.Fprintf(w, "Token price:\t$%.4f -> $%.4f\n", first.TokenPrice, last.TokenPrice)
	fmt.Fprintf(w, "Total supply:\t%s -> %s\n",
		printer.Sprintf("%.0f", first.TotalSupply),
		printer.Sprintf("%.0f", last.TotalSupply))
	fmt.Fprintf(w, "Annual inflation:\t%.2f%%\n", last.AnnualInflation)
	fmt.Fprintf(w, "Recapture rate:\t%.1f%%\n", last.RecaptureRate*100)
	fmt.Fprintf(w, "Creator RPM:\t$%.2f\n", last.ActualRPM)
	fmt.Fprintf(w, "Market cap:\t$%s\n", last.MarketCapUSD.StringFixed(2))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Health overall:\t%.1f\n", last.Health.Overall)
	fmt.Fprintf(w, "  Price stability:\t%.1f\n", last.Health.PriceStability)
	fmt.Fprintf(w, "  Creator:\t%.1f\n", last.Health.Creator)
	fmt.Fprintf(w, "  Burn efficiency:\t%.1f\n", last.Health.BurnEfficiency)
	if last.Health.Sustainability != nil {
		fmt.Fprintf(w, "  Sustainability:\t%.1f\n", *last.Health.Sustainability)
	}
	return eris.Wrap(w.Flush(), "report: flush summary")
}

// WriteJSON writes snapshots as an indented JSON array.
func WriteJSON(out io.Writer, snaps []model.EconomicSnapshot) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(snaps), "report: encode json")
}
