package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/mikefara123/vcoin-engine/internal/model"
)

// csvColumns defines the ordered CSV output columns.
var csvColumns = []string{
	"period",
	"strategy",
	"daily_active_users",
	"daily_content",
	"token_price",
	"reward_multiplier",
	"gross_minted",
	"net_minted",
	"total_burned",
	"net_flow",
	"total_supply",
	"daily_inflation_pct",
	"annual_inflation_pct",
	"token_velocity",
	"recapture_rate",
	"actual_rpm",
	"health_overall",
	"market_cap_usd",
	"creator_payout_usd",
	"burn_value_usd",
}

// WriteCSV writes one row per period to w.
func WriteCSV(out io.Writer, snaps []model.EconomicSnapshot) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	if err := w.Write(csvColumns); err != nil {
		return eris.Wrap(err, "report: write csv header")
	}

	for _, s := range snaps {
		if err := w.Write(csvRow(s)); err != nil {
			return eris.Wrapf(err, "report: write csv row %d", s.Period)
		}
	}

	w.Flush()
	return eris.Wrap(w.Error(), "report: flush csv")
}

func csvRow(s model.EconomicSnapshot) []string {
	return []string{
		strconv.Itoa(s.Period),
		s.Strategy,
		strconv.Itoa(s.DailyActiveUsers),
		strconv.Itoa(s.DailyContent),
		formatFloat(s.TokenPrice),
		formatFloat(s.RewardMultiplier),
		formatFloat(s.GrossMinted),
		formatFloat(s.NetMinted),
		formatFloat(s.TotalBurned),
		formatFloat(s.NetFlow),
		formatFloat(s.TotalSupply),
		formatFloat(s.DailyInflation),
		formatFloat(s.AnnualInflation),
		formatFloat(s.TokenVelocity),
		formatFloat(s.RecaptureRate),
		formatFloat(s.ActualRPM),
		formatFloat(s.Health.Overall),
		s.MarketCapUSD.StringFixed(model.USDScale),
		s.CreatorPayoutUSD.StringFixed(model.USDScale),
		s.BurnValueUSD.StringFixed(model.USDScale),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
