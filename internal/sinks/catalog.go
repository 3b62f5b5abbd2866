package sinks

import (
	"github.com/rotisserie/eris"

	"github.com/mikefara123/vcoin-engine/internal/model"
)

// Built-in sink parameters, daily basis.
const (
	transactingUserShare = 0.80 // share of DAU that transact daily
	transactionFeeUSD    = 0.02

	spamContentRate   = 0.02 // share of daily content flagged as spam
	moderationBurnUSD = 5.00

	nftTraderShare = 0.05  // share of DAU trading NFTs
	nftAvgTradeUSD = 15.00 // average daily trade volume per trader
	nftFeeRate     = 0.025 // fee on USD trade volume

	governanceShare  = 0.10 // share of DAU paying governance fees
	governanceFeeUSD = 1.00

	toolSubscriberShare = 0.60      // share of creators on paid tools
	toolDailyUSD        = 5.0 / 30  // $5/month subscription, daily
)

// Default returns the built-in sink catalog: transaction fees, content
// moderation penalties, NFT marketplace fees, governance fees, and
// creator tool subscriptions. All five are USD-rated and convert to
// tokens at the period price.
func Default() []Sink {
	return []Sink{
		{
			Name:     "transaction_fees",
			UnitRate: transactionFeeUSD,
			USDRate:  true,
			Volume: func(s model.PlatformScale) float64 {
				return float64(s.DailyActiveUsers) * transactingUserShare
			},
		},
		{
			Name:     "content_moderation",
			UnitRate: moderationBurnUSD,
			USDRate:  true,
			Volume: func(s model.PlatformScale) float64 {
				return float64(s.DailyContent) * spamContentRate
			},
		},
		{
			Name:     "nft_marketplace",
			UnitRate: nftFeeRate,
			USDRate:  true,
			Volume: func(s model.PlatformScale) float64 {
				return float64(s.DailyActiveUsers) * nftTraderShare * nftAvgTradeUSD
			},
		},
		{
			Name:     "governance",
			UnitRate: governanceFeeUSD,
			USDRate:  true,
			Volume: func(s model.PlatformScale) float64 {
				return float64(s.DailyActiveUsers) * governanceShare
			},
		},
		{
			Name:     "creator_tools",
			UnitRate: toolDailyUSD,
			USDRate:  true,
			Volume: func(s model.PlatformScale) float64 {
				return float64(s.DailyCreators) * toolSubscriberShare
			},
		},
	}
}

// Select returns the named subset of the default catalog, in catalog
// order. An empty name list selects the full catalog; an unknown name is
// a configuration error.
func Select(names []string) ([]Sink, error) {
	catalog := Default()
	if len(names) == 0 {
		return catalog, nil
	}

	byName := make(map[string]Sink, len(catalog))
	for _, s := range catalog {
		byName[s.Name] = s
	}

	selected := make([]Sink, 0, len(names))
	for _, name := range names {
		s, ok := byName[name]
		if !ok {
			return nil, eris.Wrapf(model.ErrConfiguration, "sinks: unknown sink %q", name)
		}
		selected = append(selected, s)
	}
	return selected, nil
}
