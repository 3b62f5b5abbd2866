// Package sinks aggregates the configured burn/recapture mechanisms into
// a total daily token recapture amount.
//
// Each sink is independent and additive; no interaction effects are
// modeled. This mirrors the "speed bump" design: several small utility
// and fee mechanisms each recapture a slice of daily outflow.
package sinks

import (
	"github.com/rotisserie/eris"

	"github.com/mikefara123/vcoin-engine/internal/model"
)

// VolumeFunc produces a sink's daily trigger volume from platform scale.
type VolumeFunc func(scale model.PlatformScale) float64

// Sink is one burn/recapture mechanism. UnitRate is the amount recaptured
// per unit of volume; when USDRate is set the rate is USD-denominated and
// converted to tokens at the period price, otherwise it is already in
// tokens. Units stay caller-consistent either way.
type Sink struct {
	Name     string
	UnitRate float64
	USDRate  bool
	Volume   VolumeFunc
}

// Recapture returns the sink's daily token recapture at the given scale.
func (s Sink) Recapture(scale model.PlatformScale) float64 {
	amount := s.UnitRate * s.Volume(scale)
	if s.USDRate {
		amount /= scale.TokenPrice
	}
	return amount
}

// Ledger is an immutable collection of sinks.
type Ledger struct {
	sinks []Sink
}

// NewLedger validates the sink definitions and builds a ledger. Sinks
// must have unique non-empty names, non-negative rates, and a volume
// function.
func NewLedger(defs ...Sink) (*Ledger, error) {
	seen := make(map[string]struct{}, len(defs))
	for i, s := range defs {
		if s.Name == "" {
			return nil, eris.Wrapf(model.ErrConfiguration, "sinks: sink %d has no name", i)
		}
		if _, dup := seen[s.Name]; dup {
			return nil, eris.Wrapf(model.ErrConfiguration, "sinks: duplicate sink %q", s.Name)
		}
		seen[s.Name] = struct{}{}
		if s.UnitRate < 0 {
			return nil, eris.Wrapf(model.ErrConfiguration, "sinks: sink %q unit rate %.4f must be non-negative", s.Name, s.UnitRate)
		}
		if s.Volume == nil {
			return nil, eris.Wrapf(model.ErrConfiguration, "sinks: sink %q has no volume function", s.Name)
		}
	}
	return &Ledger{sinks: append([]Sink(nil), defs...)}, nil
}

// Names returns the sink names in ledger order.
func (l *Ledger) Names() []string {
	names := make([]string, len(l.sinks))
	for i, s := range l.sinks {
		names[i] = s.Name
	}
	return names
}

// TotalRecapture sums every sink's recapture at the given scale.
func (l *Ledger) TotalRecapture(scale model.PlatformScale) (float64, error) {
	_, total, err := l.Breakdown(scale)
	return total, err
}

// Breakdown returns per-sink recapture amounts plus their sum.
func (l *Ledger) Breakdown(scale model.PlatformScale) (map[string]float64, float64, error) {
	if err := scale.Validate(); err != nil {
		return nil, 0, eris.Wrap(err, "sinks: breakdown")
	}

	breakdown := make(map[string]float64, len(l.sinks))
	var total float64
	for _, s := range l.sinks {
		amount := s.Recapture(scale)
		breakdown[s.Name] = amount
		total += amount
	}
	return breakdown, total, nil
}

// RecaptureRate is the fraction of daily outflow the sinks recapture.
// Zero outflow yields zero rather than an error: a no-payout day simply
// recaptures nothing of nothing.
func RecaptureRate(recapture, outflow float64) float64 {
	if outflow <= 0 {
		return 0
	}
	return recapture / outflow
}
