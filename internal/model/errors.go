package model

import "github.com/rotisserie/eris"

// Error roots for the engine. Components wrap these with context so the
// CLI/server boundary can distinguish bad input data from expected
// degenerate conditions ("no content today") and from malformed
// configuration caught at construction time.
//
// Test with eris.Is, e.g. eris.Is(err, model.ErrDegenerateInput).
var (
	// ErrValidation marks input outside its documented range. Inputs are
	// never silently clamped: these calculators feed decisions, and a
	// clamped value would hide an upstream data-quality bug.
	ErrValidation = eris.New("validation error")

	// ErrDegenerateInput marks a defined-but-uncomputable condition, such
	// as an empty cohort or a zero total weight in pool allocation.
	ErrDegenerateInput = eris.New("degenerate input")

	// ErrConfiguration marks an invalid configuration object. Raised at
	// construction, not deep inside a calculation.
	ErrConfiguration = eris.New("configuration error")
)
