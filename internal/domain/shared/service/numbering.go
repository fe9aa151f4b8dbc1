package service

import "context"

// NumberFormat describes how a generated document number is rendered.
type NumberFormat struct {
	Prefix   string // e.g. "RV", "INV"
	DatePart bool   // include YYYYMMDD between prefix and sequence
	Pad      int    // zero-padding width of the sequence part
}

// NumberGenerator reserves unique, monotonically increasing document numbers
// per sequence key. Implementations must never hand out the same value twice
// for one key, even under concurrent callers.
type NumberGenerator interface {
	Next(ctx context.Context, key string, format NumberFormat) (string, error)
}
