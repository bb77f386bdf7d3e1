package model

import "time"

// Sample is one observation of the oracle's price tiers, in gwei.
type Sample struct {
	Slow      int64 `json:"slow"`
	Standard  int64 `json:"standard"`
	Fast      int64 `json:"fast"`
	Timestamp int64 `json:"timestamp"` // milliseconds since epoch
}

// Valid reports whether the sample may enter history. A zero standard price
// means the upstream response could not be parsed.
func (s Sample) Valid() bool {
	return s.Standard > 0
}

// Time returns the sample timestamp as a time.Time.
func (s Sample) Time() time.Time {
	return time.UnixMilli(s.Timestamp)
}

// GasQuote holds tier prices exactly as reported by the oracle, before parsing.
type GasQuote struct {
	Slow     string
	Standard string
	Fast     string
}
