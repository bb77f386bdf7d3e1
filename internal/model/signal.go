package model

// Trend is the direction of recent prices against the preceding window.
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendStable  Trend = "stable"
	TrendUnknown Trend = "unknown"
)

// Label is the verdict of a recommendation.
type Label string

const (
	LabelGoodTime         Label = "good_time"
	LabelWait             Label = "wait"
	LabelAverage          Label = "average"
	LabelInsufficientData Label = "insufficient_data"
)

// Message returns the human-readable text for the label.
func (l Label) Message() string {
	switch l {
	case LabelGoodTime:
		return "Good time to transact"
	case LabelWait:
		return "Wait for lower prices"
	case LabelAverage:
		return "Prices are average"
	default:
		return "Wait for more data"
	}
}

// Recommendation is recomputed from history on every query.
// CurrentPrice and AveragePrice are only set when a decision was reached.
type Recommendation struct {
	Label        Label `json:"label"`
	Confidence   int   `json:"confidence"`
	CurrentPrice int64 `json:"currentPrice,omitempty"`
	AveragePrice int64 `json:"averagePrice,omitempty"`
}

// Decided reports whether the recommendation carries prices.
func (r Recommendation) Decided() bool {
	return r.Label != LabelInsufficientData && r.Label != ""
}

// PriceLevel classifies a standard price against configured thresholds.
type PriceLevel string

const (
	LevelLow     PriceLevel = "low"
	LevelMedium  PriceLevel = "medium"
	LevelHigh    PriceLevel = "high"
	LevelExtreme PriceLevel = "extreme"
)

// Thresholds are the upper bounds (inclusive) of the low, medium and high levels.
type Thresholds struct {
	Low    int64 `yaml:"low"`
	Medium int64 `yaml:"medium"`
	High   int64 `yaml:"high"`
}
