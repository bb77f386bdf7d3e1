package strategy

import "GasSentinel/internal/model"

// Rule maps the current price, relative to the 24h average, to a verdict.
// Ratios are in tenths so comparisons stay in integer arithmetic.
type Rule struct {
	Label      model.Label
	Confidence int
	Tenths     int64
	AtOrBelow  bool // true: current <= avg*ratio, false: current >= avg*ratio
}

// Rules is evaluated in order; the first match wins.
var Rules = []Rule{
	{Label: model.LabelGoodTime, Confidence: 85, Tenths: 8, AtOrBelow: true},
	{Label: model.LabelWait, Confidence: 75, Tenths: 12, AtOrBelow: false},
}

// DefaultRule applies when no rule matches.
var DefaultRule = Rule{Label: model.LabelAverage, Confidence: 60}

// Trend bands, in tenths of the older window average.
const (
	risingTenths  = 11
	fallingTenths = 9
)

func (r Rule) matches(current, avg int64) bool {
	if r.AtOrBelow {
		return current*10 <= avg*r.Tenths
	}
	return current*10 >= avg*r.Tenths
}

// InsufficientData is the recommendation returned before enough history exists.
func InsufficientData() model.Recommendation {
	return model.Recommendation{Label: model.LabelInsufficientData, Confidence: 0}
}

// Recommend evaluates the current standard price against the 24h average.
func Recommend(current, avg24h int64) model.Recommendation {
	rule := DefaultRule
	for _, r := range Rules {
		if r.matches(current, avg24h) {
			rule = r
			break
		}
	}
	return model.Recommendation{
		Label:        rule.Label,
		Confidence:   rule.Confidence,
		CurrentPrice: current,
		AveragePrice: avg24h,
	}
}

// ClassifyTrend compares the mean of recent against the mean of older.
// Either window being empty yields TrendUnknown.
func ClassifyTrend(recent, older []int64) model.Trend {
	if len(recent) == 0 || len(older) == 0 {
		return model.TrendUnknown
	}
	var recentSum, olderSum int64
	for _, p := range recent {
		recentSum += p
	}
	for _, p := range older {
		olderSum += p
	}
	// recentSum/rn vs olderSum/on * k/10, cross-multiplied.
	lhs := recentSum * int64(len(older)) * 10
	base := olderSum * int64(len(recent))

	switch {
	case lhs > base*risingTenths:
		return model.TrendRising
	case lhs < base*fallingTenths:
		return model.TrendFalling
	default:
		return model.TrendStable
	}
}
