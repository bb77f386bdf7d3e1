package calculator

import (
	"math"
	"sort"
	"time"

	"GasSentinel/internal/model"
)

// Summarize computes min, max, mean and upper median of the standard tier,
// plus the covered time range. Samples must be in chronological order.
func Summarize(samples []model.Sample) (*model.Statistics, error) {
	if len(samples) == 0 {
		return nil, model.ErrNoData
	}
	prices := ExtractStandard(samples)

	high := int64(math.MinInt64)
	low := int64(math.MaxInt64)
	for _, p := range prices {
		if p > high {
			high = p
		}
		if p < low {
			low = p
		}
	}
	avg, err := RoundedMean(prices)
	if err != nil {
		return nil, err
	}

	sorted := make([]int64, len(prices))
	copy(sorted, prices)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	return &model.Statistics{
		Min:     low,
		Max:     high,
		Average: avg,
		Median:  sorted[len(sorted)/2],
		DataRange: model.DataRange{
			From: FormatTimestamp(samples[0].Timestamp),
			To:   FormatTimestamp(samples[len(samples)-1].Timestamp),
		},
	}, nil
}

// FormatTimestamp renders a millisecond timestamp as ISO-8601 UTC.
func FormatTimestamp(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02T15:04:05.000Z")
}

// ClassifyLevel places a standard price into the configured threshold bands.
func ClassifyLevel(price int64, t model.Thresholds) model.PriceLevel {
	switch {
	case price <= t.Low:
		return model.LevelLow
	case price <= t.Medium:
		return model.LevelMedium
	case price <= t.High:
		return model.LevelHigh
	default:
		return model.LevelExtreme
	}
}
