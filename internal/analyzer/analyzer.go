package analyzer

import (
	"math"
	"sync"

	"GasSentinel/internal/calculator"
	"GasSentinel/internal/model"
	"GasSentinel/internal/strategy"
)

const (
	// DefaultLimit keeps 24h of history at a 5 minute cadence.
	DefaultLimit = 288
	// PointsPerHour assumes one sample every 5 minutes.
	PointsPerHour = 12

	trendWindow        = 6
	minTrendSamples    = 2 * trendWindow
	minRecommendSample = 12
	recommendHours     = 24
)

// Analyzer owns a fixed-capacity rolling window of samples and derives
// averages, trend and recommendation from it on demand.
type Analyzer struct {
	mu      sync.RWMutex
	limit   int
	history []model.Sample
}

// New creates an empty Analyzer keeping at most limit samples.
// A non-positive limit falls back to DefaultLimit.
func New(limit int) *Analyzer {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Analyzer{limit: limit, history: make([]model.Sample, 0, limit+1)}
}

// AddSample appends s and evicts the oldest sample when over capacity.
// The caller is responsible for rejecting invalid samples.
func (a *Analyzer) AddSample(s model.Sample) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.history = append(a.history, s)
	if len(a.history) > a.limit {
		// Shift in place; the backing array never exceeds limit+1.
		n := copy(a.history, a.history[len(a.history)-a.limit:])
		a.history = a.history[:n]
	}
}

// History returns a copy of the window, oldest first.
func (a *Analyzer) History() []model.Sample {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]model.Sample, len(a.history))
	copy(out, a.history)
	return out
}

// Len returns the number of samples held.
func (a *Analyzer) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.history)
}

// Limit returns the capacity of the window.
func (a *Analyzer) Limit() int {
	return a.limit
}

// Latest returns the newest sample, if any.
func (a *Analyzer) Latest() (model.Sample, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if len(a.history) == 0 {
		return model.Sample{}, false
	}
	return a.history[len(a.history)-1], true
}

// AveragePrice returns the rounded mean standard price over the last
// windowHours of samples. ok is false when there is no data in the window.
func (a *Analyzer) AveragePrice(windowHours float64) (avg int64, ok bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.averagePrice(windowHours)
}

func (a *Analyzer) averagePrice(windowHours float64) (int64, bool) {
	if math.IsNaN(windowHours) || windowHours <= 0 {
		return 0, false
	}
	// Clamp in float space: huge or infinite windows cover the whole history.
	points := len(a.history)
	if want := windowHours * PointsPerHour; want < float64(points) {
		points = int(want)
	}
	window := calculator.LastN(calculator.ExtractStandard(a.history), points)
	avg, err := calculator.RoundedMean(window)
	if err != nil {
		return 0, false
	}
	return avg, true
}

// Trend compares the last six samples against the six before them.
// Fewer than twelve samples yield TrendUnknown.
func (a *Analyzer) Trend() model.Trend {
	a.mu.RLock()
	defer a.mu.RUnlock()

	n := len(a.history)
	if n < minTrendSamples {
		return model.TrendUnknown
	}
	prices := calculator.ExtractStandard(a.history[n-minTrendSamples:])
	return strategy.ClassifyTrend(prices[trendWindow:], prices[:trendWindow])
}

// Recommend judges the newest price against the 24h average.
func (a *Analyzer) Recommend() model.Recommendation {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if len(a.history) < minRecommendSample {
		return strategy.InsufficientData()
	}
	avg24h, ok := a.averagePrice(recommendHours)
	if !ok {
		return strategy.InsufficientData()
	}
	current := a.history[len(a.history)-1].Standard
	return strategy.Recommend(current, avg24h)
}

// Statistics summarises the whole window.
func (a *Analyzer) Statistics() (*model.Statistics, error) {
	return calculator.Summarize(a.History())
}
