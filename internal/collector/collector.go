package collector

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"GasSentinel/internal/model"
)

// MockFetcher returns controllable data for development and testing.
// Scripted results are consumed first; afterwards Quote (or Err) is returned.
type MockFetcher struct {
	mu      sync.Mutex
	Quote   model.GasQuote
	Err     error
	Script  []MockResult
	calls   int
	OnFetch func()
}

// MockResult is one scripted response of a MockFetcher.
type MockResult struct {
	Quote model.GasQuote
	Err   error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchGasOracle(_ context.Context) (*model.GasQuote, error) {
	m.mu.Lock()
	m.calls++
	var res MockResult
	if len(m.Script) > 0 {
		res = m.Script[0]
		m.Script = m.Script[1:]
	} else {
		res = MockResult{Quote: m.Quote, Err: m.Err}
	}
	hook := m.OnFetch
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
	if res.Err != nil {
		return nil, res.Err
	}
	q := res.Quote
	return &q, nil
}

// Calls returns how many times FetchGasOracle was invoked.
func (m *MockFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Collector turns raw oracle quotes into validated samples.
type Collector struct {
	Fetcher Fetcher
	Now     func() time.Time
}

// NewCollector creates a new Collector stamping samples with the wall clock.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher, Now: time.Now}
}

// Collect fetches one quote, parses its tiers and validates the result.
// Fetch failures wrap model.ErrFetch; a zero standard price wraps
// model.ErrInvalidSample and the parsed sample is still returned for logging.
func (c *Collector) Collect(ctx context.Context) (model.Sample, error) {
	quote, err := c.Fetcher.FetchGasOracle(ctx)
	if err != nil {
		return model.Sample{}, fmt.Errorf("%w: %s: %w", model.ErrFetch, c.Fetcher.Name(), err)
	}

	s := model.Sample{
		Slow:      ParseTier(quote.Slow),
		Standard:  ParseTier(quote.Standard),
		Fast:      ParseTier(quote.Fast),
		Timestamp: c.Now().UnixMilli(),
	}
	if !s.Valid() {
		return s, fmt.Errorf("%w: standard price %q parsed as 0", model.ErrInvalidSample, quote.Standard)
	}
	return s, nil
}

// ParseTier converts an oracle tier value to whole gwei. Decimal values are
// truncated toward zero. Missing, non-numeric and negative values map to 0,
// the "unknown price" sentinel.
func ParseTier(v string) int64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		if n < 0 {
			return 0
		}
		return n
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || f < 0 || f > float64(1<<62) {
		return 0
	}
	return int64(f)
}
