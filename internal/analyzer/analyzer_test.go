package analyzer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GasSentinel/internal/model"
)

func sample(standard int64, ts int64) model.Sample {
	return model.Sample{Slow: standard - 1, Standard: standard, Fast: standard + 2, Timestamp: ts}
}

func feed(a *Analyzer, prices ...int64) {
	for i, p := range prices {
		a.AddSample(sample(p, int64(i)*300_000))
	}
}

func repeat(v int64, n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestAddSample_BelowCapacityPreservesOrder(t *testing.T) {
	a := New(10)
	feed(a, 1, 2, 3, 4, 5)

	h := a.History()
	require.Len(t, h, 5)
	for i, s := range h {
		assert.Equal(t, int64(i+1), s.Standard)
	}
}

func TestAddSample_EvictsOldest(t *testing.T) {
	a := New(3)
	feed(a, 1, 2, 3, 4, 5, 6, 7)

	h := a.History()
	require.Len(t, h, 3)
	assert.Equal(t, []int64{5, 6, 7}, []int64{h[0].Standard, h[1].Standard, h[2].Standard})
	assert.Equal(t, 3, a.Len())
	assert.Equal(t, 3, a.Limit())
}

func TestNew_DefaultLimit(t *testing.T) {
	a := New(0)
	assert.Equal(t, DefaultLimit, a.Limit())
	feed(a, repeat(10, DefaultLimit+5)...)
	assert.Equal(t, DefaultLimit, a.Len())
}

func TestHistory_IsACopy(t *testing.T) {
	a := New(5)
	feed(a, 10, 20)

	h := a.History()
	h[0].Standard = 999
	assert.Equal(t, int64(10), a.History()[0].Standard)
}

func TestLatest(t *testing.T) {
	a := New(5)
	_, ok := a.Latest()
	assert.False(t, ok)

	feed(a, 10, 20)
	s, ok := a.Latest()
	require.True(t, ok)
	assert.Equal(t, int64(20), s.Standard)
}

func TestAveragePrice(t *testing.T) {
	a := New(DefaultLimit)
	_, ok := a.AveragePrice(1)
	assert.False(t, ok, "empty history has no average")

	// 24 samples: first 12 at 10, last 12 at 21.
	feed(a, append(repeat(10, 12), repeat(21, 12)...)...)

	avg, ok := a.AveragePrice(1)
	require.True(t, ok)
	assert.Equal(t, int64(21), avg)

	avg, ok = a.AveragePrice(24)
	require.True(t, ok)
	assert.Equal(t, int64(16), avg) // 15.5 rounds half up

	avg, ok = a.AveragePrice(0.5)
	require.True(t, ok)
	assert.Equal(t, int64(21), avg)

	_, ok = a.AveragePrice(0)
	assert.False(t, ok)
}

func TestAveragePrice_HugeWindowCoversHistory(t *testing.T) {
	a := New(DefaultLimit)
	feed(a, 10, 20, 30)

	for _, h := range []float64{1e18, 1e300, math.Inf(1), math.MaxFloat64} {
		avg, ok := a.AveragePrice(h)
		require.True(t, ok, "hours=%v", h)
		assert.Equal(t, int64(20), avg, "hours=%v", h)
	}

	_, ok := a.AveragePrice(math.NaN())
	assert.False(t, ok)
	_, ok = a.AveragePrice(math.Inf(-1))
	assert.False(t, ok)
}

func TestTrend_Unknown(t *testing.T) {
	a := New(DefaultLimit)
	assert.Equal(t, model.TrendUnknown, a.Trend())

	feed(a, repeat(10, 5)...)
	assert.Equal(t, model.TrendUnknown, a.Trend())

	// Between 6 and 11 samples the older window is incomplete.
	feed(a, repeat(30, 6)...)
	assert.Equal(t, 11, a.Len())
	assert.Equal(t, model.TrendUnknown, a.Trend())
}

func TestTrend_Rising(t *testing.T) {
	a := New(DefaultLimit)
	feed(a, 10, 10, 10, 10, 10, 10, 20, 20, 20, 20, 20, 20)
	assert.Equal(t, model.TrendRising, a.Trend())
}

func TestTrend_FallingAndStable(t *testing.T) {
	a := New(DefaultLimit)
	feed(a, 50, 50, 50, 50, 50, 50, 40, 40, 40, 40, 40, 40)
	assert.Equal(t, model.TrendFalling, a.Trend())

	b := New(DefaultLimit)
	feed(b, 50, 50, 50, 50, 50, 50, 52, 52, 52, 52, 52, 52)
	assert.Equal(t, model.TrendStable, b.Trend())
}

func TestTrend_UsesOnlyLastTwelve(t *testing.T) {
	a := New(DefaultLimit)
	// Old spike outside the trend windows must not matter.
	feed(a, append(repeat(500, 20), repeat(30, 12)...)...)
	assert.Equal(t, model.TrendStable, a.Trend())
}

func TestRecommend_InsufficientData(t *testing.T) {
	a := New(DefaultLimit)
	feed(a, repeat(50, 11)...)

	rec := a.Recommend()
	assert.Equal(t, model.LabelInsufficientData, rec.Label)
	assert.Equal(t, 0, rec.Confidence)
	assert.Zero(t, rec.CurrentPrice)
	assert.Zero(t, rec.AveragePrice)
}

func TestRecommend_Labels(t *testing.T) {
	tests := []struct {
		current    int64
		label      model.Label
		confidence int
	}{
		{39, model.LabelGoodTime, 85},
		{61, model.LabelWait, 75},
		{45, model.LabelAverage, 60},
	}
	for _, tt := range tests {
		a := New(DefaultLimit)
		feed(a, append(repeat(50, 100), tt.current)...)

		rec := a.Recommend()
		assert.Equal(t, tt.label, rec.Label, "current %d", tt.current)
		assert.Equal(t, tt.confidence, rec.Confidence)
		assert.Equal(t, tt.current, rec.CurrentPrice)
		assert.Equal(t, int64(50), rec.AveragePrice)
	}
}

func TestRecommend_AverageIncludesCurrent(t *testing.T) {
	// With exactly 12 base samples the current price moves the 24h mean.
	a := New(DefaultLimit)
	feed(a, append(repeat(50, 12), 39)...)
	rec := a.Recommend()
	assert.Equal(t, int64(49), rec.AveragePrice) // 639/13
	assert.Equal(t, model.LabelGoodTime, rec.Label)

	b := New(DefaultLimit)
	feed(b, append(repeat(50, 12), 61)...)
	rec = b.Recommend()
	assert.Equal(t, int64(51), rec.AveragePrice) // 661/13
	assert.Equal(t, model.LabelAverage, rec.Label)
}

func TestRecommend_WindowBoundedTo24h(t *testing.T) {
	a := New(400)
	// 100 samples at 1000 fall outside the 288-point window.
	feed(a, append(repeat(1000, 100), append(repeat(50, 287), 39)...)...)
	rec := a.Recommend()
	assert.Equal(t, int64(50), rec.AveragePrice)
	assert.Equal(t, model.LabelGoodTime, rec.Label)
}

func TestStatistics(t *testing.T) {
	a := New(DefaultLimit)
	_, err := a.Statistics()
	assert.ErrorIs(t, err, model.ErrNoData)

	feed(a, 10, 30, 20)
	st, err := a.Statistics()
	require.NoError(t, err)
	assert.Equal(t, int64(10), st.Min)
	assert.Equal(t, int64(30), st.Max)
	assert.Equal(t, int64(20), st.Median)
}
