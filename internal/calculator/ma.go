package calculator

import "GasSentinel/internal/model"

// RoundedMean returns the arithmetic mean of prices rounded half up to the
// nearest integer. Prices are non-negative so integer arithmetic is exact.
func RoundedMean(prices []int64) (int64, error) {
	if len(prices) == 0 {
		return 0, model.ErrNoData
	}
	n := int64(len(prices))
	return (2*Sum(prices) + n) / (2 * n), nil
}

// Sum adds up prices.
func Sum(prices []int64) int64 {
	var sum int64
	for _, p := range prices {
		sum += p
	}
	return sum
}

// LastN returns the trailing n prices, or all of them when fewer exist.
func LastN(prices []int64, n int) []int64 {
	if n <= 0 {
		return nil
	}
	if n > len(prices) {
		n = len(prices)
	}
	return prices[len(prices)-n:]
}

// ExtractStandard returns the standard tier of each sample, in order.
func ExtractStandard(samples []model.Sample) []int64 {
	prices := make([]int64, len(samples))
	for i, s := range samples {
		prices[i] = s.Standard
	}
	return prices
}
