package collector

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GasSentinel/internal/model"
)

type fakeFeeHistory struct {
	hist *ethereum.FeeHistory
	err  error
}

func (f *fakeFeeHistory) FeeHistory(_ context.Context, _ uint64, _ *big.Int, _ []float64) (*ethereum.FeeHistory, error) {
	return f.hist, f.err
}

func gwei(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000))
}

func TestNodeFetcher_Tiers(t *testing.T) {
	f := &NodeFetcher{Blocks: 2, client: &fakeFeeHistory{hist: &ethereum.FeeHistory{
		BaseFee: []*big.Int{gwei(18), gwei(19), gwei(20)},
		Reward: [][]*big.Int{
			{gwei(1), gwei(2), gwei(3)},
			{gwei(1), gwei(4), gwei(5)},
		},
	}}}

	q, err := f.FetchGasOracle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "21", q.Slow)
	assert.Equal(t, "23", q.Standard)
	assert.Equal(t, "24", q.Fast)
	assert.Equal(t, int64(23), ParseTier(q.Standard))
}

func TestNodeFetcher_FractionalGwei(t *testing.T) {
	f := &NodeFetcher{Blocks: 1, client: &fakeFeeHistory{hist: &ethereum.FeeHistory{
		BaseFee: []*big.Int{big.NewInt(1_500_000_000), big.NewInt(1_500_000_000)},
	}}}

	q, err := f.FetchGasOracle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.5", q.Standard)
	assert.Equal(t, int64(1), ParseTier(q.Standard))
}

func TestNodeFetcher_SubGweiStandardIsDiscarded(t *testing.T) {
	f := &NodeFetcher{Blocks: 1, client: &fakeFeeHistory{hist: &ethereum.FeeHistory{
		BaseFee: []*big.Int{big.NewInt(400_000_000), big.NewInt(420_000_000)},
	}}}
	col := NewCollector(f)

	s, err := col.Collect(context.Background())
	assert.ErrorIs(t, err, model.ErrInvalidSample)
	assert.Equal(t, int64(0), s.Standard)
}

func TestNodeFetcher_Errors(t *testing.T) {
	f := &NodeFetcher{client: &fakeFeeHistory{err: errors.New("rpc down")}}
	_, err := f.FetchGasOracle(context.Background())
	assert.Error(t, err)

	f = &NodeFetcher{client: &fakeFeeHistory{hist: &ethereum.FeeHistory{}}}
	_, err = f.FetchGasOracle(context.Background())
	assert.Error(t, err)
}
