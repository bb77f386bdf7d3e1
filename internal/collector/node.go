package collector

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"

	"GasSentinel/internal/model"
)

// tierPercentiles are the priority-fee reward percentiles for slow, standard and fast.
var tierPercentiles = []float64{25, 50, 75}

// feeHistoryReader is the subset of ethclient.Client used by NodeFetcher.
type feeHistoryReader interface {
	FeeHistory(ctx context.Context, blockCount uint64, lastBlock *big.Int, rewardPercentiles []float64) (*ethereum.FeeHistory, error)
}

// NodeFetcher implements Fetcher on top of an Ethereum JSON-RPC node,
// deriving tiers from eth_feeHistory: next base fee plus the mean
// priority fee paid at the tier's percentile.
//
// Tiers are decimal gwei strings; ParseTier truncates them, so a standard
// tier below 1 gwei yields a discarded sample.
type NodeFetcher struct {
	RPCURL string
	Blocks uint64
	client feeHistoryReader
	close  func()
}

// NewNodeFetcher dials the node at rpcURL.
func NewNodeFetcher(rpcURL string, blocks uint64) (*NodeFetcher, error) {
	c, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial ethereum node: %w", err)
	}
	if blocks == 0 {
		blocks = 10
	}
	return &NodeFetcher{RPCURL: rpcURL, Blocks: blocks, client: c, close: c.Close}, nil
}

func (f *NodeFetcher) Name() string { return "node" }

// Close releases the RPC connection.
func (f *NodeFetcher) Close() {
	if f.close != nil {
		f.close()
	}
}

func (f *NodeFetcher) FetchGasOracle(ctx context.Context) (*model.GasQuote, error) {
	hist, err := f.client.FeeHistory(ctx, f.Blocks, nil, tierPercentiles)
	if err != nil {
		return nil, fmt.Errorf("fee history: %w", err)
	}
	if hist == nil || len(hist.BaseFee) == 0 {
		return nil, fmt.Errorf("fee history: no base fee returned")
	}
	// BaseFee carries one extra entry: the base fee of the next block.
	nextBaseFee := hist.BaseFee[len(hist.BaseFee)-1]

	tiers := make([]string, len(tierPercentiles))
	for i := range tierPercentiles {
		wei := new(big.Int).Add(nextBaseFee, meanReward(hist.Reward, i))
		tiers[i] = weiToGwei(wei)
	}
	return &model.GasQuote{Slow: tiers[0], Standard: tiers[1], Fast: tiers[2]}, nil
}

// meanReward averages column idx of the per-block rewards, skipping blocks
// that report none.
func meanReward(rewards [][]*big.Int, idx int) *big.Int {
	sum := new(big.Int)
	var n int64
	for _, block := range rewards {
		if idx >= len(block) || block[idx] == nil {
			continue
		}
		sum.Add(sum, block[idx])
		n++
	}
	if n == 0 {
		return sum
	}
	return sum.Quo(sum, big.NewInt(n))
}

func weiToGwei(wei *big.Int) string {
	return decimal.NewFromBigInt(wei, -9).String()
}
