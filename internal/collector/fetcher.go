package collector

import (
	"context"

	"GasSentinel/internal/model"
)

// Fetcher defines the interface for reading one quote from a gas price oracle.
type Fetcher interface {
	FetchGasOracle(ctx context.Context) (*model.GasQuote, error)
	Name() string
}
