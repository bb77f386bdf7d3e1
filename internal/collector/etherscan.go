package collector

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"GasSentinel/internal/model"
)

// DefaultEtherscanURL is the Etherscan API endpoint for the gas oracle.
const DefaultEtherscanURL = "https://api.etherscan.io/api"

// EtherscanFetcher implements Fetcher using the Etherscan gas tracker oracle.
type EtherscanFetcher struct {
	BaseURL string
	APIKey  string
	ChainID int64
	client  *resty.Client
}

// NewEtherscanFetcher creates a fetcher with optional proxy support.
func NewEtherscanFetcher(baseURL, apiKey string, chainID int64, timeout time.Duration, proxyURL string) *EtherscanFetcher {
	if baseURL == "" {
		baseURL = DefaultEtherscanURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "GasSentinel/1.0")
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &EtherscanFetcher{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		APIKey:  apiKey,
		ChainID: chainID,
		client:  client,
	}
}

func (f *EtherscanFetcher) Name() string { return "etherscan" }

// etherscanResponse is the envelope of every Etherscan API reply. Result is
// an object on success and a plain error string otherwise.
type etherscanResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

type etherscanOracle struct {
	LastBlock       looseString `json:"LastBlock"`
	SafeGasPrice    looseString `json:"SafeGasPrice"`
	ProposeGasPrice looseString `json:"ProposeGasPrice"`
	FastGasPrice    looseString `json:"FastGasPrice"`
}

// looseString accepts both JSON strings and JSON numbers.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	if string(b) == "null" {
		*s = ""
		return nil
	}
	*s = looseString(b)
	return nil
}

func (f *EtherscanFetcher) FetchGasOracle(ctx context.Context) (*model.GasQuote, error) {
	params := map[string]string{
		"module": "gastracker",
		"action": "gasoracle",
		"apikey": f.APIKey,
	}
	if f.ChainID > 0 {
		params["chainid"] = strconv.FormatInt(f.ChainID, 10)
	}

	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(f.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "etherscan request")
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, errors.Errorf("etherscan: status %d, body: %s", resp.StatusCode(), string(resp.Body()))
	}

	var env etherscanResponse
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return nil, errors.Wrap(err, "etherscan decode envelope")
	}
	if env.Status != "1" {
		var reason string
		if err := json.Unmarshal(env.Result, &reason); err != nil {
			reason = string(env.Result)
		}
		return nil, errors.Errorf("etherscan: %s: %s", env.Message, reason)
	}

	var oracle etherscanOracle
	if err := json.Unmarshal(env.Result, &oracle); err != nil {
		return nil, errors.Wrap(err, "etherscan decode result")
	}
	return &model.GasQuote{
		Slow:     string(oracle.SafeGasPrice),
		Standard: string(oracle.ProposeGasPrice),
		Fast:     string(oracle.FastGasPrice),
	}, nil
}
