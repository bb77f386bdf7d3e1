package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEtherscanServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "gastracker", r.URL.Query().Get("module"))
		assert.Equal(t, "gasoracle", r.URL.Query().Get("action"))
		assert.Equal(t, "key", r.URL.Query().Get("apikey"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestEtherscanFetcher_OK(t *testing.T) {
	srv := newEtherscanServer(t, http.StatusOK, `{"status":"1","message":"OK","result":{"LastBlock":"19000000","SafeGasPrice":"20","ProposeGasPrice":"22","FastGasPrice":"25.5","suggestBaseFee":"19.8"}}`)
	f := NewEtherscanFetcher(srv.URL, "key", 0, time.Second, "")

	q, err := f.FetchGasOracle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "20", q.Slow)
	assert.Equal(t, "22", q.Standard)
	assert.Equal(t, "25.5", q.Fast)
	assert.Equal(t, "etherscan", f.Name())
}

func TestEtherscanFetcher_NumericFields(t *testing.T) {
	srv := newEtherscanServer(t, http.StatusOK, `{"status":"1","message":"OK","result":{"SafeGasPrice":20,"ProposeGasPrice":22,"FastGasPrice":null}}`)
	f := NewEtherscanFetcher(srv.URL, "key", 0, time.Second, "")

	q, err := f.FetchGasOracle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "22", q.Standard)
	assert.Equal(t, "", q.Fast)
}

func TestEtherscanFetcher_APIError(t *testing.T) {
	srv := newEtherscanServer(t, http.StatusOK, `{"status":"0","message":"NOTOK","result":"Invalid API Key"}`)
	f := NewEtherscanFetcher(srv.URL, "key", 0, time.Second, "")

	_, err := f.FetchGasOracle(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API Key")
}

func TestEtherscanFetcher_MalformedBody(t *testing.T) {
	srv := newEtherscanServer(t, http.StatusOK, `<html>rate limited</html>`)
	f := NewEtherscanFetcher(srv.URL, "key", 0, time.Second, "")

	_, err := f.FetchGasOracle(context.Background())
	assert.Error(t, err)
}

func TestEtherscanFetcher_ChainID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "137", r.URL.Query().Get("chainid"))
		_, _ = w.Write([]byte(`{"status":"1","message":"OK","result":{"ProposeGasPrice":"30"}}`))
	}))
	defer srv.Close()
	f := NewEtherscanFetcher(srv.URL+"/", "", 137, time.Second, "")

	q, err := f.FetchGasOracle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "30", q.Standard)
}
