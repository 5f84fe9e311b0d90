package binance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assist-by/surfer/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient("test-key", "test-secret", WithBaseURL(server.URL))
}

func TestGetLastPrice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/ticker/price", r.URL.Path)
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		w.Write([]byte(`{"symbol":"BTCUSDT","price":"50000.42"}`))
	})

	price, err := c.GetLastPrice(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	assert.Equal(t, 50000.42, price)
}

func TestGetLastPriceAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	})

	_, err := c.GetLastPrice(context.Background(), "NOPEUSDT")
	require.Error(t, err)

	var collabErr *domain.CollaboratorError
	require.ErrorAs(t, err, &collabErr)
	assert.Contains(t, err.Error(), "-1121")
}

func TestGetTradableSymbols(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbols":[
			{"symbol":"BTCUSDT","status":"TRADING","isSpotTradingAllowed":true},
			{"symbol":"OLDUSDT","status":"BREAK","isSpotTradingAllowed":true},
			{"symbol":"PERPUSDT","status":"TRADING","isSpotTradingAllowed":false}
		]}`))
	})

	symbols, err := c.GetTradableSymbols(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"BTCUSDT"}, symbols)
}

func TestGetSymbolConstraints(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbols":[{"symbol":"BTCUSDT","filters":[
			{"filterType":"LOT_SIZE","minQty":"0.00001","stepSize":"0.00001"},
			{"filterType":"NOTIONAL","notional":"5"}
		]}]}`))
	})

	constraints, err := c.GetSymbolConstraints(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	assert.Equal(t, 0.00001, constraints.MinQuantity)
	assert.Equal(t, 0.00001, constraints.StepSize)
	assert.Equal(t, 5.0, constraints.MinNotional)
}

func TestExecuteMarketOrderSignsRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v3/order", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-MBX-APIKEY"))

		query := r.URL.Query()
		assert.Equal(t, "BTCUSDT", query.Get("symbol"))
		assert.Equal(t, "BUY", query.Get("side"))
		assert.Equal(t, "MARKET", query.Get("type"))
		assert.NotEmpty(t, query.Get("timestamp"))
		assert.NotEmpty(t, query.Get("signature"))

		w.Write([]byte(`{"symbol":"BTCUSDT","status":"FILLED","executedQty":"0.002"}`))
	})

	order, err := c.ExecuteMarketOrder(context.Background(), domain.Buy, "BTCUSDT", 0.002)
	require.NoError(t, err)
	assert.True(t, order.Filled())
	assert.Equal(t, 0.002, order.ExecutedQuantity)
}

func TestGetKlines(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1h", r.URL.Query().Get("interval"))
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		w.Write([]byte(`[
			[1700000000000,"100","110","90","105","1234",1700003599999],
			[1700003600000,"105","115","95","110","2345",1700007199999]
		]`))
	})

	candles, err := c.GetKlines(context.Background(), "BTCUSDT", domain.Interval1h, 2)
	require.NoError(t, err)
	require.Len(t, candles, 2)
	assert.Equal(t, 105.0, candles[0].Close)
	assert.Equal(t, 110.0, candles[1].Close)
	assert.Equal(t, "BTCUSDT", candles[0].Symbol)

	last, ok := candles.GetLastCandle()
	require.True(t, ok)
	assert.Equal(t, 110.0, last.Close)
}

func TestSyncTimeAdjustsOffset(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"serverTime":1700000000000}`))
	})

	require.NoError(t, c.SyncTime(context.Background()))
	assert.NotZero(t, c.serverTimeOffset)
}
