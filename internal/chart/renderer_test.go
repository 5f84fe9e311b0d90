package chart

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assist-by/surfer/internal/domain"
)

func makeCandles(n int) domain.CandleList {
	candles := make(domain.CandleList, 0, n)
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < n; i++ {
		price := 100 + 10*math.Sin(float64(i)/5)
		candles = append(candles, domain.Candle{
			OpenTime:  base.Add(time.Duration(i) * time.Hour),
			CloseTime: base.Add(time.Duration(i+1) * time.Hour),
			Open:      price,
			High:      price + 1,
			Low:       price - 1,
			Close:     price,
			Symbol:    "BTCUSDT",
			Interval:  domain.Interval1h,
		})
	}

	return candles
}

func TestRenderPriceChart(t *testing.T) {
	image, err := RenderPriceChart("BTC", "USDT", makeCandles(60), 2.5)
	require.NoError(t, err)

	// PNG 시그니처 확인
	require.Greater(t, len(image), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, image[:8])
}

func TestRenderPriceChartNotEnoughCandles(t *testing.T) {
	_, err := RenderPriceChart("BTC", "USDT", makeCandles(1), 0)
	assert.Error(t, err)

	_, err = RenderPriceChart("BTC", "USDT", nil, 0)
	assert.Error(t, err)
}
