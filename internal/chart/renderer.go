package chart

import (
	"bytes"
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/assist-by/surfer/internal/domain"
)

const (
	chartWidth  = 500
	chartHeight = 300

	// 차트에 표시할 최근 캔들 개수
	tailSize = 45
)

var strokeColor = drawing.ColorFromHex("598381")

// RenderPriceChart는 최근 캔들의 종가 추이를 PNG 이미지로 렌더링합니다
func RenderPriceChart(primarySymbol, secondarySymbol string, candles domain.CandleList, changePercent float64) ([]byte, error) {
	tail := candles.Tail(tailSize)
	if len(tail) < 2 {
		return nil, fmt.Errorf("차트를 그리기에 캔들이 부족합니다: %d개", len(tail))
	}

	times := make([]float64, 0, len(tail))
	closes := make([]float64, 0, len(tail))
	for _, c := range tail {
		times = append(times, chart.TimeToFloat64(c.CloseTime))
		closes = append(closes, c.Close)
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s / %s - 24H gain %d%%", primarySymbol, secondarySymbol, int(math.Round(changePercent))),
		Width:  chartWidth,
		Height: chartHeight,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("01-02 15:04"),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Style: chart.Style{
					StrokeColor: strokeColor,
					StrokeWidth: 2,
				},
				XValues: times,
				YValues: closes,
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("차트 렌더링 실패: %w", err)
	}

	return buf.Bytes(), nil
}
