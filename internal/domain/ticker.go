package domain

import "time"

// TickerStats는 거래소가 반환하는 24시간 티커 통계의 원본 형태입니다.
// 숫자 필드는 문자열 그대로 보존하고, 변환은 정규화 단계에서 수행합니다.
type TickerStats struct {
	Symbol             string `json:"symbol"`
	LastPrice          string `json:"lastPrice"`
	PriceChangePercent string `json:"priceChangePercent"`
	OpenTime           int64  `json:"openTime"`
	CloseTime          int64  `json:"closeTime"`
}

// TickerSnapshot은 정규화된 한 심볼의 24시간 시세 기록입니다.
// 생성 이후에는 변경하지 않습니다.
type TickerSnapshot struct {
	PrimarySymbol      string    // 매매 대상 자산 (예: BTC)
	SecondarySymbol    string    // 결제 자산 (예: USDT)
	TickerName         string    // 티커 이름 (예: BTCUSDT)
	LastPrice          float64   // 최종 체결 가격
	PriceChangePercent float64   // 24시간 변동률 (%)
	OpenTime           time.Time // 집계 구간 시작
	CloseTime          time.Time // 집계 구간 종료
}
