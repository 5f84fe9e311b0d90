package domain

// TradeKind는 한 사이클의 매매 결과 종류를 정의합니다
type TradeKind string

const (
	TradeBuy  TradeKind = "BUY"
	TradeSell TradeKind = "SELL"
	TradePass TradeKind = "PASS"
)

// OrderSide는 주문 방향을 정의합니다
type OrderSide string

const (
	Buy  OrderSide = "BUY"
	Sell OrderSide = "SELL"
)

// OrderStatusFilled는 주문이 전량 체결된 상태입니다.
// 이외의 상태는 모두 체결 실패로 취급하고 포지션을 변경하지 않습니다.
const OrderStatusFilled = "FILLED"

// PricePoint는 심볼과 가격의 쌍을 표현합니다.
// 마지막 거래(lastTrade)와 마지막 체크(lastCheck) 기억에 사용됩니다.
type PricePoint struct {
	Symbol string
	Price  float64
}

// TimeInterval은 캔들 차트의 시간 간격을 정의합니다
type TimeInterval string

const (
	Interval1m  TimeInterval = "1m"
	Interval5m  TimeInterval = "5m"
	Interval15m TimeInterval = "15m"
	Interval1h  TimeInterval = "1h"
	Interval4h  TimeInterval = "4h"
	Interval1d  TimeInterval = "1d"
)
