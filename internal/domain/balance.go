package domain

// AssetBalance는 자산 하나의 잔고 정보를 표현합니다
type AssetBalance struct {
	Asset      string  // 자산 심볼 (예: USDT, BTC)
	Available  float64 // 사용 가능한 잔고
	QuoteValue float64 // 결제 자산 기준 평가 금액
}

// SymbolConstraints는 티커별 주문 제약 조건입니다.
// 거래소가 수시로 갱신할 수 있으므로 사이클 간 캐시하지 않습니다.
type SymbolConstraints struct {
	MinQuantity float64 // 최소 주문 수량
	MinNotional float64 // 최소 주문 가치 (결제 자산 기준)
	StepSize    float64 // 수량 최소 단위
}

// OrderResult는 시장가 주문 실행 결과입니다
type OrderResult struct {
	Symbol           string  // 티커 이름
	Status           string  // 주문 상태 (FILLED 등)
	ExecutedQuantity float64 // 체결 수량
}

// Filled는 주문이 전량 체결되었는지 반환합니다
func (r *OrderResult) Filled() bool {
	return r != nil && r.Status == OrderStatusFilled
}
