package strategy

import (
	"context"
)

// FlatStrategy는 하락 종목 중 가장 변동이 작은 종목을 매수하는 전략입니다.
// 변동률이 음수인 후보 중 0에 가장 가까운 종목을 선택합니다.
type FlatStrategy struct{}

// NewFlatStrategy는 새로운 FlatStrategy를 생성합니다
func NewFlatStrategy() *FlatStrategy {
	return &FlatStrategy{}
}

// GetName은 전략의 이름을 반환합니다
func (s *FlatStrategy) GetName() string {
	return "flat"
}

// Evaluate는 시장 상태를 평가하여 매매 판단을 반환합니다
func (s *FlatStrategy) Evaluate(ctx context.Context, in *Input) (*Result, error) {
	candidates := eligibleCandidates(in)
	result := &Result{MarketAverage: marketAverage(candidates, in.BTCPrice)}

	if in.Current != nil {
		candidate, err := findSellCandidate(in)
		if err != nil {
			return nil, err
		}
		result.SellCandidate = candidate
		result.IsSellSignal = isSellSignal(in, candidate)
		return result, nil
	}

	// 내림차순 정렬이므로 처음 만나는 음수 변동률이 가장 완만한 하락 종목입니다
	for i := range candidates {
		if candidates[i].PriceChangePercent < 0 {
			result.BuyCandidate = &candidates[i]
			result.IsBuySignal = true
			break
		}
	}

	return result, nil
}
