package strategy

import (
	"context"
)

// PumpStrategy는 급등 종목을 추종하는 전략입니다.
// 변동률이 기준치를 넘는 후보 중 가장 완만하게 오른 종목을 선택하여
// 이미 과열된 종목을 뒤쫓는 것을 피합니다.
type PumpStrategy struct {
	changePercent float64
}

// NewPumpStrategy는 새로운 PumpStrategy를 생성합니다
func NewPumpStrategy(changePercent float64) *PumpStrategy {
	return &PumpStrategy{changePercent: changePercent}
}

// GetName은 전략의 이름을 반환합니다
func (s *PumpStrategy) GetName() string {
	return "pump"
}

// Evaluate는 시장 상태를 평가하여 매매 판단을 반환합니다
func (s *PumpStrategy) Evaluate(ctx context.Context, in *Input) (*Result, error) {
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

	// 내림차순 정렬이므로 기준을 넘는 마지막 원소가 가장 완만한 급등 종목입니다
	for i := range candidates {
		if candidates[i].PriceChangePercent <= s.changePercent {
			break
		}
		result.BuyCandidate = &candidates[i]
	}

	result.IsBuySignal = result.BuyCandidate != nil
	return result, nil
}
