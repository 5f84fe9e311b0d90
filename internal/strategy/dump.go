package strategy

import (
	"context"
)

// DumpStrategy는 24시간 변동률이 가장 낮은 종목을 매수하는 역추세 전략입니다
type DumpStrategy struct{}

// NewDumpStrategy는 새로운 DumpStrategy를 생성합니다
func NewDumpStrategy() *DumpStrategy {
	return &DumpStrategy{}
}

// GetName은 전략의 이름을 반환합니다
func (s *DumpStrategy) GetName() string {
	return "dump"
}

// Evaluate는 시장 상태를 평가하여 매매 판단을 반환합니다
func (s *DumpStrategy) Evaluate(ctx context.Context, in *Input) (*Result, error) {
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

	if len(candidates) > 0 {
		result.BuyCandidate = &candidates[len(candidates)-1]
		result.IsBuySignal = true
	}

	return result, nil
}
