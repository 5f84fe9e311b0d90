package strategy

import (
	"context"
	"fmt"

	"github.com/assist-by/surfer/internal/domain"
)

// SimpleStrategy는 설정된 자산 하나만 반복 매매하는 전략입니다.
// 미보유 상태면 항상 매수, 보유 상태면 항상 매도를 제안합니다.
type SimpleStrategy struct {
	primarySymbol string
}

// NewSimpleStrategy는 새로운 SimpleStrategy를 생성합니다
func NewSimpleStrategy(primarySymbol string) *SimpleStrategy {
	return &SimpleStrategy{primarySymbol: primarySymbol}
}

// GetName은 전략의 이름을 반환합니다
func (s *SimpleStrategy) GetName() string {
	return "simple"
}

// Evaluate는 시장 상태를 평가하여 매매 판단을 반환합니다
func (s *SimpleStrategy) Evaluate(ctx context.Context, in *Input) (*Result, error) {
	candidates := eligibleCandidates(in)
	result := &Result{MarketAverage: marketAverage(candidates, in.BTCPrice)}

	if in.Current != nil {
		candidate, err := findSellCandidate(in)
		if err != nil {
			return nil, err
		}
		result.SellCandidate = candidate
		result.IsSellSignal = true
		return result, nil
	}

	for i := range in.Snapshots {
		if in.Snapshots[i].PrimarySymbol == s.primarySymbol {
			result.BuyCandidate = &in.Snapshots[i]
			result.IsBuySignal = true
			return result, nil
		}
	}

	return nil, domain.NewDataError("매수 후보 탐색",
		fmt.Errorf("지정한 자산 %s의 시세를 찾을 수 없습니다", s.primarySymbol))
}
