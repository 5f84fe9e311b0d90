package strategy

import (
	"context"
	"fmt"
	"sort"

	"github.com/assist-by/surfer/internal/domain"
)

// Input은 전략 평가에 필요한 한 사이클의 시장 상태입니다
type Input struct {
	Snapshots       []domain.TickerSnapshot // 정규화된 24시간 시세 목록
	TradableTickers map[string]bool         // 현물 거래 가능한 티커 집합
	SecondarySymbol string                  // 결제 자산 (예: USDT)
	Current         *domain.PricePoint      // 현재 보유 포지션 (없으면 nil)
	LastTrade       domain.PricePoint       // 마지막 거래 기억
	LastCheck       domain.PricePoint       // 마지막 체크 기억
	BTCPrice        float64                 // BTC 기준 가격
}

// Result는 전략 평가의 결과입니다.
// 보유 중이면 매도 판단을, 미보유면 매수 판단을 담습니다.
type Result struct {
	BuyCandidate  *domain.TickerSnapshot // 매수 후보 (없으면 nil)
	SellCandidate *domain.TickerSnapshot // 매도 후보 (보유 중일 때만)
	IsBuySignal   bool                   // 매수 신호 여부
	IsSellSignal  bool                   // 매도 신호 여부
	MarketAverage float64                // 후보 집합의 시장 평균 가격
}

// Strategy는 매매 시그널 판단 전략의 인터페이스입니다
type Strategy interface {
	// Evaluate는 시장 상태를 평가하여 매매 판단을 반환합니다
	Evaluate(ctx context.Context, in *Input) (*Result, error)

	// GetName은 전략의 이름을 반환합니다
	GetName() string
}

// eligibleCandidates는 매수 후보 집합을 반환합니다.
// 거래 가능하고, 마지막 거래 자산과 현재 보유 자산이 아닌 티커만 남기며
// 24시간 변동률 내림차순으로 정렬합니다.
func eligibleCandidates(in *Input) []domain.TickerSnapshot {
	candidates := make([]domain.TickerSnapshot, 0, len(in.Snapshots))

	for _, s := range in.Snapshots {
		if !in.TradableTickers[s.TickerName] {
			continue
		}
		if s.PrimarySymbol == in.LastTrade.Symbol {
			continue
		}
		if in.Current != nil && s.PrimarySymbol == in.Current.Symbol {
			continue
		}
		candidates = append(candidates, s)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].PriceChangePercent > candidates[j].PriceChangePercent
	})

	return candidates
}

// marketAverage는 후보 집합의 평균 가격을 계산합니다.
// BTC 가격은 합계에서 차감하되 분모에는 그대로 반영합니다.
func marketAverage(candidates []domain.TickerSnapshot, btcPrice float64) float64 {
	if len(candidates) == 0 {
		return 0
	}

	sum := 0.0
	for _, c := range candidates {
		sum += c.LastPrice
	}

	return (sum - btcPrice) / float64(len(candidates))
}

// findSellCandidate는 현재 보유 자산의 시세 스냅샷을 찾습니다
func findSellCandidate(in *Input) (*domain.TickerSnapshot, error) {
	for i := range in.Snapshots {
		if in.Snapshots[i].PrimarySymbol == in.Current.Symbol {
			return &in.Snapshots[i], nil
		}
	}

	return nil, domain.NewDataError("매도 후보 탐색",
		fmt.Errorf("보유 자산 %s의 시세를 찾을 수 없습니다", in.Current.Symbol))
}

// isSellSignal은 마지막 체크 이후 가격이 하락했는지 판단합니다
func isSellSignal(in *Input, candidate *domain.TickerSnapshot) bool {
	return in.LastCheck.Symbol == in.Current.Symbol &&
		candidate.LastPrice < in.LastCheck.Price
}
