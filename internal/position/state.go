package position

import (
	"sync"

	"github.com/assist-by/surfer/internal/domain"
)

// State는 봇의 단일 포지션 상태 기계입니다.
// 보유 자산은 동시에 하나뿐이며, 마지막 거래와 마지막 체크를 기억합니다.
type State struct {
	mu              sync.RWMutex
	secondarySymbol string
	current         *domain.PricePoint
	lastTrade       domain.PricePoint
	lastCheck       domain.PricePoint
}

// NewState는 결제 자산 기준의 초기 상태를 생성합니다.
// 시작 시점에는 결제 자산만 보유한 것으로 간주합니다.
func NewState(secondarySymbol string) *State {
	return &State{
		secondarySymbol: secondarySymbol,
		lastTrade:       domain.PricePoint{Symbol: secondarySymbol},
		lastCheck:       domain.PricePoint{Symbol: secondarySymbol},
	}
}

// Holding은 현재 포지션 보유 여부를 반환합니다
func (s *State) Holding() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// Current는 현재 보유 포지션의 사본을 반환합니다 (없으면 nil)
func (s *State) Current() *domain.PricePoint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil
	}
	current := *s.current
	return &current
}

// LastTrade는 마지막 거래 기억을 반환합니다
func (s *State) LastTrade() domain.PricePoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastTrade
}

// LastCheck는 마지막 체크 기억을 반환합니다
func (s *State) LastCheck() domain.PricePoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastCheck
}

// ApplyBuy는 매수 체결을 상태에 반영합니다.
// 미보유 상태에서만 허용됩니다.
func (s *State) ApplyBuy(symbol string, price float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		return ErrPositionExists
	}

	s.current = &domain.PricePoint{Symbol: symbol, Price: price}
	s.lastTrade = domain.PricePoint{Symbol: symbol, Price: price}
	s.lastCheck = domain.PricePoint{Symbol: symbol, Price: price}
	return nil
}

// ApplySell은 매도 체결을 상태에 반영합니다.
// 보유 상태에서만 허용되며, 마지막 체크는 결제 자산으로 되돌립니다.
func (s *State) ApplySell() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return ErrNoPosition
	}

	s.current = nil
	s.lastCheck = domain.PricePoint{Symbol: s.secondarySymbol, Price: 1}
	return nil
}

// ApplyPass는 거래 없이 관찰한 가격을 마지막 체크에 반영합니다
func (s *State) ApplyPass(symbol string, price float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastCheck = domain.PricePoint{Symbol: symbol, Price: price}
}
