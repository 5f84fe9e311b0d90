package trading

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/assist-by/surfer/internal/chart"
	"github.com/assist-by/surfer/internal/config"
	"github.com/assist-by/surfer/internal/domain"
	"github.com/assist-by/surfer/internal/exchange"
	"github.com/assist-by/surfer/internal/ledger"
	"github.com/assist-by/surfer/internal/market"
	"github.com/assist-by/surfer/internal/notification"
	"github.com/assist-by/surfer/internal/position"
	"github.com/assist-by/surfer/internal/strategy"
)

// 시뮬레이션 모드의 초기 결제 자산 잔고입니다
const simulationSeedBalance = 100.0

// Trader는 한 사이클의 매매 흐름 전체를 담당합니다.
// 시장 조회, 전략 평가, 수량 계산, 주문 실행, 상태 갱신, 원장 기록을 순서대로 수행합니다.
type Trader struct {
	exchange exchange.Exchange
	notifier notification.Notifier
	strategy strategy.Strategy
	state    *position.State
	ledger   *ledger.Ledger
	cfg      *config.Config

	mu sync.Mutex

	// 시뮬레이션 모드에서 사용하는 가상 잔고
	simBalances map[string]float64
}

// New는 새로운 Trader를 생성합니다
func New(ex exchange.Exchange, notifier notification.Notifier, strat strategy.Strategy,
	state *position.State, led *ledger.Ledger, cfg *config.Config) *Trader {

	t := &Trader{
		exchange: ex,
		notifier: notifier,
		strategy: strat,
		state:    state,
		ledger:   led,
		cfg:      cfg,
	}

	if cfg.App.Simulation {
		t.simBalances = map[string]float64{
			cfg.App.SecondarySymbol: simulationSeedBalance,
		}
	}

	return t
}

// Holding은 현재 포지션 보유 여부를 반환합니다
func (t *Trader) Holding() bool {
	return t.state.Holding()
}

// Execute는 한 사이클의 매매를 실행합니다.
// 외부 협력자 호출 실패는 원장 기록 없이 에러로 반환하고,
// 데이터/제약/체결 문제는 PASS로 기록한 뒤 사이클을 정상 종료합니다.
func (t *Trader) Execute(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	err := t.runCycle(ctx)
	if err == nil {
		return nil
	}

	t.notifyError(err)

	var collabErr *domain.CollaboratorError
	if errors.As(err, &collabErr) {
		return err
	}

	log.Printf("매매 시도 중단: %v", err)
	return nil
}

func (t *Trader) runCycle(ctx context.Context) error {
	quote := t.cfg.App.SecondarySymbol

	btcPrice, err := t.exchange.GetLastPrice(ctx, "BTC"+quote)
	if err != nil {
		return err
	}

	tradableList, err := t.exchange.GetTradableSymbols(ctx)
	if err != nil {
		return err
	}
	tradable := make(map[string]bool, len(tradableList))
	for _, ticker := range tradableList {
		tradable[ticker] = true
	}

	stats, err := t.exchange.GetTickerStats(ctx)
	if err != nil {
		return err
	}

	snapshots, err := market.Normalize(stats, quote)
	if err != nil {
		return t.recordPass(err, "", 0, 0, btcPrice, 0)
	}

	in := &strategy.Input{
		Snapshots:       snapshots,
		TradableTickers: tradable,
		SecondarySymbol: quote,
		Current:         t.state.Current(),
		LastTrade:       t.state.LastTrade(),
		LastCheck:       t.state.LastCheck(),
		BTCPrice:        btcPrice,
	}

	result, err := t.strategy.Evaluate(ctx, in)
	if err != nil {
		return t.recordPass(err, "", 0, 0, btcPrice, 0)
	}

	if in.Current != nil {
		return t.runSellCycle(ctx, result, btcPrice)
	}
	return t.runBuyCycle(ctx, result, btcPrice)
}

// runSellCycle은 보유 중인 포지션의 매도를 시도합니다
func (t *Trader) runSellCycle(ctx context.Context, result *strategy.Result, btcPrice float64) error {

	candidate := result.SellCandidate

	if !result.IsSellSignal {
		log.Printf("보유 유지: %s (현재가: %v, 마지막 체크: %v)",
			candidate.TickerName, candidate.LastPrice, t.state.LastCheck().Price)

		if err := t.writePass(candidate.PriceChangePercent, btcPrice, result.MarketAverage); err != nil {
			return err
		}
		t.state.ApplyPass(candidate.PrimarySymbol, candidate.LastPrice)
		return nil
	}

	constraints, err := t.exchange.GetSymbolConstraints(ctx, candidate.TickerName)
	if err != nil {
		return err
	}

	balance, err := t.assetBalance(ctx, candidate.PrimarySymbol)
	if err != nil {
		return err
	}

	quantity := position.CalculateSellQuantity(balance, candidate.LastPrice, constraints)
	if quantity == 0 {
		err := domain.NewConstraintError(candidate.TickerName, "매도 수량 계산",
			fmt.Errorf("잔고 %v로는 주문 가능한 수량이 없습니다", balance))

		if recordErr := t.recordPass(err, candidate.PrimarySymbol,
			candidate.LastPrice, candidate.PriceChangePercent, btcPrice, result.MarketAverage); recordErr != nil {
			return recordErr
		}
		t.state.ApplyPass(candidate.PrimarySymbol, candidate.LastPrice)
		return nil
	}

	order, err := t.placeOrder(ctx, domain.Sell, candidate, quantity)
	if err != nil {
		return err
	}
	if !order.Filled() {
		execErr := domain.NewExecutionError(candidate.TickerName, order.Status,
			errors.New("주문이 체결되지 않았습니다"))
		return t.recordPass(execErr, "", 0,
			candidate.PriceChangePercent, btcPrice, result.MarketAverage)
	}

	entry, err := t.ledger.Record(domain.TradeSell, time.Now(), candidate.PrimarySymbol,
		candidate.LastPrice, candidate.PriceChangePercent, btcPrice, result.MarketAverage)
	if err != nil {
		return err
	}

	if err := t.state.ApplySell(); err != nil {
		return err
	}

	log.Printf("매도 체결: %s (수량: %v, 가격: %v, 수익률: %v%%)",
		candidate.TickerName, order.ExecutedQuantity, candidate.LastPrice, entry.Profit)
	t.announceTrade(ctx, candidate, order.ExecutedQuantity, entry)
	return nil
}

// runBuyCycle은 전략이 고른 후보의 매수를 시도합니다
func (t *Trader) runBuyCycle(ctx context.Context, result *strategy.Result, btcPrice float64) error {
	if !result.IsBuySignal || result.BuyCandidate == nil {
		log.Printf("매수 대상 없음 (시장 평균: %v)", result.MarketAverage)
		return t.writePass(0, btcPrice, result.MarketAverage)
	}

	candidate := result.BuyCandidate

	constraints, err := t.exchange.GetSymbolConstraints(ctx, candidate.TickerName)
	if err != nil {
		return err
	}

	balance, err := t.assetBalance(ctx, t.cfg.App.SecondarySymbol)
	if err != nil {
		return err
	}

	// 고정 금액 모드에서는 결제 자산 잔고가 매수 금액 이상이어야 합니다
	if t.cfg.Trading.UseFixedValue && balance < t.cfg.Trading.FixedValue {
		err := domain.NewConstraintError(candidate.TickerName, "매수 가능 금액 확인",
			fmt.Errorf("잔고 %v가 고정 매수 금액 %v보다 적습니다", balance, t.cfg.Trading.FixedValue))
		return t.recordPass(err, candidate.PrimarySymbol,
			candidate.LastPrice, candidate.PriceChangePercent, btcPrice, result.MarketAverage)
	}

	quantity := position.CalculateBuyQuantity(balance, candidate.LastPrice, constraints,
		t.cfg.Trading.UseFixedValue, t.cfg.Trading.FixedValue, t.cfg.Trading.FixedPercent)
	if quantity == 0 {
		err := domain.NewConstraintError(candidate.TickerName, "매수 수량 계산",
			fmt.Errorf("잔고 %v로는 주문 가능한 수량이 없습니다", balance))
		return t.recordPass(err, candidate.PrimarySymbol,
			candidate.LastPrice, candidate.PriceChangePercent, btcPrice, result.MarketAverage)
	}

	order, err := t.placeOrder(ctx, domain.Buy, candidate, quantity)
	if err != nil {
		return err
	}
	if !order.Filled() {
		execErr := domain.NewExecutionError(candidate.TickerName, order.Status,
			errors.New("주문이 체결되지 않았습니다"))
		return t.recordPass(execErr, "", 0,
			candidate.PriceChangePercent, btcPrice, result.MarketAverage)
	}

	entry, err := t.ledger.Record(domain.TradeBuy, time.Now(), candidate.PrimarySymbol,
		candidate.LastPrice, candidate.PriceChangePercent, btcPrice, result.MarketAverage)
	if err != nil {
		return err
	}

	if err := t.state.ApplyBuy(candidate.PrimarySymbol, candidate.LastPrice); err != nil {
		return err
	}

	log.Printf("매수 체결: %s (수량: %v, 가격: %v, 24시간 변동률: %v%%)",
		candidate.TickerName, order.ExecutedQuantity, candidate.LastPrice, candidate.PriceChangePercent)
	t.announceTrade(ctx, candidate, order.ExecutedQuantity, entry)
	return nil
}

// recordPass는 매매를 건너뛴 이유를 기록하고 PASS 행을 남깁니다
func (t *Trader) recordPass(cause error, symbol string, price, changePercent,
	btcPrice, marketAverage float64) error {

	log.Printf("매매 건너뜀: %v", cause)
	t.notifyError(cause)

	if _, err := t.ledger.Record(domain.TradePass, time.Now(), symbol,
		price, changePercent, btcPrice, marketAverage); err != nil {
		return err
	}
	return nil
}

// writePass는 정상 관망 사이클의 PASS 행을 남깁니다
func (t *Trader) writePass(changePercent, btcPrice, marketAverage float64) error {
	_, err := t.ledger.Record(domain.TradePass, time.Now(), "",
		0, changePercent, btcPrice, marketAverage)
	return err
}

// placeOrder는 시장가 주문을 실행합니다.
// 시뮬레이션 모드에서는 현재가 기준으로 전량 체결된 것으로 처리합니다.
func (t *Trader) placeOrder(ctx context.Context, side domain.OrderSide,
	candidate *domain.TickerSnapshot, quantity float64) (*domain.OrderResult, error) {

	if t.cfg.App.Simulation {
		notional := quantity * candidate.LastPrice
		if side == domain.Buy {
			t.simBalances[candidate.SecondarySymbol] -= notional
			t.simBalances[candidate.PrimarySymbol] += quantity
		} else {
			t.simBalances[candidate.PrimarySymbol] -= quantity
			t.simBalances[candidate.SecondarySymbol] += notional
		}

		return &domain.OrderResult{
			Symbol:           candidate.TickerName,
			Status:           domain.OrderStatusFilled,
			ExecutedQuantity: quantity,
		}, nil
	}

	return t.exchange.ExecuteMarketOrder(ctx, side, candidate.TickerName, quantity)
}

// assetBalance는 자산 하나의 사용 가능 잔고를 조회합니다
func (t *Trader) assetBalance(ctx context.Context, asset string) (float64, error) {
	if t.cfg.App.Simulation {
		return t.simBalances[asset], nil
	}
	return t.exchange.GetBalance(ctx, asset)
}

// announceTrade는 체결 알림과 차트 이미지를 전송합니다.
// 알림 실패는 매매 흐름에 영향을 주지 않고 기록만 합니다.
func (t *Trader) announceTrade(ctx context.Context, candidate *domain.TickerSnapshot,
	quantity float64, entry *ledger.Entry) {

	notice := notification.TradeNotice{
		Kind:          entry.Kind,
		TickerName:    candidate.TickerName,
		Price:         candidate.LastPrice,
		Quantity:      quantity,
		ChangePercent: candidate.PriceChangePercent,
		Profit:        entry.Profit,
		ProfitTotal:   entry.ProfitTotal,
		Simulation:    t.cfg.App.Simulation,
		Timestamp:     entry.Date,
	}
	if err := t.notifier.SendTrade(notice); err != nil {
		log.Printf("체결 알림 전송 실패: %v", err)
	}

	candles, err := t.exchange.GetKlines(ctx, candidate.TickerName, domain.Interval1h, 48)
	if err != nil {
		log.Printf("차트용 캔들 조회 실패: %v", err)
		return
	}

	image, err := chart.RenderPriceChart(candidate.PrimarySymbol, candidate.SecondarySymbol,
		candles, candidate.PriceChangePercent)
	if err != nil {
		log.Printf("차트 렌더링 실패: %v", err)
		return
	}

	if err := t.notifier.SendChart(candidate.TickerName, image); err != nil {
		log.Printf("차트 전송 실패: %v", err)
	}
}

func (t *Trader) notifyError(cause error) {
	if err := t.notifier.SendError(cause); err != nil {
		log.Printf("에러 알림 전송 실패: %v", err)
	}
}

// ReportStartupBalances는 시작 시점의 보유 자산 현황을 결제 자산 기준으로 평가하여 알립니다.
// 평가 금액이 최소 기준에 못 미치는 소액 자산은 생략합니다.
func (t *Trader) ReportStartupBalances(ctx context.Context) error {
	quote := t.cfg.App.SecondarySymbol

	var balances []domain.AssetBalance
	if t.cfg.App.Simulation {
		for asset, amount := range t.simBalances {
			balances = append(balances, domain.AssetBalance{Asset: asset, Available: amount})
		}
	} else {
		var err error
		balances, err = t.exchange.GetAccountBalances(ctx)
		if err != nil {
			return err
		}
	}

	valued := make([]domain.AssetBalance, 0, len(balances))
	for _, b := range balances {
		if b.Asset == quote {
			b.QuoteValue = b.Available
		} else {
			price, err := t.exchange.GetLastPrice(ctx, b.Asset+quote)
			if err != nil {
				// 결제 자산 마켓이 없는 자산은 평가에서 제외합니다
				log.Printf("잔고 평가 생략: %s (%v)", b.Asset, err)
				continue
			}
			b.QuoteValue = b.Available * price
		}

		if b.QuoteValue < t.cfg.Trading.MinTradeUSDValue {
			continue
		}
		valued = append(valued, b)
	}

	sort.Slice(valued, func(i, j int) bool {
		return valued[i].QuoteValue > valued[j].QuoteValue
	})

	var sb strings.Builder
	sb.WriteString("보유 자산 현황\n")
	total := 0.0
	for _, b := range valued {
		total += b.QuoteValue
		sb.WriteString(fmt.Sprintf("**%s**: %v (%.2f %s)\n", b.Asset, b.Available, b.QuoteValue, quote))
	}
	sb.WriteString(fmt.Sprintf("**합계**: %.2f %s", total, quote))

	log.Print(sb.String())
	if err := t.notifier.SendInfo(sb.String()); err != nil {
		log.Printf("잔고 알림 전송 실패: %v", err)
	}
	return nil
}
