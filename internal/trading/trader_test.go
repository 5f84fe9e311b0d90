package trading

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assist-by/surfer/internal/config"
	"github.com/assist-by/surfer/internal/domain"
	"github.com/assist-by/surfer/internal/ledger"
	"github.com/assist-by/surfer/internal/notification"
	"github.com/assist-by/surfer/internal/position"
	"github.com/assist-by/surfer/internal/strategy"
)

type fakeExchange struct {
	tickerStats func(ctx context.Context) ([]domain.TickerStats, error)
	tradable    func(ctx context.Context) ([]string, error)
	lastPrice   func(ctx context.Context, ticker string) (float64, error)
	constraints func(ctx context.Context, ticker string) (*domain.SymbolConstraints, error)
	klines      func(ctx context.Context, ticker string, interval domain.TimeInterval, limit int) (domain.CandleList, error)
	balances    func(ctx context.Context) ([]domain.AssetBalance, error)
	balance     func(ctx context.Context, asset string) (float64, error)
	marketOrder func(ctx context.Context, side domain.OrderSide, ticker string, quantity float64) (*domain.OrderResult, error)
}

func (f *fakeExchange) GetTickerStats(ctx context.Context) ([]domain.TickerStats, error) {
	if f.tickerStats != nil {
		return f.tickerStats(ctx)
	}
	return []domain.TickerStats{
		{Symbol: "AAAUSDT", LastPrice: "10", PriceChangePercent: "-2"},
	}, nil
}

func (f *fakeExchange) GetTradableSymbols(ctx context.Context) ([]string, error) {
	if f.tradable != nil {
		return f.tradable(ctx)
	}
	return []string{"AAAUSDT"}, nil
}

func (f *fakeExchange) GetLastPrice(ctx context.Context, ticker string) (float64, error) {
	if f.lastPrice != nil {
		return f.lastPrice(ctx, ticker)
	}
	return 50000, nil
}

func (f *fakeExchange) GetSymbolConstraints(ctx context.Context, ticker string) (*domain.SymbolConstraints, error) {
	if f.constraints != nil {
		return f.constraints(ctx, ticker)
	}
	return &domain.SymbolConstraints{MinQuantity: 0.01, MinNotional: 0.1, StepSize: 0.01}, nil
}

func (f *fakeExchange) GetKlines(ctx context.Context, ticker string, interval domain.TimeInterval, limit int) (domain.CandleList, error) {
	if f.klines != nil {
		return f.klines(ctx, ticker, interval, limit)
	}

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	candles := make(domain.CandleList, 0, 5)
	for i := 0; i < 5; i++ {
		candles = append(candles, domain.Candle{
			OpenTime:  base.Add(time.Duration(i) * time.Hour),
			CloseTime: base.Add(time.Duration(i+1) * time.Hour),
			Close:     10 + float64(i),
			Symbol:    ticker,
			Interval:  interval,
		})
	}
	return candles, nil
}

func (f *fakeExchange) GetAccountBalances(ctx context.Context) ([]domain.AssetBalance, error) {
	if f.balances != nil {
		return f.balances(ctx)
	}
	return nil, nil
}

func (f *fakeExchange) GetBalance(ctx context.Context, asset string) (float64, error) {
	if f.balance != nil {
		return f.balance(ctx, asset)
	}
	return 0, nil
}

func (f *fakeExchange) ExecuteMarketOrder(ctx context.Context, side domain.OrderSide, ticker string, quantity float64) (*domain.OrderResult, error) {
	if f.marketOrder != nil {
		return f.marketOrder(ctx, side, ticker, quantity)
	}
	return &domain.OrderResult{Symbol: ticker, Status: domain.OrderStatusFilled, ExecutedQuantity: quantity}, nil
}

func (f *fakeExchange) SyncTime(ctx context.Context) error { return nil }

type fakeNotifier struct {
	infos  []string
	errs   []error
	trades []notification.TradeNotice
	charts []string
}

func (f *fakeNotifier) SendInfo(message string) error {
	f.infos = append(f.infos, message)
	return nil
}

func (f *fakeNotifier) SendError(err error) error {
	f.errs = append(f.errs, err)
	return nil
}

func (f *fakeNotifier) SendTrade(notice notification.TradeNotice) error {
	f.trades = append(f.trades, notice)
	return nil
}

func (f *fakeNotifier) SendChart(tickerName string, image []byte) error {
	f.charts = append(f.charts, tickerName)
	return nil
}

type stubStrategy struct {
	results []*strategy.Result
}

func (s *stubStrategy) Evaluate(ctx context.Context, in *strategy.Input) (*strategy.Result, error) {
	if len(s.results) == 0 {
		return &strategy.Result{}, nil
	}
	result := s.results[0]
	s.results = s.results[1:]
	return result, nil
}

func (s *stubStrategy) GetName() string { return "stub" }

func aaaSnapshot(price float64) *domain.TickerSnapshot {
	return &domain.TickerSnapshot{
		PrimarySymbol:      "AAA",
		SecondarySymbol:    "USDT",
		TickerName:         "AAAUSDT",
		LastPrice:          price,
		PriceChangePercent: -2,
	}
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.SecondarySymbol = "USDT"
	cfg.App.Simulation = true
	cfg.Trading.FixedPercent = 50
	cfg.Trading.CommissionPercent = 0.1
	return cfg
}

func newTestTrader(t *testing.T, ex *fakeExchange, strat strategy.Strategy,
	cfg *config.Config) (*Trader, *fakeNotifier, *position.State, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "report.csv")
	led, err := ledger.New(path, cfg.Trading.CommissionPercent)
	require.NoError(t, err)
	t.Cleanup(func() { led.Close() })

	notifier := &fakeNotifier{}
	state := position.NewState(cfg.App.SecondarySymbol)
	trader := New(ex, notifier, strat, state, led, cfg)

	return trader, notifier, state, path
}

func readLedgerRows(t *testing.T, path string) [][]string {
	t.Helper()

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestExecuteBuyCycle(t *testing.T) {
	strat := &stubStrategy{results: []*strategy.Result{
		{BuyCandidate: aaaSnapshot(10), IsBuySignal: true, MarketAverage: 5},
	}}

	trader, notifier, state, path := newTestTrader(t, &fakeExchange{}, strat, newTestConfig())

	require.NoError(t, trader.Execute(context.Background()))

	// 잔고 100 USDT의 50% = 50 USDT / 10 = 5개
	require.True(t, state.Holding())
	assert.Equal(t, domain.PricePoint{Symbol: "AAA", Price: 10}, *state.Current())
	assert.InDelta(t, 50, trader.simBalances["USDT"], 1e-9)
	assert.InDelta(t, 5, trader.simBalances["AAA"], 1e-9)

	rows := readLedgerRows(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, "AAA", rows[1][3])
	assert.Equal(t, "BUY", rows[1][5])

	require.Len(t, notifier.trades, 1)
	assert.Equal(t, domain.TradeBuy, notifier.trades[0].Kind)
	assert.True(t, notifier.trades[0].Simulation)
	assert.Equal(t, []string{"AAAUSDT"}, notifier.charts)
}

func TestExecuteBuyThenSell(t *testing.T) {
	strat := &stubStrategy{results: []*strategy.Result{
		{BuyCandidate: aaaSnapshot(10), IsBuySignal: true},
		{SellCandidate: aaaSnapshot(9), IsSellSignal: true},
	}}

	trader, notifier, state, path := newTestTrader(t, &fakeExchange{}, strat, newTestConfig())

	require.NoError(t, trader.Execute(context.Background()))
	require.NoError(t, trader.Execute(context.Background()))

	assert.False(t, state.Holding())
	assert.Equal(t, domain.PricePoint{Symbol: "USDT", Price: 1}, state.LastCheck())

	// 50 USDT 남기고 5개 매수, 9에 전량 매도 → 50 + 45 = 95 USDT
	assert.InDelta(t, 95, trader.simBalances["USDT"], 1e-9)
	assert.InDelta(t, 0, trader.simBalances["AAA"], 1e-9)

	rows := readLedgerRows(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, "SELL", rows[2][5])
	// (9-10)/0.1 - 0.1 = -10.1%
	assert.Equal(t, "-10.1", rows[2][8])
	assert.Equal(t, "-10.2", rows[2][9])

	require.Len(t, notifier.trades, 2)
	assert.InDelta(t, -10.1, notifier.trades[1].Profit, 1e-9)
}

func TestExecuteHoldWithoutSellSignal(t *testing.T) {
	strat := &stubStrategy{results: []*strategy.Result{
		{SellCandidate: aaaSnapshot(11), IsSellSignal: false, MarketAverage: 7},
	}}

	trader, _, state, path := newTestTrader(t, &fakeExchange{}, strat, newTestConfig())
	require.NoError(t, state.ApplyBuy("AAA", 10))
	trader.simBalances["AAA"] = 5

	require.NoError(t, trader.Execute(context.Background()))

	// 보유는 유지하고 마지막 체크만 갱신합니다
	assert.True(t, state.Holding())
	assert.Equal(t, domain.PricePoint{Symbol: "AAA", Price: 11}, state.LastCheck())

	rows := readLedgerRows(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, "", rows[1][3])
	assert.Equal(t, "", rows[1][5])
	assert.Equal(t, "7", rows[1][10])
}

func TestExecuteNoBuySignalWritesPass(t *testing.T) {
	strat := &stubStrategy{results: []*strategy.Result{
		{IsBuySignal: false, MarketAverage: 3},
	}}

	trader, _, state, path := newTestTrader(t, &fakeExchange{}, strat, newTestConfig())

	require.NoError(t, trader.Execute(context.Background()))

	assert.False(t, state.Holding())
	rows := readLedgerRows(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, "", rows[1][5])
	assert.Equal(t, "3", rows[1][10])
}

func TestExecuteCollaboratorErrorAbortsCycle(t *testing.T) {
	ex := &fakeExchange{
		lastPrice: func(ctx context.Context, ticker string) (float64, error) {
			return 0, domain.NewCollaboratorError("현재가 조회", errors.New("연결 끊김"))
		},
	}

	trader, notifier, _, path := newTestTrader(t, ex, &stubStrategy{}, newTestConfig())

	err := trader.Execute(context.Background())
	require.Error(t, err)

	var collabErr *domain.CollaboratorError
	assert.ErrorAs(t, err, &collabErr)

	// 원장에는 아무 행도 남기지 않습니다
	rows := readLedgerRows(t, path)
	assert.Len(t, rows, 1)
	assert.Len(t, notifier.errs, 1)
}

func TestExecuteInfeasibleQuantityWritesPass(t *testing.T) {
	strat := &stubStrategy{results: []*strategy.Result{
		{BuyCandidate: aaaSnapshot(10), IsBuySignal: true},
	}}
	ex := &fakeExchange{
		constraints: func(ctx context.Context, ticker string) (*domain.SymbolConstraints, error) {
			return &domain.SymbolConstraints{MinQuantity: 100, MinNotional: 0.1, StepSize: 0.01}, nil
		},
	}

	trader, notifier, state, path := newTestTrader(t, ex, strat, newTestConfig())

	require.NoError(t, trader.Execute(context.Background()))

	assert.False(t, state.Holding())
	rows := readLedgerRows(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, "", rows[1][5])
	require.Len(t, notifier.errs, 1)

	var constraintErr *domain.ConstraintError
	assert.ErrorAs(t, notifier.errs[0], &constraintErr)
}

func TestExecuteFixedValueExceedingBalanceWritesPass(t *testing.T) {
	strat := &stubStrategy{results: []*strategy.Result{
		{BuyCandidate: aaaSnapshot(10), IsBuySignal: true},
	}}

	cfg := newTestConfig()
	cfg.Trading.UseFixedValue = true
	cfg.Trading.FixedValue = 1000
	cfg.Trading.FixedPercent = 0

	trader, notifier, state, path := newTestTrader(t, &fakeExchange{}, strat, cfg)

	require.NoError(t, trader.Execute(context.Background()))

	// 잔고 100 < 매수 금액 1000: 주문 없이 관망하고 잔고는 그대로입니다
	assert.False(t, state.Holding())
	assert.InDelta(t, 100, trader.simBalances["USDT"], 1e-9)
	assert.Zero(t, trader.simBalances["AAA"])

	rows := readLedgerRows(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, "", rows[1][5])

	var constraintErr *domain.ConstraintError
	require.Len(t, notifier.errs, 1)
	assert.ErrorAs(t, notifier.errs[0], &constraintErr)
}

func TestExecuteUnfilledOrderSkipsStateChange(t *testing.T) {
	strat := &stubStrategy{results: []*strategy.Result{
		{BuyCandidate: aaaSnapshot(10), IsBuySignal: true},
	}}
	ex := &fakeExchange{
		balance: func(ctx context.Context, asset string) (float64, error) {
			return 100, nil
		},
		marketOrder: func(ctx context.Context, side domain.OrderSide, ticker string, quantity float64) (*domain.OrderResult, error) {
			return &domain.OrderResult{Symbol: ticker, Status: "EXPIRED"}, nil
		},
	}

	cfg := newTestConfig()
	cfg.App.Simulation = false
	cfg.Binance.APIKey = "key"
	cfg.Binance.SecretKey = "secret"

	trader, notifier, state, path := newTestTrader(t, ex, strat, cfg)

	require.NoError(t, trader.Execute(context.Background()))

	assert.False(t, state.Holding())
	rows := readLedgerRows(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, "", rows[1][5])

	var execErr *domain.ExecutionError
	require.Len(t, notifier.errs, 1)
	assert.ErrorAs(t, notifier.errs[0], &execErr)
}

func TestReportStartupBalances(t *testing.T) {
	trader, notifier, _, _ := newTestTrader(t, &fakeExchange{}, &stubStrategy{}, newTestConfig())

	require.NoError(t, trader.ReportStartupBalances(context.Background()))

	require.Len(t, notifier.infos, 1)
	assert.Contains(t, notifier.infos[0], "USDT")
	assert.Contains(t, notifier.infos[0], "100.00")
}
