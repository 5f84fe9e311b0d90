package exchange

import (
	"context"

	"github.com/assist-by/surfer/internal/domain"
)

// Exchange는 거래소와의 상호작용을 위한 인터페이스입니다.
type Exchange interface {
	// 시장 데이터 조회
	GetTickerStats(ctx context.Context) ([]domain.TickerStats, error)
	GetTradableSymbols(ctx context.Context) ([]string, error)
	GetLastPrice(ctx context.Context, ticker string) (float64, error)
	GetSymbolConstraints(ctx context.Context, ticker string) (*domain.SymbolConstraints, error)
	GetKlines(ctx context.Context, ticker string, interval domain.TimeInterval, limit int) (domain.CandleList, error)

	// 계정 데이터 조회
	GetAccountBalances(ctx context.Context) ([]domain.AssetBalance, error)
	GetBalance(ctx context.Context, asset string) (float64, error)

	// 거래 기능
	ExecuteMarketOrder(ctx context.Context, side domain.OrderSide, ticker string, quantity float64) (*domain.OrderResult, error)

	// 시간 동기화
	SyncTime(ctx context.Context) error
}
