package market

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/assist-by/surfer/internal/domain"
)

// Normalize는 거래소 원본 티커 통계를 결제 자산 기준의 스냅샷으로 변환합니다.
// 결제 자산으로 끝나지 않는 티커와 레버리지 토큰(UP/DOWN)은 제외하고,
// 숫자 필드가 하나라도 파싱되지 않으면 전체를 실패로 처리합니다.
func Normalize(stats []domain.TickerStats, secondarySymbol string) ([]domain.TickerSnapshot, error) {
	snapshots := make([]domain.TickerSnapshot, 0, len(stats))

	for _, s := range stats {
		if !strings.HasSuffix(s.Symbol, secondarySymbol) {
			continue
		}

		primary := strings.TrimSuffix(s.Symbol, secondarySymbol)
		if primary == "" {
			continue
		}

		// 레버리지 토큰은 현물 매매 대상에서 제외합니다
		if strings.HasSuffix(primary, "UP") || strings.HasSuffix(primary, "DOWN") {
			continue
		}

		lastPrice, err := strconv.ParseFloat(s.LastPrice, 64)
		if err != nil {
			return nil, domain.NewDataError("티커 정규화",
				fmt.Errorf("%s의 가격을 해석할 수 없습니다: %q", s.Symbol, s.LastPrice))
		}

		changePercent, err := strconv.ParseFloat(s.PriceChangePercent, 64)
		if err != nil {
			return nil, domain.NewDataError("티커 정규화",
				fmt.Errorf("%s의 변동률을 해석할 수 없습니다: %q", s.Symbol, s.PriceChangePercent))
		}

		snapshots = append(snapshots, domain.TickerSnapshot{
			PrimarySymbol:      primary,
			SecondarySymbol:    secondarySymbol,
			TickerName:         s.Symbol,
			LastPrice:          lastPrice,
			PriceChangePercent: changePercent,
			OpenTime:           time.UnixMilli(s.OpenTime),
			CloseTime:          time.UnixMilli(s.CloseTime),
		})
	}

	return snapshots, nil
}
