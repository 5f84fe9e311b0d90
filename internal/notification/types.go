package notification

import (
	"time"

	"github.com/assist-by/surfer/internal/domain"
)

const (
	ColorSuccess = 0x00FF00 // 녹색
	ColorError   = 0xFF0000 // 빨간색
	ColorInfo    = 0x0099FF // 파란색
	ColorWarning = 0xFFA500 // 주황색
)

// Notifier는 알림 전송 인터페이스를 정의합니다
type Notifier interface {
	// SendInfo는 일반 정보 알림을 전송합니다
	SendInfo(message string) error

	// SendError는 에러 알림을 전송합니다
	SendError(err error) error

	// SendTrade는 매매 체결 알림을 전송합니다
	SendTrade(notice TradeNotice) error

	// SendChart는 캔들 차트 이미지를 전송합니다
	SendChart(tickerName string, image []byte) error
}

// TradeNotice는 매매 체결 알림의 내용입니다
type TradeNotice struct {
	Kind          domain.TradeKind // 매매 종류 (BUY/SELL)
	TickerName    string           // 티커 이름 (예: BTCUSDT)
	Price         float64          // 체결 가격
	Quantity      float64          // 체결 수량
	ChangePercent float64          // 24시간 변동률 (%)
	Profit        float64          // 이번 거래 수익률 (%)
	ProfitTotal   float64          // 누적 수익률 (%)
	Simulation    bool             // 시뮬레이션 모드 여부
	Timestamp     time.Time        // 체결 시각
}

// GetColorForTrade는 매매 종류에 따른 색상을 반환합니다
func GetColorForTrade(kind domain.TradeKind) int {
	switch kind {
	case domain.TradeBuy:
		return ColorSuccess
	case domain.TradeSell:
		return ColorError
	default:
		return ColorInfo
	}
}
