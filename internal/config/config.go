package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// 바이낸스 API 설정
	Binance struct {
		APIKey    string `envconfig:"BINANCE_API_KEY"`
		SecretKey string `envconfig:"BINANCE_SECRET_KEY"`
	}

	// 디스코드 웹훅 설정 (비워두면 해당 알림은 비활성화)
	Discord struct {
		TradeWebhook string `envconfig:"DISCORD_TRADE_WEBHOOK"`
		ErrorWebhook string `envconfig:"DISCORD_ERROR_WEBHOOK"`
		InfoWebhook  string `envconfig:"DISCORD_INFO_WEBHOOK"`
	}

	// 애플리케이션 설정
	App struct {
		SecondarySymbol   string        `envconfig:"SECONDARY_SYMBOL" default:"USDT"`
		HeartbeatInterval Interval      `envconfig:"HEARTBEAT_INTERVAL" default:"1m"`
		NextTradeDelay    Interval      `envconfig:"NEXT_TRADE_DELAY" default:"1m"`
		APICallDelay      time.Duration `envconfig:"API_CALL_DELAY" default:"1s"`
		ReportFile        string        `envconfig:"REPORT_FILE" default:"report.csv"`
		Simulation        bool          `envconfig:"SIMULATION" default:"true"`
	}

	// 거래 설정
	Trading struct {
		Indicator         string  `envconfig:"INDICATOR" default:"simple"`
		PrimarySymbol     string  `envconfig:"PRIMARY_SYMBOL" default:"BTC"`
		UseFixedValue     bool    `envconfig:"USE_FIXED_TRADE_VALUE" default:"false"`
		FixedValue        float64 `envconfig:"FIXED_TRADE_VALUE" default:"0"`
		FixedPercent      float64 `envconfig:"FIXED_TRADE_PERCENT" default:"0"`
		ChangePercent     float64 `envconfig:"INDICATOR_CHANGE_PERCENT" default:"0"`
		MinTradeUSDValue  float64 `envconfig:"MIN_TRADE_USD_VALUE" default:"0"`
		CommissionPercent float64 `envconfig:"COMMISSION_PERCENT" default:"0.1"`
	}
}

// 선택 가능한 시그널 전략 이름들입니다
var validIndicators = map[string]bool{
	"simple": true,
	"pump":   true,
	"dump":   true,
	"flat":   true,
}

// ValidateConfig는 설정이 유효한지 확인합니다.
func ValidateConfig(cfg *Config) error {
	if !validIndicators[cfg.Trading.Indicator] {
		return fmt.Errorf("지원하지 않는 전략입니다: %s", cfg.Trading.Indicator)
	}

	if cfg.App.SecondarySymbol == "" {
		return fmt.Errorf("SECONDARY_SYMBOL은 비워둘 수 없습니다")
	}

	if cfg.Trading.UseFixedValue && cfg.Trading.FixedValue <= 0 {
		return fmt.Errorf("고정 금액 모드에서는 FIXED_TRADE_VALUE가 0보다 커야 합니다")
	}

	if !cfg.Trading.UseFixedValue &&
		(cfg.Trading.FixedPercent <= 0 || cfg.Trading.FixedPercent > 100) {
		return fmt.Errorf("FIXED_TRADE_PERCENT는 0 초과 100 이하이어야 합니다")
	}

	if cfg.Trading.CommissionPercent < 0 {
		return fmt.Errorf("COMMISSION_PERCENT는 음수일 수 없습니다")
	}

	// 실거래 모드에서는 API 키가 반드시 필요합니다
	if !cfg.App.Simulation {
		if cfg.Binance.APIKey == "" || cfg.Binance.SecretKey == "" {
			return fmt.Errorf("실거래 모드에서는 BINANCE_API_KEY와 BINANCE_SECRET_KEY가 필요합니다")
		}
	}

	return nil
}

// LoadConfig는 환경변수에서 설정을 로드합니다.
// .env 파일이 있으면 먼저 읽어들입니다.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf(".env 파일 로드 실패: %w", err)
		}
	}

	var cfg Config
	// 환경변수를 구조체로 파싱
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("환경변수 처리 실패: %w", err)
	}

	// 설정값 검증
	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("설정값 검증 실패: %w", err)
	}

	return &cfg, nil
}
