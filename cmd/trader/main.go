package main

import (
	"context"
	"fmt"
	"log"
	"os"
	osSignal "os/signal"
	"syscall"
	"time"

	"github.com/assist-by/surfer/internal/config"
	"github.com/assist-by/surfer/internal/exchange/binance"
	"github.com/assist-by/surfer/internal/ledger"
	"github.com/assist-by/surfer/internal/notification/discord"
	"github.com/assist-by/surfer/internal/position"
	"github.com/assist-by/surfer/internal/scheduler"
	"github.com/assist-by/surfer/internal/strategy"
	"github.com/assist-by/surfer/internal/trading"
)

func main() {
	// 컨텍스트 생성
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 로그 설정
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("서퍼 봇 시작...")

	// 설정 로드
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("설정 로드 실패: %v", err)
	}

	// Discord 클라이언트 생성
	discordClient := discord.NewClient(
		cfg.Discord.TradeWebhook,
		cfg.Discord.ErrorWebhook,
		cfg.Discord.InfoWebhook,
		discord.WithTimeout(10*time.Second),
	)

	// 시작 알림 전송
	if err := discordClient.SendInfo("🏄 서퍼 봇이 시작되었습니다."); err != nil {
		log.Printf("시작 알림 전송 실패: %v", err)
	}

	if cfg.App.Simulation {
		discordClient.SendInfo("⚠️ 시뮬레이션 모드로 실행 중입니다. 실제 자산은 사용되지 않습니다.")
	} else {
		discordClient.SendInfo("⚠️ 실거래 모드로 실행 중입니다. 실제 자산이 사용됩니다!")
	}

	// 바이낸스 클라이언트 생성
	binanceClient := binance.NewClient(
		cfg.Binance.APIKey,
		cfg.Binance.SecretKey,
		binance.WithTimeout(10*time.Second),
		binance.WithCallDelay(cfg.App.APICallDelay),
	)

	// 바이낸스 서버와 시간 동기화
	if err := binanceClient.SyncTime(ctx); err != nil {
		log.Printf("바이낸스 서버 시간 동기화 실패: %v", err)
		// 실거래 모드에서는 서명된 요청이 실패하므로 중단합니다
		if !cfg.App.Simulation {
			if err := discordClient.SendError(fmt.Errorf("바이낸스 서버 시간 동기화 실패: %w", err)); err != nil {
				log.Printf("에러 알림 전송 실패: %v", err)
			}
			os.Exit(1)
		}
	}

	// 전략 레지스트리 생성 및 전략 선택
	registry := strategy.NewRegistry()
	if err := strategy.RegisterAll(registry); err != nil {
		log.Fatalf("전략 등록 실패: %v", err)
	}

	tradingStrategy, err := strategy.CreateFromConfig(registry, cfg)
	if err != nil {
		log.Fatalf("전략 생성 실패: %v", err)
	}
	log.Printf("전략 선택: %s", tradingStrategy.GetName())

	// 매매 원장 생성
	tradeLedger, err := ledger.New(cfg.App.ReportFile, cfg.Trading.CommissionPercent)
	if err != nil {
		log.Fatalf("리포트 파일 생성 실패: %v", err)
	}
	defer tradeLedger.Close()

	// 포지션 상태 및 트레이더 생성
	state := position.NewState(cfg.App.SecondarySymbol)
	trader := trading.New(binanceClient, discordClient, tradingStrategy, state, tradeLedger, cfg)

	// 시작 시점 잔고 현황 보고
	if err := trader.ReportStartupBalances(ctx); err != nil {
		log.Printf("잔고 현황 보고 실패: %v", err)
	}

	// 스케줄러 생성
	sched := scheduler.NewScheduler(
		trader,
		cfg.App.HeartbeatInterval.Duration(),
		cfg.App.NextTradeDelay.Duration(),
	)

	// 시그널 처리
	sigChan := make(chan os.Signal, 1)
	osSignal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// 스케줄러 시작
	go func() {
		if err := sched.Start(ctx); err != nil {
			log.Printf("스케줄러 실행 중 에러 발생: %v", err)
			if err := discordClient.SendError(err); err != nil {
				log.Printf("에러 알림 전송 실패: %v", err)
			}
		}
	}()

	// 시그널 대기
	sig := <-sigChan
	log.Printf("시스템 종료 신호 수신: %v", sig)

	// 스케줄러 중지
	sched.Stop()

	// 종료 알림 전송
	if err := discordClient.SendInfo("👋 서퍼 봇이 정상적으로 종료되었습니다."); err != nil {
		log.Printf("종료 알림 전송 실패: %v", err)
	}

	log.Println("프로그램을 종료합니다.")
}
