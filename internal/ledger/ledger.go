package ledger

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/assist-by/surfer/internal/domain"
)

// 리포트 파일의 열 구성입니다. 순서를 바꾸면 기존 분석 시트가 깨집니다.
var header = []string{
	"Count",
	"Date",
	"BTC / USDT price",
	"Token name",
	"24h price change %",
	"Trade",
	"Trade price",
	"Comission",
	"Profit %",
	"Profit total %",
	"Market average",
}

// Entry는 원장에 기록된 한 행의 내용입니다
type Entry struct {
	Count         int
	Date          time.Time
	Kind          domain.TradeKind
	Symbol        string
	Price         float64
	ChangePercent float64
	Commission    float64
	Profit        float64
	ProfitTotal   float64
	BTCPrice      float64
	MarketAverage float64
}

// Ledger는 매매 내역을 CSV 파일에 누적 기록합니다.
// 시작할 때 파일을 새로 만들며, 수익률 집계는 프로세스 수명 동안만 유지됩니다.
type Ledger struct {
	mu                sync.Mutex
	file              *os.File
	writer            *csv.Writer
	commissionPercent float64

	count        int
	profitTotal  float64
	lastBuyPrice float64
	hasBuyPrice  bool
}

// New는 리포트 파일을 새로 만들고 헤더를 기록합니다
func New(path string, commissionPercent float64) (*Ledger, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("리포트 파일 생성 실패: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		file.Close()
		return nil, fmt.Errorf("리포트 헤더 기록 실패: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return nil, fmt.Errorf("리포트 헤더 기록 실패: %w", err)
	}

	return &Ledger{
		file:              file,
		writer:            writer,
		commissionPercent: commissionPercent,
	}, nil
}

// Close는 리포트 파일을 닫습니다
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.writer.Flush()
	if err := l.writer.Error(); err != nil {
		l.file.Close()
		return err
	}
	return l.file.Close()
}

// ProfitTotal은 현재까지의 누적 수익률(%)을 반환합니다
func (l *Ledger) ProfitTotal() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.profitTotal
}

// Record는 한 사이클의 매매 결과를 원장에 기록합니다.
// 매수는 수수료만큼 손실로, 매도는 직전 매수가 대비 수익률로 집계하며
// PASS는 거래 관련 칸을 비워서 기록합니다.
func (l *Ledger) Record(kind domain.TradeKind, date time.Time, symbol string,
	price, changePercent, btcPrice, marketAverage float64) (*Entry, error) {

	l.mu.Lock()
	defer l.mu.Unlock()

	l.count++

	entry := &Entry{
		Count:         l.count,
		Date:          date,
		Kind:          kind,
		Symbol:        symbol,
		Price:         price,
		ChangePercent: changePercent,
		BTCPrice:      btcPrice,
		MarketAverage: marketAverage,
	}

	switch kind {
	case domain.TradeBuy:
		entry.Commission = round4(price * l.commissionPercent)
		entry.Profit = round4(-l.commissionPercent)
		l.profitTotal = round4(l.profitTotal - l.commissionPercent)
		l.lastBuyPrice = price
		l.hasBuyPrice = true

	case domain.TradeSell:
		entry.Commission = round4(price * l.commissionPercent)
		if l.hasBuyPrice && l.lastBuyPrice > 0 {
			onePercent := l.lastBuyPrice / 100
			entry.Profit = round4((price-l.lastBuyPrice)/onePercent - l.commissionPercent)
		} else {
			// 매수가를 모르면 수수료만 반영합니다
			entry.Profit = round4(-l.commissionPercent)
		}
		l.profitTotal = round4(l.profitTotal + entry.Profit)
		// 매도가를 다음 수익률 계산의 기준가로 기억합니다
		l.lastBuyPrice = price
		l.hasBuyPrice = true
	}

	entry.ProfitTotal = l.profitTotal

	if err := l.writeRow(entry); err != nil {
		return nil, fmt.Errorf("리포트 기록 실패: %w", err)
	}
	return entry, nil
}

func (l *Ledger) writeRow(entry *Entry) error {
	tokenCell := entry.Symbol
	tradeCell := string(entry.Kind)
	priceCell := formatNumber(round4(entry.Price))

	// PASS 행은 거래 관련 칸을 비웁니다
	if entry.Kind == domain.TradePass {
		tokenCell = ""
		tradeCell = ""
		priceCell = ""
	}

	row := []string{
		strconv.Itoa(entry.Count),
		entry.Date.Format("2006-01-02 15:04:05"),
		formatNumber(round4(entry.BTCPrice)),
		tokenCell,
		formatNumber(round4(entry.ChangePercent)),
		tradeCell,
		priceCell,
		formatNumber(entry.Commission),
		formatNumber(entry.Profit),
		formatNumber(entry.ProfitTotal),
		formatNumber(round4(entry.MarketAverage)),
	}

	if err := l.writer.Write(row); err != nil {
		return err
	}
	l.writer.Flush()
	return l.writer.Error()
}

// ReadEntries는 리포트 파일의 행을 Entry 목록으로 복원합니다
func ReadEntries(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("리포트 파일 열기 실패: %w", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("리포트 파일 읽기 실패: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("리포트 헤더가 없습니다")
	}

	entries := make([]Entry, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, fmt.Errorf("%d번째 행의 열 수가 맞지 않습니다: %d", i+1, len(row))
		}

		entry := Entry{Symbol: row[3]}

		if entry.Count, err = strconv.Atoi(row[0]); err != nil {
			return nil, fmt.Errorf("%d번째 행의 순번 해석 실패: %w", i+1, err)
		}
		if entry.Date, err = time.Parse("2006-01-02 15:04:05", row[1]); err != nil {
			return nil, fmt.Errorf("%d번째 행의 날짜 해석 실패: %w", i+1, err)
		}

		// 거래 칸이 비어 있으면 PASS 행입니다
		if row[5] == "" {
			entry.Kind = domain.TradePass
		} else {
			entry.Kind = domain.TradeKind(row[5])
		}

		parse := func(name, cell string, dst *float64) error {
			if cell == "" {
				return nil
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return fmt.Errorf("%d번째 행의 %s 해석 실패: %w", i+1, name, err)
			}
			*dst = v
			return nil
		}

		if err := parse("기준 가격", row[2], &entry.BTCPrice); err != nil {
			return nil, err
		}
		if err := parse("변동률", row[4], &entry.ChangePercent); err != nil {
			return nil, err
		}
		if err := parse("거래 가격", row[6], &entry.Price); err != nil {
			return nil, err
		}
		if err := parse("수수료", row[7], &entry.Commission); err != nil {
			return nil, err
		}
		if err := parse("수익률", row[8], &entry.Profit); err != nil {
			return nil, err
		}
		if err := parse("누적 수익률", row[9], &entry.ProfitTotal); err != nil {
			return nil, err
		}
		if err := parse("시장 평균", row[10], &entry.MarketAverage); err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// round4는 소수점 넷째 자리까지 반올림합니다
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
