package binance

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/assist-by/surfer/internal/domain"
)

// Client는 바이낸스 현물 API 클라이언트를 구현합니다
type Client struct {
	apiKey           string
	secretKey        string
	baseURL          string
	httpClient       *http.Client
	callDelay        time.Duration // 호출 전 대기 시간 (요청 속도 제한 완화용)
	serverTimeOffset int64         // 서버 시간과의 차이를 저장
	mu               sync.RWMutex
}

// ClientOption은 클라이언트 생성 옵션을 정의합니다
type ClientOption func(*Client)

// WithTimeout은 HTTP 클라이언트의 타임아웃을 설정합니다
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithBaseURL은 기본 URL을 설정합니다
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithCallDelay는 모든 API 호출 직전의 대기 시간을 설정합니다
func WithCallDelay(delay time.Duration) ClientOption {
	return func(c *Client) {
		c.callDelay = delay
	}
}

// NewClient는 새로운 바이낸스 현물 API 클라이언트를 생성합니다
func NewClient(apiKey, secretKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     apiKey,
		secretKey:  secretKey,
		baseURL:    "https://api.binance.com",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	// 옵션 적용
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// doRequest는 HTTP 요청을 실행하고 결과를 반환합니다
func (c *Client) doRequest(ctx context.Context, method, endpoint string, params url.Values, needSign bool) ([]byte, error) {
	// 호출 간 간격 유지
	if c.callDelay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.callDelay):
		}
	}

	if params == nil {
		params = url.Values{}
	}

	// URL 생성
	reqURL, err := url.Parse(c.baseURL + endpoint)
	if err != nil {
		return nil, fmt.Errorf("URL 파싱 실패: %w", err)
	}

	// 타임스탬프 추가
	if needSign {
		timestamp := strconv.FormatInt(c.getServerTime(), 10)
		params.Set("timestamp", timestamp)
		params.Set("recvWindow", "5000")
	}

	// 파라미터 설정
	reqURL.RawQuery = params.Encode()

	// 서명 추가
	if needSign {
		signature := c.sign(params.Encode())
		reqURL.RawQuery = reqURL.RawQuery + "&signature=" + signature
	}

	// 요청 생성
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("요청 생성 실패: %w", err)
	}

	// 헤더 설정
	req.Header.Set("Content-Type", "application/json")
	if needSign {
		req.Header.Set("X-MBX-APIKEY", c.apiKey)
	}

	// 요청 실행
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API 요청 실패: %w", err)
	}
	defer resp.Body.Close()

	// 응답 읽기
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("응답 읽기 실패: %w", err)
	}

	// 상태 코드 확인
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Code    int    `json:"code"`
			Message string `json:"msg"`
		}
		if err := json.Unmarshal(body, &apiErr); err != nil {
			return nil, fmt.Errorf("HTTP 에러(%d): %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("API 에러(코드: %d): %s", apiErr.Code, apiErr.Message)
	}

	return body, nil
}

// sign은 요청에 대한 서명을 생성합니다
func (c *Client) sign(payload string) string {
	h := hmac.New(sha256.New, []byte(c.secretKey))
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}

// getServerTime은 현재 서버 시간을 반환합니다
func (c *Client) getServerTime() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Now().UnixMilli() + c.serverTimeOffset
}

// SyncTime은 바이낸스 서버와 시간을 동기화합니다
func (c *Client) SyncTime(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v3/time", nil, false)
	if err != nil {
		return domain.NewCollaboratorError("서버 시간 조회", err)
	}

	var result struct {
		ServerTime int64 `json:"serverTime"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return domain.NewCollaboratorError("서버 시간 조회", fmt.Errorf("응답 파싱 실패: %w", err))
	}

	c.serverTimeOffset = result.ServerTime - time.Now().UnixMilli()
	return nil
}

// GetTickerStats는 전체 심볼의 24시간 티커 통계를 조회합니다.
// 숫자 필드는 문자열 그대로 반환하며, 해석은 정규화 단계의 책임입니다.
func (c *Client) GetTickerStats(ctx context.Context) ([]domain.TickerStats, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v3/ticker/24hr", nil, false)
	if err != nil {
		return nil, domain.NewCollaboratorError("24시간 티커 조회", err)
	}

	var stats []domain.TickerStats
	if err := json.Unmarshal(resp, &stats); err != nil {
		return nil, domain.NewCollaboratorError("24시간 티커 조회", fmt.Errorf("응답 파싱 실패: %w", err))
	}

	return stats, nil
}

// GetTradableSymbols는 현재 현물 거래가 가능한 티커 이름 목록을 조회합니다
func (c *Client) GetTradableSymbols(ctx context.Context) ([]string, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v3/exchangeInfo", nil, false)
	if err != nil {
		return nil, domain.NewCollaboratorError("거래 가능 심볼 조회", err)
	}

	var exchangeInfo struct {
		Symbols []struct {
			Symbol               string `json:"symbol"`
			Status               string `json:"status"`
			IsSpotTradingAllowed bool   `json:"isSpotTradingAllowed"`
		} `json:"symbols"`
	}
	if err := json.Unmarshal(resp, &exchangeInfo); err != nil {
		return nil, domain.NewCollaboratorError("거래 가능 심볼 조회", fmt.Errorf("응답 파싱 실패: %w", err))
	}

	var symbols []string
	for _, s := range exchangeInfo.Symbols {
		if s.Status == "TRADING" && s.IsSpotTradingAllowed {
			symbols = append(symbols, s.Symbol)
		}
	}

	return symbols, nil
}

// GetSymbolConstraints는 특정 티커의 주문 제약 조건을 조회합니다
func (c *Client) GetSymbolConstraints(ctx context.Context, ticker string) (*domain.SymbolConstraints, error) {
	params := url.Values{}
	params.Add("symbol", ticker)

	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v3/exchangeInfo", params, false)
	if err != nil {
		return nil, domain.NewCollaboratorError("주문 제약 조회", err)
	}

	var exchangeInfo struct {
		Symbols []struct {
			Symbol  string `json:"symbol"`
			Filters []struct {
				FilterType  string `json:"filterType"`
				MinQty      string `json:"minQty,omitempty"`
				StepSize    string `json:"stepSize,omitempty"`
				MinNotional string `json:"minNotional,omitempty"`
				Notional    string `json:"notional,omitempty"`
			} `json:"filters"`
		} `json:"symbols"`
	}
	if err := json.Unmarshal(resp, &exchangeInfo); err != nil {
		return nil, domain.NewCollaboratorError("주문 제약 조회", fmt.Errorf("응답 파싱 실패: %w", err))
	}

	if len(exchangeInfo.Symbols) == 0 {
		return nil, domain.NewCollaboratorError("주문 제약 조회",
			fmt.Errorf("심볼 정보를 찾을 수 없음: %s", ticker))
	}

	constraints := &domain.SymbolConstraints{}
	for _, filter := range exchangeInfo.Symbols[0].Filters {
		switch filter.FilterType {
		case "LOT_SIZE": // 수량 단위 필터
			if filter.MinQty != "" {
				minQty, err := strconv.ParseFloat(filter.MinQty, 64)
				if err != nil {
					continue
				}
				constraints.MinQuantity = minQty
			}
			if filter.StepSize != "" {
				stepSize, err := strconv.ParseFloat(filter.StepSize, 64)
				if err != nil {
					continue
				}
				constraints.StepSize = stepSize
			}
		case "MIN_NOTIONAL": // 최소 주문 가치 필터
			if filter.MinNotional != "" {
				minNotional, err := strconv.ParseFloat(filter.MinNotional, 64)
				if err != nil {
					continue
				}
				constraints.MinNotional = minNotional
			}
		case "NOTIONAL": // 신형 응답의 최소 주문 가치 필터
			if filter.Notional != "" && constraints.MinNotional == 0 {
				minNotional, err := strconv.ParseFloat(filter.Notional, 64)
				if err != nil {
					continue
				}
				constraints.MinNotional = minNotional
			}
		}
	}

	return constraints, nil
}

// GetLastPrice는 특정 티커의 최종 체결 가격을 조회합니다
func (c *Client) GetLastPrice(ctx context.Context, ticker string) (float64, error) {
	params := url.Values{}
	params.Add("symbol", ticker)

	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v3/ticker/price", params, false)
	if err != nil {
		return 0, domain.NewCollaboratorError("최종 가격 조회", err)
	}

	var result struct {
		Symbol string `json:"symbol"`
		Price  string `json:"price"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return 0, domain.NewCollaboratorError("최종 가격 조회", fmt.Errorf("응답 파싱 실패: %w", err))
	}

	price, err := strconv.ParseFloat(result.Price, 64)
	if err != nil {
		return 0, domain.NewCollaboratorError("최종 가격 조회",
			fmt.Errorf("가격 파싱 실패 (%s): %w", result.Price, err))
	}

	return price, nil
}

// GetAccountBalances는 계정의 전체 잔고를 조회합니다.
// 사용 가능 수량이 0인 자산은 제외합니다.
func (c *Client) GetAccountBalances(ctx context.Context) ([]domain.AssetBalance, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v3/account", nil, true)
	if err != nil {
		return nil, domain.NewCollaboratorError("계정 잔고 조회", err)
	}

	var result struct {
		Balances []struct {
			Asset string `json:"asset"`
			Free  string `json:"free"`
		} `json:"balances"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return nil, domain.NewCollaboratorError("계정 잔고 조회", fmt.Errorf("응답 파싱 실패: %w", err))
	}

	var balances []domain.AssetBalance
	for _, b := range result.Balances {
		available, err := strconv.ParseFloat(b.Free, 64)
		if err != nil {
			return nil, domain.NewCollaboratorError("계정 잔고 조회",
				fmt.Errorf("잔고 파싱 실패 (%s: %s): %w", b.Asset, b.Free, err))
		}
		if available > 0 {
			balances = append(balances, domain.AssetBalance{
				Asset:     b.Asset,
				Available: available,
			})
		}
	}

	return balances, nil
}

// GetBalance는 특정 자산의 사용 가능 잔고를 조회합니다.
// 계정에 없는 자산은 0을 반환합니다.
func (c *Client) GetBalance(ctx context.Context, asset string) (float64, error) {
	balances, err := c.GetAccountBalances(ctx)
	if err != nil {
		return 0, err
	}

	for _, b := range balances {
		if b.Asset == asset {
			return b.Available, nil
		}
	}

	return 0, nil
}

// ExecuteMarketOrder는 시장가 주문을 실행합니다
func (c *Client) ExecuteMarketOrder(ctx context.Context, side domain.OrderSide, ticker string, quantity float64) (*domain.OrderResult, error) {
	params := url.Values{}
	params.Add("symbol", ticker)
	params.Add("side", string(side))
	params.Add("type", "MARKET")
	params.Add("quantity", strconv.FormatFloat(quantity, 'f', -1, 64))

	resp, err := c.doRequest(ctx, http.MethodPost, "/api/v3/order", params, true)
	if err != nil {
		return nil, domain.NewCollaboratorError("시장가 주문",
			fmt.Errorf("주문 실행 실패 [심볼: %s, 방향: %s, 수량: %.8f]: %w", ticker, side, quantity, err))
	}

	var result struct {
		Symbol      string `json:"symbol"`
		Status      string `json:"status"`
		ExecutedQty string `json:"executedQty"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return nil, domain.NewCollaboratorError("시장가 주문", fmt.Errorf("주문 응답 파싱 실패: %w", err))
	}

	executedQty, err := strconv.ParseFloat(result.ExecutedQty, 64)
	if err != nil {
		return nil, domain.NewCollaboratorError("시장가 주문",
			fmt.Errorf("체결 수량 파싱 실패 (%s): %w", result.ExecutedQty, err))
	}

	return &domain.OrderResult{
		Symbol:           result.Symbol,
		Status:           result.Status,
		ExecutedQuantity: executedQty,
	}, nil
}

// GetKlines는 캔들 데이터를 조회합니다
func (c *Client) GetKlines(ctx context.Context, ticker string, interval domain.TimeInterval, limit int) (domain.CandleList, error) {
	params := url.Values{}
	params.Add("symbol", ticker)
	params.Add("interval", string(interval))
	params.Add("limit", strconv.Itoa(limit))

	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v3/klines", params, false)
	if err != nil {
		return nil, domain.NewCollaboratorError("캔들 데이터 조회", err)
	}

	var rawCandles [][]interface{}
	if err := json.Unmarshal(resp, &rawCandles); err != nil {
		return nil, domain.NewCollaboratorError("캔들 데이터 조회", fmt.Errorf("응답 파싱 실패: %w", err))
	}

	candles := make(domain.CandleList, len(rawCandles))
	for i, raw := range rawCandles {
		if len(raw) < 7 {
			return nil, domain.NewCollaboratorError("캔들 데이터 조회",
				fmt.Errorf("캔들 필드 수가 부족합니다: %d", len(raw)))
		}

		// 시간 변환
		openTime := int64(raw[0].(float64))
		closeTime := int64(raw[6].(float64))

		// 가격 문자열 변환
		open, _ := strconv.ParseFloat(raw[1].(string), 64)
		high, _ := strconv.ParseFloat(raw[2].(string), 64)
		low, _ := strconv.ParseFloat(raw[3].(string), 64)
		close, _ := strconv.ParseFloat(raw[4].(string), 64)
		volume, _ := strconv.ParseFloat(raw[5].(string), 64)

		candles[i] = domain.Candle{
			OpenTime:  time.Unix(openTime/1000, 0),
			CloseTime: time.Unix(closeTime/1000, 0),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     close,
			Volume:    volume,
			Symbol:    ticker,
			Interval:  interval,
		}
	}

	return candles, nil
}
