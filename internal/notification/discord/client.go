package discord

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Client는 Discord 웹훅 알림 클라이언트입니다.
// 웹훅 URL이 비어 있으면 해당 채널의 알림은 조용히 생략합니다.
type Client struct {
	tradeWebhook string
	errorWebhook string
	infoWebhook  string
	client       *http.Client
}

// ClientOption은 클라이언트 생성 옵션입니다
type ClientOption func(*Client)

// WithTimeout은 HTTP 요청 타임아웃을 설정합니다
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = timeout
	}
}

// NewClient는 새로운 Discord 클라이언트를 생성합니다
func NewClient(tradeWebhook, errorWebhook, infoWebhook string, opts ...ClientOption) *Client {
	c := &Client{
		tradeWebhook: tradeWebhook,
		errorWebhook: errorWebhook,
		infoWebhook:  infoWebhook,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// sendToWebhook은 웹훅 URL로 메시지를 전송합니다
func (c *Client) sendToWebhook(url string, msg WebhookMessage) error {
	if url == "" {
		return nil
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("메시지 직렬화 실패: %w", err)
	}

	resp, err := c.client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("웹훅 전송 실패: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("웹훅 응답 에러 (상태 코드: %d): %s", resp.StatusCode, string(body))
	}

	return nil
}

// sendFileToWebhook은 파일이 첨부된 메시지를 multipart로 전송합니다
func (c *Client) sendFileToWebhook(url, filename string, file []byte, msg WebhookMessage) error {
	if url == "" {
		return nil
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("메시지 직렬화 실패: %w", err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("payload_json", string(payload)); err != nil {
		return fmt.Errorf("multipart 작성 실패: %w", err)
	}

	part, err := writer.CreateFormFile("files[0]", filename)
	if err != nil {
		return fmt.Errorf("multipart 작성 실패: %w", err)
	}
	if _, err := part.Write(file); err != nil {
		return fmt.Errorf("multipart 작성 실패: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("multipart 작성 실패: %w", err)
	}

	resp, err := c.client.Post(url, writer.FormDataContentType(), &buf)
	if err != nil {
		return fmt.Errorf("웹훅 전송 실패: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("웹훅 응답 에러 (상태 코드: %d): %s", resp.StatusCode, string(body))
	}

	return nil
}
