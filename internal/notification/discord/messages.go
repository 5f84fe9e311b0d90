package discord

import (
	"fmt"
	"time"

	"github.com/assist-by/surfer/internal/domain"
	"github.com/assist-by/surfer/internal/notification"
)

const footerText = "Surfer Bot 🏄"

// SendInfo는 일반 정보 알림을 전송합니다
func (c *Client) SendInfo(message string) error {
	embed := NewEmbed().
		SetDescription(message).
		SetColor(notification.ColorInfo).
		SetFooter(footerText).
		SetTimestamp(time.Now())

	return c.sendToWebhook(c.infoWebhook, WebhookMessage{
		Embeds: []Embed{*embed},
	})
}

// SendError는 에러 알림을 전송합니다
func (c *Client) SendError(err error) error {
	embed := NewEmbed().
		SetTitle("에러 발생").
		SetDescription(fmt.Sprintf("```%v```", err)).
		SetColor(notification.ColorError).
		SetFooter(footerText).
		SetTimestamp(time.Now())

	return c.sendToWebhook(c.errorWebhook, WebhookMessage{
		Embeds: []Embed{*embed},
	})
}

// SendTrade는 매매 체결 알림을 전송합니다
func (c *Client) SendTrade(notice notification.TradeNotice) error {
	var title string
	switch notice.Kind {
	case domain.TradeBuy:
		title = fmt.Sprintf("🛒 매수 체결: %s", notice.TickerName)
	case domain.TradeSell:
		title = fmt.Sprintf("💰 매도 체결: %s", notice.TickerName)
	default:
		title = fmt.Sprintf("매매 알림: %s", notice.TickerName)
	}

	if notice.Simulation {
		title = "[시뮬레이션] " + title
	}

	description := fmt.Sprintf(
		"**가격**: $%.8g\n**수량**: %.8g\n**24시간 변동률**: %.2f%%",
		notice.Price, notice.Quantity, notice.ChangePercent,
	)
	if notice.Kind == domain.TradeSell {
		description += fmt.Sprintf("\n**수익률**: %.4f%%", notice.Profit)
	}
	description += fmt.Sprintf("\n**누적 수익률**: %.4f%%", notice.ProfitTotal)

	embed := NewEmbed().
		SetTitle(title).
		SetDescription(description).
		SetColor(notification.GetColorForTrade(notice.Kind)).
		SetFooter(footerText).
		SetTimestamp(notice.Timestamp)

	return c.sendToWebhook(c.tradeWebhook, WebhookMessage{
		Embeds: []Embed{*embed},
	})
}

// SendChart는 캔들 차트 이미지를 첨부하여 전송합니다
func (c *Client) SendChart(tickerName string, image []byte) error {
	filename := "chart.png"

	embed := NewEmbed().
		SetTitle(fmt.Sprintf("📈 %s 차트", tickerName)).
		SetColor(notification.ColorInfo).
		SetImage("attachment://" + filename).
		SetFooter(footerText).
		SetTimestamp(time.Now())

	return c.sendFileToWebhook(c.tradeWebhook, filename, image, WebhookMessage{
		Embeds: []Embed{*embed},
	})
}
