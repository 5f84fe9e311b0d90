package discord

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assist-by/surfer/internal/domain"
	"github.com/assist-by/surfer/internal/notification"
)

func TestSendTrade(t *testing.T) {
	var received WebhookMessage

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := NewClient(server.URL, "", "")

	err := c.SendTrade(notification.TradeNotice{
		Kind:          domain.TradeBuy,
		TickerName:    "BTCUSDT",
		Price:         50000,
		Quantity:      0.002,
		ChangePercent: 2.5,
		Simulation:    true,
		Timestamp:     time.Now(),
	})
	require.NoError(t, err)

	require.Len(t, received.Embeds, 1)
	embed := received.Embeds[0]
	assert.Equal(t, "[시뮬레이션] 🛒 매수 체결: BTCUSDT", embed.Title)
	assert.Equal(t, notification.ColorSuccess, embed.Color)
	require.NotNil(t, embed.Footer)
	assert.Equal(t, "Surfer Bot 🏄", embed.Footer.Text)
}

func TestSendErrorStatusCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewClient("", server.URL, "")

	err := c.SendError(assert.AnError)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestEmptyWebhookDisablesChannel(t *testing.T) {
	c := NewClient("", "", "")

	assert.NoError(t, c.SendInfo("시작"))
	assert.NoError(t, c.SendError(assert.AnError))
	assert.NoError(t, c.SendChart("BTCUSDT", []byte{1, 2, 3}))
}

func TestSendChartUploadsMultipart(t *testing.T) {
	var contentType string
	var payload string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseMultipartForm(1<<20))
		payload = r.FormValue("payload_json")

		file, _, err := r.FormFile("files[0]")
		require.NoError(t, err)
		defer file.Close()

		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 3}, data)

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewClient(server.URL, "", "")

	require.NoError(t, c.SendChart("ETHUSDT", []byte{1, 2, 3}))
	assert.Contains(t, contentType, "multipart/form-data")

	var msg WebhookMessage
	require.NoError(t, json.Unmarshal([]byte(payload), &msg))
	require.Len(t, msg.Embeds, 1)
	require.NotNil(t, msg.Embeds[0].Image)
	assert.Equal(t, "attachment://chart.png", msg.Embeds[0].Image.URL)
}
