package notify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleOrder() model.Order {
	return model.Order{
		ID:         12,
		FullName:   "علي <b>حسن</b>",
		Phone:      "07701234567",
		Province:   "بغداد",
		Address:    "الكرادة & شارع 62",
		TotalPrice: decimal.RequireFromString("20000"),
		CreatedAt:  time.Date(2026, 6, 1, 12, 30, 0, 0, time.UTC),
		Items: []model.OrderItem{
			{ProductTitleSnapshot: "بروش", Price: decimal.RequireFromString("15000"), Note: "اسم: <علي>"},
		},
	}
}

func newTestNotifier(t *testing.T, h http.HandlerFunc, timeout time.Duration) *TelegramNotifier {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return NewTelegramNotifier(config.TelegramConfig{
		APIBase:  srv.URL,
		BotToken: "TOKEN123",
		ChatID:   "-100200",
		Timeout:  timeout,
	}, testLogger())
}

func TestNotifyOrderCreated_Success(t *testing.T) {
	var got sendMessageRequest
	var path string
	n := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true,"result":{}}`))
	}, time.Second)

	res := n.NotifyOrderCreated(context.Background(), sampleOrder())
	assert.True(t, res.Delivered)
	assert.False(t, res.Skipped)
	assert.NoError(t, res.Err)

	assert.Equal(t, "/botTOKEN123/sendMessage", path)
	assert.Equal(t, "-100200", got.ChatID)
	assert.Equal(t, "HTML", got.ParseMode)
	assert.Contains(t, got.Text, "#12")
}

func TestNotifyOrderCreated_Failures(t *testing.T) {
	tests := map[string]http.HandlerFunc{
		"non 2xx": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		},
		"ok false": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
		},
		"broken json": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		},
	}

	for name, h := range tests {
		t.Run(name, func(t *testing.T) {
			n := newTestNotifier(t, h, time.Second)

			res := n.NotifyOrderCreated(context.Background(), sampleOrder())
			assert.False(t, res.Delivered)
			assert.ErrorIs(t, res.Err, ErrSendFailed)
		})
	}
}

func TestNotifyOrderCreated_Timeout(t *testing.T) {
	release := make(chan struct{})
	n := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, 50*time.Millisecond)
	defer close(release)

	start := time.Now()
	res := n.NotifyOrderCreated(context.Background(), sampleOrder())
	assert.ErrorIs(t, res.Err, ErrSendFailed)
	assert.Less(t, time.Since(start), 2*time.Second)
	//トークンはエラー文に出さない
	assert.NotContains(t, res.Err.Error(), "TOKEN123")
}

func TestNotifyOrderCreated_BreakerOpens(t *testing.T) {
	var calls int32
	n := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}, time.Second)

	for i := 0; i < 3; i++ {
		res := n.NotifyOrderCreated(context.Background(), sampleOrder())
		require.Error(t, res.Err)
		assert.False(t, res.Skipped)
	}

	//OPENの間は送らない
	res := n.NotifyOrderCreated(context.Background(), sampleOrder())
	assert.True(t, res.Skipped)
	assert.ErrorIs(t, res.Err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFormatOrderMessage_EscapesUserText(t *testing.T) {
	msg := FormatOrderMessage(sampleOrder())

	assert.Contains(t, msg, "علي &lt;b&gt;حسن&lt;/b&gt;")
	assert.Contains(t, msg, "الكرادة &amp; شارع 62")
	assert.Contains(t, msg, "(اسم: &lt;علي&gt;)")
	assert.Contains(t, msg, "بروش: 15000")
	assert.Contains(t, msg, "20000")
	assert.Contains(t, msg, "2026-06-01 12:30")
	//書式用のタグは残る
	assert.True(t, strings.HasPrefix(msg, "<b>"))
}

func TestNew_DisabledWithoutToken(t *testing.T) {
	n := New(config.TelegramConfig{ChatID: "1"}, testLogger())
	assert.IsType(t, NopNotifier{}, n)

	res := n.NotifyOrderCreated(context.Background(), sampleOrder())
	assert.True(t, res.Skipped)
	assert.NoError(t, res.Err)

	assert.IsType(t, &TelegramNotifier{}, New(config.TelegramConfig{BotToken: "t", ChatID: "1"}, testLogger()))
}
