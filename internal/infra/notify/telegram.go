// Package notify は注文作成をスタッフのチャットに送る。
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/usecase"

	"github.com/sony/gobreaker/v2"
)

var ErrSendFailed = errors.New("send message failed")

// sendMessage のリクエスト
type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// 成功時も失敗時も ok は入っている
type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// TelegramNotifier はBot APIに1回だけPOSTする。リトライもキューもしない。
type TelegramNotifier struct {
	cfg    config.TelegramConfig
	client *http.Client
	cb     *gobreaker.CircuitBreaker[struct{}]
	logger *slog.Logger
}

// 連続失敗でOPENにして、しばらく送らない
func NewTelegramNotifier(cfg config.TelegramConfig, logger *slog.Logger) *TelegramNotifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "telegram",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})

	return &TelegramNotifier{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		cb:     cb,
		logger: logger,
	}
}

func (n *TelegramNotifier) NotifyOrderCreated(ctx context.Context, order model.Order) usecase.NotifyResult {
	_, err := n.cb.Execute(func() (struct{}, error) {
		return struct{}{}, n.send(ctx, FormatOrderMessage(order))
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return usecase.NotifyResult{Skipped: true, Err: err}
	}
	if err != nil {
		return usecase.NotifyResult{Err: err}
	}
	return usecase.NotifyResult{Delivered: true}
}

func (n *TelegramNotifier) send(ctx context.Context, text string) error {
	body, err := json.Marshal(sendMessageRequest{
		ChatID:    n.cfg.ChatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return err
	}

	endpoint := strings.TrimRight(n.cfg.APIBase, "/") + "/bot" + n.cfg.BotToken + "/sendMessage"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := n.client.Do(req)
	if err != nil {
		//URLにトークンが入るのでそのまま出さない
		var uerr *url.Error
		if errors.As(err, &uerr) {
			return fmt.Errorf("%w: %w", ErrSendFailed, uerr.Err)
		}
		return fmt.Errorf("%w: request error", ErrSendFailed)
	}
	defer res.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrSendFailed, res.StatusCode)
	}

	var out sendMessageResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrSendFailed, err)
	}
	if !out.OK {
		return fmt.Errorf("%w: %s", ErrSendFailed, out.Description)
	}
	return nil
}

// FormatOrderMessage は注文をHTMLの要約にする。ユーザー入力はエスケープする。
func FormatOrderMessage(o model.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<b>طلب جديد #%d</b>\n\n", o.ID)
	fmt.Fprintf(&b, "الاسم: %s\n", html.EscapeString(o.FullName))
	fmt.Fprintf(&b, "الهاتف: %s\n", html.EscapeString(o.Phone))
	fmt.Fprintf(&b, "المحافظة: %s\n", html.EscapeString(o.Province))
	fmt.Fprintf(&b, "العنوان: %s\n\n", html.EscapeString(o.Address))

	b.WriteString("<b>المنتجات:</b>\n")
	for _, it := range o.Items {
		fmt.Fprintf(&b, "- %s: %s", html.EscapeString(it.ProductTitleSnapshot), it.Price.String())
		if note := strings.TrimSpace(it.Note); note != "" {
			fmt.Fprintf(&b, " (%s)", html.EscapeString(note))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\n<b>المجموع: %s</b>\n", o.TotalPrice.String())
	fmt.Fprintf(&b, "التاريخ: %s", o.CreatedAt.Format("2006-01-02 15:04"))
	return b.String()
}

// NopNotifier はトークン未設定のときに使う
type NopNotifier struct{}

func (NopNotifier) NotifyOrderCreated(context.Context, model.Order) usecase.NotifyResult {
	return usecase.NotifyResult{Skipped: true}
}

// 設定がそろっていればTelegram、なければNop
func New(cfg config.TelegramConfig, logger *slog.Logger) usecase.OrderNotifier {
	if !cfg.Enabled() {
		logger.Info("telegram notification disabled")
		return NopNotifier{}
	}
	return NewTelegramNotifier(cfg, logger)
}
