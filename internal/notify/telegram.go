package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
)

// TelegramAPI is the default Bot API base URL.
const TelegramAPI = "https://api.telegram.org"

// Telegram delivers notifications through the Telegram Bot API.
type Telegram struct {
	botToken string
	chatID   string
	client   *resty.Client
	retries  uint64
	backoff  func() backoff.BackOff
}

// NewTelegram creates a Telegram delivery. An empty baseURL selects
// TelegramAPI.
func NewTelegram(baseURL, botToken, chatID string) *Telegram {
	if baseURL == "" {
		baseURL = TelegramAPI
	}
	return &Telegram{
		botToken: botToken,
		chatID:   chatID,
		client:   resty.New().SetBaseURL(baseURL).SetTimeout(30 * time.Second),
		retries:  3,
		backoff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}
}

type telegramSendRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

// Granted reports whether a bot token and chat are configured.
func (t *Telegram) Granted() bool {
	return t.botToken != "" && t.chatID != ""
}

// Deliver sends msg to the configured chat, retrying transient failures.
func (t *Telegram) Deliver(ctx context.Context, msg Message) error {
	payload := telegramSendRequest{
		ChatID: t.chatID,
		Text:   msg.Title + "\n" + msg.Body,
	}

	op := func() error {
		var out telegramResponse
		resp, err := t.client.R().
			SetContext(ctx).
			SetBody(payload).
			SetResult(&out).
			SetError(&out).
			Post("/bot" + t.botToken + "/sendMessage")
		if err != nil {
			return fmt.Errorf("send telegram message: %w", err)
		}
		if resp.StatusCode() >= http.StatusInternalServerError || resp.StatusCode() == http.StatusTooManyRequests {
			return fmt.Errorf("telegram API status %d", resp.StatusCode())
		}
		if !out.OK {
			return backoff.Permanent(fmt.Errorf("telegram API error: %s", out.Description))
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(t.backoff(), t.retries), ctx)
	return backoff.Retry(op, policy)
}
