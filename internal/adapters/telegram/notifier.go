// Package telegram implements the ports.Notifier interface over the Telegram
// Bot API. Delivery is best-effort: failures are logged and swallowed so a
// dead channel can never affect trading.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"btcMomentumBot/internal/ports"
)

const apiBaseURL = "https://api.telegram.org"

// Notifier posts messages to a Telegram chat. A Notifier with empty
// credentials is a no-op, so the bot runs fine without Telegram configured.
type Notifier struct {
	token   string
	chatID  string
	baseURL string
	client  *http.Client
	logger  ports.Logger
}

// Config holds the Telegram bot credentials.
type Config struct {
	Token  string
	ChatID string
	Logger ports.Logger
}

// New creates a Telegram notifier.
func New(cfg Config) (*Notifier, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Telegram notifier")
	}
	if cfg.Token == "" || cfg.ChatID == "" {
		cfg.Logger.Warn(context.Background(), "Telegram credentials not set, notifications disabled")
	}
	return &Notifier{
		token:   cfg.Token,
		chatID:  cfg.ChatID,
		baseURL: apiBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  cfg.Logger,
	}, nil
}

// Notify delivers the message to the configured chat. Errors are wrapped
// with ErrNotificationFailed for logging but never returned to the caller.
func (n *Notifier) Notify(ctx context.Context, message string) {
	if n.token == "" || n.chatID == "" {
		return
	}
	if err := n.send(ctx, message); err != nil {
		n.logger.Error(ctx, fmt.Errorf("%w: %w", ports.ErrNotificationFailed, err), "Failed to send Telegram notification")
	}
}

func (n *Notifier) send(ctx context.Context, message string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.token)

	payload := map[string]string{
		"chat_id": n.chatID,
		"text":    message,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, respBody)
	}
	return nil
}
