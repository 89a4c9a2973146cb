package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitryilife/repairbot/internal/domain"
)

// Telegram delivers intents through the Telegram Bot API sendMessage call.
// The HTTP client is time-bounded so a stalled platform cannot block the
// scheduler or dispatcher goroutines.
type Telegram struct {
	token   string
	baseURL string
	client  *http.Client
}

// NewTelegram builds a sender for the given bot token. baseURL overrides the
// production API host, mainly for tests; pass "" for the default.
func NewTelegram(token, baseURL string) *Telegram {
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}
	return &Telegram{
		token:   token,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type sendMessageRequest struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

// Send posts the intent as a Markdown message to the target chat.
func (t *Telegram) Send(ctx context.Context, intent domain.NotificationIntent) error {
	body, err := json.Marshal(sendMessageRequest{
		ChatID:    intent.TargetUserID,
		Text:      intent.Text,
		ParseMode: "Markdown",
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var out sendMessageResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&out); err != nil {
		return fmt.Errorf("telegram: decode response: %w", err)
	}
	if !out.OK {
		return fmt.Errorf("telegram: send failed (%d): %s", resp.StatusCode, out.Description)
	}
	return nil
}
