// Package notify delivers posts to the telegram channel through the Bot API.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"
)

// captionLimit is the telegram hard limit for photo captions
const captionLimit = 1024

// Telegram sends channel posts via the Bot API, with photo when available
type Telegram struct {
	token   string
	chatID  string
	client  *http.Client
	apiBase string // overridable for tests
}

// NewTelegram creates a telegram sender for the given bot and chat
func NewTelegram(token, chatID string, timeout time.Duration) *Telegram {
	return &Telegram{
		token:   token,
		chatID:  chatID,
		client:  &http.Client{Timeout: timeout},
		apiBase: "https://api.telegram.org",
	}
}

// Send posts text with an optional photo to the channel. Transient failures
// are retried with backoff; a caption over the API limit is trimmed.
func (t *Telegram) Send(ctx context.Context, text, imageURL string) error {
	if t.token == "" || t.chatID == "" {
		return fmt.Errorf("telegram sender misconfigured")
	}

	method := "sendMessage"
	form := url.Values{}
	form.Set("chat_id", t.chatID)
	form.Set("parse_mode", "HTML")

	if imageURL != "" {
		method = "sendPhoto"
		form.Set("photo", imageURL)
		if runes := []rune(text); len(runes) > captionLimit {
			lgr.Printf("[WARN] caption trimmed from %d to %d chars", len(runes), captionLimit)
			text = string(runes[:captionLimit])
		}
		form.Set("caption", text)
	} else {
		form.Set("text", text)
	}

	retrier := repeater.NewBackoff(3, time.Second, repeater.WithMaxDelay(5*time.Second))
	return retrier.Do(ctx, func() error {
		return t.call(ctx, method, form)
	})
}

// SendMessage posts a plain text message, used for monitoring notifications
func (t *Telegram) SendMessage(ctx context.Context, chatID, text string) error {
	if t.token == "" {
		return fmt.Errorf("telegram sender misconfigured")
	}
	form := url.Values{}
	form.Set("chat_id", chatID)
	form.Set("text", text)
	return t.call(ctx, "sendMessage", form)
}

// call posts one Bot API request and decodes the ok flag
func (t *Telegram) call(ctx context.Context, method string, form url.Values) error {
	endpoint := fmt.Sprintf("%s/bot%s/%s", t.apiBase, t.token, method)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var apiResp struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
		Result      struct {
			MessageID int64 `json:"message_id"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return fmt.Errorf("decode response (%s): %w", resp.Status, err)
	}
	if !apiResp.OK {
		return fmt.Errorf("telegram api error: %s (%s)", apiResp.Description, resp.Status)
	}

	lgr.Printf("[DEBUG] telegram %s delivered, message id %d", method, apiResp.Result.MessageID)
	return nil
}
