package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

const defaultTelegramAPI = "https://api.telegram.org"

// TelegramNotifier delivers reports to one chat through the Bot API.
type TelegramNotifier struct {
	BotToken string
	ChatID   string
	APIBase  string
	Client   *http.Client
	log      zerolog.Logger
}

// NewTelegramNotifier creates a notifier; proxyURL may be empty.
func NewTelegramNotifier(botToken, chatID, proxyURL string, log zerolog.Logger) *TelegramNotifier {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			tr.Proxy = http.ProxyURL(u)
		}
	}
	return &TelegramNotifier{
		BotToken: botToken,
		ChatID:   chatID,
		APIBase:  defaultTelegramAPI,
		// Must outlast the getUpdates long-poll timeout.
		Client: &http.Client{Timeout: pollTimeout + 15*time.Second, Transport: tr},
		log:    log.With().Str("component", "telegram").Logger(),
	}
}

// apiResponse is the envelope every Bot API method returns.
type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

// call invokes a Bot API method with a JSON payload and decodes the result into out (may be nil).
func (t *TelegramNotifier) call(ctx context.Context, method string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram %s: marshal: %w", method, err)
	}
	endpoint := fmt.Sprintf("%s/bot%s/%s", t.APIBase, t.BotToken, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("telegram %s: read body: %w", method, err)
	}
	var env apiResponse
	_ = json.Unmarshal(raw, &env)
	if resp.StatusCode != http.StatusOK || !env.OK {
		return fmt.Errorf("telegram %s: status %d: %s", method, resp.StatusCode, env.Description)
	}
	if out != nil && len(env.Result) > 0 {
		if err := json.Unmarshal(env.Result, out); err != nil {
			return fmt.Errorf("telegram %s: decode result: %w", method, err)
		}
	}
	return nil
}

// Send posts an HTML message to the configured chat.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	return t.call(ctx, "sendMessage", map[string]string{
		"chat_id":    t.ChatID,
		"text":       text,
		"parse_mode": "HTML",
	}, nil)
}

// SendWithRetry retries Send up to maxRetries times with exponential backoff.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = t.Send(ctx, text); err == nil {
			return nil
		}
		if attempt >= maxRetries {
			break
		}
		wait := t.backoff(attempt)
		t.log.Warn().Err(err).
			Int("attempt", attempt+1).
			Int("max_attempts", maxRetries+1).
			Dur("backoff", wait).
			Msg("telegram send failed, retrying")
		if !sleepCtx(ctx, wait) {
			return ctx.Err()
		}
	}
	return fmt.Errorf("all %d attempts failed: %w", maxRetries+1, err)
}

func (t *TelegramNotifier) backoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * time.Second
}

// sleepCtx waits for d and reports false if ctx ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
