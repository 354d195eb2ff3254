package notifier

import (
	"context"
	"strconv"
	"strings"
	"time"
)

const (
	pollTimeout = 30 * time.Second
	pollBackoff = 5 * time.Second
)

// CommandHandler answers a chat command; an empty reply sends nothing.
type CommandHandler func(ctx context.Context, command string) string

type telegramUpdate struct {
	UpdateID int `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

// StartPolling long-polls getUpdates and answers commands until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	offset := 0
	for {
		var updates []telegramUpdate
		err := t.call(ctx, "getUpdates", map[string]int{
			"offset":  offset,
			"timeout": int(pollTimeout / time.Second),
		}, &updates)
		if ctx.Err() != nil {
			t.log.Info().Msg("telegram polling stopped")
			return
		}
		if err != nil {
			t.log.Warn().Err(err).Msg("poll updates")
			if !sleepCtx(ctx, pollBackoff) {
				return
			}
			continue
		}
		offset = t.dispatch(ctx, updates, offset, handler)
	}
}

// dispatch answers a batch of updates and returns the next offset.
// Messages from chats other than ChatID are dropped.
func (t *TelegramNotifier) dispatch(ctx context.Context, updates []telegramUpdate, offset int, handler CommandHandler) int {
	for _, u := range updates {
		offset = u.UpdateID + 1
		if u.Message == nil {
			continue
		}
		cmd := normalizeCommand(u.Message.Text)
		if cmd == "" {
			continue
		}
		if strconv.FormatInt(u.Message.Chat.ID, 10) != t.ChatID {
			t.log.Warn().Int64("chat_id", u.Message.Chat.ID).Msg("ignoring command from unknown chat")
			continue
		}
		t.log.Info().Str("command", cmd).Msg("received command")
		if reply := handler(ctx, cmd); reply != "" {
			if err := t.Send(ctx, reply); err != nil {
				t.log.Error().Err(err).Str("command", cmd).Msg("send reply")
			}
		}
	}
	return offset
}

// normalizeCommand trims the text and strips a "@botname" suffix from the command word.
func normalizeCommand(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return text
	}
	word, rest, _ := strings.Cut(text, " ")
	if at := strings.IndexByte(word, '@'); at > 0 {
		word = word[:at]
	}
	if rest == "" {
		return word
	}
	return word + " " + rest
}
