package notify

import (
	"context"
	"fmt"
)

// TelegramSender delivers notifications via the Telegram Bot API.
type TelegramSender struct {
	httpSender
	chatID string
}

// NewTelegramSender creates a TelegramSender for the given bot token and chat
// ID.
func NewTelegramSender(token, chatID string, opts ...SenderOption) *TelegramSender {
	endpoint := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", token)
	return &TelegramSender{
		httpSender: newHTTPSender("telegram", endpoint, opts),
		chatID:     chatID,
	}
}

// Send calls sendMessage with the title in bold Markdown.
func (t *TelegramSender) Send(ctx context.Context, title, message string) error {
	return t.postJSON(ctx, map[string]string{
		"chat_id":    t.chatID,
		"text":       fmt.Sprintf("*%s*\n%s", title, message),
		"parse_mode": "Markdown",
	})
}

// Name returns the sender identifier.
func (t *TelegramSender) Name() string {
	return t.name
}
