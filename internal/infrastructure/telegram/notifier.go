package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"NewsPortal/internal/domain"
	"NewsPortal/internal/ports"
)

// Sender is the subset of tgbotapi.BotAPI used here.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier sends digests to a Telegram chat via bot API.
type Notifier struct {
	bot    Sender
	chatID string
}

var (
	_ ports.Notifier       = (*Notifier)(nil)
	_ ports.EventPublisher = (*Notifier)(nil)
)

// DefaultTimeout bounds every Bot API round trip.
const DefaultTimeout = 5 * time.Second

// NewBot authenticates against the Bot API with a bounded HTTP client.
func NewBot(token string, timeout time.Duration) (*tgbotapi.BotAPI, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, &http.Client{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return bot, nil
}

// NewNotifier binds a sender to a chat. chatID is numeric or an @channel name.
func NewNotifier(bot Sender, chatID string) *Notifier {
	return &Notifier{bot: bot, chatID: chatID}
}

// PublishDigest posts a plain-text message. It returns once ctx is done even
// if the Bot API call is still in flight.
func (n *Notifier) PublishDigest(ctx context.Context, digest string) error {
	if n.bot == nil || n.chatID == "" {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	var msg tgbotapi.MessageConfig
	if id, err := strconv.ParseInt(n.chatID, 10, 64); err == nil {
		msg = tgbotapi.NewMessage(id, digest)
	} else {
		msg = tgbotapi.NewMessageToChannel(n.chatID, digest)
	}
	msg.DisableWebPagePreview = true

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	sent := make(chan error, 1)
	go func() {
		_, err := n.bot.Send(msg)
		sent <- err
	}()

	select {
	case err := <-sent:
		if err != nil {
			return fmt.Errorf("send telegram message: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send telegram message: %w", ctx.Err())
	}
}

// PublishBreaking mirrors a breaking batch as one digest message.
func (n *Notifier) PublishBreaking(ctx context.Context, articles []domain.Article) error {
	if len(articles) == 0 {
		return nil
	}
	return n.PublishDigest(ctx, FormatDigest(articles))
}

// FormatDigest renders a breaking batch as a numbered list.
func FormatDigest(articles []domain.Article) string {
	var b strings.Builder
	b.WriteString("🔴 ")
	b.WriteString(domain.BreakingCategory)
	b.WriteString("\n\n")
	for i, a := range articles {
		fmt.Fprintf(&b, "%d. %s", i+1, a.Title)
		if a.Source != nil && *a.Source != "" {
			fmt.Fprintf(&b, " (%s)", *a.Source)
		}
		b.WriteString("\n")
		if a.SourceURL != nil && *a.SourceURL != "" {
			b.WriteString(*a.SourceURL)
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
