// Package telegram wraps the chat platform's long-poll and send endpoints.
// The poll loop owns the update cursor; this client only executes requests.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

type Client struct {
	bot         *telego.Bot
	log         *slog.Logger
	pollTimeout int

	mu       sync.Mutex
	username string
}

func NewClient(token string, pollTimeout int, log *slog.Logger) (*Client, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	return &Client{bot: bot, log: log, pollTimeout: pollTimeout}, nil
}

// FetchUpdates requests the next batch of updates at the given offset. The
// call blocks up to the configured long-poll timeout when no updates exist.
func (c *Client) FetchUpdates(ctx context.Context, offset int) ([]telego.Update, error) {
	updates, err := c.bot.GetUpdates(ctx, &telego.GetUpdatesParams{
		Offset:  offset,
		Timeout: c.pollTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("getUpdates failed: %w", err)
	}
	return updates, nil
}

// SendMessage delivers text to a chat or user, best effort. Delivery
// failures are logged and never affect already-committed state.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) {
	_, err := c.bot.SendMessage(ctx, tu.Message(tu.ID(chatID), text))
	if err != nil {
		c.log.Warn("sendMessage failed", "chat_id", chatID, "error", err)
	}
}

// BotUsername returns the bot's own handle, fetched once and cached. Invite
// deep links embed it.
func (c *Client) BotUsername(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.username != "" {
		return c.username, nil
	}
	me, err := c.bot.GetMe(ctx)
	if err != nil {
		return "", fmt.Errorf("getMe failed: %w", err)
	}
	c.username = me.Username
	return c.username, nil
}
