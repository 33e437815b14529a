package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mymmrac/telego"
	"github.com/redis/go-redis/v9"

	"styx-bot/internal/store"
)

// greetDedupTTL bounds how long a join/leave reply is remembered. Replayed
// events inside the window stay silent; state writes are idempotent anyway.
const greetDedupTTL = 48 * time.Hour

// UpdateSource is the inbound half of the update source contract.
type UpdateSource interface {
	FetchUpdates(ctx context.Context, offset int) ([]telego.Update, error)
}

// Loop drives the fetch/classify/execute cycle. It is strictly sequential:
// one batch is fully processed before the next fetch, and the cursor only
// advances past a batch that was interpreted end to end.
type Loop struct {
	source   UpdateSource
	store    *store.Store
	exec     *Executor
	sender   Sender
	rdb      *redis.Client // nil disables reply dedup
	log      *slog.Logger
	interval time.Duration

	// cursor is the next update ID to request. It starts at 0 on every
	// process start; re-delivered updates are harmless by construction.
	cursor int
}

func NewLoop(source UpdateSource, st *store.Store, exec *Executor, sender Sender,
	rdb *redis.Client, interval time.Duration, log *slog.Logger) *Loop {
	return &Loop{
		source:   source,
		store:    st,
		exec:     exec,
		sender:   sender,
		rdb:      rdb,
		log:      log,
		interval: interval,
	}
}

// Run polls until the context is canceled.
func (l *Loop) Run(ctx context.Context) error {
	l.log.Info("polling in progress")
	for {
		l.runOnce(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.interval):
		}
	}
}

// runOnce fetches one batch at the current cursor and processes it. The
// cursor moves to one past the highest update ID seen, and only when the
// fetch succeeded.
func (l *Loop) runOnce(ctx context.Context) {
	updates, err := l.source.FetchUpdates(ctx, l.cursor)
	if err != nil {
		l.log.Error("failed to fetch updates", "cursor", l.cursor, "error", err)
		return
	}
	if len(updates) == 0 {
		l.log.Debug("no updates received")
		return
	}

	next := l.cursor
	for _, update := range updates {
		l.handleUpdate(ctx, update)
		if update.UpdateID >= next {
			next = update.UpdateID + 1
		}
	}
	l.cursor = next
}

func (l *Loop) handleUpdate(ctx context.Context, update telego.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	from := msg.From.ID
	chat := msg.Chat.ID

	// First contact registers the sender, whatever the content kind.
	if !l.store.AddUser(from, displayName(msg.From), msg.From.Username) {
		l.log.Error("failed to register sender", "telegram_id", from)
	}

	switch kind := Classify(msg); kind {
	case KindMemberJoined:
		l.store.AddMembership(from, chat)
		if l.replyOnce(ctx, fmt.Sprintf("welcomed_%d_%d", from, chat)) {
			l.sender.SendMessage(ctx, chat, "@"+msg.From.Username+"\n欢迎加入冥河")
		}

	case KindMemberLeft:
		// The membership row deliberately stays; only the farewell is sent.
		if l.replyOnce(ctx, fmt.Sprintf("farewell_%d_%d", from, chat)) {
			l.sender.SendMessage(ctx, chat,
				"又一位成员跳入了十八层地狱\n@"+msg.From.Username+"\n一路走好(骗你的,你去死吧!)")
		}

	case KindText:
		l.log.Info("text message",
			"name", displayName(msg.From), "handle", msg.From.Username,
			"telegram_id", from, "text", msg.Text)
		cmd, args, ok := ParseCommand(msg.Text)
		if !ok {
			return
		}
		l.log.Debug("command parsed", "command", cmd, "args", args)
		l.exec.Execute(ctx, msg, cmd, args)

	case KindUnknown:
		l.log.Warn("unknown content kind", "update_id", update.UpdateID)

	default:
		// Media and service kinds are acknowledged without processing.
	}
}

// replyOnce reports whether the keyed reply should be sent. Without redis
// every reply is sent; with it, replays inside the TTL are suppressed.
func (l *Loop) replyOnce(ctx context.Context, key string) bool {
	if l.rdb == nil {
		return true
	}
	exists, err := l.rdb.Exists(ctx, key).Result()
	if err != nil {
		l.log.Warn("reply dedup check failed", "key", key, "error", err)
		return true
	}
	if exists > 0 {
		return false
	}
	if err := l.rdb.Set(ctx, key, "true", greetDedupTTL).Err(); err != nil {
		l.log.Warn("reply dedup mark failed", "key", key, "error", err)
	}
	return true
}
