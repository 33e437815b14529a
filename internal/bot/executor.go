package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/mymmrac/telego"

	"styx-bot/internal/settings"
	"styx-bot/internal/store"
)

const invitePrefix = "Invite_"

// Sender is the outbound half of the update source. Sends are best effort;
// the executor never reads delivery results.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string)
	BotUsername(ctx context.Context) (string, error)
}

// Executor runs textual commands against the store. It holds no entity state
// between commands; every read is a fresh query.
type Executor struct {
	store    *store.Store
	sender   Sender
	settings *settings.Settings
	log      *slog.Logger

	// superAdminID is the single configured privileged identity, checked by
	// equality before the extensible admin allow-list.
	superAdminID int64

	mu          sync.Mutex
	inviteBonus int64
}

func NewExecutor(st *store.Store, sender Sender, cfg *settings.Settings, superAdminID int64, log *slog.Logger) *Executor {
	bonus := int64(settings.DefaultInvitationScore)
	if v, ok := cfg.Int64(settings.KeyInvitationScore); ok && v >= 0 {
		bonus = v
	}
	return &Executor{
		store:        st,
		sender:       sender,
		settings:     cfg,
		log:          log,
		superAdminID: superAdminID,
		inviteBonus:  bonus,
	}
}

func (e *Executor) bonus() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inviteBonus
}

func (e *Executor) isPrivileged(userID int64) bool {
	return userID == e.superAdminID || e.store.IsAdmin(userID)
}

// Execute dispatches one parsed command. Unrecognized commands are dropped
// without a reply.
func (e *Executor) Execute(ctx context.Context, msg *telego.Message, cmd, args string) {
	from := msg.From.ID

	switch {
	case cmd == "/start" && strings.HasPrefix(args, invitePrefix):
		e.handleInvited(ctx, msg, args)

	case cmd == "/start" && args == "":
		e.sender.SendMessage(ctx, from, "欢迎使用冥河机器人")

	case cmd == "/invite" && args == "":
		username, err := e.sender.BotUsername(ctx)
		if err != nil {
			e.log.Error("failed to resolve bot identity", "error", err)
			return
		}
		link := fmt.Sprintf("https://t.me/%s?start=%s%d", username, invitePrefix, from)
		e.sender.SendMessage(ctx, from,
			fmt.Sprintf("专属邀请链接:\n%s\n邀请新人即可获得 %d 冥币", link, e.bonus()))

	case cmd == "/GroupOrChannel" && args == "":
		e.handleRegisterGroup(ctx, msg)

	case cmd == "/signin" && args == "":
		e.handleSignIn(ctx, from)

	case cmd == "/balance" && args == "":
		e.handleBalance(ctx, from)

	case cmd == "/ModifyInvitationScore" && args != "":
		e.handleModifyBonus(ctx, from, args)
	}
}

// handleInvited processes "/start Invite_<id>": the sender becomes an
// invitee exactly once, never of themselves, and the inviter is credited.
func (e *Executor) handleInvited(ctx context.Context, msg *telego.Message, args string) {
	from := msg.From.ID
	chat := msg.Chat.ID

	inviterID, err := strconv.ParseInt(strings.TrimPrefix(args, invitePrefix), 10, 64)
	if err != nil {
		e.log.Warn("malformed invite payload", "telegram_id", from, "args", args)
		return
	}
	if inviterID == from {
		e.sender.SendMessage(ctx, chat, "禁止邀请自己")
		return
	}
	if e.store.GetInviter(from) != 0 {
		e.sender.SendMessage(ctx, from, "你已经被其他用户邀请过了")
		return
	}

	e.store.AddUser(from, displayName(msg.From), msg.From.Username)
	if !e.store.SetInviter(from, inviterID) {
		// Lost a race with another invite; the first assignment stands.
		e.sender.SendMessage(ctx, from, "你已经被其他用户邀请过了")
		return
	}
	bonus := e.bonus()
	e.store.CreditBalance(inviterID, bonus)
	e.sender.SendMessage(ctx, inviterID,
		fmt.Sprintf("成功邀请一名新用户, 奖励 +%d 冥币", bonus))
}

func (e *Executor) handleRegisterGroup(ctx context.Context, msg *telego.Message) {
	from := msg.From.ID
	chat := msg.Chat.ID
	mention := "@" + msg.From.Username

	if !e.isPrivileged(from) {
		e.sender.SendMessage(ctx, chat, mention+" 你无权使用此功能!!!")
		return
	}
	if e.store.AddGroup(chat) {
		e.sender.SendMessage(ctx, chat, mention+" 已成功将本群添加到数据库中")
	} else {
		e.sender.SendMessage(ctx, chat, mention+" 添加失败请检查数据库语句")
	}
}

func (e *Executor) handleSignIn(ctx context.Context, from int64) {
	err := e.store.SignIn(from)
	switch {
	case err == nil:
		e.sender.SendMessage(ctx, from, "签到成功")
	case errors.Is(err, store.ErrAlreadySignedIn):
		e.sender.SendMessage(ctx, from, "今日已签到, 明天再来吧")
	default:
		e.sender.SendMessage(ctx, from, "签到失败, 请稍后再试")
	}
}

func (e *Executor) handleBalance(ctx context.Context, from int64) {
	balance := e.store.Balance(from)
	if balance < 0 {
		balance = 0
	}
	invited := e.store.CountInvitees(from)
	e.sender.SendMessage(ctx, from,
		fmt.Sprintf("冥币余额: %d\n已邀请用户: %d", balance, invited))
}

func (e *Executor) handleModifyBonus(ctx context.Context, from int64, args string) {
	if !e.isPrivileged(from) {
		e.sender.SendMessage(ctx, from, "你无权使用此功能!!!")
		return
	}
	score, err := strconv.ParseInt(args, 10, 64)
	if err != nil || score < 0 {
		e.sender.SendMessage(ctx, from, "邀请奖励修改失败\n请检查指令是否错误或代码是否有误")
		return
	}
	if err := e.settings.SetInt64(settings.KeyInvitationScore, score); err != nil {
		e.log.Error("failed to persist invitation score", "error", err)
		e.sender.SendMessage(ctx, from, "邀请奖励修改失败\n请检查指令是否错误或代码是否有误")
		return
	}
	e.mu.Lock()
	e.inviteBonus = score
	e.mu.Unlock()
	e.sender.SendMessage(ctx, from, fmt.Sprintf("邀请奖励修改成功\n邀请奖励为:%d", score))
}

// displayName joins first and last name the way the platform shows them.
func displayName(u *telego.User) string {
	name := u.FirstName
	if name != "" && u.LastName != "" {
		name += u.LastName
	}
	return name
}
