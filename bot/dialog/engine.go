// Package dialog implements the conversational engine: command handling,
// selection callbacks and the free-text flows, multiplexed over per-chat
// sessions. The engine talks to persistence and messaging through narrow
// interfaces so the whole state machine is testable without a transport.
package dialog

import (
	"context"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/Yulia-Kablukova/runenburg/bot/catalog"
	"github.com/Yulia-Kablukova/runenburg/bot/session"
	"github.com/Yulia-Kablukova/runenburg/bot/storage"
	"github.com/Yulia-Kablukova/runenburg/bot/texts"
	"github.com/Yulia-Kablukova/runenburg/core/logger"
	"log/slog"
)

// Store is the persistence collaborator, implemented by storage.Repository.
type Store interface {
	CreateUser(ctx context.Context, u storage.User) error
	ListUsers(ctx context.Context) ([]storage.User, error)
	CreateSubscription(ctx context.Context, chatID int64, sex, brand, size string) error
	ListSubscriptions(ctx context.Context) ([]storage.Subscription, error)
	ChatSubscriptions(ctx context.Context, chatID int64) ([]storage.Subscription, error)
	TargetChats(ctx context.Context, sex string, brands, sizes []string) ([]int64, error)
	DeleteSubscription(ctx context.Context, id int64) error
	DeleteChatSubscriptions(ctx context.Context, chatID int64) error
	SetSetting(ctx context.Context, key, value string) error
	GetSetting(ctx context.Context, key string) (string, bool, error)
}

// Sender is the messaging collaborator. Send replies to the acting chat
// synchronously; SendPost enqueues one broadcast delivery; Flush waits until
// every enqueued delivery has been attempted.
type Sender interface {
	Send(ctx context.Context, chatID int64, text string, markup *tele.ReplyMarkup) error
	SendPost(ctx context.Context, chatID int64, post session.Post, markup *tele.ReplyMarkup) error
	Flush()
}

// Config carries the role split and support contact details.
type Config struct {
	AdminID        int64
	SupportIDs     []int64
	SupportContact string
	ContactURL     string
}

// IsAdmin reports whether id is the primary admin.
func (c Config) IsAdmin(id int64) bool {
	return id != 0 && id == c.AdminID
}

// IsStaff reports whether id is the admin or one of the support accounts.
func (c Config) IsStaff(id int64) bool {
	if c.IsAdmin(id) {
		return true
	}
	for _, sid := range c.SupportIDs {
		if sid != 0 && sid == id {
			return true
		}
	}
	return false
}

// Engine is the conversation router.
type Engine struct {
	store    Store
	send     Sender
	sessions *session.Store
	cfg      Config
}

// New assembles an Engine over its collaborators.
func New(store Store, send Sender, sessions *session.Store, cfg Config) *Engine {
	return &Engine{store: store, send: send, sessions: sessions, cfg: cfg}
}

// Sessions exposes the session store for wiring and tests.
func (e *Engine) Sessions() *session.Store {
	return e.sessions
}

// InFlow reports whether the chat currently awaits free-form flow input.
func (e *Engine) InFlow(chatID int64) bool {
	return e.sessions.Flow(chatID) != session.FlowNone
}

func (e *Engine) reply(ctx context.Context, chatID int64, text string, markup *tele.ReplyMarkup) error {
	return e.send.Send(ctx, chatID, text, markup)
}

// fail logs a collaborator error and degrades to a generic user-facing reply.
func (e *Engine) fail(ctx context.Context, chatID int64, op string, err error) error {
	logger.Error(ctx, "bot.dialog", "dialog.store_error",
		slog.String("cause", op),
		slog.Int64("chat_id", chatID),
		slog.String("err", err.Error()),
	)
	return e.reply(ctx, chatID, texts.InternalError, nil)
}

// Start registers the user and shows the help text.
func (e *Engine) Start(ctx context.Context, chatID, userID int64, username, name string) error {
	if err := e.reply(ctx, chatID, texts.HelpText(e.cfg.SupportContact), nil); err != nil {
		return err
	}
	if err := e.store.CreateUser(ctx, storage.User{
		ID:       userID,
		ChatID:   chatID,
		Username: username,
		Name:     strings.TrimSpace(name),
	}); err != nil {
		logger.Error(ctx, "bot.dialog", "user.create_failed",
			slog.Int64("chat_id", chatID),
			slog.String("err", err.Error()),
		)
	}
	return nil
}

// Help shows the help text.
func (e *Engine) Help(ctx context.Context, chatID int64) error {
	return e.reply(ctx, chatID, texts.HelpText(e.cfg.SupportContact), nil)
}

// Admin shows the admin command reference.
func (e *Engine) Admin(ctx context.Context, chatID int64) error {
	return e.reply(ctx, chatID, texts.AdminHelp, nil)
}

// Subscribe opens the brand picker for regular users; the admin is refused.
func (e *Engine) Subscribe(ctx context.Context, chatID, userID int64) error {
	if e.cfg.IsAdmin(userID) {
		return e.reply(ctx, chatID, texts.AdminCannotSubscribe, nil)
	}
	return e.reply(ctx, chatID, texts.SubscribePrompt, catalog.BrandsKeyboard())
}

// Post opens the brand picker for broadcast targeting.
func (e *Engine) Post(ctx context.Context, chatID int64) error {
	return e.reply(ctx, chatID, texts.PostPrompt, catalog.BrandsKeyboard())
}

// Clear wipes the chat's session entirely.
func (e *Engine) Clear(ctx context.Context, chatID int64) error {
	s := e.sessions.Get(chatID)
	s.Lock()
	defer s.Unlock()
	s.Reset()
	return e.reply(ctx, chatID, texts.Cleared, nil)
}

// MySubscriptions lists the user's own subscription rows.
func (e *Engine) MySubscriptions(ctx context.Context, chatID, userID int64) error {
	if e.cfg.IsAdmin(userID) {
		return e.reply(ctx, chatID, texts.AdminOwnSubsHint, nil)
	}
	subs, err := e.store.ChatSubscriptions(ctx, chatID)
	if err != nil {
		return e.fail(ctx, chatID, "my_subscriptions", err)
	}
	if len(subs) == 0 {
		return e.reply(ctx, chatID, texts.NoOwnSubscriptions, nil)
	}
	lines := make([]string, 0, len(subs))
	for i, sub := range subs {
		lines = append(lines, texts.SubscriptionLine(i+1, sub.Brand, sub.Size, sub.Sex))
	}
	return e.reply(ctx, chatID, strings.Join(lines, "\n\n"), nil)
}

// Unsubscribe shows one button per live subscription row plus an
// unsubscribe-all button.
func (e *Engine) Unsubscribe(ctx context.Context, chatID, userID int64) error {
	if e.cfg.IsAdmin(userID) {
		return e.reply(ctx, chatID, texts.AdminCannotUnsub, nil)
	}
	subs, err := e.store.ChatSubscriptions(ctx, chatID)
	if err != nil {
		return e.fail(ctx, chatID, "unsubscribe", err)
	}
	labels := make([]string, 0, len(subs))
	for _, sub := range subs {
		labels = append(labels, sub.Brand+" "+sub.Size+" "+sub.Sex)
	}
	return e.reply(ctx, chatID, texts.UnsubscribePrompt, catalog.UnsubscribeKeyboard(labels))
}

// AllSubscriptions renders the staff report: rows grouped brand, sex, size
// with counts, one message per brand. Regular users are pointed to the
// personal listing instead.
func (e *Engine) AllSubscriptions(ctx context.Context, chatID, userID int64) error {
	if !e.cfg.IsStaff(userID) {
		return e.reply(ctx, chatID, texts.UserAllSubsHint, nil)
	}
	subs, err := e.store.ListSubscriptions(ctx)
	if err != nil {
		return e.fail(ctx, chatID, "subscriptions", err)
	}
	if len(subs) == 0 {
		return e.reply(ctx, chatID, texts.NoSubscriptions, nil)
	}

	type sexCounts map[string]int // size label -> count
	counts := make(map[string]map[string]sexCounts)
	for _, sub := range subs {
		bySex, ok := counts[sub.Brand]
		if !ok {
			bySex = make(map[string]sexCounts)
			counts[sub.Brand] = bySex
		}
		bySize, ok := bySex[sub.Sex]
		if !ok {
			bySize = make(sexCounts)
			bySex[sub.Sex] = bySize
		}
		bySize[sub.Size]++
	}

	// Catalog order keeps the report stable across runs.
	for _, brand := range catalog.Brands {
		bySex, ok := counts[brand.Label]
		if !ok {
			continue
		}
		var b strings.Builder
		for _, sex := range catalog.Sexes {
			bySize, ok := bySex[sex.Label]
			if !ok {
				continue
			}
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(brand.Label + " " + sexShort(sex.Label) + "\n")
			for _, size := range catalog.Sizes {
				if n := bySize[size.Label]; n > 0 {
					b.WriteString(size.Label + ": " + strconv.Itoa(n) + "\n")
				}
			}
		}
		if b.Len() == 0 {
			continue
		}
		if err := e.reply(ctx, chatID, strings.TrimRight(b.String(), "\n"), nil); err != nil {
			return err
		}
	}
	return nil
}

// Users lists registered users in numbered batches of 100 per message.
func (e *Engine) Users(ctx context.Context, chatID int64) error {
	users, err := e.store.ListUsers(ctx)
	if err != nil {
		return e.fail(ctx, chatID, "users", err)
	}
	lines := make([]string, 0, len(users))
	for i, u := range users {
		lines = append(lines, texts.UserLine(i+1, u.Name, u.Username))
	}
	const batch = 100
	for i := 0; i < len(lines); i += batch {
		end := i + batch
		if end > len(lines) {
			end = len(lines)
		}
		if err := e.reply(ctx, chatID, strings.Join(lines[i:end], "\n"), nil); err != nil {
			return err
		}
	}
	return nil
}

func sexShort(label string) string {
	r := []rune(label)
	if len(r) == 0 {
		return ""
	}
	return string(r[0])
}
