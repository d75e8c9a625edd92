package dialog

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/Yulia-Kablukova/runenburg/bot/catalog"
	"github.com/Yulia-Kablukova/runenburg/bot/texts"
	"github.com/Yulia-Kablukova/runenburg/core/logger"
	"log/slog"
)

// SelectBrand records a brand pick and echoes the running selection.
func (e *Engine) SelectBrand(ctx context.Context, chatID int64, key string) error {
	brand, ok := catalog.BrandByKey(key)
	if !ok {
		return nil
	}
	s := e.sessions.Get(chatID)
	s.Lock()
	defer s.Unlock()
	s.AddBrand(brand.Label)
	return e.reply(ctx, chatID, texts.BrandsPicked(s.Brands), catalog.ConfirmKeyboard())
}

// SelectSex records the sex pick and moves on to sizes.
func (e *Engine) SelectSex(ctx context.Context, chatID int64, key string) error {
	sex, ok := catalog.SexByKey(key)
	if !ok {
		return nil
	}
	s := e.sessions.Get(chatID)
	s.Lock()
	defer s.Unlock()
	s.Sex = sex.Label
	return e.reply(ctx, chatID, texts.ChooseSize, catalog.SizesKeyboard())
}

// SelectSize records a size pick and echoes the running selection.
func (e *Engine) SelectSize(ctx context.Context, chatID int64, key string) error {
	size, ok := catalog.SizeByKey(key)
	if !ok {
		return nil
	}
	s := e.sessions.Get(chatID)
	s.Lock()
	defer s.Unlock()
	s.AddSize(size.Label)
	return e.reply(ctx, chatID, texts.SizesPicked(s.Sizes), catalog.ConfirmKeyboard())
}

// Confirm advances the selection machine. Depending on what has been
// collected it either finalizes (subscription rows for users, targeting
// summary for the admin), or prompts for the next missing dimension.
func (e *Engine) Confirm(ctx context.Context, chatID, userID int64) error {
	s := e.sessions.Get(chatID)
	s.Lock()
	defer s.Unlock()
	switch {
	case len(s.Sizes) > 0:
		if e.cfg.IsAdmin(userID) {
			return e.reply(ctx, chatID, texts.PostSummary(s.Brands, s.Sizes, s.Sex), nil)
		}
		for _, brand := range s.Brands {
			for _, size := range s.Sizes {
				if err := e.store.CreateSubscription(ctx, chatID, s.Sex, brand, size); err != nil {
					return e.fail(ctx, chatID, "confirm", err)
				}
			}
		}
		count := len(s.Brands) * len(s.Sizes)
		s.Reset()
		logger.Info(ctx, "bot.dialog", "subscription.created",
			slog.Int64("chat_id", chatID),
			slog.Int("count", count),
		)
		return e.reply(ctx, chatID, texts.Subscribed, nil)
	case s.Sex != "":
		return e.reply(ctx, chatID, texts.ChooseSize, catalog.SizesKeyboard())
	case len(s.Brands) > 0:
		return e.reply(ctx, chatID, texts.ChooseSex, catalog.SexKeyboard())
	default:
		return nil
	}
}

// PostClear drops the captured broadcast payload, keeping the targeting.
func (e *Engine) PostClear(ctx context.Context, chatID int64) error {
	s := e.sessions.Get(chatID)
	s.Lock()
	defer s.Unlock()
	s.Post = nil
	return e.reply(ctx, chatID, texts.PostRetype, nil)
}

// PostSend runs the broadcast sweep: resolve targets, enqueue one delivery
// per chat, wait for the fan-out, then confirm once and reset the session.
// A failed delivery never aborts the rest of the sweep.
func (e *Engine) PostSend(ctx context.Context, chatID int64) error {
	s := e.sessions.Get(chatID)
	s.Lock()
	defer s.Unlock()
	if s.Post == nil {
		return e.reply(ctx, chatID, texts.PostMissing, nil)
	}

	targets, err := e.store.TargetChats(ctx, s.Sex, s.Brands, s.Sizes)
	if err != nil {
		return e.fail(ctx, chatID, "post_send", err)
	}

	post := *s.Post
	markup := catalog.ContactKeyboard(e.cfg.ContactURL)

	var errs *multierror.Error
	failed := 0
	for _, target := range targets {
		if err := e.send.SendPost(ctx, target, post, markup); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("chat %d: %w", target, err))
			failed++
		}
	}
	e.send.Flush()

	logger.Info(ctx, "bot.dialog", "broadcast.sweep",
		slog.Int64("chat_id", chatID),
		slog.Int("targets", len(targets)),
		slog.Int("failed", failed),
	)
	if err := errs.ErrorOrNil(); err != nil {
		logger.Warn(ctx, "bot.dialog", "broadcast.enqueue_failed",
			slog.Int("failed", failed),
			slog.String("err", logger.SanitizeLimit(err.Error(), 512)),
		)
	}

	s.Reset()
	return e.reply(ctx, chatID, texts.PostSent, nil)
}

// UnsubscribeAt removes the row at the given position of the chat's ordered
// subscription list. The list is re-fetched so a stale button can't delete
// someone else's row; an index past the end means the row is already gone.
func (e *Engine) UnsubscribeAt(ctx context.Context, chatID int64, index int) error {
	subs, err := e.store.ChatSubscriptions(ctx, chatID)
	if err != nil {
		return e.fail(ctx, chatID, "unsubscribe_at", err)
	}
	if index < 0 || index >= len(subs) {
		return e.reply(ctx, chatID, texts.UnsubscribeGone, nil)
	}
	if err := e.store.DeleteSubscription(ctx, subs[index].ID); err != nil {
		return e.fail(ctx, chatID, "unsubscribe_at", err)
	}
	return e.reply(ctx, chatID, texts.UnsubscribedOne, nil)
}

// UnsubscribeAll removes every subscription row of the chat.
func (e *Engine) UnsubscribeAll(ctx context.Context, chatID int64) error {
	if err := e.store.DeleteChatSubscriptions(ctx, chatID); err != nil {
		return e.fail(ctx, chatID, "unsubscribe_all", err)
	}
	return e.reply(ctx, chatID, texts.UnsubscribedAll, nil)
}
