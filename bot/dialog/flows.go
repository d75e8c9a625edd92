package dialog

import (
	"context"
	"strconv"
	"strings"

	"log/slog"

	"github.com/Yulia-Kablukova/runenburg/bot/catalog"
	"github.com/Yulia-Kablukova/runenburg/bot/pricing"
	"github.com/Yulia-Kablukova/runenburg/bot/session"
	"github.com/Yulia-Kablukova/runenburg/bot/storage"
	"github.com/Yulia-Kablukova/runenburg/bot/texts"
	"github.com/Yulia-Kablukova/runenburg/core/logger"
)

// SetRate parks the chat waiting for a new euro rate.
func (e *Engine) SetRate(ctx context.Context, chatID int64) error {
	s := e.sessions.Get(chatID)
	s.Lock()
	defer s.Unlock()
	s.Reset()
	s.Flow = session.FlowAwaitRate
	return e.reply(ctx, chatID, texts.RatePrompt, nil)
}

// GetRate shows the stored euro rate.
func (e *Engine) GetRate(ctx context.Context, chatID int64) error {
	value, found, err := e.store.GetSetting(ctx, storage.SettingRate)
	if err != nil {
		return e.fail(ctx, chatID, "get_rate", err)
	}
	if !found {
		return e.reply(ctx, chatID, texts.SettingsMissing, nil)
	}
	return e.reply(ctx, chatID, texts.RateCurrent(value), nil)
}

// SetCommission parks the chat waiting for a new commission percentage.
func (e *Engine) SetCommission(ctx context.Context, chatID int64) error {
	s := e.sessions.Get(chatID)
	s.Lock()
	defer s.Unlock()
	s.Reset()
	s.Flow = session.FlowAwaitCommission
	return e.reply(ctx, chatID, texts.CommissionPrompt, nil)
}

// GetCommission shows the stored commission percentage.
func (e *Engine) GetCommission(ctx context.Context, chatID int64) error {
	value, found, err := e.store.GetSetting(ctx, storage.SettingCommission)
	if err != nil {
		return e.fail(ctx, chatID, "get_commission", err)
	}
	if !found {
		return e.reply(ctx, chatID, texts.SettingsMissing, nil)
	}
	return e.reply(ctx, chatID, texts.CommissionCurrent(value), nil)
}

// CalculatePrice starts the two-step price flow.
func (e *Engine) CalculatePrice(ctx context.Context, chatID int64) error {
	s := e.sessions.Get(chatID)
	s.Lock()
	defer s.Unlock()
	s.Reset()
	s.Flow = session.FlowAwaitPrice
	return e.reply(ctx, chatID, texts.CalculatePrompt, nil)
}

// FlowText feeds a free-text message into the active flow. A value that does
// not parse keeps the flow in place and asks for the number again.
func (e *Engine) FlowText(ctx context.Context, chatID int64, text string) error {
	s := e.sessions.Get(chatID)
	s.Lock()
	defer s.Unlock()
	switch s.Flow {
	case session.FlowAwaitRate:
		value, ok := parseNumber(text)
		if !ok {
			return e.reply(ctx, chatID, texts.NumberFormatErr, nil)
		}
		if err := e.store.SetSetting(ctx, storage.SettingRate, formatNumber(value)); err != nil {
			return e.fail(ctx, chatID, "set_rate", err)
		}
		s.Reset()
		return e.reply(ctx, chatID, texts.RateSaved, nil)

	case session.FlowAwaitCommission:
		value, ok := parseNumber(text)
		if !ok {
			return e.reply(ctx, chatID, texts.NumberFormatErr, nil)
		}
		if err := e.store.SetSetting(ctx, storage.SettingCommission, formatNumber(value)); err != nil {
			return e.fail(ctx, chatID, "set_commission", err)
		}
		s.Reset()
		return e.reply(ctx, chatID, texts.CommissionSaved, nil)

	case session.FlowAwaitPrice:
		value, ok := parseNumber(text)
		if !ok {
			return e.reply(ctx, chatID, texts.NumberFormatErr, nil)
		}
		s.Price = value
		s.Flow = session.FlowAwaitDelivery
		return e.reply(ctx, chatID, texts.DeliveryPrompt, nil)

	case session.FlowAwaitDelivery:
		delivery, ok := parseNumber(text)
		if !ok {
			return e.reply(ctx, chatID, texts.NumberFormatErr, nil)
		}
		return e.finishCalculation(ctx, chatID, s, delivery)
	}
	return nil
}

// finishCalculation reads the stored rate and commission and renders the
// final rounded price. Missing settings abort the flow with a setup hint.
func (e *Engine) finishCalculation(ctx context.Context, chatID int64, s *session.Session, delivery float64) error {
	rateRaw, foundRate, err := e.store.GetSetting(ctx, storage.SettingRate)
	if err != nil {
		return e.fail(ctx, chatID, "calculate", err)
	}
	commissionRaw, foundCommission, err := e.store.GetSetting(ctx, storage.SettingCommission)
	if err != nil {
		return e.fail(ctx, chatID, "calculate", err)
	}
	rate, okRate := parseNumber(rateRaw)
	commission, okCommission := parseNumber(commissionRaw)
	if !foundRate || !foundCommission || !okRate || !okCommission {
		s.Reset()
		return e.reply(ctx, chatID, texts.SettingsMissing, nil)
	}

	result := pricing.Convert(s.Price, delivery, rate, commission)
	logger.Info(ctx, "bot.dialog", "calculator.result",
		slog.Int64("chat_id", chatID),
		slog.Int64("result", result),
	)
	s.Reset()
	return e.reply(ctx, chatID, texts.FinalPrice(result), nil)
}

// FallbackText handles text that belongs to no flow and no command. For the
// admin it is the broadcast message capture step; for everyone else the
// conversation thread is lost.
func (e *Engine) FallbackText(ctx context.Context, chatID, userID int64, text string) error {
	if e.cfg.IsAdmin(userID) {
		s := e.sessions.Get(chatID)
		s.Lock()
		defer s.Unlock()
		if s.SelectionComplete() {
			s.Post = &session.Post{Text: text}
			return e.reply(ctx, chatID, texts.PostReady, catalog.PostKeyboard())
		}
		return e.reply(ctx, chatID, texts.PostHint, nil)
	}
	return e.reply(ctx, chatID, texts.LostContext, nil)
}

// FallbackPhoto mirrors FallbackText for photo messages: the admin's
// broadcast payload may be a photo with a caption.
func (e *Engine) FallbackPhoto(ctx context.Context, chatID, userID int64, fileID, caption string) error {
	if e.cfg.IsAdmin(userID) {
		s := e.sessions.Get(chatID)
		s.Lock()
		defer s.Unlock()
		if s.SelectionComplete() {
			s.Post = &session.Post{PhotoID: fileID, Caption: caption}
			return e.reply(ctx, chatID, texts.PostReady, catalog.PostKeyboard())
		}
		return e.reply(ctx, chatID, texts.PostHint, nil)
	}
	return e.reply(ctx, chatID, texts.LostContext, nil)
}

// parseNumber accepts a positive decimal with either separator ("129,95").
func parseNumber(raw string) (float64, bool) {
	normalized := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil || value <= 0 {
		return 0, false
	}
	return value, true
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
