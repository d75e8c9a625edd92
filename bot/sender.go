package bot

import (
	"context"
	"errors"
	"strconv"
	"sync"

	tele "gopkg.in/telebot.v4"

	"github.com/Yulia-Kablukova/runenburg/bot/session"
	tgsender "github.com/Yulia-Kablukova/runenburg/core/telegram/sender"
)

var errSenderUnbound = errors.New("bot: sender is not bound to a running bot")

// telegramSender delivers engine replies over telebot. Direct replies go out
// synchronously; broadcast deliveries run through the outbound dispatcher so
// one slow or blocked recipient never stalls the sweep.
type telegramSender struct {
	mu   sync.RWMutex
	bot  *tele.Bot
	disp *tgsender.Dispatcher
}

func newTelegramSender(disp *tgsender.Dispatcher) *telegramSender {
	return &telegramSender{disp: disp}
}

// Bind attaches the live bot once the runtime has started.
func (s *telegramSender) Bind(bot *tele.Bot) {
	s.mu.Lock()
	s.bot = bot
	s.mu.Unlock()
}

func (s *telegramSender) client() *tele.Bot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bot
}

func (s *telegramSender) Send(ctx context.Context, chatID int64, text string, markup *tele.ReplyMarkup) error {
	bot := s.client()
	if bot == nil {
		return errSenderUnbound
	}
	var err error
	if markup != nil {
		_, err = bot.Send(tele.ChatID(chatID), text, markup)
	} else {
		_, err = bot.Send(tele.ChatID(chatID), text)
	}
	return err
}

func (s *telegramSender) SendPost(ctx context.Context, chatID int64, post session.Post, markup *tele.ReplyMarkup) error {
	bot := s.client()
	if bot == nil {
		return errSenderUnbound
	}
	recipient := tele.ChatID(chatID)
	return s.disp.Enqueue(ctx, "broadcast", strconv.FormatInt(chatID, 10), func() error {
		var what interface{}
		if post.PhotoID != "" {
			what = &tele.Photo{File: tele.File{FileID: post.PhotoID}, Caption: post.Caption}
		} else {
			what = post.Text
		}
		var err error
		if markup != nil {
			_, err = bot.Send(recipient, what, markup)
		} else {
			_, err = bot.Send(recipient, what)
		}
		return err
	})
}

// Flush blocks until every enqueued broadcast delivery has been attempted.
func (s *telegramSender) Flush() {
	s.disp.Drain()
}
