package bot

import (
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/Yulia-Kablukova/runenburg/core/telegram/callbacks"
	tghelpers "github.com/Yulia-Kablukova/runenburg/core/telegram/helpers"
)

func ids(c tele.Context) (chatID, userID int64) {
	if chat := c.Chat(); chat != nil {
		chatID = chat.ID
	}
	if sender := c.Sender(); sender != nil {
		userID = sender.ID
	}
	return chatID, userID
}

// Conversation plumbing for the text router: the engine owns the flow state,
// these adapters only translate telebot updates into engine calls.

func (a *App) Active(chatID int64) bool {
	return a.engine.InFlow(chatID)
}

func (a *App) HandleText(c tele.Context) error {
	chatID, _ := ids(c)
	return a.engine.FlowText(tghelpers.BuildContext(c), chatID, c.Text())
}

// HandlePhoto feeds a photo into an active flow. Flows only ever await
// numbers, so the engine treats it as an unparseable value and re-prompts.
func (a *App) HandlePhoto(c tele.Context) error {
	chatID, _ := ids(c)
	return a.engine.FlowText(tghelpers.BuildContext(c), chatID, "")
}

func (a *App) fallbackText(c tele.Context) error {
	chatID, userID := ids(c)
	return a.engine.FallbackText(tghelpers.BuildContext(c), chatID, userID, c.Text())
}

func (a *App) fallbackPhoto(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Photo == nil {
		return nil
	}
	chatID, userID := ids(c)
	return a.engine.FallbackPhoto(tghelpers.BuildContext(c), chatID, userID, msg.Photo.FileID, msg.Caption)
}

// Commands.

func (a *App) handleStart(c tele.Context) error {
	chatID, userID := ids(c)
	var username, name string
	if sender := c.Sender(); sender != nil {
		username = sender.Username
		name = strings.TrimSpace(sender.FirstName + " " + sender.LastName)
	}
	return a.engine.Start(tghelpers.BuildContext(c), chatID, userID, username, name)
}

func (a *App) handleHelp(c tele.Context) error {
	chatID, _ := ids(c)
	return a.engine.Help(tghelpers.BuildContext(c), chatID)
}

func (a *App) handleAdmin(c tele.Context) error {
	chatID, _ := ids(c)
	return a.engine.Admin(tghelpers.BuildContext(c), chatID)
}

func (a *App) handleSubscribe(c tele.Context) error {
	chatID, userID := ids(c)
	return a.engine.Subscribe(tghelpers.BuildContext(c), chatID, userID)
}

func (a *App) handleMySubscriptions(c tele.Context) error {
	chatID, userID := ids(c)
	return a.engine.MySubscriptions(tghelpers.BuildContext(c), chatID, userID)
}

func (a *App) handleUnsubscribe(c tele.Context) error {
	chatID, userID := ids(c)
	return a.engine.Unsubscribe(tghelpers.BuildContext(c), chatID, userID)
}

func (a *App) handleAllSubscriptions(c tele.Context) error {
	chatID, userID := ids(c)
	return a.engine.AllSubscriptions(tghelpers.BuildContext(c), chatID, userID)
}

func (a *App) handleUsers(c tele.Context) error {
	chatID, _ := ids(c)
	return a.engine.Users(tghelpers.BuildContext(c), chatID)
}

func (a *App) handlePost(c tele.Context) error {
	chatID, _ := ids(c)
	return a.engine.Post(tghelpers.BuildContext(c), chatID)
}

func (a *App) handleClear(c tele.Context) error {
	chatID, _ := ids(c)
	return a.engine.Clear(tghelpers.BuildContext(c), chatID)
}

func (a *App) handleCalculatePrice(c tele.Context) error {
	chatID, _ := ids(c)
	return a.engine.CalculatePrice(tghelpers.BuildContext(c), chatID)
}

func (a *App) handleSetRate(c tele.Context) error {
	chatID, _ := ids(c)
	return a.engine.SetRate(tghelpers.BuildContext(c), chatID)
}

func (a *App) handleGetRate(c tele.Context) error {
	chatID, _ := ids(c)
	return a.engine.GetRate(tghelpers.BuildContext(c), chatID)
}

func (a *App) handleSetCommission(c tele.Context) error {
	chatID, _ := ids(c)
	return a.engine.SetCommission(tghelpers.BuildContext(c), chatID)
}

func (a *App) handleGetCommission(c tele.Context) error {
	chatID, _ := ids(c)
	return a.engine.GetCommission(tghelpers.BuildContext(c), chatID)
}

// Callbacks.

func (a *App) callbackBrand(c tele.Context) error {
	chatID, _ := ids(c)
	return a.engine.SelectBrand(tghelpers.BuildContext(c), chatID, callbacks.CallbackPayload(c))
}

func (a *App) callbackSex(c tele.Context) error {
	chatID, _ := ids(c)
	return a.engine.SelectSex(tghelpers.BuildContext(c), chatID, callbacks.CallbackPayload(c))
}

func (a *App) callbackSize(c tele.Context) error {
	chatID, _ := ids(c)
	return a.engine.SelectSize(tghelpers.BuildContext(c), chatID, callbacks.CallbackPayload(c))
}

func (a *App) callbackConfirm(c tele.Context) error {
	chatID, userID := ids(c)
	return a.engine.Confirm(tghelpers.BuildContext(c), chatID, userID)
}

func (a *App) callbackPostClear(c tele.Context) error {
	chatID, _ := ids(c)
	return a.engine.PostClear(tghelpers.BuildContext(c), chatID)
}

func (a *App) callbackPostSend(c tele.Context) error {
	chatID, _ := ids(c)
	return a.engine.PostSend(tghelpers.BuildContext(c), chatID)
}

func (a *App) callbackUnsub(c tele.Context) error {
	chatID, _ := ids(c)
	index, err := callbacks.PayloadInt(c)
	if err != nil {
		return nil
	}
	return a.engine.UnsubscribeAt(tghelpers.BuildContext(c), chatID, index)
}

func (a *App) callbackUnsubAll(c tele.Context) error {
	chatID, _ := ids(c)
	return a.engine.UnsubscribeAll(tghelpers.BuildContext(c), chatID)
}
