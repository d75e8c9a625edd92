package catalog

import (
	"strconv"

	"github.com/Yulia-Kablukova/runenburg/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// Callback keys shared between the keyboards and the callback registry.
const (
	CallbackBrand     = "brand"
	CallbackSex       = "sex"
	CallbackSize      = "size"
	CallbackConfirm   = "confirm"
	CallbackPostClear = "post_clear"
	CallbackPostSend  = "post_send"
	CallbackUnsub     = "unsub"
	CallbackUnsubAll  = "unsub_all"
)

func toButtons(items []Item, unique string) []keyboard.InlineBtn {
	btns := make([]keyboard.InlineBtn, 0, len(items))
	for _, it := range items {
		btns = append(btns, keyboard.InlineBtn{Text: it.Label, Unique: unique, Data: it.Key})
	}
	return btns
}

// BrandsKeyboard lays brands out two per row.
func BrandsKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsNPerRow(toButtons(Brands, CallbackBrand), 2)
}

// SexKeyboard stacks the sex options one per row.
func SexKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtons(toButtons(Sexes, CallbackSex))
}

// SizesKeyboard lays sizes out three per row.
func SizesKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsNPerRow(toButtons(Sizes, CallbackSize), 3)
}

// ConfirmKeyboard holds the single confirmation button shown after each pick.
func ConfirmKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "Подтвердить", Unique: CallbackConfirm},
	})
}

// PostKeyboard offers the broadcast composer the change/send choice.
func PostKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "Изменить сообщение", Unique: CallbackPostClear}},
		[]keyboard.InlineBtn{{Text: "Отправить рассылку", Unique: CallbackPostSend}},
	)
}

// ContactKeyboard attaches a contact-support URL button to broadcast deliveries.
func ContactKeyboard(url string) *tele.ReplyMarkup {
	if url == "" {
		return nil
	}
	markup := &tele.ReplyMarkup{}
	markup.InlineKeyboard = [][]tele.InlineButton{
		{*markup.URL("Связаться с нами", url).Inline()},
	}
	return markup
}

// UnsubscribeKeyboard builds one button per active subscription plus a final
// unsubscribe-all row. Button payloads carry the row index within the chat's
// ordered subscription list.
func UnsubscribeKeyboard(labels []string) *tele.ReplyMarkup {
	rows := make([][]keyboard.InlineBtn, 0, len(labels)+1)
	for i, label := range labels {
		rows = append(rows, []keyboard.InlineBtn{
			{Text: label, Unique: CallbackUnsub, Data: strconv.Itoa(i)},
		})
	}
	rows = append(rows, []keyboard.InlineBtn{
		{Text: "Отписаться от всех", Unique: CallbackUnsubAll},
	})
	return keyboard.InlineButtonsRows(rows...)
}
