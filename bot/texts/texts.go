// Package texts collects every user-facing reply string in one place.
package texts

import (
	"fmt"
	"strings"
)

const Help = "Бот с лучшими предложениями на беговые кроссовки 👟\n\n" +
	"Доступные команды:\n" +
	"/calculate_price - рассчитать цену с сайта Tradeinn\n" +
	"/subscribe - добавить подписку\n" +
	"/my_subscriptions - показать текущие подписки\n" +
	"/unsubscribe - отписаться от рассылки\n\n" +
	"Что-то не получается? Обратись в тех. поддержку, разберемся: %s"

const AdminHelp = "Доступные команды администратора:\n" +
	"/post - создать рассылку\n" +
	"/clear - очистить данные при создании рассылки\n" +
	"/subscriptions - список всех подписок\n" +
	"/users - список всех пользователей\n" +
	"/set_rate - установить курс евро\n" +
	"/get_rate - посмотреть текущий курс\n" +
	"/set_commission - установить процент комиссии\n" +
	"/get_commission - посмотреть текущую комиссию"

const (
	SubscribePrompt = "Чтобы подписаться на рассылку, нужно указать бренд кроссовок, пол и размер.\n\n" +
		"Выберите один или несколько брендов и нажмите кноку Подтвердить:"
	PostPrompt = "Чтобы отправить рассылку, нужно указать бренд кроссовок, пол и размер.\n\n" +
		"Выберите один или несколько брендов и нажмите кноку Подтвердить:"

	AdminCannotSubscribe = "Вы администратор. Подписаться на рассылку может только обычный пользователь 👀"
	AdminCannotUnsub     = "Вы администратор. Отписаться от рассылки может только обычный пользователь 👀"
	AdminOwnSubsHint     = "Для просмотра текущих подписок используйте команду /subscriptions"
	UserAllSubsHint      = "Для просмотра текущих подписок отправьте команду /my_subscriptions"
	AccessDenied         = "Недостаточно прав. Какие у вас документы?"

	ChooseSex  = "Отлично! Выберите пол:"
	ChooseSize = "Осталось определиться с размером. Нужно указать длину стопы в сантиметрах. Можно выбрать несколько значений:"

	Subscribed = "Подписка успешно оформлена!"

	NoOwnSubscriptions = "У вас нет текущих подписок.\n\nЧтобы подписаться на рассылку отправьте команду /subscribe"
	NoSubscriptions    = "Нет текущих подписок."
	UnsubscribePrompt  = "Выберите рассылку, от которой хотите отписаться:"
	UnsubscribedOne    = "Вы успешно отписались от рассылки"
	UnsubscribedAll    = "Вы успешно отписались от всех рассылок"
	UnsubscribeGone    = "Эта подписка уже удалена. Отправьте /unsubscribe, чтобы обновить список."

	AwaitPostMessage = "Введите сообщение для рассылки или отправьте команду /clear для очистки данных."
	PostReady        = "Сообщение готово к публикации. Выберите действие:"
	PostRetype       = "Введите сообщение заново."
	PostMissing      = "Отсутствует сообщение для отправки."
	PostSent         = "Рассылка успешно отправлена ❤️"
	PostHint         = "Для отправки рассылки воспользуйтесь командой /post"
	Cleared          = "Начнем сначала?\n\nДля отправки рассылки воспользуйтесь командой /post"

	LostContext = "Кажется, мы потеряли нить диалога 💔\n\n" +
		"Воспользуйтесь командой /help или обратитесь в тех. поддержку (контакт в описании профиля)."

	CalculatePrompt = "На сайте https://www.tradeinn.com/runnerinn/ru выберите страну Армения и найдите товар. " +
		"Отправьте его цену без доставки."
	DeliveryPrompt  = "Теперь отправьте стоимость доставки."
	NumberFormatErr = "Не удалось разобрать число. Отправьте значение цифрами, например: 129.95"

	InternalError = "Что-то пошло не так. Попробуйте еще раз чуть позже."

	RatePrompt       = "Укажите актуальный курс евро."
	RateSaved        = "Курс евро сохранен."
	CommissionPrompt = "Укажите новую комиссию."
	CommissionSaved  = "Комиссия сохранена."
	SettingsMissing  = "Курс или комиссия еще не настроены. Используйте команды /set_rate и /set_commission."
)

// HelpText substitutes the support contact into the shared help message.
func HelpText(supportContact string) string {
	return fmt.Sprintf(Help, supportContact)
}

// BrandsPicked echoes the running brand selection after each press.
func BrandsPicked(brands []string) string {
	return fmt.Sprintf("Вы выбрали следующие бренды: %s. Выберите еще один бренд или нажмите кнопку Подтвердить.",
		strings.Join(brands, ", "))
}

// SizesPicked echoes the running size selection after each press.
func SizesPicked(sizes []string) string {
	return fmt.Sprintf("Вы выбрали следующие размеры: %s. Выберите еще один размер или нажмите кнопку Подтвердить.",
		strings.Join(sizes, "; "))
}

// PostSummary shows the admin the collected targeting criteria.
func PostSummary(brands []string, sizes []string, sex string) string {
	return fmt.Sprintf("Данные успешно собраны.\n\nБренд: %s\nРазмер: %s\nПол: %s\n\n%s",
		strings.Join(brands, "; "), strings.Join(sizes, "; "), sex, AwaitPostMessage)
}

// SubscriptionLine renders one numbered "n) brand size sex" row.
func SubscriptionLine(n int, brand, size, sex string) string {
	return fmt.Sprintf("%d) %s %s %s", n, brand, size, sex)
}

// RateCurrent renders the stored euro rate with the change hint.
func RateCurrent(value string) string {
	return fmt.Sprintf("Курс евро: %s. Для смены курса отправьте команду /set_rate", value)
}

// CommissionCurrent renders the stored commission with the change hint.
func CommissionCurrent(value string) string {
	return fmt.Sprintf("Текущая комиссия: %s%%. Для изменения отправьте команду /set_commission", value)
}

// FinalPrice renders the calculator result.
func FinalPrice(value int64) string {
	return fmt.Sprintf("Итоговая цена: %d ₽", value)
}

// UserLine renders one numbered "n) name (@username)" row.
func UserLine(n int, name, username string) string {
	return fmt.Sprintf("%d) %s (@%s)", n, name, username)
}
