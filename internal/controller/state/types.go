package state

import "strings"

// Tag состояние диалога пользователя, хранится в сессионном хранилище
type Tag string

const (
	// Start точка входа: показ меню с пагинацией
	Start Tag = "START"
	// HandleMenu показ карточки выбранной пиццы
	HandleMenu Tag = "HANDLE_MENU"
	// HandleDescription добавление пиццы в корзину
	HandleDescription Tag = "HANDLE_DESCRIPTION"
	// HandleCart просмотр и редактирование корзины
	HandleCart Tag = "HANDLE_CART"
	// HandleWaiting запрос адреса доставки
	HandleWaiting Tag = "HANDLE_WAITING"
	// HandleLocation определение координат и ближайшей пиццерии
	HandleLocation Tag = "HANDLE_LOCATION"
	// HandleDelivery выбор: самовывоз или доставка
	HandleDelivery Tag = "HANDLE_DELIVERY"
	// HandlePayment выбор способа оплаты
	HandlePayment Tag = "HANDLE_PAYMENT"
	// HandleDeliveryman передача заказа курьеру
	HandleDeliveryman Tag = "HANDLE_DELIVERYMAN"
	// Finish завершение заказа и очистка корзины
	Finish Tag = "FINISH"
)

// Known проверяет что тег входит в фиксированный набор состояний
func Known(tag Tag) bool {
	switch tag {
	case Start, HandleMenu, HandleDescription, HandleCart, HandleWaiting,
		HandleLocation, HandleDelivery, HandlePayment, HandleDeliveryman, Finish:
		return true
	}
	return false
}

// Kind тип входящего события от Telegram
type Kind string

const (
	KindText     Kind = "text"
	KindCallback Kind = "callback"
	KindLocation Kind = "location"
)

// Event входящее событие, приведённое к общему виду.
// Payload - текст сообщения либо callback data.
type Event struct {
	ChatID     int64
	Kind       Kind
	Payload    string
	Latitude   float64
	Longitude  float64
	MessageID  int
	CallbackID string
}

// Команды и callback-токены, принудительно переключающие состояние
const (
	PayloadStart          = "/start"
	PayloadMenu           = "menu"
	PayloadCart           = "cart"
	PayloadDeliveryChoice = "delivery_choice"
	PayloadClose          = "close"
	PayloadPrev           = "prev"
	PayloadNext           = "next"
)

// Resolve выбирает состояние для обработки события.
// Правила перекрытия применяются до сохранённого состояния:
// команды меню и пагинация ведут в START, "cart" в корзину,
// "delivery_choice" в ожидание адреса, "close" в завершение.
// Если сохранённого состояния нет или оно не распознано - START.
func Resolve(payload string, stored Tag, ok bool) Tag {
	switch {
	case payload == PayloadStart || payload == PayloadMenu:
		return Start
	case strings.Contains(payload, PayloadPrev) || strings.Contains(payload, PayloadNext):
		return Start
	case payload == PayloadCart:
		return HandleCart
	case payload == PayloadDeliveryChoice:
		return HandleWaiting
	case payload == PayloadClose:
		return Finish
	}

	if !ok || !Known(stored) {
		return Start
	}
	return stored
}
