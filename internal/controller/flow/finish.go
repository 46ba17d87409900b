package flow

import (
	"context"
	"fmt"

	"github.com/dmkochetov/pizza_bot/internal/controller/state"
)

// Finish завершает цикл заказа. Для самовывоза отправляет адрес
// пиццерии и точку на карте; при явном закрытии без заказа -
// извинение. Удалённая корзина очищается всегда, сессионные данные
// заказа удаляются, следующий цикл начнётся с чистого листа.
func (h *Handlers) Finish(ctx context.Context, ev state.Event) (state.Tag, error) {
	if ev.Kind == state.KindCallback && ev.Payload == state.PayloadClose && ev.MessageID != 0 {
		err := h.messenger.EditMessageText(ctx, ev.ChatID, ev.MessageID,
			"Очень жаль, что не удалось Вам помочь", nil)
		if err != nil {
			return "", err
		}
	}

	cart, err := h.sessions.GetCart(ctx, ev.ChatID)
	if err != nil {
		return "", err
	}
	pizzeria, err := h.sessions.GetPizzeria(ctx, ev.ChatID)
	if err != nil {
		return "", err
	}

	if cart != nil && !cart.Delivery && pizzeria != nil && ev.Payload != state.PayloadClose {
		text := fmt.Sprintf(
			"Спасибо за выбор нашей пиццы!\n\n"+
				"Ближайшая к вам пиццерия находится по адресу:\n%s\n\n"+
				"С нетерпением ждём Вас!",
			pizzeria.Address)

		if err := h.messenger.SendMessage(ctx, ev.ChatID, text, nil); err != nil {
			return "", err
		}
		if err := h.messenger.SendLocation(ctx, ev.ChatID, pizzeria.Latitude, pizzeria.Longitude); err != nil {
			return "", err
		}
	}

	if err := h.commerce.ClearCart(ctx, ev.ChatID); err != nil {
		return "", err
	}
	if err := h.sessions.ClearOrderData(ctx, ev.ChatID); err != nil {
		return "", err
	}

	return state.Start, nil
}
