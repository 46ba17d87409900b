package flow

import (
	"context"
	"fmt"

	"github.com/dmkochetov/pizza_bot/internal/controller/state"
)

// Deliveryman подтверждает заказ клиенту, передаёт заказ и локацию
// курьеру и планирует отложенное уведомление. Состояние не меняется:
// повторное событие до срабатывания таймера обработается так же.
func (h *Handlers) Deliveryman(ctx context.Context, ev state.Event) (state.Tag, error) {
	cart, err := h.sessions.GetCart(ctx, ev.ChatID)
	if err != nil {
		return "", err
	}
	pizzeria, err := h.sessions.GetPizzeria(ctx, ev.ChatID)
	if err != nil {
		return "", err
	}
	if cart == nil || pizzeria == nil {
		return "", fmt.Errorf("order data missing for chat %d", ev.ChatID)
	}

	text := "Спасибо за выбор нашей пиццы!\nКурьер доставит пиццу в течение часа."

	if ev.Kind == state.KindCallback && ev.MessageID != 0 {
		err = h.messenger.EditMessageText(ctx, ev.ChatID, ev.MessageID, text, nil)
	} else {
		err = h.messenger.SendMessage(ctx, ev.ChatID, text, nil)
	}
	if err != nil {
		return "", err
	}

	if err := h.messenger.SendMessage(ctx, pizzeria.CourierID, cart.DeliveryMessage, nil); err != nil {
		return "", err
	}
	if err := h.messenger.SendLocation(ctx, pizzeria.CourierID, pizzeria.CustomerLat, pizzeria.CustomerLon); err != nil {
		return "", err
	}

	h.notifier.ScheduleOnce(ev.ChatID)

	return state.HandleDeliveryman, nil
}
