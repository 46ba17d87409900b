package flow

import (
	"context"
	"fmt"

	"github.com/dmkochetov/pizza_bot/internal/controller/keyboard"
	"github.com/dmkochetov/pizza_bot/internal/controller/state"
)

// Delivery фиксирует выбор самовывоза или доставки и показывает
// итоговую сумму со способами оплаты. Корзина и пиццерия
// перечитываются из хранилища: параллельный дубликат события мог
// изменить их после предыдущего шага.
func (h *Handlers) Delivery(ctx context.Context, ev state.Event) (state.Tag, error) {
	if ev.Payload != keyboard.CallbackPickup && ev.Payload != keyboard.CallbackDelivery {
		err := h.messenger.SendMessage(ctx, ev.ChatID,
			"Пожалуйста, выберите самовывоз или доставку кнопкой.", nil)
		if err != nil {
			return "", err
		}
		return state.HandleDelivery, nil
	}

	pizzeria, err := h.sessions.GetPizzeria(ctx, ev.ChatID)
	if err != nil {
		return "", err
	}
	if pizzeria == nil {
		return "", fmt.Errorf("pizzeria not assigned for chat %d", ev.ChatID)
	}

	lines, total, err := h.commerce.CartSummary(ctx, ev.ChatID)
	if err != nil {
		return "", err
	}

	cart, err := h.loadSessionCart(ctx, ev.ChatID)
	if err != nil {
		return "", err
	}
	cart.Lines = lines

	var text string
	if ev.Payload == keyboard.CallbackDelivery {
		cart.Delivery = true
		cart.TotalAmount = total + cart.DeliveryFee
		cart.DeliveryMessage = courierMessage(lines, cart.TotalAmount)
		text = fmt.Sprintf(
			"🛵 Доставим по указанному адресу.\n\n"+
				"Пицца: %d руб\nДоставка: %d руб\n\nИтого к оплате: %d руб",
			total, cart.DeliveryFee, cart.TotalAmount)
	} else {
		cart.Delivery = false
		cart.TotalAmount = total
		cart.DeliveryMessage = ""
		text = fmt.Sprintf(
			"🏃 Самовывоз из пиццерии по адресу:\n%s\n\nИтого к оплате: %d руб",
			pizzeria.Address, cart.TotalAmount)
	}

	if err := h.sessions.SetCart(ctx, ev.ChatID, cart); err != nil {
		return "", err
	}

	kb := keyboard.PaymentChoice(h.cardEnabled)
	if ev.Kind == state.KindCallback && ev.MessageID != 0 {
		err = h.messenger.EditMessageText(ctx, ev.ChatID, ev.MessageID, text, kb)
	} else {
		err = h.messenger.SendMessage(ctx, ev.ChatID, text, kb)
	}
	if err != nil {
		return "", err
	}

	return state.HandlePayment, nil
}
