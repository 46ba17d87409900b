package flow

import (
	"context"
	"fmt"

	"github.com/dmkochetov/pizza_bot/internal/controller/keyboard"
	"github.com/dmkochetov/pizza_bot/internal/controller/state"
	"github.com/dmkochetov/pizza_bot/internal/model"
	"go.uber.org/zap"
)

// Payment обрабатывает выбор способа оплаты. Следующее состояние
// зависит от способа получения: доставка уходит курьеру,
// самовывоз сразу завершает заказ.
func (h *Handlers) Payment(ctx context.Context, ev state.Event) (state.Tag, error) {
	cart, err := h.sessions.GetCart(ctx, ev.ChatID)
	if err != nil {
		return "", err
	}
	if cart == nil {
		return "", fmt.Errorf("session cart missing for chat %d", ev.ChatID)
	}

	switch ev.Payload {
	case keyboard.CallbackCash:
		var text string
		if cart.Delivery {
			text = fmt.Sprintf(
				"К оплате наличными - %d руб.\n\n"+
					"Деньги, пожалуйста, передайте курьеру. Не забудьте взять чек!",
				cart.TotalAmount)
		} else {
			text = fmt.Sprintf("К оплате наличными - %d руб", cart.TotalAmount)
		}

		err = h.messenger.SendMessage(ctx, ev.ChatID, text, keyboard.CashConfirm())
		if err != nil {
			return "", err
		}

	case keyboard.CallbackCard:
		if !h.cardEnabled {
			err = h.messenger.SendMessage(ctx, ev.ChatID,
				"Оплата картой временно недоступна, выберите наличные.",
				keyboard.PaymentChoice(false))
			if err != nil {
				return "", err
			}
			return state.HandlePayment, nil
		}

		err = h.messenger.SendInvoice(ctx, ev.ChatID,
			"Оплата заказа",
			fmt.Sprintf("Заказ пиццы на сумму %d руб", cart.TotalAmount),
			cart.OrderID,
			cart.TotalAmount)
		if err != nil {
			return "", err
		}

	default:
		err = h.messenger.SendMessage(ctx, ev.ChatID,
			"Пожалуйста, выберите способ оплаты кнопкой.",
			keyboard.PaymentChoice(h.cardEnabled))
		if err != nil {
			return "", err
		}
		return state.HandlePayment, nil
	}

	h.recordOrder(ctx, ev.ChatID, cart)

	if cart.Delivery {
		return state.HandleDeliveryman, nil
	}
	return state.Finish, nil
}

// recordOrder пишет заказ в историю. Сбой истории не должен
// ломать оформление - только логируется.
func (h *Handlers) recordOrder(ctx context.Context, chatID int64, cart *model.Cart) {
	order := &model.Order{
		ID:          cart.OrderID,
		ChatID:      chatID,
		TotalAmount: cart.TotalAmount,
		Delivery:    cart.Delivery,
	}
	if err := h.orders.Record(ctx, order); err != nil {
		h.logger.Error("Failed to record order history",
			zap.Int64("chat_id", chatID),
			zap.String("order_id", cart.OrderID),
			zap.Error(err))
	}
}
