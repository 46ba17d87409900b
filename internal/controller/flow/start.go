package flow

import (
	"context"

	"github.com/dmkochetov/pizza_bot/internal/controller/keyboard"
	"github.com/dmkochetov/pizza_bot/internal/controller/state"
)

// Start показывает страницу меню. Снапшот каталога обновляется
// на каждом входе: один цикл заказа работает с одним снапшотом.
func (h *Handlers) Start(ctx context.Context, ev state.Event) (state.Tag, error) {
	products, err := h.commerce.ListProducts(ctx)
	if err != nil {
		return "", err
	}
	h.setCatalog(products)

	page := pageFromPayload(ev.Payload)
	kb := keyboard.MenuPage(products, page)
	if kb == nil {
		// Навигация за пределы каталога
		err := h.messenger.SendMessage(ctx, ev.ChatID,
			"Для того, чтобы начать отправьте боту /start", nil)
		if err != nil {
			return "", err
		}
		return state.Start, nil
	}

	err = h.messenger.SendMessage(ctx, ev.ChatID, "Пожалуйста, выберите пиццу:", kb)
	if err != nil {
		return "", err
	}

	if ev.Kind == state.KindCallback {
		h.deleteInboundMessage(ctx, ev)
	}

	return state.HandleMenu, nil
}
