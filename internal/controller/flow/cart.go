package flow

import (
	"context"
	"strings"

	"github.com/dmkochetov/pizza_bot/internal/controller/keyboard"
	"github.com/dmkochetov/pizza_bot/internal/controller/state"
)

const removePayloadPrefix = "remove,"

// Cart показывает корзину. Payload вида "remove,<line_id>" сначала
// удаляет строку из удалённой корзины, затем корзина перерисовывается.
// Локальная копия строк сохраняется в сессию для отображения.
func (h *Handlers) Cart(ctx context.Context, ev state.Event) (state.Tag, error) {
	if strings.HasPrefix(ev.Payload, removePayloadPrefix) {
		itemID := strings.TrimPrefix(ev.Payload, removePayloadPrefix)
		if err := h.commerce.RemoveFromCart(ctx, ev.ChatID, itemID); err != nil {
			return "", err
		}
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
	cart.TotalAmount = total
	if err := h.sessions.SetCart(ctx, ev.ChatID, cart); err != nil {
		return "", err
	}

	text := renderCart(lines, total)
	kb := keyboard.CartView(lines)

	if ev.Kind == state.KindCallback && ev.MessageID != 0 {
		err = h.messenger.EditMessageText(ctx, ev.ChatID, ev.MessageID, text, kb)
	} else {
		err = h.messenger.SendMessage(ctx, ev.ChatID, text, kb)
	}
	if err != nil {
		return "", err
	}

	return state.HandleCart, nil
}
