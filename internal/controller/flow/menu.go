package flow

import (
	"context"
	"fmt"

	"github.com/dmkochetov/pizza_bot/internal/controller/keyboard"
	"github.com/dmkochetov/pizza_bot/internal/controller/state"
)

// Menu показывает карточку выбранной пиццы: фото, цену и описание
func (h *Handlers) Menu(ctx context.Context, ev state.Event) (state.Tag, error) {
	if ev.Kind != state.KindCallback {
		err := h.messenger.SendMessage(ctx, ev.ChatID,
			"Пожалуйста, выберите пиццу кнопкой из меню.", nil)
		if err != nil {
			return "", err
		}
		return state.HandleMenu, nil
	}

	product, ok := h.productByID(ev.Payload)
	if !ok {
		return "", fmt.Errorf("product %q not in catalog snapshot", ev.Payload)
	}

	imageURL, err := h.commerce.ImageURL(ctx, product.ImageID)
	if err != nil {
		return "", err
	}

	caption := fmt.Sprintf("%s\n\nЦена: %d руб\n\n%s",
		product.Name, product.Price, product.Description)

	err = h.messenger.SendPhoto(ctx, ev.ChatID, imageURL, caption,
		keyboard.ProductCard(product.ID))
	if err != nil {
		return "", err
	}

	h.deleteInboundMessage(ctx, ev)

	return state.HandleDescription, nil
}

// Description добавляет выбранную пиццу в удалённую корзину.
// Остаётся в том же состоянии, чтобы пользователь мог добавить ещё;
// повторное добавление увеличивает количество существующей строки.
func (h *Handlers) Description(ctx context.Context, ev state.Event) (state.Tag, error) {
	product, ok := h.productByID(ev.Payload)
	if !ok {
		return "", fmt.Errorf("product %q not in catalog snapshot", ev.Payload)
	}

	if err := h.commerce.AddToCart(ctx, ev.ChatID, product.ID, 1); err != nil {
		return "", err
	}

	err := h.messenger.AnswerCallback(ctx, ev.CallbackID,
		fmt.Sprintf("%s добавлена в корзину", product.Name))
	if err != nil {
		return "", err
	}

	return state.HandleDescription, nil
}
