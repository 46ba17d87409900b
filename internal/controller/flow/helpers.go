package flow

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmkochetov/pizza_bot/internal/controller/state"
	"github.com/dmkochetov/pizza_bot/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// loadSessionCart возвращает сессионную корзину, создавая новую
// с собственным идентификатором заказа если её ещё нет
func (h *Handlers) loadSessionCart(ctx context.Context, chatID int64) (*model.Cart, error) {
	cart, err := h.sessions.GetCart(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = &model.Cart{OrderID: uuid.NewString()}
	}
	return cart, nil
}

// pageFromPayload извлекает целевую страницу меню из callback
// пагинации ("prev:1", "next:2"). Для прочих событий - первая страница.
func pageFromPayload(payload string) int {
	var raw string
	switch {
	case strings.HasPrefix(payload, state.PayloadPrev+":"):
		raw = strings.TrimPrefix(payload, state.PayloadPrev+":")
	case strings.HasPrefix(payload, state.PayloadNext+":"):
		raw = strings.TrimPrefix(payload, state.PayloadNext+":")
	default:
		return 0
	}

	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return page
}

// renderCart формирует текст корзины для клиента
func renderCart(lines []model.CartLine, total int) string {
	if len(lines) == 0 {
		return "🛒 Ваша корзина пуста.\n\nВыберите пиццу в меню."
	}

	var sb strings.Builder
	sb.WriteString("🛒 Ваша корзина:\n\n")
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("%s\n%d шт x %d руб = %d руб\n\n",
			line.Name, line.Quantity, line.UnitPrice, line.LineTotal))
	}
	sb.WriteString(fmt.Sprintf("Итого: %d руб", total))

	return sb.String()
}

// courierMessage формирует текст заказа для курьера
func courierMessage(lines []model.CartLine, total int) string {
	var sb strings.Builder
	sb.WriteString("🍕 Новый заказ на доставку:\n\n")
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("%s - %d шт\n", line.Name, line.Quantity))
	}
	sb.WriteString(fmt.Sprintf("\nК оплате: %d руб", total))
	return sb.String()
}

// deleteInboundMessage убирает сообщение со старой клавиатурой.
// Ошибка не прерывает переход - сообщение могло быть уже удалено.
func (h *Handlers) deleteInboundMessage(ctx context.Context, ev state.Event) {
	if ev.MessageID == 0 {
		return
	}
	if err := h.messenger.DeleteMessage(ctx, ev.ChatID, ev.MessageID); err != nil {
		h.logger.Debug("Failed to delete message",
			zap.Int64("chat_id", ev.ChatID),
			zap.Int("message_id", ev.MessageID),
			zap.Error(err))
	}
}
