package keyboard

import (
	"fmt"

	"github.com/dmkochetov/pizza_bot/internal/model"
	"github.com/go-telegram/bot/models"
)

// ProductsPerPage количество пицц на одной странице меню
const ProductsPerPage = 4

// Callback-токены клавиатур
const (
	CallbackCart           = "cart"
	CallbackMenu           = "menu"
	CallbackDeliveryChoice = "delivery_choice"
	CallbackClose          = "close"
	CallbackPickup         = "pickup"
	CallbackDelivery       = "delivery"
	CallbackCash           = "cash"
	CallbackCard           = "card"
	CallbackCashConfirm    = "cash_confirm"
	removePrefix           = "remove,"
)

// RemoveCallback формирует callback удаления строки корзины
func RemoveCallback(lineID string) string {
	return removePrefix + lineID
}

// PrevCallback и NextCallback кодируют целевую страницу меню
func PrevCallback(page int) string {
	return fmt.Sprintf("prev:%d", page)
}

func NextCallback(page int) string {
	return fmt.Sprintf("next:%d", page)
}

// TotalPages число страниц меню для каталога
func TotalPages(total int) int {
	pages := (total + ProductsPerPage - 1) / ProductsPerPage
	if pages < 1 {
		pages = 1
	}
	return pages
}

// MenuPage строит страницу меню: до четырёх пицц, навигация и корзина.
// Возвращает nil если страница за пределами каталога.
func MenuPage(products []model.Product, page int) *models.InlineKeyboardMarkup {
	totalPages := TotalPages(len(products))
	if page < 0 || page >= totalPages {
		return nil
	}

	from := page * ProductsPerPage
	to := from + ProductsPerPage
	if to > len(products) {
		to = len(products)
	}

	b := NewBuilder()
	for _, product := range products[from:to] {
		b.Row(Button(fmt.Sprintf("%s - %d руб", product.Name, product.Price), product.ID))
	}

	var nav []models.InlineKeyboardButton
	if page > 0 {
		nav = append(nav, Button("⬅️ Назад", PrevCallback(page-1)))
	}
	if page < totalPages-1 {
		nav = append(nav, Button("Вперёд ➡️", NextCallback(page+1)))
	}
	b.Row(nav...)

	b.Row(Button("🛒 Корзина", CallbackCart))

	return b.Build()
}

// ProductCard клавиатура карточки пиццы
func ProductCard(productID string) *models.InlineKeyboardMarkup {
	return NewBuilder().
		Row(Button("🍕 Положить в корзину", productID)).
		Row(Button("🛒 Корзина", CallbackCart)).
		Row(Button("⬅️ В меню", CallbackMenu)).
		Build()
}

// CartView клавиатура корзины: удаление строк, оформление, возврат в меню
func CartView(lines []model.CartLine) *models.InlineKeyboardMarkup {
	b := NewBuilder()
	for _, line := range lines {
		b.Row(Button(fmt.Sprintf("❌ Убрать %s", line.Name), RemoveCallback(line.ID)))
	}
	if len(lines) > 0 {
		b.Row(Button("💳 Оформить заказ", CallbackDeliveryChoice))
	}
	b.Row(Button("⬅️ В меню", CallbackMenu))
	b.Row(Button("🚪 Закрыть", CallbackClose))
	return b.Build()
}

// DeliveryChoice клавиатура выбора самовывоза или доставки
func DeliveryChoice(deliveryAvailable bool) *models.InlineKeyboardMarkup {
	b := NewBuilder()
	b.Row(Button("🏃 Самовывоз", CallbackPickup))
	if deliveryAvailable {
		b.Row(Button("🛵 Доставка", CallbackDelivery))
	}
	return b.Build()
}

// PaymentChoice клавиатура выбора способа оплаты
func PaymentChoice(cardEnabled bool) *models.InlineKeyboardMarkup {
	b := NewBuilder()
	b.Row(Button("💵 Наличными", CallbackCash))
	if cardEnabled {
		b.Row(Button("💳 Картой", CallbackCard))
	}
	return b.Build()
}

// CashConfirm клавиатура подтверждения оплаты наличными
func CashConfirm() *models.InlineKeyboardMarkup {
	return NewBuilder().
		Row(Button("✅ Подтверждаю", CallbackCashConfirm)).
		Build()
}
