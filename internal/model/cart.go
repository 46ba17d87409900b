package model

// CartLine одна позиция в удалённой корзине
type CartLine struct {
	ID        string `json:"id"` // ID строки корзины в Moltin
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int    `json:"unit_price"` // Цена за штуку в рублях
	LineTotal int    `json:"line_total"`
}

// Cart сессионная корзина пользователя.
// Строки принадлежат удалённой корзине Moltin, локальная копия
// хранится только для отображения. Поля доставки накапливаются
// по мере прохождения состояний HANDLE_LOCATION -> HANDLE_PAYMENT.
type Cart struct {
	OrderID         string     `json:"order_id"` // UUID текущего цикла заказа
	Lines           []CartLine `json:"lines"`
	TotalAmount     int        `json:"total_amount"`
	Delivery        bool       `json:"delivery"`
	DeliveryFee     int        `json:"delivery_fee"`
	DeliveryMessage string     `json:"delivery_message"` // Текст заказа для курьера
}
