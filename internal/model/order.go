package model

import "time"

// Order запись о заказе для истории
type Order struct {
	ID          string    `json:"id"` // UUID цикла заказа
	ChatID      int64     `json:"chat_id"`
	TotalAmount int       `json:"total_amount"`
	Delivery    bool      `json:"delivery"`
	CreatedAt   time.Time `json:"created_at"`
}
