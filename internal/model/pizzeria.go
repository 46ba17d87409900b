package model

// Pizzeria назначенная на заказ пиццерия.
// Заполняется в HANDLE_LOCATION, читается в HANDLE_DELIVERYMAN и FINISH.
type Pizzeria struct {
	Address     string  `json:"address"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	CourierID   int64   `json:"courier_chat_id"` // Telegram chat id курьера
	DeliveryFee int     `json:"delivery_fee"`

	// Координаты клиента для передачи курьеру
	CustomerLat float64 `json:"customer_lat"`
	CustomerLon float64 `json:"customer_lon"`
}
