package moltin

// Ответы Moltin API. Разбираются только нужные боту поля.

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	Expires     int64  `json:"expires"` // unix timestamp
}

type productsResponse struct {
	Data []productData `json:"data"`
}

type productData struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       []struct {
		Amount int `json:"amount"`
	} `json:"price"`
	Relationships struct {
		MainImage struct {
			Data struct {
				ID string `json:"id"`
			} `json:"data"`
		} `json:"main_image"`
	} `json:"relationships"`
}

type fileResponse struct {
	Data struct {
		Link struct {
			Href string `json:"href"`
		} `json:"link"`
	} `json:"data"`
}

type cartItemsResponse struct {
	Data []cartItemData `json:"data"`
	Meta struct {
		DisplayPrice struct {
			WithTax struct {
				Amount int `json:"amount"`
			} `json:"with_tax"`
		} `json:"display_price"`
	} `json:"meta"`
}

type cartItemData struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice struct {
		Amount int `json:"amount"`
	} `json:"unit_price"`
	Value struct {
		Amount int `json:"amount"`
	} `json:"value"`
}

type pizzeriaEntriesResponse struct {
	Data []pizzeriaEntry `json:"data"`
}

// pizzeriaEntry запись flow "pizzeria" с адресами точек
type pizzeriaEntry struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	CourierID int64   `json:"deliveryman-chat-id"`
}
