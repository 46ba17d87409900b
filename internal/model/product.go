package model

// Product позиция меню из каталога Moltin
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"` // Цена в рублях
	ImageID     string `json:"image_id"`
}
