package repository

import (
	"context"
	"fmt"

	"github.com/dmkochetov/pizza_bot/internal/model"
	"github.com/dmkochetov/pizza_bot/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OrderRepository история оформленных заказов
type OrderRepository struct {
	*base.Repository
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{Repository: base.NewRepository(pool)}
}

// Create записывает заказ в историю
func (r *OrderRepository) Create(ctx context.Context, order *model.Order) error {
	query := `
		INSERT INTO orders (id, chat_id, total_amount, delivery)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
		RETURNING created_at
	`

	err := r.QueryRow(
		ctx, query,
		order.ID,
		order.ChatID,
		order.TotalAmount,
		order.Delivery,
	).Scan(&order.CreatedAt)

	if err != nil {
		// Повторная запись того же заказа (idempotent re-entry)
		if base.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("create order: %w", err)
	}

	return nil
}
