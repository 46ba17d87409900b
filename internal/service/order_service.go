package service

import (
	"context"
	"fmt"

	"github.com/dmkochetov/pizza_bot/internal/model"
	"github.com/dmkochetov/pizza_bot/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService ведёт историю оформленных заказов
type OrderService struct {
	orderRepo *repository.OrderRepository
	logger    *zap.Logger
}

// NewOrderService создаёт сервис истории заказов
func NewOrderService(orderRepo *repository.OrderRepository, logger *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// Record записывает оформленный заказ. Идентификатор заказа обычно
// приходит из корзины; если его нет, генерируем новый.
func (s *OrderService) Record(ctx context.Context, order *model.Order) error {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return fmt.Errorf("record order: %w", err)
	}

	s.logger.Info("Order recorded",
		zap.String("order_id", order.ID),
		zap.Int64("chat_id", order.ChatID),
		zap.Int("total_amount", order.TotalAmount),
		zap.Bool("delivery", order.Delivery))

	return nil
}
