package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const deliveryNotificationText = "Приятного аппетита! *место для рекламы*\n\n" +
	"*сообщение что делать если пицца не пришла*"

// SendFunc отправка текстового сообщения клиенту
type SendFunc func(ctx context.Context, chatID int64, text string) error

// DeliveryNotifier планирует одноразовые отложенные уведомления
// клиенту после передачи заказа курьеру. Отмены нет: если клиент
// закрыл заказ до срабатывания таймера, уведомление всё равно
// придёт - это осознанное ограничение, а не баг.
type DeliveryNotifier struct {
	send     SendFunc
	delay    time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewDeliveryNotifier создаёт планировщик уведомлений
func NewDeliveryNotifier(delay time.Duration, send SendFunc, logger *zap.Logger) *DeliveryNotifier {
	return &DeliveryNotifier{
		send:     send,
		delay:    delay,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// ScheduleOnce планирует одно уведомление для чата.
// Таймер живёт независимо от дальнейших переходов диалога.
func (n *DeliveryNotifier) ScheduleOnce(chatID int64) {
	n.wg.Add(1)

	go func() {
		defer n.wg.Done()

		timer := time.NewTimer(n.delay)
		defer timer.Stop()

		select {
		case <-timer.C:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := n.send(ctx, chatID, deliveryNotificationText); err != nil {
				n.logger.Error("Failed to send delivery notification",
					zap.Int64("chat_id", chatID),
					zap.Error(err))
				return
			}

			n.logger.Info("Delivery notification sent",
				zap.Int64("chat_id", chatID))

		case <-n.stopChan:
			// Процесс останавливается, несработавшие таймеры пропадают
			return
		}
	}()
}

// Stop останавливает планировщик и дожидается запущенных горутин
func (n *DeliveryNotifier) Stop() {
	close(n.stopChan)
	n.wg.Wait()
}
