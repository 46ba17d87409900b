package state

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrUnknownState тег состояния отсутствует в таблице диспетчеризации
var ErrUnknownState = errors.New("unknown conversation state")

// Store персистентное хранилище тегов состояний.
// Машина состояний - единственный писатель тега.
type Store interface {
	GetState(ctx context.Context, chatID int64) (Tag, bool, error)
	SetState(ctx context.Context, chatID int64, tag Tag) error
}

// Handlers обработчики каждого состояния покупки.
// Обработчик возвращает следующее состояние; возврат текущего
// состояния (self-loop) допустим.
type Handlers interface {
	Start(ctx context.Context, ev Event) (Tag, error)
	Menu(ctx context.Context, ev Event) (Tag, error)
	Description(ctx context.Context, ev Event) (Tag, error)
	Cart(ctx context.Context, ev Event) (Tag, error)
	Waiting(ctx context.Context, ev Event) (Tag, error)
	Location(ctx context.Context, ev Event) (Tag, error)
	Delivery(ctx context.Context, ev Event) (Tag, error)
	Payment(ctx context.Context, ev Event) (Tag, error)
	Deliveryman(ctx context.Context, ev Event) (Tag, error)
	Finish(ctx context.Context, ev Event) (Tag, error)
}

// Machine диспетчер: определяет состояние для события, вызывает
// обработчик и сохраняет возвращённый тег
type Machine struct {
	handlers Handlers
	store    Store
	logger   *zap.Logger
}

// NewMachine создаёт машину состояний
func NewMachine(handlers Handlers, store Store, logger *zap.Logger) *Machine {
	return &Machine{
		handlers: handlers,
		store:    store,
		logger:   logger,
	}
}

// handlerFor возвращает обработчик для тега.
// Перечисление полное: неизвестный тег - ошибка, а не паника.
func (m *Machine) handlerFor(tag Tag) (func(context.Context, Event) (Tag, error), error) {
	switch tag {
	case Start:
		return m.handlers.Start, nil
	case HandleMenu:
		return m.handlers.Menu, nil
	case HandleDescription:
		return m.handlers.Description, nil
	case HandleCart:
		return m.handlers.Cart, nil
	case HandleWaiting:
		return m.handlers.Waiting, nil
	case HandleLocation:
		return m.handlers.Location, nil
	case HandleDelivery:
		return m.handlers.Delivery, nil
	case HandlePayment:
		return m.handlers.Payment, nil
	case HandleDeliveryman:
		return m.handlers.Deliveryman, nil
	case Finish:
		return m.handlers.Finish, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownState, tag)
	}
}

// Dispatch обрабатывает одно входящее событие.
// При любой ошибке обработчика тег состояния не меняется:
// следующее сообщение пользователя попадёт в тот же обработчик.
func (m *Machine) Dispatch(ctx context.Context, ev Event) {
	stored, ok, err := m.store.GetState(ctx, ev.ChatID)
	if err != nil {
		m.logger.Error("Failed to load conversation state",
			zap.Int64("chat_id", ev.ChatID),
			zap.Error(err))
		return
	}

	current := Resolve(ev.Payload, stored, ok)

	handler, err := m.handlerFor(current)
	if err != nil {
		m.logger.Error("No handler for state",
			zap.Int64("chat_id", ev.ChatID),
			zap.String("state", string(current)),
			zap.Error(err))
		return
	}

	next, err := handler(ctx, ev)
	if err != nil {
		m.logger.Error("State handler failed",
			zap.Int64("chat_id", ev.ChatID),
			zap.String("state", string(current)),
			zap.String("payload", ev.Payload),
			zap.Error(err))
		return
	}

	if err := m.store.SetState(ctx, ev.ChatID, next); err != nil {
		m.logger.Error("Failed to persist conversation state",
			zap.Int64("chat_id", ev.ChatID),
			zap.String("next", string(next)),
			zap.Error(err))
		return
	}

	m.logger.Debug("State transition",
		zap.Int64("chat_id", ev.ChatID),
		zap.String("from", string(current)),
		zap.String("to", string(next)))
}
