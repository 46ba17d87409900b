package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmkochetov/pizza_bot/internal/controller/state"
	"github.com/dmkochetov/pizza_bot/internal/model"
	"github.com/dmkochetov/pizza_bot/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Виды сессионных записей. Ключ в таблице - (chat_id, kind),
// значение перезаписывается целиком (last-write-wins).
const (
	sessionKindState    = "state"
	sessionKindCart     = "cart"
	sessionKindPizzeria = "pizzeria"
)

// SessionRepository key-value хранилище сессий диалогов.
// Типизированные структуры сериализуются в JSON только на границе
// хранилища; транзакционности между ключами нет - обработчики
// перечитывают корзину и пиццерию перед использованием.
type SessionRepository struct {
	*base.Repository
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{Repository: base.NewRepository(pool)}
}

func (r *SessionRepository) get(ctx context.Context, chatID int64, kind string) (string, bool, error) {
	query := `
		SELECT value
		FROM sessions
		WHERE chat_id = $1 AND kind = $2
	`

	var value string
	err := r.QueryRow(ctx, query, chatID, kind).Scan(&value)
	if err != nil {
		if base.IsNotFound(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get session %s: %w", kind, err)
	}

	return value, true, nil
}

func (r *SessionRepository) set(ctx context.Context, chatID int64, kind, value string) error {
	query := `
		INSERT INTO sessions (chat_id, kind, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (chat_id, kind)
		DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`

	_, err := r.ExecAffected(ctx, query, chatID, kind, value)
	if err != nil {
		return fmt.Errorf("set session %s: %w", kind, err)
	}

	return nil
}

// GetState возвращает сохранённый тег состояния диалога.
// Второе значение false - свежий диалог без состояния.
func (r *SessionRepository) GetState(ctx context.Context, chatID int64) (state.Tag, bool, error) {
	value, ok, err := r.get(ctx, chatID, sessionKindState)
	if err != nil || !ok {
		return "", false, err
	}
	return state.Tag(value), true, nil
}

// SetState сохраняет тег состояния диалога
func (r *SessionRepository) SetState(ctx context.Context, chatID int64, tag state.Tag) error {
	return r.set(ctx, chatID, sessionKindState, string(tag))
}

// GetCart возвращает сессионную корзину либо nil если её нет
func (r *SessionRepository) GetCart(ctx context.Context, chatID int64) (*model.Cart, error) {
	value, ok, err := r.get(ctx, chatID, sessionKindCart)
	if err != nil || !ok {
		return nil, err
	}

	var cart model.Cart
	if err := json.Unmarshal([]byte(value), &cart); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}

	return &cart, nil
}

// SetCart сохраняет сессионную корзину
func (r *SessionRepository) SetCart(ctx context.Context, chatID int64, cart *model.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	return r.set(ctx, chatID, sessionKindCart, string(data))
}

// GetPizzeria возвращает назначенную пиццерию либо nil если её нет
func (r *SessionRepository) GetPizzeria(ctx context.Context, chatID int64) (*model.Pizzeria, error) {
	value, ok, err := r.get(ctx, chatID, sessionKindPizzeria)
	if err != nil || !ok {
		return nil, err
	}

	var pizzeria model.Pizzeria
	if err := json.Unmarshal([]byte(value), &pizzeria); err != nil {
		return nil, fmt.Errorf("decode pizzeria: %w", err)
	}

	return &pizzeria, nil
}

// SetPizzeria сохраняет назначенную пиццерию
func (r *SessionRepository) SetPizzeria(ctx context.Context, chatID int64, pizzeria *model.Pizzeria) error {
	data, err := json.Marshal(pizzeria)
	if err != nil {
		return fmt.Errorf("encode pizzeria: %w", err)
	}
	return r.set(ctx, chatID, sessionKindPizzeria, string(data))
}

// ClearOrderData удаляет корзину и пиццерию завершённого заказа,
// чтобы данные не утекли в следующий цикл. Тег состояния не трогаем -
// его пишет только машина состояний.
func (r *SessionRepository) ClearOrderData(ctx context.Context, chatID int64) error {
	query := `
		DELETE FROM sessions
		WHERE chat_id = $1 AND kind IN ($2, $3)
	`

	_, err := r.ExecAffected(ctx, query, chatID, sessionKindCart, sessionKindPizzeria)
	if err != nil {
		return fmt.Errorf("clear order data: %w", err)
	}

	return nil
}
