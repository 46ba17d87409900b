package flow

import (
	"context"
	"sync"

	"github.com/dmkochetov/pizza_bot/internal/model"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Messenger исходящие действия в Telegram
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string, kb *models.InlineKeyboardMarkup) error
	SendPhoto(ctx context.Context, chatID int64, photoURL, caption string, kb *models.InlineKeyboardMarkup) error
	SendLocation(ctx context.Context, chatID int64, lat, lon float64) error
	EditMessageText(ctx context.Context, chatID int64, messageID int, text string, kb *models.InlineKeyboardMarkup) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
	SendInvoice(ctx context.Context, chatID int64, title, description, payload string, amount int) error
}

// Commerce шлюз каталога и корзин Moltin
type Commerce interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	ImageURL(ctx context.Context, imageID string) (string, error)
	AddToCart(ctx context.Context, chatID int64, productID string, quantity int) error
	RemoveFromCart(ctx context.Context, chatID int64, itemID string) error
	ClearCart(ctx context.Context, chatID int64) error
	CartSummary(ctx context.Context, chatID int64) ([]model.CartLine, int, error)
	NearestPizzeria(ctx context.Context, lon, lat float64) (*model.Pizzeria, float64, error)
}

// Geocoder перевод адреса в координаты
type Geocoder interface {
	Resolve(ctx context.Context, address string) (lon, lat float64, err error)
}

// Sessions сессионные данные заказа (корзина и пиццерия).
// Тег состояния обработчики не трогают - его пишет машина состояний.
type Sessions interface {
	GetCart(ctx context.Context, chatID int64) (*model.Cart, error)
	SetCart(ctx context.Context, chatID int64, cart *model.Cart) error
	GetPizzeria(ctx context.Context, chatID int64) (*model.Pizzeria, error)
	SetPizzeria(ctx context.Context, chatID int64, pizzeria *model.Pizzeria) error
	ClearOrderData(ctx context.Context, chatID int64) error
}

// OrderRecorder запись оформленных заказов в историю
type OrderRecorder interface {
	Record(ctx context.Context, order *model.Order) error
}

// Notifier одноразовое отложенное уведомление клиента
type Notifier interface {
	ScheduleOnce(chatID int64)
}

// Handlers обработчики состояний покупки. Снапшот каталога
// обновляется на входе в START и переиспользуется до конца цикла заказа.
type Handlers struct {
	messenger   Messenger
	commerce    Commerce
	geocoder    Geocoder
	sessions    Sessions
	orders      OrderRecorder
	notifier    Notifier
	logger      *zap.Logger
	cardEnabled bool

	mu      sync.Mutex
	catalog []model.Product
}

// NewHandlers создаёт обработчики состояний
func NewHandlers(
	messenger Messenger,
	commerce Commerce,
	geocoder Geocoder,
	sessions Sessions,
	orders OrderRecorder,
	notifier Notifier,
	cardEnabled bool,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		messenger:   messenger,
		commerce:    commerce,
		geocoder:    geocoder,
		sessions:    sessions,
		orders:      orders,
		notifier:    notifier,
		cardEnabled: cardEnabled,
		logger:      logger,
	}
}

func (h *Handlers) setCatalog(products []model.Product) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.catalog = products
}

func (h *Handlers) catalogSnapshot() []model.Product {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.catalog
}

func (h *Handlers) productByID(id string) (model.Product, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, p := range h.catalog {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}
