package flow

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dmkochetov/pizza_bot/internal/controller/state"
	"github.com/dmkochetov/pizza_bot/internal/geocoder"
	"github.com/dmkochetov/pizza_bot/internal/model"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// sentMessage исходящее сообщение, записанное фейковым мессенджером
type sentMessage struct {
	chatID int64
	text   string
	kb     *models.InlineKeyboardMarkup
}

type sentInvoice struct {
	chatID  int64
	payload string
	amount  int
}

type fakeMessenger struct {
	messages  []sentMessage
	photos    []sentMessage
	edits     []sentMessage
	locations []int64
	deleted   []int
	callbacks []string
	invoices  []sentInvoice
}

func (m *fakeMessenger) SendMessage(_ context.Context, chatID int64, text string, kb *models.InlineKeyboardMarkup) error {
	m.messages = append(m.messages, sentMessage{chatID: chatID, text: text, kb: kb})
	return nil
}

func (m *fakeMessenger) SendPhoto(_ context.Context, chatID int64, _, caption string, kb *models.InlineKeyboardMarkup) error {
	m.photos = append(m.photos, sentMessage{chatID: chatID, text: caption, kb: kb})
	return nil
}

func (m *fakeMessenger) SendLocation(_ context.Context, chatID int64, _, _ float64) error {
	m.locations = append(m.locations, chatID)
	return nil
}

func (m *fakeMessenger) EditMessageText(_ context.Context, chatID int64, _ int, text string, kb *models.InlineKeyboardMarkup) error {
	m.edits = append(m.edits, sentMessage{chatID: chatID, text: text, kb: kb})
	return nil
}

func (m *fakeMessenger) DeleteMessage(_ context.Context, _ int64, messageID int) error {
	m.deleted = append(m.deleted, messageID)
	return nil
}

func (m *fakeMessenger) AnswerCallback(_ context.Context, _, text string) error {
	m.callbacks = append(m.callbacks, text)
	return nil
}

func (m *fakeMessenger) SendInvoice(_ context.Context, chatID int64, _, _, payload string, amount int) error {
	m.invoices = append(m.invoices, sentInvoice{chatID: chatID, payload: payload, amount: amount})
	return nil
}

// lastText текст последнего отправленного или отредактированного сообщения
func (m *fakeMessenger) lastText() string {
	if len(m.edits) > 0 {
		return m.edits[len(m.edits)-1].text
	}
	if len(m.messages) > 0 {
		return m.messages[len(m.messages)-1].text
	}
	return ""
}

// fakeCommerce удалённая корзина в памяти. Повторное добавление
// товара увеличивает количество существующей строки, как в Moltin.
type fakeCommerce struct {
	catalog  []model.Product
	carts    map[int64][]model.CartLine
	pizzeria *model.Pizzeria
	distance float64
	cleared  []int64
	listErr  error
}

func newFakeCommerce(catalog []model.Product) *fakeCommerce {
	return &fakeCommerce{
		catalog: catalog,
		carts:   map[int64][]model.CartLine{},
	}
}

func (c *fakeCommerce) ListProducts(context.Context) ([]model.Product, error) {
	if c.listErr != nil {
		return nil, c.listErr
	}
	return c.catalog, nil
}

func (c *fakeCommerce) ImageURL(_ context.Context, imageID string) (string, error) {
	return "https://cdn.example.com/" + imageID, nil
}

func (c *fakeCommerce) AddToCart(_ context.Context, chatID int64, productID string, quantity int) error {
	var product model.Product
	for _, p := range c.catalog {
		if p.ID == productID {
			product = p
		}
	}

	lines := c.carts[chatID]
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity += quantity
			lines[i].LineTotal = lines[i].Quantity * lines[i].UnitPrice
			c.carts[chatID] = lines
			return nil
		}
	}

	c.carts[chatID] = append(lines, model.CartLine{
		ID:        fmt.Sprintf("line-%s", productID),
		ProductID: productID,
		Name:      product.Name,
		Quantity:  quantity,
		UnitPrice: product.Price,
		LineTotal: quantity * product.Price,
	})
	return nil
}

func (c *fakeCommerce) RemoveFromCart(_ context.Context, chatID int64, itemID string) error {
	lines := c.carts[chatID]
	for i, line := range lines {
		if line.ID == itemID {
			c.carts[chatID] = append(lines[:i], lines[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("line %s not found", itemID)
}

func (c *fakeCommerce) ClearCart(_ context.Context, chatID int64) error {
	c.cleared = append(c.cleared, chatID)
	delete(c.carts, chatID)
	return nil
}

func (c *fakeCommerce) CartSummary(_ context.Context, chatID int64) ([]model.CartLine, int, error) {
	lines := c.carts[chatID]
	total := 0
	for _, line := range lines {
		total += line.LineTotal
	}
	return lines, total, nil
}

func (c *fakeCommerce) NearestPizzeria(_ context.Context, _, _ float64) (*model.Pizzeria, float64, error) {
	if c.pizzeria == nil {
		return nil, 0, errors.New("no pizzerias")
	}
	p := *c.pizzeria
	return &p, c.distance, nil
}

type fakeGeocoder struct {
	known map[string][2]float64 // адрес -> (lon, lat)
}

func (g *fakeGeocoder) Resolve(_ context.Context, address string) (float64, float64, error) {
	coords, ok := g.known[address]
	if !ok {
		return 0, 0, geocoder.ErrNoMatch
	}
	return coords[0], coords[1], nil
}

type fakeSessions struct {
	carts     map[int64]*model.Cart
	pizzerias map[int64]*model.Pizzeria
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{
		carts:     map[int64]*model.Cart{},
		pizzerias: map[int64]*model.Pizzeria{},
	}
}

func (s *fakeSessions) GetCart(_ context.Context, chatID int64) (*model.Cart, error) {
	return s.carts[chatID], nil
}

func (s *fakeSessions) SetCart(_ context.Context, chatID int64, cart *model.Cart) error {
	s.carts[chatID] = cart
	return nil
}

func (s *fakeSessions) GetPizzeria(_ context.Context, chatID int64) (*model.Pizzeria, error) {
	return s.pizzerias[chatID], nil
}

func (s *fakeSessions) SetPizzeria(_ context.Context, chatID int64, pizzeria *model.Pizzeria) error {
	s.pizzerias[chatID] = pizzeria
	return nil
}

func (s *fakeSessions) ClearOrderData(_ context.Context, chatID int64) error {
	delete(s.carts, chatID)
	delete(s.pizzerias, chatID)
	return nil
}

type fakeRecorder struct {
	orders []*model.Order
}

func (r *fakeRecorder) Record(_ context.Context, order *model.Order) error {
	r.orders = append(r.orders, order)
	return nil
}

type fakeNotifier struct {
	scheduled []int64
}

func (n *fakeNotifier) ScheduleOnce(chatID int64) {
	n.scheduled = append(n.scheduled, chatID)
}

// fixture собирает обработчики со всеми фейками
type fixture struct {
	handlers  *Handlers
	messenger *fakeMessenger
	commerce  *fakeCommerce
	geo       *fakeGeocoder
	sessions  *fakeSessions
	recorder  *fakeRecorder
	notifier  *fakeNotifier
}

func testCatalog() []model.Product {
	return []model.Product{
		{ID: "pep", Name: "Пепперони", Description: "Острая", Price: 550, ImageID: "img-pep"},
		{ID: "mar", Name: "Маргарита", Description: "Классика", Price: 450, ImageID: "img-mar"},
		{ID: "haw", Name: "Гавайская", Description: "С ананасами", Price: 500, ImageID: "img-haw"},
		{ID: "bbq", Name: "Барбекю", Description: "С курицей", Price: 600, ImageID: "img-bbq"},
		{ID: "veg", Name: "Вегетарианская", Description: "Овощная", Price: 400, ImageID: "img-veg"},
	}
}

func newFixture(t *testing.T, cardEnabled bool) *fixture {
	t.Helper()

	f := &fixture{
		messenger: &fakeMessenger{},
		commerce:  newFakeCommerce(testCatalog()),
		geo:       &fakeGeocoder{known: map[string][2]float64{}},
		sessions:  newFakeSessions(),
		recorder:  &fakeRecorder{},
		notifier:  &fakeNotifier{},
	}
	f.commerce.pizzeria = &model.Pizzeria{
		Address:   "Москва, Тверская 1",
		Latitude:  55.757,
		Longitude: 37.615,
		CourierID: 4242,
	}
	f.commerce.distance = 2.5

	f.handlers = NewHandlers(
		f.messenger,
		f.commerce,
		f.geo,
		f.sessions,
		f.recorder,
		f.notifier,
		cardEnabled,
		zap.NewNop(),
	)
	return f
}

const chatID int64 = 100500

func TestStart(t *testing.T) {
	ctx := context.Background()

	t.Run("shows menu and advances", func(t *testing.T) {
		f := newFixture(t, false)

		next, err := f.handlers.Start(ctx, state.Event{ChatID: chatID, Kind: state.KindText, Payload: "/start"})

		require.NoError(t, err)
		require.Equal(t, state.HandleMenu, next)
		require.Len(t, f.messenger.messages, 1)
		require.Equal(t, "Пожалуйста, выберите пиццу:", f.messenger.messages[0].text)
		require.NotNil(t, f.messenger.messages[0].kb)
	})

	t.Run("out of range page sends guidance and stays", func(t *testing.T) {
		f := newFixture(t, false)

		next, err := f.handlers.Start(ctx, state.Event{ChatID: chatID, Kind: state.KindCallback, Payload: "next:99"})

		require.NoError(t, err)
		require.Equal(t, state.Start, next)
		require.Len(t, f.messenger.messages, 1)
		require.Contains(t, f.messenger.messages[0].text, "/start")
	})

	t.Run("catalog failure does not advance", func(t *testing.T) {
		f := newFixture(t, false)
		f.commerce.listErr = errors.New("moltin down")

		_, err := f.handlers.Start(ctx, state.Event{ChatID: chatID, Kind: state.KindText, Payload: "/start"})

		require.Error(t, err)
		require.Empty(t, f.messenger.messages)
	})
}

func TestMenuAndDescription(t *testing.T) {
	ctx := context.Background()

	t.Run("product callback shows card", func(t *testing.T) {
		f := newFixture(t, false)
		f.handlers.setCatalog(testCatalog())

		next, err := f.handlers.Menu(ctx, state.Event{
			ChatID: chatID, Kind: state.KindCallback, Payload: "pep", MessageID: 10,
		})

		require.NoError(t, err)
		require.Equal(t, state.HandleDescription, next)
		require.Len(t, f.messenger.photos, 1)
		require.Contains(t, f.messenger.photos[0].text, "Пепперони")
		require.Contains(t, f.messenger.photos[0].text, "550 руб")
		require.Equal(t, []int{10}, f.messenger.deleted)
	})

	t.Run("text message gets prompt and stays", func(t *testing.T) {
		f := newFixture(t, false)

		next, err := f.handlers.Menu(ctx, state.Event{ChatID: chatID, Kind: state.KindText, Payload: "хочу пиццу"})

		require.NoError(t, err)
		require.Equal(t, state.HandleMenu, next)
		require.Len(t, f.messenger.messages, 1)
	})

	t.Run("double add accumulates quantity in one line", func(t *testing.T) {
		f := newFixture(t, false)
		f.handlers.setCatalog(testCatalog())

		ev := state.Event{ChatID: chatID, Kind: state.KindCallback, Payload: "pep", CallbackID: "cb1"}

		next, err := f.handlers.Description(ctx, ev)
		require.NoError(t, err)
		require.Equal(t, state.HandleDescription, next)

		_, err = f.handlers.Description(ctx, ev)
		require.NoError(t, err)

		lines, total, err := f.commerce.CartSummary(ctx, chatID)
		require.NoError(t, err)
		require.Len(t, lines, 1, "same product must stay a single line")
		require.Equal(t, 2, lines[0].Quantity)
		require.Equal(t, 1100, total)
		require.Len(t, f.messenger.callbacks, 2)
	})

	t.Run("unknown product is an error", func(t *testing.T) {
		f := newFixture(t, false)
		f.handlers.setCatalog(testCatalog())

		_, err := f.handlers.Description(ctx, state.Event{ChatID: chatID, Kind: state.KindCallback, Payload: "nope"})
		require.Error(t, err)
	})
}

func TestCart(t *testing.T) {
	ctx := context.Background()

	t.Run("shows cart and mirrors lines to session", func(t *testing.T) {
		f := newFixture(t, false)
		require.NoError(t, f.commerce.AddToCart(ctx, chatID, "pep", 1))
		require.NoError(t, f.commerce.AddToCart(ctx, chatID, "mar", 2))

		next, err := f.handlers.Cart(ctx, state.Event{ChatID: chatID, Kind: state.KindCallback, Payload: "cart", MessageID: 5})

		require.NoError(t, err)
		require.Equal(t, state.HandleCart, next)

		cart := f.sessions.carts[chatID]
		require.NotNil(t, cart)
		require.NotEmpty(t, cart.OrderID)
		require.Len(t, cart.Lines, 2)
		require.Equal(t, 550+2*450, cart.TotalAmount)

		require.Contains(t, f.messenger.lastText(), "Итого: 1450 руб")
	})

	t.Run("remove payload deletes line first", func(t *testing.T) {
		f := newFixture(t, false)
		require.NoError(t, f.commerce.AddToCart(ctx, chatID, "pep", 1))
		require.NoError(t, f.commerce.AddToCart(ctx, chatID, "mar", 1))

		next, err := f.handlers.Cart(ctx, state.Event{
			ChatID: chatID, Kind: state.KindCallback, Payload: "remove,line-pep", MessageID: 5,
		})

		require.NoError(t, err)
		require.Equal(t, state.HandleCart, next)

		lines, total, err := f.commerce.CartSummary(ctx, chatID)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		require.Equal(t, "mar", lines[0].ProductID)
		require.Equal(t, 450, total)
	})

	t.Run("empty cart renders placeholder", func(t *testing.T) {
		f := newFixture(t, false)

		next, err := f.handlers.Cart(ctx, state.Event{ChatID: chatID, Kind: state.KindText, Payload: "cart"})

		require.NoError(t, err)
		require.Equal(t, state.HandleCart, next)
		require.Contains(t, f.messenger.lastText(), "корзина пуста")
	})
}

func TestLocation(t *testing.T) {
	ctx := context.Background()

	t.Run("unresolvable address asks to retry and stays", func(t *testing.T) {
		f := newFixture(t, false)

		next, err := f.handlers.Location(ctx, state.Event{
			ChatID: chatID, Kind: state.KindText, Payload: "квартира где-то",
		})

		require.NoError(t, err)
		require.Equal(t, state.HandleLocation, next)
		require.Len(t, f.messenger.messages, 1, "exactly one retry prompt")
		require.Contains(t, f.messenger.messages[0].text, "Попробуйте еще раз")
		require.Nil(t, f.sessions.pizzerias[chatID])
	})

	t.Run("resolved address assigns pizzeria and advances", func(t *testing.T) {
		f := newFixture(t, false)
		f.geo.known["Тверская 1"] = [2]float64{37.615, 55.757}
		f.commerce.distance = 2.5
		f.commerce.pizzeria.DeliveryFee = 100

		next, err := f.handlers.Location(ctx, state.Event{
			ChatID: chatID, Kind: state.KindText, Payload: "Тверская 1",
		})

		require.NoError(t, err)
		require.Equal(t, state.HandleDelivery, next)

		pizzeria := f.sessions.pizzerias[chatID]
		require.NotNil(t, pizzeria)
		require.Equal(t, "Москва, Тверская 1", pizzeria.Address)

		cart := f.sessions.carts[chatID]
		require.NotNil(t, cart)
		require.Equal(t, 100, cart.DeliveryFee)

		// Доставка доступна: кнопки самовывоза и доставки
		kb := f.messenger.messages[len(f.messenger.messages)-1].kb
		require.NotNil(t, kb)
		require.Len(t, kb.InlineKeyboard, 2)
	})

	t.Run("shared location skips geocoder", func(t *testing.T) {
		f := newFixture(t, false)

		next, err := f.handlers.Location(ctx, state.Event{
			ChatID: chatID, Kind: state.KindLocation, Latitude: 55.75, Longitude: 37.62,
		})

		require.NoError(t, err)
		require.Equal(t, state.HandleDelivery, next)
		require.NotNil(t, f.sessions.pizzerias[chatID])
	})

	t.Run("too far offers pickup only", func(t *testing.T) {
		f := newFixture(t, false)
		f.commerce.distance = 35

		next, err := f.handlers.Location(ctx, state.Event{
			ChatID: chatID, Kind: state.KindLocation, Latitude: 54.0, Longitude: 38.0,
		})

		require.NoError(t, err)
		require.Equal(t, state.HandleDelivery, next)

		kb := f.messenger.messages[len(f.messenger.messages)-1].kb
		require.NotNil(t, kb)
		require.Len(t, kb.InlineKeyboard, 1, "only pickup button")
	})
}

func TestDelivery(t *testing.T) {
	ctx := context.Background()

	prepare := func(f *fixture) {
		require.NoError(t, f.commerce.AddToCart(ctx, chatID, "pep", 2))
		f.sessions.pizzerias[chatID] = &model.Pizzeria{
			Address: "Москва, Тверская 1", CourierID: 4242,
		}
		f.sessions.carts[chatID] = &model.Cart{OrderID: "order-1", DeliveryFee: 100}
	}

	t.Run("delivery adds fee and courier message", func(t *testing.T) {
		f := newFixture(t, false)
		prepare(f)

		next, err := f.handlers.Delivery(ctx, state.Event{
			ChatID: chatID, Kind: state.KindCallback, Payload: "delivery", MessageID: 8,
		})

		require.NoError(t, err)
		require.Equal(t, state.HandlePayment, next)

		cart := f.sessions.carts[chatID]
		require.True(t, cart.Delivery)
		require.Equal(t, 1100+100, cart.TotalAmount)
		require.Contains(t, cart.DeliveryMessage, "Пепперони - 2 шт")
		require.Contains(t, cart.DeliveryMessage, "1200 руб")
	})

	t.Run("pickup keeps bare total", func(t *testing.T) {
		f := newFixture(t, false)
		prepare(f)

		next, err := f.handlers.Delivery(ctx, state.Event{
			ChatID: chatID, Kind: state.KindCallback, Payload: "pickup", MessageID: 8,
		})

		require.NoError(t, err)
		require.Equal(t, state.HandlePayment, next)

		cart := f.sessions.carts[chatID]
		require.False(t, cart.Delivery)
		require.Equal(t, 1100, cart.TotalAmount)
		require.Empty(t, cart.DeliveryMessage)
	})

	t.Run("unexpected payload stays", func(t *testing.T) {
		f := newFixture(t, false)
		prepare(f)

		next, err := f.handlers.Delivery(ctx, state.Event{ChatID: chatID, Kind: state.KindText, Payload: "ага"})

		require.NoError(t, err)
		require.Equal(t, state.HandleDelivery, next)
	})
}

func TestPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("cash pickup finishes order", func(t *testing.T) {
		f := newFixture(t, false)
		f.sessions.carts[chatID] = &model.Cart{OrderID: "order-1", TotalAmount: 1100}

		next, err := f.handlers.Payment(ctx, state.Event{ChatID: chatID, Kind: state.KindCallback, Payload: "cash"})

		require.NoError(t, err)
		require.Equal(t, state.Finish, next)
		require.Contains(t, f.messenger.lastText(), "1100 руб")

		require.Len(t, f.recorder.orders, 1)
		require.Equal(t, "order-1", f.recorder.orders[0].ID)
		require.Equal(t, 1100, f.recorder.orders[0].TotalAmount)
	})

	t.Run("cash delivery goes to deliveryman", func(t *testing.T) {
		f := newFixture(t, false)
		f.sessions.carts[chatID] = &model.Cart{OrderID: "order-2", TotalAmount: 1200, Delivery: true}

		next, err := f.handlers.Payment(ctx, state.Event{ChatID: chatID, Kind: state.KindCallback, Payload: "cash"})

		require.NoError(t, err)
		require.Equal(t, state.HandleDeliveryman, next)
		require.Contains(t, f.messenger.lastText(), "передайте курьеру")
	})

	t.Run("card sends invoice with order id", func(t *testing.T) {
		f := newFixture(t, true)
		f.sessions.carts[chatID] = &model.Cart{OrderID: "order-3", TotalAmount: 900}

		next, err := f.handlers.Payment(ctx, state.Event{ChatID: chatID, Kind: state.KindCallback, Payload: "card"})

		require.NoError(t, err)
		require.Equal(t, state.Finish, next)
		require.Len(t, f.messenger.invoices, 1)
		require.Equal(t, "order-3", f.messenger.invoices[0].payload)
		require.Equal(t, 900, f.messenger.invoices[0].amount)
	})

	t.Run("card disabled falls back to prompt", func(t *testing.T) {
		f := newFixture(t, false)
		f.sessions.carts[chatID] = &model.Cart{OrderID: "order-4", TotalAmount: 900}

		next, err := f.handlers.Payment(ctx, state.Event{ChatID: chatID, Kind: state.KindCallback, Payload: "card"})

		require.NoError(t, err)
		require.Equal(t, state.HandlePayment, next)
		require.Empty(t, f.messenger.invoices)
		require.Empty(t, f.recorder.orders)
	})

	t.Run("missing cart is an error", func(t *testing.T) {
		f := newFixture(t, false)

		_, err := f.handlers.Payment(ctx, state.Event{ChatID: chatID, Kind: state.KindCallback, Payload: "cash"})
		require.Error(t, err)
	})
}

func TestDeliveryman(t *testing.T) {
	ctx := context.Background()

	t.Run("hands order to courier and schedules notification", func(t *testing.T) {
		f := newFixture(t, false)
		f.sessions.carts[chatID] = &model.Cart{
			OrderID: "order-1", TotalAmount: 1200, Delivery: true,
			DeliveryMessage: "🍕 Новый заказ на доставку:\n\nПепперони - 2 шт\n\nК оплате: 1200 руб",
		}
		f.sessions.pizzerias[chatID] = &model.Pizzeria{
			CourierID: 4242, CustomerLat: 55.75, CustomerLon: 37.62,
		}

		next, err := f.handlers.Deliveryman(ctx, state.Event{
			ChatID: chatID, Kind: state.KindCallback, Payload: "cash_confirm", MessageID: 12,
		})

		require.NoError(t, err)
		require.Equal(t, state.HandleDeliveryman, next)

		// Заказ ушёл курьеру вместе с точкой клиента
		require.Len(t, f.messenger.messages, 1)
		require.Equal(t, int64(4242), f.messenger.messages[0].chatID)
		require.Contains(t, f.messenger.messages[0].text, "Пепперони")
		require.Equal(t, []int64{4242}, f.messenger.locations)

		require.Equal(t, []int64{chatID}, f.notifier.scheduled)
	})

	t.Run("missing order data is an error", func(t *testing.T) {
		f := newFixture(t, false)

		_, err := f.handlers.Deliveryman(ctx, state.Event{ChatID: chatID, Kind: state.KindCallback})
		require.Error(t, err)
		require.Empty(t, f.notifier.scheduled)
	})
}

func TestFinish(t *testing.T) {
	ctx := context.Background()

	t.Run("pickup sends pizzeria address and clears everything", func(t *testing.T) {
		f := newFixture(t, false)
		require.NoError(t, f.commerce.AddToCart(ctx, chatID, "pep", 1))
		f.sessions.carts[chatID] = &model.Cart{OrderID: "order-1", TotalAmount: 550}
		f.sessions.pizzerias[chatID] = &model.Pizzeria{
			Address: "Москва, Тверская 1", Latitude: 55.757, Longitude: 37.615,
		}

		next, err := f.handlers.Finish(ctx, state.Event{
			ChatID: chatID, Kind: state.KindCallback, Payload: "cash_confirm",
		})

		require.NoError(t, err)
		require.Equal(t, state.Start, next)

		require.Contains(t, f.messenger.lastText(), "Тверская 1")
		require.Equal(t, []int64{chatID}, f.messenger.locations)

		require.Equal(t, []int64{chatID}, f.commerce.cleared)
		require.Nil(t, f.sessions.carts[chatID])
		require.Nil(t, f.sessions.pizzerias[chatID])
	})

	t.Run("close apologises and clears", func(t *testing.T) {
		f := newFixture(t, false)
		f.sessions.carts[chatID] = &model.Cart{OrderID: "order-1"}

		next, err := f.handlers.Finish(ctx, state.Event{
			ChatID: chatID, Kind: state.KindCallback, Payload: "close", MessageID: 3,
		})

		require.NoError(t, err)
		require.Equal(t, state.Start, next)
		require.Len(t, f.messenger.edits, 1)
		require.Contains(t, f.messenger.edits[0].text, "Очень жаль")
		require.Empty(t, f.messenger.locations, "no pickup address after explicit close")
		require.Nil(t, f.sessions.carts[chatID])
	})
}

func TestPageFromPayload(t *testing.T) {
	require.Equal(t, 0, pageFromPayload("/start"))
	require.Equal(t, 0, pageFromPayload("menu"))
	require.Equal(t, 2, pageFromPayload("next:2"))
	require.Equal(t, 1, pageFromPayload("prev:1"))
	require.Equal(t, 0, pageFromPayload("next:abc"))
}
