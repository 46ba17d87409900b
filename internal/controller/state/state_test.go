package state

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		stored  Tag
		ok      bool
		want    Tag
	}{
		{"start command overrides stored state", "/start", HandlePayment, true, Start},
		{"menu token overrides stored state", "menu", HandleCart, true, Start},
		{"prev pagination token goes to start", "prev:0", HandleMenu, true, Start},
		{"next pagination token goes to start", "next:2", HandleMenu, true, Start},
		{"cart token overrides stored state", "cart", HandleDescription, true, HandleCart},
		{"delivery choice token goes to waiting", "delivery_choice", HandleCart, true, HandleWaiting},
		{"close token goes to finish", "close", HandleCart, true, Finish},
		{"fresh conversation goes to start", "привет", "", false, Start},
		{"unknown stored tag goes to start", "привет", Tag("BOGUS"), true, Start},
		{"plain payload keeps stored state", "ул. Ленина, 1", HandleLocation, true, HandleLocation},
		{"product id keeps stored state", "prod-123", HandleMenu, true, HandleMenu},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Resolve(tt.payload, tt.stored, tt.ok))
		})
	}
}

func TestKnown(t *testing.T) {
	for _, tag := range []Tag{Start, HandleMenu, HandleDescription, HandleCart,
		HandleWaiting, HandleLocation, HandleDelivery, HandlePayment,
		HandleDeliveryman, Finish} {
		require.True(t, Known(tag), "tag %s", tag)
	}

	require.False(t, Known(Tag("")))
	require.False(t, Known(Tag("HANDLE_NOTHING")))
}

// fakeStore хранилище состояний в памяти
type fakeStore struct {
	states map[int64]Tag
	setErr error
	getErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{states: map[int64]Tag{}}
}

func (s *fakeStore) GetState(_ context.Context, chatID int64) (Tag, bool, error) {
	if s.getErr != nil {
		return "", false, s.getErr
	}
	tag, ok := s.states[chatID]
	return tag, ok, nil
}

func (s *fakeStore) SetState(_ context.Context, chatID int64, tag Tag) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.states[chatID] = tag
	return nil
}

// fakeHandlers направляет все состояния в одну функцию и считает вызовы
type fakeHandlers struct {
	next  Tag
	err   error
	calls []Tag
}

func (h *fakeHandlers) handle(tag Tag) func(context.Context, Event) (Tag, error) {
	return func(context.Context, Event) (Tag, error) {
		h.calls = append(h.calls, tag)
		if h.err != nil {
			return "", h.err
		}
		return h.next, nil
	}
}

func (h *fakeHandlers) Start(ctx context.Context, ev Event) (Tag, error) {
	return h.handle(Start)(ctx, ev)
}
func (h *fakeHandlers) Menu(ctx context.Context, ev Event) (Tag, error) {
	return h.handle(HandleMenu)(ctx, ev)
}
func (h *fakeHandlers) Description(ctx context.Context, ev Event) (Tag, error) {
	return h.handle(HandleDescription)(ctx, ev)
}
func (h *fakeHandlers) Cart(ctx context.Context, ev Event) (Tag, error) {
	return h.handle(HandleCart)(ctx, ev)
}
func (h *fakeHandlers) Waiting(ctx context.Context, ev Event) (Tag, error) {
	return h.handle(HandleWaiting)(ctx, ev)
}
func (h *fakeHandlers) Location(ctx context.Context, ev Event) (Tag, error) {
	return h.handle(HandleLocation)(ctx, ev)
}
func (h *fakeHandlers) Delivery(ctx context.Context, ev Event) (Tag, error) {
	return h.handle(HandleDelivery)(ctx, ev)
}
func (h *fakeHandlers) Payment(ctx context.Context, ev Event) (Tag, error) {
	return h.handle(HandlePayment)(ctx, ev)
}
func (h *fakeHandlers) Deliveryman(ctx context.Context, ev Event) (Tag, error) {
	return h.handle(HandleDeliveryman)(ctx, ev)
}
func (h *fakeHandlers) Finish(ctx context.Context, ev Event) (Tag, error) {
	return h.handle(Finish)(ctx, ev)
}

func TestMachineDispatch(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh conversation enters start handler", func(t *testing.T) {
		store := newFakeStore()
		handlers := &fakeHandlers{next: HandleMenu}
		m := NewMachine(handlers, store, zap.NewNop())

		m.Dispatch(ctx, Event{ChatID: 1, Kind: KindText, Payload: "/start"})

		require.Equal(t, []Tag{Start}, handlers.calls)
		require.Equal(t, HandleMenu, store.states[1])
	})

	t.Run("stored state routes to its handler", func(t *testing.T) {
		store := newFakeStore()
		store.states[7] = HandleLocation
		handlers := &fakeHandlers{next: HandleDelivery}
		m := NewMachine(handlers, store, zap.NewNop())

		m.Dispatch(ctx, Event{ChatID: 7, Kind: KindText, Payload: "ул. Ленина, 1"})

		require.Equal(t, []Tag{HandleLocation}, handlers.calls)
		require.Equal(t, HandleDelivery, store.states[7])
	})

	t.Run("handler error does not advance state", func(t *testing.T) {
		store := newFakeStore()
		store.states[7] = HandleCart
		handlers := &fakeHandlers{err: errors.New("boom")}
		m := NewMachine(handlers, store, zap.NewNop())

		m.Dispatch(ctx, Event{ChatID: 7, Kind: KindCallback, Payload: "remove,line-1"})

		require.Equal(t, []Tag{HandleCart}, handlers.calls)
		require.Equal(t, HandleCart, store.states[7], "state must stay put after handler failure")
	})

	t.Run("self loop persists same state", func(t *testing.T) {
		store := newFakeStore()
		store.states[3] = HandleDescription
		handlers := &fakeHandlers{next: HandleDescription}
		m := NewMachine(handlers, store, zap.NewNop())

		m.Dispatch(ctx, Event{ChatID: 3, Kind: KindCallback, Payload: "prod-1"})

		require.Equal(t, HandleDescription, store.states[3])
	})

	t.Run("store read failure skips handler", func(t *testing.T) {
		store := newFakeStore()
		store.getErr = errors.New("db down")
		handlers := &fakeHandlers{next: HandleMenu}
		m := NewMachine(handlers, store, zap.NewNop())

		m.Dispatch(ctx, Event{ChatID: 9, Kind: KindText, Payload: "/start"})

		require.Empty(t, handlers.calls)
	})
}

func TestMachineHandlerFor(t *testing.T) {
	m := NewMachine(&fakeHandlers{}, newFakeStore(), zap.NewNop())

	for _, tag := range []Tag{Start, HandleMenu, HandleDescription, HandleCart,
		HandleWaiting, HandleLocation, HandleDelivery, HandlePayment,
		HandleDeliveryman, Finish} {
		handler, err := m.handlerFor(tag)
		require.NoError(t, err, "tag %s", tag)
		require.NotNil(t, handler)
	}

	_, err := m.handlerFor(Tag("HANDLE_NOTHING"))
	require.ErrorIs(t, err, ErrUnknownState)
}
