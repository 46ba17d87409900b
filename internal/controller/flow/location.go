package flow

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmkochetov/pizza_bot/internal/controller/keyboard"
	"github.com/dmkochetov/pizza_bot/internal/controller/state"
	"github.com/dmkochetov/pizza_bot/internal/geocoder"
	"github.com/dmkochetov/pizza_bot/internal/moltin"
)

// Waiting просит прислать адрес или поделиться локацией
func (h *Handlers) Waiting(ctx context.Context, ev state.Event) (state.Tag, error) {
	text := "Пожалуйста, напишите адрес текстом или пришлите локацию"

	var err error
	if ev.Kind == state.KindCallback && ev.MessageID != 0 {
		err = h.messenger.EditMessageText(ctx, ev.ChatID, ev.MessageID, text, nil)
	} else {
		err = h.messenger.SendMessage(ctx, ev.ChatID, text, nil)
	}
	if err != nil {
		return "", err
	}

	return state.HandleLocation, nil
}

// Location определяет координаты клиента, находит ближайшую пиццерию
// и считает стоимость доставки. Нераспознанный адрес не продвигает
// состояние: пользователь получает просьбу повторить ввод.
func (h *Handlers) Location(ctx context.Context, ev state.Event) (state.Tag, error) {
	var lon, lat float64

	if ev.Kind == state.KindLocation {
		lat, lon = ev.Latitude, ev.Longitude
	} else {
		var err error
		lon, lat, err = h.geocoder.Resolve(ctx, ev.Payload)
		if errors.Is(err, geocoder.ErrNoMatch) {
			sendErr := h.messenger.SendMessage(ctx, ev.ChatID,
				"К сожалению не удалось определить локацию. Попробуйте еще раз", nil)
			if sendErr != nil {
				return "", sendErr
			}
			return state.HandleLocation, nil
		}
		if err != nil {
			return "", err
		}
	}

	pizzeria, distanceKM, err := h.commerce.NearestPizzeria(ctx, lon, lat)
	if err != nil {
		return "", err
	}

	_, deliveryOK := moltin.DeliveryFeeFor(distanceKM)

	cart, err := h.loadSessionCart(ctx, ev.ChatID)
	if err != nil {
		return "", err
	}
	cart.DeliveryFee = pizzeria.DeliveryFee
	if err := h.sessions.SetCart(ctx, ev.ChatID, cart); err != nil {
		return "", err
	}
	if err := h.sessions.SetPizzeria(ctx, ev.ChatID, pizzeria); err != nil {
		return "", err
	}

	text := locationReplyText(pizzeria.Address, distanceKM, pizzeria.DeliveryFee, deliveryOK)
	err = h.messenger.SendMessage(ctx, ev.ChatID, text, keyboard.DeliveryChoice(deliveryOK))
	if err != nil {
		return "", err
	}

	return state.HandleDelivery, nil
}

func locationReplyText(address string, distanceKM float64, fee int, deliveryOK bool) string {
	switch {
	case !deliveryOK:
		return fmt.Sprintf(
			"Простите, но так далеко мы пиццу не доставим. "+
				"Ближайшая пиццерия аж в %.0f км от вас!\n\n"+
				"Зато её можно забрать самостоятельно: %s",
			distanceKM, address)
	case fee == 0:
		return fmt.Sprintf(
			"Может, заберёте пиццу сами? Наша пиццерия совсем рядом: %s.\n\n"+
				"А можем и бесплатно доставить, нам не сложно.",
			address)
	default:
		return fmt.Sprintf(
			"Ближайшая пиццерия: %s (%.1f км от вас).\n\n"+
				"Доставка будет стоить %d руб. Доставляем или самовывоз?",
			address, distanceKM, fee)
	}
}
