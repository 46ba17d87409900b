package telegram

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Messenger реализует исходящие действия бота поверх go-telegram/bot
type Messenger struct {
	bot           *bot.Bot
	providerToken string
}

// NewMessenger создаёт адаптер исходящих сообщений.
// providerToken - токен платёжного провайдера Telegram; пустой
// токен означает что счета выставлять нельзя.
func NewMessenger(b *bot.Bot, providerToken string) *Messenger {
	return &Messenger{
		bot:           b,
		providerToken: providerToken,
	}
}

// SendMessage отправляет текст с опциональной inline клавиатурой
func (m *Messenger) SendMessage(ctx context.Context, chatID int64, text string, kb *models.InlineKeyboardMarkup) error {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if kb != nil {
		params.ReplyMarkup = kb
	}

	_, err := m.bot.SendMessage(ctx, params)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// SendPhoto отправляет фото по URL с подписью и клавиатурой
func (m *Messenger) SendPhoto(ctx context.Context, chatID int64, photoURL, caption string, kb *models.InlineKeyboardMarkup) error {
	params := &bot.SendPhotoParams{
		ChatID:  chatID,
		Photo:   &models.InputFileString{Data: photoURL},
		Caption: caption,
	}
	if kb != nil {
		params.ReplyMarkup = kb
	}

	_, err := m.bot.SendPhoto(ctx, params)
	if err != nil {
		return fmt.Errorf("send photo: %w", err)
	}
	return nil
}

// SendLocation отправляет точку на карте
func (m *Messenger) SendLocation(ctx context.Context, chatID int64, lat, lon float64) error {
	_, err := m.bot.SendLocation(ctx, &bot.SendLocationParams{
		ChatID:    chatID,
		Latitude:  lat,
		Longitude: lon,
	})
	if err != nil {
		return fmt.Errorf("send location: %w", err)
	}
	return nil
}

// EditMessageText редактирует текст и клавиатуру сообщения
func (m *Messenger) EditMessageText(ctx context.Context, chatID int64, messageID int, text string, kb *models.InlineKeyboardMarkup) error {
	params := &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
	}
	if kb != nil {
		params.ReplyMarkup = kb
	}

	_, err := m.bot.EditMessageText(ctx, params)
	if err != nil {
		return fmt.Errorf("edit message text: %w", err)
	}
	return nil
}

// DeleteMessage удаляет сообщение
func (m *Messenger) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	_, err := m.bot.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: messageID,
	})
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

// AnswerCallback отвечает на callback всплывающим уведомлением
func (m *Messenger) AnswerCallback(ctx context.Context, callbackID, text string) error {
	_, err := m.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	if err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}

// SendInvoice выставляет счёт на оплату картой через Telegram Payments.
// Сумма в рублях, Telegram принимает копейки.
func (m *Messenger) SendInvoice(ctx context.Context, chatID int64, title, description, payload string, amount int) error {
	if m.providerToken == "" {
		return fmt.Errorf("send invoice: payment provider token is not configured")
	}

	_, err := m.bot.SendInvoice(ctx, &bot.SendInvoiceParams{
		ChatID:        chatID,
		Title:         title,
		Description:   description,
		Payload:       payload,
		ProviderToken: m.providerToken,
		Currency:      "RUB",
		Prices: []models.LabeledPrice{
			{Label: "Заказ", Amount: amount * 100},
		},
	})
	if err != nil {
		return fmt.Errorf("send invoice: %w", err)
	}
	return nil
}
