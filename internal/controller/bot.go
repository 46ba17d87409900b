package controller

import (
	"context"

	"github.com/dmkochetov/pizza_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// BotController связывает обновления Telegram с машиной состояний
type BotController struct {
	bot     *bot.Bot
	machine *state.Machine
	logger  *zap.Logger
}

// NewBotController создаёт контроллер бота
func NewBotController(botInstance *bot.Bot, machine *state.Machine, logger *zap.Logger) *BotController {
	return &BotController{
		bot:     botInstance,
		machine: machine,
		logger:  logger,
	}
}

// RegisterHandlers регистрирует обработчики обновлений.
// Платёжные обновления и локации регистрируются раньше общего
// текстового обработчика: диспетчеризация идёт по первому совпадению.
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandlerMatchFunc(func(update *models.Update) bool {
		return update.PreCheckoutQuery != nil
	}, c.handlePreCheckout)

	c.bot.RegisterHandlerMatchFunc(func(update *models.Update) bool {
		return update.Message != nil && update.Message.SuccessfulPayment != nil
	}, c.handleSuccessfulPayment)

	c.bot.RegisterHandlerMatchFunc(func(update *models.Update) bool {
		return update.Message != nil && update.Message.Location != nil
	}, c.handleLocation)

	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handleMessage)
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.handleCallback)

	return c.setCommands(ctx)
}

// setCommands устанавливает меню команд бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🍕 Меню пиццерии"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("Bot commands menu set")
	return nil
}

// handleMessage текстовые сообщения (команды, адрес доставки)
func (c *BotController) handleMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	c.machine.Dispatch(ctx, state.Event{
		ChatID:    update.Message.Chat.ID,
		Kind:      state.KindText,
		Payload:   update.Message.Text,
		MessageID: update.Message.ID,
	})
}

// handleCallback нажатия inline кнопок
func (c *BotController) handleCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil || callback.Message.Message == nil {
		return
	}

	msg := callback.Message.Message
	c.machine.Dispatch(ctx, state.Event{
		ChatID:     msg.Chat.ID,
		Kind:       state.KindCallback,
		Payload:    callback.Data,
		MessageID:  msg.ID,
		CallbackID: callback.ID,
	})
}

// handleLocation присланные локации
func (c *BotController) handleLocation(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	c.machine.Dispatch(ctx, state.Event{
		ChatID:    msg.Chat.ID,
		Kind:      state.KindLocation,
		Latitude:  msg.Location.Latitude,
		Longitude: msg.Location.Longitude,
		MessageID: msg.ID,
	})
}

// handlePreCheckout подтверждает предоплатную проверку Telegram.
// Платёжные события не меняют тег состояния диалога.
func (c *BotController) handlePreCheckout(ctx context.Context, b *bot.Bot, update *models.Update) {
	query := update.PreCheckoutQuery

	_, err := b.AnswerPreCheckoutQuery(ctx, &bot.AnswerPreCheckoutQueryParams{
		PreCheckoutQueryID: query.ID,
		OK:                 true,
	})
	if err != nil {
		c.logger.Error("Failed to answer pre-checkout query",
			zap.String("query_id", query.ID),
			zap.Error(err))
		return
	}

	c.logger.Info("Pre-checkout approved",
		zap.Int64("user_id", query.From.ID),
		zap.Int("total_amount", query.TotalAmount))
}

// handleSuccessfulPayment благодарит за оплату картой
func (c *BotController) handleSuccessfulPayment(ctx context.Context, b *bot.Bot, update *models.Update) {
	payment := update.Message.SuccessfulPayment

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   "Оплата прошла успешно. Спасибо за заказ!",
	})
	if err != nil {
		c.logger.Error("Failed to send payment confirmation",
			zap.Int64("chat_id", update.Message.Chat.ID),
			zap.Error(err))
		return
	}

	c.logger.Info("Payment received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.Int("total_amount", payment.TotalAmount),
		zap.String("order_id", payment.InvoicePayload))
}

// Start запускает бота
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
