package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"user-directory-bot/internal/logger"
)

// Bot wraps the Telegram bot API
type Bot struct {
	api    *tgbotapi.BotAPI
	logger *logger.Logger
}

// NewBot creates a new Telegram bot
func NewBot(token string, debug bool, logger *logger.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	api.Debug = debug

	return newBot(api, logger), nil
}

func newBot(api *tgbotapi.BotAPI, logger *logger.Logger) *Bot {
	b := &Bot{api: api, logger: logger.With("component", "telegram")}
	b.logger.Info("authorized", "account", api.Self.UserName)
	return b
}

// GetUpdatesChan returns a channel for receiving updates
func (b *Bot) GetUpdatesChan() tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	return b.api.GetUpdatesChan(u)
}

// StopReceivingUpdates ends the long polling started by GetUpdatesChan.
func (b *Bot) StopReceivingUpdates() {
	b.api.StopReceivingUpdates()
}

// SendMessage sends a text message
func (b *Bot) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.api.Send(msg)
	return err
}

// SendMessageWithKeyboard sends a message with inline keyboard
func (b *Bot) SendMessageWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	_, err := b.api.Send(msg)
	return err
}

// EditMessageWithKeyboard edits an existing message and replaces its keyboard
func (b *Bot) EditMessageWithKeyboard(chatID int64, messageID int, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ReplyMarkup = &keyboard
	_, err := b.api.Send(edit)
	return err
}

// AnswerCallbackQuery answers a callback query
func (b *Bot) AnswerCallbackQuery(callbackID string, text string) error {
	callback := tgbotapi.NewCallback(callbackID, text)
	_, err := b.api.Request(callback)
	return err
}

// Commands lists the commands advertised to BotFather.
var Commands = []tgbotapi.BotCommand{
	{Command: "start", Description: "🏠 Welcome message and main menu"},
	{Command: "help", Description: "❓ Get help and instructions"},
	{Command: "save", Description: "➕ Save a user: /save <name> <email>"},
	{Command: "read", Description: "📋 Show all users, newest first"},
	{Command: "delete", Description: "🗑 Delete a user: /delete <id>"},
	{Command: "setpref", Description: "⚙️ Set a preference: /setpref <key> <kind> <value>"},
	{Command: "getpref", Description: "🔎 Read a preference: /getpref <key> <kind>"},
	{Command: "watch", Description: "🔔 Toggle new-user notifications"},
}

// SetupCommands configures the bot commands with BotFather
func (b *Bot) SetupCommands() error {
	setCommands := tgbotapi.NewSetMyCommands(Commands...)
	if _, err := b.api.Request(setCommands); err != nil {
		return fmt.Errorf("failed to set bot commands: %w", err)
	}

	b.logger.Info("bot commands configured", "count", len(Commands))
	return nil
}
