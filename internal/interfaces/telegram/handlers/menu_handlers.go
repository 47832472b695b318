package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"user-directory-bot/internal/interfaces/telegram/handlers/shared"
)

// handleBackToMenu returns to the main menu
func (h *BotHandler) handleBackToMenu(_ context.Context, callback *tgbotapi.CallbackQuery) {
	h.edit(callback, shared.MainMenuText, shared.CreateMainMenuKeyboard())
}

// handleMenuUsers shows the user list from menu
func (h *BotHandler) handleMenuUsers(_ context.Context, callback *tgbotapi.CallbackQuery) {
	users := h.users.Users().Value()
	if len(users) == 0 {
		h.edit(callback, "📭 No users yet. Add one with /save <name> <email>.", shared.CreateHelpKeyboard())
		return
	}
	h.edit(callback, shared.FormatUserList(users), shared.CreateUserListKeyboard(users))
}

// handleMenuHelp shows help from menu
func (h *BotHandler) handleMenuHelp(_ context.Context, callback *tgbotapi.CallbackQuery) {
	h.edit(callback, shared.GetHelpText(), shared.CreateHelpKeyboard())
}

func (h *BotHandler) edit(callback *tgbotapi.CallbackQuery, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := callback.Message
	if err := h.bot.EditMessageWithKeyboard(msg.Chat.ID, msg.MessageID, text, keyboard); err != nil {
		h.logger.Error("failed to edit message", "chat_id", msg.Chat.ID, "error", err)
	}
}
