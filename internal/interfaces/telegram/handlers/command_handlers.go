package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"user-directory-bot/internal/domain/user"
	"user-directory-bot/internal/interfaces/telegram/handlers/shared"
)

const (
	cmdStart  = "start"
	cmdHelp   = "help"
	cmdSave   = "save"
	cmdRead   = "read"
	cmdDelete = "delete"
	cmdWatch  = "watch"
)

func (h *BotHandler) registerCommands() {
	h.dispatcher.RegisterHandler(cmdStart, h.handleStart)
	h.dispatcher.RegisterHandler(cmdHelp, h.handleHelp)
	h.dispatcher.RegisterHandler(cmdSave, h.handleSave)
	h.dispatcher.RegisterHandler(cmdRead, h.handleRead)
	h.dispatcher.RegisterHandler(cmdDelete, h.handleDelete)
	h.dispatcher.RegisterHandler(cmdWatch, h.handleWatch)
}

// handleStart processes the /start command
func (h *BotHandler) handleStart(_ context.Context, update tgbotapi.Update) error {
	name := "there"
	if from := update.Message.From; from != nil && from.FirstName != "" {
		name = from.FirstName
	}

	welcomeText := fmt.Sprintf(
		"👋 Welcome to User Directory Bot, %s!\n\n"+
			"I keep a small directory of users. Choose an option below to get started:",
		name)

	return h.bot.SendMessageWithKeyboard(update.Message.Chat.ID, welcomeText, shared.CreateMainMenuKeyboard())
}

// handleHelp processes the /help command
func (h *BotHandler) handleHelp(_ context.Context, update tgbotapi.Update) error {
	return h.bot.SendMessageWithKeyboard(update.Message.Chat.ID, shared.GetHelpText(), shared.CreateHelpKeyboard())
}

// handleSave processes /save <name> <email>. The last word is the email,
// everything before it the name.
func (h *BotHandler) handleSave(_ context.Context, update tgbotapi.Update) error {
	name, email := splitNameEmail(update.Message.CommandArguments())

	if err := h.users.Validate(name, email); err != nil {
		return h.bot.SendMessage(update.Message.Chat.ID,
			fmt.Sprintf("❌ %s.\nUsage: /save <name> <email>", capitalize(err.Error())))
	}

	h.users.InsertUser(name, email)
	return h.bot.SendMessage(update.Message.Chat.ID, fmt.Sprintf("✅ Saving %s <%s>", name, email))
}

// handleRead processes the /read command
func (h *BotHandler) handleRead(_ context.Context, update tgbotapi.Update) error {
	users := h.users.Users().Value()
	if len(users) == 0 {
		return h.bot.SendMessage(update.Message.Chat.ID, "📭 No users yet. Add one with /save <name> <email>.")
	}

	return h.bot.SendMessageWithKeyboard(update.Message.Chat.ID,
		shared.FormatUserList(users), shared.CreateUserListKeyboard(users))
}

// handleDelete processes /delete <id>
func (h *BotHandler) handleDelete(_ context.Context, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID

	id, err := strconv.ParseInt(strings.TrimSpace(update.Message.CommandArguments()), 10, 64)
	if err != nil {
		return h.bot.SendMessage(chatID, "Usage: /delete <id>")
	}

	u, ok := h.findUser(user.ID(id))
	if !ok {
		return h.bot.SendMessage(chatID, fmt.Sprintf("No user with id %d.", id))
	}

	h.users.DeleteUser(u)
	return h.bot.SendMessage(chatID, fmt.Sprintf("🗑 Deleting %s", u.Name))
}

// handleWatch processes the /watch command
func (h *BotHandler) handleWatch(_ context.Context, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID
	if h.toggleWatch(chatID) {
		return h.bot.SendMessage(chatID, "🔔 You will be notified when a new user is added. Send /watch again to stop.")
	}
	return h.bot.SendMessage(chatID, "🔕 Notifications turned off.")
}
