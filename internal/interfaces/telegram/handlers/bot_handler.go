package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"user-directory-bot/internal/domain/preferences"
	"user-directory-bot/internal/domain/user"
	"user-directory-bot/internal/interfaces/telegram"
	"user-directory-bot/internal/logger"
	"user-directory-bot/internal/observable"
)

// MessageSender is the part of the Telegram client the handlers talk to.
type MessageSender interface {
	SendMessage(chatID int64, text string) error
	SendMessageWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error
	EditMessageWithKeyboard(chatID int64, messageID int, text string, keyboard tgbotapi.InlineKeyboardMarkup) error
	AnswerCallbackQuery(callbackID string, text string) error
}

// UserViewModel is the user screen state the bot renders and drives.
type UserViewModel interface {
	Users() *observable.Shared[[]user.User]
	Validate(name, email string) error
	InsertUser(name, email string)
	DeleteUser(u user.User)
}

// BotHandler handles Telegram bot interactions
type BotHandler struct {
	bot        MessageSender
	dispatcher telegram.Dispatcher
	users      UserViewModel
	prefs      *preferences.Store
	logger     *logger.Logger

	mu       sync.Mutex
	watchers map[int64]struct{}
}

// NewBotHandler creates a new bot handler
func NewBotHandler(bot MessageSender, users UserViewModel, prefs *preferences.Store, logger *logger.Logger) *BotHandler {
	h := &BotHandler{
		bot:        bot,
		dispatcher: telegram.NewDispatcher(),
		users:      users,
		prefs:      prefs,
		logger:     logger.With("component", "bot_handler"),
		watchers:   make(map[int64]struct{}),
	}
	h.registerCommands()
	h.registerSettings()
	return h
}

// Start handles updates until ctx is cancelled or updates is closed. While
// running it keeps the user list subscription alive and notifies watching
// chats whenever the newest user changes.
func (h *BotHandler) Start(ctx context.Context, updates tgbotapi.UpdatesChannel) error {
	list, cancel := h.users.Users().Subscribe()
	defer cancel()

	h.logger.Info("bot started, waiting for updates")

	var newest user.ID
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("bot stopping")
			return nil
		case update, ok := <-updates:
			if !ok {
				h.logger.Info("update channel closed")
				return nil
			}
			h.HandleUpdate(ctx, update)
		case users, ok := <-list:
			if !ok {
				list = nil
				continue
			}
			newest = h.notifyWatchers(newest, users)
		}
	}
}

// HandleUpdate processes a single update. Updates are handled in arrival
// order so that user actions reach the view-model in that order.
func (h *BotHandler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		h.handleCallbackQuery(ctx, update.CallbackQuery)
	case update.Message != nil:
		h.handleMessage(ctx, update)
	}
}

func (h *BotHandler) handleMessage(ctx context.Context, update tgbotapi.Update) {
	chatID := update.Message.Chat.ID

	err := h.dispatcher.Dispatch(ctx, update)
	switch {
	case err == nil:
	case errors.Is(err, telegram.ErrUnknownCommand):
		h.reply(chatID, "Unknown command. Use /help to see what I can do.")
	default:
		h.logger.Error("failed to handle command",
			"command", update.Message.Command(), "chat_id", chatID, "error", err)
		h.reply(chatID, "Sorry, something went wrong. Please try again.")
	}
}

// handleCallbackQuery processes inline keyboard callbacks
func (h *BotHandler) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil {
		return
	}

	data := callback.Data
	h.logger.Debug("processing callback", "data", data, "message_id", callback.Message.MessageID)

	if id, ok := strings.CutPrefix(data, "delete_"); ok {
		h.handleDeleteCallback(ctx, callback, id)
		return
	}

	// Answer the callback to remove loading state
	if err := h.bot.AnswerCallbackQuery(callback.ID, ""); err != nil {
		h.logger.Warn("failed to answer callback query", "error", err)
	}

	switch data {
	case "menu_users":
		h.handleMenuUsers(ctx, callback)
	case "menu_help":
		h.handleMenuHelp(ctx, callback)
	case "back_menu":
		h.handleBackToMenu(ctx, callback)
	default:
		h.logger.Warn("unknown callback", "data", data)
	}
}

func (h *BotHandler) handleDeleteCallback(_ context.Context, callback *tgbotapi.CallbackQuery, rawID string) {
	answer := "User not found"
	if id, err := strconv.ParseInt(rawID, 10, 64); err == nil {
		if u, ok := h.findUser(user.ID(id)); ok {
			h.users.DeleteUser(u)
			answer = "Deleting " + u.Name
		}
	}

	if err := h.bot.AnswerCallbackQuery(callback.ID, answer); err != nil {
		h.logger.Warn("failed to answer callback query", "error", err)
	}
}

// notifyWatchers tells every watching chat about a new newest user and
// returns the id now at the top of the list.
func (h *BotHandler) notifyWatchers(previous user.ID, users []user.User) user.ID {
	if len(users) == 0 {
		return 0
	}
	top := users[0]
	if top.ID == previous {
		return previous
	}

	for _, chatID := range h.watchingChats() {
		h.reply(chatID, "🔔 Newest user: "+top.Name)
	}
	return top.ID
}

func (h *BotHandler) watchingChats() []int64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	chats := make([]int64, 0, len(h.watchers))
	for id := range h.watchers {
		chats = append(chats, id)
	}
	return chats
}

// toggleWatch flips the notification subscription of a chat and reports
// whether it is now on.
func (h *BotHandler) toggleWatch(chatID int64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.watchers[chatID]; ok {
		delete(h.watchers, chatID)
		return false
	}
	h.watchers[chatID] = struct{}{}
	return true
}

func (h *BotHandler) findUser(id user.ID) (user.User, bool) {
	for _, u := range h.users.Users().Value() {
		if u.ID == id {
			return u, true
		}
	}
	return user.User{}, false
}

func (h *BotHandler) reply(chatID int64, text string) {
	if err := h.bot.SendMessage(chatID, text); err != nil {
		h.logger.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}
