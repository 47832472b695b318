package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"user-directory-bot/internal/domain/preferences"
)

const (
	cmdSetPref = "setpref"
	cmdGetPref = "getpref"
)

func (h *BotHandler) registerSettings() {
	h.dispatcher.RegisterHandler(cmdSetPref, h.handleSetPref)
	h.dispatcher.RegisterHandler(cmdGetPref, h.handleGetPref)
}

// handleSetPref processes /setpref <key> <kind> <value>
func (h *BotHandler) handleSetPref(ctx context.Context, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID

	fields := strings.SplitN(strings.TrimSpace(update.Message.CommandArguments()), " ", 3)
	if len(fields) < 2 || fields[0] == "" {
		return h.bot.SendMessage(chatID, "Usage: /setpref <key> <kind> <value>\nKinds: "+kindList())
	}
	key := fields[0]

	kind, err := preferences.ParseKind(fields[1])
	if err != nil {
		return h.bot.SendMessage(chatID, fmt.Sprintf("❌ Unknown kind %q. Kinds: %s", fields[1], kindList()))
	}

	var text string
	if len(fields) == 3 {
		text = fields[2]
	}
	value, err := preferences.ParseValue(kind, text)
	if err != nil {
		return h.bot.SendMessage(chatID, fmt.Sprintf("❌ %q is not a valid %s.", text, kind))
	}

	if err := h.prefs.SetValue(ctx, key, value); err != nil {
		return fmt.Errorf("failed to set preference: %w", err)
	}

	return h.bot.SendMessage(chatID, fmt.Sprintf("✅ %s = %s (%s)", key, value, kind))
}

// handleGetPref processes /getpref <key> <kind>
func (h *BotHandler) handleGetPref(ctx context.Context, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID

	fields := strings.Fields(update.Message.CommandArguments())
	if len(fields) != 2 {
		return h.bot.SendMessage(chatID, "Usage: /getpref <key> <kind>\nKinds: "+kindList())
	}
	key := fields[0]

	kind, err := preferences.ParseKind(fields[1])
	if err != nil {
		return h.bot.SendMessage(chatID, fmt.Sprintf("❌ Unknown kind %q. Kinds: %s", fields[1], kindList()))
	}
	def, err := preferences.Zero(kind)
	if err != nil {
		return err
	}

	value, err := h.prefs.GetValue(ctx, key, def)
	if errors.Is(err, preferences.ErrTypeMismatch) {
		return h.bot.SendMessage(chatID, fmt.Sprintf("❌ %s is not stored as %s.", key, kind))
	}
	if err != nil {
		return fmt.Errorf("failed to get preference: %w", err)
	}

	return h.bot.SendMessage(chatID, fmt.Sprintf("%s = %s (%s)", key, value, kind))
}

func kindList() string {
	kinds := []preferences.Kind{
		preferences.KindString, preferences.KindInt, preferences.KindBool,
		preferences.KindFloat, preferences.KindLong, preferences.KindStringSet,
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}
