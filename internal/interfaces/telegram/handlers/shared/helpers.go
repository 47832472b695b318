package shared

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"user-directory-bot/internal/domain/user"
)

// MainMenuText heads the main menu message.
const MainMenuText = "👥 User Directory - Main Menu\n\nChoose an option:"

// maxDeleteButtons caps the delete buttons attached to a user list.
const maxDeleteButtons = 10

// CreateMainMenuKeyboard creates the standard main menu keyboard
func CreateMainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 Users", "menu_users"),
			tgbotapi.NewInlineKeyboardButtonData("❓ Help", "menu_help"),
		),
	)
}

// CreateHelpKeyboard creates a keyboard for help view
func CreateHelpKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏠 Back to Menu", "back_menu"),
		),
	)
}

// CreateUserListKeyboard offers one delete button per listed user, newest
// first, followed by the way back to the menu.
func CreateUserListKeyboard(users []user.User) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, min(len(users), maxDeleteButtons)+1)
	for i, u := range users {
		if i == maxDeleteButtons {
			break
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("🗑 %s", u.Name),
				fmt.Sprintf("delete_%d", u.ID),
			),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🏠 Back to Menu", "back_menu"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// FormatUserList renders users one per line.
func FormatUserList(users []user.User) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 Users (%d)\n\n", len(users))
	for _, u := range users {
		fmt.Fprintf(&b, "#%d %s <%s>\n", u.ID, u.Name, u.Email)
	}
	return b.String()
}

// GetHelpText returns the standard help text
func GetHelpText() string {
	return `👥 User Directory Bot Help

Available Commands:
/start - Show welcome message and menu
/save <name> <email> - Add a user
/read - List all users, newest first
/delete <id> - Delete a user
/watch - Toggle notifications about new users
/setpref <key> <kind> <value> - Store a preference
/getpref <key> <kind> - Read a preference
/help - Show this help

Preference kinds: string, int, bool, float, long, string_set.
Sets are written comma-separated, e.g. /setpref tags string_set a,b,c`
}
