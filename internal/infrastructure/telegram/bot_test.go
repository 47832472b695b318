package telegram

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-directory-bot/internal/testutil"
)

type apiCall struct {
	method string
	params map[string]string
}

type fakeAPI struct {
	mu    sync.Mutex
	calls []apiCall
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]

	params := make(map[string]string)
	for k := range r.Form {
		params[k] = r.Form.Get(k)
	}

	f.mu.Lock()
	f.calls = append(f.calls, apiCall{method: method, params: params})
	f.mu.Unlock()

	var result any = true
	switch method {
	case "getMe":
		result = tgbotapi.User{ID: 1, IsBot: true, UserName: "user_directory_bot"}
	case "sendMessage", "editMessageText":
		result = tgbotapi.Message{MessageID: 10, Chat: &tgbotapi.Chat{ID: 42}}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": result})
}

func (f *fakeAPI) last(t *testing.T) apiCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.calls)
	return f.calls[len(f.calls)-1]
}

func newTestBot(t *testing.T) (*Bot, *fakeAPI) {
	t.Helper()
	fake := &fakeAPI{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	api, err := tgbotapi.NewBotAPIWithClient("test-token", srv.URL+"/bot%s/%s", srv.Client())
	require.NoError(t, err)

	return newBot(api, testutil.MakeNoopLogger()), fake
}

func TestBot_SendMessage(t *testing.T) {
	bot, fake := newTestBot(t)

	require.NoError(t, bot.SendMessage(42, "hello"))

	call := fake.last(t)
	assert.Equal(t, "sendMessage", call.method)
	assert.Equal(t, "42", call.params["chat_id"])
	assert.Equal(t, "hello", call.params["text"])
}

func TestBot_SendMessageWithKeyboard(t *testing.T) {
	bot, fake := newTestBot(t)

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Users", "menu_users")),
	)
	require.NoError(t, bot.SendMessageWithKeyboard(42, "menu", keyboard))

	call := fake.last(t)
	assert.Equal(t, "sendMessage", call.method)
	assert.Contains(t, call.params["reply_markup"], "menu_users")
}

func TestBot_EditMessageWithKeyboard(t *testing.T) {
	bot, fake := newTestBot(t)

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Back", "back_menu")),
	)
	require.NoError(t, bot.EditMessageWithKeyboard(42, 10, "users", keyboard))

	call := fake.last(t)
	assert.Equal(t, "editMessageText", call.method)
	assert.Equal(t, "10", call.params["message_id"])
	assert.Contains(t, call.params["reply_markup"], "back_menu")
}

func TestBot_AnswerCallbackQuery(t *testing.T) {
	bot, fake := newTestBot(t)

	require.NoError(t, bot.AnswerCallbackQuery("cb-1", "Deleted"))

	call := fake.last(t)
	assert.Equal(t, "answerCallbackQuery", call.method)
	assert.Equal(t, "cb-1", call.params["callback_query_id"])
}

func TestBot_SetupCommands(t *testing.T) {
	bot, fake := newTestBot(t)

	require.NoError(t, bot.SetupCommands())

	call := fake.last(t)
	assert.Equal(t, "setMyCommands", call.method)

	var commands []tgbotapi.BotCommand
	require.NoError(t, json.Unmarshal([]byte(call.params["commands"]), &commands))
	require.Len(t, commands, len(Commands))
	assert.Equal(t, "save", commands[2].Command)
}
