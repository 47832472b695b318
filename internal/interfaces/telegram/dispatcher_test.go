package telegram

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commandUpdate(text string) tgbotapi.Update {
	msg := &tgbotapi.Message{Text: text, Chat: &tgbotapi.Chat{ID: 1}}
	if len(text) > 0 && text[0] == '/' {
		length := len(text)
		for i, r := range text {
			if r == ' ' {
				length = i
				break
			}
		}
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}}
	}
	return tgbotapi.Update{Message: msg}
}

func TestDispatcher_RoutesCommands(t *testing.T) {
	d := NewDispatcher()

	var got []string
	d.RegisterHandler("save", func(_ context.Context, u tgbotapi.Update) error {
		got = append(got, "save:"+u.Message.CommandArguments())
		return nil
	})
	d.RegisterHandler("read", func(context.Context, tgbotapi.Update) error {
		got = append(got, "read")
		return nil
	})

	require.NoError(t, d.Dispatch(context.Background(), commandUpdate("/save Alice a@x.com")))
	require.NoError(t, d.Dispatch(context.Background(), commandUpdate("/read")))

	assert.Equal(t, []string{"save:Alice a@x.com", "read"}, got)
}

func TestDispatcher_IgnoresNonCommands(t *testing.T) {
	d := NewDispatcher()
	d.RegisterHandler("read", func(context.Context, tgbotapi.Update) error {
		t.Fatal("handler must not run")
		return nil
	})

	assert.NoError(t, d.Dispatch(context.Background(), tgbotapi.Update{}))
	assert.NoError(t, d.Dispatch(context.Background(), commandUpdate("read")))
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d := NewDispatcher()

	err := d.Dispatch(context.Background(), commandUpdate("/learn"))
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestDispatcher_PropagatesHandlerError(t *testing.T) {
	d := NewDispatcher()
	boom := errors.New("boom")
	d.RegisterHandler("delete", func(context.Context, tgbotapi.Update) error { return boom })

	assert.ErrorIs(t, d.Dispatch(context.Background(), commandUpdate("/delete 1")), boom)
}
