package telegram

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Devensh22345/channel-adder/internal/domain/channel/entities"
	channelerrors "github.com/Devensh22345/channel-adder/internal/domain/channel/errors"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		text    string
		command string
		mention string
	}{
		{text: "/ok", command: "ok"},
		{text: "/OK", command: "ok"},
		{text: "/ok@adder_bot", command: "ok", mention: "adder_bot"},
		{text: "/ok extra args", command: "ok"},
		{text: "  /ok  ", command: "ok"},
		{text: "ok", command: ""},
		{text: "", command: ""},
		{text: "/okay", command: "okay"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			command, mention := parseCommand(tt.text)
			assert.Equal(t, tt.command, command)
			assert.Equal(t, tt.mention, mention)
		})
	}
}

func TestCommandMessage(t *testing.T) {
	post := &models.Message{ID: 1, Text: "/ok"}
	msg := &models.Message{ID: 2, Text: "/ok"}

	assert.Nil(t, commandMessage(nil))
	assert.Nil(t, commandMessage(&models.Update{}))
	assert.Same(t, post, commandMessage(&models.Update{ChannelPost: post}))
	assert.Same(t, msg, commandMessage(&models.Update{Message: msg}))
}

func TestIsOkCommand(t *testing.T) {
	assert.True(t, isOkCommand(&models.Update{ChannelPost: &models.Message{Text: "/ok"}}))
	assert.True(t, isOkCommand(&models.Update{Message: &models.Message{Text: "/ok@adder_bot"}}))
	assert.False(t, isOkCommand(&models.Update{Message: &models.Message{Text: "/okay"}}))
	assert.False(t, isOkCommand(&models.Update{Message: &models.Message{Text: "ok"}}))
	assert.False(t, isOkCommand(&models.Update{CallbackQuery: &models.CallbackQuery{ID: "1"}}))
}

func TestCanPostAs(t *testing.T) {
	tests := []struct {
		name     string
		member   *models.ChatMember
		chatType entities.ChatType
		want     bool
	}{
		{
			name:     "nil member",
			chatType: entities.ChatTypeChannel,
			want:     false,
		},
		{
			name:     "channel owner",
			member:   &models.ChatMember{Type: models.ChatMemberTypeOwner},
			chatType: entities.ChatTypeChannel,
			want:     true,
		},
		{
			name: "channel admin with post rights",
			member: &models.ChatMember{
				Type:          models.ChatMemberTypeAdministrator,
				Administrator: &models.ChatMemberAdministrator{CanPostMessages: true},
			},
			chatType: entities.ChatTypeChannel,
			want:     true,
		},
		{
			name: "channel admin without post rights",
			member: &models.ChatMember{
				Type:          models.ChatMemberTypeAdministrator,
				Administrator: &models.ChatMemberAdministrator{},
			},
			chatType: entities.ChatTypeChannel,
			want:     false,
		},
		{
			name:     "channel member",
			member:   &models.ChatMember{Type: models.ChatMemberTypeMember},
			chatType: entities.ChatTypeChannel,
			want:     false,
		},
		{
			name:     "supergroup member",
			member:   &models.ChatMember{Type: models.ChatMemberTypeMember},
			chatType: entities.ChatTypeSupergroup,
			want:     true,
		},
		{
			name: "supergroup admin",
			member: &models.ChatMember{
				Type:          models.ChatMemberTypeAdministrator,
				Administrator: &models.ChatMemberAdministrator{},
			},
			chatType: entities.ChatTypeSupergroup,
			want:     true,
		},
		{
			name: "supergroup restricted muted",
			member: &models.ChatMember{
				Type:       models.ChatMemberTypeRestricted,
				Restricted: &models.ChatMemberRestricted{},
			},
			chatType: entities.ChatTypeSupergroup,
			want:     false,
		},
		{
			name: "supergroup restricted can send",
			member: &models.ChatMember{
				Type:       models.ChatMemberTypeRestricted,
				Restricted: &models.ChatMemberRestricted{CanSendMessages: true},
			},
			chatType: entities.ChatTypeSupergroup,
			want:     true,
		},
		{
			name:     "left",
			member:   &models.ChatMember{Type: models.ChatMemberTypeLeft},
			chatType: entities.ChatTypeSupergroup,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, canPostAs(tt.member, tt.chatType))
		})
	}
}

func TestErrorReply(t *testing.T) {
	assert.Equal(t, "This command can only be used in channels!", errorReply(channelerrors.ErrWrongChatType))
	assert.Equal(t, "I need permission to post messages in this channel!", errorReply(channelerrors.ErrNoPostingRights))
	assert.Equal(t, "❌ Error: CHAT_ADMIN_REQUIRED", errorReply(errors.New("CHAT_ADMIN_REQUIRED")))
}

func TestChatIDParam(t *testing.T) {
	assert.Equal(t, int64(-1001234567890), chatIDParam("-1001234567890"))
	assert.Equal(t, "@review_chat", chatIDParam("@review_chat"))
}

func TestRequesterFromModel(t *testing.T) {
	assert.Nil(t, requesterFromModel(nil))

	requester := requesterFromModel(&models.User{ID: 7, FirstName: "Ada", LastName: "L", Username: "ada"})
	require.NotNil(t, requester)
	assert.Equal(t, int64(7), requester.ID)
	assert.Equal(t, "ada", requester.Username)
}

func TestChatFromModel(t *testing.T) {
	chat := chatFromModel(models.Chat{ID: -100123, Type: models.ChatTypeChannel, Username: "news", Title: "News"})

	assert.Equal(t, entities.ChatTypeChannel, chat.Type)
	assert.True(t, chat.IsBroadcastCapable())
	assert.Equal(t, "news", chat.Username)
}

func TestInlineKeyboard(t *testing.T) {
	assert.Nil(t, inlineKeyboard(&models.Message{ID: 1, Text: "plain"}))

	var msg models.Message
	raw := `{"message_id":1,"date":0,"chat":{"id":-100123,"type":"channel"},"text":"request",` +
		`"reply_markup":{"inline_keyboard":[[{"text":"Join Channel","url":"https://t.me/news"}]]}}`
	require.NoError(t, json.Unmarshal([]byte(raw), &msg))

	markup := inlineKeyboard(&msg)
	require.NotNil(t, markup)
	require.Len(t, markup.InlineKeyboard, 1)
	assert.Equal(t, "https://t.me/news", markup.InlineKeyboard[0][0].URL)
}
