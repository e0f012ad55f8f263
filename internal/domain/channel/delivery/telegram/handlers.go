// Package telegram contains Telegram delivery handlers
package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/Devensh22345/channel-adder/internal/domain/channel/dto"
	"github.com/Devensh22345/channel-adder/internal/domain/channel/entities"
	channelerrors "github.com/Devensh22345/channel-adder/internal/domain/channel/errors"
	"github.com/Devensh22345/channel-adder/internal/domain/channel/usecase/business"
	pkgerrors "github.com/Devensh22345/channel-adder/pkg/errors"
)

// RequestTimeout bounds every Bot API call made by the handlers
const RequestTimeout = 30 * time.Second

// Handlers contains Telegram command handlers.
// Implements deps.BotGateway interface.
type Handlers struct {
	uc     *business.UseCase
	bot    *tgbot.Bot
	logger zerolog.Logger

	selfMu sync.Mutex
	self   *models.User
}

// NewHandlers creates new Telegram handlers
func NewHandlers(uc *business.UseCase, bot *tgbot.Bot, logger zerolog.Logger) *Handlers {
	return &Handlers{
		uc:     uc,
		bot:    bot,
		logger: logger.With().Str("component", "telegram-handlers").Logger(),
	}
}

// CanPost implements deps.BotGateway interface
func (h *Handlers) CanPost(ctx context.Context, chat entities.Chat) (bool, error) {
	reqCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	self, err := h.botUser(reqCtx)
	if err != nil {
		return false, err
	}

	member, err := h.bot.GetChatMember(reqCtx, &tgbot.GetChatMemberParams{
		ChatID: chat.ID,
		UserID: self.ID,
	})
	if err != nil {
		return false, pkgerrors.WrapNetworkError("failed to get bot membership", err)
	}

	return canPostAs(member, chat.Type), nil
}

// SendNotification implements deps.BotGateway interface
func (h *Handlers) SendNotification(ctx context.Context, n entities.Notification) (int, error) {
	reqCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	msg, err := h.bot.SendMessage(reqCtx, &tgbot.SendMessageParams{
		ChatID:    chatIDParam(n.ChatID),
		Text:      n.Text,
		ParseMode: models.ParseModeHTML,
		ReplyMarkup: &models.InlineKeyboardMarkup{
			InlineKeyboard: [][]models.InlineKeyboardButton{
				{{Text: n.ButtonText, URL: n.ButtonURL}},
			},
		},
	})
	if err != nil {
		return 0, pkgerrors.WrapNetworkError("failed to send review notification", err)
	}

	return msg.ID, nil
}

// HandleOk handles the /ok command in channels and supergroups
func (h *Handlers) HandleOk(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	msg := commandMessage(update)
	if msg == nil {
		return
	}

	if _, mention := parseCommand(msg.Text); mention != "" {
		self, err := h.botUser(ctx)
		if err == nil && !strings.EqualFold(mention, self.Username) {
			// addressed to another bot
			return
		}
	}

	h.logCommand(msg.Chat.ID, "processing")

	req := &dto.OkCommandRequest{
		Chat:      chatFromModel(msg.Chat),
		Requester: requesterFromModel(msg.From),
	}

	resp, err := h.uc.HandleOk(ctx, req)
	if err != nil {
		h.logError(msg.Chat.ID, err)
		h.reply(ctx, msg, errorReply(err))
		return
	}

	h.reply(ctx, msg, resp.Message)
	h.logCommand(msg.Chat.ID, "success")
}

// HandleCallback acknowledges button presses and redisplays the message unchanged
func (h *Handlers) HandleCallback(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	query := update.CallbackQuery
	if query == nil {
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	if _, err := h.bot.AnswerCallbackQuery(reqCtx, &tgbot.AnswerCallbackQueryParams{
		CallbackQueryID: query.ID,
	}); err != nil {
		h.logger.Warn().Err(err).Str("callback_id", query.ID).Msg("Failed to answer callback query")
	}

	msg := query.Message.Message
	if msg == nil {
		return
	}

	params := &tgbot.EditMessageTextParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text:      msg.Text,
		Entities:  msg.Entities,
	}
	if markup := inlineKeyboard(msg); markup != nil {
		params.ReplyMarkup = markup
	}

	if _, err := h.bot.EditMessageText(reqCtx, params); err != nil {
		h.logger.Debug().Err(err).Int("message_id", msg.ID).Msg("Callback message left as is")
	}
}

func (h *Handlers) botUser(ctx context.Context) (*models.User, error) {
	h.selfMu.Lock()
	defer h.selfMu.Unlock()

	if h.self != nil {
		return h.self, nil
	}

	self, err := h.bot.GetMe(ctx)
	if err != nil {
		return nil, pkgerrors.WrapNetworkError("failed to get bot identity", err)
	}
	h.self = self
	return self, nil
}

func (h *Handlers) reply(ctx context.Context, msg *models.Message, text string) {
	reqCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.bot.SendMessage(reqCtx, &tgbot.SendMessageParams{
		ChatID:          msg.Chat.ID,
		Text:            text,
		ReplyParameters: &models.ReplyParameters{MessageID: msg.ID},
	})
	if err != nil {
		h.logger.Error().Int64("chat_id", msg.Chat.ID).Err(err).Msg("Failed to send Telegram response")
	}
}

func (h *Handlers) logCommand(chatID int64, result string) {
	h.logger.Info().Int64("chat_id", chatID).Str("command", "/ok").Str("result", result).Msg("Telegram command processed")
}

func (h *Handlers) logError(chatID int64, err error) {
	h.logger.Error().Int64("chat_id", chatID).Str("command", "/ok").Str("error_kind", pkgerrors.Kind(err)).Err(err).Msg("Telegram command failed")
}

// errorReply maps a use case error onto the text shown in the chat
func errorReply(err error) string {
	if errors.Is(err, channelerrors.ErrWrongChatType) || errors.Is(err, channelerrors.ErrNoPostingRights) {
		return err.Error()
	}
	return fmt.Sprintf("❌ Error: %s", err.Error())
}

// commandMessage returns the message carrying a command, from either a
// group message or a channel post
func commandMessage(update *models.Update) *models.Message {
	if update == nil {
		return nil
	}
	if update.ChannelPost != nil {
		return update.ChannelPost
	}
	return update.Message
}

// parseCommand splits "/ok@bot_name args" into "ok" and "bot_name"
func parseCommand(text string) (command, mention string) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", ""
	}

	command = strings.TrimPrefix(fields[0], "/")
	if i := strings.Index(command, "@"); i >= 0 {
		command, mention = command[:i], command[i+1:]
	}
	return strings.ToLower(command), mention
}

// canPostAs applies the posting rights rule for the bot's membership
func canPostAs(member *models.ChatMember, chatType entities.ChatType) bool {
	if member == nil {
		return false
	}

	switch member.Type {
	case models.ChatMemberTypeOwner:
		return true
	case models.ChatMemberTypeAdministrator:
		if chatType == entities.ChatTypeChannel {
			return member.Administrator != nil && member.Administrator.CanPostMessages
		}
		return true
	case models.ChatMemberTypeMember:
		return chatType == entities.ChatTypeSupergroup
	case models.ChatMemberTypeRestricted:
		return chatType == entities.ChatTypeSupergroup &&
			member.Restricted != nil && member.Restricted.CanSendMessages
	default:
		return false
	}
}

func chatFromModel(chat models.Chat) entities.Chat {
	return entities.Chat{
		ID:       chat.ID,
		Type:     entities.ChatType(chat.Type),
		Username: chat.Username,
		Title:    chat.Title,
	}
}

func requesterFromModel(user *models.User) *entities.Requester {
	if user == nil {
		return nil
	}
	return &entities.Requester{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.Username,
	}
}

// chatIDParam sends numeric ids as numbers and @usernames as strings
func chatIDParam(chatID string) any {
	if id, err := strconv.ParseInt(chatID, 10, 64); err == nil {
		return id
	}
	return chatID
}

// inlineKeyboard extracts the inline keyboard of msg, nil when it has none
func inlineKeyboard(msg *models.Message) *models.InlineKeyboardMarkup {
	raw, err := json.Marshal(msg)
	if err != nil {
		return nil
	}

	var payload struct {
		ReplyMarkup *models.InlineKeyboardMarkup `json:"reply_markup"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil || payload.ReplyMarkup == nil {
		return nil
	}
	if len(payload.ReplyMarkup.InlineKeyboard) == 0 {
		return nil
	}
	return payload.ReplyMarkup
}
