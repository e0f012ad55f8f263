package telegram

import (
	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
)

// OkCommand is the administrative onboarding command
const OkCommand = "ok"

// Router registers Telegram bot handlers
type Router struct {
	handlers *Handlers
	logger   zerolog.Logger
}

// NewRouter creates new Telegram router
func NewRouter(handlers *Handlers, logger zerolog.Logger) *Router {
	return &Router{
		handlers: handlers,
		logger:   logger,
	}
}

// RegisterRoutes registers all handlers on the bot
func (r *Router) RegisterRoutes(bot *tgbot.Bot) {
	// /ok arrives as channel_post in channels and as message in supergroups
	bot.RegisterHandlerMatchFunc(isOkCommand, r.handlers.HandleOk)
	bot.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, "", tgbot.MatchTypePrefix, r.handlers.HandleCallback)

	r.logger.Info().Msg("All Telegram command handlers registered successfully")
}

func isOkCommand(update *models.Update) bool {
	msg := commandMessage(update)
	if msg == nil {
		return false
	}
	command, _ := parseCommand(msg.Text)
	return command == OkCommand
}
