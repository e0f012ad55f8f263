// Package business contains business logic for the channel domain
package business

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Devensh22345/channel-adder/config"
	"github.com/Devensh22345/channel-adder/internal/domain/channel/deps"
	"github.com/Devensh22345/channel-adder/internal/domain/channel/dto"
	"github.com/Devensh22345/channel-adder/internal/domain/channel/entities"
	channelerrors "github.com/Devensh22345/channel-adder/internal/domain/channel/errors"
	"github.com/Devensh22345/channel-adder/internal/infrastructure/metrics"
)

// SuccessMessage is the reply sent to the channel after a request is recorded
const SuccessMessage = "✅ Request link has been generated and sent!"

// UseCase handles the /ok onboarding command
type UseCase struct {
	channels     deps.ChannelRepository
	requests     deps.RequestRepository
	links        deps.InviteLinkExporter
	gateway      deps.BotGateway
	reviewChatID string
	now          func() time.Time
	logger       zerolog.Logger
	metrics      *metrics.Metrics
}

// NewUseCase creates a new channel use case.
// The bot gateway is set later with SetGateway to break the cycle with the delivery handlers.
func NewUseCase(
	channels deps.ChannelRepository,
	requests deps.RequestRepository,
	links deps.InviteLinkExporter,
	botCfg *config.BotConfig,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *UseCase {
	return &UseCase{
		channels:     channels,
		requests:     requests,
		links:        links,
		reviewChatID: botCfg.ReviewChatID,
		now:          time.Now,
		logger:       logger.With().Str("component", "channel-usecase").Logger(),
		metrics:      m,
	}
}

// SetGateway sets the BotGateway after construction
func (u *UseCase) SetGateway(gateway deps.BotGateway) {
	u.gateway = gateway
}

// HandleOk verifies the invocation context, generates an invite link,
// records the channel, notifies the review chat and records the request.
// Nothing is written when a precondition fails.
func (u *UseCase) HandleOk(ctx context.Context, req *dto.OkCommandRequest) (*dto.CommandResponse, error) {
	chat := req.Chat

	if !chat.IsBroadcastCapable() {
		u.recordCommand("wrong_chat")
		return nil, channelerrors.ErrWrongChatType
	}

	canPost, err := u.gateway.CanPost(ctx, chat)
	if err != nil {
		u.logger.Error().Err(err).Int64("channel_id", chat.ID).Msg("Failed to check bot posting rights")
		u.recordCommand("error")
		return nil, fmt.Errorf("failed to check posting rights: %w", err)
	}
	if !canPost {
		u.recordCommand("no_rights")
		return nil, channelerrors.ErrNoPostingRights
	}

	now := u.now()
	ref := entities.ChannelRef{ID: chat.ID, Username: chat.Username}

	link, err := u.links.ExportInviteLink(ctx, ref, InviteTitle(now))
	if err != nil {
		u.logger.Error().Err(err).Int64("channel_id", chat.ID).Msg("Failed to export invite link")
		u.recordCommand("error")
		return nil, err
	}
	if link == "" {
		u.recordCommand("error")
		return nil, channelerrors.ErrEmptyInviteLink
	}

	var addedBy *int64
	if req.Requester != nil {
		id := req.Requester.ID
		addedBy = &id
	}

	if err := u.channels.UpsertChannel(ctx, entities.NewChannel(chat, addedBy, now)); err != nil {
		u.logger.Error().Err(err).Int64("channel_id", chat.ID).Msg("Failed to store channel")
		u.recordCommand("error")
		return nil, err
	}

	notification := BuildNotification(u.reviewChatID, chat, req.Requester, link)
	messageID, err := u.gateway.SendNotification(ctx, notification)
	if err != nil {
		u.logger.Error().Err(err).Int64("channel_id", chat.ID).Msg("Failed to send review notification")
		u.recordCommand("error")
		return nil, err
	}

	requestID, err := u.requests.CreateRequest(ctx, &entities.JoinRequest{
		ChannelID:   chat.ID,
		ChatID:      u.reviewChatID,
		MessageID:   messageID,
		RequestLink: link,
		CreatedAt:   now,
		Status:      entities.RequestStatusPending,
	})
	if err != nil {
		u.logger.Error().Err(err).Int64("channel_id", chat.ID).Msg("Failed to store join request")
		u.recordCommand("error")
		return nil, err
	}

	u.logger.Info().
		Int64("channel_id", chat.ID).
		Str("request_id", requestID).
		Int("message_id", messageID).
		Msg("Join request created")
	u.recordCommand("success")

	return &dto.CommandResponse{
		Message:    SuccessMessage,
		RequestID:  requestID,
		InviteLink: link,
	}, nil
}

func (u *UseCase) recordCommand(result string) {
	if u.metrics != nil {
		u.metrics.RecordCommand(result)
	}
}
