// Package business contains the channel provisioning workflow
package business

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Devensh22345/channel-adder/config"
	channelentities "github.com/Devensh22345/channel-adder/internal/domain/channel/entities"
	"github.com/Devensh22345/channel-adder/internal/domain/provisioning/deps"
	"github.com/Devensh22345/channel-adder/internal/domain/provisioning/entities"
	"github.com/Devensh22345/channel-adder/internal/infrastructure/metrics"
	pkgerrors "github.com/Devensh22345/channel-adder/pkg/errors"
)

// Result messages
const (
	MessageJoinFailed    = "Failed to join channel"
	MessagePromoteFailed = "Failed to promote to admin"
	MessageSuccessPrefix = "Success! Added bots: "
	MessageNoBots        = "No bots configured"
)

// Workflow stages, used as metric labels
const (
	StageLookup  = "lookup"
	StageJoin    = "join"
	StagePromote = "promote"
	StageBots    = "bots"
	StageDone    = "done"
)

// UseCase runs the provisioning workflow for one channel at a time
type UseCase struct {
	session     deps.SessionClient
	channels    deps.ChannelStore
	publisher   deps.EventPublisher
	bots        []string
	sessionRank string
	botRank     string
	now         func() time.Time
	logger      zerolog.Logger
	metrics     *metrics.Metrics
}

// NewUseCase creates a new provisioning use case
func NewUseCase(
	session deps.SessionClient,
	channels deps.ChannelStore,
	publisher deps.EventPublisher,
	cfg *config.ProvisioningConfig,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *UseCase {
	return &UseCase{
		session:     session,
		channels:    channels,
		publisher:   publisher,
		bots:        normalizeBots(cfg.BotsToAdd),
		sessionRank: cfg.SessionAdminRank,
		botRank:     cfg.BotAdminRank,
		now:         time.Now,
		logger:      logger.With().Str("component", "provisioning-usecase").Logger(),
		metrics:     m,
	}
}

// Provision joins the channel with the session account, promotes it to full
// admin and invites every configured bot with limited rights.
// Stages run strictly in order. Milestone flags already written are kept
// when a later stage fails.
func (u *UseCase) Provision(ctx context.Context, channelID int64, requestID, inviteLink string) *entities.Result {
	started := u.now()
	log := u.logger.With().Int64("channel_id", channelID).Str("request_id", requestID).Logger()

	ref := channelentities.ChannelRef{ID: channelID, InviteLink: inviteLink}

	channel, err := u.channels.GetChannel(ctx, channelID)
	switch {
	case err == nil:
		ref.Username = channel.Username
	case pkgerrors.IsNotFoundError(err):
		log.Warn().Msg("Channel is not stored, resolving by id only")
	default:
		log.Error().Err(err).Msg("Failed to load channel")
		return u.finish(ctx, channelID, requestID, StageLookup, started, failure(err.Error()))
	}

	// Stage 1: join
	outcome, err := u.session.JoinChannel(ctx, ref)
	if err != nil || !outcome.Succeeded() {
		log.Error().Err(err).Str("outcome", outcome.String()).Msg("Session account failed to join channel")
		return u.finish(ctx, channelID, requestID, StageJoin, started, failure(MessageJoinFailed))
	}
	log.Info().Str("outcome", outcome.String()).Msg("Session account is a channel member")

	// Stage 2: record membership, fetch own identity
	if err := u.channels.SetChannelField(ctx, channelID, channelentities.FieldSessionJoined, true); err != nil {
		log.Error().Err(err).Msg("Failed to mark session_joined")
		return u.finish(ctx, channelID, requestID, StageJoin, started, failure(err.Error()))
	}

	self, err := u.session.Self(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get session account identity")
		return u.finish(ctx, channelID, requestID, StagePromote, started, failure(err.Error()))
	}

	// Stage 3: promote
	if err := u.session.PromoteSelf(ctx, ref, self, u.sessionRank); err != nil {
		log.Error().Err(err).Int64("user_id", self.ID).Msg("Failed to promote session account")
		return u.finish(ctx, channelID, requestID, StagePromote, started, failure(MessagePromoteFailed))
	}

	// Stage 4: helper bots; one failure never stops the rest
	added := make([]string, 0, len(u.bots))
	failed := make([]string, 0)
	for _, bot := range u.bots {
		if err := u.session.InviteAndRestrict(ctx, ref, bot, u.botRank); err != nil {
			log.Error().Err(err).Str("bot", bot).Msg("Failed to add bot")
			failed = append(failed, bot)
			u.recordBot(false)
			continue
		}
		log.Info().Str("bot", bot).Msg("Bot added with limited rights")
		added = append(added, bot)
		u.recordBot(true)
	}

	// bot_added marks the stage as attempted
	if err := u.channels.SetChannelField(ctx, channelID, channelentities.FieldBotAdded, true); err != nil {
		log.Error().Err(err).Msg("Failed to mark bot_added")
		result := failure(err.Error())
		result.AddedBots, result.FailedBots = added, failed
		return u.finish(ctx, channelID, requestID, StageBots, started, result)
	}

	return u.finish(ctx, channelID, requestID, StageDone, started, &entities.Result{
		Success:    true,
		Message:    SuccessMessage(added),
		AddedBots:  added,
		FailedBots: failed,
	})
}

// HandleRequest implements deps.RequestHandler by provisioning the requested channel.
// The request stays pending when ctx ends before the run does.
func (u *UseCase) HandleRequest(ctx context.Context, req channelentities.JoinRequest) (channelentities.RequestStatus, error) {
	result := u.Provision(ctx, req.ChannelID, req.ID, req.RequestLink)
	if err := ctx.Err(); err != nil {
		// an interrupted run is retried on a later tick
		return channelentities.RequestStatusPending, err
	}
	if !result.Success {
		return channelentities.RequestStatusFailed, nil
	}
	return channelentities.RequestStatusCompleted, nil
}

// SuccessMessage lists the added bots, or reports that none were added
func SuccessMessage(added []string) string {
	if len(added) == 0 {
		return MessageSuccessPrefix + MessageNoBots
	}
	return MessageSuccessPrefix + strings.Join(added, ", ")
}

func (u *UseCase) finish(
	ctx context.Context,
	channelID int64,
	requestID string,
	stage string,
	started time.Time,
	result *entities.Result,
) *entities.Result {
	if u.metrics != nil {
		u.metrics.RecordProvisioning(stage, result.Success, u.now().Sub(started).Seconds())
	}

	event := entities.NewProvisioningEvent(channelID, requestID, result)
	if err := u.publisher.PublishProvisioningEvent(ctx, event); err != nil {
		u.logger.Warn().
			Err(err).
			Int64("channel_id", channelID).
			Str("event_type", event.Type).
			Msg("Failed to publish provisioning event")
	}

	u.logger.Info().
		Int64("channel_id", channelID).
		Str("stage", stage).
		Bool("success", result.Success).
		Str("message", result.Message).
		Msg("Provisioning finished")

	return result
}

func (u *UseCase) recordBot(added bool) {
	if u.metrics != nil {
		u.metrics.RecordBot(added)
	}
}

func failure(message string) *entities.Result {
	return &entities.Result{
		Success:   false,
		Message:   message,
		AddedBots: []string{},
	}
}

func normalizeBots(handles []string) []string {
	bots := make([]string, 0, len(handles))
	for _, handle := range handles {
		if handle = strings.TrimPrefix(strings.TrimSpace(handle), "@"); handle != "" {
			bots = append(bots, handle)
		}
	}
	return bots
}
