// Package telegram contains the MTProto session client of the privileged user account
package telegram

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	channelentities "github.com/Devensh22345/channel-adder/internal/domain/channel/entities"
	"github.com/Devensh22345/channel-adder/internal/domain/provisioning/entities"
	"github.com/Devensh22345/channel-adder/internal/infrastructure/metrics"
	pkgerrors "github.com/Devensh22345/channel-adder/pkg/errors"
)

// SessionClient drives the privileged user account through gotd/td.
// It implements the channel domain InviteLinkExporter and the
// provisioning domain SessionClient.
type SessionClient struct {
	client *telegram.Client

	apiID   int
	apiHash string

	storage session.Storage

	connected     bool
	disconnecting bool
	mu            sync.RWMutex
	cancelFunc    context.CancelFunc
	runDone       chan struct{}

	api  *tg.Client
	self *tg.User

	// channels caches resolved channels by bare id so numeric references
	// can be turned into input peers without an access hash lookup
	channels   map[int64]*tg.Channel
	channelsMu sync.RWMutex

	rateLimiter *rate.Limiter
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// SessionClientConfig holds configuration for SessionClient
type SessionClientConfig struct {
	APIID     int
	APIHash   string
	Storage   session.Storage
	RateLimit int
	Metrics   *metrics.Metrics
	Logger    zerolog.Logger
}

// NewSessionClient creates a new session client instance
func NewSessionClient(cfg SessionClientConfig) (*SessionClient, error) {
	if cfg.APIID == 0 {
		return nil, fmt.Errorf("APIID is required")
	}
	if cfg.APIHash == "" {
		return nil, fmt.Errorf("APIHash is required")
	}
	if cfg.Storage == nil {
		return nil, fmt.Errorf("session storage is required")
	}

	// a non-positive rate turns pacing off
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Second/time.Duration(cfg.RateLimit)), cfg.RateLimit)
	}

	return &SessionClient{
		apiID:       cfg.APIID,
		apiHash:     cfg.APIHash,
		storage:     cfg.Storage,
		channels:    make(map[int64]*tg.Channel),
		rateLimiter: limiter,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger.With().Str("component", "session_client").Logger(),
	}, nil
}

// Connect restores the stored session and keeps the connection open until Disconnect.
// ctx only bounds the wait for the connection to become ready.
func (c *SessionClient) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		c.logger.Debug().Msg("already connected")
		return nil
	}
	if c.disconnecting {
		c.mu.Unlock()
		return fmt.Errorf("disconnect in progress, cannot connect")
	}
	defer c.mu.Unlock()

	c.logger.Info().Msg("connecting to Telegram")

	c.client = telegram.NewClient(c.apiID, c.apiHash, telegram.Options{
		SessionStorage: c.storage,
	})

	clientCtx, cancel := context.WithCancel(context.Background())
	c.cancelFunc = cancel

	readyChan := make(chan readySession)
	errChan := make(chan error, 1)
	runDone := make(chan struct{})
	c.runDone = runDone
	client := c.client

	go func() {
		defer close(runDone)
		err := client.Run(clientCtx, func(ctx context.Context) error {
			status, err := client.Auth().Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to check auth status: %w", err)
			}
			if !status.Authorized {
				return ErrUnauthorized
			}

			self, err := client.Self(ctx)
			if err != nil {
				return fmt.Errorf("failed to get self: %w", err)
			}

			if err := publishReady(ctx, readyChan, readySession{api: client.API(), self: self}); err != nil {
				return err
			}

			<-ctx.Done()
			return ctx.Err()
		})
		select {
		case errChan <- err:
		default:
		}
	}()

	return c.awaitReady(ctx, readyChan, errChan, cancel)
}

// readySession is handed from the run loop to Connect once the session is usable
type readySession struct {
	api  *tg.Client
	self *tg.User
}

// publishReady delivers s to Connect unless the run loop is already cancelled
func publishReady(ctx context.Context, ready chan<- readySession, s readySession) error {
	select {
	case ready <- s:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// awaitReady waits for the run loop and records the session state.
// c.mu must be held by the caller.
func (c *SessionClient) awaitReady(
	ctx context.Context,
	ready <-chan readySession,
	errs <-chan error,
	cancel context.CancelFunc,
) error {
	select {
	case s := <-ready:
		c.api = s.api
		c.self = s.self
		c.connected = true

		if s.self != nil {
			c.logger.Info().
				Int64("user_id", s.self.ID).
				Str("username", s.self.Username).
				Msg("session restored, connected to Telegram")
		}
		c.setConnectedMetric(true)
		return nil
	case err := <-errs:
		cancel()
		if err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}
		return fmt.Errorf("failed to connect: client stopped")
	case <-ctx.Done():
		cancel()
		return ctx.Err()
	}
}

// Disconnect cancels the client run loop and waits for it to finish or ctx to expire.
// Multiple calls are safe.
func (c *SessionClient) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	if c.disconnecting {
		c.mu.Unlock()
		c.logger.Debug().Msg("disconnect already in progress")
		return nil
	}
	if !c.connected {
		c.mu.Unlock()
		c.logger.Debug().Msg("already disconnected")
		return nil
	}

	c.logger.Info().Msg("disconnecting from Telegram")

	c.disconnecting = true
	cancelFunc := c.cancelFunc
	runDone := c.runDone
	c.mu.Unlock()

	if cancelFunc != nil {
		cancelFunc()

		if runDone != nil {
			select {
			case <-runDone:
				c.logger.Debug().Msg("client stopped gracefully")
			case <-ctx.Done():
				c.logger.Warn().Msg("disconnect timeout reached while waiting for client shutdown")
			}
		}
	}

	c.mu.Lock()
	c.client = nil
	c.api = nil
	c.connected = false
	c.cancelFunc = nil
	c.runDone = nil
	c.disconnecting = false
	c.mu.Unlock()

	c.setConnectedMetric(false)
	c.logger.Info().Msg("successfully disconnected from Telegram")
	return nil
}

// IsConnected checks if client is connected to Telegram
func (c *SessionClient) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Ping reports whether the session is usable, for health checks
func (c *SessionClient) Ping(_ context.Context) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}
	return nil
}

// Self returns the session account identity captured on connect
func (c *SessionClient) Self(ctx context.Context) (*entities.SessionUser, error) {
	c.mu.RLock()
	self := c.self
	connected := c.connected
	c.mu.RUnlock()

	if !connected {
		return nil, ErrNotConnected
	}
	if self != nil {
		return sessionUser(self), nil
	}

	api, err := c.apiClient(ctx)
	if err != nil {
		return nil, err
	}

	users, err := api.UsersGetUsers(ctx, []tg.InputUserClass{&tg.InputUserSelf{}})
	c.recordCall("self", err)
	if err != nil {
		return nil, classifyError("failed to get self", err)
	}
	for _, u := range users {
		if user, ok := u.(*tg.User); ok {
			c.mu.Lock()
			c.self = user
			c.mu.Unlock()
			return sessionUser(user), nil
		}
	}

	return nil, ErrNotAUser
}

// ExportInviteLink creates a new invite link with no expiry and no usage limit
func (c *SessionClient) ExportInviteLink(ctx context.Context, ref channelentities.ChannelRef, title string) (string, error) {
	channel, err := c.resolveChannel(ctx, ref)
	if err != nil {
		return "", err
	}

	api, err := c.apiClient(ctx)
	if err != nil {
		return "", err
	}

	invite, err := api.MessagesExportChatInvite(ctx, &tg.MessagesExportChatInviteRequest{
		Peer:  inputPeer(channel),
		Title: title,
	})
	c.recordCall("export_invite", err)
	if err != nil {
		c.logger.Error().Err(err).Int64("channel_id", ref.ID).Msg("failed to export invite link")
		return "", classifyError("failed to export invite link", err)
	}

	exported, ok := invite.(*tg.ChatInviteExported)
	if !ok {
		return "", pkgerrors.NewInternalError(fmt.Sprintf("unexpected invite type %T", invite))
	}

	c.logger.Info().Int64("channel_id", ref.ID).Msg("invite link exported")
	return exported.Link, nil
}

// JoinChannel joins the channel, falling back to the invite link when the
// channel cannot be resolved by id or username.
func (c *SessionClient) JoinChannel(ctx context.Context, ref channelentities.ChannelRef) (entities.JoinOutcome, error) {
	channel, err := c.resolveChannel(ctx, ref)
	if err != nil {
		if pkgerrors.IsNotFoundError(err) && ref.InviteLink != "" {
			return c.joinByInvite(ctx, ref)
		}
		return entities.JoinOutcomeFailed, err
	}

	api, err := c.apiClient(ctx)
	if err != nil {
		return entities.JoinOutcomeFailed, err
	}

	// the cached snapshot may predate a kick or a leave, so only a
	// refreshed channel is trusted for membership
	fresh, err := c.refreshChannel(ctx, api, channel)
	switch {
	case err != nil:
		c.logger.Debug().Err(err).Int64("channel_id", ref.ID).Msg("channel refresh failed, joining anyway")
	case !fresh.Left && !fresh.Min:
		c.logger.Debug().Int64("channel_id", ref.ID).Msg("session already in channel")
		return entities.JoinOutcomeAlreadyMember, nil
	default:
		channel = fresh
	}

	_, err = api.ChannelsJoinChannel(ctx, inputChannel(channel))
	c.recordCall("join", err)
	if err != nil {
		if isAlreadyParticipant(err) {
			return entities.JoinOutcomeAlreadyMember, nil
		}
		c.logger.Error().Err(err).Int64("channel_id", ref.ID).Msg("failed to join channel")
		return entities.JoinOutcomeFailed, classifyError("failed to join channel", err)
	}

	c.logger.Info().Int64("channel_id", ref.ID).Msg("successfully joined channel")
	return entities.JoinOutcomeJoined, nil
}

// refreshChannel reloads the channel so membership flags are current
func (c *SessionClient) refreshChannel(ctx context.Context, api *tg.Client, channel *tg.Channel) (*tg.Channel, error) {
	chats, err := api.ChannelsGetChannels(ctx, []tg.InputChannelClass{inputChannel(channel)})
	c.recordCall("get_channels", err)
	if err != nil {
		return nil, classifyError("failed to refresh channel", err)
	}

	list := chats.GetChats()
	c.rememberChats(list)
	for _, chat := range list {
		if fresh, ok := chat.(*tg.Channel); ok && fresh.ID == channel.ID {
			return fresh, nil
		}
	}
	return nil, ErrNotAChannel
}

func (c *SessionClient) joinByInvite(ctx context.Context, ref channelentities.ChannelRef) (entities.JoinOutcome, error) {
	hash := InviteHash(ref.InviteLink)
	if hash == "" {
		return entities.JoinOutcomeFailed, pkgerrors.NewValidationErrorf("invalid invite link %q", ref.InviteLink)
	}

	api, err := c.apiClient(ctx)
	if err != nil {
		return entities.JoinOutcomeFailed, err
	}

	updates, err := api.MessagesImportChatInvite(ctx, hash)
	c.recordCall("import_invite", err)
	if err != nil {
		if isAlreadyParticipant(err) {
			return entities.JoinOutcomeAlreadyMember, nil
		}
		c.logger.Error().Err(err).Int64("channel_id", ref.ID).Msg("failed to join channel by invite")
		return entities.JoinOutcomeFailed, classifyError("failed to join channel by invite", err)
	}

	if u, ok := updates.(interface{ GetChats() []tg.ChatClass }); ok {
		c.rememberChats(u.GetChats())
	}

	c.logger.Info().Int64("channel_id", ref.ID).Msg("joined channel by invite link")
	return entities.JoinOutcomeJoined, nil
}

// PromoteSelf grants the session account the full admin right set
func (c *SessionClient) PromoteSelf(ctx context.Context, ref channelentities.ChannelRef, self *entities.SessionUser, rank string) error {
	channel, err := c.resolveChannel(ctx, ref)
	if err != nil {
		return err
	}

	api, err := c.apiClient(ctx)
	if err != nil {
		return err
	}

	_, err = api.ChannelsEditAdmin(ctx, &tg.ChannelsEditAdminRequest{
		Channel:     inputChannel(channel),
		UserID:      &tg.InputUser{UserID: self.ID, AccessHash: self.AccessHash},
		AdminRights: FullAdminRights(channel.Megagroup),
		Rank:        rank,
	})
	c.recordCall("promote_self", err)
	if err != nil {
		c.logger.Error().Err(err).Int64("channel_id", ref.ID).Msg("failed to promote session account")
		return classifyError("failed to promote session account", err)
	}

	c.logger.Info().Int64("channel_id", ref.ID).Msg("session account promoted")
	return nil
}

// InviteAndRestrict invites the bot and promotes it with the bot right set
func (c *SessionClient) InviteAndRestrict(ctx context.Context, ref channelentities.ChannelRef, botHandle, rank string) error {
	handle := NormalizeHandle(botHandle)
	if handle == "" {
		return pkgerrors.NewValidationError("bot handle is empty")
	}

	channel, err := c.resolveChannel(ctx, ref)
	if err != nil {
		return err
	}

	bot, err := c.resolveUser(ctx, handle)
	if err != nil {
		return err
	}

	api, err := c.apiClient(ctx)
	if err != nil {
		return err
	}

	_, err = api.ChannelsInviteToChannel(ctx, &tg.ChannelsInviteToChannelRequest{
		Channel: inputChannel(channel),
		Users:   []tg.InputUserClass{bot},
	})
	c.recordCall("invite_bot", err)
	if err != nil && !isAlreadyParticipant(err) {
		return classifyError(fmt.Sprintf("failed to invite @%s", handle), err)
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	_, err = api.ChannelsEditAdmin(ctx, &tg.ChannelsEditAdminRequest{
		Channel:     inputChannel(channel),
		UserID:      bot,
		AdminRights: BotAdminRights(),
		Rank:        rank,
	})
	c.recordCall("promote_bot", err)
	if err != nil {
		return classifyError(fmt.Sprintf("failed to promote @%s", handle), err)
	}

	c.logger.Info().Int64("channel_id", ref.ID).Str("bot", handle).Msg("bot invited and promoted")
	return nil
}

// apiClient returns the raw API after the connection and rate limit checks
func (c *SessionClient) apiClient(ctx context.Context) (*tg.Client, error) {
	c.mu.RLock()
	api := c.api
	connected := c.connected
	c.mu.RUnlock()

	if !connected || api == nil {
		return nil, ErrNotConnected
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	return api, nil
}

func (c *SessionClient) recordCall(operation string, err error) {
	if c.metrics != nil {
		c.metrics.RecordSessionCall(operation, pkgerrors.Kind(classifyError(operation, err)))
	}
}

func (c *SessionClient) setConnectedMetric(connected bool) {
	if c.metrics != nil {
		c.metrics.SetSessionConnected(connected)
	}
}

func sessionUser(u *tg.User) *entities.SessionUser {
	return &entities.SessionUser{
		ID:         u.ID,
		AccessHash: u.AccessHash,
		Username:   u.Username,
	}
}

func inputChannel(ch *tg.Channel) *tg.InputChannel {
	return &tg.InputChannel{ChannelID: ch.ID, AccessHash: ch.AccessHash}
}

func inputPeer(ch *tg.Channel) *tg.InputPeerChannel {
	return &tg.InputPeerChannel{ChannelID: ch.ID, AccessHash: ch.AccessHash}
}

func isAlreadyParticipant(err error) bool {
	return tgerr.Is(err, errAlreadyParticipant)
}
