package business

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Devensh22345/channel-adder/config"
	channelentities "github.com/Devensh22345/channel-adder/internal/domain/channel/entities"
	"github.com/Devensh22345/channel-adder/internal/domain/provisioning/entities"
	pkgerrors "github.com/Devensh22345/channel-adder/pkg/errors"
)

const testChannelID int64 = -1001234567890

func storedChannel() *channelentities.Channel {
	return &channelentities.Channel{
		ChannelID: testChannelID,
		Username:  "news_channel",
		Title:     "News",
		AddedAt:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		IsActive:  true,
	}
}

func newTestUseCase(session *mockSession, store *mockChannelStore, publisher *mockPublisher, bots ...string) *UseCase {
	cfg := &config.ProvisioningConfig{
		BotsToAdd:        bots,
		SessionAdminRank: "Bot Admin",
		BotAdminRank:     "Bot",
	}
	return NewUseCase(session, store, publisher, cfg, zerolog.Nop(), nil)
}

func TestProvision_PromotionFails(t *testing.T) {
	session := newMockSession()
	session.promoteErr = pkgerrors.NewPermissionError("CHAT_ADMIN_REQUIRED")
	store := newMockChannelStore(storedChannel())
	publisher := &mockPublisher{}

	uc := newTestUseCase(session, store, publisher, "helper_bot")
	result := uc.Provision(context.Background(), testChannelID, "req-1", "https://t.me/+abc")

	assert.False(t, result.Success)
	assert.Equal(t, "Failed to promote to admin", result.Message)
	assert.True(t, store.channels[testChannelID].SessionJoined)
	assert.False(t, store.channels[testChannelID].BotAdded)
	assert.Empty(t, session.invitedBots)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, entities.EventTypeChannelProvisionFailed, publisher.events[0].Type)
}

func TestProvision_NoBotsConfigured(t *testing.T) {
	session := newMockSession()
	store := newMockChannelStore(storedChannel())
	publisher := &mockPublisher{}

	uc := newTestUseCase(session, store, publisher)
	result := uc.Provision(context.Background(), testChannelID, "req-1", "")

	assert.True(t, result.Success)
	assert.Equal(t, "Success! Added bots: No bots configured", result.Message)
	assert.True(t, store.channels[testChannelID].SessionJoined)
	assert.True(t, store.channels[testChannelID].BotAdded)
	assert.Equal(t, []string{"Bot Admin"}, session.promoted)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, entities.EventTypeChannelProvisioned, publisher.events[0].Type)
	assert.Equal(t, "req-1", publisher.events[0].RequestID)
}

func TestProvision_BotFailureDoesNotStopOthers(t *testing.T) {
	session := newMockSession()
	session.botErrs["broken_bot"] = pkgerrors.NewNotFoundError("USERNAME_NOT_OCCUPIED")
	store := newMockChannelStore(storedChannel())

	uc := newTestUseCase(session, store, &mockPublisher{}, "@first_bot", " ", "broken_bot", "@", "last_bot ")
	result := uc.Provision(context.Background(), testChannelID, "", "")

	assert.Equal(t, []string{"first_bot", "broken_bot", "last_bot"}, session.invitedBots)
	assert.True(t, result.Success)
	assert.Equal(t, "Success! Added bots: first_bot, last_bot", result.Message)
	assert.Equal(t, []string{"first_bot", "last_bot"}, result.AddedBots)
	assert.Equal(t, []string{"broken_bot"}, result.FailedBots)
	assert.True(t, store.channels[testChannelID].BotAdded)
}

func TestProvision_AllBotsFail(t *testing.T) {
	session := newMockSession()
	session.botErrs["only_bot"] = errors.New("BOT_GROUPS_BLOCKED")
	store := newMockChannelStore(storedChannel())

	uc := newTestUseCase(session, store, &mockPublisher{}, "only_bot")
	result := uc.Provision(context.Background(), testChannelID, "", "")

	assert.True(t, result.Success)
	assert.Equal(t, "Success! Added bots: No bots configured", result.Message)
	assert.True(t, store.channels[testChannelID].BotAdded)
}

func TestProvision_JoinFails(t *testing.T) {
	session := newMockSession()
	session.joinErr = pkgerrors.NewPermissionError("CHANNEL_PRIVATE")
	store := newMockChannelStore(storedChannel())

	uc := newTestUseCase(session, store, &mockPublisher{}, "helper_bot")
	result := uc.Provision(context.Background(), testChannelID, "", "")

	assert.False(t, result.Success)
	assert.Equal(t, "Failed to join channel", result.Message)
	assert.False(t, store.channels[testChannelID].SessionJoined)
	assert.False(t, store.channels[testChannelID].BotAdded)
	assert.Empty(t, session.promoted)
}

func TestProvision_AlreadyMemberIsSuccess(t *testing.T) {
	session := newMockSession()
	session.joinOutcome = entities.JoinOutcomeAlreadyMember
	store := newMockChannelStore(storedChannel())

	uc := newTestUseCase(session, store, &mockPublisher{})
	result := uc.Provision(context.Background(), testChannelID, "", "")

	assert.True(t, result.Success)
	assert.True(t, store.channels[testChannelID].SessionJoined)
}

func TestProvision_UsesStoredUsernameAndInviteLink(t *testing.T) {
	session := newMockSession()
	store := newMockChannelStore(storedChannel())

	uc := newTestUseCase(session, store, &mockPublisher{})
	uc.Provision(context.Background(), testChannelID, "", "https://t.me/+abc")

	require.Len(t, session.joinRefs, 1)
	assert.Equal(t, channelentities.ChannelRef{
		ID:         testChannelID,
		Username:   "news_channel",
		InviteLink: "https://t.me/+abc",
	}, session.joinRefs[0])
}

func TestProvision_UnknownChannelResolvesByID(t *testing.T) {
	session := newMockSession()
	store := newMockChannelStore()

	uc := newTestUseCase(session, store, &mockPublisher{})
	result := uc.Provision(context.Background(), testChannelID, "", "")

	require.Len(t, session.joinRefs, 1)
	assert.Equal(t, testChannelID, session.joinRefs[0].ID)
	assert.Empty(t, session.joinRefs[0].Username)

	// the milestone write fails because there is no record to update
	assert.False(t, result.Success)
	assert.Equal(t, "channel not found", result.Message)
}

func TestProvision_StoreUnavailable(t *testing.T) {
	session := newMockSession()
	store := newMockChannelStore(storedChannel())
	store.getErr = pkgerrors.NewPersistenceError("server selection timeout")

	uc := newTestUseCase(session, store, &mockPublisher{})
	result := uc.Provision(context.Background(), testChannelID, "", "")

	assert.False(t, result.Success)
	assert.Equal(t, "server selection timeout", result.Message)
	assert.Empty(t, session.joinRefs)
}

func TestProvision_SelfFails(t *testing.T) {
	session := newMockSession()
	session.self = nil
	session.selfErr = pkgerrors.NewNetworkError("connection reset")
	store := newMockChannelStore(storedChannel())

	uc := newTestUseCase(session, store, &mockPublisher{})
	result := uc.Provision(context.Background(), testChannelID, "", "")

	assert.False(t, result.Success)
	assert.Equal(t, "connection reset", result.Message)
	assert.True(t, store.channels[testChannelID].SessionJoined)
	assert.Empty(t, session.promoted)
}

func TestProvision_PublishFailureKeepsResult(t *testing.T) {
	session := newMockSession()
	store := newMockChannelStore(storedChannel())
	publisher := &mockPublisher{err: errors.New("kafka: client has run out of available brokers")}

	uc := newTestUseCase(session, store, publisher)
	result := uc.Provision(context.Background(), testChannelID, "", "")

	assert.True(t, result.Success)
	assert.Len(t, publisher.events, 1)
}

func TestHandleRequest(t *testing.T) {
	t.Run("completed", func(t *testing.T) {
		uc := newTestUseCase(newMockSession(), newMockChannelStore(storedChannel()), &mockPublisher{})

		status, err := uc.HandleRequest(context.Background(), channelentities.JoinRequest{
			ID:        "req-1",
			ChannelID: testChannelID,
			Status:    channelentities.RequestStatusPending,
		})
		require.NoError(t, err)
		assert.Equal(t, channelentities.RequestStatusCompleted, status)
	})

	t.Run("failed", func(t *testing.T) {
		session := newMockSession()
		session.joinErr = errors.New("INVITE_HASH_EXPIRED")
		uc := newTestUseCase(session, newMockChannelStore(storedChannel()), &mockPublisher{})

		status, err := uc.HandleRequest(context.Background(), channelentities.JoinRequest{
			ID:        "req-2",
			ChannelID: testChannelID,
		})
		require.NoError(t, err)
		assert.Equal(t, channelentities.RequestStatusFailed, status)
	})
}

func TestSuccessMessage(t *testing.T) {
	assert.Equal(t, "Success! Added bots: No bots configured", SuccessMessage(nil))
	assert.Equal(t, "Success! Added bots: a_bot", SuccessMessage([]string{"a_bot"}))
	assert.Equal(t, "Success! Added bots: a_bot, b_bot", SuccessMessage([]string{"a_bot", "b_bot"}))
}

func TestHandleRequest_InterruptedRunStaysPending(t *testing.T) {
	session := newMockSession()
	session.blockJoin = true
	store := newMockChannelStore(storedChannel())
	uc := newTestUseCase(session, store, &mockPublisher{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	status, err := uc.HandleRequest(ctx, channelentities.JoinRequest{ID: "req-1", ChannelID: testChannelID})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, channelentities.RequestStatusPending, status)
	assert.False(t, store.channels[testChannelID].SessionJoined)
}
