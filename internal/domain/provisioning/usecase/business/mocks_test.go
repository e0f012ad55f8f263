package business

import (
	"context"
	"sync"

	channelentities "github.com/Devensh22345/channel-adder/internal/domain/channel/entities"
	channelerrors "github.com/Devensh22345/channel-adder/internal/domain/channel/errors"
	"github.com/Devensh22345/channel-adder/internal/domain/provisioning/entities"
)

type mockSession struct {
	joinOutcome entities.JoinOutcome
	joinErr     error
	self        *entities.SessionUser
	selfErr     error
	promoteErr  error
	botErrs     map[string]error
	blockJoin   bool

	joinRefs    []channelentities.ChannelRef
	promoted    []string
	invitedBots []string
}

func newMockSession() *mockSession {
	return &mockSession{
		joinOutcome: entities.JoinOutcomeJoined,
		self:        &entities.SessionUser{ID: 777, AccessHash: 1, Username: "adder_session"},
		botErrs:     map[string]error{},
	}
}

func (m *mockSession) JoinChannel(ctx context.Context, ref channelentities.ChannelRef) (entities.JoinOutcome, error) {
	m.joinRefs = append(m.joinRefs, ref)
	if m.blockJoin {
		<-ctx.Done()
		return entities.JoinOutcomeFailed, ctx.Err()
	}
	if m.joinErr != nil {
		return entities.JoinOutcomeFailed, m.joinErr
	}
	return m.joinOutcome, nil
}

func (m *mockSession) Self(ctx context.Context) (*entities.SessionUser, error) {
	return m.self, m.selfErr
}

func (m *mockSession) PromoteSelf(ctx context.Context, ref channelentities.ChannelRef, self *entities.SessionUser, rank string) error {
	m.promoted = append(m.promoted, rank)
	return m.promoteErr
}

func (m *mockSession) InviteAndRestrict(ctx context.Context, ref channelentities.ChannelRef, botHandle, rank string) error {
	m.invitedBots = append(m.invitedBots, botHandle)
	return m.botErrs[botHandle]
}

type mockChannelStore struct {
	mu       sync.Mutex
	channels map[int64]*channelentities.Channel
	getErr   error
	setErr   map[channelentities.ChannelField]error
}

func newMockChannelStore(channels ...*channelentities.Channel) *mockChannelStore {
	store := &mockChannelStore{
		channels: make(map[int64]*channelentities.Channel),
		setErr:   make(map[channelentities.ChannelField]error),
	}
	for _, ch := range channels {
		store.channels[ch.ChannelID] = ch
	}
	return store
}

func (m *mockChannelStore) GetChannel(ctx context.Context, channelID int64) (*channelentities.Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getErr != nil {
		return nil, m.getErr
	}
	ch, ok := m.channels[channelID]
	if !ok {
		return nil, channelerrors.ErrChannelNotFound
	}
	copied := *ch
	return &copied, nil
}

func (m *mockChannelStore) SetChannelField(ctx context.Context, channelID int64, field channelentities.ChannelField, value bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.setErr[field]; err != nil {
		return err
	}
	ch, ok := m.channels[channelID]
	if !ok {
		return channelerrors.ErrChannelNotFound
	}
	switch field {
	case channelentities.FieldSessionJoined:
		ch.SessionJoined = value
	case channelentities.FieldBotAdded:
		ch.BotAdded = value
	case channelentities.FieldIsActive:
		ch.IsActive = value
	}
	return nil
}

type mockPublisher struct {
	events []*entities.ProvisioningEvent
	err    error
}

func (m *mockPublisher) PublishProvisioningEvent(ctx context.Context, event *entities.ProvisioningEvent) error {
	m.events = append(m.events, event)
	return m.err
}
