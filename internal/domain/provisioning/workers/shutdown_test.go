package workers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Devensh22345/channel-adder/config"
	channelentities "github.com/Devensh22345/channel-adder/internal/domain/channel/entities"
	"github.com/Devensh22345/channel-adder/internal/domain/provisioning/entities"
	"github.com/Devensh22345/channel-adder/internal/domain/provisioning/usecase/business"
)

// hangingSession blocks in JoinChannel until its context ends
type hangingSession struct {
	once    sync.Once
	joining chan struct{}
}

func (s *hangingSession) JoinChannel(ctx context.Context, ref channelentities.ChannelRef) (entities.JoinOutcome, error) {
	s.once.Do(func() { close(s.joining) })
	<-ctx.Done()
	return entities.JoinOutcomeFailed, ctx.Err()
}

func (s *hangingSession) Self(ctx context.Context) (*entities.SessionUser, error) {
	return &entities.SessionUser{ID: 1}, nil
}

func (s *hangingSession) PromoteSelf(ctx context.Context, ref channelentities.ChannelRef, self *entities.SessionUser, rank string) error {
	return nil
}

func (s *hangingSession) InviteAndRestrict(ctx context.Context, ref channelentities.ChannelRef, botHandle, rank string) error {
	return nil
}

type staticChannelStore struct{}

func (staticChannelStore) GetChannel(ctx context.Context, channelID int64) (*channelentities.Channel, error) {
	return &channelentities.Channel{ChannelID: channelID, Username: "news_channel", IsActive: true}, nil
}

func (staticChannelStore) SetChannelField(ctx context.Context, channelID int64, field channelentities.ChannelField, value bool) error {
	return nil
}

type discardPublisher struct{}

func (discardPublisher) PublishProvisioningEvent(ctx context.Context, event *entities.ProvisioningEvent) error {
	return nil
}

func TestRequestMonitor_StopDuringProvisioningKeepsRequestPending(t *testing.T) {
	session := &hangingSession{joining: make(chan struct{})}
	uc := business.NewUseCase(
		session,
		staticChannelStore{},
		discardPublisher{},
		&config.ProvisioningConfig{SessionAdminRank: "Bot Admin", BotAdminRank: "Bot"},
		zerolog.Nop(),
		nil,
	)

	store := newMockRequestStore(pendingRequest("req-1"))
	monitor := NewRequestMonitor(
		store,
		uc,
		&config.WorkerConfig{MonitorInterval: 10 * time.Millisecond, BatchSize: 10},
		&config.ProvisioningConfig{Timeout: time.Minute},
		zerolog.Nop(),
		nil,
	)

	monitor.Start()

	select {
	case <-session.joining:
	case <-time.After(time.Second):
		monitor.Stop()
		require.FailNow(t, "provisioning never started")
	}

	monitor.Stop()

	_, written := store.status("req-1")
	assert.False(t, written)
}
