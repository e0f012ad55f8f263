package business

import (
	"context"
	"errors"

	"github.com/Devensh22345/channel-adder/internal/domain/channel/entities"
)

type mockChannelRepository struct {
	upserted []entities.Channel
	flags    map[entities.ChannelField]bool
	err      error
}

func (m *mockChannelRepository) UpsertChannel(_ context.Context, channel *entities.Channel) error {
	if m.err != nil {
		return m.err
	}
	m.upserted = append(m.upserted, *channel)
	return nil
}

func (m *mockChannelRepository) GetChannel(_ context.Context, channelID int64) (*entities.Channel, error) {
	for i := len(m.upserted) - 1; i >= 0; i-- {
		if m.upserted[i].ChannelID == channelID {
			c := m.upserted[i]
			return &c, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *mockChannelRepository) SetChannelField(_ context.Context, _ int64, field entities.ChannelField, value bool) error {
	if m.flags == nil {
		m.flags = make(map[entities.ChannelField]bool)
	}
	m.flags[field] = value
	return nil
}

func (m *mockChannelRepository) Ping(context.Context) error { return nil }

type mockRequestRepository struct {
	created []entities.JoinRequest
	err     error
}

func (m *mockRequestRepository) CreateRequest(_ context.Context, req *entities.JoinRequest) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.created = append(m.created, *req)
	return "req-1", nil
}

func (m *mockRequestRepository) GetRequest(context.Context, string) (*entities.JoinRequest, error) {
	return nil, errors.New("not implemented")
}

func (m *mockRequestRepository) SetRequestStatus(context.Context, string, entities.RequestStatus) error {
	return nil
}

func (m *mockRequestRepository) ListPendingRequests(context.Context, int) ([]entities.JoinRequest, error) {
	return m.created, nil
}

type mockLinkExporter struct {
	exportFunc func(ctx context.Context, ref entities.ChannelRef, title string) (string, error)
	calls      int
}

func (m *mockLinkExporter) ExportInviteLink(ctx context.Context, ref entities.ChannelRef, title string) (string, error) {
	m.calls++
	if m.exportFunc != nil {
		return m.exportFunc(ctx, ref, title)
	}
	return "https://t.me/+AbCdEf", nil
}

type mockGateway struct {
	canPost    bool
	canPostErr error
	sendErr    error
	sent       []entities.Notification
	checks     int
}

func (m *mockGateway) CanPost(context.Context, entities.Chat) (bool, error) {
	m.checks++
	return m.canPost, m.canPostErr
}

func (m *mockGateway) SendNotification(_ context.Context, n entities.Notification) (int, error) {
	if m.sendErr != nil {
		return 0, m.sendErr
	}
	m.sent = append(m.sent, n)
	return 42, nil
}
